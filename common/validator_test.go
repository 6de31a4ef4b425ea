package common

import (
	"net/http"
	"net/http/httptest"
	"os"
	"staff-api/logger"
	"staff-api/model"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func TestValidateAndDecode(t *testing.T) {
	newReq := func(body string) *http.Request {
		return httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	}

	t.Run("valid payload", func(t *testing.T) {
		var req model.RegisterRequest
		appErr := ValidateAndDecode(newReq(`{"username":"jane_doe1","password":"password123"}`), &req)
		assert.Nil(t, appErr)
		assert.Equal(t, "jane_doe1", req.Username)
	})

	t.Run("malformed json", func(t *testing.T) {
		var req model.RegisterRequest
		appErr := ValidateAndDecode(newReq(`{"username":`), &req)
		if assert.NotNil(t, appErr) {
			assert.Equal(t, http.StatusBadRequest, appErr.Code)
			assert.Equal(t, "Invalid request body", appErr.Message)
		}
	})

	t.Run("username with uppercase fails", func(t *testing.T) {
		var req model.RegisterRequest
		appErr := ValidateAndDecode(newReq(`{"username":"Jane","password":"password123"}`), &req)
		if assert.NotNil(t, appErr) {
			assert.Equal(t, http.StatusBadRequest, appErr.Code)
		}
	})

	t.Run("password under minimum fails", func(t *testing.T) {
		var req model.RegisterRequest
		appErr := ValidateAndDecode(newReq(`{"username":"jane","password":"short"}`), &req)
		assert.NotNil(t, appErr)
	})
}

func TestValidateStruct_CustomValidators(t *testing.T) {
	type nameHolder struct {
		Name string `validate:"alpha_space"`
	}

	assert.Nil(t, ValidateStruct(nameHolder{Name: "Jane Doe"}))
	assert.NotNil(t, ValidateStruct(nameHolder{Name: "Jane42"}))
	assert.NotNil(t, ValidateStruct(nameHolder{Name: "Jane-Doe"}))
}

func TestValidateStruct_StaffFilter(t *testing.T) {
	valid := model.StaffFilter{Page: 1, Limit: 10, Status: "active", SortBy: "salary", SortOrder: "asc"}
	assert.Nil(t, ValidateStruct(valid))

	tooBig := model.StaffFilter{Page: 1, Limit: 200}
	assert.NotNil(t, ValidateStruct(tooBig))

	badSort := model.StaffFilter{Page: 1, Limit: 10, SortBy: "id; DROP TABLE staff"}
	assert.NotNil(t, ValidateStruct(badSort))
}
