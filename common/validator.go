package common

import (
	"encoding/json"
	"net/http"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

var (
	usernameRe   = regexp.MustCompile(`^[a-z0-9_]+$`)
	alphaSpaceRe = regexp.MustCompile(`^[a-zA-Z ]+$`)
)

func init() {
	// username: lowercase letters, digits and underscores only.
	validate.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameRe.MatchString(fl.Field().String())
	})
	// alpha_space: letters and spaces only, used for person names.
	validate.RegisterValidation("alpha_space", func(fl validator.FieldLevel) bool {
		return alphaSpaceRe.MatchString(fl.Field().String())
	})
}

// ValidateAndDecode decodes the request body into payload and runs the
// validator tags on it. It returns a 400 AppError on failure so handlers can
// bail out with a single check.
func ValidateAndDecode(r *http.Request, payload interface{}) *AppError {
	if err := json.NewDecoder(r.Body).Decode(payload); err != nil {
		return NewAppError(http.StatusBadRequest, "Invalid request body", err)
	}

	if err := validate.Struct(payload); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		return NewAppError(http.StatusBadRequest, validationErrors.Error(), nil)
	}

	return nil
}

// ValidateStruct runs validator tags on an already-populated value, for
// payloads assembled from query parameters instead of a JSON body.
func ValidateStruct(payload interface{}) *AppError {
	if err := validate.Struct(payload); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		return NewAppError(http.StatusBadRequest, validationErrors.Error(), nil)
	}
	return nil
}
