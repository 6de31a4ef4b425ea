package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"staff-api/common"
	"staff-api/logger"
	"staff-api/model"
	"staff-api/service"
	"strconv"

	"github.com/sirupsen/logrus"
)

// StaffHandler holds dependencies for staff CRUD endpoints.
type StaffHandler struct {
	service *service.StaffService
}

func NewStaffHandler(s *service.StaffService) *StaffHandler {
	return &StaffHandler{service: s}
}

// CreateStaff godoc
// @Summary      Create a new staff member
// @Description  Create a new staff member with the provided information. Staff must be at least 18 years old.
// @Tags         staff
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        staff body model.CreateStaffRequest true "Staff payload"
// @Success      201  {object}  model.Staff
// @Failure      400  {object}  common.AppError "Invalid payload or underage staff"
// @Failure      401  {object}  common.AppError "Unauthorized"
// @Failure      409  {object}  common.AppError "staff_id already exists"
// @Failure      500  {object}  common.AppError "Internal server error"
// @Router       /api/v1/staff [post]
func (h *StaffHandler) CreateStaff(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.CreateStaffRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	log := logger.Log.WithFields(logrus.Fields{
		"staff_id": req.StaffID,
		"user_id":  r.Context().Value(UserIDKey),
	})
	log.Info("Create staff request received")

	staff, err := h.service.CreateStaff(req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStaffUnderage):
			return common.NewAppError(http.StatusBadRequest, err.Error(), nil)
		case errors.Is(err, service.ErrDuplicateStaffID):
			return common.NewAppError(http.StatusConflict, err.Error(), nil)
		default:
			return common.NewAppError(http.StatusInternalServerError, "Could not create staff", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(staff)
	return nil
}

// GetStaff godoc
// @Summary      Get a staff member
// @Description  Get detailed information about a specific staff member by business id.
// @Tags         staff
// @Produce      json
// @Security     BearerAuth
// @Param        staffID path string true "Staff business identifier"
// @Success      200  {object}  model.Staff
// @Failure      401  {object}  common.AppError "Unauthorized"
// @Failure      404  {object}  common.AppError "Staff not found"
// @Failure      500  {object}  common.AppError "Internal server error"
// @Router       /api/v1/staff/{staffID} [get]
func (h *StaffHandler) GetStaff(w http.ResponseWriter, r *http.Request) *common.AppError {
	staffID := r.PathValue("staffID")

	staff, err := h.service.GetStaff(staffID)
	if err != nil {
		if errors.Is(err, service.ErrStaffNotFound) {
			return common.NewAppError(http.StatusNotFound, err.Error(), nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve staff", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(staff)
	return nil
}

// ListStaff godoc
// @Summary      List staff members
// @Description  Get a paginated list of staff members with optional filters and sorting.
// @Tags         staff
// @Produce      json
// @Security     BearerAuth
// @Param        page        query int    false "Page number"           default(1)
// @Param        limit       query int    false "Items per page (max 100)" default(10)
// @Param        status      query string false "Filter by status"      Enums(active, inactive)
// @Param        name        query string false "Search by name (partial match)"
// @Param        salary_min  query number false "Minimum salary"
// @Param        salary_max  query number false "Maximum salary"
// @Param        sort_by     query string false "Sort field"            Enums(staff_id, name, salary, created_at, status)
// @Param        sort_order  query string false "Sort order"            Enums(asc, desc)
// @Success      200  {object}  model.StaffList
// @Failure      400  {object}  common.AppError "Invalid filter parameters"
// @Failure      401  {object}  common.AppError "Unauthorized"
// @Failure      500  {object}  common.AppError "Internal server error"
// @Router       /api/v1/staff [get]
func (h *StaffHandler) ListStaff(w http.ResponseWriter, r *http.Request) *common.AppError {
	filter, appErr := parseStaffFilter(r)
	if appErr != nil {
		return appErr
	}

	list, err := h.service.ListStaff(filter)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not list staff", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(list)
	return nil
}

// UpdateStaff godoc
// @Summary      Update a staff member
// @Description  Update an existing staff member. Only the provided fields change; staff_id itself may be changed but must stay unique.
// @Tags         staff
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        staffID path string true "Staff business identifier"
// @Param        staff body model.UpdateStaffRequest true "Fields to update"
// @Success      200  {object}  model.Staff
// @Failure      400  {object}  common.AppError "Invalid payload or underage staff"
// @Failure      401  {object}  common.AppError "Unauthorized"
// @Failure      404  {object}  common.AppError "Staff not found"
// @Failure      409  {object}  common.AppError "New staff_id already exists"
// @Failure      500  {object}  common.AppError "Internal server error"
// @Router       /api/v1/staff/{staffID} [put]
func (h *StaffHandler) UpdateStaff(w http.ResponseWriter, r *http.Request) *common.AppError {
	staffID := r.PathValue("staffID")

	var req model.UpdateStaffRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	staff, err := h.service.UpdateStaff(staffID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStaffNotFound):
			return common.NewAppError(http.StatusNotFound, err.Error(), nil)
		case errors.Is(err, service.ErrStaffUnderage):
			return common.NewAppError(http.StatusBadRequest, err.Error(), nil)
		case errors.Is(err, service.ErrDuplicateStaffID):
			return common.NewAppError(http.StatusConflict, err.Error(), nil)
		default:
			return common.NewAppError(http.StatusInternalServerError, "Could not update staff", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(staff)
	return nil
}

// DeleteStaff godoc
// @Summary      Delete a staff member
// @Description  Permanently delete a staff member by business id.
// @Tags         staff
// @Security     BearerAuth
// @Param        staffID path string true "Staff business identifier"
// @Success      204  "Deleted"
// @Failure      401  {object}  common.AppError "Unauthorized"
// @Failure      404  {object}  common.AppError "Staff not found"
// @Failure      500  {object}  common.AppError "Internal server error"
// @Router       /api/v1/staff/{staffID} [delete]
func (h *StaffHandler) DeleteStaff(w http.ResponseWriter, r *http.Request) *common.AppError {
	staffID := r.PathValue("staffID")

	if err := h.service.DeleteStaff(staffID); err != nil {
		if errors.Is(err, service.ErrStaffNotFound) {
			return common.NewAppError(http.StatusNotFound, err.Error(), nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not delete staff", err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

// parseStaffFilter builds and validates the list filter from query params.
func parseStaffFilter(r *http.Request) (model.StaffFilter, *common.AppError) {
	q := r.URL.Query()

	filter := model.StaffFilter{
		Status:    q.Get("status"),
		Name:      q.Get("name"),
		SortBy:    q.Get("sort_by"),
		SortOrder: q.Get("sort_order"),
		Page:      1,
		Limit:     10,
	}

	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil {
			return filter, common.NewAppError(http.StatusBadRequest, "Invalid page parameter", err)
		}
		filter.Page = page
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return filter, common.NewAppError(http.StatusBadRequest, "Invalid limit parameter", err)
		}
		filter.Limit = limit
	}
	if v := q.Get("salary_min"); v != "" {
		min, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return filter, common.NewAppError(http.StatusBadRequest, "Invalid salary_min parameter", err)
		}
		filter.SalaryMin = &min
	}
	if v := q.Get("salary_max"); v != "" {
		max, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return filter, common.NewAppError(http.StatusBadRequest, "Invalid salary_max parameter", err)
		}
		filter.SalaryMax = &max
	}

	if appErr := common.ValidateStruct(filter); appErr != nil {
		return filter, appErr
	}
	return filter, nil
}
