package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"clinic-booking-api/internal/delivery/dto"
	"clinic-booking-api/internal/delivery/http/middleware"
	"clinic-booking-api/internal/domain/entity"
	"clinic-booking-api/internal/usecase"
	"clinic-booking-api/pkg/response"
	"clinic-booking-api/pkg/validator"

	"github.com/gorilla/mux"
)

type DoctorScheduleHandler struct {
	scheduleUsecase usecase.DoctorScheduleUsecase
	validator       *validator.CustomValidator
}

func NewDoctorScheduleHandler(scheduleUsecase usecase.DoctorScheduleUsecase, validator *validator.CustomValidator) *DoctorScheduleHandler {
	return &DoctorScheduleHandler{
		scheduleUsecase: scheduleUsecase,
		validator:       validator,
	}
}

// GetSchedule handles GET /api/doctors/schedule/{doctorId}
func (h *DoctorScheduleHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := h.resolveDoctorID(w, r)
	if !ok {
		return
	}

	schedule, err := h.scheduleUsecase.GetSchedule(r.Context(), doctorID)
	if err != nil {
		if err == usecase.ErrDoctorNotFound {
			response.NotFound(w, "Doctor not found")
			return
		}
		response.InternalServerError(w, "Failed to get schedule")
		return
	}

	response.Success(w, http.StatusOK, "Schedule retrieved", schedule)
}

// UpdateSchedule handles POST /api/doctors/schedule/{doctorId}
func (h *DoctorScheduleHandler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := h.resolveDoctorID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	actorID, _ := middleware.GetUserIDFromContext(r.Context())

	updated, err := h.scheduleUsecase.OverwriteSchedule(r.Context(), doctorID, actorID, &req)
	if err != nil {
		if err == usecase.ErrDoctorNotFound {
			response.NotFound(w, "Doctor not found")
			return
		}
		response.InternalServerError(w, "Failed to update schedule")
		return
	}

	response.Success(w, http.StatusOK, "Schedule updated", updated)
}

// resolveDoctorID parses the path id and enforces ownership: a doctor may
// only touch their own schedule, an admin may touch any.
func (h *DoctorScheduleHandler) resolveDoctorID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	vars := mux.Vars(r)
	doctorID, err := strconv.ParseUint(vars["doctorId"], 10, 32)
	if err != nil || doctorID == 0 {
		response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
		return 0, false
	}

	userID, _ := middleware.GetUserIDFromContext(r.Context())
	roleID, _ := middleware.GetRoleIDFromContext(r.Context())
	if roleID != entity.RoleIDAdmin && userID != uint(doctorID) {
		response.Forbidden(w, "You can only manage your own schedule")
		return 0, false
	}

	return uint(doctorID), true
}
