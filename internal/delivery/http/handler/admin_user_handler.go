package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"clinic-booking-api/internal/delivery/dto"
	"clinic-booking-api/internal/delivery/http/middleware"
	"clinic-booking-api/internal/service"
	"clinic-booking-api/internal/usecase"
	"clinic-booking-api/pkg/response"
	"clinic-booking-api/pkg/validator"

	"github.com/gorilla/mux"
)

type AdminUserHandler struct {
	adminUserUsecase   usecase.AdminUserUsecase
	consistencyService service.ConsistencyService
	validator          *validator.CustomValidator
}

func NewAdminUserHandler(
	adminUserUsecase usecase.AdminUserUsecase,
	consistencyService service.ConsistencyService,
	validator *validator.CustomValidator,
) *AdminUserHandler {
	return &AdminUserHandler{
		adminUserUsecase:   adminUserUsecase,
		consistencyService: consistencyService,
		validator:          validator,
	}
}

// ListUsers handles GET /api/admin/users
func (h *AdminUserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.adminUserUsecase.ListUsers(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to list users")
		return
	}

	response.Success(w, http.StatusOK, "Users retrieved", users)
}

// ChangeRole handles PUT /api/admin/users/{userId}/role
func (h *AdminUserHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID, err := strconv.ParseUint(vars["userId"], 10, 32)
	if err != nil || userID == 0 {
		response.Error(w, http.StatusBadRequest, "Invalid user ID", nil)
		return
	}

	var req dto.ChangeRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	actorID, _ := middleware.GetUserIDFromContext(r.Context())

	user, err := h.adminUserUsecase.ChangeRole(r.Context(), uint(userID), &req, &actorID)
	if err != nil {
		switch err {
		case usecase.ErrUserNotFound:
			response.NotFound(w, "User not found")
		case usecase.ErrInvalidRole, usecase.ErrRoleNotFound:
			response.Error(w, http.StatusBadRequest, "Invalid role", nil)
		default:
			response.InternalServerError(w, "Failed to change role")
		}
		return
	}

	response.Success(w, http.StatusOK, "Role updated", user)
}

// DeleteUser handles DELETE /api/admin/users/{userId}
func (h *AdminUserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID, err := strconv.ParseUint(vars["userId"], 10, 32)
	if err != nil || userID == 0 {
		response.Error(w, http.StatusBadRequest, "Invalid user ID", nil)
		return
	}

	actorID, _ := middleware.GetUserIDFromContext(r.Context())
	if actorID == uint(userID) {
		response.Error(w, http.StatusBadRequest, "You cannot delete your own account", nil)
		return
	}

	if err := h.adminUserUsecase.DeleteUser(r.Context(), uint(userID), &actorID); err != nil {
		if err == usecase.ErrUserNotFound {
			response.NotFound(w, "User not found")
			return
		}
		response.InternalServerError(w, "Failed to delete user")
		return
	}

	response.Success(w, http.StatusOK, "User deleted", nil)
}

// Diagnostics handles GET /api/admin/diagnostics
func (h *AdminUserHandler) Diagnostics(w http.ResponseWriter, r *http.Request) {
	report, err := h.consistencyService.CheckRoleProfiles(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to run diagnostics")
		return
	}

	response.Success(w, http.StatusOK, "Diagnostics complete", report)
}
