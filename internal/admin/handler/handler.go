package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Andiyp/nauticalapp/internal/admin/repository"
	"github.com/Andiyp/nauticalapp/internal/admin/service"
	"github.com/Andiyp/nauticalapp/internal/common/auth"
	usermodel "github.com/Andiyp/nauticalapp/internal/user/model"
)

type AdminHandler struct {
	adminService *service.AdminService
}

func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

type setRoleRequest struct {
	Role usermodel.Role `json:"role"`
}

type setBlockedRequest struct {
	Blocked bool `json:"blocked"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	identity := auth.FromContext(r)

	users, err := h.adminService.ListUsers(r.Context(), identity.UserID)
	if err != nil {
		http.Error(w, "failed to load users", http.StatusInternalServerError)
		return
	}
	if users == nil {
		users = make([]usermodel.User, 0)
	}

	writeJSON(w, http.StatusOK, users)
}

func (h *AdminHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	identity := auth.FromContext(r)
	userID := r.PathValue("id")

	var req setRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := h.adminService.SetRole(r.Context(), identity.UserID, userID, req.Role)
	if err != nil {
		h.writeModerationError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *AdminHandler) SetBlocked(w http.ResponseWriter, r *http.Request) {
	identity := auth.FromContext(r)
	userID := r.PathValue("id")

	var req setBlockedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := h.adminService.SetBlocked(r.Context(), identity.UserID, userID, req.Blocked)
	if err != nil {
		h.writeModerationError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *AdminHandler) writeModerationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		http.Error(w, "user not found", http.StatusNotFound)
	case errors.Is(err, service.ErrSelfModeration):
		http.Error(w, "cannot moderate your own account", http.StatusForbidden)
	default:
		http.Error(w, err.Error(), http.StatusBadRequest)
	}
}
