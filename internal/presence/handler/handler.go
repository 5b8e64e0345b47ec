package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Andiyp/nauticalapp/internal/common/auth"
	"github.com/Andiyp/nauticalapp/internal/presence/repository"
	"github.com/Andiyp/nauticalapp/internal/presence/service"
	usermodel "github.com/Andiyp/nauticalapp/internal/user/model"
)

type PresenceHandler struct {
	presenceService *service.PresenceService
}

func NewPresenceHandler(presenceService *service.PresenceService) *PresenceHandler {
	return &PresenceHandler{presenceService: presenceService}
}

type locationReport struct {
	Location *usermodel.Location  `json:"location"`
	Failure  *service.FailureKind `json:"failure"`
}

type statusResponse struct {
	Status string `json:"status"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func (h *PresenceHandler) Online(w http.ResponseWriter, r *http.Request) {
	identity := auth.FromContext(r)

	if err := h.presenceService.Online(r.Context(), identity.UserID); err != nil {
		h.writePresenceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "online"})
}

func (h *PresenceHandler) Offline(w http.ResponseWriter, r *http.Request) {
	identity := auth.FromContext(r)

	if err := h.presenceService.Offline(r.Context(), identity.UserID); err != nil {
		h.writePresenceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "offline"})
}

func (h *PresenceHandler) ReportLocation(w http.ResponseWriter, r *http.Request) {
	identity := auth.FromContext(r)

	var report locationReport
	if err := json.NewDecoder(r.Body).Decode(&report); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	err := h.presenceService.ReportLocation(r.Context(), identity.UserID, report.Location, report.Failure)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			h.writePresenceError(w, err)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

func (h *PresenceHandler) writePresenceError(w http.ResponseWriter, err error) {
	if errors.Is(err, repository.ErrUserNotFound) {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}
	http.Error(w, "failed to update presence", http.StatusInternalServerError)
}
