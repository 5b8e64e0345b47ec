package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Andiyp/nauticalapp/internal/alert/model"
	"github.com/Andiyp/nauticalapp/internal/alert/repository"
	"github.com/Andiyp/nauticalapp/internal/alert/service"
	"github.com/Andiyp/nauticalapp/internal/common/auth"
)

type AlertHandler struct {
	alertService *service.AlertService
}

func NewAlertHandler(alertService *service.AlertService) *AlertHandler {
	return &AlertHandler{alertService: alertService}
}

type createAlertRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func (h *AlertHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity := auth.FromContext(r)

	var req createAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	created, err := h.alertService.Create(r.Context(), identity.UserID, req.Title, req.Content)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *AlertHandler) Delete(w http.ResponseWriter, r *http.Request) {
	alertID := r.PathValue("id")

	if err := h.alertService.Delete(r.Context(), alertID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "alert not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to delete alert", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AlertHandler) List(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.alertService.List(r.Context())
	if err != nil {
		http.Error(w, "failed to load alerts", http.StatusInternalServerError)
		return
	}
	if alerts == nil {
		alerts = make([]model.Alert, 0)
	}

	writeJSON(w, http.StatusOK, alerts)
}
