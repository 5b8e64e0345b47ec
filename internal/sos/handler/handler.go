package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Andiyp/nauticalapp/internal/common/auth"
	"github.com/Andiyp/nauticalapp/internal/sos/handler/dto"
	"github.com/Andiyp/nauticalapp/internal/sos/model"
	"github.com/Andiyp/nauticalapp/internal/sos/repository"
	"github.com/Andiyp/nauticalapp/internal/sos/service"
)

type SOSHandler struct {
	sosService *service.SOSService
}

func NewSOSHandler(sosService *service.SOSService) *SOSHandler {
	return &SOSHandler{sosService: sosService}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func (h *SOSHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity := auth.FromContext(r)

	var req dto.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	created, err := h.sosService.Create(r.Context(), identity.UserID, req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, dto.CreateResponse{
		RequestID: created.ID,
		Status:    created.Status,
	})
}

func (h *SOSHandler) Accept(w http.ResponseWriter, r *http.Request) {
	identity := auth.FromContext(r)
	requestID := r.PathValue("id")

	accepted, err := h.sosService.Accept(r.Context(), requestID, identity.UserID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			http.Error(w, "sos request not found", http.StatusNotFound)
		case errors.Is(err, model.ErrSelfAccept):
			http.Error(w, "cannot accept your own request", http.StatusForbidden)
		case errors.Is(err, model.ErrNotAcceptable):
			http.Error(w, "request is no longer active", http.StatusConflict)
		default:
			http.Error(w, "failed to accept request", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, accepted)
}

func (h *SOSHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	requestID := r.PathValue("id")

	resolved, changed, err := h.sosService.Resolve(r.Context(), requestID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "sos request not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to resolve request", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, dto.ResolveResponse{
		RequestID:       resolved.ID,
		Status:          resolved.Status,
		AlreadyResolved: !changed,
	})
}

func (h *SOSHandler) List(w http.ResponseWriter, r *http.Request) {
	var status *model.Status
	if raw := r.URL.Query().Get("status"); raw != "" {
		candidate := model.Status(raw)
		if !candidate.Valid() {
			http.Error(w, "unknown status filter", http.StatusBadRequest)
			return
		}
		status = &candidate
	}

	requests, err := h.sosService.List(r.Context(), status)
	if err != nil {
		http.Error(w, "failed to load sos requests", http.StatusInternalServerError)
		return
	}
	if requests == nil {
		requests = make([]model.SOSRequest, 0)
	}

	writeJSON(w, http.StatusOK, requests)
}
