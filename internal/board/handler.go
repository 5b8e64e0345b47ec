package board

import (
	"context"
	"encoding/json"
	"net/http"

	alertmodel "github.com/Andiyp/nauticalapp/internal/alert/model"
	"github.com/Andiyp/nauticalapp/internal/common/logger"
	sosmodel "github.com/Andiyp/nauticalapp/internal/sos/model"
)

type AlertLister interface {
	List(ctx context.Context) ([]alertmodel.Alert, error)
}

type SOSLister interface {
	List(ctx context.Context, status *sosmodel.Status) ([]sosmodel.SOSRequest, error)
}

type Handler struct {
	alerts AlertLister
	sos    SOSLister
}

func NewHandler(alerts AlertLister, sos SOSLister) *Handler {
	return &Handler{alerts: alerts, sos: sos}
}

// Get serves the merged message board. Distress requests of every status are
// included so resolved cases stay visible in the history.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.alerts.List(r.Context())
	if err != nil {
		logger.Error("get_board", "failed to load alerts", "", "", err.Error())
		http.Error(w, "failed to load board", http.StatusInternalServerError)
		return
	}

	requests, err := h.sos.List(r.Context(), nil)
	if err != nil {
		logger.Error("get_board", "failed to load sos requests", "", "", err.Error())
		http.Error(w, "failed to load board", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(Merge(alerts, requests))
}
