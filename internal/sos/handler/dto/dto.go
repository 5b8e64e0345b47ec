package dto

import (
	"fmt"

	"github.com/Andiyp/nauticalapp/internal/sos/model"
	usermodel "github.com/Andiyp/nauticalapp/internal/user/model"
)

type CreateRequest struct {
	Type     model.Type          `json:"type"`
	Location *usermodel.Location `json:"location"`
	Details  string              `json:"details,omitempty"`
}

func (r CreateRequest) Validate() error {
	if !r.Type.Valid() {
		return fmt.Errorf("unknown emergency type %q", r.Type)
	}
	if r.Location == nil {
		return fmt.Errorf("position unavailable: an SOS cannot be sent without a location")
	}
	return nil
}

type CreateResponse struct {
	RequestID string       `json:"request_id"`
	Status    model.Status `json:"status"`
}

type ResolveResponse struct {
	RequestID       string       `json:"request_id"`
	Status          model.Status `json:"status"`
	AlreadyResolved bool         `json:"already_resolved"`
}
