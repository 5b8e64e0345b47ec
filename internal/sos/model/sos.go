package model

import (
	"errors"
	"fmt"
	"time"

	usermodel "github.com/Andiyp/nauticalapp/internal/user/model"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusAccepted Status = "accepted"
	StatusResolved Status = "resolved"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusAccepted || s == StatusResolved
}

type Type string

const (
	TypeEngineFailure    Type = "engine_failure"
	TypeMedicalEmergency Type = "medical_emergency"
	TypeAdrift           Type = "adrift"
	TypeManOverboard     Type = "man_overboard"
	TypeSinking          Type = "sinking"
	TypeDismasted        Type = "dismasted"
	TypeAground          Type = "aground"
)

var AllTypes = []Type{
	TypeEngineFailure,
	TypeMedicalEmergency,
	TypeAdrift,
	TypeManOverboard,
	TypeSinking,
	TypeDismasted,
	TypeAground,
}

func (t Type) Valid() bool {
	for _, known := range AllTypes {
		if t == known {
			return true
		}
	}
	return false
}

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrSelfAccept        = errors.New("requester cannot accept their own request")
	ErrNotAcceptable     = errors.New("request is no longer active")
)

// Transition checks the forward-only lifecycle: active → accepted → resolved,
// with the admin shortcut active → resolved. Nothing moves backwards and no
// transition removes a record.
func Transition(from, to Status) error {
	switch {
	case from == StatusActive && to == StatusAccepted:
		return nil
	case from == StatusActive && to == StatusResolved:
		return nil
	case from == StatusAccepted && to == StatusResolved:
		return nil
	default:
		return fmt.Errorf("%w: %s → %s", ErrInvalidTransition, from, to)
	}
}

// Acceptance records who answered the call. Set exactly once, by the first
// accepting actor, while the request is still active.
type Acceptance struct {
	UserID     string    `json:"uid" db:"accepted_by_user_id"`
	BoatName   string    `json:"boat_name" db:"accepted_by_boat_name"`
	AcceptedAt time.Time `json:"accepted_at" db:"accepted_at"`
}

type SOSRequest struct {
	ID          string             `json:"id" db:"id"`
	UserID      string             `json:"user_id" db:"user_id"`
	BoatName    string             `json:"boat_name" db:"boat_name"`
	Type        Type               `json:"type" db:"type"`
	Location    usermodel.Location `json:"location"`
	Status      Status             `json:"status" db:"status"`
	CreatedAt   time.Time          `json:"created_at" db:"created_at"`
	Phone       string             `json:"phone" db:"phone"`
	Details     *string            `json:"details" db:"details"`
	SkipperName *string            `json:"skipper_name" db:"skipper_name"`
	BoatType    usermodel.BoatType `json:"boat_type" db:"boat_type"`
	AcceptedBy  *Acceptance        `json:"accepted_by,omitempty"`
}

// CanBeAcceptedBy is the read-side predicate the UI uses to decide whether to
// offer the accept action at all; the repository re-checks it in the write.
func (s SOSRequest) CanBeAcceptedBy(userID string) error {
	if s.Status != StatusActive {
		return ErrNotAcceptable
	}
	if s.UserID == userID {
		return ErrSelfAccept
	}
	return nil
}
