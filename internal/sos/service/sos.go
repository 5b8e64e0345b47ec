package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Andiyp/nauticalapp/internal/common/logger"
	"github.com/Andiyp/nauticalapp/internal/common/mq"
	"github.com/Andiyp/nauticalapp/internal/sos/handler/dto"
	"github.com/Andiyp/nauticalapp/internal/sos/model"
	usermodel "github.com/Andiyp/nauticalapp/internal/user/model"
)

type SOSRepository interface {
	Insert(ctx context.Context, s model.SOSRequest) (model.SOSRequest, error)
	GetByID(ctx context.Context, id string) (model.SOSRequest, error)
	Accept(ctx context.Context, id, acceptorID, acceptorBoatName string) (model.SOSRequest, error)
	Resolve(ctx context.Context, id string) (model.SOSRequest, bool, error)
	List(ctx context.Context, status *model.Status) ([]model.SOSRequest, error)
}

type ProfileSource interface {
	GetByID(ctx context.Context, id string) (usermodel.User, error)
}

type ChangePublisher interface {
	PublishChange(ctx context.Context, ev mq.ChangeEvent) error
}

type SOSService struct {
	repo     SOSRepository
	profiles ProfileSource
	events   ChangePublisher
}

func NewSOSService(repo SOSRepository, profiles ProfileSource, events ChangePublisher) *SOSService {
	return &SOSService{repo: repo, profiles: profiles, events: events}
}

// Create builds the distress record from the caller's profile and the
// submitted position. A missing location is rejected before anything is
// written; status and timestamp are assigned by the store.
func (s *SOSService) Create(ctx context.Context, userID string, req dto.CreateRequest) (model.SOSRequest, error) {
	const action = "create_sos"

	if err := req.Validate(); err != nil {
		logger.Warn(action, "invalid sos request", "", userID, err.Error())
		return model.SOSRequest{}, fmt.Errorf("validation error: %w", err)
	}

	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		logger.Error(action, "failed to load requester profile", "", userID, err.Error())
		return model.SOSRequest{}, err
	}

	var details *string
	if trimmed := strings.TrimSpace(req.Details); trimmed != "" {
		details = &trimmed
	}

	record := model.SOSRequest{
		ID:          uuid.NewString(),
		UserID:      userID,
		BoatName:    profile.BoatName,
		Type:        req.Type,
		Location:    *req.Location,
		Phone:       profile.Phone,
		Details:     details,
		SkipperName: profile.SkipperName(),
		BoatType:    profile.BoatType,
	}

	created, err := s.repo.Insert(ctx, record)
	if err != nil {
		logger.Error(action, "failed to insert sos request", "", userID, err.Error())
		return model.SOSRequest{}, err
	}

	s.publishSOSChanged(ctx, "created", created.ID)

	logger.Info(action, fmt.Sprintf("sos %s created by %s", created.Type, profile.BoatName), "", created.ID)
	return created, nil
}

// Accept answers an active request on behalf of another boat. The
// conditional write in the repository guarantees at most one acceptor wins a
// race; this layer only resolves the acceptor's display data.
func (s *SOSService) Accept(ctx context.Context, requestID, acceptorID string) (model.SOSRequest, error) {
	const action = "accept_sos"

	acceptor, err := s.profiles.GetByID(ctx, acceptorID)
	if err != nil {
		logger.Error(action, "failed to load acceptor profile", "", acceptorID, err.Error())
		return model.SOSRequest{}, err
	}

	accepted, err := s.repo.Accept(ctx, requestID, acceptorID, acceptor.BoatName)
	if err != nil {
		logger.Warn(action, "accept rejected", "", requestID, err.Error())
		return model.SOSRequest{}, err
	}

	s.publishSOSChanged(ctx, "accepted", requestID)

	logger.Info(action, fmt.Sprintf("sos accepted by %s", acceptor.BoatName), "", requestID)
	return accepted, nil
}

// Resolve is the admin transition out of the lifecycle. It is idempotent:
// resolving a resolved request succeeds without a write and without an event.
func (s *SOSService) Resolve(ctx context.Context, requestID string) (model.SOSRequest, bool, error) {
	const action = "resolve_sos"

	resolved, changed, err := s.repo.Resolve(ctx, requestID)
	if err != nil {
		logger.Error(action, "resolve failed", "", requestID, err.Error())
		return model.SOSRequest{}, false, err
	}

	if changed {
		s.publishSOSChanged(ctx, "resolved", requestID)
		logger.Info(action, "sos resolved", "", requestID)
	} else {
		logger.Debug(action, "sos already resolved", "", requestID)
	}
	return resolved, changed, nil
}

func (s *SOSService) List(ctx context.Context, status *model.Status) ([]model.SOSRequest, error) {
	return s.repo.List(ctx, status)
}

func (s *SOSService) publishSOSChanged(ctx context.Context, change, entityID string) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishChange(ctx, mq.ChangeEvent{
		Collection: mq.CollectionSOS,
		Action:     change,
		EntityID:   entityID,
	}); err != nil {
		logger.Warn("publish_sos_changed", "failed to publish change event", "", entityID, err.Error())
	}
}
