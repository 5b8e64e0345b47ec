package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Andiyp/nauticalapp/internal/common/logger"
	"github.com/Andiyp/nauticalapp/internal/common/mq"
	usermodel "github.com/Andiyp/nauticalapp/internal/user/model"
)

// FailureKind names the reasons a client may fail to obtain a position fix.
type FailureKind string

const (
	FailurePermissionDenied    FailureKind = "permission_denied"
	FailurePositionUnavailable FailureKind = "position_unavailable"
	FailureTimeout             FailureKind = "timeout"
)

func (k FailureKind) Valid() bool {
	return k == FailurePermissionDenied || k == FailurePositionUnavailable || k == FailureTimeout
}

type PresenceRepository interface {
	SetOnline(ctx context.Context, userID string) error
	SetOffline(ctx context.Context, userID string) error
	UpdateLocation(ctx context.Context, userID string, loc usermodel.Location) error
	MarkStale(ctx context.Context, olderThan time.Duration) ([]string, error)
}

type ChangePublisher interface {
	PublishChange(ctx context.Context, ev mq.ChangeEvent) error
}

type PresenceService struct {
	repo   PresenceRepository
	events ChangePublisher
}

func NewPresenceService(repo PresenceRepository, events ChangePublisher) *PresenceService {
	return &PresenceService{repo: repo, events: events}
}

func (s *PresenceService) Online(ctx context.Context, userID string) error {
	if err := s.repo.SetOnline(ctx, userID); err != nil {
		logger.Error("presence_online", "failed to mark user online", "", userID, err.Error())
		return err
	}
	s.publishPresenceChanged(ctx, userID)
	return nil
}

func (s *PresenceService) Offline(ctx context.Context, userID string) error {
	if err := s.repo.SetOffline(ctx, userID); err != nil {
		logger.Error("presence_offline", "failed to mark user offline", "", userID, err.Error())
		return err
	}
	s.publishPresenceChanged(ctx, userID)
	return nil
}

// ReportLocation takes either a fix or a failure reason. A failure keeps the
// user online at their last known position; only the fix moves the marker.
func (s *PresenceService) ReportLocation(ctx context.Context, userID string, loc *usermodel.Location, failure *FailureKind) error {
	const action = "report_location"

	if loc == nil && failure == nil {
		return fmt.Errorf("validation error: a report needs a location or a failure reason")
	}
	if loc != nil && failure != nil {
		return fmt.Errorf("validation error: a report cannot carry both a location and a failure")
	}

	if failure != nil {
		if !failure.Valid() {
			return fmt.Errorf("validation error: unknown failure reason %q", *failure)
		}
		logger.Warn(action, fmt.Sprintf("position fix failed: %s", *failure), "", userID, "")
		// The heartbeat still counts: the user stays online.
		return s.Online(ctx, userID)
	}

	if err := s.repo.UpdateLocation(ctx, userID, *loc); err != nil {
		logger.Error(action, "failed to store location", "", userID, err.Error())
		return err
	}
	s.publishPresenceChanged(ctx, userID)
	return nil
}

// SweepStale marks users silent for longer than olderThan as offline and
// announces one change per affected user.
func (s *PresenceService) SweepStale(ctx context.Context, olderThan time.Duration) (int, error) {
	ids, err := s.repo.MarkStale(ctx, olderThan)
	if err != nil {
		logger.Error("presence_sweep", "stale sweep failed", "", "", err.Error())
		return 0, err
	}
	for _, id := range ids {
		s.publishPresenceChanged(ctx, id)
	}
	if len(ids) > 0 {
		logger.Info("presence_sweep", fmt.Sprintf("marked %d users offline", len(ids)), "", "")
	}
	return len(ids), nil
}

func (s *PresenceService) publishPresenceChanged(ctx context.Context, userID string) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishChange(ctx, mq.ChangeEvent{
		Collection: mq.CollectionUsers,
		Action:     "presence",
		EntityID:   userID,
	}); err != nil {
		logger.Warn("publish_presence_changed", "failed to publish change event", "", userID, err.Error())
	}
}
