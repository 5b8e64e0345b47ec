package service

import (
	"context"
	"fmt"

	"github.com/Andiyp/nauticalapp/internal/common/logger"
	"github.com/Andiyp/nauticalapp/internal/common/mq"
	usermodel "github.com/Andiyp/nauticalapp/internal/user/model"
)

type AdminRepository interface {
	ListUsersExcept(ctx context.Context, excludeID string) ([]usermodel.User, error)
	SetRole(ctx context.Context, userID string, role usermodel.Role) (usermodel.User, error)
	SetBlocked(ctx context.Context, userID string, blocked bool) (usermodel.User, error)
}

type ChangePublisher interface {
	PublishChange(ctx context.Context, ev mq.ChangeEvent) error
}

var ErrSelfModeration = fmt.Errorf("admins cannot moderate their own account")

type AdminService struct {
	repo   AdminRepository
	events ChangePublisher
}

func NewAdminService(repo AdminRepository, events ChangePublisher) *AdminService {
	return &AdminService{repo: repo, events: events}
}

func (s *AdminService) ListUsers(ctx context.Context, adminID string) ([]usermodel.User, error) {
	return s.repo.ListUsersExcept(ctx, adminID)
}

func (s *AdminService) SetRole(ctx context.Context, adminID, userID string, role usermodel.Role) (usermodel.User, error) {
	const action = "set_role"

	if !role.Valid() {
		return usermodel.User{}, fmt.Errorf("validation error: unknown role %q", role)
	}
	if adminID == userID {
		return usermodel.User{}, ErrSelfModeration
	}

	updated, err := s.repo.SetRole(ctx, userID, role)
	if err != nil {
		logger.Error(action, "failed to change role", "", userID, err.Error())
		return usermodel.User{}, err
	}

	s.publishUsersChanged(ctx, userID)

	logger.Info(action, fmt.Sprintf("role changed to %s", role), "", userID)
	return updated, nil
}

// SetBlocked flips the moderation flag. A blocked member keeps their account
// and history; they are refused at the gate on their next request.
func (s *AdminService) SetBlocked(ctx context.Context, adminID, userID string, blocked bool) (usermodel.User, error) {
	const action = "set_blocked"

	if adminID == userID {
		return usermodel.User{}, ErrSelfModeration
	}

	updated, err := s.repo.SetBlocked(ctx, userID, blocked)
	if err != nil {
		logger.Error(action, "failed to change block flag", "", userID, err.Error())
		return usermodel.User{}, err
	}

	s.publishUsersChanged(ctx, userID)

	logger.Info(action, fmt.Sprintf("blocked=%t", blocked), "", userID)
	return updated, nil
}

func (s *AdminService) publishUsersChanged(ctx context.Context, userID string) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishChange(ctx, mq.ChangeEvent{
		Collection: mq.CollectionUsers,
		Action:     "moderated",
		EntityID:   userID,
	}); err != nil {
		logger.Warn("publish_users_changed", "failed to publish change event", "", userID, err.Error())
	}
}
