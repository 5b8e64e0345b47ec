package service

import (
	"context"

	"github.com/Andiyp/nauticalapp/internal/common/logger"
	"github.com/Andiyp/nauticalapp/internal/user/model"
)

// GetProfile returns the caller's own profile document.
func (s *AuthService) GetProfile(ctx context.Context, userID string) (model.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// Fleet is the map view: every visible boat with its last known position and
// online flag.
func (s *AuthService) Fleet(ctx context.Context) ([]model.User, error) {
	return s.userRepo.Fleet(ctx)
}

// UpdateProfile applies owner-writable fields only. The update type has no
// role or blocked fields, so a crafted request body cannot escalate.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, upd model.ProfileUpdate) (model.User, error) {
	const action = "update_profile"

	updated, err := s.userRepo.UpdateProfile(ctx, userID, upd)
	if err != nil {
		logger.Error(action, "failed to update profile", "", userID, err.Error())
		return model.User{}, err
	}

	s.publishUsersChanged(ctx, "updated", userID)

	logger.Info(action, "profile updated", "", userID)
	return updated, nil
}
