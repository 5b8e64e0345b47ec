package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/Andiyp/nauticalapp/internal/common/auth"
	"github.com/Andiyp/nauticalapp/internal/common/logger"
	"github.com/Andiyp/nauticalapp/internal/common/mq"
	"github.com/Andiyp/nauticalapp/internal/user/handler/dto"
	"github.com/Andiyp/nauticalapp/internal/user/model"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type UserRepository interface {
	BeginTx(ctx context.Context) (pgx.Tx, error)
	CreateUser(ctx context.Context, tx pgx.Tx, user model.User) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id string) (model.User, error)
	UpdateProfile(ctx context.Context, userID string, upd model.ProfileUpdate) (model.User, error)
	Fleet(ctx context.Context) ([]model.User, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	MarkOnline(ctx context.Context, userID string) error
	InsertResetToken(ctx context.Context, userID, token string, expiresAt time.Time) error
	ConsumeResetToken(ctx context.Context, token string) (string, error)
}

type ChangePublisher interface {
	PublishChange(ctx context.Context, ev mq.ChangeEvent) error
}

type AuthService struct {
	userRepo      UserRepository
	jwtManager    *auth.Manager
	events        ChangePublisher
	resetTokenTTL time.Duration
}

func NewAuthService(userRepo UserRepository, tokenManager *auth.Manager, events ChangePublisher, resetTokenTTL time.Duration) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		jwtManager:    tokenManager,
		events:        events,
		resetTokenTTL: resetTokenTTL,
	}
}

// Register creates the account and its profile document in one transaction.
// Role and blocked flag are fixed server-side: every new account starts as a
// plain, unblocked user.
func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (model.User, error) {
	const action = "register_user"

	logger.Info(action, "registration process started", "", "")

	if err := req.Validate(); err != nil {
		logger.Warn(action, "validation failed", "", "", err.Error())
		return model.User{}, fmt.Errorf("validation error: %w", err)
	}

	tx, err := s.userRepo.BeginTx(ctx)
	if err != nil {
		logger.Error(action, "failed to start transaction", "", "", err.Error())
		return model.User{}, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			logger.Warn(action, "rollback failed", "", "", err.Error())
		}
	}()

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error(action, "failed to hash password", "", "", err.Error())
		return model.User{}, err
	}

	user := model.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: string(hash),
		IsSkipper:    req.IsSkipper,
		BoatName:     req.BoatName,
		BoatType:     req.BoatType,
		Phone:        req.Phone,
	}
	if req.IsSkipper {
		first, last := req.SkipperFirstName, req.SkipperLastName
		user.SkipperFirstName = &first
		user.SkipperLastName = &last
	}

	createdUser, err := s.userRepo.CreateUser(ctx, tx, user)
	if err != nil {
		logger.Error(action, "failed to create user", "", "", err.Error())
		return model.User{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		logger.Error(action, "failed to commit transaction", "", createdUser.ID, err.Error())
		return model.User{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.publishUsersChanged(ctx, "created", createdUser.ID)

	logger.Info(action, "user successfully registered", "", createdUser.ID)
	return createdUser, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, string, error) {
	const action = "login_user"

	logger.Info(action, fmt.Sprintf("login attempt for user: %s", email), "", "")

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		logger.Warn(action, "user not found", "", "", err.Error())
		return "", "", ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		logger.Warn(action, "invalid credentials", "", user.ID, "")
		return "", "", ErrInvalidCredentials
	}

	access, refresh, err := s.jwtManager.GenerateTokens(user.ID, string(user.Role))
	if err != nil {
		logger.Error(action, "failed to generate tokens", "", user.ID, err.Error())
		return "", "", err
	}

	// Sign-in marks the boat online. A failure here degrades to a log line,
	// the session itself is already valid.
	if err := s.userRepo.MarkOnline(ctx, user.ID); err != nil {
		logger.Warn(action, "failed to mark user online", "", user.ID, err.Error())
	} else {
		s.publishUsersChanged(ctx, "presence", user.ID)
	}

	logger.Info(action, "user successfully logged in", "", user.ID)
	return access, refresh, nil
}

func (s *AuthService) RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (dto.RefreshTokenResponse, error) {
	const action = "refresh_token"

	claims, err := s.jwtManager.ParseToken(req.RefreshToken)
	if err != nil {
		logger.Warn(action, "invalid refresh token", "", "", err.Error())
		return dto.RefreshTokenResponse{}, fmt.Errorf("invalid refresh token: %w", err)
	}

	if claims.Type != "refresh" {
		logger.Warn(action, "provided token is not a refresh token", "", claims.UserID, "")
		return dto.RefreshTokenResponse{}, fmt.Errorf("provided token is not a refresh token")
	}

	accessToken, refreshToken, err := s.jwtManager.GenerateTokens(claims.UserID, claims.Role)
	if err != nil {
		logger.Error(action, "failed to generate tokens", "", claims.UserID, err.Error())
		return dto.RefreshTokenResponse{}, fmt.Errorf("failed to generate tokens: %w", err)
	}

	logger.Info(action, "tokens successfully refreshed", "", claims.UserID)
	return dto.RefreshTokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	const action = "change_password"

	if len(newPassword) < 8 {
		return fmt.Errorf("validation error: password must be at least 8 characters")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		logger.Error(action, "user not found", "", userID, err.Error())
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)) != nil {
		logger.Warn(action, "current password mismatch", "", userID, "")
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, string(hash)); err != nil {
		logger.Error(action, "failed to update password", "", userID, err.Error())
		return err
	}

	logger.Info(action, "password changed", "", userID)
	return nil
}

// RequestPasswordReset issues a single-use token. Delivery (email) is an
// external collaborator; the token is returned to the caller wiring so it can
// be handed to whatever transport is configured.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	const action = "request_password_reset"

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		// Do not reveal whether the email exists.
		logger.Warn(action, "reset requested for unknown email", "", "", err.Error())
		return "", nil
	}

	token := uuid.NewString()
	expiresAt := time.Now().Add(s.resetTokenTTL)

	if err := s.userRepo.InsertResetToken(ctx, user.ID, token, expiresAt); err != nil {
		logger.Error(action, "failed to store reset token", "", user.ID, err.Error())
		return "", err
	}

	logger.Info(action, "password reset token issued", "", user.ID)
	return token, nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	const action = "reset_password"

	if len(newPassword) < 8 {
		return fmt.Errorf("validation error: password must be at least 8 characters")
	}

	userID, err := s.userRepo.ConsumeResetToken(ctx, token)
	if err != nil {
		logger.Warn(action, "reset token rejected", "", "", err.Error())
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, string(hash)); err != nil {
		logger.Error(action, "failed to update password", "", userID, err.Error())
		return err
	}

	logger.Info(action, "password reset completed", "", userID)
	return nil
}

func (s *AuthService) publishUsersChanged(ctx context.Context, change, entityID string) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishChange(ctx, mq.ChangeEvent{
		Collection: mq.CollectionUsers,
		Action:     change,
		EntityID:   entityID,
	}); err != nil {
		logger.Warn("publish_users_changed", "failed to publish change event", "", entityID, err.Error())
	}
}
