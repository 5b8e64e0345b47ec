package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Andiyp/nauticalapp/internal/common/auth"
	"github.com/Andiyp/nauticalapp/internal/common/mq"
	"github.com/Andiyp/nauticalapp/internal/user/handler/dto"
	"github.com/Andiyp/nauticalapp/internal/user/model"
	"github.com/Andiyp/nauticalapp/internal/user/repository"
)

type fakeTx struct{ pgx.Tx }

func (fakeTx) Commit(context.Context) error   { return nil }
func (fakeTx) Rollback(context.Context) error { return pgx.ErrTxClosed }

type fakeUserRepo struct {
	usersByEmail map[string]model.User
	usersByID    map[string]model.User
	created      []model.User
	onlineMarks  []string
	passwords    map[string]string
	resetTokens  map[string]string
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		usersByEmail: make(map[string]model.User),
		usersByID:    make(map[string]model.User),
		passwords:    make(map[string]string),
		resetTokens:  make(map[string]string),
	}
}

func (f *fakeUserRepo) add(u model.User) {
	f.usersByEmail[u.Email] = u
	f.usersByID[u.ID] = u
}

func (f *fakeUserRepo) BeginTx(context.Context) (pgx.Tx, error) { return fakeTx{}, nil }

func (f *fakeUserRepo) CreateUser(_ context.Context, _ pgx.Tx, user model.User) (model.User, error) {
	if _, exists := f.usersByEmail[user.Email]; exists {
		return model.User{}, repository.ErrEmailTaken
	}
	// Mirror the column defaults.
	user.Role = model.RoleUser
	user.IsBlocked = false
	user.CreatedAt = time.Now()
	f.add(user)
	f.created = append(f.created, user)
	return user, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (model.User, error) {
	u, ok := f.usersByEmail[email]
	if !ok {
		return model.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (model.User, error) {
	u, ok := f.usersByID[id]
	if !ok {
		return model.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) UpdateProfile(_ context.Context, userID string, upd model.ProfileUpdate) (model.User, error) {
	u := f.usersByID[userID]
	if upd.BoatName != nil {
		u.BoatName = *upd.BoatName
	}
	if upd.Phone != nil {
		u.Phone = *upd.Phone
	}
	f.add(u)
	return u, nil
}

func (f *fakeUserRepo) Fleet(context.Context) ([]model.User, error) { return nil, nil }

func (f *fakeUserRepo) UpdatePassword(_ context.Context, userID, hash string) error {
	f.passwords[userID] = hash
	return nil
}

func (f *fakeUserRepo) MarkOnline(_ context.Context, userID string) error {
	f.onlineMarks = append(f.onlineMarks, userID)
	return nil
}

func (f *fakeUserRepo) InsertResetToken(_ context.Context, userID, token string, _ time.Time) error {
	f.resetTokens[token] = userID
	return nil
}

func (f *fakeUserRepo) ConsumeResetToken(_ context.Context, token string) (string, error) {
	userID, ok := f.resetTokens[token]
	if !ok {
		return "", repository.ErrResetTokenInvalid
	}
	delete(f.resetTokens, token)
	return userID, nil
}

type fakePublisher struct {
	events []mq.ChangeEvent
}

func (f *fakePublisher) PublishChange(_ context.Context, ev mq.ChangeEvent) error {
	f.events = append(f.events, ev)
	return nil
}

func newTestService(repo *fakeUserRepo, events *fakePublisher) *AuthService {
	mgr := auth.NewManager("test-secret", time.Hour, 24*time.Hour)
	return NewAuthService(repo, mgr, events, time.Hour)
}

func validRegistration() dto.RegisterRequest {
	return dto.RegisterRequest{
		Email:    "skipper@example.com",
		Password: "long-enough-password",
		BoatName: "Santa Maria",
		BoatType: model.BoatSail,
		Phone:    "+39 333 1234567",
	}
}

func TestRegisterDefaults(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo, &fakePublisher{})

	created, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	assert.Equal(t, model.RoleUser, created.Role)
	assert.False(t, created.IsBlocked)
	assert.Nil(t, created.SkipperName())
	assert.NotEmpty(t, created.ID)
}

func TestRegisterSkipperNameRequiredWhenSkipper(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo, &fakePublisher{})

	req := validRegistration()
	req.IsSkipper = true

	_, err := svc.Register(context.Background(), req)
	require.Error(t, err)
	assert.Empty(t, repo.created)
}

func TestRegisterValidation(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo, &fakePublisher{})

	cases := []struct {
		name   string
		mutate func(*dto.RegisterRequest)
	}{
		{"bad email", func(r *dto.RegisterRequest) { r.Email = "nope" }},
		{"short password", func(r *dto.RegisterRequest) { r.Password = "short" }},
		{"blank boat name", func(r *dto.RegisterRequest) { r.BoatName = "   " }},
		{"bad boat type", func(r *dto.RegisterRequest) { r.BoatType = "canoe" }},
		{"missing phone", func(r *dto.RegisterRequest) { r.Phone = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRegistration()
			tc.mutate(&req)
			_, err := svc.Register(context.Background(), req)
			assert.Error(t, err)
		})
	}
	assert.Empty(t, repo.created)
}

func TestLoginMarksOnlineAndIssuesTokens(t *testing.T) {
	repo := newFakeUserRepo()
	events := &fakePublisher{}
	svc := newTestService(repo, events)

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse-battery"), bcrypt.MinCost)
	require.NoError(t, err)
	repo.add(model.User{ID: "u1", Email: "a@b.it", PasswordHash: string(hash), Role: model.RoleUser})

	access, refresh, err := svc.Login(context.Background(), "a@b.it", "correct-horse-battery")
	require.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)
	assert.Equal(t, []string{"u1"}, repo.onlineMarks)

	require.NotEmpty(t, events.events)
	assert.Equal(t, mq.CollectionUsers, events.events[len(events.events)-1].Collection)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo, &fakePublisher{})

	hash, _ := bcrypt.GenerateFromPassword([]byte("right"), bcrypt.MinCost)
	repo.add(model.User{ID: "u1", Email: "a@b.it", PasswordHash: string(hash)})

	_, _, err := svc.Login(context.Background(), "a@b.it", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Empty(t, repo.onlineMarks)
}

func TestPasswordResetRoundTrip(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo, &fakePublisher{})

	hash, _ := bcrypt.GenerateFromPassword([]byte("old"), bcrypt.MinCost)
	repo.add(model.User{ID: "u1", Email: "a@b.it", PasswordHash: string(hash)})

	token, err := svc.RequestPasswordReset(context.Background(), "a@b.it")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.NoError(t, svc.ResetPassword(context.Background(), token, "brand-new-password"))
	assert.Contains(t, repo.passwords, "u1")

	// Single use: redeeming again fails.
	err = svc.ResetPassword(context.Background(), token, "another-password")
	assert.ErrorIs(t, err, repository.ErrResetTokenInvalid)
}

func TestPasswordResetUnknownEmailIsSilent(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo, &fakePublisher{})

	token, err := svc.RequestPasswordReset(context.Background(), "ghost@b.it")
	require.NoError(t, err)
	assert.Empty(t, token)
}
