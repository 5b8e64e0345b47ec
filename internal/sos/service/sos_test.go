package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Andiyp/nauticalapp/internal/common/mq"
	"github.com/Andiyp/nauticalapp/internal/sos/handler/dto"
	"github.com/Andiyp/nauticalapp/internal/sos/model"
	usermodel "github.com/Andiyp/nauticalapp/internal/user/model"
)

type fakeSOSRepo struct {
	requests map[string]model.SOSRequest
	inserted []model.SOSRequest
}

func newFakeSOSRepo() *fakeSOSRepo {
	return &fakeSOSRepo{requests: map[string]model.SOSRequest{}}
}

func (f *fakeSOSRepo) Insert(_ context.Context, s model.SOSRequest) (model.SOSRequest, error) {
	s.Status = model.StatusActive
	f.requests[s.ID] = s
	f.inserted = append(f.inserted, s)
	return s, nil
}

func (f *fakeSOSRepo) GetByID(_ context.Context, id string) (model.SOSRequest, error) {
	s, ok := f.requests[id]
	if !ok {
		return model.SOSRequest{}, model.ErrNotAcceptable
	}
	return s, nil
}

func (f *fakeSOSRepo) Accept(_ context.Context, id, acceptorID, acceptorBoatName string) (model.SOSRequest, error) {
	s, ok := f.requests[id]
	if !ok {
		return model.SOSRequest{}, model.ErrNotAcceptable
	}
	if err := s.CanBeAcceptedBy(acceptorID); err != nil {
		return model.SOSRequest{}, err
	}
	s.Status = model.StatusAccepted
	s.AcceptedBy = &model.Acceptance{UserID: acceptorID, BoatName: acceptorBoatName}
	f.requests[id] = s
	return s, nil
}

func (f *fakeSOSRepo) Resolve(_ context.Context, id string) (model.SOSRequest, bool, error) {
	s, ok := f.requests[id]
	if !ok {
		return model.SOSRequest{}, false, model.ErrNotAcceptable
	}
	if s.Status == model.StatusResolved {
		return s, false, nil
	}
	s.Status = model.StatusResolved
	f.requests[id] = s
	return s, true, nil
}

func (f *fakeSOSRepo) List(_ context.Context, status *model.Status) ([]model.SOSRequest, error) {
	var out []model.SOSRequest
	for _, s := range f.requests {
		if status == nil || s.Status == *status {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeProfiles struct {
	users map[string]usermodel.User
}

func (f *fakeProfiles) GetByID(_ context.Context, id string) (usermodel.User, error) {
	return f.users[id], nil
}

type capturingPublisher struct {
	events []mq.ChangeEvent
}

func (p *capturingPublisher) PublishChange(_ context.Context, ev mq.ChangeEvent) error {
	p.events = append(p.events, ev)
	return nil
}

func skipperTestProfiles() *fakeProfiles {
	first, last := "Maja", "Lindqvist"
	return &fakeProfiles{users: map[string]usermodel.User{
		"skipper-1": {
			ID:               "skipper-1",
			BoatName:         "Albatross",
			BoatType:         usermodel.BoatSail,
			Phone:            "+46701234567",
			IsSkipper:        true,
			SkipperFirstName: &first,
			SkipperLastName:  &last,
		},
		"rescuer-1": {
			ID:       "rescuer-1",
			BoatName: "Pelikan",
			BoatType: usermodel.BoatMotor,
			Phone:    "+46709876543",
		},
	}}
}

func TestCreateSnapshotsProfileIntoRequest(t *testing.T) {
	repo := newFakeSOSRepo()
	pub := &capturingPublisher{}
	svc := NewSOSService(repo, skipperTestProfiles(), pub)

	created, err := svc.Create(context.Background(), "skipper-1", dto.CreateRequest{
		Type:     model.TypeManOverboard,
		Location: &usermodel.Location{Lat: 59.32, Lng: 18.07},
		Details:  "   ",
	})
	require.NoError(t, err)

	assert.Equal(t, model.StatusActive, created.Status)
	assert.Equal(t, "Albatross", created.BoatName)
	assert.Equal(t, usermodel.BoatSail, created.BoatType)
	assert.Equal(t, "+46701234567", created.Phone)
	require.NotNil(t, created.SkipperName)
	assert.Equal(t, "Maja Lindqvist", *created.SkipperName)
	assert.Nil(t, created.Details, "blank details collapse to null")
	assert.Nil(t, created.AcceptedBy)

	require.Len(t, pub.events, 1)
	assert.Equal(t, mq.CollectionSOS, pub.events[0].Collection)
	assert.Equal(t, "created", pub.events[0].Action)
}

func TestCreateRejectsMissingLocation(t *testing.T) {
	repo := newFakeSOSRepo()
	svc := NewSOSService(repo, skipperTestProfiles(), &capturingPublisher{})

	_, err := svc.Create(context.Background(), "skipper-1", dto.CreateRequest{
		Type: model.TypeSinking,
	})
	require.Error(t, err)
	assert.Empty(t, repo.inserted, "nothing may be written without a position")
}

func TestAcceptRecordsAcceptorBoat(t *testing.T) {
	repo := newFakeSOSRepo()
	pub := &capturingPublisher{}
	svc := NewSOSService(repo, skipperTestProfiles(), pub)

	created, err := svc.Create(context.Background(), "skipper-1", dto.CreateRequest{
		Type:     model.TypeEngineFailure,
		Location: &usermodel.Location{Lat: 57.7, Lng: 11.9},
	})
	require.NoError(t, err)

	accepted, err := svc.Accept(context.Background(), created.ID, "rescuer-1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusAccepted, accepted.Status)
	require.NotNil(t, accepted.AcceptedBy)
	assert.Equal(t, "rescuer-1", accepted.AcceptedBy.UserID)
	assert.Equal(t, "Pelikan", accepted.AcceptedBy.BoatName)
}

func TestAcceptRejectsOwnRequest(t *testing.T) {
	repo := newFakeSOSRepo()
	svc := NewSOSService(repo, skipperTestProfiles(), &capturingPublisher{})

	created, err := svc.Create(context.Background(), "skipper-1", dto.CreateRequest{
		Type:     model.TypeAdrift,
		Location: &usermodel.Location{Lat: 55.6, Lng: 12.9},
	})
	require.NoError(t, err)

	_, err = svc.Accept(context.Background(), created.ID, "skipper-1")
	assert.ErrorIs(t, err, model.ErrSelfAccept)
}

func TestResolveIsIdempotent(t *testing.T) {
	repo := newFakeSOSRepo()
	pub := &capturingPublisher{}
	svc := NewSOSService(repo, skipperTestProfiles(), pub)

	created, err := svc.Create(context.Background(), "skipper-1", dto.CreateRequest{
		Type:     model.TypeAground,
		Location: &usermodel.Location{Lat: 58.0, Lng: 11.5},
	})
	require.NoError(t, err)

	_, changed, err := svc.Resolve(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, changed)

	resolved, changed, err := svc.Resolve(context.Background(), created.ID)
	require.NoError(t, err)
	assert.False(t, changed, "second resolve is a no-op")
	assert.Equal(t, model.StatusResolved, resolved.Status)

	var resolvedEvents int
	for _, ev := range pub.events {
		if ev.Action == "resolved" {
			resolvedEvents++
		}
	}
	assert.Equal(t, 1, resolvedEvents, "no event for the no-op resolve")
}
