package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Andiyp/nauticalapp/internal/alert/model"
	"github.com/Andiyp/nauticalapp/internal/alert/repository"
	"github.com/Andiyp/nauticalapp/internal/common/mq"
)

type fakeAlertRepo struct {
	alerts map[string]model.Alert
}

func newFakeAlertRepo() *fakeAlertRepo {
	return &fakeAlertRepo{alerts: map[string]model.Alert{}}
}

func (f *fakeAlertRepo) Insert(_ context.Context, a model.Alert) (model.Alert, error) {
	f.alerts[a.ID] = a
	return a, nil
}

func (f *fakeAlertRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.alerts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.alerts, id)
	return nil
}

func (f *fakeAlertRepo) List(_ context.Context) ([]model.Alert, error) {
	var out []model.Alert
	for _, a := range f.alerts {
		out = append(out, a)
	}
	return out, nil
}

type capturingPublisher struct {
	events []mq.ChangeEvent
}

func (p *capturingPublisher) PublishChange(_ context.Context, ev mq.ChangeEvent) error {
	p.events = append(p.events, ev)
	return nil
}

func TestCreateTrimsAndPublishes(t *testing.T) {
	repo := newFakeAlertRepo()
	pub := &capturingPublisher{}
	svc := NewAlertService(repo, pub)

	created, err := svc.Create(context.Background(), "admin-1", "  Storm warning  ", "Gale force winds expected tonight.\n")
	require.NoError(t, err)

	assert.Equal(t, "Storm warning", created.Title)
	assert.Equal(t, "Gale force winds expected tonight.", created.Content)
	assert.Equal(t, "admin-1", created.CreatedBy)

	require.Len(t, pub.events, 1)
	assert.Equal(t, mq.CollectionAlerts, pub.events[0].Collection)
	assert.Equal(t, "created", pub.events[0].Action)
}

func TestCreateRejectsBlankFields(t *testing.T) {
	svc := NewAlertService(newFakeAlertRepo(), &capturingPublisher{})

	_, err := svc.Create(context.Background(), "admin-1", "   ", "content")
	assert.Error(t, err)

	_, err = svc.Create(context.Background(), "admin-1", "title", "  \n ")
	assert.Error(t, err)
}

func TestDeleteUnknownAlert(t *testing.T) {
	pub := &capturingPublisher{}
	svc := NewAlertService(newFakeAlertRepo(), pub)

	err := svc.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Empty(t, pub.events, "no event for a failed delete")
}
