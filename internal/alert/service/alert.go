package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Andiyp/nauticalapp/internal/alert/model"
	"github.com/Andiyp/nauticalapp/internal/common/logger"
	"github.com/Andiyp/nauticalapp/internal/common/mq"
)

type AlertRepository interface {
	Insert(ctx context.Context, a model.Alert) (model.Alert, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]model.Alert, error)
}

type ChangePublisher interface {
	PublishChange(ctx context.Context, ev mq.ChangeEvent) error
}

type AlertService struct {
	repo   AlertRepository
	events ChangePublisher
}

func NewAlertService(repo AlertRepository, events ChangePublisher) *AlertService {
	return &AlertService{repo: repo, events: events}
}

func (s *AlertService) Create(ctx context.Context, adminID, title, content string) (model.Alert, error) {
	const action = "create_alert"

	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" || content == "" {
		return model.Alert{}, fmt.Errorf("validation error: title and content are required")
	}

	created, err := s.repo.Insert(ctx, model.Alert{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content,
		CreatedBy: adminID,
	})
	if err != nil {
		logger.Error(action, "failed to insert alert", "", adminID, err.Error())
		return model.Alert{}, err
	}

	s.publishAlertsChanged(ctx, "created", created.ID)

	logger.Info(action, fmt.Sprintf("alert %q published", created.Title), "", created.ID)
	return created, nil
}

func (s *AlertService) Delete(ctx context.Context, alertID string) error {
	const action = "delete_alert"

	if err := s.repo.Delete(ctx, alertID); err != nil {
		logger.Warn(action, "failed to delete alert", "", alertID, err.Error())
		return err
	}

	s.publishAlertsChanged(ctx, "deleted", alertID)

	logger.Info(action, "alert deleted", "", alertID)
	return nil
}

func (s *AlertService) List(ctx context.Context) ([]model.Alert, error) {
	return s.repo.List(ctx)
}

func (s *AlertService) publishAlertsChanged(ctx context.Context, change, entityID string) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishChange(ctx, mq.ChangeEvent{
		Collection: mq.CollectionAlerts,
		Action:     change,
		EntityID:   entityID,
	}); err != nil {
		logger.Warn("publish_alerts_changed", "failed to publish change event", "", entityID, err.Error())
	}
}
