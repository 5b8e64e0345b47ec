package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Andiyp/nauticalapp/internal/common/logger"
)

// Collection names carried by change events. They match the persisted tables
// so a subscriber can map an event straight to the list it re-fetches.
const (
	CollectionUsers  = "users"
	CollectionAlerts = "alerts"
	CollectionSOS    = "sos_requests"
)

// ChangeEvent tells subscribers that a collection changed. It deliberately
// carries no payload: consumers re-query the full collection and treat the
// result as a complete replacement of their local state.
type ChangeEvent struct {
	Collection string    `json:"collection"`
	Action     string    `json:"action"`
	EntityID   string    `json:"entity_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (r *RabbitMQ) declareExchange() error {
	return r.Chan.ExchangeDeclare(
		r.Exchange,
		"fanout",
		true,
		false,
		false,
		false,
		nil,
	)
}

func (r *RabbitMQ) PublishChange(ctx context.Context, ev ChangeEvent) error {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}

	body, err := json.Marshal(ev)
	if err != nil {
		logger.Error("publish_change", "failed to marshal change event", "", ev.EntityID, err.Error())
		return fmt.Errorf("failed to marshal change event: %w", err)
	}

	if err := r.declareExchange(); err != nil {
		logger.Error("publish_change", "failed to declare exchange", "", ev.EntityID, err.Error())
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	if err := r.Chan.PublishWithContext(
		ctx,
		r.Exchange,
		"", // fanout ignores routing key
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	); err != nil {
		logger.Error("publish_change", "failed to publish change event", "", ev.EntityID, err.Error())
		return fmt.Errorf("failed to publish change event: %w", err)
	}

	logger.Debug("publish_change", fmt.Sprintf("change event published for %s", ev.Collection), "", ev.EntityID)
	return nil
}

// ConsumeChanges binds an exclusive queue to the fanout exchange and invokes
// handler for every change event until the channel closes.
func (r *RabbitMQ) ConsumeChanges(queueName string, handler func(ChangeEvent)) error {
	if err := r.declareExchange(); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	q, err := r.Chan.QueueDeclare(
		queueName,
		false,
		true,
		true,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := r.Chan.QueueBind(q.Name, "", r.Exchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}

	msgs, err := r.Chan.Consume(q.Name, "", true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	for msg := range msgs {
		var ev ChangeEvent
		if err := json.Unmarshal(msg.Body, &ev); err != nil {
			logger.Warn("consume_change", "skipping malformed change event", "", "", err.Error())
			continue
		}
		handler(ev)
	}

	return nil
}
