package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	alertmodel "github.com/Andiyp/nauticalapp/internal/alert/model"
	"github.com/Andiyp/nauticalapp/internal/common/logger"
	"github.com/Andiyp/nauticalapp/internal/common/mq"
	"github.com/Andiyp/nauticalapp/internal/common/websocket"
	sosmodel "github.com/Andiyp/nauticalapp/internal/sos/model"
	usermodel "github.com/Andiyp/nauticalapp/internal/user/model"
)

type FleetSource interface {
	Fleet(ctx context.Context) ([]usermodel.User, error)
}

type AlertSource interface {
	List(ctx context.Context) ([]alertmodel.Alert, error)
}

type SOSSource interface {
	List(ctx context.Context, status *sosmodel.Status) ([]sosmodel.SOSRequest, error)
}

// Snapshot is the wire frame pushed to every subscriber after a collection
// changes. Items always holds the complete current collection; clients replace
// their local copy rather than patching it.
type Snapshot struct {
	Type       string    `json:"type"`
	Collection string    `json:"collection"`
	Items      any       `json:"items"`
	SentAt     time.Time `json:"sent_at"`
}

// Feed turns change events into full-collection snapshot broadcasts.
type Feed struct {
	hub    *websocket.Hub
	fleet  FleetSource
	alerts AlertSource
	sos    SOSSource
}

func New(hub *websocket.Hub, fleet FleetSource, alerts AlertSource, sos SOSSource) *Feed {
	return &Feed{hub: hub, fleet: fleet, alerts: alerts, sos: sos}
}

// HandleChange re-queries the changed collection and broadcasts it. Errors are
// logged and swallowed: a failed snapshot is repaired by the next event.
func (f *Feed) HandleChange(ev mq.ChangeEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var items any
	var err error

	switch ev.Collection {
	case mq.CollectionUsers:
		items, err = f.fleet.Fleet(ctx)
	case mq.CollectionAlerts:
		items, err = f.alerts.List(ctx)
	case mq.CollectionSOS:
		items, err = f.sos.List(ctx, nil)
	default:
		logger.Warn("feed_change", fmt.Sprintf("ignoring event for unknown collection %q", ev.Collection), "", ev.EntityID, "")
		return
	}
	if err != nil {
		logger.Error("feed_change", fmt.Sprintf("failed to re-query %s", ev.Collection), "", ev.EntityID, err.Error())
		return
	}

	f.broadcast(ev.Collection, items)
}

// PushAll sends a snapshot of every collection, used right after a subscriber
// connects so it never starts from an empty map.
func (f *Feed) PushAll(ctx context.Context) {
	if fleet, err := f.fleet.Fleet(ctx); err == nil {
		f.broadcast(mq.CollectionUsers, fleet)
	}
	if alerts, err := f.alerts.List(ctx); err == nil {
		f.broadcast(mq.CollectionAlerts, alerts)
	}
	if requests, err := f.sos.List(ctx, nil); err == nil {
		f.broadcast(mq.CollectionSOS, requests)
	}
}

func (f *Feed) broadcast(collection string, items any) {
	frame, err := json.Marshal(Snapshot{
		Type:       "snapshot",
		Collection: collection,
		Items:      items,
		SentAt:     time.Now().UTC(),
	})
	if err != nil {
		logger.Error("feed_broadcast", "failed to marshal snapshot", "", collection, err.Error())
		return
	}

	f.hub.Broadcast(frame)
	logger.Debug("feed_broadcast", fmt.Sprintf("snapshot broadcast for %s to %d clients", collection, f.hub.ClientCount()), "", "")
}
