package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Andiyp/nauticalapp/internal/common/logger"
)

// Sweeper runs the stale-presence sweep on a cron schedule. Browsers closed
// without a clean sign-out never report offline; the sweep is what eventually
// clears their markers from the map.
type Sweeper struct {
	cron         *cron.Cron
	presence     *PresenceService
	offlineAfter time.Duration
}

func NewSweeper(presence *PresenceService, offlineAfter time.Duration) *Sweeper {
	return &Sweeper{
		cron:         cron.New(),
		presence:     presence,
		offlineAfter: offlineAfter,
	}
}

func (s *Sweeper) Start(schedule string) error {
	_, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := s.presence.SweepStale(ctx, s.offlineAfter); err != nil {
			logger.Error("presence_sweep", "scheduled sweep failed", "", "", err.Error())
		}
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	logger.Info("presence_sweep", "stale presence sweeper started", "", "")
	return nil
}

func (s *Sweeper) Stop() {
	s.cron.Stop()
}
