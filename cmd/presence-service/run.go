package presence_service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	alertrepo "github.com/Andiyp/nauticalapp/internal/alert/repository"
	"github.com/Andiyp/nauticalapp/internal/common/auth"
	"github.com/Andiyp/nauticalapp/internal/common/config"
	"github.com/Andiyp/nauticalapp/internal/common/logger"
	"github.com/Andiyp/nauticalapp/internal/common/mq"
	"github.com/Andiyp/nauticalapp/internal/common/websocket"
	"github.com/Andiyp/nauticalapp/internal/feed"
	"github.com/Andiyp/nauticalapp/internal/presence/handler"
	"github.com/Andiyp/nauticalapp/internal/presence/repository"
	"github.com/Andiyp/nauticalapp/internal/presence/service"
	sosrepo "github.com/Andiyp/nauticalapp/internal/sos/repository"
	userrepo "github.com/Andiyp/nauticalapp/internal/user/repository"
)

// Run hosts the presence endpoints, the websocket feed, and the stale sweep.
// The feed lives here because presence updates dominate its traffic.
func Run(cfg *config.Config, db *pgxpool.Pool, rmq *mq.RabbitMQ, jwtManager *auth.Manager) error {
	logger.SetServiceName("presence-service")
	logger.Info("startup", "starting presence service", "", "")

	userRepo := userrepo.NewUserRepository(db)
	presenceRepo := repository.NewPresenceRepository(db)
	presenceService := service.NewPresenceService(presenceRepo, rmq)
	presenceHandler := handler.NewPresenceHandler(presenceService)

	sweeper := service.NewSweeper(presenceService, cfg.Presence.OfflineAfter)
	if err := sweeper.Start(cfg.Presence.SweepSchedule); err != nil {
		return fmt.Errorf("failed to start presence sweeper: %w", err)
	}
	defer sweeper.Stop()

	hub := websocket.NewHub()
	liveFeed := feed.New(hub, userRepo,
		alertrepo.NewAlertRepository(db),
		sosrepo.NewSOSRepository(db),
	)
	go func() {
		if err := rmq.ConsumeChanges("presence-feed", liveFeed.HandleChange); err != nil {
			logger.Error("feed_consumer", "change consumer stopped", "", "", err.Error())
		}
	}()

	authenticated := auth.Authenticated(jwtManager, userRepo)

	mux := http.NewServeMux()
	mux.Handle("POST /presence/online", authenticated(http.HandlerFunc(presenceHandler.Online)))
	mux.Handle("POST /presence/offline", authenticated(http.HandlerFunc(presenceHandler.Offline)))
	mux.Handle("POST /presence/location", authenticated(http.HandlerFunc(presenceHandler.ReportLocation)))
	mux.HandleFunc("GET /ws", websocket.SubscriberHandler(hub, jwtManager, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		liveFeed.PushAll(ctx)
	}))

	addr := fmt.Sprintf(":%d", cfg.Services.PresenceServicePort)
	logger.Info("startup_complete", fmt.Sprintf("presence service listening on %s", addr), "", "")
	return http.ListenAndServe(addr, mux)
}
