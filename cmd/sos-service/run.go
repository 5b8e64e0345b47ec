package sos_service

import (
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	alertrepo "github.com/Andiyp/nauticalapp/internal/alert/repository"
	alertservice "github.com/Andiyp/nauticalapp/internal/alert/service"
	"github.com/Andiyp/nauticalapp/internal/board"
	"github.com/Andiyp/nauticalapp/internal/common/auth"
	"github.com/Andiyp/nauticalapp/internal/common/config"
	"github.com/Andiyp/nauticalapp/internal/common/logger"
	"github.com/Andiyp/nauticalapp/internal/common/mq"
	"github.com/Andiyp/nauticalapp/internal/sos/handler"
	"github.com/Andiyp/nauticalapp/internal/sos/repository"
	"github.com/Andiyp/nauticalapp/internal/sos/service"
	userrepo "github.com/Andiyp/nauticalapp/internal/user/repository"
)

func Run(cfg *config.Config, db *pgxpool.Pool, rmq *mq.RabbitMQ, jwtManager *auth.Manager) error {
	logger.SetServiceName("sos-service")
	logger.Info("startup", "starting sos service", "", "")

	userRepo := userrepo.NewUserRepository(db)
	sosRepo := repository.NewSOSRepository(db)
	sosService := service.NewSOSService(sosRepo, userRepo, rmq)
	sosHandler := handler.NewSOSHandler(sosService)

	alertService := alertservice.NewAlertService(alertrepo.NewAlertRepository(db), rmq)
	boardHandler := board.NewHandler(alertService, sosService)

	authenticated := auth.Authenticated(jwtManager, userRepo)

	mux := http.NewServeMux()
	mux.Handle("POST /sos", authenticated(http.HandlerFunc(sosHandler.Create)))
	mux.Handle("POST /sos/{id}/accept", authenticated(http.HandlerFunc(sosHandler.Accept)))
	mux.Handle("POST /sos/{id}/resolve", authenticated(auth.AdminOnly(http.HandlerFunc(sosHandler.Resolve))))
	mux.Handle("GET /sos", authenticated(http.HandlerFunc(sosHandler.List)))
	mux.Handle("GET /board", authenticated(http.HandlerFunc(boardHandler.Get)))

	addr := fmt.Sprintf(":%d", cfg.Services.SOSServicePort)
	logger.Info("startup_complete", fmt.Sprintf("sos service listening on %s", addr), "", "")
	return http.ListenAndServe(addr, mux)
}
