package admin_service

import (
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	adminhandler "github.com/Andiyp/nauticalapp/internal/admin/handler"
	adminrepo "github.com/Andiyp/nauticalapp/internal/admin/repository"
	adminservice "github.com/Andiyp/nauticalapp/internal/admin/service"
	alerthandler "github.com/Andiyp/nauticalapp/internal/alert/handler"
	alertrepo "github.com/Andiyp/nauticalapp/internal/alert/repository"
	alertservice "github.com/Andiyp/nauticalapp/internal/alert/service"
	"github.com/Andiyp/nauticalapp/internal/common/auth"
	"github.com/Andiyp/nauticalapp/internal/common/config"
	"github.com/Andiyp/nauticalapp/internal/common/logger"
	"github.com/Andiyp/nauticalapp/internal/common/mq"
	userrepo "github.com/Andiyp/nauticalapp/internal/user/repository"
)

func Run(cfg *config.Config, db *pgxpool.Pool, rmq *mq.RabbitMQ, jwtManager *auth.Manager) error {
	logger.SetServiceName("admin-service")
	logger.Info("startup", "starting admin service", "", "")

	userRepo := userrepo.NewUserRepository(db)
	adminService := adminservice.NewAdminService(adminrepo.NewAdminRepository(db), rmq)
	adminHandler := adminhandler.NewAdminHandler(adminService)

	alertService := alertservice.NewAlertService(alertrepo.NewAlertRepository(db), rmq)
	alertHandler := alerthandler.NewAlertHandler(alertService)

	authenticated := auth.Authenticated(jwtManager, userRepo)
	adminOnly := func(h http.HandlerFunc) http.Handler {
		return authenticated(auth.AdminOnly(h))
	}

	mux := http.NewServeMux()
	mux.Handle("GET /admin/users", adminOnly(adminHandler.ListUsers))
	mux.Handle("PATCH /admin/users/{id}/role", adminOnly(adminHandler.SetRole))
	mux.Handle("PATCH /admin/users/{id}/blocked", adminOnly(adminHandler.SetBlocked))
	mux.Handle("POST /admin/alerts", adminOnly(alertHandler.Create))
	mux.Handle("DELETE /admin/alerts/{id}", adminOnly(alertHandler.Delete))
	mux.Handle("GET /alerts", authenticated(http.HandlerFunc(alertHandler.List)))

	addr := fmt.Sprintf(":%d", cfg.Services.AdminServicePort)
	logger.Info("startup_complete", fmt.Sprintf("admin service listening on %s", addr), "", "")
	return http.ListenAndServe(addr, mux)
}
