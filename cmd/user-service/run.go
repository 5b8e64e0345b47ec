package user_service

import (
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Andiyp/nauticalapp/internal/common/auth"
	"github.com/Andiyp/nauticalapp/internal/common/config"
	"github.com/Andiyp/nauticalapp/internal/common/logger"
	"github.com/Andiyp/nauticalapp/internal/common/mq"
	"github.com/Andiyp/nauticalapp/internal/user/handler"
	"github.com/Andiyp/nauticalapp/internal/user/repository"
	"github.com/Andiyp/nauticalapp/internal/user/service"
)

func Run(cfg *config.Config, db *pgxpool.Pool, rmq *mq.RabbitMQ, jwtManager *auth.Manager) error {
	logger.SetServiceName("user-service")
	logger.Info("startup", "starting user service", "", "")

	userRepo := repository.NewUserRepository(db)
	authService := service.NewAuthService(userRepo, jwtManager, rmq, cfg.Auth.ResetTokenTTL)
	authHandler := handler.NewAuthHandler(authService)

	authenticated := auth.Authenticated(jwtManager, userRepo)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /register", authHandler.Register)
	mux.HandleFunc("POST /login", authHandler.Login)
	mux.HandleFunc("POST /refresh", authHandler.RefreshToken)
	mux.HandleFunc("POST /password-reset", authHandler.RequestPasswordReset)
	mux.HandleFunc("POST /password-reset/confirm", authHandler.ConfirmPasswordReset)

	mux.Handle("GET /profile", authenticated(http.HandlerFunc(authHandler.GetProfile)))
	mux.Handle("PATCH /profile", authenticated(http.HandlerFunc(authHandler.UpdateProfile)))
	mux.Handle("POST /change-password", authenticated(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("GET /fleet", authenticated(http.HandlerFunc(authHandler.Fleet)))

	addr := fmt.Sprintf(":%d", cfg.Services.UserServicePort)
	logger.Info("startup_complete", fmt.Sprintf("user service listening on %s", addr), "", "")
	return http.ListenAndServe(addr, mux)
}
