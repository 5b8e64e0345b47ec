package main

import (
	"log"

	cmdAdmin "github.com/Andiyp/nauticalapp/cmd/admin-service"
	cmdPresence "github.com/Andiyp/nauticalapp/cmd/presence-service"
	cmdSOS "github.com/Andiyp/nauticalapp/cmd/sos-service"
	cmdUser "github.com/Andiyp/nauticalapp/cmd/user-service"
	"github.com/Andiyp/nauticalapp/internal/common/auth"
	"github.com/Andiyp/nauticalapp/internal/common/config"
	"github.com/Andiyp/nauticalapp/internal/common/db"
	"github.com/Andiyp/nauticalapp/internal/common/mq"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	cfg.Print()

	pg, err := db.NewPostgres(
		cfg.Database.Host, cfg.Database.Port,
		cfg.Database.User, cfg.Database.Password, cfg.Database.Name,
	)
	if err != nil {
		log.Fatalf("db error: %v", err)
	}
	defer pg.Close()

	if err := pg.RunMigrations("migrations"); err != nil {
		log.Fatalf("migration error: %v", err)
	}

	rmq, err := mq.NewRabbitMQ(
		cfg.RabbitMQ.Host, cfg.RabbitMQ.Port,
		cfg.RabbitMQ.User, cfg.RabbitMQ.Password,
		cfg.RabbitMQ.Exchange,
	)
	if err != nil {
		log.Fatalf("rabbitmq error: %v", err)
	}
	defer rmq.Close()

	jwtManager := auth.NewManager(cfg.Auth.Secret, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL)

	errCh := make(chan error, 4)
	go func() { errCh <- cmdUser.Run(cfg, pg.Pool, rmq, jwtManager) }()
	go func() { errCh <- cmdSOS.Run(cfg, pg.Pool, rmq, jwtManager) }()
	go func() { errCh <- cmdPresence.Run(cfg, pg.Pool, rmq, jwtManager) }()
	go func() { errCh <- cmdAdmin.Run(cfg, pg.Pool, rmq, jwtManager) }()

	log.Fatalf("service exited: %v", <-errCh)
}
