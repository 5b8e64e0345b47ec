package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database struct {
		Host     string
		Port     int
		User     string
		Password string
		Name     string
	}
	RabbitMQ struct {
		Host     string
		Port     int
		User     string
		Password string
		Exchange string
	}
	Auth struct {
		Secret        string
		AccessTTL     time.Duration
		RefreshTTL    time.Duration
		ResetTokenTTL time.Duration
	}
	Presence struct {
		OfflineAfter  time.Duration
		SweepSchedule string
	}
	Services struct {
		UserServicePort     int
		SOSServicePort      int
		PresenceServicePort int
		AdminServicePort    int
	}
}

func getEnv(key, def string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return def
}

func LoadConfig() (*Config, error) {
	// Local development keeps its settings in .env; absence is fine.
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = getEnvInt("DB_PORT", 5432)
	cfg.Database.User = getEnv("DB_USER", "nautical_user")
	cfg.Database.Password = getEnv("DB_PASSWORD", "nautical_pass")
	cfg.Database.Name = getEnv("DB_NAME", "nautical_db")

	cfg.RabbitMQ.Host = getEnv("RABBITMQ_HOST", "localhost")
	cfg.RabbitMQ.Port = getEnvInt("RABBITMQ_PORT", 5672)
	cfg.RabbitMQ.User = getEnv("RABBITMQ_USER", "guest")
	cfg.RabbitMQ.Password = getEnv("RABBITMQ_PASSWORD", "guest")
	cfg.RabbitMQ.Exchange = getEnv("RABBITMQ_EXCHANGE", "nautical.changes")

	cfg.Auth.Secret = getEnv("JWT_SECRET", "dev-only-secret")
	cfg.Auth.AccessTTL = getEnvDuration("JWT_ACCESS_TTL", time.Hour)
	cfg.Auth.RefreshTTL = getEnvDuration("JWT_REFRESH_TTL", 7*24*time.Hour)
	cfg.Auth.ResetTokenTTL = getEnvDuration("RESET_TOKEN_TTL", time.Hour)

	cfg.Presence.OfflineAfter = getEnvDuration("PRESENCE_OFFLINE_AFTER", 5*time.Minute)
	cfg.Presence.SweepSchedule = getEnv("PRESENCE_SWEEP_SCHEDULE", "@every 1m")

	cfg.Services.UserServicePort = getEnvInt("USER_SERVICE_PORT", 3000)
	cfg.Services.SOSServicePort = getEnvInt("SOS_SERVICE_PORT", 3001)
	cfg.Services.PresenceServicePort = getEnvInt("PRESENCE_SERVICE_PORT", 3002)
	cfg.Services.AdminServicePort = getEnvInt("ADMIN_SERVICE_PORT", 3004)

	return cfg, nil
}

func (c *Config) Print() {
	fmt.Printf("📦 Database: %s@%s:%d/%s\n", c.Database.User, c.Database.Host, c.Database.Port, c.Database.Name)
	fmt.Printf("🐇 RabbitMQ: amqp://%s@%s:%d exchange=%s\n", c.RabbitMQ.User, c.RabbitMQ.Host, c.RabbitMQ.Port, c.RabbitMQ.Exchange)
	fmt.Printf("🧩 Services → user:%d | sos:%d | presence:%d | admin:%d\n",
		c.Services.UserServicePort, c.Services.SOSServicePort,
		c.Services.PresenceServicePort, c.Services.AdminServicePort)
}
