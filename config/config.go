package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Identity  IdentityConfig
	CORS      CORSConfig
	Redis     RedisConfig
	Scheduler SchedulerConfig
	Log       LogConfig
}

type ServerConfig struct {
	Port        string `env:"SERVER_PORT" envDefault:"8080"`
	GinMode     string `env:"GIN_MODE" envDefault:"debug"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
}

type DatabaseConfig struct {
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"admin"`
	Password string `env:"DB_PASSWORD" envDefault:"1234"`
	DBName   string `env:"DB_NAME" envDefault:"storefront"`
	SSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
}

// IdentityConfig describes how bearer tokens issued by the external identity
// provider are verified. Either HMACSecret or PublicKeyPEM must be set.
type IdentityConfig struct {
	Issuer       string `env:"IDENTITY_ISSUER"`
	Audience     string `env:"IDENTITY_AUDIENCE"`
	HMACSecret   string `env:"IDENTITY_HMAC_SECRET"`
	PublicKeyPEM string `env:"IDENTITY_PUBLIC_KEY_PEM"`
}

type CORSConfig struct {
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
}

// RedisConfig backs the checkout Idempotency-Key store. With an empty Addr the
// server keeps reservations in process memory.
type RedisConfig struct {
	Addr           string        `env:"REDIS_ADDR"`
	Password       string        `env:"REDIS_PASSWORD"`
	DB             int           `env:"REDIS_DB" envDefault:"0"`
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL" envDefault:"24h"`
}

type SchedulerConfig struct {
	Enabled         bool          `env:"SCHEDULER_ENABLED" envDefault:"true"`
	OrderExpirySpec string        `env:"ORDER_EXPIRY_CRON" envDefault:"*/15 * * * *"`
	PaymentTTL      time.Duration `env:"ORDER_PAYMENT_TTL" envDefault:"24h"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL"`
	Format string `env:"LOG_FORMAT" envDefault:"console"`
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
		if cfg.Server.Environment == "development" {
			cfg.Log.Level = "debug"
		}
	}

	return cfg, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}
