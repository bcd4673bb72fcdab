package config

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/ParasPuneetSingh/IndianDuo/internal/pkg/env"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
)

type Config struct {
	HTTP  httpConfig
	Store storeConfig
	JWT   jwtConfig
	Auth  authConfig
	Log   LogConfig
}

type httpConfig struct {
	ListenAddr      string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

type storeConfig struct {
	Driver   string
	Mongo    mongoConfig
	Postgres postgresConfig
}

type mongoConfig struct {
	URL     string
	DB      string
	Timeout time.Duration
}

type postgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DB       string
}

type jwtConfig struct {
	Secret    string
	Algorithm string
	TTL       time.Duration
}

type authConfig struct {
	BcryptCost int
}

type LogConfig struct {
	Level  string
	Format string
}

func FromEnv() Config {
	cfg := Config{
		HTTP: httpConfig{
			ListenAddr:      env.String("HTTP_LISTEN_ADDR", ":8001"),
			ReadTimeout:     env.Duration("HTTP_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    env.Duration("HTTP_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:     env.Duration("HTTP_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: env.Duration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
			AllowedOrigins:  env.Strings("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Store: storeConfig{
			Driver: env.String("STORE_DRIVER", DriverMongo),
		},
		JWT: jwtConfig{
			Secret:    env.RequireString("JWT_SECRET_KEY"),
			Algorithm: env.String("ALGORITHM", "HS256"),
			TTL:       time.Duration(env.Int("ACCESS_TOKEN_EXPIRE_MINUTES", 30)) * time.Minute,
		},
		Auth: authConfig{
			BcryptCost: env.Int("BCRYPT_COST", bcrypt.DefaultCost),
		},
		Log: LogConfig{
			Level:  env.String("LOG_LEVEL", "info"),
			Format: env.String("LOG_FORMAT", "text"),
		},
	}

	switch cfg.Store.Driver {
	case DriverPostgres:
		cfg.Store.Postgres = postgresConfig{
			Host:     env.String("DB_HOST", "localhost"),
			Port:     env.String("DB_PORT", "5432"),
			User:     env.String("DB_USER", "postgres"),
			Password: env.String("DB_PASSWORD", ""),
			DB:       env.String("DB_NAME", "indianduo"),
		}
	default:
		cfg.Store.Mongo = mongoConfig{
			URL:     env.RequireString("MONGO_URL"),
			DB:      env.String("MONGO_DB", "indianduo"),
			Timeout: env.Duration("MONGO_TIMEOUT", 10*time.Second),
		}
	}

	return cfg
}
