package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ParasPuneetSingh/IndianDuo/internal/pkg/middleware"
	"github.com/ParasPuneetSingh/IndianDuo/internal/pkg/router"
	"github.com/ParasPuneetSingh/IndianDuo/internal/services/learn/internal/config"
	"github.com/ParasPuneetSingh/IndianDuo/internal/services/learn/internal/password"
	"github.com/ParasPuneetSingh/IndianDuo/internal/services/learn/internal/rest"
	"github.com/ParasPuneetSingh/IndianDuo/internal/services/learn/internal/service"
	"github.com/ParasPuneetSingh/IndianDuo/internal/services/learn/internal/store"
	"github.com/ParasPuneetSingh/IndianDuo/internal/services/learn/internal/token"
)

func run(ctx context.Context) error {
	cfg := config.FromEnv()
	slog.SetDefault(config.NewLogger(os.Stdout, cfg.Log))
	slog.Info("starting learn service", "store", cfg.Store.Driver)

	st, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			slog.Error("failed to close store", "error", err)
		}
	}()

	catalog := service.NewCatalogService(st)
	seeded, err := catalog.SeedLanguages(ctx, service.DefaultLanguages)
	if err != nil {
		return fmt.Errorf("failed to seed languages: %w", err)
	}
	slog.Info("language catalog ready", "seeded", seeded)

	issuer, err := token.NewJWTIssuer(token.JwtConfig{
		Secret:    token.NewSecretString(cfg.JWT.Secret),
		Algorithm: cfg.JWT.Algorithm,
		TTL:       cfg.JWT.TTL,
	})
	if err != nil {
		return fmt.Errorf("failed to create token issuer: %w", err)
	}

	auth := service.NewAuth(
		service.WithStore(st),
		service.WithHasher(password.NewHasher(cfg.Auth.BcryptCost)),
		service.WithTokenIssuer(issuer),
	)

	root := router.New()
	root.Use(
		middleware.Recover(),
		middleware.Log(),
		middleware.CORS(cfg.HTTP.AllowedOrigins),
	)
	root.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	root.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := st.Ping(r.Context()); err != nil {
			slog.Warn("store not ready", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	api := rest.NewAPI(
		auth,
		catalog,
		service.NewProgressService(st, time.Now),
		service.NewProfileService(st),
		service.NewSubscriptionService(st, time.Now),
	)
	root.SubRouter("/api").Handle("/", api)

	httpSrv := &http.Server{
		Addr:         cfg.HTTP.ListenAddr,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		Handler:      root,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func openStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	switch cfg.Store.Driver {
	case config.DriverMongo:
		client, err := store.NewMongoClient(ctx, store.MongoConfig{
			URL:     cfg.Store.Mongo.URL,
			Timeout: cfg.Store.Mongo.Timeout,
		})
		if err != nil {
			return nil, err
		}

		st, err := store.NewMongoStore(ctx, client, cfg.Store.Mongo.DB)
		if err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}

		return st, nil
	case config.DriverPostgres:
		db, err := store.NewPostgresDB(store.PostgresConfig{
			Host:     cfg.Store.Postgres.Host,
			Port:     cfg.Store.Postgres.Port,
			User:     cfg.Store.Postgres.User,
			Password: cfg.Store.Postgres.Password,
			DB:       cfg.Store.Postgres.DB,
		})
		if err != nil {
			return nil, err
		}

		if err := store.Migrate(db); err != nil {
			_ = db.Close()
			return nil, err
		}

		return store.NewPostgresStore(db), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		slog.Error("learn service terminated with error", "error", err)
		os.Exit(1)
	}
}
