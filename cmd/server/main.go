package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/vncsmyrnk/dailygoals/internal/adapters/handler/http"
	"github.com/vncsmyrnk/dailygoals/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/dailygoals/internal/config"
	"github.com/vncsmyrnk/dailygoals/internal/core/services"
	"github.com/vncsmyrnk/dailygoals/internal/logging"
	"github.com/vncsmyrnk/dailygoals/internal/metrics"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load("server", os.Args[1:])
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to reach database: %w", err)
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		return err
	}

	// Initialize Repositories
	userRepo := postgres.NewUserRepository(db)
	tokenRepo := postgres.NewTokenRepository(db)
	projectRepo := postgres.NewProjectRepository(db)
	goalRepo := postgres.NewGoalRepository(db)
	retroRepo := postgres.NewRetroRepository(db)

	// Initialize Services
	userSvc := services.NewUserService(userRepo, cfg.BcryptCost)
	issuer := services.NewTokenIssuer(tokenRepo, []byte(cfg.JWTSecret), cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	authSvc := services.NewAuthService(userSvc, issuer, log)
	projectSvc := services.NewProjectService(projectRepo)
	goalSvc := services.NewGoalService(goalRepo, projectRepo)
	retroSvc := services.NewRetroService(retroRepo, projectRepo)

	router := http.NewHandler(http.Handlers{
		Auth:    http.NewAuthHandler(authSvc, log),
		User:    http.NewUserHandler(userSvc, log),
		Project: http.NewProjectHandler(projectSvc, log),
		Goal:    http.NewGoalHandler(goalSvc, log),
		Retro:   http.NewRetroHandler(retroSvc, log),
		Health:  http.NewHealthHandler(db, log),
	}, http.RouterDeps{
		DB:          db,
		AuthService: authSvc,
		Log:         log,
		Instrument:  cfg.MetricsAddr != "",
	})

	servers := []*stdhttp.Server{{Addr: cfg.HTTPAddr, Handler: router}}
	if cfg.MetricsAddr != "" {
		servers = append(servers, &stdhttp.Server{Addr: cfg.MetricsAddr, Handler: metrics.Handler()})
	}

	return serve(ctx, stop, servers, cfg.ShutdownTimeout, log)
}

// serve runs every server until ctx is done or one of them fails, then shuts
// all of them down. A listener failure is part of the returned error.
func serve(ctx context.Context, stop context.CancelFunc, servers []*stdhttp.Server, shutdownTimeout time.Duration, log logging.Logger) error {
	errCh := make(chan error, len(servers))
	for _, server := range servers {
		go func(server *stdhttp.Server) {
			log.Info(ctx, "listening", "addr", server.Addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
				errCh <- fmt.Errorf("server on %s failed: %w", server.Addr, err)
			}
		}(server)
	}

	var errs []error
	select {
	case <-ctx.Done():
	case err := <-errCh:
		log.Error(ctx, "shutting down after server failure", "error", err)
		errs = append(errs, err)
		stop()
	}
	log.Info(ctx, "gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	for _, server := range servers {
		if err := server.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
