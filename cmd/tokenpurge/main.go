package main

import (
	"context"
	"database/sql"
	"os"
	"time"

	_ "github.com/lib/pq"

	"github.com/vncsmyrnk/dailygoals/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/dailygoals/internal/config"
	"github.com/vncsmyrnk/dailygoals/internal/core/services"
	"github.com/vncsmyrnk/dailygoals/internal/logging"
)

func main() {
	ctx := context.Background()

	cfg, err := config.LoadJob("tokenpurge", os.Args[1:])
	if err != nil {
		logging.Default().Error(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	log, err := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		logging.Default().Error(ctx, "failed to build logger", "error", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Error(ctx, "failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		log.Error(ctx, "failed to reach database", "error", err)
		os.Exit(1)
	}

	// Initialize Repository
	tokenRepo := postgres.NewTokenRepository(db)

	// Initialize Service
	purgeService := services.NewPurgeService(tokenRepo)

	// Use a timeout for the job execution to prevent it from hanging indefinitely
	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	log.Info(ctx, "starting token purge job", "retention", cfg.TokenRetention.String())

	purged, err := purgeService.PurgeDeadTokens(ctx, cfg.TokenRetention)
	if err != nil {
		log.Error(ctx, "error purging tokens", "error", err)
		os.Exit(1)
	}

	for kind, n := range purged {
		log.Info(ctx, "purged dead tokens", "kind", string(kind), "count", n)
	}
	log.Info(ctx, "token purge completed successfully")
}
