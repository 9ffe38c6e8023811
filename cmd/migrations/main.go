package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/lib/pq"

	"github.com/vncsmyrnk/dailygoals/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/dailygoals/internal/config"
)

const usage = "usage: migrations [flags] up|down|status"

func main() {
	if len(os.Args) < 2 {
		log.Fatal(usage)
	}
	command := os.Args[len(os.Args)-1]

	cfg, err := config.LoadJob("migrations", os.Args[1:len(os.Args)-1])
	if err != nil {
		log.Fatal(err)
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := runCommand(ctx, db, command); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Migration command %q executed successfully.\n", command)
}

func runCommand(ctx context.Context, db *sql.DB, command string) error {
	switch command {
	case "up":
		return postgres.Migrate(ctx, db)
	case "down":
		return postgres.MigrateDown(ctx, db)
	case "status":
		return postgres.MigrationStatus(ctx, db)
	default:
		return fmt.Errorf("unknown command %q; %s", command, usage)
	}
}
