package main

// Apply migrations and seed the catalog:
//   go run ./cmd/migrate            (up + seed)
//   go run ./cmd/migrate -cmd status
//   go run ./cmd/migrate -seed=false

import (
	"context"
	"flag"
	"log"
	"os"

	"btoolme/internal/catalog"
	"btoolme/internal/shared/config"
	"btoolme/internal/shared/storage/db"
)

func main() {
	command := flag.String("cmd", "up", "goose command: up, down, status, version")
	seed := flag.Bool("seed", true, "replace the tools table with the embedded catalog after migrating up")
	flag.Parse()

	cfg := config.Load()
	ctx := context.Background()

	opts := db.OptionsFromEnv(db.DefaultOptions(db.RuntimeMigrate))
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		log.Printf("failed to connect database: %v", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := db.Migrate(ctx, sqlDB, *command); err != nil {
		log.Printf("failed to run migrations: %v", err)
		os.Exit(1)
	}
	if *command != "up" || !*seed {
		return
	}

	tools := catalog.Default()
	repo := &catalog.PGRepo{DB: sqlDB}
	if err := repo.Sync(ctx, tools); err != nil {
		log.Printf("failed to seed catalog: %v", err)
		os.Exit(1)
	}
	log.Printf("catalog seeded with %d tools", len(tools))
}
