package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"slices"

	"github.com/gravadigital/election-portal/internal/config"
	"github.com/gravadigital/election-portal/internal/logger"
	"github.com/gravadigital/election-portal/internal/storage/migrations"
	"github.com/gravadigital/election-portal/internal/storage/postgres"
)

func main() {
	cfg := config.Load()

	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	status := flag.Bool("status", false, "List applied migrations")
	flag.Parse()

	logger.Initialize(cfg.Log.Level)
	log := logger.Migration()

	log.Info("Starting migration process", "rollback", *rollback, "status", *status)

	db, err := postgres.Connect(context.Background(), cfg)
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer postgres.Close(db)

	switch {
	case *status:
		applied, err := migrations.Applied(db)
		if err != nil {
			log.Error("Failed to read migration status", "error", err)
			os.Exit(1)
		}
		for _, m := range migrations.GetMigrations() {
			mark := " "
			if slices.Contains(applied, m.ID) {
				mark = "x"
			}
			fmt.Printf("[%s] %s %s\n", mark, m.ID, m.Name)
		}
		return

	case *rollback:
		log.Info("Rolling back migrations...")
		if err := migrations.RollbackMigration(db); err != nil {
			log.Error("Migration rollback failed", "error", err)
			os.Exit(1)
		}
		log.Info("Migration rollback completed successfully")

	default:
		log.Info("Running migrations...")
		if err := migrations.RunMigrations(db); err != nil {
			log.Error("Migration failed", "error", err)
			os.Exit(1)
		}
		log.Info("Migrations completed successfully")
	}

	fmt.Println("Migration process completed!")
}
