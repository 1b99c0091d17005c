package main

import (
	"context"
	"flag"
	"log"

	"tempo/backend/internal/config"
	"tempo/backend/internal/db"
)

func main() {
	configPath := flag.String("config", "", "path to a yaml config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	database, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations(context.Background(), database, db.MigrationSource(cfg.MigrationsDir)); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	log.Println("migrations applied successfully")
}
