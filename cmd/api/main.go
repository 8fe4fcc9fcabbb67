package main

import (
	"context"
	"flag"
	"log"

	"github.com/pawkit-ai/pawkit-backend/db"
	"github.com/pawkit-ai/pawkit-backend/internal/config"
	"github.com/pawkit-ai/pawkit-backend/internal/httpapi"
	"github.com/pawkit-ai/pawkit-backend/internal/storage/postgres"
	"github.com/pressly/goose/v3"
)

func main() {
	migrate := flag.Bool("migrate", false, "apply pending database migrations before serving")
	flag.Parse()

	log.Println("Starting API...")

	ctx := context.Background()
	cfg, err := config.LoadFromEnv(ctx)
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	dbCfg, err := postgres.LoadConfigFromEnv(ctx)
	if err != nil {
		log.Fatal("Failed to load db config:", err)
	}

	gdb, err := postgres.ConnectDB(dbCfg)
	if err != nil {
		log.Fatal("Connection failed:", err)
	}

	if *migrate {
		sqlDB, err := gdb.DB()
		if err != nil {
			log.Fatal("Failed to unwrap sql.DB:", err)
		}
		goose.SetBaseFS(db.Migrations)
		if err := goose.SetDialect("postgres"); err != nil {
			log.Fatal("Failed to set goose dialect:", err)
		}
		if err := goose.Up(sqlDB, "migrations"); err != nil {
			log.Fatal("Migration failed:", err)
		}
		log.Println("Migrations applied")
	}

	router := httpapi.NewRouter(gdb, cfg)
	log.Printf("Listening on %s", cfg.HTTPAddr)
	if err := router.Run(cfg.HTTPAddr); err != nil {
		log.Fatal("Server stopped:", err)
	}
}
