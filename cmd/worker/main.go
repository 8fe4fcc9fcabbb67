package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/pawkit-ai/pawkit-backend/internal/config"
	"github.com/pawkit-ai/pawkit-backend/internal/pipeline"
	"github.com/pawkit-ai/pawkit-backend/internal/pool"
	"github.com/pawkit-ai/pawkit-backend/internal/storage/postgres"
)

func main() {
	log.Println("Starting Worker...")

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

	log.Println("SUCCESS! Database connected")

	jobRepo := postgres.NewJobRepository(gdb)
	orderRepo := postgres.NewOrderRepository(gdb)
	batchRepo := postgres.NewBatchRepository(gdb)

	backend := pipeline.NewBackendClient(cfg.BackendBaseURL)
	renderer := pipeline.NewBackendClient(cfg.ClipRendererURL)
	dispatcher := pipeline.NewDispatcher(jobRepo, orderRepo, batchRepo,
		pipeline.DefaultSteps(backend, renderer), cfg.DispatchBatchSize)
	watchdog := pipeline.NewWatchdog(jobRepo)

	workerPool := pool.NewWorkerPool(cfg.MaxWorkers, dispatcher, watchdog,
		cfg.WatchdogTimeout, cfg.WatchdogAttempts)

	workerPool.Start()
	log.Println("Worker pool active. Press Ctrl+C to stop.")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	workerPool.Stop()
	log.Println("Shutdown complete.")
}
