package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nats-io/nats.go"

	"lodging-service/internal/api"
	"lodging-service/internal/config"
	"lodging-service/internal/s3"
	"lodging-service/internal/worker"
)

const serviceName = "image-cleanup-worker"

func main() {
	cfg, err := config.LoadWorker()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	api.SetupGlobalHandler(serviceName, cfg.IsProduction())

	if !cfg.S3.Enabled() {
		log.Fatal("S3_ENDPOINT and S3_BUCKET_NAME must be set for the cleanup worker")
	}

	store, err := s3.NewImageStore(context.Background(), cfg.S3)
	if err != nil {
		log.Fatalf("Failed to configure S3 client: %v", err)
	}

	nc, err := nats.Connect(cfg.NatsURL, nats.Name(serviceName))
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}

	if _, err := worker.NewCleaner(store).Start(nc); err != nil {
		log.Fatalf("Failed to start worker: %v", err)
	}

	slog.Info("Image cleanup worker started, waiting for events...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down image cleanup worker...")
	if err := nc.Drain(); err != nil {
		slog.Error("Error draining NATS connection", slog.String("error", err.Error()))
	}
}
