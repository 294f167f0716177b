package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/fjod/go_food/internal/config"
	"github.com/fjod/go_food/internal/events"
	"github.com/fjod/go_food/internal/ledger"
)

func main() {
	log.Println("order-audit starting...")
	var wg sync.WaitGroup

	cfg := config.Load()
	if cfg.Postgres == nil {
		log.Fatal("POSTGRES_HOST is required for order-audit")
	}

	repo, err := ledger.NewRepository(cfg.Postgres)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer repo.Close()

	if err := repo.RunMigrations(cfg.Postgres); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	consumer := events.NewConsumer(repo, cfg.OrderEventsTopic, cfg.AuditGroupID, cfg.KafkaBrokers...)
	consumerCtx, consumerCancel := context.WithCancel(context.Background())
	wg.Add(1)
	go func() {
		defer wg.Done()
		consumer.Run(consumerCtx)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down order-audit...")
	consumerCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	doneChan := make(chan struct{})
	go func() {
		wg.Wait()
		close(doneChan)
	}()

	select {
	case <-doneChan:
		log.Println("Consumer stopped cleanly")
	case <-shutdownCtx.Done():
		log.Println("Consumer didn't stop in time")
	}

	consumer.Close()
	log.Println("order-audit stopped")
}
