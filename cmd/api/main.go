package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	c "github.com/fjod/go_food/internal/cache"
	"github.com/fjod/go_food/internal/config"
	"github.com/fjod/go_food/internal/events"
	h "github.com/fjod/go_food/internal/http"
	"github.com/fjod/go_food/internal/ledger"
	"github.com/fjod/go_food/internal/metrics"
	"github.com/fjod/go_food/internal/payment"
	"github.com/fjod/go_food/internal/repository"
	s "github.com/fjod/go_food/internal/service"
)

func main() {
	cfg := config.Load()
	if len(cfg.JWTSecret) == 0 {
		log.Fatal("JWT_SECRET is required")
	}
	ctx := context.Background()

	// MongoDB
	mongoDB, err := repository.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer mongoDB.Client().Disconnect(context.Background())
	log.Printf("Connected to MongoDB at %s", cfg.MongoURI)

	foods := repository.NewFoodRepository(mongoDB)
	users := repository.NewUserRepository(mongoDB)
	orders := repository.NewOrderRepository(mongoDB)
	if err := repository.CreateIndexes(ctx, orders); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	// Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("Redis connection failed:", err)
	}
	log.Printf("Redis ping succeeded")

	catalog := s.NewCatalogService(foods, c.NewRedisCache(redisClient))

	if cfg.StripeSecretKey == "" {
		log.Println("STRIPE_SECRET_KEY is empty, checkout sessions will fail")
	}
	gateway := payment.NewBreakerGateway(payment.NewStripeGateway(cfg.StripeSecretKey), payment.DefaultBreakerSettings())

	publisher := events.NewPublisher(cfg.OrderEventsTopic, cfg.KafkaBrokers...)
	defer publisher.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	deps := s.Deps{
		Orders:      orders,
		Users:       users,
		Catalog:     catalog,
		Gateway:     gateway,
		Events:      publisher,
		Metrics:     m,
		FrontendURL: cfg.FrontendURL,
	}

	// Postgres ledger is optional
	if cfg.Postgres != nil {
		ledgerRepo, err := ledger.NewRepository(cfg.Postgres)
		if err != nil {
			log.Fatalf("Failed to connect to ledger database: %v", err)
		}
		defer ledgerRepo.Close()

		if err := ledgerRepo.RunMigrations(cfg.Postgres); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		log.Println("Ledger migrations completed")
		deps.Ledger = ledgerRepo
	}

	orderService := s.NewOrderService(deps)

	router := h.NewRouter(h.RouterConfig{
		Orders:             h.NewOrderHandler(orderService, cfg.RequestTimeout),
		Foods:              h.NewFoodHandler(catalog, cfg.RequestTimeout),
		Metrics:            m.Handler(),
		JWTSecret:          cfg.JWTSecret,
		AllowedOrigins:     cfg.AllowedOrigins,
		RequestTimeout:     cfg.RequestTimeout,
		MaxRequestBodySize: cfg.MaxRequestBodySize,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "food-api"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Food API starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
