package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/iamcal77/e-shop-backened/internal/auth"
	"github.com/iamcal77/e-shop-backened/internal/cache"
	"github.com/iamcal77/e-shop-backened/internal/httpapi"
	"github.com/iamcal77/e-shop-backened/internal/notifier"
	"github.com/iamcal77/e-shop-backened/internal/publisher"
	"github.com/iamcal77/e-shop-backened/internal/repository"
	"github.com/iamcal77/e-shop-backened/internal/service"
	"github.com/iamcal77/e-shop-backened/pkg/logger"
	"github.com/iamcal77/e-shop-backened/pkg/metrics"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	slogger := logger.New("server")
	slogger.Info("e-shop backend starting")

	// Configuration
	httpPort := getEnv("HTTP_PORT", "8080")
	jwtSecret := getEnv("JWT_SECRET", "dev-secret-change-me")
	tokenTTL, err := time.ParseDuration(getEnv("TOKEN_TTL", "24h"))
	if err != nil {
		log.Fatalf("Invalid TOKEN_TTL: %v", err)
	}

	// Database setup
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbUser := getEnv("DB_USER", "postgres")
	dbPass := getEnv("DB_PASSWORD", "postgres")
	dbName := getEnv("DB_NAME", "eshop")
	migrationsPath := getEnv("MIGRATIONS_PATH", "./migrations")

	port, err := strconv.Atoi(dbPort)
	if err != nil {
		log.Fatalf("Invalid DB_PORT: %v", err)
	}

	creds := &repository.Credentials{
		Host:              dbHost,
		Port:              port,
		User:              dbUser,
		Password:          dbPass,
		DBName:            dbName,
		MigrationsDirPath: migrationsPath,
	}

	repo, err := repository.NewRepository(creds)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer repo.Close()

	if err := repo.RunMigrations(creds); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slogger.Info("database migrations completed")

	// Redis cart cache
	redisAddr := getEnv("REDIS_ADDR", "localhost:6379")
	redisClient := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer redisClient.Close()
	cartCache := cache.NewRedisCache(redisClient)

	// Kafka is optional; without brokers alerts go to the log and the
	// outbox just accumulates until a poller drains it.
	var (
		lowStock service.LowStockNotifier
		brokers  []string
	)
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		brokers = strings.Split(raw, ",")
		kn := notifier.NewKafkaNotifier(brokers...)
		defer kn.Close()
		lowStock = kn
		slogger.Info("kafka notifier enabled", "brokers", brokers)
	} else {
		lowStock = notifier.LogNotifier{}
		slogger.Info("no KAFKA_BROKERS set, low-stock alerts go to the log")
	}

	pollerCtx, stopPoller := context.WithCancel(context.Background())
	defer stopPoller()
	if len(brokers) > 0 {
		poller := publisher.NewOutboxPoller(repo, brokers...)
		go poller.Run(pollerCtx)
		slogger.Info("outbox poller started")
	}

	// Services
	authenticator := auth.NewAuthenticator(jwtSecret, tokenTTL)
	cartService := service.NewCartService(repo, cartCache)
	checkoutService := service.NewCheckoutService(repo, lowStock, cartCache)
	inventoryService := service.NewInventoryService(repo, lowStock)
	posService := service.NewPOSService(repo)

	// HTTP surface
	serverMetrics := metrics.NewServerMetrics("api")
	router := httpapi.NewRouter(httpapi.Handlers{
		Cart:      httpapi.NewCartHandler(cartService),
		Checkout:  httpapi.NewCheckoutHandler(checkoutService),
		Inventory: httpapi.NewInventoryHandler(inventoryService),
		POS:       httpapi.NewPOSHandler(posService),
		Orders:    httpapi.NewOrdersHandler(repo),
		Catalog:   httpapi.NewCatalogHandler(repo),
		Pricing:   httpapi.NewPricingHandler(repo),
		Auth:      httpapi.NewAuthHandler(repo, authenticator),
	}, authenticator, serverMetrics)

	server := &http.Server{
		Addr:         ":" + httpPort,
		Handler:      otelhttp.NewHandler(router, "eshop-api"),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slogger.Info("listening", "port", httpPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slogger.Info("shutting down")
	stopPoller()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slogger.Error("shutdown error", "error", err)
	}
	slogger.Info("stopped")
}
