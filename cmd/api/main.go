package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"lwg-storefront/internal/config"
	"lwg-storefront/internal/database"
	"lwg-storefront/internal/logger"
	"lwg-storefront/internal/repository"
	"lwg-storefront/internal/seed"
	"lwg-storefront/internal/server"
	"lwg-storefront/internal/service"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func gracefulShutdown(apiServer *server.Server, logger *zap.Logger, done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	logger.Info("Shutting down gracefully, press Ctrl+C again to force")
	stop()

	// In-flight requests get 30 seconds to finish.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	if err := apiServer.Close(); err != nil {
		logger.Error("Error closing server resources", zap.Error(err))
	}

	logger.Info("Server exiting")
	done <- true
}

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting storefront API",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
		zap.String("backend", cfg.Store.Backend),
	)

	var (
		store     *repository.Store
		dbService *database.Service
	)
	switch cfg.Store.Backend {
	case "postgres":
		dbService, err = database.New(cfg.Database)
		if err != nil {
			log.Fatal("Failed to connect to database", zap.Error(err))
		}
		log.Info("Database health check", zap.Any("health", dbService.Health(context.Background())))

		if err := database.RunMigrations(dbService.DB(), "migrations", log); err != nil {
			log.Fatal("Failed to run migrations", zap.Error(err))
		}

		store = repository.NewPostgresStore(dbService.DB(), cfg.Order.RefPrefix)
	default:
		store = repository.NewMemoryStore(cfg.Order.RefPrefix)
	}

	// Seed the admin account and starter catalog.
	authService := service.NewAuthService(store.Users, cfg.JWT.Secret)
	catalogService := service.NewCatalogService(store.Products)
	if err := seed.Run(context.Background(), authService, catalogService, cfg.Admin.Username, cfg.Admin.Password, log); err != nil {
		log.Fatal("Failed to seed data", zap.Error(err))
	}

	// Redis backs login rate limiting; the API runs without it.
	var redisClient *redis.Client
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn("Redis unavailable, login rate limiting disabled", zap.Error(err))
		client.Close()
	} else {
		redisClient = client
	}
	cancel()

	srv := server.NewServer(cfg, log, store, dbService, redisClient)

	done := make(chan bool, 1)
	go gracefulShutdown(srv, log, done)

	log.Info("Server listening", zap.String("addr", srv.Addr))

	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		log.Fatal("HTTP server error", zap.Error(err))
	}

	<-done
	log.Info("Graceful shutdown complete")
}
