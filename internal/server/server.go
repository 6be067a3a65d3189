package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"lwg-storefront/internal/config"
	"lwg-storefront/internal/database"
	custommiddleware "lwg-storefront/internal/middleware"
	"lwg-storefront/internal/repository"
	"lwg-storefront/internal/service"
	"lwg-storefront/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config      *config.Config
	logger      *zap.Logger
	dbService   *database.Service
	redisClient *redis.Client
}

// NewServer wires the store, services and handlers into an HTTP server.
// dbService and redisClient may be nil when the memory backend runs
// without redis.
func NewServer(cfg *config.Config, logger *zap.Logger, store *repository.Store, dbService *database.Service, redisClient *redis.Client) *Server {
	startedAt := time.Now()
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.CORSMiddleware(nil, cfg.Server.Env != "production"))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		health := map[string]string{"status": "ok"}
		if dbService != nil {
			health = dbService.Health(r.Context())
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(health)
	})

	router.Get("/api/status", func(w http.ResponseWriter, r *http.Request) {
		custommiddleware.RespondWithJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"backend": cfg.Store.Backend,
			"env":     cfg.Server.Env,
			"uptime":  time.Since(startedAt).Round(time.Second).String(),
		})
	})

	// Services
	authService := service.NewAuthService(store.Users, cfg.JWT.Secret)
	catalogService := service.NewCatalogService(store.Products)
	orderService := service.NewOrderService(store.Orders, store.Products)

	// Handlers
	authHandler := transport.NewAuthHandler(authService, logger)
	productHandler := transport.NewProductHandler(catalogService, logger)
	orderHandler := transport.NewOrderHandler(orderService, logger)

	authMiddleware := custommiddleware.AuthMiddleware(authService, logger)

	var loginRateLimit func(http.Handler) http.Handler
	if redisClient != nil {
		loginRateLimit = custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: 10,
			Window:            time.Minute,
			KeyPrefix:         "login_rate",
		}, logger)
	}

	authHandler.RegisterRoutes(router, loginRateLimit)
	productHandler.RegisterRoutes(router, authMiddleware)
	orderHandler.RegisterRoutes(router, authMiddleware)

	return &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config:      cfg,
		logger:      logger,
		dbService:   dbService,
		redisClient: redisClient,
	}
}

// Close releases server resources.
func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.dbService != nil {
		if err := s.dbService.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}
	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
