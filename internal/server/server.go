package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"b2b-catalog/internal/chat"
	"b2b-catalog/internal/config"
	custommiddleware "b2b-catalog/internal/middleware"
	"b2b-catalog/internal/notify"
	"b2b-catalog/internal/service"
	"b2b-catalog/internal/store"
	"b2b-catalog/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	rdb    *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, rdb *redis.Client) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.CORSMiddleware(nil, cfg.Server.Env == "development"))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Initialize stores; each loads its snapshot (or seeds defaults) once.
	ctx := context.Background()
	snapshots := store.NewSnapshots(rdb, cfg.Redis.Namespace, logger)
	productStore := store.NewProductStore(ctx, snapshots, logger)
	userStore := store.NewUserStore(ctx, snapshots, logger)
	orderStore := store.NewOrderStore(ctx, snapshots, logger)
	cartStore := store.NewCartStore(snapshots, logger)

	// Initialize services
	notifier := notify.NewConsoleNotifier(logger)
	accessExpiry := time.Duration(cfg.JWT.AccessExpiry) * time.Minute
	userService := service.NewUserService(userStore, notifier, cfg.JWT.Secret, accessExpiry, logger)
	productService := service.NewProductService(productStore, logger)
	cartService := service.NewCartService(cartStore, productStore, logger)
	orderService := service.NewOrderService(orderStore, cartStore, userStore, notifier, logger)
	bridge := chat.NewHTTPBridge(cfg.Chat, logger)
	chatService := service.NewChatService(bridge, logger)

	// Initialize handlers
	authHandler := transport.NewAuthHandler(userService, cartService, chatService, logger)
	productHandler := transport.NewProductHandler(productService, logger)
	userHandler := transport.NewUserHandler(userService, logger)
	cartHandler := transport.NewCartHandler(cartService, logger)
	orderHandler := transport.NewOrderHandler(orderService, logger)
	chatHandler := transport.NewChatHandler(chatService, logger)

	// Route guards
	authMiddleware := custommiddleware.AuthMiddleware(cfg.JWT.Secret, userStore, logger)
	requireAdmin := custommiddleware.RequireAdmin(logger)
	requireSuperAdmin := custommiddleware.RequireSuperAdmin(logger)
	requireProducts := custommiddleware.RequireProductManagement(logger)
	requireUsers := custommiddleware.RequireUserManagement(logger)
	rateLimit := custommiddleware.RateLimitMiddleware(rdb, custommiddleware.RateLimitConfig{
		RequestsPerWindow: 10,
		Window:            time.Minute,
		KeyPrefix:         "ratelimit:auth",
	}, logger)

	// Register routes
	authHandler.RegisterRoutes(router, authMiddleware, rateLimit)
	productHandler.RegisterRoutes(router, authMiddleware, requireProducts, requireSuperAdmin)
	userHandler.RegisterRoutes(router, authMiddleware, requireUsers)
	cartHandler.RegisterRoutes(router, authMiddleware)
	orderHandler.RegisterRoutes(router, authMiddleware, requireAdmin)
	chatHandler.RegisterRoutes(router, authMiddleware)

	server := &Server{
		Server: &http.Server{
			Addr:        fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:     router,
			IdleTimeout: time.Minute,
			ReadTimeout: 10 * time.Second,
			// No write timeout: chat responses stream for as long as the
			// upstream model keeps producing.
			WriteTimeout: 0,
		},
		config: cfg,
		logger: logger,
		rdb:    rdb,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.rdb != nil {
		if err := s.rdb.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
