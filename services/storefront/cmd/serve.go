package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"StorefrontPlatform/pkg/config"
	"StorefrontPlatform/pkg/database"
	"StorefrontPlatform/pkg/health"
	"StorefrontPlatform/pkg/logger"
	"StorefrontPlatform/pkg/metrics"
	"StorefrontPlatform/pkg/rabbitmq"
	"StorefrontPlatform/pkg/ratelimit"
	pkgredis "StorefrontPlatform/pkg/redis"
	"StorefrontPlatform/services/storefront/internal/auth"
	"StorefrontPlatform/services/storefront/internal/events"
	"StorefrontPlatform/services/storefront/internal/grpcserver"
	httphandler "StorefrontPlatform/services/storefront/internal/handler/http"
	"StorefrontPlatform/services/storefront/internal/pkg/jwt"
	"StorefrontPlatform/services/storefront/internal/pkg/password"
	"StorefrontPlatform/services/storefront/internal/repository"
	"StorefrontPlatform/services/storefront/internal/repository/postgres"
	cachedrepo "StorefrontPlatform/services/storefront/internal/repository/redis"
	"StorefrontPlatform/services/storefront/internal/service"
)

const (
	shutdownTimeout     = 30 * time.Second
	healthCheckTimeout  = 5 * time.Second
	healthWatchInterval = 10 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Запустить HTTP и gRPC серверы",
	RunE: func(cmd *cobra.Command, args []string) error {
		withMigrations, _ := cmd.Flags().GetBool("migrate")

		cfg, log, err := loadRuntime()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		return serve(cmd.Context(), cfg, log, withMigrations)
	},
}

func init() {
	serveCmd.Flags().Bool("migrate", false, "apply database migrations before start")
}

// serve собирает зависимости и обслуживает запросы до отмены ctx
func serve(ctx context.Context, cfg *config.Config, log logger.Logger, withMigrations bool) error {
	log.Info("Starting storefront service",
		logger.String("environment", cfg.Environment),
		logger.String("version", version))

	shutdownTracing := metrics.InitializeOpenTelemetry(serviceName, version)
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Warn("Failed to shutdown tracer provider", logger.Error(err))
		}
	}()

	appMetrics := metrics.NewMetrics(serviceName)
	checker := health.NewDependencyChecker(version, healthCheckTimeout)

	// PostgreSQL
	dbConfig := database.FromAppConfig(cfg.Database)
	if withMigrations {
		if err := applyMigrations(dbConfig); err != nil {
			return err
		}
		log.Info("Migrations applied")
	}
	db, err := database.Connect(ctx, dbConfig)
	if err != nil {
		return err
	}
	defer db.Close()
	checker.Register("postgres", db.HealthCheck)

	users := postgres.NewUserRepository(db.Pool)
	orders := postgres.NewOrderRepository(db.Pool)
	productStore := postgres.NewProductRepository(db.Pool)
	pricing, catalogReads := catalogStores(productStore, nil, 0, log, appMetrics)

	// Redis нужен кэшу каталога и ограничению попыток входа
	var handlerOptions []httphandler.Option
	if cfg.CatalogCache.Enabled || cfg.LoginLimit.Enabled {
		redisClient, err := pkgredis.Connect(ctx, pkgredis.FromAppConfig(cfg.Redis))
		if err != nil {
			return err
		}
		defer redisClient.Close()
		checker.Register("redis", redisClient.HealthCheck)

		if cfg.CatalogCache.Enabled {
			pricing, catalogReads = catalogStores(productStore, redisClient, cfg.CatalogCacheTTL(), log, appMetrics)
			log.Info("Catalog cache enabled", logger.Duration("ttl", cfg.CatalogCacheTTL()))
		}
		if cfg.LoginLimit.Enabled {
			limiter := ratelimit.NewRedisRateLimiter(redisClient.Client, serviceName)
			handlerOptions = append(handlerOptions, httphandler.WithLoginLimiter(limiter, cfg.LoginLimit.Limit, cfg.LoginLimitWindow()))
			log.Info("Login rate limit enabled",
				logger.Int("limit", cfg.LoginLimit.Limit),
				logger.Duration("window", cfg.LoginLimitWindow()))
		}
	}

	// RabbitMQ события
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.RabbitMQ.URL != "" {
		rabbitConfig := rabbitmq.FromAppConfig(cfg.RabbitMQ)
		conn, err := rabbitmq.Connect(ctx, rabbitConfig)
		if err != nil {
			return err
		}
		defer conn.Close()
		checker.Register("rabbitmq", conn.HealthCheck)

		publisher = events.NewRabbitPublisher(rabbitmq.NewProducer(conn, rabbitConfig))
		log.Info("Order events enabled", logger.String("exchange", rabbitConfig.Exchange))
	}

	tokens, err := jwt.NewManager(cfg.JWT.Secret, cfg.TokenLifetime())
	if err != nil {
		return err
	}

	gate := auth.NewGate(tokens, users, log, appMetrics)
	orderService := service.NewOrderService(pricing, orders, publisher, appMetrics, log)
	accountService := service.NewAccountService(users, orders, tokens, password.NewBcryptHasher(0), log)
	catalogService := service.NewCatalogService(catalogReads)

	readTimeout, writeTimeout := cfg.ServerTimeouts()
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      httphandler.NewHandler(orderService, accountService, catalogService, gate, checker, appMetrics, log, handlerOptions...),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errCh := make(chan error, 2)
	go func() {
		log.Info("Starting HTTP server", logger.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	var grpcServer *grpcserver.Server
	if cfg.GRPC.Port > 0 {
		lis, err := net.Listen("tcp", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.GRPC.Port))
		if err != nil {
			return fmt.Errorf("failed to listen grpc port: %w", err)
		}
		grpcServer = grpcserver.New(gate, checker, log)
		go grpcServer.Watch(ctx, healthWatchInterval)
		go func() {
			if err := grpcServer.Serve(lis); err != nil {
				errCh <- fmt.Errorf("grpc server: %w", err)
			}
		}()
	}

	var serveErr error
	select {
	case <-ctx.Done():
		log.Info("Received shutdown signal")
	case serveErr = <-errCh:
		log.Error("Server failed", logger.Error(serveErr))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if grpcServer != nil {
		grpcServer.Stop(shutdownCtx)
	}
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP server shutdown failed", logger.Error(err))
	}

	log.Info("Storefront service stopped")
	return serveErr
}

// catalogStores возвращает хранилище для цен заказа и хранилище для чтения каталога.
// Цены при оформлении заказа всегда читаются мимо кэша.
func catalogStores(
	store repository.ProductRepository,
	cache cachedrepo.Cache,
	ttl time.Duration,
	log logger.Logger,
	recorder cachedrepo.LookupRecorder,
) (pricing, reads repository.ProductRepository) {
	if cache == nil {
		return store, store
	}
	return store, cachedrepo.NewCachedProductRepository(store, cache, ttl, log, recorder)
}
