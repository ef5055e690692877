package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	carthttp "github.com/Abobakr505/Skandr-Shop/internal/cart/handler/http"
	cartredis "github.com/Abobakr505/Skandr-Shop/internal/cart/repository/redis"
	cartservice "github.com/Abobakr505/Skandr-Shop/internal/cart/service"
	cataloghttp "github.com/Abobakr505/Skandr-Shop/internal/catalog/handler/http"
	catalogpg "github.com/Abobakr505/Skandr-Shop/internal/catalog/repository/postgres"
	catalogservice "github.com/Abobakr505/Skandr-Shop/internal/catalog/service"
	"github.com/Abobakr505/Skandr-Shop/internal/config"
	contacthttp "github.com/Abobakr505/Skandr-Shop/internal/contact/handler/http"
	"github.com/Abobakr505/Skandr-Shop/internal/contact/mailer"
	contactpg "github.com/Abobakr505/Skandr-Shop/internal/contact/repository/postgres"
	contactservice "github.com/Abobakr505/Skandr-Shop/internal/contact/service"
	orderevent "github.com/Abobakr505/Skandr-Shop/internal/order/event"
	orderhttp "github.com/Abobakr505/Skandr-Shop/internal/order/handler/http"
	orderpg "github.com/Abobakr505/Skandr-Shop/internal/order/repository/postgres"
	orderservice "github.com/Abobakr505/Skandr-Shop/internal/order/service"
	"github.com/Abobakr505/Skandr-Shop/migrations"
	"github.com/Abobakr505/Skandr-Shop/pkg/database"
	"github.com/Abobakr505/Skandr-Shop/pkg/health"
	pkgkafka "github.com/Abobakr505/Skandr-Shop/pkg/kafka"
	"github.com/Abobakr505/Skandr-Shop/pkg/middleware"
	"github.com/Abobakr505/Skandr-Shop/pkg/tracing"
)

// App wires together all dependencies and runs the storefront server.
type App struct {
	cfg             *config.Config
	logger          *slog.Logger
	pool            *pgxpool.Pool
	rdb             *redis.Client
	producer        *pkgkafka.Producer
	httpServer      *http.Server
	tracingShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Tracing.
	tracingShutdown, err := tracing.InitTracer(ctx, cfg.Tracing())
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Postgres pool and schema migrations.
	pgCfg := cfg.Postgres()
	pool, err := database.NewPostgresPool(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	// Redis client for cart state.
	rdb, err := database.NewRedisClient(ctx, cfg.Redis())
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	// Kafka producer for order events.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Contact notification mailer.
	smtpMailer, err := mailer.NewSMTPMailer(mailer.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
		Inbox:    cfg.ContactInbox,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create mailer: %w", err)
	}

	// Build the dependency graph.
	catalogRepo := catalogpg.NewProductRepository(pool)
	catalogService := catalogservice.NewCatalogService(catalogRepo, logger, cfg.CatalogCacheTTL())

	cartRepo := cartredis.NewCartRepository(rdb, cfg.CartTTL())
	cartService := cartservice.NewCartService(cartRepo, catalogService, logger, cfg.CartTTL())

	orderRepo := orderpg.NewOrderRepository(pool)
	orderEvents := orderevent.NewProducer(producer, logger)
	orderService := orderservice.NewOrderService(orderRepo, cartRepo, orderEvents, logger, cfg.SubmitTimeout())

	contactRepo := contactpg.NewMessageRepository(pool)
	contactService := contactservice.NewContactService(contactRepo, smtpMailer, logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.Register("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
	healthHandler.Register("kafka", func(ctx context.Context) error {
		return producer.Ping(ctx)
	})

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins
	corsCfg.Environment = cfg.Environment

	router := newRouter(routerDeps{
		catalog:        cataloghttp.NewCatalogHandler(catalogService, logger),
		cart:           carthttp.NewCartHandler(cartService, logger),
		order:          orderhttp.NewOrderHandler(orderService, logger),
		contact:        contacthttp.NewContactHandler(contactService, logger),
		health:         healthHandler,
		logger:         logger,
		cors:           corsCfg,
		adminJWTSecret: []byte(cfg.AdminJWTSecret),
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:             cfg,
		logger:          logger,
		pool:            pool,
		rdb:             rdb,
		producer:        producer,
		httpServer:      httpServer,
		tracingShutdown: tracingShutdown,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
	}

	if err := a.rdb.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
	}

	a.pool.Close()

	if a.tracingShutdown != nil {
		if err := a.tracingShutdown(shutdownCtx); err != nil {
			a.logger.Error("tracing shutdown error", slog.String("error", err.Error()))
		}
	}

	a.logger.Info("application shutdown complete")
	return nil
}
