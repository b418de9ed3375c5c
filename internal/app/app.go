package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/backoffice/internal/cache"
	"github.com/vladislavdragonenkov/backoffice/internal/domain"
	healthcheck "github.com/vladislavdragonenkov/backoffice/internal/health"
	"github.com/vladislavdragonenkov/backoffice/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/backoffice/internal/service/auth"
	"github.com/vladislavdragonenkov/backoffice/internal/service/catalog"
	"github.com/vladislavdragonenkov/backoffice/internal/service/order"
	"github.com/vladislavdragonenkov/backoffice/internal/service/outbox"
	"github.com/vladislavdragonenkov/backoffice/internal/storage/memory"
	"github.com/vladislavdragonenkov/backoffice/internal/storage/postgres"
	transport "github.com/vladislavdragonenkov/backoffice/internal/transport/http"
	"github.com/vladislavdragonenkov/backoffice/internal/version"
)

const shutdownTimeout = 5 * time.Second

// repositories — набор хранилищ, собранный либо поверх PostgreSQL, либо
// поверх in-memory реализации.
type repositories struct {
	products   domain.ProductRepository
	categories domain.CategoryRepository
	sellers    domain.SellerRepository
	orders     domain.OrderRepository
	users      domain.UserRepository
	outbox     domain.OutboxRepository
	placement  domain.PlacementUnitOfWork
	close      func() error
	healthFn   func() error
}

// Run собирает зависимости по конфигурации и держит серверы до отмены контекста.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	repos, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := repos.close(); err != nil {
			logger.WithError(err).Warn("storage close failed")
		}
	}()

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient, err = cache.NewClient(ctx, cfg.RedisAddr)
		if err != nil {
			logger.WithError(err).Warn("redis unavailable, order cache disabled")
		} else {
			defer redisClient.Close()
			logger.WithField("addr", cfg.RedisAddr).Info("order cache enabled")
		}
	}
	orderCache := cache.NewOrderCache(redisClient, cfg.CacheTTL, logger.WithField("component", "order-cache"))

	authSvc := auth.NewService(repos.users, []byte(cfg.JWTSecret), cfg.TokenTTL, logger.WithField("component", "auth"))
	products := catalog.NewProductService(repos.products, repos.categories, logger.WithField("component", "catalog"))
	categories := catalog.NewCategoryService(repos.categories, logger.WithField("component", "catalog"))
	sellers := catalog.NewSellerService(repos.sellers, logger.WithField("component", "catalog"))
	placer := order.NewPlacer(repos.placement, logger.WithField("component", "order-placer"))
	orders := order.NewService(repos.orders, repos.outbox, logger.WithField("component", "order-service"))

	// Outbox-воркер публикует события только при настроенном Kafka.
	var kafkaProducer *kafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		kafkaProducer, err = kafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			logger.WithError(err).Warn("kafka unavailable, outbox worker disabled")
		} else {
			defer func() {
				if err := kafkaProducer.Close(); err != nil {
					logger.WithError(err).Warn("kafka producer close failed")
				}
			}()

			worker := outbox.NewWorker(
				repos.outbox,
				kafka.NewOutboxPublisher(kafkaProducer, cfg.OrderTopic),
				outbox.WithDLQPublisher(kafka.NewOutboxPublisher(kafkaProducer, cfg.OrderDLQTopic)),
				outbox.WithLogger(logger.WithField("component", "outbox-worker")),
			)
			go worker.Run(ctx)
			logger.WithField("brokers", cfg.KafkaBrokers).Info("outbox worker started")
		}
	}

	router := transport.NewRouter(transport.RouterDeps{
		Auth:            authSvc,
		Products:        products,
		Categories:      categories,
		Sellers:         sellers,
		Placer:          placer,
		Orders:          orders,
		OrderCache:      orderCache,
		DefaultPageSize: cfg.DefaultPageSize,
		Logger:          logger.WithField("component", "http"),
	})

	healthHandler := healthcheck.NewHandler(version.String())
	healthHandler.RegisterChecker("storage", healthcheck.NewSimpleChecker("storage", repos.healthFn))
	if redisClient != nil {
		healthHandler.RegisterChecker("redis", healthcheck.NewSimpleChecker("redis", func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			return redisClient.Ping(pingCtx).Err()
		}))
	}

	metricsSrv := startMetricsServer(ctx, cfg.MetricsAddr, logger, healthHandler)

	apiSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}
	errCh := make(chan error, 1)
	go func() {
		logger.WithField("addr", cfg.HTTPAddr).Info("http server listening")
		errCh <- apiSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		shutdownHTTP(apiSrv, logger)
		shutdownHTTP(metricsSrv, logger)
		return ctx.Err()
	case err := <-errCh:
		shutdownHTTP(metricsSrv, logger)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// buildRepositories выбирает хранилище: PostgreSQL при заданном DSN,
// иначе in-memory.
func buildRepositories(ctx context.Context, cfg Config, logger *log.Entry) (*repositories, error) {
	if cfg.PostgresDSN == "" {
		logger.Info("postgres dsn is empty, using in-memory storage")
		store := memory.NewStore()
		outboxRepo := memory.NewOutboxRepository()
		return &repositories{
			products:   memory.NewProductRepository(store),
			categories: memory.NewCategoryRepository(store),
			sellers:    memory.NewSellerRepository(store),
			orders:     memory.NewOrderRepository(store),
			users:      memory.NewUserRepository(store),
			outbox:     outboxRepo,
			placement:  memory.NewPlacementUnitOfWork(store, outboxRepo, cfg.LockTimeout),
			close:      func() error { return nil },
			healthFn:   func() error { return nil },
		}, nil
	}

	store, err := postgres.Open(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}
	if err := store.EnsureSchema(ctx); err != nil {
		store.Close()
		return nil, err
	}
	logger.Info("postgres storage ready")

	return &repositories{
		products:   postgres.NewProductRepository(store),
		categories: postgres.NewCategoryRepository(store),
		sellers:    postgres.NewSellerRepository(store),
		orders:     postgres.NewOrderRepository(store),
		users:      postgres.NewUserRepository(store),
		outbox:     postgres.NewOutboxRepository(store),
		placement:  postgres.NewPlacementUnitOfWork(store, cfg.LockTimeout),
		close:      store.Close,
		healthFn: func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			return store.Ping(pingCtx)
		},
	}, nil
}

// startMetricsServer запускает HTTP-обработчики /metrics и health-проб.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler *healthcheck.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.WithField("addr", addr).Info("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("http shutdown with error")
	}
}
