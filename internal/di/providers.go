package di

import (
	"context"
	"fmt"
	"time"

	"FundLens/internal/domain/repository"
	"FundLens/internal/handler/api"
	internalrepo "FundLens/internal/repository"
	"FundLens/internal/scheduler"
	"FundLens/internal/service/mfapi"
	"FundLens/internal/service/ratelimit"
	"FundLens/internal/services/navseries"
	"FundLens/internal/usecase"
	"FundLens/pkg/cache"
	pkgch "FundLens/pkg/clickhouse"
	"FundLens/pkg/config"
	xhttp "FundLens/pkg/http"
	"FundLens/pkg/http/middleware"
	pkgkafka "FundLens/pkg/kafka"
	applogger "FundLens/pkg/logger"
	"FundLens/pkg/metrics"
	"FundLens/pkg/server"

	"github.com/prometheus/client_golang/prometheus"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cfg.Log.Output,
		Service: "fundlens",
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideHTTPMetrics creates the request collectors, or nil when metrics are off.
func ProvideHTTPMetrics(cfg *config.Config) *middleware.HTTPMetrics {
	if !cfg.Metrics.Enabled {
		return nil
	}
	return middleware.NewHTTPMetrics(prometheus.DefaultRegisterer)
}

// ProvideCache creates the in-process cache or the memory-over-Redis layered cache.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	switch cfg.Cache.Backend {
	case "layered":
		rc, err := cache.NewRedisCache(
			cache.WithRedisAddr(cfg.Redis.Host, cfg.Redis.Port),
			cache.WithRedisAuth(cfg.Redis.Password, cfg.Redis.DB),
			cache.WithRedisPool(cfg.Redis.PoolSize, 2, 30*time.Second),
			cache.WithRedisPrefix(cfg.Redis.Prefix),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return cache.NewLayeredCache(rc,
			cache.WithLayeredMemorySize(cfg.Cache.MaxEntries),
			cache.WithLayeredMemoryTTL(cfg.Cache.L1TTL),
		), nil
	default:
		return cache.NewMemoryCache(
			cache.WithMemoryMaxSize(cfg.Cache.MaxEntries),
			cache.WithMemoryCleanup(cfg.Cache.CleanupPeriod),
			cache.WithMemoryDefaultTTL(cfg.Cache.DetailsTTL),
		), nil
	}
}

// ProvideFundSource creates the mfapi.in client.
func ProvideFundSource(cfg *config.Config, m repository.Metrics) repository.FundSource {
	return mfapi.New(cfg.MFAPI.BaseURL, cfg.MFAPI.Timeout, m)
}

// ProvideClickHouseClient creates a ClickHouse client and ensures the NAV
// history table exists.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithAddress(cfg.ClickHouse.Host, cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithPool(10, 5, 5*time.Minute),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, internalrepo.NavHistorySchema(cfg.ClickHouse.Database, cfg.ClickHouse.Table)); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithDelivery(cfg.Kafka.RequiredAcks, cfg.Kafka.Producer.MaxAttempts, cfg.Kafka.Producer.Async),
		pkgkafka.WithBatching(cfg.Kafka.Producer.BatchSize, cfg.Kafka.Producer.BatchBytes, cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	return producer, nil
}

// ProvideNavArchive selects the archive backend. It returns nil for "none".
func ProvideNavArchive(cfg *config.Config) (repository.NavArchive, error) {
	switch cfg.Archive.Backend {
	case "clickhouse":
		client, err := ProvideClickHouseClient(cfg)
		if err != nil {
			return nil, err
		}
		return internalrepo.NewClickHouseNavArchive(client.DB(), cfg.ClickHouse.Database+"."+cfg.ClickHouse.Table), nil
	case "kafka":
		producer, err := ProvideKafkaProducer(cfg)
		if err != nil {
			return nil, err
		}
		return internalrepo.NewKafkaNavPublisher(producer, cfg.Kafka.Topic), nil
	default:
		return nil, nil
	}
}

// ProvideNavArchiver wraps the archive backend in the async archiver.
func ProvideNavArchiver(cfg *config.Config, archive repository.NavArchive, m repository.Metrics, l *applogger.Logger) *usecase.NavArchiver {
	return usecase.NewNavArchiver(archive, m, l, cfg.Archive.Timeout)
}

// ProvideFundService creates the fund use case.
func ProvideFundService(
	cfg *config.Config,
	source repository.FundSource,
	c cache.Service,
	archiver *usecase.NavArchiver,
	m repository.Metrics,
	l *applogger.Logger,
) (*usecase.FundService, error) {
	loc, err := time.LoadLocation(cfg.Analysis.Timezone)
	if err != nil {
		return nil, fmt.Errorf("analysis timezone: %w", err)
	}
	w, ok := navseries.ParseWindow(cfg.Analysis.DefaultWindow)
	if !ok {
		return nil, fmt.Errorf("analysis.default_window %q is not a known window", cfg.Analysis.DefaultWindow)
	}
	return usecase.NewFundService(source, c, archiver, m, l, usecase.FundServiceConfig{
		CatalogTTL:    cfg.Cache.CatalogTTL,
		DetailsTTL:    cfg.Cache.DetailsTTL,
		SnapshotTTL:   cfg.Cache.L1TTL,
		Location:      loc,
		DefaultWindow: w,
	}), nil
}

// ProvideRateLimiter creates the per-client limiter, or nil when disabled.
func ProvideRateLimiter(cfg *config.Config) *ratelimit.Limiter {
	if !cfg.RateLimit.Enabled {
		return nil
	}
	return ratelimit.New(cfg.RateLimit.Burst, cfg.RateLimit.RefillPerSec)
}

// ProvideHandlers groups every HTTP and WebSocket handler.
func ProvideHandlers(l *applogger.Logger, funds *usecase.FundService) xhttp.Handler {
	return xhttp.Handlers{
		api.NewFundsEchoHandler(l, funds),
		api.NewFundsChartHandler(l, funds),
		api.NewFundsWSHandler(l, funds),
	}
}

// ProvideHTTPServer creates the Echo server with the configured middleware.
func ProvideHTTPServer(
	cfg *config.Config,
	handler xhttp.Handler,
	l *applogger.Logger,
	httpMetrics *middleware.HTTPMetrics,
	limiter *ratelimit.Limiter,
) *xhttp.Server {
	opts := []xhttp.ServerOption{
		xhttp.WithHost(cfg.Server.Host),
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(cfg.Server.CORS),
		xhttp.WithLogger(l),
		xhttp.WithSlowRequest(cfg.Server.SlowRequest),
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, xhttp.WithMetrics(cfg.Metrics.Path, prometheus.DefaultGatherer, httpMetrics))
	}
	if limiter != nil {
		retry := int(1/cfg.RateLimit.RefillPerSec) + 1
		opts = append(opts, xhttp.WithMiddleware(middleware.RateLimit(limiter, retry, "/healthz", cfg.Metrics.Path)))
	}
	return xhttp.NewServer(handler, opts...)
}

// ProvideScheduler creates the catalog warm-up scheduler, or nil when disabled.
func ProvideScheduler(cfg *config.Config, funds *usecase.FundService, c cache.Service, l *applogger.Logger) (*scheduler.Scheduler, error) {
	if !cfg.Catalog.Enabled {
		return nil, nil
	}
	s := scheduler.NewScheduler(funds, c, cfg.Catalog.LockTTL, l)
	if err := s.RegisterCatalog(cfg.Catalog.Cron); err != nil {
		return nil, err
	}
	return s, nil
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	httpServer *xhttp.Server,
	sched *scheduler.Scheduler,
	archiver *usecase.NavArchiver,
	c cache.Service,
) *server.App {
	app := server.New(cfg, l, httpServer, sched, archiver)
	app.OnShutdown("cache", c)
	return app
}
