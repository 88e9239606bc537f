package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/donaldgifford/device-grader/internal/api/handlers"
	"github.com/donaldgifford/device-grader/internal/api/middleware"
	"github.com/donaldgifford/device-grader/internal/config"
	"github.com/donaldgifford/device-grader/internal/engine"
	"github.com/donaldgifford/device-grader/internal/store"
	"github.com/donaldgifford/device-grader/internal/telemetry"
	"github.com/donaldgifford/device-grader/internal/valuation"
	"github.com/donaldgifford/device-grader/pkg/grading"
	"github.com/donaldgifford/device-grader/pkg/logger"
	"github.com/donaldgifford/device-grader/pkg/pricing"
)

const shutdownTimeout = 10 * time.Second

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server and session reaper",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(logger.EffectiveLevel(cfg.Logging.Level, cfg.Grading.Debug), cfg.Logging.Format)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Setup(ctx, cfg.Tracing, Version)
	if err != nil {
		return fmt.Errorf("setting up telemetry: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(sctx); err != nil {
			log.Warn("flushing telemetry", "error", err)
		}
	}()

	pg, err := store.NewPostgresStore(ctx, cfg.Database.DSN(), store.WithMaxConns(cfg.Database.PoolSize))
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer pg.Close()

	if err := pg.Migrate(ctx); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	resolver, err := newResolver(&cfg.Grading)
	if err != nil {
		return err
	}

	engineOpts := []engine.EngineOption{
		engine.WithLogger(log),
		engine.WithDebug(cfg.Grading.Debug),
		engine.WithResolver(resolver),
		engine.WithDebounce(cfg.Valuation.Debounce),
		engine.WithRemoteTimeout(cfg.Valuation.Timeout),
	}
	healthOpts := []handlers.HealthOption{}

	if cfg.Valuation.Enabled() {
		source, rdb := newValuationSource(cfg, log)
		if rdb != nil {
			defer func() { _ = rdb.Close() }()
			healthOpts = append(healthOpts, handlers.WithReadinessCheck("cache", valuation.NewRedisCache(rdb)))
		}
		engineOpts = append(engineOpts, engine.WithValuation(source, cfg.Valuation.Tenant))
		log.Info("remote valuation enabled",
			"url", cfg.Valuation.URL,
			"tenant", cfg.Valuation.Tenant,
			"cache", cfg.Cache.Backend,
		)
	} else {
		log.Info("remote valuation disabled, pricing locally")
	}

	eng := engine.NewEngine(pg, engineOpts...)
	registry := engine.NewRegistry()
	defer registry.CloseAll()

	reaper, err := engine.NewReaper(registry, cfg.Sessions.ReapSchedule, cfg.Sessions.IdleTTL, log)
	if err != nil {
		return fmt.Errorf("creating session reaper: %w", err)
	}
	reaper.Start()
	defer func() { <-reaper.Stop().Done() }()

	e := newServer(cfg, log, pg, eng, registry, healthOpts)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("starting server", "addr", addr, "version", Version)

	errCh := make(chan error, 1)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("shutting down server")

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	log.Info("server stopped", "open_sessions", registry.Len())
	return nil
}

func newServer(
	cfg *config.Config,
	log *slog.Logger,
	s store.Store,
	eng *engine.Engine,
	registry *engine.Registry,
	healthOpts []handlers.HealthOption,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	e.Use(middleware.Recovery(log))
	e.Use(middleware.RequestLog(log))
	e.Use(middleware.Metrics())

	health := handlers.NewHealthHandler(s, healthOpts...)
	e.GET("/healthz", health.Healthz)
	e.GET("/readyz", health.Readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := humaecho.New(e, huma.DefaultConfig("device-grader API", Version))

	handlers.RegisterGradeRoutes(api, handlers.NewGradeHandler(eng))
	handlers.RegisterSessionRoutes(api, handlers.NewSessionsHandler(eng, registry, s, log))
	handlers.RegisterPriceTableRoutes(api, handlers.NewPriceTablesHandler(s))
	handlers.RegisterCatalogRoutes(api, handlers.NewCatalogHandler(s))
	handlers.RegisterAuditRecordRoutes(api, handlers.NewAuditRecordsHandler(s))

	return e
}

func newResolver(cfg *config.GradingConfig) (*pricing.Resolver, error) {
	opts := []pricing.Option{pricing.WithAmounts(cfg.Amounts)}
	if cfg.TableFile != "" {
		table, err := grading.LoadTable(cfg.TableFile)
		if err != nil {
			return nil, fmt.Errorf("loading grade table: %w", err)
		}
		opts = append(opts, pricing.WithTable(table))
	}
	return pricing.NewResolver(opts...), nil
}

// newValuationSource builds the remote valuation client behind its rate
// limiter, breaker and cache. The redis client is returned when the redis
// backend is selected so the caller can close it and probe it.
func newValuationSource(cfg *config.Config, log *slog.Logger) (valuation.Source, *redis.Client) {
	v := cfg.Valuation

	client := valuation.NewClient(v.URL,
		valuation.WithPath(v.Path),
		valuation.WithHTTPClient(&http.Client{
			Timeout:   v.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}),
		valuation.WithRateLimiter(valuation.NewRateLimiter(
			v.RateLimit.PerSecond, v.RateLimit.Burst, v.RateLimit.DailyLimit,
		)),
		valuation.WithBreaker(valuation.NewBreaker("valuation", valuation.BreakerSettings{
			ConsecutiveFailures: v.Breaker.ConsecutiveFailures,
			Interval:            v.Breaker.Interval,
			Timeout:             v.Breaker.Timeout,
		}, log)),
	)

	svcOpts := []valuation.ServiceOption{valuation.WithLogger(log)}

	var rdb *redis.Client
	switch cfg.Cache.Backend {
	case "redis":
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
		svcOpts = append(svcOpts, valuation.WithCache(valuation.NewRedisCache(rdb), v.CacheTTL))
	case "memory":
		svcOpts = append(svcOpts, valuation.WithCache(valuation.NewMemoryCache(), v.CacheTTL))
	}

	return valuation.NewService(client, svcOpts...), rdb
}
