package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"stockview/api"
	"stockview/config"
	"stockview/services"
	"stockview/storage"
	"stockview/utils"
)

// app wires the configured listing source to the services
type app struct {
	cfg        *config.Config
	logger     *utils.Logger
	source     storage.ListingSource
	cache      *api.RedisCache
	reconciler *services.Reconciler
	resolver   *services.Resolver
	navigator  *services.Navigator
	catalog    *services.Catalog
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadFile(cfgFile)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	logger := utils.NewLoggerWithLevel(cfg.LogLevel)

	a := &app{cfg: cfg, logger: logger}

	switch cfg.Source {
	case config.SourcePostgres:
		reader, err := storage.NewPostgresReader(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, fmt.Errorf("cannot connect to PostgreSQL: %w", err)
		}
		a.source = reader
	default:
		opts := api.Options{
			BaseURL:  cfg.APIBaseURL,
			APIKey:   cfg.APIKey,
			Timeout:  time.Duration(cfg.RequestTimeoutMs) * time.Millisecond,
			CacheTTL: time.Duration(cfg.CacheTTLSeconds) * time.Second,
		}
		if cfg.RedisAddr != "" {
			cache := api.NewRedisCache(&redis.Options{Addr: cfg.RedisAddr}, "stockview")
			if err := cache.Ping(ctx); err != nil {
				logger.Warn("Redis at %s unreachable, caching disabled: %v", cfg.RedisAddr, err)
				_ = cache.Close()
			} else {
				a.cache = cache
				opts.Cache = cache
			}
		}
		client, err := api.NewClient(opts, logger)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.source = client
	}

	a.reconciler = services.NewReconciler(logger)
	a.resolver = services.NewResolver(a.source, a.reconciler, logger)
	a.navigator = services.NewNavigator(a.resolver, a.reconciler,
		utils.NewRateLimiter(cfg.ProbeDelayMs), cfg.ProbeBound, logger)
	a.catalog = services.NewCatalog(a.source, a.reconciler, cfg.MaxRetries, logger)
	return a, nil
}

func (a *app) engineOptions(order services.SortOrder) services.EngineOptions {
	return services.EngineOptions{
		PageSize:      a.cfg.PageSize,
		RevealLatency: time.Duration(a.cfg.RevealLatencyMs) * time.Millisecond,
		Order:         order,
	}
}

// Close releases the source and cache connections
func (a *app) Close() {
	if a.source != nil {
		_ = a.source.Close()
	}
	if a.cache != nil {
		_ = a.cache.Close()
	}
	a.logger.Sync()
}
