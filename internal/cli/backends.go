package cli

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/archsketch/archsketch/internal/config"
	"github.com/archsketch/archsketch/pkg/cache"
	"github.com/archsketch/archsketch/pkg/pipeline"
	"github.com/archsketch/archsketch/pkg/store"
)

// newCache builds the cache backend selected by the config. Failures to
// open the file backend degrade to the null cache rather than aborting
// the run; Redis failures are real errors since the user asked for it.
func newCache(ctx context.Context, cfg config.CacheConfig, noCache bool, logger *log.Logger) (cache.Cache, error) {
	if noCache || cfg.Backend == config.CacheBackendNone {
		return cache.NewNullCache(), nil
	}
	switch cfg.Backend {
	case config.CacheBackendRedis:
		return cache.NewRedisCache(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	default:
		c, err := cache.NewFileCache(cfg.CacheDir())
		if err != nil {
			logger.Warn("cache unavailable, continuing without", "err", err)
			return cache.NewNullCache(), nil
		}
		return c, nil
	}
}

func newKeyer(cfg config.CacheConfig) cache.Keyer {
	if cfg.KeyPrefix != "" {
		return cache.NewScopedKeyer(nil, cfg.KeyPrefix)
	}
	return cache.NewDefaultKeyer()
}

// newStore builds the round store selected by the config.
func newStore(ctx context.Context, cfg config.StoreConfig) (store.Store, error) {
	if cfg.Backend == config.StoreBackendMongo {
		return store.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
	}
	return store.NewFileStore(cfg.Dir)
}

// newRunner assembles a pipeline runner from the config.
func newRunner(ctx context.Context, cfg config.Config, noCache bool, logger *log.Logger) (*pipeline.Runner, error) {
	c, err := newCache(ctx, cfg.Cache, noCache, logger)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(c, newKeyer(cfg.Cache), logger), nil
}

// pipelineOptions maps config layout overrides onto pipeline options.
func pipelineOptions(cfg config.Config, logger *log.Logger) pipeline.Options {
	return pipeline.Options{
		CanvasWidth:  cfg.Layout.CanvasWidth,
		LayerSpacing: cfg.Layout.LayerSpacing,
		NodeSpacing:  cfg.Layout.NodeSpacing,
		Logger:       logger,
	}
}
