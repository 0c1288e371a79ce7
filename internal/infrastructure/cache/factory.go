package cache

import (
	"context"
	"fmt"

	"github.com/pos-admin/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// ReportCacheFactory picks the report cache backend from configuration
type ReportCacheFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// ReportCacheFactoryOption configures the factory
type ReportCacheFactoryOption func(*ReportCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) ReportCacheFactoryOption {
	return func(f *ReportCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis degrades to the in-memory cache.
// Default is true.
func WithInMemoryFallback(allow bool) ReportCacheFactoryOption {
	return func(f *ReportCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewReportCacheFactory creates a new factory
func NewReportCacheFactory(cfg config.RedisConfig, opts ...ReportCacheFactoryOption) *ReportCacheFactory {
	f := &ReportCacheFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateCache returns a Redis cache when Redis is enabled and reachable,
// and the in-memory cache otherwise
func (f *ReportCacheFactory) CreateCache(ctx context.Context) (ReportCache, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Using in-memory report cache")
		return NewInMemoryReportCache(0), nil
	}

	redisCache, err := NewRedisReportCache(ctx, RedisConfig{
		Addr:     f.redisConfig.Addr(),
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})
	if err == nil {
		f.logger.Info("Using Redis report cache", zap.String("addr", f.redisConfig.Addr()))
		return redisCache, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis report cache unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory report cache; replicas will not share cached reports",
		zap.Error(err),
	)
	return NewInMemoryReportCache(0), nil
}
