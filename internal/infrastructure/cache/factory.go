package cache

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/atelier/backoffice/internal/infrastructure/config"
)

// StoreFactory creates cache stores based on configuration
type StoreFactory struct {
	cfg                 config.CacheConfig
	logger              *zap.Logger
	allowMemoryFallback bool
}

// StoreFactoryOption is a functional option for configuring the factory
type StoreFactoryOption func(*StoreFactory)

// WithFactoryLogger sets the logger for the factory
func WithFactoryLogger(logger *zap.Logger) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.logger = logger
	}
}

// WithMemoryFallback controls whether to fall back to the in-memory store
// when Redis is unavailable. Default is true.
func WithMemoryFallback(allow bool) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.allowMemoryFallback = allow
	}
}

// NewStoreFactory creates a new factory
func NewStoreFactory(cfg config.CacheConfig, opts ...StoreFactoryOption) *StoreFactory {
	f := &StoreFactory{
		cfg:                 cfg,
		logger:              zap.NewNop(),
		allowMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateStore creates the configured store. When the backend is redis and
// the connection fails, it falls back to memory unless fallback is off.
func (f *StoreFactory) CreateStore() (Store, error) {
	if f.cfg.Backend != "redis" {
		f.logger.Info("using in-memory query cache")
		return NewMemoryStore(WithMemoryLogger(f.logger)), nil
	}

	store, err := NewRedisStore(f.cfg.Redis)
	if err == nil {
		f.logger.Info("using Redis query cache",
			zap.String("host", f.cfg.Redis.Host),
			zap.Int("port", f.cfg.Redis.Port))
		return store, nil
	}

	if !f.allowMemoryFallback {
		return nil, fmt.Errorf("redis cache required but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory query cache. "+
		"Other terminals will not see this terminal's invalidations.",
		zap.Error(err),
	)
	return NewMemoryStore(WithMemoryLogger(f.logger)), nil
}
