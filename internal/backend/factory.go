package backend

import (
	"context"
	"fmt"

	"pengeluaran/internal/config"
	applog "pengeluaran/internal/log"
	"pengeluaran/internal/storage"
	"pengeluaran/internal/storage/memory"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *applog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *applog.Logger) Factory {
	if logger == nil {
		logger = applog.Discard()
	}
	return &DefaultFactory{
		logger: logger.WithComponent(applog.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if !config.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", config.Type)
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(ctx, config)
	case MemoryBackend:
		return f.createMemoryBackend(ctx)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(ctx context.Context, config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	f.logger.InfoContext(ctx, "Initialized SQLite backend", applog.FieldPath, config.SQLiteDBPath)

	return &BackendResult{
		Backend: repo,
		Cleanup: repo.Close,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend(ctx context.Context) (*BackendResult, error) {
	f.logger.InfoContext(ctx, "Initialized memory backend, data will not survive this process")

	return &BackendResult{
		Backend: memory.New(),
		Cleanup: nil,
	}, nil
}

// ConfigFromAppConfig converts application config to backend config
func ConfigFromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("nil application config")
	}
	cfg := Config{
		Type:         BackendType(appConfig.DataBackend),
		SQLiteDBPath: appConfig.SQLiteDBPath,
	}
	if !cfg.Type.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type: %s", cfg.Type)
	}
	return cfg, nil
}
