// Package cli provides common CLI initialization utilities shared by the
// pengeluaran commands: logging, .env loading, config and the backend.
package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"pengeluaran/internal/backend"
	"pengeluaran/internal/config"
	applog "pengeluaran/internal/log"
)

// SetupLogger initializes structured logging at the given level, writing to
// out (stderr when nil), and sets it as the default logger.
func SetupLogger(level string, out io.Writer) *applog.Logger {
	if out == nil {
		out = os.Stderr
	}
	logger := applog.New(applog.Config{
		Level:     applog.ParseLevel(level),
		Component: applog.ComponentCLI,
		Output:    out,
	})
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local use. A missing file is fine.
func LoadEnvFile(filenames ...string) {
	_ = godotenv.Load(filenames...)
}

// LoadAndValidateConfig loads configuration from the environment and
// validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// OpenBackend creates the configured store.
func OpenBackend(ctx context.Context, logger *applog.Logger, cfg *config.Config) (*backend.BackendResult, error) {
	bcfg, err := backend.ConfigFromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to initialize backend",
			applog.FieldError, err, applog.FieldBackend, bcfg.Type.String())
		return nil, err
	}
	return res, nil
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
