package main

import (
	"context"
	"fmt"
	"os"

	"pengeluaran/internal/cli"
	"pengeluaran/internal/commands"
	applog "pengeluaran/internal/log"
	"pengeluaran/internal/services"
	"pengeluaran/internal/settings"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		return err
	}
	logger := cli.SetupLogger(cfg.LogLevel, os.Stderr)

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()
	ctx = applog.WithContext(ctx, logger)

	res, err := cli.OpenBackend(ctx, logger, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Close(); err != nil {
			logger.Error("Failed to close backend", applog.FieldError, err)
		}
	}()

	currency := settings.LoadCurrency(ctx, res.Backend, cfg.DefaultCurrency, logger)
	ledger := services.NewLedgerService(res.Backend, currency,
		services.WithLocation(cfg.Location()),
		services.WithLogger(logger),
	)

	return commands.Execute(ctx, &commands.App{
		Ledger:    ledger,
		ExportDir: cfg.ExportDir,
		Logger:    logger,
	}, os.Args[1:])
}
