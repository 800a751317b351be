package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/naluwei/fatigueset-catalog/cmd/viewer/app"
	"github.com/naluwei/fatigueset-catalog/internal/catalog"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	config, err := app.NewConfigFromCLI()
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}

	if _, err = os.Stat(config.DBPath); err != nil && os.IsNotExist(err) {
		logger.Error(fmt.Sprintf("database file '%s' does not exist", config.DBPath))
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store := catalog.NewSqliteStore(config.DBPath)
	defer store.Close()

	server, err := app.NewServer(store, logger)
	if err != nil {
		logger.Error(err.Error())

		cancel()
		os.Exit(1)
	}

	if err = server.Start(ctx, config.Port); err != nil {
		logger.Error(err.Error())

		cancel()
		os.Exit(1)
	}
}
