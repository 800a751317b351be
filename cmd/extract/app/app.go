package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/naluwei/fatigueset-catalog/internal/catalog"
	"github.com/naluwei/fatigueset-catalog/internal/extract"
	"github.com/naluwei/fatigueset-catalog/internal/sensor"
	"github.com/naluwei/fatigueset-catalog/internal/sensor/empatica"
	"github.com/naluwei/fatigueset-catalog/internal/sensor/esense"
	"github.com/naluwei/fatigueset-catalog/internal/sensor/muse"
	"github.com/naluwei/fatigueset-catalog/internal/sensor/zephyr"
)

func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	registry, err := createRegistry(config.Devices)
	if err != nil {
		return fmt.Errorf("failed to create device registry: %w", err)
	}
	if len(registry.Devices()) == 0 {
		return fmt.Errorf("no devices enabled in configuration")
	}

	store := catalog.NewSqliteStore(config.Storage.DatabasePath)
	defer store.Close()

	extractor := extract.New(config.Extraction.DataRoot, store, registry, extract.WithLogger(logger))

	summary, err := extractor.Run(ctx)
	if err != nil {
		return err
	}

	attrs := []any{
		slog.String("rowsInserted", humanize.Comma(summary.RowsInserted)),
		slog.String("duplicatesIgnored", humanize.Comma(summary.RowsIgnored)),
		slog.Int("filesLoaded", summary.FilesLoaded),
		slog.Int("filesFailed", summary.FilesFailed),
		slog.Int("participants", summary.Participants),
	}
	if stat, statErr := os.Stat(config.Storage.DatabasePath); statErr == nil {
		attrs = append(attrs, slog.String("databaseSize", humanize.Bytes(uint64(stat.Size()))))
	}

	logger.Info("extraction finished", attrs...)
	return nil
}

func createRegistry(config []DeviceConfig) (*sensor.Registry, error) {
	registry := sensor.NewRegistry()
	for _, deviceConfig := range config {
		if !deviceConfig.Enabled {
			continue
		}

		switch deviceConfig.Type {
		case DeviceESense:
			registry.Register(esense.New())

		case DeviceMuse:
			registry.Register(muse.New())

		case DeviceZephyr:
			registry.Register(zephyr.New())

		case DeviceEmpatica:
			registry.Register(empatica.New())

		default:
			return nil, fmt.Errorf("creating device: unknown type '%s'", deviceConfig.Type)
		}
	}

	return registry, nil
}
