package main

// ingest.go — modo ingesta: convierte un CSV/TSV de velas al store
// configurado (sqlite o parquet) para acelerar runs posteriores.

import (
	"context"
	"log/slog"
	"os"

	"github.com/alejandrodnm/qbot/config"
	"github.com/alejandrodnm/qbot/internal/adapters/candles"
)

func runIngest(ctx context.Context, cfg *config.Config, csvPath string) {
	f, err := os.Open(csvPath)
	if err != nil {
		slog.Error("failed to open CSV", "err", err, "path", csvPath)
		os.Exit(1)
	}
	defer f.Close()

	cs, err := candles.ReadCandles(f)
	if err != nil {
		slog.Error("failed to parse CSV", "err", err, "path", csvPath)
		os.Exit(1)
	}
	slog.Info("candles parsed", "count", len(cs), "path", csvPath)

	switch cfg.Data.Source {
	case "sqlite":
		src, err := candles.NewSQLiteSource(cfg.Data.Path, cfg.Data.Symbol)
		if err != nil {
			slog.Error("failed to open sqlite store", "err", err, "path", cfg.Data.Path)
			os.Exit(1)
		}
		defer src.Close()
		if err := src.WriteCandles(ctx, cs); err != nil {
			slog.Error("failed to write candles", "err", err)
			os.Exit(1)
		}
	case "parquet":
		src := candles.NewParquetSource(cfg.Data.Path)
		if err := src.WriteCandles(ctx, cs); err != nil {
			slog.Error("failed to write candles", "err", err)
			os.Exit(1)
		}
	default:
		slog.Error("ingest target must be sqlite or parquet", "source", cfg.Data.Source)
		os.Exit(1)
	}

	slog.Info("ingest complete", "candles", len(cs), "target", cfg.Data.Source, "path", cfg.Data.Path)
}
