package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alejandrodnm/qbot/config"
	"github.com/alejandrodnm/qbot/internal/adapters/candles"
	"github.com/alejandrodnm/qbot/internal/adapters/notify"
	"github.com/alejandrodnm/qbot/internal/adapters/storage"
	"github.com/alejandrodnm/qbot/internal/backtest"
	"github.com/alejandrodnm/qbot/internal/domain"
	"github.com/alejandrodnm/qbot/internal/ports"
	"github.com/alejandrodnm/qbot/internal/strategy"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	strategyName := flag.String("strategy", "all", "strategy to run: breakout|engulfing|bollinger|all")
	martingale := flag.Bool("martingale", false, "apply martingale sizing on top of the base run")
	sweep := flag.Bool("sweep", false, "run a bollinger parameter grid search instead of a single backtest")
	ingest := flag.String("ingest", "", "CSV file to load into the configured candle store, then exit")
	runs := flag.Bool("runs", false, "list stored runs and exit")
	save := flag.Bool("save", false, "persist results to storage")
	trades := flag.Int("trades", 0, "print the first N trades per strategy")
	top := flag.Int("top", 10, "sweep: number of top grid points to show")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	slog.Info("qbot backtester starting",
		"config", *configPath,
		"source", cfg.Data.Source,
		"strategy", *strategyName,
		"martingale", *martingale || cfg.Martingale.Enabled,
		"sweep", *sweep,
	)

	reporter := notify.NewConsole(*trades)

	if *runs {
		listRuns(ctx, cfg, reporter)
		return
	}

	if *ingest != "" {
		runIngest(ctx, cfg, *ingest)
		return
	}

	source, closeSource, err := newSource(cfg)
	if err != nil {
		slog.Error("failed to open candle source", "err", err, "source", cfg.Data.Source, "path", cfg.Data.Path)
		os.Exit(1)
	}
	defer closeSource()

	series, err := source.Load(ctx)
	if err != nil {
		slog.Error("failed to load candles", "err", err, "path", cfg.Data.Path)
		os.Exit(1)
	}
	slog.Info("series loaded", "candles", series.Len())

	if *sweep {
		runSweep(cfg, series, reporter, *top)
		return
	}

	results, err := runBacktests(cfg, series, *strategyName, *martingale)
	if err != nil {
		slog.Error("backtest failed", "err", err)
		os.Exit(1)
	}

	if err := reporter.Report(ctx, results); err != nil {
		slog.Warn("reporter error", "err", err)
	}

	if *save {
		saveResults(ctx, cfg, results)
	}

	slog.Info("backtester finished", "results", len(results))
}

// newSource construye el CandleSource según la config. El cleanup devuelto
// es no-op para fuentes basadas en fichero.
func newSource(cfg *config.Config) (ports.CandleSource, func(), error) {
	switch cfg.Data.Source {
	case "csv":
		return candles.NewCSVSource(cfg.Data.Path), func() {}, nil
	case "parquet":
		return candles.NewParquetSource(cfg.Data.Path), func() {}, nil
	case "sqlite":
		src, err := candles.NewSQLiteSource(cfg.Data.Path, cfg.Data.Symbol)
		if err != nil {
			return nil, nil, err
		}
		return src, func() { _ = src.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown data source %q (want csv, sqlite or parquet)", cfg.Data.Source)
	}
}

// newRegistry construye el registry con las estrategias parametrizadas
// desde la config.
func newRegistry(cfg *config.Config) strategy.Registry {
	registry := strategy.NewRegistry()
	registry.Register(strategy.NewBreakout(strategy.BreakoutConfig{
		MaxATRPercent: cfg.Backtest.Breakout.MaxATRPercent,
	}))
	registry.Register(strategy.NewEngulfing(strategy.EngulfingConfig{
		MinBodyRatio: cfg.Backtest.Engulfing.MinBodyRatio,
	}))
	registry.Register(strategy.NewBollinger(strategy.BollingerConfig{
		Period:    cfg.Backtest.Bollinger.Period,
		Deviation: cfg.Backtest.Bollinger.Deviation,
	}))
	return registry
}

// runnerConfig traduce la config de fichero al RunnerConfig del motor.
func runnerConfig(cfg *config.Config, strategyName string) backtest.RunnerConfig {
	return backtest.RunnerConfig{
		Strategy:     strategyName,
		Lookback:     cfg.Backtest.Lookback,
		StartIndex:   cfg.Backtest.StartCandle,
		EndIndex:     cfg.Backtest.EndCandle,
		DurationBars: cfg.Backtest.DurationBars,
		Stake:        cfg.Backtest.TradeAmount,
		PayoutRate:   cfg.Backtest.PayoutRate,
	}
}

// runBacktests ejecuta el run base de cada estrategia pedida y, si la
// martingala está activa, añade el resultado escalado de cada una.
func runBacktests(cfg *config.Config, series *domain.Series, strategyName string, martingaleFlag bool) ([]domain.BacktestResult, error) {
	registry := newRegistry(cfg)
	runner := backtest.NewRunner(backtest.NewEvaluator(registry))

	var names []string
	if strategyName == "all" {
		names = registry.Names()
	} else {
		for _, name := range strings.Split(strategyName, ",") {
			names = append(names, strings.TrimSpace(name))
		}
	}

	applyMartingale := martingaleFlag || cfg.Martingale.Enabled

	var results []domain.BacktestResult
	for _, name := range names {
		result, skips, err := runner.Run(series, runnerConfig(cfg, name))
		if err != nil {
			return nil, fmt.Errorf("run %s: %w", name, err)
		}
		for reason, count := range skips {
			slog.Debug("bars skipped", "strategy", name, "reason", reason, "count", count)
		}
		results = append(results, result)

		if applyMartingale {
			scaled := backtest.ApplyMartingale(result, backtest.MartingaleConfig{
				BaseStake:  cfg.Backtest.TradeAmount,
				Multiplier: cfg.Martingale.Multiplier,
				PayoutRate: cfg.Backtest.PayoutRate,
			})
			results = append(results, scaled)
		}
	}
	return results, nil
}

// saveResults persiste los resultados en el histórico SQLite.
func saveResults(ctx context.Context, cfg *config.Config, results []domain.BacktestResult) {
	store, err := storage.NewSQLiteStorage(cfg.Storage.DSN)
	if err != nil {
		slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
		return
	}
	defer store.Close()

	if err := store.SaveResults(ctx, results); err != nil {
		slog.Error("failed to save results", "err", err)
		return
	}
	slog.Info("results saved", "count", len(results), "dsn", cfg.Storage.DSN)
}

// listRuns imprime el histórico de runs guardados.
func listRuns(ctx context.Context, cfg *config.Config, reporter *notify.Console) {
	store, err := storage.NewSQLiteStorage(cfg.Storage.DSN)
	if err != nil {
		slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
		os.Exit(1)
	}
	defer store.Close()

	records, err := store.ListRuns(ctx, 0)
	if err != nil {
		slog.Error("failed to list runs", "err", err)
		os.Exit(1)
	}
	reporter.PrintRuns(records)
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
