package main

// sweep.go — modo grid search: barre (period, deviation) de Bollinger en
// paralelo y muestra el ranking por profit total.

import (
	"log/slog"

	"github.com/alejandrodnm/qbot/config"
	"github.com/alejandrodnm/qbot/internal/adapters/notify"
	"github.com/alejandrodnm/qbot/internal/backtest"
	"github.com/alejandrodnm/qbot/internal/domain"
)

func runSweep(cfg *config.Config, series *domain.Series, reporter *notify.Console, top int) {
	sweepCfg := backtest.SweepConfig{
		PeriodMin:     cfg.Sweep.PeriodMin,
		PeriodMax:     cfg.Sweep.PeriodMax,
		PeriodStep:    cfg.Sweep.PeriodStep,
		DeviationMin:  cfg.Sweep.DeviationMin,
		DeviationMax:  cfg.Sweep.DeviationMax,
		DeviationStep: cfg.Sweep.DeviationStep,
		Workers:       cfg.Sweep.Workers,
		Runner:        runnerConfig(cfg, ""),
	}

	slog.Info("starting bollinger sweep",
		"period_min", sweepCfg.PeriodMin,
		"period_max", sweepCfg.PeriodMax,
		"deviation_min", sweepCfg.DeviationMin,
		"deviation_max", sweepCfg.DeviationMax,
		"workers", sweepCfg.Workers,
	)

	points := backtest.SweepBollinger(series, sweepCfg)
	reporter.PrintSweep(points, top)
}
