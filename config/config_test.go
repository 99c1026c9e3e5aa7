package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	return path
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, `
data:
  source: sqlite
  path: candles.db
  symbol: EURUSD
backtest:
  payout_rate: 0.8
  trade_amount: 25
  lookback: 50
  start_candle: 200
  bollinger:
    period: 20
    deviation: 2.0
martingale:
  enabled: true
  multiplier: 2.0
log:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Data.Source)
	assert.Equal(t, "EURUSD", cfg.Data.Symbol)
	assert.Equal(t, 0.8, cfg.Backtest.PayoutRate)
	assert.Equal(t, 25.0, cfg.Backtest.TradeAmount)
	assert.Equal(t, 50, cfg.Backtest.Lookback)
	assert.Equal(t, 200, cfg.Backtest.StartCandle)
	assert.Equal(t, 20, cfg.Backtest.Bollinger.Period)
	assert.Equal(t, 2.0, cfg.Backtest.Bollinger.Deviation)
	assert.True(t, cfg.Martingale.Enabled)
	assert.Equal(t, 2.0, cfg.Martingale.Multiplier)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_DefaultsApplied(t *testing.T) {
	path := writeConfig(t, `
data:
  path: candles.tsv
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "csv", cfg.Data.Source)
	assert.Equal(t, 0.85, cfg.Backtest.PayoutRate)
	assert.Equal(t, 10.0, cfg.Backtest.TradeAmount)
	assert.Equal(t, 30, cfg.Backtest.Lookback)
	assert.Equal(t, 100, cfg.Backtest.StartCandle)
	assert.Equal(t, 1, cfg.Backtest.DurationBars)
	assert.Equal(t, 14, cfg.Backtest.Bollinger.Period)
	assert.Equal(t, 1.0, cfg.Backtest.Bollinger.Deviation)
	assert.False(t, cfg.Martingale.Enabled)
	assert.Equal(t, 1.5, cfg.Martingale.Multiplier)
	assert.Equal(t, 10, cfg.Sweep.PeriodMin)
	assert.Equal(t, 20, cfg.Sweep.PeriodMax)
	assert.Equal(t, 0.5, cfg.Sweep.DeviationStep)
	assert.Equal(t, "qbot.db", cfg.Storage.DSN)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("QBOT_DATA_PATH", "/data/override.tsv")
	t.Setenv("QBOT_STORAGE_DSN", "/data/override.db")

	path := writeConfig(t, `
data:
  path: candles.tsv
log:
  level: info
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, "/data/override.tsv", cfg.Data.Path)
	assert.Equal(t, "/data/override.db", cfg.Storage.DSN)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.ErrorContains(t, err, "read")
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "data: [not: valid\n")
	_, err := Load(path)
	assert.ErrorContains(t, err, "parse YAML")
}
