package backtest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/qbot/internal/backtest"
	"github.com/alejandrodnm/qbot/internal/domain"
)

func TestRunner_UnknownStrategy(t *testing.T) {
	runner := backtest.NewRunner(backtest.NewEvaluator(registryWith()))

	_, _, err := runner.Run(seriesFromCloses(t, 100, 101, 102), backtest.RunnerConfig{Strategy: "nope"})
	assert.ErrorIs(t, err, backtest.ErrUnknownStrategy)
}

func TestRunner_EntryOnNextBar(t *testing.T) {
	// Serie ascendente: toda señal call de la barra i gana en i+1
	series := seriesFromCloses(t, 100, 101, 102, 103, 104, 105, 106, 107, 108, 109)
	runner := backtest.NewRunner(backtest.NewEvaluator(registryWith(alwaysCall("always"))))

	result, skips, err := runner.Run(series, backtest.RunnerConfig{Strategy: "always", Lookback: 3})
	require.NoError(t, err)
	assert.Empty(t, skips)

	// end = len-2 = 8: barras 0..7, ocho trades
	require.Equal(t, 8, result.TotalTrades)
	assert.Equal(t, 8, result.Wins)

	// La señal de la barra 0 entra en la barra 1, nunca en la misma barra
	first := result.Trades[0]
	assert.Equal(t, 1, first.EntryIndex)
	assert.Equal(t, series.At(1).Timestamp, first.EntryTime)
	assert.Equal(t, series.At(1).Close, first.EntryPrice)
	assert.Equal(t, series.At(2).Close, first.ExitPrice)
}

func TestRunner_EquityCurveConsistency(t *testing.T) {
	series := seriesFromCloses(t, 100, 101, 102, 103, 104, 105)
	runner := backtest.NewRunner(backtest.NewEvaluator(registryWith(alwaysCall("always"))))

	result, _, err := runner.Run(series, backtest.RunnerConfig{Strategy: "always"})
	require.NoError(t, err)

	// Curva con cero inicial más un punto por trade
	require.Len(t, result.EquityCurve, result.TotalTrades+1)
	assert.Equal(t, 0.0, result.EquityCurve[0])

	running := 0.0
	for i, trade := range result.Trades {
		running += trade.PnL
		assert.InDelta(t, running, result.EquityCurve[i+1], 1e-9)
		assert.InDelta(t, running, trade.Equity, 1e-9)
	}
	assert.InDelta(t, running, result.TotalProfit, 1e-9)
}

func TestRunner_NoSignalsIsValidRun(t *testing.T) {
	series := seriesFromCloses(t, 100, 101, 102, 103, 104)
	never := stubStrategy{name: "never", minCandles: 1, signal: domain.NoSignal("quiet market")}
	runner := backtest.NewRunner(backtest.NewEvaluator(registryWith(never)))

	result, skips, err := runner.Run(series, backtest.RunnerConfig{Strategy: "never"})
	require.NoError(t, err)

	assert.Equal(t, 0, result.TotalTrades)
	assert.Equal(t, []float64{0}, result.EquityCurve)
	assert.Equal(t, 3, skips[backtest.SkipNoSignal]) // barras 0..2
}

func TestRunner_ShortWindowSkipped(t *testing.T) {
	series := seriesFromCloses(t, 100, 101, 102, 103, 104, 105)
	strict := stubStrategy{
		name:       "strict",
		minCandles: 5,
		signal:     domain.Signal{Direction: domain.DirectionCall, ShouldTrade: true},
	}
	runner := backtest.NewRunner(backtest.NewEvaluator(registryWith(strict)))

	// Lookback 2: la ventana nunca llega a las 5 velas mínimas
	result, skips, err := runner.Run(series, backtest.RunnerConfig{Strategy: "strict", Lookback: 2})
	require.NoError(t, err)

	assert.Equal(t, 0, result.TotalTrades)
	assert.Equal(t, 4, skips[backtest.SkipShortWindow])
}

func TestRunner_RespectsStartAndEndIndex(t *testing.T) {
	series := seriesFromCloses(t, 100, 101, 102, 103, 104, 105, 106, 107)
	runner := backtest.NewRunner(backtest.NewEvaluator(registryWith(alwaysCall("always"))))

	result, _, err := runner.Run(series, backtest.RunnerConfig{
		Strategy:   "always",
		StartIndex: 2,
		EndIndex:   4,
	})
	require.NoError(t, err)

	require.Equal(t, 2, result.TotalTrades) // barras 2 y 3
	assert.Equal(t, 3, result.Trades[0].EntryIndex)
	assert.Equal(t, 4, result.Trades[1].EntryIndex)
}

func TestRunner_LabelOverride(t *testing.T) {
	series := seriesFromCloses(t, 100, 101, 102, 103)
	runner := backtest.NewRunner(backtest.NewEvaluator(registryWith(alwaysCall("always"))))

	result, _, err := runner.Run(series, backtest.RunnerConfig{Strategy: "always", Label: "always (tuned)"})
	require.NoError(t, err)
	assert.Equal(t, "always (tuned)", result.Strategy)
}
