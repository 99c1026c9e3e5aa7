package backtest

// metrics.go — agregación de métricas de riesgo/rendimiento sobre la lista
// de trades y la curva de equity de un run terminado.

import (
	"math"

	"github.com/alejandrodnm/qbot/internal/domain"
)

// Aggregate deriva las métricas agregadas de un run. Cero trades es un
// resultado terminal válido: todas las tasas a 0 y curva [0], nunca un error.
//
// Convenciones degeneradas (las esperan los consumidores downstream):
//   - profit factor = +Inf si hubo trades y ninguna pérdida; 0 sin trades.
//   - drawdown %: denominador |peak|+1 para mantener la métrica definida
//     con peak cercano a 0; con peak exactamente 0 devuelve 0.
func Aggregate(trades []domain.Trade, equityCurve []float64, label string) domain.BacktestResult {
	if len(equityCurve) == 0 {
		equityCurve = []float64{0}
	}

	if len(trades) == 0 {
		return domain.BacktestResult{
			Strategy:    label,
			Trades:      []domain.Trade{},
			EquityCurve: equityCurve,
		}
	}

	var wins, losses int
	var grossProfit, grossLoss float64
	for _, t := range trades {
		if t.Won {
			wins++
			grossProfit += t.PnL
		} else {
			losses++
			grossLoss += -t.PnL
		}
	}

	totalProfit := equityCurve[len(equityCurve)-1]

	// Drawdown: pico corriente menos equity, inicializado en equityCurve[0] (=0).
	peak := equityCurve[0]
	maxDD := 0.0
	for _, equity := range equityCurve {
		if equity > peak {
			peak = equity
		}
		if dd := peak - equity; dd > maxDD {
			maxDD = dd
		}
	}
	maxDDPct := 0.0
	if peak != 0 {
		maxDDPct = maxDD / (math.Abs(peak) + 1) * 100
	}

	avgWin := 0.0
	if wins > 0 {
		avgWin = grossProfit / float64(wins)
	}
	avgLoss := 0.0
	if losses > 0 {
		avgLoss = -grossLoss / float64(losses)
	}

	profitFactor := math.Inf(1)
	if grossLoss > 0 {
		profitFactor = grossProfit / grossLoss
	}

	return domain.BacktestResult{
		Strategy:       label,
		TotalTrades:    len(trades),
		Wins:           wins,
		Losses:         losses,
		WinRate:        float64(wins) / float64(len(trades)) * 100,
		TotalProfit:    totalProfit,
		AvgWin:         avgWin,
		AvgLoss:        avgLoss,
		ProfitFactor:   profitFactor,
		MaxDrawdown:    maxDD,
		MaxDrawdownPct: maxDDPct,
		ExpectedValue:  totalProfit / float64(len(trades)),
		Trades:         trades,
		EquityCurve:    equityCurve,
	}
}
