package backtest

// martingale.go — overlay de sizing martingala de un solo paso sobre un run
// base ya terminado. No cambia qué trades ganan o pierden — la dirección y el
// resultado a stake base se toman como dados — solo el importe arriesgado y
// por tanto la magnitud del P&L.
//
// Máquina de estados:
//   - Una pérdida arma la martingala y registra su dirección.
//   - El siguiente trade solo recibe el multiplicador si está armada Y su
//     dirección coincide (sin distinguir mayúsculas); si no, stake base y
//     se desarma antes de preciarlo.
//   - Cualquier win desarma, fuera el trade escalado o no.
//   - Un solo paso: el estado armado se recalcula solo del resultado del
//     trade inmediatamente anterior, sin escalera progresiva.

import "github.com/alejandrodnm/qbot/internal/domain"

// MartingaleConfig parametriza el overlay.
type MartingaleConfig struct {
	BaseStake  float64 // importe base por trade (default 10)
	Multiplier float64 // factor sobre el base en el paso martingala (default 1.5)
	PayoutRate float64 // misma fracción de payout que el run base (default 0.85)
}

func (c MartingaleConfig) withDefaults() MartingaleConfig {
	if c.BaseStake <= 0 {
		c.BaseStake = 10
	}
	if c.Multiplier <= 0 {
		c.Multiplier = 1.5
	}
	if c.PayoutRate <= 0 {
		c.PayoutRate = 0.85
	}
	return c
}

// ApplyMartingale reprocesa la secuencia ordenada de trades del run base y
// deriva un segundo BacktestResult completo con stakes ajustados, curva de
// equity nueva y métricas recalculadas desde cero, más las estadísticas
// propias del overlay. Con cero trades devuelve el resultado base intacto.
func ApplyMartingale(base domain.BacktestResult, cfg MartingaleConfig) domain.BacktestResult {
	if len(base.Trades) == 0 {
		return base
	}
	cfg = cfg.withDefaults()

	trades := make([]domain.Trade, 0, len(base.Trades))
	equityCurve := make([]float64, 1, len(base.Trades)+1)
	equity := 0.0

	armed := false
	var lastDirection domain.Direction
	stats := domain.MartingaleStats{}

	for _, t := range base.Trades {
		stake := cfg.BaseStake
		isMartingale := false
		if armed && t.Direction.Matches(lastDirection) {
			stake = cfg.BaseStake * cfg.Multiplier
			isMartingale = true
		} else {
			// Cambio de dirección (o win previo) desarma antes de preciar.
			armed = false
		}

		var pnl float64
		if t.Won {
			pnl = stake * cfg.PayoutRate
			if isMartingale {
				stats.MartingaleWins++
			} else {
				stats.BaseWins++
			}
			armed = false // un win siempre desarma
		} else {
			pnl = -stake
			if isMartingale {
				stats.MartingaleLosses++
			} else {
				stats.BaseLosses++
			}
			armed = true
			lastDirection = t.Direction
		}

		equity += pnl
		equityCurve = append(equityCurve, equity)

		adjusted := t
		adjusted.Stake = stake
		adjusted.PnL = pnl
		adjusted.Equity = equity
		adjusted.IsMartingale = isMartingale
		trades = append(trades, adjusted)
	}

	if recovered := stats.MartingaleWins + stats.MartingaleLosses; recovered > 0 {
		stats.RecoveryRate = float64(stats.MartingaleWins) / float64(recovered) * 100
	}

	result := Aggregate(trades, equityCurve, base.Strategy+" (Martingale)")
	result.Martingale = &stats
	return result
}
