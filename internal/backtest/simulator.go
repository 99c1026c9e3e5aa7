package backtest

import "github.com/alejandrodnm/qbot/internal/domain"

// Simulate resuelve una apuesta binaria: compara el close de la barra de
// entrada con el close de la barra de expiración. Determinista, sin efectos
// secundarios.
//
// P&L bajo payout fijo: +stake×payoutRate en win, -stake en loss (el payout
// es neto — el principal no se modela por separado). Si la barra de salida
// cae fuera de la serie o la dirección no es call/put devuelve (false, 0):
// el caller debe tratarlo como "sin trade", no contarlo como pérdida.
func Simulate(
	series *domain.Series,
	entryIndex int,
	direction domain.Direction,
	durationBars int,
	stake, payoutRate float64,
) (won bool, pnl float64) {
	if entryIndex < 0 || entryIndex+durationBars >= series.Len() {
		return false, 0
	}

	entryPrice := series.At(entryIndex).Close
	exitPrice := series.At(entryIndex + durationBars).Close

	switch {
	case direction.Matches(domain.DirectionCall):
		won = exitPrice > entryPrice
	case direction.Matches(domain.DirectionPut):
		won = exitPrice < entryPrice
	default:
		return false, 0
	}

	if won {
		return true, stake * payoutRate
	}
	return false, -stake
}
