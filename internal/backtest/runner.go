package backtest

// runner.go — el loop principal del backtest: recorre la serie barra a barra,
// evalúa la estrategia sobre la ventana y simula un trade en la barra
// siguiente a cada señal. Los fallos por barra nunca abortan el run: se
// acumulan como skip reasons para diagnóstico.

import (
	"fmt"
	"log/slog"

	"github.com/alejandrodnm/qbot/internal/domain"
)

// SkipReason clasifica por qué una barra no produjo trade.
type SkipReason string

const (
	// SkipShortWindow: la ventana no alcanza el mínimo de la estrategia.
	SkipShortWindow SkipReason = "short_window"
	// SkipNoSignal: la estrategia evaluó la ventana y no vio patrón.
	SkipNoSignal SkipReason = "no_signal"
	// SkipNoExitBar: no quedan barras futuras para resolver la expiración.
	SkipNoExitBar SkipReason = "no_exit_bar"
)

// SkipStats acumula los motivos de descarte de un run completo.
type SkipStats map[SkipReason]int

// RunnerConfig parametriza un run.
type RunnerConfig struct {
	Strategy     string  // nombre registrado de la estrategia
	Label        string  // etiqueta del resultado; vacío usa Strategy
	Lookback     int     // velas de histórico por ventana (default 30)
	StartIndex   int     // primera barra de señal a evaluar
	EndIndex     int     // última barra exclusiva; <=0 usa len-2
	DurationBars int     // duración de la apuesta en barras (default 1)
	Stake        float64 // importe por trade (default 10)
	PayoutRate   float64 // fracción de retorno en win (default 0.85)
}

// withDefaults aplica los defaults del motor original sobre los ceros.
func (c RunnerConfig) withDefaults() RunnerConfig {
	if c.Label == "" {
		c.Label = c.Strategy
	}
	if c.Lookback <= 0 {
		c.Lookback = 30
	}
	if c.StartIndex < 0 {
		c.StartIndex = 0
	}
	if c.DurationBars <= 0 {
		c.DurationBars = 1
	}
	if c.Stake <= 0 {
		c.Stake = 10
	}
	if c.PayoutRate <= 0 {
		c.PayoutRate = 0.85
	}
	return c
}

// Runner ejecuta backtests sobre una serie. No guarda estado entre runs:
// cada invocación posee su propia lista de trades y curva de equity, así
// que runs independientes pueden ejecutarse en paralelo.
type Runner struct {
	evaluator *Evaluator
}

// NewRunner crea un Runner sobre el evaluator dado.
func NewRunner(evaluator *Evaluator) *Runner {
	return &Runner{evaluator: evaluator}
}

// Run recorre la serie desde StartIndex hasta EndIndex (exclusive) evaluando
// la estrategia en cada barra. Cada señal en la barra i entra en la barra i+1
// — nunca en la misma barra de la señal, para evitar lookahead bias — y
// expira DurationBars después. Las evaluaciones solapadas están permitidas:
// el motor base no es exclusivo de un-trade-por-vela.
//
// Un run sin trades es un resultado válido (métricas a cero), no un error.
// Solo un nombre de estrategia desconocido produce error.
func (r *Runner) Run(series *domain.Series, cfg RunnerConfig) (domain.BacktestResult, SkipStats, error) {
	cfg = cfg.withDefaults()

	minWindow, err := r.evaluator.MinWindow(cfg.Strategy)
	if err != nil {
		return domain.BacktestResult{}, nil, fmt.Errorf("backtest.Run: %w", err)
	}

	// end por defecto deja sitio para la entrada en i+1 y una barra más de salida.
	end := cfg.EndIndex
	if end <= 0 || end > series.Len()-2 {
		end = series.Len() - 2
	}

	var trades []domain.Trade
	equityCurve := []float64{0}
	equity := 0.0
	skips := make(SkipStats)

	for i := cfg.StartIndex; i < end; i++ {
		window := series.Window(i, cfg.Lookback)
		if len(window) < minWindow {
			skips[SkipShortWindow]++
			continue
		}

		signal, err := r.evaluator.Evaluate(cfg.Strategy, window)
		if err != nil {
			return domain.BacktestResult{}, nil, fmt.Errorf("backtest.Run: bar %d: %w", i, err)
		}
		if !signal.ShouldTrade {
			skips[SkipNoSignal]++
			continue
		}

		entry := i + 1
		exit := entry + cfg.DurationBars
		if exit >= series.Len() {
			skips[SkipNoExitBar]++
			continue
		}

		won, pnl := Simulate(series, entry, signal.Direction, cfg.DurationBars, cfg.Stake, cfg.PayoutRate)

		equity += pnl
		equityCurve = append(equityCurve, equity)

		trades = append(trades, domain.Trade{
			EntryIndex: entry,
			EntryTime:  series.At(entry).Timestamp,
			Direction:  signal.Direction,
			EntryPrice: series.At(entry).Close,
			ExitPrice:  series.At(exit).Close,
			Stake:      cfg.Stake,
			Won:        won,
			PnL:        pnl,
			Equity:     equity,
			Reason:     signal.Reason,
		})
	}

	slog.Debug("backtest run complete",
		"strategy", cfg.Strategy,
		"bars", end-cfg.StartIndex,
		"trades", len(trades),
		"skipped_short_window", skips[SkipShortWindow],
		"skipped_no_signal", skips[SkipNoSignal],
		"skipped_no_exit_bar", skips[SkipNoExitBar],
	)

	return Aggregate(trades, equityCurve, cfg.Label), skips, nil
}
