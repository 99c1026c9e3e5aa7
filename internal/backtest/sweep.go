package backtest

// sweep.go — grid search de parámetros de Bollinger sobre un worker pool.
//
// Cada run es stateless dados sus inputs (la serie es de solo lectura y cada
// run posee su lista de trades), así que los puntos de la rejilla se
// reparten entre workers sin locking.

import (
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"sort"
	"sync"

	"github.com/alejandrodnm/qbot/internal/domain"
	"github.com/alejandrodnm/qbot/internal/strategy"
)

// SweepConfig define la rejilla (period, deviation) y el run base.
type SweepConfig struct {
	PeriodMin, PeriodMax, PeriodStep int
	DeviationMin, DeviationMax       float64
	DeviationStep                    float64
	Workers                          int // <=0 usa runtime.NumCPU()
	Runner                           RunnerConfig
}

func (c SweepConfig) withDefaults() SweepConfig {
	if c.PeriodMin <= 0 {
		c.PeriodMin = 10
	}
	if c.PeriodMax < c.PeriodMin {
		c.PeriodMax = 20
	}
	if c.PeriodStep <= 0 {
		c.PeriodStep = 2
	}
	if c.DeviationMin <= 0 {
		c.DeviationMin = 0.5
	}
	if c.DeviationMax < c.DeviationMin {
		c.DeviationMax = 2.0
	}
	if c.DeviationStep <= 0 {
		c.DeviationStep = 0.5
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	return c
}

// SweepPoint es el resultado de un punto de la rejilla.
type SweepPoint struct {
	Period    int
	Deviation float64
	Result    domain.BacktestResult
}

// SweepBollinger ejecuta un backtest por cada combinación (period, deviation)
// de la rejilla en paralelo y devuelve los puntos ordenados por profit total
// descendente. Cada worker construye su propio registry y evaluator: runs
// concurrentes no comparten estado mutable.
func SweepBollinger(series *domain.Series, cfg SweepConfig) []SweepPoint {
	cfg = cfg.withDefaults()

	type gridCell struct {
		period    int
		deviation float64
	}

	var cells []gridCell
	for period := cfg.PeriodMin; period <= cfg.PeriodMax; period += cfg.PeriodStep {
		// Medio step de margen para no perder el extremo por redondeo float.
		for dev := cfg.DeviationMin; dev <= cfg.DeviationMax+cfg.DeviationStep/2; dev += cfg.DeviationStep {
			cells = append(cells, gridCell{period: period, deviation: dev})
		}
	}

	workCh := make(chan gridCell, len(cells))
	resultCh := make(chan SweepPoint, len(cells))

	var wg sync.WaitGroup
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for cell := range workCh {
				registry := strategy.NewRegistry()
				registry.Register(strategy.NewBollinger(strategy.BollingerConfig{
					Period:    cell.period,
					Deviation: cell.deviation,
				}))

				runnerCfg := cfg.Runner
				runnerCfg.Strategy = "bollinger"
				runnerCfg.Label = sweepLabel(cell.period, cell.deviation)

				result, _, err := NewRunner(NewEvaluator(registry)).Run(series, runnerCfg)
				if err != nil {
					slog.Warn("sweep point failed",
						"period", cell.period,
						"deviation", cell.deviation,
						"err", err,
					)
					continue
				}
				resultCh <- SweepPoint{Period: cell.period, Deviation: cell.deviation, Result: result}
			}
		}()
	}

	for _, cell := range cells {
		workCh <- cell
	}
	close(workCh)

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	points := make([]SweepPoint, 0, len(cells))
	for p := range resultCh {
		points = append(points, p)
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].Result.TotalProfit > points[j].Result.TotalProfit
	})

	slog.Debug("sweep complete",
		"points", len(points),
		"workers", cfg.Workers,
	)

	return points
}

func sweepLabel(period int, deviation float64) string {
	// Redondeo a 2 decimales para etiquetas estables pese al paso float.
	return fmt.Sprintf("bollinger (P=%d, D=%.2f)", period, math.Round(deviation*100)/100)
}
