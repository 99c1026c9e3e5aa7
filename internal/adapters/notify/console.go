package notify

// console.go — presenta los resultados de backtest en la terminal: tabla
// comparativa de estrategias, desglose de martingala y ranking de sweeps.

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/olekukonko/tablewriter"

	"github.com/alejandrodnm/qbot/internal/backtest"
	"github.com/alejandrodnm/qbot/internal/domain"
	"github.com/alejandrodnm/qbot/internal/ports"
)

var _ ports.Reporter = (*Console)(nil)

// Console implementa ports.Reporter escribiendo tablas a stdout.
type Console struct {
	out       io.Writer
	maxTrades int // trades a listar en detalle; 0 desactiva el listado
}

// NewConsole crea un reporter que escribe a stdout.
func NewConsole(maxTrades int) *Console {
	return &Console{out: os.Stdout, maxTrades: maxTrades}
}

// NewConsoleWriter crea un reporter para tests.
func NewConsoleWriter(w io.Writer) *Console {
	return &Console{out: w}
}

// Report imprime el resumen de métricas de cada resultado y, si procede,
// el desglose de martingala.
func (c *Console) Report(_ context.Context, results []domain.BacktestResult) error {
	if len(results) == 0 {
		fmt.Fprintln(c.out, "\n  No backtest results available.")
		return nil
	}

	fmt.Fprintf(c.out, "\n╔══════════════════════════════════════════════════════════════════╗\n")
	fmt.Fprintf(c.out, "║  BACKTEST — strategy performance summary                         ║\n")
	fmt.Fprintf(c.out, "╚══════════════════════════════════════════════════════════════════╝\n\n")

	table := tablewriter.NewWriter(c.out)
	table.Header("Strategy", "Trades", "W/L", "Win%", "Profit", "AvgWin", "AvgLoss", "PF", "MaxDD", "EV")

	for _, r := range results {
		table.Append(
			r.Strategy,
			fmt.Sprintf("%d", r.TotalTrades),
			fmt.Sprintf("%d/%d", r.Wins, r.Losses),
			fmt.Sprintf("%.2f%%", r.WinRate),
			fmt.Sprintf("$%.2f", r.TotalProfit),
			fmt.Sprintf("$%.2f", r.AvgWin),
			fmt.Sprintf("$%.2f", r.AvgLoss),
			formatProfitFactor(r.ProfitFactor),
			fmt.Sprintf("$%.2f (%.2f%%)", r.MaxDrawdown, r.MaxDrawdownPct),
			fmt.Sprintf("$%.2f", r.ExpectedValue),
		)
	}
	table.Render()

	for _, r := range results {
		if r.Martingale != nil {
			c.printMartingale(r)
		}
	}

	if c.maxTrades > 0 {
		for _, r := range results {
			c.printTrades(r)
		}
	}

	return nil
}

// printMartingale imprime el desglose base vs escalado del overlay.
func (c *Console) printMartingale(r domain.BacktestResult) {
	m := r.Martingale
	fmt.Fprintf(c.out, "\n  %s — martingale breakdown\n", r.Strategy)
	fmt.Fprintf(c.out, "    base:       %d wins / %d losses\n", m.BaseWins, m.BaseLosses)
	fmt.Fprintf(c.out, "    martingale: %d wins / %d losses\n", m.MartingaleWins, m.MartingaleLosses)
	fmt.Fprintf(c.out, "    recovery:   %.2f%%\n", m.RecoveryRate)
}

// printTrades lista los primeros maxTrades trades de un resultado.
func (c *Console) printTrades(r domain.BacktestResult) {
	if len(r.Trades) == 0 {
		return
	}

	fmt.Fprintf(c.out, "\n  %s — first %d trades\n\n", r.Strategy, min(c.maxTrades, len(r.Trades)))

	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Entry", "Dir", "In", "Out", "Stake", "Won", "PnL", "Equity")

	for i, t := range r.Trades {
		if i >= c.maxTrades {
			break
		}
		mart := ""
		if t.IsMartingale {
			mart = " (M)"
		}
		table.Append(
			fmt.Sprintf("%d", i+1),
			t.EntryTime.Format("2006-01-02 15:04"),
			string(t.Direction)+mart,
			fmt.Sprintf("%.5f", t.EntryPrice),
			fmt.Sprintf("%.5f", t.ExitPrice),
			fmt.Sprintf("$%.2f", t.Stake),
			formatWon(t.Won),
			fmt.Sprintf("$%.2f", t.PnL),
			fmt.Sprintf("$%.2f", t.Equity),
		)
	}
	table.Render()
}

// PrintSweep imprime el ranking de un sweep de parámetros, mejores primero.
func (c *Console) PrintSweep(points []backtest.SweepPoint, topN int) {
	if len(points) == 0 {
		fmt.Fprintln(c.out, "\n  No sweep results available.")
		return
	}
	if topN <= 0 || topN > len(points) {
		topN = len(points)
	}

	fmt.Fprintf(c.out, "\n╔══════════════════════════════════════════════════════════════════╗\n")
	fmt.Fprintf(c.out, "║  SWEEP — bollinger parameter grid, ranked by total profit        ║\n")
	fmt.Fprintf(c.out, "╚══════════════════════════════════════════════════════════════════╝\n\n")

	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Period", "Dev", "Trades", "Win%", "Profit", "PF", "MaxDD", "EV")

	for i, p := range points[:topN] {
		r := p.Result
		table.Append(
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%d", p.Period),
			fmt.Sprintf("%.2f", p.Deviation),
			fmt.Sprintf("%d", r.TotalTrades),
			fmt.Sprintf("%.2f%%", r.WinRate),
			fmt.Sprintf("$%.2f", r.TotalProfit),
			formatProfitFactor(r.ProfitFactor),
			fmt.Sprintf("$%.2f", r.MaxDrawdown),
			fmt.Sprintf("$%.2f", r.ExpectedValue),
		)
	}
	table.Render()

	best := points[0]
	fmt.Fprintf(c.out, "\n  Best: period=%d deviation=%.2f → $%.2f (%d trades, %.2f%% win rate)\n",
		best.Period, best.Deviation, best.Result.TotalProfit,
		best.Result.TotalTrades, best.Result.WinRate)
}

// PrintRuns imprime el histórico de runs persistidos, más recientes primero.
func (c *Console) PrintRuns(records []domain.RunRecord) {
	if len(records) == 0 {
		fmt.Fprintln(c.out, "\n  No stored runs.")
		return
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("Date", "Strategy", "Mart", "Trades", "Win%", "Profit", "MaxDD")

	for _, rec := range records {
		mart := ""
		if rec.Martingale {
			mart = "yes"
		}
		table.Append(
			rec.CreatedAt.Format("2006-01-02 15:04"),
			rec.Strategy,
			mart,
			fmt.Sprintf("%d", rec.TotalTrades),
			fmt.Sprintf("%.2f%%", rec.WinRate),
			fmt.Sprintf("$%.2f", rec.TotalProfit),
			fmt.Sprintf("$%.2f", rec.MaxDrawdown),
		)
	}
	table.Render()
}

func formatProfitFactor(pf float64) string {
	if math.IsInf(pf, 1) {
		return "inf"
	}
	return fmt.Sprintf("%.2f", pf)
}

func formatWon(won bool) string {
	if won {
		return "WIN"
	}
	return "LOSS"
}
