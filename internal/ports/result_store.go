package ports

import (
	"context"

	"github.com/alejandrodnm/qbot/internal/domain"
)

// ResultStore persiste los resúmenes de runs de backtest.
type ResultStore interface {
	// SaveResults persiste los resultados de una sesión de backtesting.
	SaveResults(ctx context.Context, results []domain.BacktestResult) error

	// ListRuns devuelve los últimos runs guardados, más recientes primero.
	ListRuns(ctx context.Context, limit int) ([]domain.RunRecord, error)

	// Close cierra la conexión a la base de datos limpiamente.
	Close() error
}
