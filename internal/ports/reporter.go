package ports

import (
	"context"

	"github.com/alejandrodnm/qbot/internal/domain"
)

// Reporter presenta los resultados de backtest al usuario.
type Reporter interface {
	// Report muestra el resumen de métricas de cada resultado.
	// En la implementación de consola, imprime tablas formateadas.
	Report(ctx context.Context, results []domain.BacktestResult) error
}
