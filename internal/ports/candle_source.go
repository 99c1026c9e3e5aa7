package ports

import (
	"context"

	"github.com/alejandrodnm/qbot/internal/domain"
)

// CandleSource carga la serie histórica de velas desde un origen tabular
// (CSV, SQLite, Parquet). La serie devuelta ya está validada y ordenada.
type CandleSource interface {
	Load(ctx context.Context) (*domain.Series, error)
}
