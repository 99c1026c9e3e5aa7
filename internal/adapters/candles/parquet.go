package candles

// parquet.go — velas en ficheros Parquet, un fichero por símbolo. Formato
// columnar compacto para series largas (100k+ barras de 1 minuto).

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/alejandrodnm/qbot/internal/domain"
	"github.com/alejandrodnm/qbot/internal/ports"
)

var _ ports.CandleSource = (*ParquetSource)(nil)

// candleRecord es el schema Parquet en disco.
type candleRecord struct {
	Timestamp int64   `parquet:"timestamp,timestamp(millisecond)"` // Unix ms
	Open      float64 `parquet:"open"`
	High      float64 `parquet:"high"`
	Low       float64 `parquet:"low"`
	Close     float64 `parquet:"close"`
	Volume    float64 `parquet:"volume"`
}

// ParquetSource implementa ports.CandleSource sobre un fichero Parquet.
type ParquetSource struct {
	path string
}

// NewParquetSource crea la fuente para la ruta dada.
func NewParquetSource(path string) *ParquetSource {
	return &ParquetSource{path: path}
}

// Load lee el fichero completo, ordena por timestamp y valida la serie.
func (s *ParquetSource) Load(_ context.Context) (*domain.Series, error) {
	records, err := parquet.ReadFile[candleRecord](s.path)
	if err != nil {
		return nil, fmt.Errorf("candles.ParquetSource: read %q: %w", s.path, err)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Timestamp < records[j].Timestamp
	})

	out := make([]domain.Candle, len(records))
	for i, r := range records {
		out[i] = domain.Candle{
			Timestamp: time.UnixMilli(r.Timestamp).UTC(),
			Open:      r.Open,
			High:      r.High,
			Low:       r.Low,
			Close:     r.Close,
			Volume:    r.Volume,
		}
	}

	series, err := domain.NewSeries(out)
	if err != nil {
		return nil, fmt.Errorf("candles.ParquetSource: %q: %w", s.path, err)
	}
	return series, nil
}

// WriteCandles escribe la serie completa al fichero, creando los directorios
// intermedios. Sobrescribe: el fichero es la serie, no un log incremental.
func (s *ParquetSource) WriteCandles(_ context.Context, cs []domain.Candle) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("candles.ParquetSource: mkdir: %w", err)
	}

	records := make([]candleRecord, len(cs))
	for i, c := range cs {
		records[i] = candleRecord{
			Timestamp: c.Timestamp.UTC().UnixMilli(),
			Open:      c.Open,
			High:      c.High,
			Low:       c.Low,
			Close:     c.Close,
			Volume:    c.Volume,
		}
	}

	if err := parquet.WriteFile(s.path, records); err != nil {
		return fmt.Errorf("candles.ParquetSource: write %q: %w", s.path, err)
	}
	return nil
}
