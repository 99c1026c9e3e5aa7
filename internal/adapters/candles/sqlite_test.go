package candles_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/qbot/internal/adapters/candles"
	"github.com/alejandrodnm/qbot/internal/domain"
)

func makeCandles(n int) []domain.Candle {
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	cs := make([]domain.Candle, n)
	for i := range cs {
		price := 100 + float64(i)
		cs[i] = domain.Candle{
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Open:      price,
			High:      price + 0.5,
			Low:       price - 0.5,
			Close:     price + 0.2,
			Volume:    float64(10 * i),
		}
	}
	return cs
}

func TestSQLiteSource_WriteAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "candles.db")
	src, err := candles.NewSQLiteSource(path, "EURUSD")
	require.NoError(t, err)
	defer src.Close()

	written := makeCandles(5)
	require.NoError(t, src.WriteCandles(context.Background(), written))

	series, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 5, series.Len())

	// Round-trip completo, timestamps en UTC a resolución de segundo
	assert.Equal(t, written[0].Timestamp, series.At(0).Timestamp)
	assert.Equal(t, written[4].Close, series.At(4).Close)
	assert.Equal(t, written[2].Volume, series.At(2).Volume)
}

func TestSQLiteSource_UpsertOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "candles.db")
	src, err := candles.NewSQLiteSource(path, "EURUSD")
	require.NoError(t, err)
	defer src.Close()

	cs := makeCandles(3)
	require.NoError(t, src.WriteCandles(context.Background(), cs))

	// Re-ingesta con cierres corregidos: misma clave, datos nuevos
	cs[1].Close = 999
	cs[1].High = 1000
	require.NoError(t, src.WriteCandles(context.Background(), cs))

	series, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, series.Len())
	assert.Equal(t, 999.0, series.At(1).Close)
}

func TestSQLiteSource_SymbolsAreIsolated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "candles.db")

	eur, err := candles.NewSQLiteSource(path, "EURUSD")
	require.NoError(t, err)
	require.NoError(t, eur.WriteCandles(context.Background(), makeCandles(4)))
	require.NoError(t, eur.Close())

	jpy, err := candles.NewSQLiteSource(path, "USDJPY")
	require.NoError(t, err)
	defer jpy.Close()

	series, err := jpy.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, series.Len())
}

func TestSQLiteSource_WriteEmptyBatch(t *testing.T) {
	src, err := candles.NewSQLiteSource(filepath.Join(t.TempDir(), "candles.db"), "EURUSD")
	require.NoError(t, err)
	defer src.Close()

	assert.NoError(t, src.WriteCandles(context.Background(), nil))
}
