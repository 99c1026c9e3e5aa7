package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func makeCandle(minute int, open, high, low, close float64) Candle {
	return Candle{
		Timestamp: baseTime.Add(time.Duration(minute) * time.Minute),
		Open:      open,
		High:      high,
		Low:       low,
		Close:     close,
	}
}

func flatCandle(minute int, price float64) Candle {
	return makeCandle(minute, price, price, price, price)
}

// --- Candle ---

func TestCandle_BullishBearish(t *testing.T) {
	green := makeCandle(0, 100, 101, 99, 100.5)
	red := makeCandle(0, 100, 101, 99, 99.5)
	doji := flatCandle(0, 100)

	assert.True(t, green.IsBullish())
	assert.False(t, green.IsBearish())
	assert.True(t, red.IsBearish())
	assert.False(t, doji.IsBullish())
	assert.False(t, doji.IsBearish())
}

func TestCandle_BodyAndRange(t *testing.T) {
	c := makeCandle(0, 100, 102, 99, 101.5)
	assert.InDelta(t, 1.5, c.Body(), 1e-9)
	assert.InDelta(t, 3.0, c.Range(), 1e-9)

	red := makeCandle(0, 101.5, 102, 99, 100)
	assert.InDelta(t, 1.5, red.Body(), 1e-9)
}

func TestCandle_Validate_OK(t *testing.T) {
	assert.NoError(t, makeCandle(0, 100, 101, 99, 100.5).Validate())
	// o=h=l=c es una vela válida (doji plano)
	assert.NoError(t, flatCandle(0, 100).Validate())
}

func TestCandle_Validate_NonPositivePrice(t *testing.T) {
	c := makeCandle(0, 0, 101, 99, 100)
	assert.ErrorContains(t, c.Validate(), "non-positive")
}

func TestCandle_Validate_HighBelowBody(t *testing.T) {
	c := makeCandle(0, 100, 100.2, 99, 100.5)
	assert.ErrorContains(t, c.Validate(), "high")
}

func TestCandle_Validate_LowAboveBody(t *testing.T) {
	c := makeCandle(0, 100, 101, 100.2, 100.5)
	assert.ErrorContains(t, c.Validate(), "low")
}

// --- Series ---

func TestNewSeries_RejectsUnsortedTimestamps(t *testing.T) {
	_, err := NewSeries([]Candle{flatCandle(1, 100), flatCandle(0, 100)})
	assert.ErrorContains(t, err, "not after previous")
}

func TestNewSeries_RejectsDuplicateTimestamps(t *testing.T) {
	_, err := NewSeries([]Candle{flatCandle(0, 100), flatCandle(0, 101)})
	assert.ErrorContains(t, err, "not after previous")
}

func TestNewSeries_RejectsInvalidCandle(t *testing.T) {
	_, err := NewSeries([]Candle{flatCandle(0, 100), makeCandle(1, 100, 99, 99, 100)})
	assert.ErrorContains(t, err, "candle 1:")
}

func TestSeries_Window_Full(t *testing.T) {
	cs := make([]Candle, 10)
	for i := range cs {
		cs[i] = flatCandle(i, 100+float64(i))
	}
	s, err := NewSeries(cs)
	require.NoError(t, err)

	w := s.Window(9, 5)
	require.Len(t, w, 6) // lookback+1, terminando en center
	assert.Equal(t, cs[4], w[0])
	assert.Equal(t, cs[9], w[5])
}

func TestSeries_Window_ClampedAtStart(t *testing.T) {
	cs := make([]Candle, 5)
	for i := range cs {
		cs[i] = flatCandle(i, 100)
	}
	s, err := NewSeries(cs)
	require.NoError(t, err)

	// center 2 con lookback 30: solo hay 3 velas disponibles
	w := s.Window(2, 30)
	require.Len(t, w, 3)
	assert.Equal(t, cs[0], w[0])
	assert.Equal(t, cs[2], w[2])
}

func TestSeries_Window_ZeroLookback(t *testing.T) {
	s, err := NewSeries([]Candle{flatCandle(0, 100), flatCandle(1, 101)})
	require.NoError(t, err)

	w := s.Window(1, 0)
	require.Len(t, w, 1)
	assert.Equal(t, 101.0, w[0].Close)
}

func TestSeries_Window_OutOfRange(t *testing.T) {
	s, err := NewSeries([]Candle{flatCandle(0, 100)})
	require.NoError(t, err)

	assert.Nil(t, s.Window(-1, 5))
	assert.Nil(t, s.Window(1, 5))
	assert.Nil(t, s.Window(0, -1))
}
