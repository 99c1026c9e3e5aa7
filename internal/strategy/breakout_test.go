package strategy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/alejandrodnm/qbot/internal/domain"
)

func candle(minute int, open, high, low, close float64) domain.Candle {
	return domain.Candle{
		Timestamp: baseTime.Add(time.Duration(minute) * time.Minute),
		Open:      open,
		High:      high,
		Low:       low,
		Close:     close,
	}
}

// breakoutBase devuelve 10 velas neutras sin extremos ni rupturas.
func breakoutBase() []domain.Candle {
	cs := make([]domain.Candle, 10)
	for i := range cs {
		cs[i] = candle(i, 100, 100.5, 99.5, 100)
	}
	return cs
}

func TestBreakout_TooFewCandles(t *testing.T) {
	sig := NewBreakout(BreakoutConfig{}).Evaluate(breakoutBase()[:5])
	assert.False(t, sig.ShouldTrade)
	assert.Contains(t, sig.Reason, "Need 10+ candles")
}

func TestBreakout_NoExtremeCandle(t *testing.T) {
	sig := NewBreakout(BreakoutConfig{}).Evaluate(breakoutBase())
	assert.False(t, sig.ShouldTrade)
	assert.Equal(t, "No extreme candle", sig.Reason)
}

func TestBreakout_Call(t *testing.T) {
	w := breakoutBase()
	// Vela 7 alcista (el prev de la ruptura), sin cerrar en el high
	w[7] = candle(7, 100, 100.5, 99.5, 100.2)
	// Vela 8: mínimo de las 4 anteriores (low 99 < 99.5) que cierra por
	// encima del high de la vela 7: ruptura al alza
	w[8] = candle(8, 100, 103.5, 99, 103)
	w[9] = candle(9, 103, 103.5, 102.5, 103)

	sig := NewBreakout(BreakoutConfig{}).Evaluate(w)
	assert.True(t, sig.ShouldTrade)
	assert.Equal(t, domain.DirectionCall, sig.Direction)
	assert.Contains(t, sig.Reason, "Breakout CALL")
}

func TestBreakout_Put(t *testing.T) {
	w := breakoutBase()
	// Vela 7 bajista (prev), sin cerrar en el low
	w[7] = candle(7, 100.2, 100.5, 99.5, 100)
	// Vela 8: máximo de las 4 anteriores (high 101.5 > 100.5) que cierra
	// por debajo del low de la vela 7: ruptura a la baja
	w[8] = candle(8, 100, 101.5, 96.5, 97)
	w[9] = candle(9, 97, 97, 97, 97)

	sig := NewBreakout(BreakoutConfig{}).Evaluate(w)
	assert.True(t, sig.ShouldTrade)
	assert.Equal(t, domain.DirectionPut, sig.Direction)
	assert.Contains(t, sig.Reason, "Breakout PUT")
}

func TestBreakout_SkipsGreenCandleClosingAtHigh(t *testing.T) {
	w := breakoutBase()
	w[7] = candle(7, 100, 100.5, 99.5, 100.2)
	// La vela de ruptura cierra exactamente en su high: sin margen de continuación
	w[8] = candle(8, 100, 103, 99, 103)
	w[9] = candle(9, 103, 103.5, 102.5, 103)

	sig := NewBreakout(BreakoutConfig{}).Evaluate(w)
	assert.False(t, sig.ShouldTrade)
	assert.Equal(t, "Curr green candle close=high", sig.Reason)
}

func TestBreakout_DefaultsAppliedOnZeroConfig(t *testing.T) {
	b := NewBreakout(BreakoutConfig{})
	assert.Equal(t, "breakout", b.Name())
	assert.Equal(t, 10, b.MinCandles())
}
