package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alejandrodnm/qbot/internal/domain"
)

// engulfingBase devuelve 10 velas neutras; el test reemplaza las dos últimas.
func engulfingBase() []domain.Candle {
	cs := make([]domain.Candle, 10)
	for i := range cs {
		cs[i] = candle(i, 100, 100.5, 99.5, 100)
	}
	return cs
}

func TestEngulfing_TooFewCandles(t *testing.T) {
	sig := NewEngulfing(EngulfingConfig{}).Evaluate(engulfingBase()[:4])
	assert.False(t, sig.ShouldTrade)
	assert.Contains(t, sig.Reason, "Need 10+ candles")
}

func TestEngulfing_NoPattern(t *testing.T) {
	sig := NewEngulfing(EngulfingConfig{}).Evaluate(engulfingBase())
	assert.False(t, sig.ShouldTrade)
	assert.Equal(t, "No engulfing", sig.Reason)
}

func TestEngulfing_BullishCall(t *testing.T) {
	w := engulfingBase()
	// Roja previa, verde actual que cubre todo su rango
	w[8] = candle(8, 100.4, 100.5, 99.9, 100)
	w[9] = candle(9, 100, 101, 99.8, 100.9)

	sig := NewEngulfing(EngulfingConfig{}).Evaluate(w)
	assert.True(t, sig.ShouldTrade)
	assert.Equal(t, domain.DirectionCall, sig.Direction)
	assert.Contains(t, sig.Reason, "Bullish Engulfing")
}

func TestEngulfing_BearishPut(t *testing.T) {
	w := engulfingBase()
	// Verde previa, roja actual que cubre todo su rango
	w[8] = candle(8, 100, 100.5, 99.9, 100.4)
	w[9] = candle(9, 100.4, 100.6, 99.3, 99.5)

	sig := NewEngulfing(EngulfingConfig{}).Evaluate(w)
	assert.True(t, sig.ShouldTrade)
	assert.Equal(t, domain.DirectionPut, sig.Direction)
	assert.Contains(t, sig.Reason, "Bearish Engulfing")
}

func TestEngulfing_WeakBodyRejected(t *testing.T) {
	w := engulfingBase()
	w[8] = candle(8, 100.4, 100.5, 99.9, 100)
	// Engulle pero el cuerpo es el 8% del rango: sin convicción
	w[9] = candle(9, 100, 101, 99.8, 100.1)

	sig := NewEngulfing(EngulfingConfig{}).Evaluate(w)
	assert.False(t, sig.ShouldTrade)
	assert.Contains(t, sig.Reason, "Weak engulfing")
}

func TestEngulfing_SkipsCurrClosingAtExtreme(t *testing.T) {
	w := engulfingBase()
	w[8] = candle(8, 100.4, 100.5, 99.9, 100)
	// Verde que cierra exactamente en su high
	w[9] = candle(9, 100, 101, 99.8, 101)

	sig := NewEngulfing(EngulfingConfig{}).Evaluate(w)
	assert.False(t, sig.ShouldTrade)
	assert.Equal(t, "Curr green candle close=high", sig.Reason)
}

func TestEngulfing_CustomBodyRatio(t *testing.T) {
	w := engulfingBase()
	w[8] = candle(8, 100.4, 100.5, 99.9, 100)
	w[9] = candle(9, 100, 101, 99.8, 100.9) // cuerpo 75% del rango

	// Con un umbral más exigente que 75% la misma vela se descarta
	sig := NewEngulfing(EngulfingConfig{MinBodyRatio: 0.8}).Evaluate(w)
	assert.False(t, sig.ShouldTrade)
	assert.Contains(t, sig.Reason, "Weak engulfing")
}
