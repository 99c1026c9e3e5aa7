package strategy

// engulfing.go — detecta patrones envolventes: la vela actual cubre por
// completo el rango de la anterior, con filtros de fuerza del cuerpo.

import (
	"fmt"

	"github.com/alejandrodnm/qbot/internal/domain"
)

const (
	engulfingName       = "engulfing"
	engulfingMinCandles = 10
)

// Engulfing implementa Strategy. CALL en envolvente alcista (vela verde que
// engulle a una roja), PUT en envolvente bajista.
type Engulfing struct {
	minBodyRatio float64
}

// EngulfingConfig configura el filtro de fuerza del patrón.
type EngulfingConfig struct {
	// MinBodyRatio es la fracción mínima del rango total que debe ocupar el
	// cuerpo de la vela envolvente. 0 usa el default.
	MinBodyRatio float64
}

// NewEngulfing crea la estrategia con la configuración dada.
func NewEngulfing(cfg EngulfingConfig) *Engulfing {
	if cfg.MinBodyRatio <= 0 {
		cfg.MinBodyRatio = 0.3
	}
	return &Engulfing{minBodyRatio: cfg.MinBodyRatio}
}

// Name implementa Strategy.
func (e *Engulfing) Name() string { return engulfingName }

// MinCandles implementa Strategy.
func (e *Engulfing) MinCandles() int { return engulfingMinCandles }

// Evaluate implementa Strategy.
func (e *Engulfing) Evaluate(window []domain.Candle) domain.Signal {
	if len(window) < engulfingMinCandles {
		return domain.NoSignal(fmt.Sprintf("Need %d+ candles (have %d)", engulfingMinCandles, len(window)))
	}

	trend := trendDirection(window)

	prev := window[len(window)-2]
	curr := window[len(window)-1]

	// Definición de envolvente: la vela actual cubre el rango completo de la anterior.
	if !(curr.High > prev.High && curr.Low < prev.Low) {
		return domain.NoSignal("No engulfing")
	}

	// Envolvente alcista: verde actual engulle roja previa.
	if curr.IsBullish() && prev.IsBearish() {
		if prev.Close == prev.Low {
			return domain.NoSignal("Prev red candle close=low")
		}
		if curr.Close == curr.High {
			return domain.NoSignal("Curr green candle close=high")
		}
		if sig, ok := e.checkBody(curr); !ok {
			return sig
		}
		return domain.Signal{
			Direction:   domain.DirectionCall,
			ShouldTrade: true,
			Reason:      fmt.Sprintf("Bullish Engulfing (%s trend)", trend),
		}
	}

	// Envolvente bajista: roja actual engulle verde previa.
	if curr.IsBearish() && prev.IsBullish() {
		if prev.Close == prev.High {
			return domain.NoSignal("Prev green candle close=high")
		}
		if curr.Close == curr.Low {
			return domain.NoSignal("Curr red candle close=low")
		}
		if sig, ok := e.checkBody(curr); !ok {
			return sig
		}
		return domain.Signal{
			Direction:   domain.DirectionPut,
			ShouldTrade: true,
			Reason:      fmt.Sprintf("Bearish Engulfing (%s trend)", trend),
		}
	}

	return domain.NoSignal("No valid signal")
}

// checkBody descarta envolventes débiles: el cuerpo debe superar la fracción
// mínima del rango total (dojis y peonzas no tienen convicción).
func (e *Engulfing) checkBody(c domain.Candle) (domain.Signal, bool) {
	totalRange := c.Range()
	if totalRange == 0 {
		return domain.NoSignal("Invalid candle range"), false
	}
	if c.Body() <= e.minBodyRatio*totalRange {
		return domain.NoSignal(fmt.Sprintf("Weak engulfing - body <%.0f%% of range", e.minBodyRatio*100)), false
	}
	return domain.Signal{}, true
}
