package strategy

// breakout.go — detecta rupturas de soporte/resistencia marcados por velas
// extremas recientes, con filtros de tendencia y volatilidad.

import (
	"fmt"

	"github.com/alejandrodnm/qbot/internal/domain"
)

const (
	breakoutName       = "breakout"
	breakoutMinCandles = 10

	// Número de velas previas contra las que se compara el extremo.
	extremeLookback = 4

	atrPeriod = 14
)

// Breakout implementa Strategy. Señala CALL cuando el cierre actual supera el
// high de una vela que era el mínimo de las 4 anteriores (ruptura al alza tras
// un extremo bajista), y PUT en el caso simétrico.
type Breakout struct {
	maxATRPercent float64
}

// BreakoutConfig configura los filtros de la estrategia.
type BreakoutConfig struct {
	// MaxATRPercent descarta señales cuando el ATR supera este % del precio
	// medio (periodos de noticias). 0 usa el default.
	MaxATRPercent float64
}

// NewBreakout crea la estrategia con la configuración dada.
func NewBreakout(cfg BreakoutConfig) *Breakout {
	if cfg.MaxATRPercent <= 0 {
		cfg.MaxATRPercent = 1.5
	}
	return &Breakout{maxATRPercent: cfg.MaxATRPercent}
}

// Name implementa Strategy.
func (b *Breakout) Name() string { return breakoutName }

// MinCandles implementa Strategy.
func (b *Breakout) MinCandles() int { return breakoutMinCandles }

// Evaluate implementa Strategy.
func (b *Breakout) Evaluate(window []domain.Candle) domain.Signal {
	if len(window) < breakoutMinCandles {
		return domain.NoSignal(fmt.Sprintf("Need %d+ candles (have %d)", breakoutMinCandles, len(window)))
	}

	isLowExtreme, isHighExtreme := checkExtremes(window)
	if !isLowExtreme && !isHighExtreme {
		return domain.NoSignal("No extreme candle")
	}

	trend := trendDirection(window)

	// Filtro de volatilidad: ATR como % del precio medio reciente.
	candlesForAvg := len(window)
	if candlesForAvg > 20 {
		candlesForAvg = 20
	}
	var sum float64
	for _, c := range window[len(window)-candlesForAvg:] {
		sum += c.Close
	}
	avgPrice := sum / float64(candlesForAvg)

	atrPercent := 0.0
	if avgPrice > 0 {
		atrPercent = atr(window, atrPeriod) / avgPrice * 100
	}
	if atrPercent > b.maxATRPercent {
		return domain.NoSignal(fmt.Sprintf("Extreme volatility (ATR: %.3f%%) - too risky", atrPercent))
	}

	prev := window[len(window)-3]
	curr := window[len(window)-2]

	// Ruptura al alza: extremo bajista previo y cierre por encima del high anterior.
	if isLowExtreme && curr.Close > prev.High {
		if trend == trendBearish {
			return domain.NoSignal("CALL signal against bearish trend - skipped")
		}
		// Velas verdes con close=high no dejan margen de continuación.
		if prev.IsBullish() && prev.Close == prev.High {
			return domain.NoSignal("Prev green candle close=high")
		}
		if curr.IsBullish() && curr.Close == curr.High {
			return domain.NoSignal("Curr green candle close=high")
		}
		return domain.Signal{
			Direction:   domain.DirectionCall,
			ShouldTrade: true,
			Reason:      fmt.Sprintf("Breakout CALL (%s trend)", trend),
		}
	}

	// Ruptura a la baja: extremo alcista previo y cierre por debajo del low anterior.
	if isHighExtreme && curr.Close < prev.Low {
		if trend == trendBullish {
			return domain.NoSignal("PUT signal against bullish trend - skipped")
		}
		if prev.IsBearish() && prev.Close == prev.Low {
			return domain.NoSignal("Prev red candle close=low")
		}
		if curr.IsBearish() && curr.Close == curr.Low {
			return domain.NoSignal("Curr red candle close=low")
		}
		return domain.Signal{
			Direction:   domain.DirectionPut,
			ShouldTrade: true,
			Reason:      fmt.Sprintf("Breakout PUT (%s trend)", trend),
		}
	}

	return domain.NoSignal("No breakout")
}

// checkExtremes comprueba si la penúltima vela es el mínimo o el máximo
// respecto a las 4 velas que la preceden.
func checkExtremes(window []domain.Candle) (isLowExtreme, isHighExtreme bool) {
	if len(window) < extremeLookback+2 {
		return false, false
	}

	prev := window[len(window)-2]
	before := window[len(window)-2-extremeLookback : len(window)-2]

	minLow := before[0].Low
	maxHigh := before[0].High
	for _, c := range before[1:] {
		if c.Low < minLow {
			minLow = c.Low
		}
		if c.High > maxHigh {
			maxHigh = c.High
		}
	}

	return prev.Low < minLow, prev.High > maxHigh
}
