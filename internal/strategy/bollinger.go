package strategy

// bollinger.go — ruptura de bandas de Bollinger. Detecta tanto la ruptura
// clásica (abre dentro, cierra fuera) como la agresiva (cierre pegado a la
// banda con la mecha ya fuera), que anticipa la ruptura completa.

import (
	"fmt"
	"math"

	"github.com/alejandrodnm/qbot/internal/domain"
)

const bollingerName = "bollinger"

// Margen relativo para la detección agresiva: cierre a menos de 0.05% de la banda.
const aggressiveBandMargin = 0.0005

// Bollinger implementa Strategy parametrizada por periodo y desviación.
type Bollinger struct {
	period    int
	deviation float64
}

// BollingerConfig configura las bandas.
type BollingerConfig struct {
	Period    int     // 0 usa 14
	Deviation float64 // 0 usa 1.0
}

// NewBollinger crea la estrategia con la configuración dada.
func NewBollinger(cfg BollingerConfig) *Bollinger {
	if cfg.Period <= 0 {
		cfg.Period = 14
	}
	if cfg.Deviation <= 0 {
		cfg.Deviation = 1.0
	}
	return &Bollinger{period: cfg.Period, deviation: cfg.Deviation}
}

// Name implementa Strategy.
func (b *Bollinger) Name() string { return bollingerName }

// MinCandles implementa Strategy. Periodo completo más la vela actual.
func (b *Bollinger) MinCandles() int { return b.period + 1 }

// Period devuelve el periodo configurado.
func (b *Bollinger) Period() int { return b.period }

// Deviation devuelve el multiplicador de desviación configurado.
func (b *Bollinger) Deviation() float64 { return b.deviation }

// Evaluate implementa Strategy.
func (b *Bollinger) Evaluate(window []domain.Candle) domain.Signal {
	if len(window) < b.period+1 {
		return domain.NoSignal(fmt.Sprintf("Not enough candles: need %d, got %d", b.period+1, len(window)))
	}

	upper, middle, lower := bollingerBands(window, b.period, b.deviation)
	if len(upper) < 2 {
		return domain.NoSignal("Failed to calculate Bollinger Bands")
	}

	curr := window[len(window)-1]
	bbUpper := upper[len(upper)-1]
	bbMiddle := middle[len(middle)-1]
	bbLower := lower[len(lower)-1]

	if bbUpper == 0 || bbLower == 0 {
		return domain.NoSignal("Invalid Bollinger Band values")
	}

	// CALL: ruptura clásica (abre bajo la banda superior, cierra encima) o
	// vela alcista fuerte cuyo high ya rompió la banda con el cierre pegado.
	classicCall := curr.Open < bbUpper && curr.Close > bbUpper
	aggressiveCall := curr.IsBullish() &&
		curr.Close >= bbUpper*(1-aggressiveBandMargin) &&
		curr.High > bbUpper

	if classicCall || aggressiveCall {
		mode := "Classic"
		if !classicCall {
			mode = "Aggressive"
		}
		strength := 0.0
		if curr.Close > bbUpper {
			strength = (curr.Close - bbUpper) / bbUpper * 100
		}
		return domain.Signal{
			Direction:   domain.DirectionCall,
			ShouldTrade: true,
			Reason: fmt.Sprintf("CALL (%s): Bollinger upside breakout | Close=%.5f BB_Upper=%.5f | Strength: %.3f%%",
				mode, curr.Close, bbUpper, strength),
		}
	}

	// PUT: espejo sobre la banda inferior.
	classicPut := curr.Open > bbLower && curr.Close < bbLower
	aggressivePut := curr.IsBearish() &&
		curr.Close <= bbLower*(1+aggressiveBandMargin) &&
		curr.Low < bbLower

	if classicPut || aggressivePut {
		mode := "Classic"
		if !classicPut {
			mode = "Aggressive"
		}
		strength := 0.0
		if curr.Close < bbLower {
			strength = (bbLower - curr.Close) / bbLower * 100
		}
		return domain.Signal{
			Direction:   domain.DirectionPut,
			ShouldTrade: true,
			Reason: fmt.Sprintf("PUT (%s): Bollinger downside breakout | Close=%.5f BB_Lower=%.5f | Strength: %.3f%%",
				mode, curr.Close, bbLower, strength),
		}
	}

	var position string
	switch {
	case curr.Close > bbUpper:
		position = "above upper band (no breakout)"
	case curr.Close < bbLower:
		position = "below lower band (no breakout)"
	case curr.Close > bbMiddle:
		position = "between middle and upper band"
	default:
		position = "between lower and middle band"
	}
	return domain.NoSignal(fmt.Sprintf("No breakout detected | Close=%.5f BB Range=[%.5f, %.5f, %.5f] | Position: %s",
		curr.Close, bbLower, bbMiddle, bbUpper, position))
}

// bollingerBands calcula las tres bandas sobre los cierres de la ventana.
// Los índices anteriores a period-1 quedan a 0 (sin datos suficientes).
func bollingerBands(window []domain.Candle, period int, deviation float64) (upper, middle, lower []float64) {
	if len(window) < period {
		return nil, nil, nil
	}

	closes := make([]float64, len(window))
	for i, c := range window {
		closes[i] = c.Close
	}

	upper = make([]float64, len(closes))
	middle = make([]float64, len(closes))
	lower = make([]float64, len(closes))

	for i := period - 1; i < len(closes); i++ {
		sample := closes[i-period+1 : i+1]

		var sum float64
		for _, v := range sample {
			sum += v
		}
		sma := sum / float64(period)

		var variance float64
		for _, v := range sample {
			variance += (v - sma) * (v - sma)
		}
		stdDev := math.Sqrt(variance / float64(period))

		upper[i] = sma + deviation*stdDev
		middle[i] = sma
		lower[i] = sma - deviation*stdDev
	}

	return upper, middle, lower
}
