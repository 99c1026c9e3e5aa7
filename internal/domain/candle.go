package domain

import (
	"fmt"
	"time"
)

// ohlcTolerance absorbe ruido de redondeo en datos históricos de 5 decimales.
const ohlcTolerance = 1e-9

// Candle es una barra OHLC de duración fija. Inmutable durante un backtest.
type Candle struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

// IsBullish devuelve true si la vela cerró por encima de su apertura.
func (c Candle) IsBullish() bool {
	return c.Close > c.Open
}

// IsBearish devuelve true si la vela cerró por debajo de su apertura.
func (c Candle) IsBearish() bool {
	return c.Close < c.Open
}

// Body devuelve el tamaño absoluto del cuerpo de la vela.
func (c Candle) Body() float64 {
	if c.Close > c.Open {
		return c.Close - c.Open
	}
	return c.Open - c.Close
}

// Range devuelve el rango total high-low de la vela.
func (c Candle) Range() float64 {
	return c.High - c.Low
}

// Validate comprueba las invariantes OHLC básicas: precios finitos positivos,
// high >= max(open, close) y low <= min(open, close) dentro de tolerancia.
// La validación ocurre una sola vez en la carga de datos, no en cada consumo.
func (c Candle) Validate() error {
	for _, p := range []float64{c.Open, c.High, c.Low, c.Close} {
		if p <= 0 || p != p {
			return fmt.Errorf("candle %s: non-positive or NaN price", c.Timestamp.Format(time.RFC3339))
		}
	}
	upper := c.Open
	if c.Close > upper {
		upper = c.Close
	}
	lower := c.Open
	if c.Close < lower {
		lower = c.Close
	}
	if c.High < upper-ohlcTolerance {
		return fmt.Errorf("candle %s: high %.6f below body %.6f", c.Timestamp.Format(time.RFC3339), c.High, upper)
	}
	if c.Low > lower+ohlcTolerance {
		return fmt.Errorf("candle %s: low %.6f above body %.6f", c.Timestamp.Format(time.RFC3339), c.Low, lower)
	}
	return nil
}

// Series es la serie histórica de velas, ordenada por timestamp ascendente.
// Es de solo lectura: varios backtests pueden compartirla sin locking.
type Series struct {
	candles []Candle
}

// NewSeries construye una Series validando cada vela y el orden temporal.
// Rechaza series con timestamps duplicados o descendentes — el core asume
// que la capa de carga entrega datos ya saneados.
func NewSeries(candles []Candle) (*Series, error) {
	for i, c := range candles {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("domain.NewSeries: candle %d: %w", i, err)
		}
		if i > 0 && !c.Timestamp.After(candles[i-1].Timestamp) {
			return nil, fmt.Errorf("domain.NewSeries: candle %d: timestamp %s not after previous",
				i, c.Timestamp.Format(time.RFC3339))
		}
	}
	return &Series{candles: candles}, nil
}

// Len devuelve el número de velas de la serie.
func (s *Series) Len() int {
	return len(s.candles)
}

// At devuelve la vela en el índice dado. Panics fuera de rango, igual que un slice.
func (s *Series) At(i int) Candle {
	return s.candles[i]
}

// Window devuelve hasta lookback+1 velas terminando en center (inclusive),
// recortado al inicio de la serie. Nunca rellena con velas sintéticas: si hay
// menos datos devuelve menos velas y el caller comprueba la longitud.
// El slice devuelto es una vista sobre la serie, no una copia.
func (s *Series) Window(center, lookback int) []Candle {
	if center < 0 || center >= len(s.candles) || lookback < 0 {
		return nil
	}
	start := center - lookback
	if start < 0 {
		start = 0
	}
	return s.candles[start : center+1]
}
