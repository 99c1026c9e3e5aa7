package strategy

// trend.go — helpers compartidos entre estrategias: dirección de tendencia
// por cruce de medias móviles y ATR para filtrar periodos de alta volatilidad.

import "github.com/alejandrodnm/qbot/internal/domain"

const (
	trendBullish  = "bullish"
	trendBearish  = "bearish"
	trendSideways = "sideways"

	// Umbral del 0.1% entre medias para filtrar ruido lateral.
	trendThreshold = 0.001

	trendShortPeriod = 5
	trendLongPeriod  = 10
)

// trendDirection clasifica la tendencia con un cruce de medias 5/10.
// Con menos velas que el periodo largo cae a una comparación simple de los
// últimos 3 cierres — las ventanas cortas no dan para más.
func trendDirection(window []domain.Candle) string {
	if len(window) < trendLongPeriod {
		if len(window) < 3 {
			return trendSideways
		}
		first := window[len(window)-3].Close
		last := window[len(window)-1].Close
		switch {
		case last > first*(1+trendThreshold):
			return trendBullish
		case last < first*(1-trendThreshold):
			return trendBearish
		default:
			return trendSideways
		}
	}

	closes := window[len(window)-trendLongPeriod:]
	var sumLong float64
	for _, c := range closes {
		sumLong += c.Close
	}
	var sumShort float64
	for _, c := range closes[len(closes)-trendShortPeriod:] {
		sumShort += c.Close
	}

	maShort := sumShort / float64(trendShortPeriod)
	maLong := sumLong / float64(trendLongPeriod)

	switch {
	case maShort > maLong*(1+trendThreshold):
		return trendBullish
	case maShort < maLong*(1-trendThreshold):
		return trendBearish
	default:
		return trendSideways
	}
}

// atr calcula el Average True Range sobre los últimos period true-ranges.
// Devuelve 0 si no hay velas suficientes; el caller trata 0 como "sin filtro".
func atr(window []domain.Candle, period int) float64 {
	if len(window) < period+1 {
		return 0
	}

	trueRanges := make([]float64, 0, len(window)-1)
	for i := 1; i < len(window); i++ {
		high := window[i].High
		low := window[i].Low
		prevClose := window[i-1].Close

		tr := high - low
		if d := abs(high - prevClose); d > tr {
			tr = d
		}
		if d := abs(low - prevClose); d > tr {
			tr = d
		}
		trueRanges = append(trueRanges, tr)
	}

	var sum float64
	for _, tr := range trueRanges[len(trueRanges)-period:] {
		sum += tr
	}
	return sum / float64(period)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
