package domain

import "time"

// BacktestResult es el artefacto terminal de un run: la lista de trades, la
// curva de equity y las métricas agregadas. Inmutable; lo consumen los
// adaptadores de reporting y persistencia.
type BacktestResult struct {
	Strategy       string
	TotalTrades    int
	Wins           int
	Losses         int
	WinRate        float64 // porcentaje 0-100
	TotalProfit    float64 // último valor de la curva de equity
	AvgWin         float64
	AvgLoss        float64
	ProfitFactor   float64 // +Inf si no hubo pérdidas y sí trades
	MaxDrawdown    float64
	MaxDrawdownPct float64
	ExpectedValue  float64 // profit medio por trade
	Trades         []Trade
	EquityCurve    []float64 // len(Trades)+1 valores, empieza en 0

	// Martingale está presente solo en resultados del overlay de martingala.
	Martingale *MartingaleStats
}

// MartingaleStats desglosa wins/losses entre trades a stake base y trades
// escalados, más la tasa de recuperación de los escalados.
type MartingaleStats struct {
	BaseWins         int
	BaseLosses       int
	MartingaleWins   int
	MartingaleLosses int
	RecoveryRate     float64 // 100 × martWins / (martWins + martLosses)
}

// RunRecord es el resumen persistido de un run, tal y como lo devuelve el
// ResultStore al listar el histórico.
type RunRecord struct {
	ID          string // uuid asignado al persistir
	CreatedAt   time.Time
	Strategy    string
	Martingale  bool
	TotalTrades int
	WinRate     float64
	TotalProfit float64
	MaxDrawdown float64
}
