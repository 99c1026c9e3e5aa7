package domain

import "time"

// Trade es una apuesta binaria simulada. Inmutable una vez creada; el runner
// las acumula en orden cronológico (orden de evaluación).
type Trade struct {
	EntryIndex   int // índice de la barra de entrada en la serie
	EntryTime    time.Time
	Direction    Direction
	EntryPrice   float64 // close de la barra de entrada
	ExitPrice    float64 // close de la barra de expiración
	Stake        float64
	Won          bool
	PnL          float64 // +stake×payout en win, -stake en loss
	Equity       float64 // equity acumulado tras este trade
	IsMartingale bool    // true si el stake fue escalado por el overlay
	Reason       string  // explicación de la señal que originó el trade
}
