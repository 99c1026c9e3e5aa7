package backtest

import (
	"errors"
	"fmt"

	"github.com/alejandrodnm/qbot/internal/domain"
	"github.com/alejandrodnm/qbot/internal/strategy"
)

// ErrUnknownStrategy indica un nombre de estrategia no registrado. Es un
// error de configuración del caller, no una condición de datos: se propaga
// en vez de tratarse como "sin señal".
var ErrUnknownStrategy = errors.New("unknown strategy")

// Evaluator despacha ventanas de velas a la estrategia nombrada. No contiene
// lógica de detección de patrones: valida la longitud mínima de la ventana y
// delega en el plug-in, propagando su reason sin modificar.
type Evaluator struct {
	registry strategy.Registry
}

// NewEvaluator crea un Evaluator sobre el registry dado.
func NewEvaluator(registry strategy.Registry) *Evaluator {
	return &Evaluator{registry: registry}
}

// Evaluate evalúa la ventana con la estrategia nombrada. Una ventana más
// corta que el mínimo de la estrategia devuelve la señal neutra con su
// motivo — nunca un error. Solo un nombre desconocido produce error.
func (e *Evaluator) Evaluate(name string, window []domain.Candle) (domain.Signal, error) {
	s, ok := e.registry.Get(name)
	if !ok {
		return domain.Signal{}, fmt.Errorf("backtest.Evaluate: %w: %q", ErrUnknownStrategy, name)
	}

	if len(window) < s.MinCandles() {
		return domain.NoSignal(fmt.Sprintf("window too short: need %d candles, got %d",
			s.MinCandles(), len(window))), nil
	}

	return s.Evaluate(window), nil
}

// MinWindow devuelve la longitud mínima de ventana de la estrategia nombrada.
func (e *Evaluator) MinWindow(name string) (int, error) {
	s, ok := e.registry.Get(name)
	if !ok {
		return 0, fmt.Errorf("backtest.MinWindow: %w: %q", ErrUnknownStrategy, name)
	}
	return s.MinCandles(), nil
}
