package strategy

import (
	"sort"

	"github.com/alejandrodnm/qbot/internal/domain"
)

// Strategy define el contrato de un detector de patrones de velas. Cada
// estrategia es una función pura de la ventana: sin estado entre llamadas,
// sin efectos secundarios, testeable con una ventana fija.
type Strategy interface {
	// Name devuelve el identificador único de la estrategia.
	Name() string

	// MinCandles devuelve la longitud mínima de ventana que la estrategia
	// necesita para emitir una señal válida.
	MinCandles() int

	// Evaluate analiza la ventana (vela más reciente al final) y devuelve
	// una señal direccional o la señal neutra con su motivo.
	Evaluate(window []domain.Candle) domain.Signal
}

// Registry mantiene las estrategias disponibles indexadas por nombre.
type Registry map[string]Strategy

// NewRegistry crea un registry vacío.
func NewRegistry() Registry {
	return make(Registry)
}

// Register añade una estrategia al registry.
func (r Registry) Register(s Strategy) {
	r[s.Name()] = s
}

// Get devuelve la estrategia por nombre.
func (r Registry) Get(name string) (Strategy, bool) {
	s, ok := r[name]
	return s, ok
}

// Names devuelve los nombres registrados en orden alfabético.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
