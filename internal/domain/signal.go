package domain

import "strings"

// Direction es la dirección de una apuesta binaria: el precio estará por
// encima (call) o por debajo (put) del precio de entrada al expirar.
type Direction string

const (
	DirectionCall Direction = "call"
	DirectionPut  Direction = "put"
	DirectionNone Direction = ""
)

// Matches compara direcciones sin distinguir mayúsculas. Las estrategias
// históricas emitían "CALL"/"PUT" y el overlay de martingala las compara
// contra las constantes canónicas en minúscula.
func (d Direction) Matches(other Direction) bool {
	return d != DirectionNone && strings.EqualFold(string(d), string(other))
}

// Signal es el resultado de evaluar una ventana de velas: dirección,
// flag de operar y una explicación legible. Efímero — se produce y
// consume dentro de un mismo paso de evaluación.
type Signal struct {
	Direction   Direction
	ShouldTrade bool
	Reason      string
}

// NoSignal construye la señal neutra con el motivo dado.
func NoSignal(reason string) Signal {
	return Signal{Direction: DirectionNone, ShouldTrade: false, Reason: reason}
}
