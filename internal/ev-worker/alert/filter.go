package alert

import (
	"fmt"

	"github.com/radieske/ev-lab-poc/pkg/contracts/events"
)

// Filter decide quais predições merecem virar alerta/broadcast.
// O corte é por EV mínimo; predições degradadas (EV zero) nunca passam.
type Filter struct {
	MinEV float64
}

// ShouldAlert retorna se a predição passa do corte e o motivo textual
// usado no log e na mensagem de alerta.
func (f Filter) ShouldAlert(pred events.MatchPrediction) (bool, string) {
	if pred.EV <= 0 {
		return false, "ev is zero"
	}
	if pred.EV < f.MinEV {
		return false, fmt.Sprintf("ev %.3f below threshold %.3f", pred.EV, f.MinEV)
	}
	return true, fmt.Sprintf("ev %.3f at or above threshold %.3f", pred.EV, f.MinEV)
}
