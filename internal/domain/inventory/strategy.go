package inventory

import (
	"time"

	"github.com/jhoicas/inventario-historico/internal/domain"
	"github.com/jhoicas/inventario-historico/internal/domain/entity"
)

// Strategy estrategia de reconstrucción.
type Strategy string

const (
	// StrategyForward reproduce toda la historia hasta el corte.
	StrategyForward Strategy = "forward"
	// StrategyBackward parte de la foto actual y deshace lo posterior al corte.
	StrategyBackward Strategy = "backward"
	// StrategyAuto delega en ChooseStrategy; nunca llega al motor.
	StrategyAuto Strategy = "auto"
)

// ParseStrategy interpreta la estrategia; vacío equivale a StrategyAuto.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case "", StrategyAuto:
		return StrategyAuto, nil
	case StrategyForward:
		return StrategyForward, nil
	case StrategyBackward:
		return StrategyBackward, nil
	default:
		return "", domain.ErrUnknownStrategy
	}
}

// ChooseStrategy elige hacia atrás cuando el corte es a fecha única y está dentro de la
// ventana reciente respecto de now (un corte futuro cuenta como reciente); en otro caso hacia adelante.
func ChooseStrategy(c entity.Cutoff, now time.Time, recentWindow time.Duration) Strategy {
	if c.IsRange() || recentWindow <= 0 {
		return StrategyForward
	}
	if now.Sub(c.To) <= recentWindow {
		return StrategyBackward
	}
	return StrategyForward
}

// EmptyResult resultado sin saldos, usado para rangos invertidos.
func EmptyResult(s Strategy) *Result {
	return newResult(s)
}
