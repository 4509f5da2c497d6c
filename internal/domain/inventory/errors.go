package inventory

import (
	"fmt"

	"github.com/jhoicas/inventario-historico/internal/domain"
)

// Motivos de descarte de un movimiento. Envuelven los errores de dominio para errors.Is.
var (
	ErrUnknownProduct  = fmt.Errorf("%w: producto desconocido", domain.ErrNotFound)
	ErrUnknownLocation = fmt.Errorf("%w: ubicación desconocida", domain.ErrNotFound)
	ErrInvalidQuantity = fmt.Errorf("%w: cantidad no positiva", domain.ErrInvalidInput)
	ErrUnknownCosting  = fmt.Errorf("%w: modo de costeo desconocido", domain.ErrInvalidInput)
)
