package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-historico/internal/domain/entity"
)

// LedgerQuery criterio de lectura del ledger. Siempre se limita a movimientos confirmados.
// From y To son inclusivos; After es exclusivo (fecha > After).
type LedgerQuery struct {
	From    *time.Time
	To      *time.Time
	After   *time.Time
	Filters entity.Filters
}

// LedgerRepository define el puerto de lectura del historial de movimientos (solo lectura).
// El filtro de ubicación coincide con el origen o el destino. Resultado ordenado por fecha ascendente.
type LedgerRepository interface {
	Query(ctx context.Context, q LedgerQuery) ([]entity.Movement, error)
}
