package repository

import (
	"context"

	"github.com/jhoicas/inventario-historico/internal/domain/entity"
)

// BaselineRepository define el puerto de la foto actual de stock (opcional).
// Aplica solo el filtro de producto: el filtro de ubicación se resuelve al conformar filas.
type BaselineRepository interface {
	Current(ctx context.Context, filters entity.Filters) ([]entity.Quant, error)
}
