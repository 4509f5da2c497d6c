package repository

import (
	"context"

	"github.com/jhoicas/inventario-historico/internal/domain/entity"
)

// LocationRepository define el puerto del catálogo de ubicaciones (clasificador de uso).
type LocationRepository interface {
	List(ctx context.Context) ([]entity.Location, error)
}
