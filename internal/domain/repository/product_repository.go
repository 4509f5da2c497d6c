package repository

import (
	"context"

	"github.com/jhoicas/inventario-historico/internal/domain/entity"
)

// ProductRepository define el puerto del catálogo de productos (nombre y costo estándar).
type ProductRepository interface {
	List(ctx context.Context) ([]entity.Product, error)
}
