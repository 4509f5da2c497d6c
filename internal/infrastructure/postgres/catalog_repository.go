package postgres

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-historico/internal/domain/entity"
	"github.com/jhoicas/inventario-historico/internal/domain/repository"
)

var (
	_ repository.LocationRepository = (*LocationRepo)(nil)
	_ repository.ProductRepository  = (*ProductRepo)(nil)
)

// LocationRepo catálogo de ubicaciones (stock_locations).
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador de ubicaciones.
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

type locationRecord struct {
	ID    int64  `db:"id"`
	Name  string `db:"name"`
	Usage string `db:"usage"`
}

// List devuelve todas las ubicaciones con su uso.
func (r *LocationRepo) List(ctx context.Context) ([]entity.Location, error) {
	var records []locationRecord
	err := pgxscan.Select(ctx, r.q, &records, `SELECT id, name, usage FROM stock_locations ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	out := make([]entity.Location, 0, len(records))
	for _, rec := range records {
		out = append(out, entity.Location{ID: rec.ID, Name: rec.Name, Usage: entity.LocationUsage(rec.Usage)})
	}
	return out, nil
}

// ProductRepo catálogo de productos (products).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de productos.
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

type productRecord struct {
	ID            int64           `db:"id"`
	Name          string          `db:"name"`
	StandardPrice decimal.Decimal `db:"standard_price"`
}

// List devuelve todos los productos con su costo estándar.
func (r *ProductRepo) List(ctx context.Context) ([]entity.Product, error) {
	var records []productRecord
	err := pgxscan.Select(ctx, r.q, &records,
		`SELECT id, name, COALESCE(standard_price, 0) AS standard_price FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	out := make([]entity.Product, 0, len(records))
	for _, rec := range records {
		out = append(out, entity.Product{ID: rec.ID, Name: rec.Name, StandardCost: rec.StandardPrice})
	}
	return out, nil
}
