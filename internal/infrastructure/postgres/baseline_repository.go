package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-historico/internal/domain/entity"
	"github.com/jhoicas/inventario-historico/internal/domain/repository"
)

var _ repository.BaselineRepository = (*BaselineRepo)(nil)

// BaselineRepo foto actual de stock (stock_quants).
type BaselineRepo struct {
	q Querier
}

// NewBaselineRepository construye el adaptador de la foto base.
func NewBaselineRepository(q Querier) *BaselineRepo {
	return &BaselineRepo{q: q}
}

type quantRecord struct {
	ProductID  int64           `db:"product_id"`
	LocationID int64           `db:"location_id"`
	Quantity   decimal.Decimal `db:"quantity"`
	UpdatedAt  time.Time       `db:"updated_at"`
}

// BuildBaselineQuery arma el SELECT de la foto base. Solo aplica el filtro de producto.
func BuildBaselineQuery(f entity.Filters) (string, []any, error) {
	b := psql.Select("product_id", "location_id", "quantity", "updated_at").
		From("stock_quants").
		Where(squirrel.NotEq{"quantity": 0})
	if f.ProductID != nil {
		b = b.Where(squirrel.Eq{"product_id": *f.ProductID})
	}
	return b.OrderBy("product_id", "location_id").ToSql()
}

// Current devuelve las cantidades actuales no nulas.
func (r *BaselineRepo) Current(ctx context.Context, f entity.Filters) ([]entity.Quant, error) {
	sql, args, err := BuildBaselineQuery(f)
	if err != nil {
		return nil, fmt.Errorf("build baseline query: %w", err)
	}
	var records []quantRecord
	if err := pgxscan.Select(ctx, r.q, &records, sql, args...); err != nil {
		return nil, fmt.Errorf("query baseline: %w", err)
	}
	out := make([]entity.Quant, 0, len(records))
	for _, rec := range records {
		out = append(out, entity.Quant{
			ProductID:  rec.ProductID,
			LocationID: rec.LocationID,
			Quantity:   rec.Quantity,
			UpdatedAt:  rec.UpdatedAt,
		})
	}
	return out, nil
}
