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

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo lectura del historial de movimientos (stock_moves) sobre PostgreSQL.
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador del ledger. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

type movementRecord struct {
	ID             int64           `db:"id"`
	ProductID      int64           `db:"product_id"`
	LocationID     int64           `db:"location_id"`
	LocationDestID int64           `db:"location_dest_id"`
	Quantity       decimal.Decimal `db:"quantity"`
	PriceUnit      decimal.Decimal `db:"price_unit"`
	Date           time.Time       `db:"date"`
	State          string          `db:"state"`
	LotName        string          `db:"lot_name"`
	OperationType  string          `db:"picking_type_code"`
	Reference      string          `db:"reference"`
}

// BuildLedgerQuery arma el SELECT del ledger para el criterio dado.
func BuildLedgerQuery(lq repository.LedgerQuery) (string, []any, error) {
	b := psql.Select(
		"id", "product_id", "location_id", "location_dest_id", "quantity",
		"COALESCE(price_unit, 0) AS price_unit", "date", "state",
		"COALESCE(lot_name, '') AS lot_name",
		"COALESCE(picking_type_code, '') AS picking_type_code",
		"COALESCE(reference, '') AS reference",
	).
		From("stock_moves").
		Where(squirrel.Eq{"state": string(entity.MovementStateConfirmed)})

	if lq.From != nil {
		b = b.Where(squirrel.GtOrEq{"date": *lq.From})
	}
	if lq.To != nil {
		b = b.Where(squirrel.LtOrEq{"date": *lq.To})
	}
	if lq.After != nil {
		b = b.Where(squirrel.Gt{"date": *lq.After})
	}
	if id := lq.Filters.ProductID; id != nil {
		b = b.Where(squirrel.Eq{"product_id": *id})
	}
	if id := lq.Filters.LocationID; id != nil {
		b = b.Where(squirrel.Or{
			squirrel.Eq{"location_id": *id},
			squirrel.Eq{"location_dest_id": *id},
		})
	}
	if lot := lq.Filters.LotTag; lot != nil {
		b = b.Where(squirrel.Eq{"lot_name": *lot})
	}
	return b.OrderBy("date ASC", "id ASC").ToSql()
}

// Query devuelve los movimientos confirmados que cumplen el criterio, ordenados por fecha.
func (r *LedgerRepo) Query(ctx context.Context, lq repository.LedgerQuery) ([]entity.Movement, error) {
	sql, args, err := BuildLedgerQuery(lq)
	if err != nil {
		return nil, fmt.Errorf("build ledger query: %w", err)
	}
	var records []movementRecord
	if err := pgxscan.Select(ctx, r.q, &records, sql, args...); err != nil {
		return nil, fmt.Errorf("query ledger: %w", err)
	}
	out := make([]entity.Movement, 0, len(records))
	for _, rec := range records {
		out = append(out, entity.Movement{
			ID:               rec.ID,
			ProductID:        rec.ProductID,
			SourceLocationID: rec.LocationID,
			DestLocationID:   rec.LocationDestID,
			Quantity:         rec.Quantity,
			UnitCost:         rec.PriceUnit,
			Date:             rec.Date,
			State:            entity.MovementState(rec.State),
			LotTag:           rec.LotName,
			OperationType:    rec.OperationType,
			Reference:        rec.Reference,
		})
	}
	return out, nil
}
