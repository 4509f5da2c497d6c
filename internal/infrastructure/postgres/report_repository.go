package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-historico/internal/domain/entity"
	"github.com/jhoicas/inventario-historico/internal/domain/repository"
)

var (
	_ repository.ReportSink   = (*ReportRepo)(nil)
	_ repository.ReportReader = (*ReportRepo)(nil)
)

const (
	reportTable    = "stock_inventory_report"
	reportRunTable = "stock_inventory_report_run"
)

var reportColumns = []string{
	"product_id", "product_name", "location_id", "location_name",
	"quantity", "unit_value", "total_value",
	"lot_name", "last_movement_date", "last_movement_kind",
}

// ReportRepo tabla materializada del inventario a fecha. Pasar pool (lectura) o tx (reemplazo).
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador del reporte.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

type reportRecord struct {
	ProductID        int64           `db:"product_id"`
	ProductName      string          `db:"product_name"`
	LocationID       int64           `db:"location_id"`
	LocationName     string          `db:"location_name"`
	Quantity         decimal.Decimal `db:"quantity"`
	UnitValue        decimal.Decimal `db:"unit_value"`
	TotalValue       decimal.Decimal `db:"total_value"`
	LotName          *string         `db:"lot_name"`
	LastMovementDate *time.Time      `db:"last_movement_date"`
	LastMovementKind *string         `db:"last_movement_kind"`
}

func (rec reportRecord) toEntity() entity.ReportRow {
	row := entity.ReportRow{
		ProductID:      rec.ProductID,
		ProductName:    rec.ProductName,
		LocationID:     rec.LocationID,
		LocationName:   rec.LocationName,
		Quantity:       rec.Quantity,
		UnitValue:      rec.UnitValue,
		TotalValue:     rec.TotalValue,
		LastMovementAt: rec.LastMovementDate,
	}
	if rec.LotName != nil {
		row.LotTag = *rec.LotName
	}
	if rec.LastMovementKind != nil {
		row.LastMovementKind = entity.MovementKind(*rec.LastMovementKind)
	}
	return row
}

// Clear elimina todas las filas del reporte anterior.
func (r *ReportRepo) Clear(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM `+reportTable); err != nil {
		return fmt.Errorf("clear report: %w", err)
	}
	return nil
}

// BulkInsert inserta las filas con COPY.
func (r *ReportRepo) BulkInsert(ctx context.Context, rows []entity.ReportRow) error {
	if len(rows) == 0 {
		return nil
	}
	_, err := r.q.CopyFrom(ctx, pgx.Identifier{reportTable}, reportColumns,
		pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
			row := rows[i]
			return []any{
				row.ProductID, row.ProductName, row.LocationID, row.LocationName,
				row.Quantity, row.UnitValue, row.TotalValue,
				nullString(row.LotTag), row.LastMovementAt, nullString(string(row.LastMovementKind)),
			}, nil
		}))
	if err != nil {
		return fmt.Errorf("copy report rows: %w", err)
	}
	return nil
}

// SaveRun guarda los metadatos de la ejecución (una sola fila, se sobrescribe).
func (r *ReportRepo) SaveRun(ctx context.Context, run entity.ReportRun) error {
	query := `
		INSERT INTO ` + reportRunTable + ` (id, run_id, generated_at, date_from, date_to, time_zone,
			product_id, location_id, lot_name, strategy, costing, row_count, skipped)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			run_id = EXCLUDED.run_id, generated_at = EXCLUDED.generated_at,
			date_from = EXCLUDED.date_from, date_to = EXCLUDED.date_to, time_zone = EXCLUDED.time_zone,
			product_id = EXCLUDED.product_id, location_id = EXCLUDED.location_id, lot_name = EXCLUDED.lot_name,
			strategy = EXCLUDED.strategy, costing = EXCLUDED.costing,
			row_count = EXCLUDED.row_count, skipped = EXCLUDED.skipped`
	_, err := r.q.Exec(ctx, query,
		run.ID, run.GeneratedAt, run.Cutoff.From, run.Cutoff.To, run.Cutoff.To.Location().String(),
		run.Filters.ProductID, run.Filters.LocationID, run.Filters.LotTag,
		run.Strategy, run.Costing, run.RowCount, run.Skipped,
	)
	if err != nil {
		return fmt.Errorf("save report run: %w", err)
	}
	return nil
}

// List devuelve una página de filas ordenadas por (producto, ubicación).
func (r *ReportRepo) List(ctx context.Context, limit, offset int) ([]entity.ReportRow, error) {
	sql, args, err := psql.Select(reportColumns...).
		From(reportTable).
		OrderBy("product_id", "location_id").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build report page: %w", err)
	}
	return r.selectRows(ctx, sql, args...)
}

// All devuelve todas las filas (exportación).
func (r *ReportRepo) All(ctx context.Context) ([]entity.ReportRow, error) {
	sql, args, err := psql.Select(reportColumns...).From(reportTable).OrderBy("product_id", "location_id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build report select: %w", err)
	}
	return r.selectRows(ctx, sql, args...)
}

func (r *ReportRepo) selectRows(ctx context.Context, sql string, args ...any) ([]entity.ReportRow, error) {
	var records []reportRecord
	if err := pgxscan.Select(ctx, r.q, &records, sql, args...); err != nil {
		return nil, fmt.Errorf("select report rows: %w", err)
	}
	out := make([]entity.ReportRow, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.toEntity())
	}
	return out, nil
}

// Count total de filas materializadas.
func (r *ReportRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM `+reportTable).Scan(&n); err != nil {
		return 0, fmt.Errorf("count report: %w", err)
	}
	return n, nil
}

type runRecord struct {
	RunID       string     `db:"run_id"`
	GeneratedAt time.Time  `db:"generated_at"`
	DateFrom    *time.Time `db:"date_from"`
	DateTo      time.Time  `db:"date_to"`
	TimeZone    string     `db:"time_zone"`
	ProductID   *int64     `db:"product_id"`
	LocationID  *int64     `db:"location_id"`
	LotName     *string    `db:"lot_name"`
	Strategy    string     `db:"strategy"`
	Costing     string     `db:"costing"`
	RowCount    int        `db:"row_count"`
	Skipped     int        `db:"skipped"`
}

// toEntity devuelve las fechas en la zona con la que se generó el corte: pgx escanea
// timestamptz en time.Local y el día de corte se desplazaría al oeste de UTC.
func (rec runRecord) toEntity() entity.ReportRun {
	loc, err := time.LoadLocation(rec.TimeZone)
	if err != nil {
		loc = time.UTC
	}
	run := entity.ReportRun{
		ID:          rec.RunID,
		GeneratedAt: rec.GeneratedAt.In(loc),
		Cutoff:      entity.Cutoff{To: rec.DateTo.In(loc)},
		Filters:     entity.Filters{ProductID: rec.ProductID, LocationID: rec.LocationID, LotTag: rec.LotName},
		Strategy:    rec.Strategy,
		Costing:     rec.Costing,
		RowCount:    rec.RowCount,
		Skipped:     rec.Skipped,
	}
	if rec.DateFrom != nil {
		from := rec.DateFrom.In(loc)
		run.Cutoff.From = &from
	}
	return run
}

// LastRun metadatos de la ejecución vigente; nil si nunca se generó.
func (r *ReportRepo) LastRun(ctx context.Context) (*entity.ReportRun, error) {
	var rec runRecord
	err := pgxscan.Get(ctx, r.q, &rec, `
		SELECT run_id, generated_at, date_from, date_to, time_zone, product_id, location_id,
			lot_name, strategy, costing, row_count, skipped
		FROM `+reportRunTable+` WHERE id = 1`)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get report run: %w", err)
	}
	run := rec.toEntity()
	return &run, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
