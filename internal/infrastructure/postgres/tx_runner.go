package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/inventario-historico/internal/application/report"
	"github.com/jhoicas/inventario-historico/internal/domain/repository"
)

var (
	_ report.TxRunner       = (*TxRunner)(nil)
	_ report.SnapshotReader = (*TxRunner)(nil)
)

// snapshotTxOptions todas las lecturas de una reconstrucción ven la misma foto (REPEATABLE READ).
var snapshotTxOptions = pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con el sink del reporte atado a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(sink repository.ReportSink) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewReportRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Read abre una transacción de solo lectura REPEATABLE READ y pasa a fn ledger, catálogos
// y foto base atados a ella. Un movimiento confirmado a mitad de la lectura no se ve.
func (r *TxRunner) Read(ctx context.Context, fn func(src report.Sources) error) error {
	tx, err := r.pool.BeginTx(ctx, snapshotTxOptions)
	if err != nil {
		return fmt.Errorf("begin snapshot: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(report.Sources{
		Ledger:    NewLedgerRepository(tx),
		Locations: NewLocationRepository(tx),
		Products:  NewProductRepository(tx),
		Baseline:  NewBaselineRepository(tx),
	}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}
