package repository

import (
	"context"

	"github.com/jhoicas/inventario-historico/internal/domain/entity"
)

// ReportSink define el puerto de escritura de la tabla materializada (reemplazo total).
// Se usa dentro de una transacción: Clear + BulkInsert + SaveRun se confirman juntos o no se confirman.
type ReportSink interface {
	Clear(ctx context.Context) error
	BulkInsert(ctx context.Context, rows []entity.ReportRow) error
	SaveRun(ctx context.Context, run entity.ReportRun) error
}

// ReportReader define el puerto de lectura de la tabla materializada (grilla y exportación).
type ReportReader interface {
	List(ctx context.Context, limit, offset int) ([]entity.ReportRow, error)
	All(ctx context.Context) ([]entity.ReportRow, error)
	Count(ctx context.Context) (int, error)
	LastRun(ctx context.Context) (*entity.ReportRun, error)
}
