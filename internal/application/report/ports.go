package report

import (
	"context"

	"github.com/jhoicas/inventario-historico/internal/domain/entity"
	"github.com/jhoicas/inventario-historico/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando el sink atado a esa tx.
// Garantiza que el borrado y la inserción del reporte se confirmen juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(sink repository.ReportSink) error) error
}

// RunLocker serializa las ejecuciones de generación (un solo escritor a la vez).
type RunLocker interface {
	Acquire(ctx context.Context) (release func(), err error)
}

// Document contenido a exportar: metadatos de la ejecución, filas y totales.
type Document struct {
	Run     *entity.ReportRun
	Rows    []entity.ReportRow
	Summary Summary
}

// Exporter genera el archivo de exportación del reporte.
type Exporter interface {
	Format() string
	ContentType() string
	Export(ctx context.Context, doc Document) ([]byte, error)
}

// Sources lectores usados por una reconstrucción. Baseline es nil si no hay foto base.
type Sources struct {
	Ledger    repository.LedgerRepository
	Locations repository.LocationRepository
	Products  repository.ProductRepository
	Baseline  repository.BaselineRepository
}

// SnapshotReader ejecuta fn con lectores que ven una misma foto de los datos:
// la foto base y el ledger leídos dentro de fn son consistentes entre sí.
type SnapshotReader interface {
	Read(ctx context.Context, fn func(src Sources) error) error
}

// directSources lectura sin aislamiento, para adaptadores que ya son consistentes (memoria).
type directSources Sources

func (d directSources) Read(_ context.Context, fn func(src Sources) error) error {
	return fn(Sources(d))
}
