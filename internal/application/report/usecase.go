package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/inventario-historico/internal/domain"
	"github.com/jhoicas/inventario-historico/internal/domain/entity"
	"github.com/jhoicas/inventario-historico/internal/domain/inventory"
	"github.com/jhoicas/inventario-historico/internal/domain/repository"
	"github.com/jhoicas/inventario-historico/pkg/logger"
)

var tracer = otel.Tracer("github.com/jhoicas/inventario-historico/internal/application/report")

// Config parámetros del caso de uso.
type Config struct {
	// RecentWindow ventana para elegir la estrategia hacia atrás en modo auto.
	RecentWindow   time.Duration
	DefaultCosting inventory.CostingMode
}

// Deps dependencias del caso de uso. Baseline y Locker son opcionales.
// Snapshot, si se define, reemplaza a Ledger/Locations/Products/Baseline en la lectura
// de cada reconstrucción; sin él se leen directamente.
type Deps struct {
	Ledger    repository.LedgerRepository
	Locations repository.LocationRepository
	Products  repository.ProductRepository
	Baseline  repository.BaselineRepository
	Snapshot  SnapshotReader
	Reader    repository.ReportReader
	TxRunner  TxRunner
	Locker    RunLocker
	Exporters []Exporter
	Log       *logger.Logger
	Config    Config
	Now       func() time.Time
}

// UseCase genera el reporte de inventario a fecha pasada: reconstruye, materializa y exporta.
type UseCase struct {
	snapshot  SnapshotReader
	baseline  bool
	reader    repository.ReportReader
	txRunner  TxRunner
	locker    RunLocker
	exporters map[string]Exporter
	log       *logger.Logger
	cfg       Config
	now       func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(deps Deps) *UseCase {
	uc := &UseCase{
		snapshot:  deps.Snapshot,
		baseline:  deps.Baseline != nil,
		reader:    deps.Reader,
		txRunner:  deps.TxRunner,
		locker:    deps.Locker,
		exporters: make(map[string]Exporter, len(deps.Exporters)),
		log:       deps.Log,
		cfg:       deps.Config,
		now:       deps.Now,
	}
	for _, e := range deps.Exporters {
		uc.exporters[e.Format()] = e
	}
	if uc.snapshot == nil {
		uc.snapshot = directSources{
			Ledger:    deps.Ledger,
			Locations: deps.Locations,
			Products:  deps.Products,
			Baseline:  deps.Baseline,
		}
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	if uc.log == nil {
		uc.log = logger.Nop()
	}
	if uc.cfg.DefaultCosting == "" {
		uc.cfg.DefaultCosting = inventory.CostingInboundOnly
	}
	return uc
}

// Request parámetros de una ejecución. La validación de fechas es responsabilidad del llamador.
type Request struct {
	Cutoff          entity.Cutoff
	Filters         entity.Filters
	Strategy        inventory.Strategy
	Costing         inventory.CostingMode
	IncludeNegative bool
}

// Reconstruction resultado puro de una reconstrucción (sin materializar).
type Reconstruction struct {
	Run     entity.ReportRun
	Rows    []entity.ReportRow
	Skipped []inventory.Skip
}

// catalog catálogos precargados para una ejecución.
type catalog struct {
	usages        inventory.UsageMap
	costs         inventory.CostMap
	productNames  map[int64]string
	locationNames map[int64]string
}

// Reconstruct calcula las filas del reporte sin efectos secundarios (solo lee ledger, catálogos y foto).
func (uc *UseCase) Reconstruct(ctx context.Context, req Request) (rec *Reconstruction, err error) {
	ctx, span := tracer.Start(ctx, "report.Reconstruct", trace.WithAttributes(
		attribute.String("cutoff.to", req.Cutoff.To.Format(time.RFC3339)),
		attribute.String("strategy.requested", string(req.Strategy)),
	))
	defer func() { endSpan(span, err) }()

	strategy, err := uc.resolveStrategy(req)
	if err != nil {
		return nil, err
	}
	costing := req.Costing
	if costing == "" {
		costing = uc.cfg.DefaultCosting
	}
	span.SetAttributes(attribute.String("strategy", string(strategy)), attribute.String("costing", string(costing)))

	opts := inventory.Options{Costing: costing}
	var (
		cat *catalog
		res *inventory.Result
	)
	// catálogos, foto base y ledger salen de la misma foto de datos
	err = uc.snapshot.Read(ctx, func(src Sources) error {
		var err error
		if cat, err = loadCatalog(ctx, src); err != nil {
			return err
		}
		switch {
		case req.Cutoff.IsInverted():
			// rango invertido: no se corrige, simplemente no hay movimientos
			res = inventory.EmptyResult(strategy)
		case strategy == inventory.StrategyForward:
			res, err = forward(ctx, src, req, cat, opts)
		default:
			res, err = backward(ctx, src, req, cat, opts)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows := inventory.Rows(res, inventory.RowOptions{
		IncludeNegative: req.IncludeNegative,
		LocationID:      req.Filters.LocationID,
	})
	for i := range rows {
		rows[i].ProductName = cat.productNames[rows[i].ProductID]
		rows[i].LocationName = cat.locationNames[rows[i].LocationID]
	}

	for _, s := range res.Skipped {
		uc.log.Warn().
			Int64("movement_id", s.MovementID).
			Int64("product_id", s.ProductID).
			Int64("location_id", s.LocationID).
			Err(s.Reason).
			Msg("movimiento descartado en la reconstrucción")
	}

	span.SetAttributes(attribute.Int("rows", len(rows)), attribute.Int("skipped", len(res.Skipped)))
	return &Reconstruction{
		Run: entity.ReportRun{
			ID:          uuid.New().String(),
			GeneratedAt: uc.now(),
			Cutoff:      req.Cutoff,
			Filters:     req.Filters,
			Strategy:    string(strategy),
			Costing:     string(costing),
			RowCount:    len(rows),
			Skipped:     len(res.Skipped),
		},
		Rows:    rows,
		Skipped: res.Skipped,
	}, nil
}

func (uc *UseCase) resolveStrategy(req Request) (inventory.Strategy, error) {
	strategy := req.Strategy
	if strategy == "" || strategy == inventory.StrategyAuto {
		// la foto base no distingue lotes: con filtro de lote solo sirve la reproducción
		if !uc.baseline || req.Filters.HasLot() {
			return inventory.StrategyForward, nil
		}
		return inventory.ChooseStrategy(req.Cutoff, uc.now(), uc.cfg.RecentWindow), nil
	}
	switch strategy {
	case inventory.StrategyForward:
		return strategy, nil
	case inventory.StrategyBackward:
		if !uc.baseline {
			return "", fmt.Errorf("%w: foto base no configurada", domain.ErrInvalidInput)
		}
		if req.Filters.HasLot() {
			return "", fmt.Errorf("%w: el filtro de lote no admite la estrategia backward", domain.ErrInvalidInput)
		}
		return strategy, nil
	default:
		return "", domain.ErrUnknownStrategy
	}
}

func loadCatalog(ctx context.Context, src Sources) (*catalog, error) {
	locations, err := src.Locations.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar ubicaciones: %w", err)
	}
	products, err := src.Products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar productos: %w", err)
	}
	cat := &catalog{
		usages:        inventory.NewUsageMap(locations),
		costs:         inventory.NewCostMap(products),
		productNames:  make(map[int64]string, len(products)),
		locationNames: make(map[int64]string, len(locations)),
	}
	for _, p := range products {
		cat.productNames[p.ID] = p.Name
	}
	for _, l := range locations {
		cat.locationNames[l.ID] = l.Name
	}
	return cat, nil
}

func forward(ctx context.Context, src Sources, req Request, cat *catalog, opts inventory.Options) (*inventory.Result, error) {
	to := req.Cutoff.To
	movs, err := src.Ledger.Query(ctx, repository.LedgerQuery{From: req.Cutoff.From, To: &to, Filters: req.Filters})
	if err != nil {
		return nil, fmt.Errorf("leer ledger: %w", err)
	}
	return inventory.Forward(movs, cat.usages, cat.costs, opts)
}

func backward(ctx context.Context, src Sources, req Request, cat *catalog, opts inventory.Options) (*inventory.Result, error) {
	if src.Baseline == nil {
		return nil, fmt.Errorf("%w: foto base no configurada", domain.ErrInvalidInput)
	}
	quants, err := src.Baseline.Current(ctx, req.Filters)
	if err != nil {
		return nil, fmt.Errorf("leer foto base: %w", err)
	}
	base := make(inventory.Baseline, len(quants))
	for _, q := range quants {
		k := inventory.Key{ProductID: q.ProductID, LocationID: q.LocationID}
		base[k] = base[k].Add(q.Quantity)
	}

	to := req.Cutoff.To
	afterTo, err := src.Ledger.Query(ctx, repository.LedgerQuery{After: &to, Filters: req.Filters})
	if err != nil {
		return nil, fmt.Errorf("leer ledger posterior al corte: %w", err)
	}
	if !req.Cutoff.IsRange() {
		return inventory.Backward(base, afterTo, cat.usages, cat.costs, opts)
	}
	fromOnward, err := src.Ledger.Query(ctx, repository.LedgerQuery{From: req.Cutoff.From, Filters: req.Filters})
	if err != nil {
		return nil, fmt.Errorf("leer ledger desde el inicio del rango: %w", err)
	}
	return inventory.BackwardRange(base, afterTo, fromOnward, cat.usages, cat.costs, opts)
}

// Materialize reemplaza atómicamente el contenido del reporte: si algo falla (o se cancela ctx)
// la transacción se revierte y el reporte anterior queda visible.
func (uc *UseCase) Materialize(ctx context.Context, run entity.ReportRun, rows []entity.ReportRow) (err error) {
	ctx, span := tracer.Start(ctx, "report.Materialize", trace.WithAttributes(
		attribute.String("run_id", run.ID), attribute.Int("rows", len(rows)),
	))
	defer func() { endSpan(span, err) }()

	return uc.txRunner.Run(ctx, func(sink repository.ReportSink) error {
		if err := sink.Clear(ctx); err != nil {
			return fmt.Errorf("limpiar reporte previo: %w", err)
		}
		if err := sink.BulkInsert(ctx, rows); err != nil {
			return fmt.Errorf("insertar filas: %w", err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		return sink.SaveRun(ctx, run)
	})
}

// Generate toma el lock de ejecución, reconstruye y materializa.
func (uc *UseCase) Generate(ctx context.Context, req Request) (*Reconstruction, error) {
	started := uc.now()
	if uc.locker != nil {
		release, err := uc.locker.Acquire(ctx)
		if err != nil {
			uc.log.Warn().Err(err).Msg("otra generación del reporte está en curso")
			return nil, err
		}
		defer release()
	}

	rec, err := uc.Reconstruct(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := uc.Materialize(ctx, rec.Run, rec.Rows); err != nil {
		uc.log.Error().Err(err).Str("run_id", rec.Run.ID).Msg("materializar reporte")
		return nil, err
	}

	uc.log.Info().
		Str("run_id", rec.Run.ID).
		Str("strategy", rec.Run.Strategy).
		Str("costing", rec.Run.Costing).
		Int("rows", rec.Run.RowCount).
		Int("skipped", rec.Run.Skipped).
		Dur("duration", uc.now().Sub(started)).
		Msg("reporte de inventario generado")
	return rec, nil
}

// Page página de filas materializadas.
type Page struct {
	Run    *entity.ReportRun
	Rows   []entity.ReportRow
	Total  int
	Limit  int
	Offset int
}

// Rows lista las filas materializadas con paginación.
func (uc *UseCase) Rows(ctx context.Context, limit, offset int) (*Page, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 1000 {
		limit = 1000
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := uc.reader.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listar reporte: %w", err)
	}
	total, err := uc.reader.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("contar reporte: %w", err)
	}
	run, err := uc.reader.LastRun(ctx)
	if err != nil {
		return nil, fmt.Errorf("leer última ejecución: %w", err)
	}
	return &Page{Run: run, Rows: rows, Total: total, Limit: limit, Offset: offset}, nil
}

// Summary totales del reporte materializado.
func (uc *UseCase) Summary(ctx context.Context) (*Summary, error) {
	doc, err := uc.current(ctx)
	if err != nil {
		return nil, err
	}
	return &doc.Summary, nil
}

// Export genera el archivo del reporte materializado en el formato pedido.
func (uc *UseCase) Export(ctx context.Context, format string) ([]byte, Exporter, error) {
	exp, ok := uc.exporters[format]
	if !ok {
		return nil, nil, domain.ErrUnknownFormat
	}
	doc, err := uc.current(ctx)
	if err != nil {
		return nil, nil, err
	}
	content, err := exp.Export(ctx, *doc)
	if err != nil {
		return nil, nil, fmt.Errorf("exportar %s: %w", format, err)
	}
	return content, exp, nil
}

// Render exporta una reconstrucción sin materializarla (CLI y vista previa).
func (uc *UseCase) Render(ctx context.Context, format string, rec *Reconstruction) ([]byte, Exporter, error) {
	exp, ok := uc.exporters[format]
	if !ok {
		return nil, nil, domain.ErrUnknownFormat
	}
	run := rec.Run
	content, err := exp.Export(ctx, Document{Run: &run, Rows: rec.Rows, Summary: Summarize(&run, rec.Rows)})
	if err != nil {
		return nil, nil, fmt.Errorf("exportar %s: %w", format, err)
	}
	return content, exp, nil
}

func (uc *UseCase) current(ctx context.Context) (*Document, error) {
	rows, err := uc.reader.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("leer reporte: %w", err)
	}
	run, err := uc.reader.LastRun(ctx)
	if err != nil {
		return nil, fmt.Errorf("leer última ejecución: %w", err)
	}
	return &Document{Run: run, Rows: rows, Summary: Summarize(run, rows)}, nil
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
