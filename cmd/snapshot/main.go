// snapshot reconstruye el inventario a una fecha desde la línea de comandos y escribe la exportación.
//
// Uso:
//
//	go run ./cmd/snapshot 2024-03-31 --format pdf -o inventario.pdf
//	go run ./cmd/snapshot 2024-03-31 --from 2024-01-01 --data ./export_erp --format xml
//	go run ./cmd/snapshot 2024-03-31 --materialize
//
// Sin --data lee PostgreSQL según la configuración de la app (DATABASE_URL, DB_*).
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/alecthomas/kong"

	"github.com/jhoicas/inventario-historico/internal/application/report"
	"github.com/jhoicas/inventario-historico/internal/domain/entity"
	"github.com/jhoicas/inventario-historico/internal/domain/inventory"
	"github.com/jhoicas/inventario-historico/internal/infrastructure/export"
	"github.com/jhoicas/inventario-historico/internal/infrastructure/lock"
	"github.com/jhoicas/inventario-historico/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-historico/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-historico/pkg/config"
	"github.com/jhoicas/inventario-historico/pkg/logger"
)

const dateLayout = "2006-01-02"

var cli struct {
	Date     string `arg:"" help:"Fecha de corte (YYYY-MM-DD)."`
	From     string `help:"Inicio del rango (YYYY-MM-DD)."`
	Product  int64  `help:"Filtrar por producto."`
	Location int64  `help:"Filtrar por ubicación."`
	Lot      string `help:"Filtrar por lote (solo forward o auto)."`
	TZ       string `name:"tz" help:"Zona horaria de las fechas; por defecto APP_TIME_ZONE con PostgreSQL y UTC con --data."`

	Strategy        string `enum:"forward,backward,auto" default:"auto" help:"Estrategia de reconstrucción."`
	Costing         string `enum:"inbound-only,moving-average" default:"inbound-only" help:"Modo de valorización."`
	IncludeNegative bool   `help:"Incluir saldos negativos (diagnóstico)."`
	Window          int    `default:"0" help:"Días de ventana reciente para --strategy auto."`

	Format      string `enum:"xlsx,pdf,xml" default:"xlsx" help:"Formato de salida."`
	Output      string `short:"o" default:"-" help:"Archivo de salida ('-' = stdout)."`
	Data        string `type:"existingdir" help:"Directorio con locations.csv, products.csv, moves.csv y quants.csv."`
	Latin1      bool   `help:"Los CSV están en ISO-8859-1."`
	Materialize bool   `help:"Reemplazar el reporte materializado en PostgreSQL."`
	Verbose     bool   `short:"v" help:"Log de depuración en stderr."`
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Name("snapshot"),
		kong.Description("Inventario a fecha pasada por producto y ubicación."),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	kctx.FatalIfErrorf(run(ctx, kctx.Stdout))
}

func run(ctx context.Context, stdout io.Writer) error {
	level := "warn"
	if cli.Verbose {
		level = "debug"
	}
	log := logger.New(logger.Config{Env: "development", Level: level, Output: os.Stderr})

	deps := report.Deps{
		Exporters: export.All(),
		Log:       log,
		Config:    report.Config{RecentWindow: time.Duration(cli.Window) * 24 * time.Hour},
	}

	loc := time.UTC
	if cli.Data != "" {
		if cli.Materialize {
			return fmt.Errorf("--materialize requiere PostgreSQL (sin --data)")
		}
		ds, err := memory.LoadDir(cli.Data, memory.CSVOptions{Latin1: cli.Latin1})
		if err != nil {
			return err
		}
		deps.Ledger = memory.NewLedger(ds.Movements...)
		deps.Locations = memory.NewLocations(ds.Locations...)
		deps.Products = memory.NewProducts(ds.Products...)
		if len(ds.Quants) > 0 {
			deps.Baseline = memory.NewBaseline(ds.Quants...)
		}
	} else {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return err
		}
		defer pool.Close()

		txRunner := postgres.NewTxRunner(pool)
		deps.Baseline = postgres.NewBaselineRepository(pool)
		deps.Snapshot = txRunner
		deps.Reader = postgres.NewReportRepository(pool)
		deps.TxRunner = txRunner
		deps.Locker = lock.NewLocal()
		loc = cfg.App.Location()
	}

	if cli.TZ != "" {
		tz, err := time.LoadLocation(cli.TZ)
		if err != nil {
			return fmt.Errorf("--tz inválida %q: %w", cli.TZ, err)
		}
		loc = tz
	}
	req, err := buildRequest(loc)
	if err != nil {
		return err
	}

	uc := report.NewUseCase(deps)

	var rec *report.Reconstruction
	if cli.Materialize {
		rec, err = uc.Generate(ctx, req)
	} else {
		rec, err = uc.Reconstruct(ctx, req)
	}
	if err != nil {
		return err
	}

	content, _, err := uc.Render(ctx, cli.Format, rec)
	if err != nil {
		return err
	}
	if err := write(cli.Output, stdout, content); err != nil {
		return err
	}

	log.Info().
		Str("strategy", rec.Run.Strategy).
		Int("rows", rec.Run.RowCount).
		Int("skipped", rec.Run.Skipped).
		Msg("snapshot generado")
	return nil
}

// buildRequest interpreta las fechas de corte como días locales de loc.
func buildRequest(loc *time.Location) (report.Request, error) {
	to, err := time.ParseInLocation(dateLayout, cli.Date, loc)
	if err != nil {
		return report.Request{}, fmt.Errorf("fecha de corte inválida %q: %w", cli.Date, err)
	}
	cutoff := entity.CutoffAt(to)
	if cli.From != "" {
		from, err := time.ParseInLocation(dateLayout, cli.From, loc)
		if err != nil {
			return report.Request{}, fmt.Errorf("--from inválido %q: %w", cli.From, err)
		}
		cutoff = entity.CutoffRange(from, to)
	}

	var filters entity.Filters
	if cli.Product != 0 {
		filters.ProductID = &cli.Product
	}
	if cli.Location != 0 {
		filters.LocationID = &cli.Location
	}
	if cli.Lot != "" {
		filters.LotTag = &cli.Lot
	}

	strategy, err := inventory.ParseStrategy(cli.Strategy)
	if err != nil {
		return report.Request{}, err
	}
	costing, err := inventory.ParseCostingMode(cli.Costing)
	if err != nil {
		return report.Request{}, err
	}

	return report.Request{
		Cutoff:          cutoff,
		Filters:         filters,
		Strategy:        strategy,
		Costing:         costing,
		IncludeNegative: cli.IncludeNegative,
	}, nil
}

func write(path string, stdout io.Writer, content []byte) error {
	if path == "-" {
		_, err := stdout.Write(content)
		return err
	}
	return os.WriteFile(path, content, 0o644)
}
