package memory

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/inventario-historico/internal/domain/entity"
)

// Archivos esperados en un directorio de datos exportado del ERP.
const (
	LocationsFile = "locations.csv" // id,name,usage
	ProductsFile  = "products.csv"  // id,name,standard_price
	MovesFile     = "moves.csv"     // id,product_id,location_id,location_dest_id,quantity,price_unit,date,state,lot_name,picking_type_code,reference
	QuantsFile    = "quants.csv"    // product_id,location_id,quantity (opcional)
)

var dateLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

// Dataset contenido de un directorio de datos.
type Dataset struct {
	Locations []entity.Location
	Products  []entity.Product
	Movements []entity.Movement
	Quants    []entity.Quant
}

// CSVOptions opciones de lectura.
type CSVOptions struct {
	Latin1 bool // archivos en ISO-8859-1 (exportaciones de hoja de cálculo)
	Comma  rune // separador; 0 = ','
}

// LoadDir lee los CSV del directorio. quants.csv es opcional.
func LoadDir(dir string, opts CSVOptions) (*Dataset, error) {
	ds := &Dataset{}
	if err := readFile(filepath.Join(dir, LocationsFile), opts, func(r record) error {
		loc := entity.Location{ID: r.asInt("id"), Name: r.asString("name"), Usage: entity.LocationUsage(r.asString("usage"))}
		if !loc.Usage.IsValid() {
			return fmt.Errorf("uso de ubicación inválido %q", loc.Usage)
		}
		ds.Locations = append(ds.Locations, loc)
		return r.err
	}); err != nil {
		return nil, err
	}
	if err := readFile(filepath.Join(dir, ProductsFile), opts, func(r record) error {
		ds.Products = append(ds.Products, entity.Product{
			ID: r.asInt("id"), Name: r.asString("name"), StandardCost: r.asDecimal("standard_price"),
		})
		return r.err
	}); err != nil {
		return nil, err
	}
	if err := readFile(filepath.Join(dir, MovesFile), opts, func(r record) error {
		ds.Movements = append(ds.Movements, entity.Movement{
			ID:               r.asInt("id"),
			ProductID:        r.asInt("product_id"),
			SourceLocationID: r.asInt("location_id"),
			DestLocationID:   r.asInt("location_dest_id"),
			Quantity:         r.asDecimal("quantity"),
			UnitCost:         r.asDecimal("price_unit"),
			Date:             r.asTime("date"),
			State:            entity.MovementState(r.asString("state")),
			LotTag:           r.asString("lot_name"),
			OperationType:    r.asString("picking_type_code"),
			Reference:        r.asString("reference"),
		})
		return r.err
	}); err != nil {
		return nil, err
	}
	err := readFile(filepath.Join(dir, QuantsFile), opts, func(r record) error {
		ds.Quants = append(ds.Quants, entity.Quant{
			ProductID: r.asInt("product_id"), LocationID: r.asInt("location_id"), Quantity: r.asDecimal("quantity"),
		})
		return r.err
	})
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	return ds, nil
}

func readFile(path string, opts CSVOptions, fn func(record) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := readCSV(f, opts, fn); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return nil
}

// ReadCSV recorre las filas de r por nombre de columna (primera fila = encabezados).
func readCSV(r io.Reader, opts CSVOptions, fn func(record) error) error {
	if opts.Latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}
	header, err := cr.Read()
	if err != nil {
		return fmt.Errorf("encabezados: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for line := 2; ; line++ {
		values, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("línea %d: %w", line, err)
		}
		if err := fn(record{index: index, values: values}); err != nil {
			return fmt.Errorf("línea %d: %w", line, err)
		}
	}
}

// record acceso por columna que acumula el primer error de conversión.
type record struct {
	index  map[string]int
	values []string
	err    error
}

func (r *record) asString(col string) string {
	i, ok := r.index[col]
	if !ok || i >= len(r.values) {
		return ""
	}
	return strings.TrimSpace(r.values[i])
}

func (r *record) asInt(col string) int64 {
	s := r.asString(col)
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("columna %s: %w", col, err)
	}
	return n
}

func (r *record) asDecimal(col string) decimal.Decimal {
	s := r.asString(col)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("columna %s: %w", col, err)
	}
	return d
}

func (r *record) asTime(col string) time.Time {
	s := r.asString(col)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t
		}
	}
	if r.err == nil {
		r.err = fmt.Errorf("columna %s: fecha inválida %q", col, s)
	}
	return time.Time{}
}
