// seed_ledger genera un script SQL para poblar catálogos, ledger y foto base
// a partir de un directorio de CSV exportados del ERP (ver memory.LoadDir).
//
// Uso: go run ./cmd/seed_ledger [directorio] [--latin1]
// Por defecto lee ./seed. Escribe: migrations/900_seed_ledger.sql
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jhoicas/inventario-historico/internal/domain/entity"
	"github.com/jhoicas/inventario-historico/internal/infrastructure/memory"
)

func main() {
	dir := "seed"
	var opts memory.CSVOptions
	for _, arg := range os.Args[1:] {
		if arg == "--latin1" {
			opts.Latin1 = true
			continue
		}
		dir = arg
	}

	ds, err := memory.LoadDir(dir, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	outPath := filepath.Join(findModuleRoot(), "migrations", "900_seed_ledger.sql")
	f, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()
	out := bufio.NewWriter(f)

	out.WriteString("-- Datos de ejemplo para inventario a fecha\n")
	out.WriteString("-- Generado por cmd/seed_ledger desde " + escapeSQL(dir) + "\n\n")

	out.WriteString("-- 1. Ubicaciones\n")
	for _, l := range ds.Locations {
		fmt.Fprintf(out, "INSERT INTO stock_locations (id, name, usage) VALUES (%d, '%s', '%s')\n", l.ID, escapeSQL(l.Name), l.Usage)
		out.WriteString("ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, usage = EXCLUDED.usage;\n")
	}

	out.WriteString("\n-- 2. Productos\n")
	for _, p := range ds.Products {
		fmt.Fprintf(out, "INSERT INTO products (id, name, standard_price) VALUES (%d, '%s', %s)\n", p.ID, escapeSQL(p.Name), p.StandardCost)
		out.WriteString("ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, standard_price = EXCLUDED.standard_price;\n")
	}

	out.WriteString("\n-- 3. Movimientos\n")
	for _, m := range ds.Movements {
		fmt.Fprintf(out,
			"INSERT INTO stock_moves (id, product_id, location_id, location_dest_id, quantity, price_unit, date, state, lot_name, picking_type_code, reference)\n"+
				"VALUES (%d, %d, %d, %d, %s, %s, '%s', '%s', %s, %s, %s)\nON CONFLICT (id) DO NOTHING;\n",
			m.ID, m.ProductID, m.SourceLocationID, m.DestLocationID, m.Quantity, m.UnitCost,
			m.Date.Format(time.RFC3339), m.State, nullable(m.LotTag), nullable(m.OperationType), nullable(m.Reference))
	}

	if len(ds.Quants) > 0 {
		out.WriteString("\n-- 4. Foto base\n")
		for _, q := range ds.Quants {
			fmt.Fprintf(out, "INSERT INTO stock_quants (product_id, location_id, quantity) VALUES (%d, %d, %s)\n", q.ProductID, q.LocationID, q.Quantity)
			out.WriteString("ON CONFLICT (product_id, location_id) DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now();\n")
		}
	}

	if err := out.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir archivo: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d ubicaciones, %d productos, %d movimientos (%d confirmados)\n",
		outPath, len(ds.Locations), len(ds.Products), len(ds.Movements), countConfirmed(ds.Movements))
}

func countConfirmed(movs []entity.Movement) int {
	n := 0
	for _, m := range movs {
		if m.IsConfirmed() {
			n++
		}
	}
	return n
}

func nullable(s string) string {
	if s == "" {
		return "NULL"
	}
	return "'" + escapeSQL(s) + "'"
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
