// Package memory adaptadores en memoria de los puertos del reporte (CLI sin base de datos y tests).
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/inventario-historico/internal/application/report"
	"github.com/jhoicas/inventario-historico/internal/domain/entity"
	"github.com/jhoicas/inventario-historico/internal/domain/repository"
)

var (
	_ repository.LedgerRepository   = (*Ledger)(nil)
	_ repository.LocationRepository = (*Locations)(nil)
	_ repository.ProductRepository  = (*Products)(nil)
	_ repository.BaselineRepository = (*Baseline)(nil)
	_ repository.ReportReader       = (*ReportStore)(nil)
	_ report.TxRunner               = (*ReportStore)(nil)
)

// Ledger historial de movimientos en memoria.
type Ledger struct {
	mu        sync.RWMutex
	movements []entity.Movement
	// Err si no es nil lo devuelve Query (simula fallo de lectura).
	Err error
}

// NewLedger construye el ledger con los movimientos dados.
func NewLedger(movs ...entity.Movement) *Ledger {
	return &Ledger{movements: append([]entity.Movement(nil), movs...)}
}

// Add agrega movimientos.
func (l *Ledger) Add(movs ...entity.Movement) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.movements = append(l.movements, movs...)
}

// Query filtra igual que el adaptador SQL: confirmados, rango de fechas, producto y ubicación en cualquier extremo.
func (l *Ledger) Query(ctx context.Context, q repository.LedgerQuery) ([]entity.Movement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if l.Err != nil {
		return nil, l.Err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]entity.Movement, 0, len(l.movements))
	for _, m := range l.movements {
		if !m.IsConfirmed() || !q.Filters.MatchesMovement(m) {
			continue
		}
		if q.From != nil && m.Date.Before(*q.From) {
			continue
		}
		if q.To != nil && m.Date.After(*q.To) {
			continue
		}
		if q.After != nil && !m.Date.After(*q.After) {
			continue
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Locations catálogo de ubicaciones en memoria.
type Locations struct {
	items []entity.Location
}

// NewLocations construye el catálogo.
func NewLocations(items ...entity.Location) *Locations {
	return &Locations{items: items}
}

// List devuelve una copia del catálogo.
func (l *Locations) List(ctx context.Context) ([]entity.Location, error) {
	return append([]entity.Location(nil), l.items...), ctx.Err()
}

// Products catálogo de productos en memoria.
type Products struct {
	items []entity.Product
}

// NewProducts construye el catálogo.
func NewProducts(items ...entity.Product) *Products {
	return &Products{items: items}
}

// List devuelve una copia del catálogo.
func (p *Products) List(ctx context.Context) ([]entity.Product, error) {
	return append([]entity.Product(nil), p.items...), ctx.Err()
}

// Baseline foto actual de stock en memoria.
type Baseline struct {
	quants []entity.Quant
}

// NewBaseline construye la foto base.
func NewBaseline(quants ...entity.Quant) *Baseline {
	return &Baseline{quants: quants}
}

// Current aplica solo el filtro de producto.
func (b *Baseline) Current(ctx context.Context, f entity.Filters) ([]entity.Quant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]entity.Quant, 0, len(b.quants))
	for _, q := range b.quants {
		if f.MatchesProduct(q.ProductID) && !q.Quantity.IsZero() {
			out = append(out, q)
		}
	}
	return out, nil
}
