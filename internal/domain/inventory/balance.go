package inventory

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-historico/internal/domain/entity"
)

// Key clave compuesta (producto, ubicación) de un saldo.
type Key struct {
	ProductID  int64
	LocationID int64
}

// Balance saldo reconstruido de un producto en una ubicación para una ejecución.
type Balance struct {
	Key
	Quantity         decimal.Decimal
	LastMovementAt   *time.Time
	LastMovementKind entity.MovementKind
	LotTag           string

	basis    costBasis
	standard *decimal.Decimal // valorización a costo estándar (estrategia hacia atrás)
}

// UnitValue valor unitario: promedio ponderado de las entradas, o costo estándar
// cuando el saldo se reconstruyó desde la foto actual.
func (b *Balance) UnitValue() decimal.Decimal {
	if b.standard != nil {
		return *b.standard
	}
	return b.basis.average()
}

// TotalValue valor total sobre la cantidad final (no sobre la cantidad costeada).
func (b *Balance) TotalValue() decimal.Decimal {
	return b.UnitValue().Mul(b.Quantity)
}

// CostTotal costo acumulado de la base de valorización.
func (b *Balance) CostTotal() decimal.Decimal { return b.basis.total }

// CostQuantity cantidad acumulada de la base de valorización.
func (b *Balance) CostQuantity() decimal.Decimal { return b.basis.quantity }

func (b *Balance) touch(m entity.Movement) {
	at := m.Date
	b.LastMovementAt = &at
	b.LastMovementKind = m.Kind()
	b.LotTag = m.LotTag
}

// Skip movimiento (o entrada de la foto base) descartado sin abortar la ejecución.
type Skip struct {
	MovementID int64 // 0 para entradas de la foto base
	ProductID  int64
	LocationID int64
	Reason     error
}

// Result saldos reconstruidos en una ejecución.
type Result struct {
	Strategy  Strategy
	Balances  map[Key]*Balance
	Skipped   []Skip
	Processed int // movimientos aplicados
	Ignored   int // virtual a virtual o no confirmados
}

func newResult(s Strategy) *Result {
	return &Result{Strategy: s, Balances: make(map[Key]*Balance)}
}

func (r *Result) slot(k Key) *Balance {
	b, ok := r.Balances[k]
	if !ok {
		b = &Balance{Key: k}
		r.Balances[k] = b
	}
	return b
}

// Keys devuelve las claves ordenadas por (producto, ubicación).
func (r *Result) Keys() []Key {
	keys := make([]Key, 0, len(r.Balances))
	for k := range r.Balances {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].ProductID != keys[j].ProductID {
			return keys[i].ProductID < keys[j].ProductID
		}
		return keys[i].LocationID < keys[j].LocationID
	})
	return keys
}

// QuantityOf cantidad del slot; cero si no existe.
func (r *Result) QuantityOf(k Key) decimal.Decimal {
	if b, ok := r.Balances[k]; ok {
		return b.Quantity
	}
	return decimal.Zero
}
