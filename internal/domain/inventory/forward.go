package inventory

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-historico/internal/domain/entity"
)

// Options opciones del motor de reconstrucción.
type Options struct {
	Costing CostingMode
}

// Forward reconstruye los saldos desde cero reproduciendo los movimientos en orden cronológico.
// El llamador entrega solo los movimientos que califican para el corte; los no confirmados se ignoran.
// Sirve para cualquier fecha histórica, con costo proporcional al total de movimientos.
func Forward(movs []entity.Movement, locs Classifier, costs CostProvider, opts Options) (*Result, error) {
	res := newResult(StrategyForward)
	for _, m := range chronological(movs) {
		if !m.IsConfirmed() {
			res.Ignored++
			continue
		}
		ep, skip, err := resolve(m, locs, costs)
		if err != nil {
			return nil, err
		}
		if skip != nil {
			res.Skipped = append(res.Skipped, *skip)
			continue
		}
		if !ep.decrementsSource() && !ep.incrementsDest() {
			// virtual a virtual: no afecta stock real
			res.Ignored++
			continue
		}
		res.apply(m, ep, opts)
		res.Processed++
	}
	return res, nil
}

// apply aplica un movimiento: descuenta en origen y suma en destino según el uso de cada extremo.
// Origen virtual = creación de stock; destino virtual = consumo.
func (r *Result) apply(m entity.Movement, ep endpoints, opts Options) {
	if ep.decrementsSource() {
		src := r.slot(Key{ProductID: m.ProductID, LocationID: m.SourceLocationID})
		src.Quantity = src.Quantity.Sub(m.Quantity)
		if opts.Costing == CostingMovingAverage {
			src.basis.remove(m.Quantity)
		}
	}
	if ep.incrementsDest() {
		dst := r.slot(Key{ProductID: m.ProductID, LocationID: m.DestLocationID})
		dst.Quantity = dst.Quantity.Add(m.Quantity)
		dst.basis.add(m.Quantity, effectiveUnitCost(m, ep, dst))
		dst.touch(m)
	}
}

// effectiveUnitCost costo de la entrada: el del movimiento si viene informado; si no,
// en tránsito el promedio ya acumulado del slot y en último caso el costo estándar.
func effectiveUnitCost(m entity.Movement, ep endpoints, dst *Balance) decimal.Decimal {
	if m.UnitCost.IsPositive() {
		return m.UnitCost
	}
	if ep.dest == entity.LocationUsageTransit && dst.basis.quantity.IsPositive() {
		return dst.basis.average()
	}
	return ep.standard
}

// chronological copia estable ordenada por fecha ascendente (no modifica la entrada).
func chronological(movs []entity.Movement) []entity.Movement {
	out := make([]entity.Movement, len(movs))
	copy(out, movs)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
