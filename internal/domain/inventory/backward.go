package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-historico/internal/domain/entity"
)

// Baseline foto actual de stock por (producto, ubicación).
type Baseline map[Key]decimal.Decimal

// Backward reconstruye los saldos partiendo de la foto actual y deshaciendo, del más reciente
// al más antiguo, los movimientos posteriores al corte. La foto no trae historia de costos:
// la valorización queda a costo estándar y no hay metadatos de último movimiento.
func Backward(base Baseline, after []entity.Movement, locs Classifier, costs CostProvider, opts Options) (*Result, error) {
	res := newResult(StrategyBackward)
	if err := res.seed(base, locs); err != nil {
		return nil, err
	}

	undo := chronological(after)
	for i := len(undo) - 1; i >= 0; i-- {
		m := undo[i]
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
			res.Ignored++
			continue
		}
		res.revert(m, ep)
		res.Processed++
	}

	if err := res.valueAtStandard(costs); err != nil {
		return nil, err
	}
	return res, nil
}

// BackwardRange reconstruye un corte [from, to]: saldo a "to" menos saldo antes de "from".
// afterTo son los movimientos con fecha > to y fromOnward los de fecha >= from.
// La foto base se cancela, por lo que las cantidades coinciden con Forward sobre el rango.
func BackwardRange(base Baseline, afterTo, fromOnward []entity.Movement, locs Classifier, costs CostProvider, opts Options) (*Result, error) {
	atTo, err := Backward(base, afterTo, locs, costs, opts)
	if err != nil {
		return nil, err
	}
	beforeFrom, err := Backward(base, fromOnward, locs, costs, opts)
	if err != nil {
		return nil, err
	}

	res := newResult(StrategyBackward)
	for k, b := range atTo.Balances {
		res.slot(k).Quantity = b.Quantity
	}
	for k, b := range beforeFrom.Balances {
		s := res.slot(k)
		s.Quantity = s.Quantity.Sub(b.Quantity)
	}
	res.Processed = beforeFrom.Processed - atTo.Processed
	res.Ignored = beforeFrom.Ignored - atTo.Ignored
	// afterTo es subconjunto de fromOnward: los descartes de este último ya incluyen los del primero
	res.Skipped = beforeFrom.Skipped
	if err := res.valueAtStandard(costs); err != nil {
		return nil, err
	}
	return res, nil
}

// seed carga la foto base. Las entradas en cero o en ubicaciones virtuales no generan saldo.
func (r *Result) seed(base Baseline, locs Classifier) error {
	for k, qty := range base {
		if qty.IsZero() {
			continue
		}
		usage, err := locs.UsageOf(k.LocationID)
		if err != nil {
			skip, err := skipOrFail(entity.Movement{}, k.ProductID, k.LocationID, err)
			if err != nil {
				return err
			}
			r.Skipped = append(r.Skipped, *skip)
			continue
		}
		if !usage.IsStockHolding() {
			continue
		}
		r.slot(k).Quantity = qty
	}
	return nil
}

// revert deshace el efecto de un movimiento: resta en destino y devuelve al origen.
func (r *Result) revert(m entity.Movement, ep endpoints) {
	if ep.incrementsDest() {
		dst := r.slot(Key{ProductID: m.ProductID, LocationID: m.DestLocationID})
		dst.Quantity = dst.Quantity.Sub(m.Quantity)
	}
	if ep.decrementsSource() {
		src := r.slot(Key{ProductID: m.ProductID, LocationID: m.SourceLocationID})
		src.Quantity = src.Quantity.Add(m.Quantity)
	}
}

// valueAtStandard fija el valor unitario al costo estándar del producto.
// Entradas de la foto con producto desconocido se descartan y se registran como skip.
func (r *Result) valueAtStandard(costs CostProvider) error {
	for _, k := range r.Keys() {
		std, err := costs.StandardCost(k.ProductID)
		if err != nil {
			skip, err := skipOrFail(entity.Movement{}, k.ProductID, k.LocationID, err)
			if err != nil {
				return err
			}
			r.Skipped = append(r.Skipped, *skip)
			delete(r.Balances, k)
			continue
		}
		cost := std
		r.Balances[k].standard = &cost
	}
	return nil
}
