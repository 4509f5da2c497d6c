package inventory

import "github.com/shopspring/decimal"

// WeightedAverage implementa el costo promedio ponderado (servicio de dominio).
// CostoUnitario = CostoAcumulado / CantidadAcumulada; con cantidad <= 0 el resultado es 0.
func WeightedAverage(totalCost, totalQty decimal.Decimal) decimal.Decimal {
	if totalQty.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return totalCost.Div(totalQty)
}

// CostingMode política de actualización de la base de costo.
type CostingMode string

const (
	// CostingInboundOnly solo acumula costo en las entradas; las salidas no reducen la base.
	// Es una aproximación documentada (no es costo promedio móvil real) y es el modo por defecto
	// porque los consumidores del reporte dependen de sus valores.
	CostingInboundOnly CostingMode = "inbound-only"
	// CostingMovingAverage reduce la base en cada salida al costo promedio vigente.
	CostingMovingAverage CostingMode = "moving-average"
)

// ParseCostingMode interpreta el modo; vacío equivale a CostingInboundOnly.
func ParseCostingMode(s string) (CostingMode, error) {
	switch CostingMode(s) {
	case "", CostingInboundOnly:
		return CostingInboundOnly, nil
	case CostingMovingAverage:
		return CostingMovingAverage, nil
	default:
		return "", ErrUnknownCosting
	}
}

// costBasis acumulador de valorización de un slot (producto, ubicación).
type costBasis struct {
	total    decimal.Decimal
	quantity decimal.Decimal
}

func (c *costBasis) add(qty, unitCost decimal.Decimal) {
	c.total = c.total.Add(qty.Mul(unitCost))
	c.quantity = c.quantity.Add(qty)
}

// remove retira qty al costo promedio vigente, sin dejar la base negativa.
func (c *costBasis) remove(qty decimal.Decimal) {
	if !c.quantity.IsPositive() {
		return
	}
	take := decimal.Min(qty, c.quantity)
	avg := c.average()
	c.total = c.total.Sub(take.Mul(avg))
	c.quantity = c.quantity.Sub(take)
	if !c.quantity.IsPositive() {
		c.total = decimal.Zero
		c.quantity = decimal.Zero
	}
}

func (c *costBasis) average() decimal.Decimal {
	return WeightedAverage(c.total, c.quantity)
}
