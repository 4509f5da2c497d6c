package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-historico/internal/domain/entity"
)

// Classifier resuelve el uso de una ubicación. Devuelve ErrUnknownLocation si no existe.
type Classifier interface {
	UsageOf(locationID int64) (entity.LocationUsage, error)
}

// CostProvider resuelve el costo estándar de un producto. Devuelve ErrUnknownProduct si no existe.
type CostProvider interface {
	StandardCost(productID int64) (decimal.Decimal, error)
}

// UsageMap implementa Classifier sobre un mapa precargado.
type UsageMap map[int64]entity.LocationUsage

// UsageOf implementa Classifier.
func (m UsageMap) UsageOf(locationID int64) (entity.LocationUsage, error) {
	u, ok := m[locationID]
	if !ok {
		return "", ErrUnknownLocation
	}
	return u, nil
}

// NewUsageMap construye el mapa a partir del catálogo de ubicaciones.
func NewUsageMap(locations []entity.Location) UsageMap {
	m := make(UsageMap, len(locations))
	for _, l := range locations {
		m[l.ID] = l.Usage
	}
	return m
}

// CostMap implementa CostProvider sobre un mapa precargado.
type CostMap map[int64]decimal.Decimal

// StandardCost implementa CostProvider.
func (m CostMap) StandardCost(productID int64) (decimal.Decimal, error) {
	c, ok := m[productID]
	if !ok {
		return decimal.Zero, ErrUnknownProduct
	}
	return c, nil
}

// NewCostMap construye el mapa a partir del catálogo de productos.
func NewCostMap(products []entity.Product) CostMap {
	m := make(CostMap, len(products))
	for _, p := range products {
		m[p.ID] = p.StandardCost
	}
	return m
}
