package inventory

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-historico/internal/domain"
	"github.com/jhoicas/inventario-historico/internal/domain/entity"
)

// endpoints uso de origen y destino de un movimiento ya resuelto contra los catálogos.
type endpoints struct {
	source   entity.LocationUsage
	dest     entity.LocationUsage
	standard decimal.Decimal
}

// decrementsSource el origen es interno o tránsito: la salida descuenta stock real.
func (e endpoints) decrementsSource() bool { return e.source.IsStockHolding() }

// incrementsDest el destino es interno o tránsito: la entrada suma stock real.
func (e endpoints) incrementsDest() bool { return e.dest.IsStockHolding() }

// resolve clasifica origen y destino y obtiene el costo estándar.
// Un ErrNotFound (producto o ubicación desconocidos) se devuelve como skip, no como error.
func resolve(m entity.Movement, locs Classifier, costs CostProvider) (endpoints, *Skip, error) {
	var e endpoints
	if !m.Quantity.IsPositive() {
		return e, &Skip{MovementID: m.ID, ProductID: m.ProductID, Reason: ErrInvalidQuantity}, nil
	}
	std, err := costs.StandardCost(m.ProductID)
	if err != nil {
		skip, err := skipOrFail(m, m.ProductID, 0, err)
		return e, skip, err
	}
	src, err := locs.UsageOf(m.SourceLocationID)
	if err != nil {
		skip, err := skipOrFail(m, m.ProductID, m.SourceLocationID, err)
		return e, skip, err
	}
	dst, err := locs.UsageOf(m.DestLocationID)
	if err != nil {
		skip, err := skipOrFail(m, m.ProductID, m.DestLocationID, err)
		return e, skip, err
	}
	e.source, e.dest, e.standard = src, dst, std
	return e, nil, nil
}

func skipOrFail(m entity.Movement, productID, locationID int64, err error) (*Skip, error) {
	if errors.Is(err, domain.ErrNotFound) {
		return &Skip{MovementID: m.ID, ProductID: productID, LocationID: locationID, Reason: err}, nil
	}
	return nil, err
}
