package entity

// LocationUsage uso de una ubicación de stock.
type LocationUsage string

const (
	LocationUsageInternal LocationUsage = "internal"
	LocationUsageTransit  LocationUsage = "transit"
	// LocationUsageVirtual cubre producción, ajuste de inventario, proveedor y cliente.
	LocationUsageVirtual LocationUsage = "virtual"
)

// IsStockHolding indica si la ubicación mantiene stock reportable (interna o tránsito).
func (u LocationUsage) IsStockHolding() bool {
	return u == LocationUsageInternal || u == LocationUsageTransit
}

// IsValid verifica que el uso sea uno de los conocidos.
func (u LocationUsage) IsValid() bool {
	switch u {
	case LocationUsageInternal, LocationUsageTransit, LocationUsageVirtual:
		return true
	default:
		return false
	}
}

// Location representa una ubicación de stock (bodega, tránsito o virtual).
type Location struct {
	ID    int64
	Name  string
	Usage LocationUsage
}
