package entity

import "github.com/shopspring/decimal"

// Product representa un producto del catálogo.
// StandardCost es el costo de referencia usado cuando un movimiento no trae costo.
type Product struct {
	ID           int64
	Name         string
	StandardCost decimal.Decimal
}
