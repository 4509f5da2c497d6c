package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quant stock actual de un producto en una ubicación (foto base materializada).
type Quant struct {
	ProductID  int64
	LocationID int64
	Quantity   decimal.Decimal
	UpdatedAt  time.Time
}
