package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementState estado de un movimiento en el ledger. Solo los confirmados participan del reporte.
type MovementState string

const (
	MovementStateDraft     MovementState = "draft"
	MovementStateConfirmed MovementState = "confirmed"
	MovementStateCancelled MovementState = "cancelled"
)

// MovementKind clasificación derivada del tipo de operación del movimiento.
type MovementKind string

const (
	MovementKindPurchaseInbound  MovementKind = "purchase-inbound"
	MovementKindInternalTransfer MovementKind = "internal-transfer"
)

// OperationTypeIncoming código del tipo de operación de recepciones de compra.
const OperationTypeIncoming = "incoming"

// Label etiqueta legible usada en la grilla y las exportaciones.
func (k MovementKind) Label() string {
	switch k {
	case MovementKindPurchaseInbound:
		return "Compra"
	case MovementKindInternalTransfer:
		return "Transferencia Interna"
	default:
		return ""
	}
}

// Movement representa un movimiento de stock del ledger (solo lectura para el motor).
// Quantity es siempre positiva; el sentido lo dan origen y destino.
type Movement struct {
	ID               int64
	ProductID        int64
	SourceLocationID int64
	DestLocationID   int64
	Quantity         decimal.Decimal
	UnitCost         decimal.Decimal // puede venir en cero en tramos de tránsito
	Date             time.Time
	State            MovementState
	LotTag           string // informativo, no forma parte de ninguna clave
	OperationType    string // incoming, internal, outgoing, ...
	Reference        string
}

// Kind deriva la clasificación del movimiento a partir del tipo de operación.
func (m Movement) Kind() MovementKind {
	if m.OperationType == OperationTypeIncoming {
		return MovementKindPurchaseInbound
	}
	return MovementKindInternalTransfer
}

// IsConfirmed indica si el movimiento participa en la reconstrucción.
func (m Movement) IsConfirmed() bool {
	return m.State == MovementStateConfirmed
}
