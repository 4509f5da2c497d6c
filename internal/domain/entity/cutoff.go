package entity

import "time"

// Cutoff límite temporal del reporte: una fecha única (From nil) o un rango [From, To].
// Ambos extremos son inclusivos. No se corrige un rango invertido.
type Cutoff struct {
	From *time.Time
	To   time.Time
}

// CutoffAt construye un corte a fecha única que incluye todo el día indicado.
func CutoffAt(day time.Time) Cutoff {
	return Cutoff{To: endOfDay(day)}
}

// CutoffRange construye un corte por rango, desde el inicio de from hasta el final de to.
func CutoffRange(from, to time.Time) Cutoff {
	start := startOfDay(from)
	return Cutoff{From: &start, To: endOfDay(to)}
}

// IsRange indica si el corte tiene límite inferior.
func (c Cutoff) IsRange() bool {
	return c.From != nil
}

// IsInverted indica un rango con From posterior a To. No es un error: produce un reporte vacío.
func (c Cutoff) IsInverted() bool {
	return c.From != nil && c.From.After(c.To)
}

// Contains indica si t cae dentro del corte.
func (c Cutoff) Contains(t time.Time) bool {
	if c.From != nil && t.Before(*c.From) {
		return false
	}
	return !t.After(c.To)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// Filters filtros opcionales del reporte.
// LotTag solo acota los movimientos seleccionados; el lote no entra en la clave del saldo.
type Filters struct {
	ProductID  *int64
	LocationID *int64
	LotTag     *string
}

// HasLot indica si se filtra por lote. La foto base no tiene dimensión de lote.
func (f Filters) HasLot() bool {
	return f.LotTag != nil
}

// MatchesLot indica si el lote del movimiento pasa el filtro.
func (f Filters) MatchesLot(lotTag string) bool {
	return f.LotTag == nil || *f.LotTag == lotTag
}

// MatchesProduct indica si el producto pasa el filtro.
func (f Filters) MatchesProduct(productID int64) bool {
	return f.ProductID == nil || *f.ProductID == productID
}

// MatchesLocation indica si la ubicación pasa el filtro.
func (f Filters) MatchesLocation(locationID int64) bool {
	return f.LocationID == nil || *f.LocationID == locationID
}

// MatchesMovement aplica el filtro de ubicación sobre cualquiera de los dos extremos.
func (f Filters) MatchesMovement(m Movement) bool {
	if !f.MatchesProduct(m.ProductID) || !f.MatchesLot(m.LotTag) {
		return false
	}
	return f.MatchesLocation(m.SourceLocationID) || f.MatchesLocation(m.DestLocationID)
}
