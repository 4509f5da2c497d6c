package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-historico/internal/application/report"
	"github.com/jhoicas/inventario-historico/internal/domain/entity"
)

// DateLayout formato de fecha aceptado en las peticiones (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// GenerateReportRequest petición para generar el inventario a una fecha.
type GenerateReportRequest struct {
	DateFrom        string `json:"date_from,omitempty" example:"2024-01-01" validate:"omitempty,datetime=2006-01-02"`
	DateTo          string `json:"date_to" example:"2024-03-31" validate:"required,datetime=2006-01-02"`
	ProductID       *int64 `json:"product_id,omitempty" validate:"omitempty,gt=0"`
	LocationID      *int64 `json:"location_id,omitempty" validate:"omitempty,gt=0"`
	Lot             string `json:"lot,omitempty" example:"L-2024-01" validate:"omitempty,max=128"` // solo con forward/auto
	Strategy        string `json:"strategy,omitempty" example:"auto" validate:"omitempty,oneof=forward backward auto"`
	Costing         string `json:"costing,omitempty" example:"inbound-only" validate:"omitempty,oneof=inbound-only moving-average"`
	IncludeNegative bool   `json:"include_negative,omitempty"`
}

// ReportRunDTO metadatos de una ejecución del reporte.
type ReportRunDTO struct {
	ID          string    `json:"id"`
	GeneratedAt time.Time `json:"generated_at"`
	DateFrom    *string   `json:"date_from,omitempty"`
	DateTo      string    `json:"date_to"`
	ProductID   *int64    `json:"product_id,omitempty"`
	LocationID  *int64    `json:"location_id,omitempty"`
	Lot         *string   `json:"lot,omitempty"`
	Strategy    string    `json:"strategy"`
	Costing     string    `json:"costing"`
	RowCount    int       `json:"row_count"`
	Skipped     int       `json:"skipped"`
}

// ReportRowDTO una fila del inventario a fecha.
type ReportRowDTO struct {
	ProductID        int64           `json:"product_id"`
	ProductName      string          `json:"product_name"`
	LocationID       int64           `json:"location_id"`
	LocationName     string          `json:"location_name"`
	Quantity         decimal.Decimal `json:"quantity" swaggertype:"string"`
	UnitValue        decimal.Decimal `json:"unit_value" swaggertype:"string"`
	TotalValue       decimal.Decimal `json:"total_value" swaggertype:"string"`
	LotTag           string          `json:"lot,omitempty"`
	LastMovementAt   *time.Time      `json:"last_movement_at,omitempty"`
	LastMovementKind string          `json:"last_movement_kind,omitempty"`
	LastMovementType string          `json:"last_movement_type,omitempty"` // etiqueta legible
}

// ReportPageDTO página de filas materializadas.
type ReportPageDTO struct {
	Run  *ReportRunDTO  `json:"run,omitempty"`
	Rows []ReportRowDTO `json:"rows"`
	Page PageResponse   `json:"page"`
}

// PreviewResponse resultado de una reconstrucción sin materializar.
type PreviewResponse struct {
	Run     ReportRunDTO     `json:"run"`
	Rows    []ReportRowDTO   `json:"rows"`
	Summary ReportSummaryDTO `json:"summary"`
}

// ReportSummaryDTO totales del reporte (widget de tablero).
type ReportSummaryDTO struct {
	Run           *ReportRunDTO   `json:"run,omitempty"`
	TotalRows     int             `json:"total_rows"`
	TotalProducts int             `json:"total_products"`
	TotalQuantity decimal.Decimal `json:"total_quantity" swaggertype:"string"`
	TotalValue    decimal.Decimal `json:"total_value" swaggertype:"string"`
}

// ToReportRunDTO convierte la entidad a DTO. nil si no hay ejecución.
func ToReportRunDTO(run *entity.ReportRun) *ReportRunDTO {
	if run == nil {
		return nil
	}
	out := &ReportRunDTO{
		ID:          run.ID,
		GeneratedAt: run.GeneratedAt,
		DateTo:      run.Cutoff.To.Format(DateLayout),
		ProductID:   run.Filters.ProductID,
		LocationID:  run.Filters.LocationID,
		Lot:         run.Filters.LotTag,
		Strategy:    run.Strategy,
		Costing:     run.Costing,
		RowCount:    run.RowCount,
		Skipped:     run.Skipped,
	}
	if run.Cutoff.From != nil {
		from := run.Cutoff.From.Format(DateLayout)
		out.DateFrom = &from
	}
	return out
}

// ToReportRowDTOs convierte filas a DTO; nunca devuelve nil.
func ToReportRowDTOs(rows []entity.ReportRow) []ReportRowDTO {
	out := make([]ReportRowDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, ReportRowDTO{
			ProductID:        r.ProductID,
			ProductName:      r.ProductName,
			LocationID:       r.LocationID,
			LocationName:     r.LocationName,
			Quantity:         r.Quantity,
			UnitValue:        r.UnitValue,
			TotalValue:       r.TotalValue,
			LotTag:           r.LotTag,
			LastMovementAt:   r.LastMovementAt,
			LastMovementKind: string(r.LastMovementKind),
			LastMovementType: r.LastMovementKind.Label(),
		})
	}
	return out
}

// ToReportSummaryDTO convierte el resumen a DTO.
func ToReportSummaryDTO(s report.Summary) ReportSummaryDTO {
	return ReportSummaryDTO{
		Run:           ToReportRunDTO(s.Run),
		TotalRows:     s.TotalRows,
		TotalProducts: s.TotalProducts,
		TotalQuantity: s.TotalQuantity,
		TotalValue:    s.TotalValue,
	}
}
