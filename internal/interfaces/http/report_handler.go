package http

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-historico/internal/application/dto"
	"github.com/jhoicas/inventario-historico/internal/application/report"
	"github.com/jhoicas/inventario-historico/internal/domain"
	"github.com/jhoicas/inventario-historico/internal/domain/entity"
	"github.com/jhoicas/inventario-historico/internal/domain/inventory"
)

// ReportHandler maneja las peticiones HTTP del inventario a fecha (protegido).
type ReportHandler struct {
	uc  *report.UseCase
	loc *time.Location
}

// NewReportHandler construye el handler. loc nil = UTC.
func NewReportHandler(uc *report.UseCase, loc *time.Location) *ReportHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportHandler{uc: uc, loc: loc}
}

// Generate godoc
// @Summary      Generar inventario a fecha
// @Description  Reconstruye el stock a la fecha de corte y reemplaza el reporte materializado.
// @Tags         reports
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.GenerateReportRequest  true  "date_to obligatorio; date_from, product_id, location_id, lot opcionales"
// @Success      201   {object}  dto.ReportRunDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/reports/inventory-at-date [post]
func (h *ReportHandler) Generate(c *fiber.Ctx) error {
	req, errResp := h.parseRequest(c)
	if errResp != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errResp)
	}
	rec, err := h.uc.Generate(c.Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToReportRunDTO(&rec.Run))
}

// Preview godoc
// @Summary      Vista previa del inventario a fecha
// @Description  Reconstruye sin materializar; no modifica el reporte vigente.
// @Tags         reports
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.GenerateReportRequest  true  "mismos parámetros que la generación"
// @Success      200   {object}  dto.PreviewResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/reports/inventory-at-date/preview [post]
func (h *ReportHandler) Preview(c *fiber.Ctx) error {
	req, errResp := h.parseRequest(c)
	if errResp != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errResp)
	}
	rec, err := h.uc.Reconstruct(c.Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.PreviewResponse{
		Run:     *dto.ToReportRunDTO(&rec.Run),
		Rows:    dto.ToReportRowDTOs(rec.Rows),
		Summary: dto.ToReportSummaryDTO(report.Summarize(&rec.Run, rec.Rows)),
	})
}

// List godoc
// @Summary      Filas del reporte materializado
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "máximo de filas (default 50)"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {object}  dto.ReportPageDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/reports/inventory-at-date [get]
func (h *ReportHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "limit/offset inválidos"})
	}
	if err := validate.Struct(page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(validationError(err))
	}
	page.DefaultPage()

	res, err := h.uc.Rows(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ReportPageDTO{
		Run:  dto.ToReportRunDTO(res.Run),
		Rows: dto.ToReportRowDTOs(res.Rows),
		Page: dto.PageResponse{Limit: res.Limit, Offset: res.Offset, Total: res.Total},
	})
}

// Summary godoc
// @Summary      Totales del reporte (tablero)
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ReportSummaryDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/reports/inventory-at-date/summary [get]
func (h *ReportHandler) Summary(c *fiber.Ctx) error {
	s, err := h.uc.Summary(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToReportSummaryDTO(*s))
}

// Export godoc
// @Summary      Exportar el reporte materializado
// @Tags         reports
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce      application/pdf
// @Produce      application/xml
// @Param        format  query  string  false  "xlsx | pdf | xml (default xlsx)"
// @Success      200  {file}    file
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/reports/inventory-at-date/export [get]
func (h *ReportHandler) Export(c *fiber.Ctx) error {
	format := c.Query("format", "xlsx")
	content, exp, err := h.uc.Export(c.Context(), format)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, exp.ContentType())
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="inventario_a_fecha.%s"`, exp.Format()))
	return c.Send(content)
}

// parseRequest valida el cuerpo y construye la petición del caso de uso.
func (h *ReportHandler) parseRequest(c *fiber.Ctx) (report.Request, *dto.ErrorResponse) {
	var in dto.GenerateReportRequest
	if err := c.BodyParser(&in); err != nil {
		return report.Request{}, &dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"}
	}
	if err := validate.Struct(in); err != nil {
		return report.Request{}, validationError(err)
	}
	to, err := time.ParseInLocation(dto.DateLayout, in.DateTo, h.loc)
	if err != nil {
		return report.Request{}, &dto.ErrorResponse{Code: "VALIDATION", Message: "date_to debe tener formato YYYY-MM-DD"}
	}

	cutoff := entity.CutoffAt(to)
	if in.DateFrom != "" {
		from, err := time.ParseInLocation(dto.DateLayout, in.DateFrom, h.loc)
		if err != nil {
			return report.Request{}, &dto.ErrorResponse{Code: "VALIDATION", Message: "date_from debe tener formato YYYY-MM-DD"}
		}
		cutoff = entity.CutoffRange(from, to)
	}

	strategy, err := inventory.ParseStrategy(in.Strategy)
	if err != nil {
		return report.Request{}, &dto.ErrorResponse{Code: "VALIDATION", Message: "strategy debe ser forward, backward o auto"}
	}
	var costing inventory.CostingMode
	if in.Costing != "" {
		if costing, err = inventory.ParseCostingMode(in.Costing); err != nil {
			return report.Request{}, &dto.ErrorResponse{Code: "VALIDATION", Message: "costing debe ser inbound-only o moving-average"}
		}
	}

	filters := entity.Filters{ProductID: in.ProductID, LocationID: in.LocationID}
	if in.Lot != "" {
		filters.LotTag = &in.Lot
	}

	return report.Request{
		Cutoff:          cutoff,
		Filters:         filters,
		Strategy:        strategy,
		Costing:         costing,
		IncludeNegative: in.IncludeNegative,
	}, nil
}

// writeError traduce errores de dominio a respuestas HTTP.
func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "REPORT_RUNNING", Message: "ya hay una generación del reporte en curso"})
	case errors.Is(err, domain.ErrUnknownFormat):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "format debe ser xlsx, pdf o xml"})
	case errors.Is(err, domain.ErrUnknownStrategy), errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
