package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-historico/internal/application/auth"
	"github.com/jhoicas/inventario-historico/internal/application/report"
)

// Roles con permiso para regenerar el reporte materializado.
var generatorRoles = []string{"admin", "bodeguero"}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	ReportUC  *report.UseCase
	JWTSecret string
	// Location zona horaria en la que se interpretan las fechas de corte (nil = UTC).
	Location *time.Location
}

// Router registra las rutas de la API. Solo /api/auth/login es pública.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.AuthUC != nil {
		app.Post("/api/auth/login", NewAuthHandler(deps.AuthUC).Login)
	}

	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	reports := api.Group("/reports/inventory-at-date")
	h := NewReportHandler(deps.ReportUC, deps.Location)
	reports.Post("/", RequireRole(generatorRoles...), h.Generate)
	reports.Post("/preview", h.Preview)
	reports.Get("/", h.List)
	reports.Get("/summary", h.Summary)
	reports.Get("/export", h.Export)
}
