package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	_ "github.com/jhoicas/inventario-historico/docs"
	"github.com/jhoicas/inventario-historico/internal/application/auth"
	"github.com/jhoicas/inventario-historico/internal/application/report"
	"github.com/jhoicas/inventario-historico/internal/domain/inventory"
	"github.com/jhoicas/inventario-historico/internal/infrastructure/export"
	"github.com/jhoicas/inventario-historico/internal/infrastructure/lock"
	"github.com/jhoicas/inventario-historico/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/inventario-historico/internal/interfaces/http"
	"github.com/jhoicas/inventario-historico/pkg/config"
	"github.com/jhoicas/inventario-historico/pkg/logger"
)

// @title                       Inventario a Fecha API
// @version                     1.0
// @description                 Reconstrucción histórica de stock y valorización por producto y ubicación.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Lock local siempre; Redis solo si hay más de una instancia (REDIS_ADDR).
	var locker report.RunLocker = lock.NewLocal()
	if cfg.Redis.Enabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		locker = lock.Chain{locker, lock.NewRedis(rdb, lock.DefaultKey, cfg.Report.LockTTL(), log.Component("lock"))}
	}

	costing, err := inventory.ParseCostingMode(cfg.Report.DefaultCosting)
	if err != nil {
		log.Fatal().Err(err).Msg("REPORT_DEFAULT_COSTING")
	}

	// cada reconstrucción lee ledger, catálogos y foto base en una tx REPEATABLE READ
	txRunner := postgres.NewTxRunner(pool)
	reportUC := report.NewUseCase(report.Deps{
		Baseline:  postgres.NewBaselineRepository(pool),
		Snapshot:  txRunner,
		Reader:    postgres.NewReportRepository(pool),
		TxRunner:  txRunner,
		Locker:    locker,
		Exporters: export.All(),
		Log:       log.Component("report"),
		Config: report.Config{
			RecentWindow:   cfg.Report.RecentWindow(),
			DefaultCosting: costing,
		},
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Minute * 5, // generación y exportación de reportes grandes
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Inventario a Fecha API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	authUC := auth.NewAuthUseCase(postgres.NewUserRepository(pool), auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		ReportUC:  reportUC,
		JWTSecret: cfg.JWT.Secret,
		Location:  cfg.App.Location(),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
