package router

import (
	"datahealth-web/internal/config"
	"datahealth-web/internal/handler"
	"datahealth-web/internal/middleware"
	"datahealth-web/internal/repository"
	"datahealth-web/internal/service"
	"datahealth-web/internal/utils"

	"github.com/gofiber/fiber/v2"
)

func Setup(app *fiber.App, snapshots repository.SnapshotRepository, cfg *config.Config) {
	// Initialize services
	excelService := service.NewExcelService()
	engine := service.NewRuleEngine(service.DefaultRules(), cfg.RulesParallel, utils.GetLogger())
	healthCheckService := service.NewHealthCheckService(snapshots, excelService, engine, utils.GetLogger())

	// Initialize handlers
	uploadHandler := handler.NewUploadHandler(healthCheckService, excelService, cfg)
	snapshot := middleware.SnapshotMiddleware(healthCheckService)

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"app":    cfg.AppName,
		})
	})

	// Web routes (HTML)
	web := app.Group("")
	setupWebRoutes(web, uploadHandler, snapshot)

	// API routes (JSON)
	api := app.Group("/api/v1")
	SetupAPIRoutes(api, uploadHandler, snapshot)
}

func setupWebRoutes(router fiber.Router, uploadHandler *handler.UploadHandler, snapshot fiber.Handler) {
	router.Get("/", uploadHandler.Index)
	router.Get("/template", uploadHandler.DownloadTemplate)

	checks := router.Group("/health-checks")
	checks.Post("/", uploadHandler.Upload)
	checks.Get("/:token", snapshot, uploadHandler.Report)
	checks.Get("/:token/export", snapshot, uploadHandler.Export)
}
