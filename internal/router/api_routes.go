package router

import (
	"datahealth-web/internal/handler"

	"github.com/gofiber/fiber/v2"
)

func SetupAPIRoutes(router fiber.Router, uploadHandler *handler.UploadHandler, snapshot fiber.Handler) {
	router.Get("/template", uploadHandler.DownloadTemplate)

	// Health check routes
	checks := router.Group("/health-checks")
	checks.Post("/", uploadHandler.UploadAPI)
	checks.Get("/:token", snapshot, uploadHandler.ReportAPI)
	checks.Get("/:token/export", snapshot, uploadHandler.Export)
	checks.Delete("/:token", snapshot, uploadHandler.DeleteAPI)
}
