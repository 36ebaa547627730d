package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"datahealth-web/internal/config"
	"datahealth-web/internal/database"
	"datahealth-web/internal/repository"
	"datahealth-web/internal/router"
	"datahealth-web/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
)

func main() {
	log := utils.GetLogger()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	utils.SetLogLevel(cfg.LogLevel)

	// Snapshot store: Redis when enabled and reachable, memory otherwise
	var snapshots repository.SnapshotRepository = repository.NewMemorySnapshotRepository(cfg.SnapshotTTL)
	if cfg.RedisEnabled {
		redisClient, err := database.NewRedis(cfg)
		if err != nil {
			log.WithError(err).Warn("Failed to connect to Redis, health checks are kept in memory")
		} else {
			defer redisClient.Close()
			snapshots = repository.NewRedisSnapshotRepository(redisClient, cfg.SnapshotTTL)
			log.WithField("addr", cfg.GetRedisAddr()).Info("Health checks are kept in Redis")
		}
	}

	// Initialize template engine
	engine := html.New("./views", ".html")
	engine.Reload(cfg.IsDevelopment())

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		Views:        engine,
		BodyLimit:    cfg.UploadMaxSize,
		ErrorHandler: router.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, DELETE, OPTIONS",
	}))

	// Setup routes
	router.Setup(app, snapshots, cfg)

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Info("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	port := fmt.Sprintf(":%s", cfg.AppPort)
	log.Infof("Server starting on %s", port)
	if err := app.Listen(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Info("Server exited")
}
