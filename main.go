package main

import (
	"log"
	"os"
	"path/filepath"

	"finki_timetable/config"
	"finki_timetable/controllers"
	"finki_timetable/middleware"
	"finki_timetable/routes"
	"finki_timetable/services"
	"finki_timetable/services/edupage"
	"finki_timetable/services/timetable"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
)

const version = "1.0.0"

func init() {
	// Load configuration
	config.LoadConfig()

	// Initialize logging
	setupLogging()
}

func main() {
	cfg := config.AppConfig

	client, err := edupage.NewClient(cfg.UpstreamBaseURL, cfg.UpstreamTimeout)
	if err != nil {
		log.Fatal("Failed to create EduPage client:", err)
	}

	filter := timetable.ClassFilter{
		Targets:  cfg.TargetClasses,
		Excluded: cfg.ExcludedClasses,
	}
	scheduleService, err := services.NewScheduleService(client, filter, cfg.MergeKey)
	if err != nil {
		log.Fatal("Failed to create schedule service:", err)
	}
	healthService := services.NewHealthService("", version, cfg.UpstreamBaseURL)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: "GET,HEAD,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	// Custom middleware
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware())

	routes.SetupRoutes(app, routes.Controllers{
		Schedule: controllers.NewScheduleController(scheduleService, cfg.DefaultYear),
		Debug:    controllers.NewDebugController(client, cfg.DefaultYear, cfg.DebugTT),
		Health:   controllers.NewHealthController(healthService),
	})

	for _, r := range app.Stack() {
		for _, route := range r {
			logrus.Debugf("Registered route: %s %s", route.Method, route.Path)
		}
	}

	// 404 handler
	routes.SetupNotFound(app)

	logrus.WithFields(logrus.Fields{
		"port":     cfg.Port,
		"env":      cfg.AppEnv,
		"upstream": cfg.UpstreamBaseURL,
		"version":  version,
	}).Info("Server starting")
	log.Printf("Backend running: http://localhost:%s/schedule?year=%d", cfg.Port, cfg.DefaultYear)

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

// setupLogging configures the logging system
func setupLogging() {
	cfg := config.AppConfig

	// Configure logrus
	logrus.SetFormatter(&logrus.JSONFormatter{})

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	// Log to stdout in development, to file otherwise
	if cfg.AppEnv == "development" {
		logrus.SetOutput(os.Stdout)
		return
	}

	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0755); err != nil {
		log.Printf("Warning: Could not create logs directory: %v", err)
	}
	file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err == nil {
		logrus.SetOutput(file)
	}
}

// customErrorHandler handles application errors
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	// Check if it's a Fiber error
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Log the error
	logrus.WithFields(logrus.Fields{
		"error":      err.Error(),
		"path":       c.Path(),
		"method":     c.Method(),
		"ip":         c.IP(),
		"status":     code,
		"request_id": middleware.RequestID(c),
	}).Error("Request error")

	// Send error response
	return c.Status(code).JSON(fiber.Map{
		"error":  message,
		"code":   code,
		"path":   c.Path(),
		"method": c.Method(),
	})
}
