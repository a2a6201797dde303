package routes

import (
	"finki_timetable/controllers"

	"github.com/gofiber/fiber/v2"
)

// Controllers groups the handlers mounted by SetupRoutes
type Controllers struct {
	Schedule *controllers.ScheduleController
	Debug    *controllers.DebugController
	Health   *controllers.HealthController
}

// SetupRoutes configures all application routes
func SetupRoutes(app *fiber.App, ctrl Controllers) {
	// Health check endpoint
	app.Get("/health", ctrl.Health.GetHealthStatus)

	// Schedule for the front-end
	schedule := app.Group("/schedule")
	schedule.Get("/", ctrl.Schedule.GetSchedule)
	schedule.Get("/export", ctrl.Schedule.ExportSchedule)

	// Raw upstream payloads
	debug := app.Group("/debug")
	debug.Get("/ttviewer", ctrl.Debug.GetViewerData)
	debug.Get("/regulartt", ctrl.Debug.GetRegularData)
}

// SetupNotFound must be registered after all routes
func SetupNotFound(app *fiber.App) {
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":  "Route not found",
			"path":   c.Path(),
			"method": c.Method(),
		})
	})
}
