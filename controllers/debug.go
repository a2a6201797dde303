package controllers

import (
	"finki_timetable/services"
	"finki_timetable/utils"

	"github.com/gofiber/fiber/v2"
)

// DebugController passes raw upstream payloads through for inspection
type DebugController struct {
	source      services.TimetableSource
	defaultYear int
	defaultTT   string
}

// NewDebugController constructs a controller backed by the upstream source.
func NewDebugController(source services.TimetableSource, defaultYear int, defaultTT string) *DebugController {
	return &DebugController{source: source, defaultYear: defaultYear, defaultTT: defaultTT}
}

// GetViewerData GET /debug/ttviewer?year=2025
func (dc *DebugController) GetViewerData(c *fiber.Ctx) error {
	year, err := parseYear(c, dc.defaultYear)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid year",
		})
	}

	payload, err := dc.source.FetchViewerData(c.UserContext(), year)
	if err != nil {
		return upstreamFailure(c, err)
	}
	return c.JSON(payload)
}

// GetRegularData GET /debug/regulartt?tt=27
func (dc *DebugController) GetRegularData(c *fiber.Ctx) error {
	tt := utils.SanitizeString(c.Query("tt", dc.defaultTT))
	if !utils.IsDigits(tt) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid timetable number",
		})
	}

	payload, err := dc.source.FetchRegularData(c.UserContext(), tt)
	if err != nil {
		return upstreamFailure(c, err)
	}
	return c.JSON(payload)
}
