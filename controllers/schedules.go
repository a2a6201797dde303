package controllers

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"finki_timetable/middleware"
	"finki_timetable/models"
	"finki_timetable/services"
	"finki_timetable/services/edupage"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// ScheduleProvider builds schedules from the upstream timetable
type ScheduleProvider interface {
	GetSchedule(ctx context.Context, year int) (models.Schedule, error)
	GetMergedSchedule(ctx context.Context, year int) (models.Schedule, error)
}

// ScheduleController serves the front-end schedule
type ScheduleController struct {
	provider    ScheduleProvider
	defaultYear int
}

// NewScheduleController constructs a controller backed by the provided pipeline.
func NewScheduleController(provider ScheduleProvider, defaultYear int) *ScheduleController {
	return &ScheduleController{provider: provider, defaultYear: defaultYear}
}

// GetSchedule returns the filtered weekly schedule
// GET /schedule?year=2025&merge=true
func (sc *ScheduleController) GetSchedule(c *fiber.Ctx) error {
	schedule, err := sc.load(c)
	if schedule == nil {
		return err
	}
	return c.JSON(schedule)
}

// ExportSchedule returns the same entries as an XLSX workbook
// GET /schedule/export?year=2025&merge=true
func (sc *ScheduleController) ExportSchedule(c *fiber.Ctx) error {
	schedule, err := sc.load(c)
	if schedule == nil {
		return err
	}

	workbook, err := services.BuildScheduleWorkbook(*schedule)
	if err != nil {
		logrus.WithError(err).Error("Failed to build schedule workbook")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to export schedule",
		})
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="schedule-%s.xlsx"`, c.Query("year", strconv.Itoa(sc.defaultYear))))
	return c.Send(workbook)
}

// load runs the pipeline. A nil schedule means the error response is already written.
func (sc *ScheduleController) load(c *fiber.Ctx) (*models.Schedule, error) {
	year, err := parseYear(c, sc.defaultYear)
	if err != nil {
		return nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid year",
		})
	}

	merge := false
	if raw := c.Query("merge"); raw != "" {
		if merge, err = strconv.ParseBool(raw); err != nil {
			return nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid merge flag",
			})
		}
	}

	var schedule models.Schedule
	if merge {
		schedule, err = sc.provider.GetMergedSchedule(c.UserContext(), year)
	} else {
		schedule, err = sc.provider.GetSchedule(c.UserContext(), year)
	}
	if err != nil {
		return nil, upstreamFailure(c, err)
	}
	return &schedule, nil
}

func parseYear(c *fiber.Ctx, def int) (int, error) {
	raw := c.Query("year")
	if raw == "" {
		return def, nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 1900 || year > 9999 {
		return 0, fmt.Errorf("invalid year %q", raw)
	}
	return year, nil
}

// upstreamFailure reports an upstream communication failure with its details
func upstreamFailure(c *fiber.Ctx, err error) error {
	var details any = err.Error()
	var statusErr *edupage.StatusError
	if errors.As(err, &statusErr) {
		details = statusErr.Details()
	}

	logrus.WithFields(logrus.Fields{
		"error":      err.Error(),
		"path":       c.Path(),
		"request_id": middleware.RequestID(c),
	}).Error("Failed to fetch timetable data")

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   "Failed to fetch timetable data",
		"details": details,
	})
}
