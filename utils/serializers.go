package utils

import (
	"finki_timetable/models"
)

// ScheduleSheetHeader is the header row of spreadsheet exports
var ScheduleSheetHeader = []interface{}{
	"Day", "Day code", "Periods", "Subject", "Short name", "Teachers", "Classrooms", "Classes", "Color",
}

// DayName returns the weekday name of a day code, or "" when out of range
func DayName(code int) string {
	if code < 0 || code >= len(models.WeekdayNames) {
		return ""
	}
	return models.WeekdayNames[code]
}

// ToScheduleRow flattens an entry into spreadsheet cells in header order
func ToScheduleRow(e models.ScheduleEntry) []interface{} {
	return []interface{}{
		DayName(e.DayCode),
		e.DayCode,
		JoinInts(e.Periods),
		e.Subject,
		e.ShortName,
		e.Teachers,
		e.Classrooms,
		e.Classes,
		e.Color,
	}
}
