package timetable

import (
	"math"
	"strings"

	"finki_timetable/models"
)

// Fallbacks for unresolved subjects
const (
	MissingSubject = "N/A"
	DefaultColor   = "#4b5563"
)

const (
	maxDayCode = models.Friday

	// MaxDuration caps how many consecutive periods one card occupies.
	MaxDuration = 32
	// MaxPeriod bounds card periods; larger values are treated as invalid.
	MaxPeriod = math.MaxInt32 - MaxDuration
)

// ExpandCards turns every card into one schedule entry per occupied period.
// Cards with an invalid period or day, an unknown lesson or a class group
// rejected by the filter produce no entries.
func ExpandCards(cards []Record, resolver *Resolver, filter ClassFilter) []models.ScheduleEntry {
	items := make([]models.ScheduleEntry, 0, len(cards))

	for _, card := range cards {
		period, ok := cardPeriod(card)
		if !ok {
			continue
		}
		day, ok := cardDay(card)
		if !ok {
			continue
		}

		lessonID, _ := card.ID("lessonid")
		lesson, ok := resolver.Lesson(lessonID)
		if !ok {
			continue
		}

		subject, _ := resolver.Subject(lesson.String("subjectid", ""))
		fullName := subject.String("name", MissingSubject)
		shortName := subject.String("short", fullName)
		color := subject.String("color", DefaultColor)

		var teacherName string
		if id, ok := lesson.FirstID("teacherids"); ok {
			teacher, _ := resolver.Teacher(id)
			teacherName = teacher.DisplayName()
		}

		var roomName string
		if id, ok := card.FirstID("classroomids"); ok {
			room, _ := resolver.Classroom(id)
			roomName = room.DisplayName()
		}

		var classText string
		if id, ok := lesson.FirstID("classids"); ok {
			class, _ := resolver.Class(id)
			classText = class.DisplayName()
		}

		if !filter.Matches(classText) {
			continue
		}

		duration := lessonDuration(lesson)
		for d := 0; d < duration; d++ {
			items = append(items, models.ScheduleEntry{
				DayCode:    day,
				Periods:    []int{period + d},
				Subject:    fullName,
				ShortName:  shortName,
				Teachers:   teacherName,
				Classrooms: roomName,
				Classes:    classText,
				Color:      color,
			})
		}
	}

	return items
}

// cardPeriod accepts whole numbers in [0, MaxPeriod] only.
func cardPeriod(card Record) (int, bool) {
	n, ok := card.Number("period")
	if !ok || n < 0 || n > MaxPeriod || n != math.Trunc(n) {
		return 0, false
	}
	return int(n), true
}

// cardDay returns the position of the first "1" in the day mask.
func cardDay(card Record) (int, bool) {
	mask, _ := card.ID("days")
	day := strings.IndexByte(mask, '1')
	if day < 0 || day > maxDayCode {
		return 0, false
	}
	return day, true
}

func lessonDuration(lesson Record) int {
	n, ok := lesson.Number("durationperiods")
	if !ok || n < 1 {
		return 1
	}
	if n > MaxDuration {
		return MaxDuration
	}
	return int(math.Ceil(n))
}
