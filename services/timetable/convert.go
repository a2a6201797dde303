package timetable

import (
	"finki_timetable/models"

	"github.com/sirupsen/logrus"
)

// Convert reshapes a regular timetable payload into the front-end schedule format.
// Malformed or partial payloads degrade to fewer (or no) entries, never an error.
func Convert(payload any, filter ClassFilter) models.Schedule {
	index := BuildTableIndex(payload)
	resolver := NewResolver(index)
	cards := index.Rows(TableCards)

	logrus.WithFields(logrus.Fields{
		"cards":    len(cards),
		"lessons":  len(index.Rows(TableLessons)),
		"subjects": len(index.Rows(TableSubjects)),
		"tables":   len(index),
		"indexed":  resolver.Counts(),
	}).Info("Converting regular timetable")

	schedule := models.EmptySchedule()
	schedule.Data = ExpandCards(cards, resolver, filter)
	return schedule
}
