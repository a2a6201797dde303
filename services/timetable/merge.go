package timetable

import (
	"fmt"
	"sort"
	"strings"

	"finki_timetable/models"
)

// KeyFunc derives the merge key of an entry.
type KeyFunc func(models.ScheduleEntry) string

// Merge key fields accepted by KeyFromFields
const (
	KeyDay     = "day"
	KeySubject = "subject"
	KeyShort   = "short"
	KeyClass   = "class"
	KeyTeacher = "teacher"
	KeyRoom    = "room"
	KeyColor   = "color"
)

// DefaultMergeFields is the key used when none is configured
var DefaultMergeFields = []string{KeyDay, KeySubject, KeyClass, KeyTeacher, KeyRoom}

var keyExtractors = map[string]func(models.ScheduleEntry) string{
	KeyDay:     func(e models.ScheduleEntry) string { return fmt.Sprint(e.DayCode) },
	KeySubject: func(e models.ScheduleEntry) string { return e.Subject },
	KeyShort:   func(e models.ScheduleEntry) string { return e.ShortName },
	KeyClass:   func(e models.ScheduleEntry) string { return e.Classes },
	KeyTeacher: func(e models.ScheduleEntry) string { return e.Teachers },
	KeyRoom:    func(e models.ScheduleEntry) string { return e.Classrooms },
	KeyColor:   func(e models.ScheduleEntry) string { return e.Color },
}

// KeyFromFields builds a composite key function from field names.
func KeyFromFields(fields []string) (KeyFunc, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("merge key needs at least one field")
	}
	parts := make([]func(models.ScheduleEntry) string, 0, len(fields))
	for _, f := range fields {
		ex, ok := keyExtractors[strings.ToLower(strings.TrimSpace(f))]
		if !ok {
			return nil, fmt.Errorf("unknown merge key field %q", f)
		}
		parts = append(parts, ex)
	}
	return func(e models.ScheduleEntry) string {
		vals := make([]string, len(parts))
		for i, p := range parts {
			vals[i] = p(e)
		}
		return strings.Join(vals, "\x1f")
	}, nil
}

// MergeByKey collapses entries sharing a key into the first entry of that key,
// with the union of their periods in ascending order. The input is not modified
// and merging an already merged slice with the same key returns it unchanged.
func MergeByKey(items []models.ScheduleEntry, key KeyFunc) []models.ScheduleEntry {
	out := make([]models.ScheduleEntry, 0, len(items))
	pos := make(map[string]int, len(items))

	for _, it := range items {
		k := key(it)
		i, seen := pos[k]
		if !seen {
			pos[k] = len(out)
			out = append(out, it.Clone())
			continue
		}
		out[i].Periods = append(out[i].Periods, it.Periods...)
	}

	for i := range out {
		out[i].Periods = uniqueSorted(out[i].Periods)
	}
	return out
}

func uniqueSorted(periods []int) []int {
	sort.Ints(periods)
	out := periods[:0]
	for i, p := range periods {
		if i > 0 && p == periods[i-1] {
			continue
		}
		out = append(out, p)
	}
	return out
}
