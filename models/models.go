package models

// Weekday codes used by the front-end
const (
	Monday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
)

// Weekdays maps weekday names to the day codes carried by schedule entries.
// Treat as read-only; use DaysMap for a copy safe to hand to callers.
var Weekdays = map[string]int{
	"Monday":    Monday,
	"Tuesday":   Tuesday,
	"Wednesday": Wednesday,
	"Thursday":  Thursday,
	"Friday":    Friday,
}

// WeekdayNames lists weekday names ordered by day code
var WeekdayNames = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

// DaysMap returns a fresh copy of Weekdays
func DaysMap() map[string]int {
	out := make(map[string]int, len(Weekdays))
	for k, v := range Weekdays {
		out[k] = v
	}
	return out
}

// ScheduleEntry is one subject placement of a class group on a weekday.
// Teachers and Classes are omitted from JSON when unresolved; Classrooms is always present.
type ScheduleEntry struct {
	DayCode    int    `json:"Day code"`
	Periods    []int  `json:"Periods"`
	Subject    string `json:"Subject"`
	ShortName  string `json:"Short name"`
	Teachers   string `json:"Teachers,omitempty"`
	Classrooms string `json:"Classrooms"`
	Classes    string `json:"Classes,omitempty"`
	Color      string `json:"Color"`
}

// Clone returns a copy that does not share the Periods slice
func (e ScheduleEntry) Clone() ScheduleEntry {
	e.Periods = append([]int(nil), e.Periods...)
	return e
}

// Schedule is the response body of the schedule endpoints
type Schedule struct {
	Days map[string]int  `json:"days"`
	Data []ScheduleEntry `json:"data"`
}

// EmptySchedule returns a schedule with the weekday mapping and no entries
func EmptySchedule() Schedule {
	return Schedule{Days: DaysMap(), Data: []ScheduleEntry{}}
}
