package timetable

import "strings"

// ClassFilter selects the class groups a schedule is built for.
// Upstream labels append variant suffixes to a base class name, so both lists
// match by prefix as well as exactly. Exclusions win over targets.
type ClassFilter struct {
	Targets  []string
	Excluded []string
}

// Matches reports whether a class-group label belongs to the target audience.
func (f ClassFilter) Matches(label string) bool {
	c := strings.TrimSpace(label)
	if c == "" {
		return false
	}

	for _, ex := range f.Excluded {
		if c == ex || strings.HasPrefix(c, ex) {
			return false
		}
	}

	for _, target := range f.Targets {
		if c == target {
			return true
		}
	}

	for _, base := range f.Targets {
		if strings.HasPrefix(c, base) {
			return true
		}
	}

	return false
}
