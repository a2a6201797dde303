package timetable

import (
	"sort"

	"github.com/sirupsen/logrus"
)

// Upstream table identifiers
const (
	TableCards      = "cards"
	TableLessons    = "lessons"
	TableSubjects   = "subjects"
	TableTeachers   = "teachers"
	TableClassrooms = "classrooms"
	TableClasses    = "classes"
)

// envelopeKey wraps the real payload in upstream responses
const envelopeKey = "r"

// TableIndex maps a table identifier to its rows. Read-only once built.
type TableIndex map[string][]Record

// Rows returns the rows of a table, or nil when the table is absent.
func (ti TableIndex) Rows(id string) []Record {
	return ti[id]
}

// Unwrap returns the envelope payload when present, else the root itself.
func Unwrap(payload any) Record {
	root, _ := AsRecord(payload)
	if inner, ok := root.Record(envelopeKey); ok {
		return inner
	}
	return root
}

// BuildTableIndex extracts dbiAccessorRes.tables from a regular timetable payload.
// A missing or malformed table list yields an empty index, which callers treat as
// "no schedule available".
func BuildTableIndex(payload any) TableIndex {
	root := Unwrap(payload)
	index := TableIndex{}

	accessor, _ := root.Record("dbiAccessorRes")
	tables, ok := accessor.List("tables")
	if !ok {
		logrus.WithField("keys", recordKeys(root)).Warn("No tables at r.dbiAccessorRes.tables")
		return index
	}

	for _, raw := range tables {
		table, ok := AsRecord(raw)
		if !ok {
			continue
		}
		id := table.String("id", "")
		if id == "" {
			def, _ := table.Record("def")
			id = def.String("id", "")
		}
		rows, ok := table.List("data_rows")
		if id == "" || !ok {
			continue
		}

		records := make([]Record, 0, len(rows))
		for _, row := range rows {
			if rec, ok := AsRecord(row); ok {
				records = append(records, rec)
			}
		}
		index[id] = records
	}

	return index
}

func recordKeys(r Record) []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
