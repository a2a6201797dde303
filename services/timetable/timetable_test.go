package timetable

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finki_timetable/models"
)

var testFilter = ClassFilter{
	Targets:  []string{"3г-ПИТ", "4г-ПИТ", "1y-SEIS", "2y-SEIS"},
	Excluded: []string{"1y-SEIS-Int"},
}

func decode(t *testing.T, raw string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

const regularFixture = `{
  "r": {
    "dbiAccessorRes": {
      "tables": [
        {"id": "cards", "data_rows": [
          {"id": "c1", "period": "3", "days": "00100", "lessonid": "L1", "classroomids": ["R1"]},
          {"id": "c2", "period": 1, "days": "10000", "lessonid": "L2", "classroomids": []},
          {"id": "c3", "period": 2, "days": "01000", "lessonid": "L3", "classroomids": ["R9"]},
          {"id": "c4", "period": 2, "days": "00001", "lessonid": "missing"},
          {"id": "c5", "period": -1, "days": "10000", "lessonid": "L1"},
          {"id": "c6", "period": "x", "days": "10000", "lessonid": "L1"},
          {"id": "c7", "period": 4, "days": "000001", "lessonid": "L1"},
          {"id": "c8", "period": 4, "days": "00000", "lessonid": "L1"}
        ]},
        {"def": {"id": "lessons"}, "data_rows": [
          {"id": "L1", "subjectid": 10, "teacherids": ["T1", "T2"], "classids": ["K1"], "durationperiods": 2},
          {"id": "L2", "subjectid": "99", "teacherids": [], "classids": ["K2"]},
          {"id": "L3", "subjectid": 10, "teacherids": ["T1"], "classids": ["K3"], "durationperiods": "abc"}
        ]},
        {"id": "subjects", "data_rows": [
          {"id": 10, "name": "Web Programming", "short": "WP", "color": "#ff0000"}
        ]},
        {"id": "teachers", "data_rows": [
          {"id": "T1", "short": "J. Doe", "name": "John Doe"}
        ]},
        {"id": "classrooms", "data_rows": [
          {"id": "R1", "name": "Lab 215"}
        ]},
        {"id": "classes", "data_rows": [
          {"id": "K1", "short": "3г-ПИТ-б"},
          {"id": "K2", "name": "1y-SEIS"},
          {"id": "K3", "short": "1y-SEIS-Int"}
        ]},
        {"id": "broken", "data_rows": {"not": "a list"}},
        {"data_rows": []}
      ]
    }
  }
}`

func TestBuildTableIndex(t *testing.T) {
	index := BuildTableIndex(decode(t, regularFixture))

	assert.Len(t, index, 6)
	assert.Len(t, index.Rows(TableCards), 8)
	assert.Len(t, index.Rows(TableLessons), 3)
	assert.NotContains(t, index, "broken")
	assert.Nil(t, index.Rows("missing"))
}

func TestBuildTableIndexWithoutEnvelope(t *testing.T) {
	raw := `{"dbiAccessorRes": {"tables": [{"id": "cards", "data_rows": [{"id": 1}, "junk"]}]}}`
	index := BuildTableIndex(decode(t, raw))

	require.Contains(t, index, TableCards)
	assert.Len(t, index.Rows(TableCards), 1)
}

func TestBuildTableIndexMissingTables(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "null payload", raw: `null`},
		{name: "array payload", raw: `[1, 2]`},
		{name: "no accessor", raw: `{"r": {"other": true}}`},
		{name: "tables not a list", raw: `{"r": {"dbiAccessorRes": {"tables": "nope"}}}`},
		{name: "empty tables", raw: `{"r": {"dbiAccessorRes": {"tables": []}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, BuildTableIndex(decode(t, tt.raw)))
		})
	}
}

func TestResolverLookups(t *testing.T) {
	r := NewResolver(BuildTableIndex(decode(t, regularFixture)))

	subject, ok := r.Subject("10")
	require.True(t, ok, "numeric ids resolve by their string form")
	assert.Equal(t, "WP", subject.String("short", ""))

	_, ok = r.Lesson("nope")
	assert.False(t, ok)

	counts := r.Counts()
	assert.Equal(t, 3, counts[TableLessons])
	assert.Equal(t, 1, counts[TableTeachers])
}

func TestEmptyIndexRoundTrip(t *testing.T) {
	r := NewResolver(TableIndex{})
	for kind, n := range r.Counts() {
		assert.Zero(t, n, kind)
	}
	_, ok := r.Class("K1")
	assert.False(t, ok)

	schedule := Convert(nil, testFilter)
	assert.Equal(t, models.Weekdays, schedule.Days)
	require.NotNil(t, schedule.Data)
	assert.Empty(t, schedule.Data)
}

func TestClassFilter(t *testing.T) {
	filter := ClassFilter{
		Targets:  []string{"3г-ПИТ", "1y-SEIS"},
		Excluded: []string{"1y-SEIS-Int"},
	}

	tests := []struct {
		label string
		want  bool
	}{
		{label: "3г-ПИТ", want: true},
		{label: "  3г-ПИТ  ", want: true},
		{label: "3г-ПИТ-б", want: true},
		{label: "3г-ПИТ2", want: true},
		{label: "1y-SEIS", want: true},
		{label: "1y-SEIS-Int", want: false},
		{label: "1y-SEIS-Int-a", want: false},
		{label: "5г-XYZ", want: false},
		{label: "", want: false},
		{label: "   ", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, filter.Matches(tt.label))
		})
	}
}

func TestExpandCards(t *testing.T) {
	schedule := Convert(decode(t, regularFixture), testFilter)

	expected := []models.ScheduleEntry{
		{DayCode: 2, Periods: []int{3}, Subject: "Web Programming", ShortName: "WP", Teachers: "J. Doe", Classrooms: "Lab 215", Classes: "3г-ПИТ-б", Color: "#ff0000"},
		{DayCode: 2, Periods: []int{4}, Subject: "Web Programming", ShortName: "WP", Teachers: "J. Doe", Classrooms: "Lab 215", Classes: "3г-ПИТ-б", Color: "#ff0000"},
		{DayCode: 0, Periods: []int{1}, Subject: MissingSubject, ShortName: MissingSubject, Classrooms: "", Classes: "1y-SEIS", Color: DefaultColor},
	}
	assert.Equal(t, expected, schedule.Data)
}

func TestExpandCardsDropsInvalidCards(t *testing.T) {
	r := NewResolver(BuildTableIndex(decode(t, regularFixture)))

	tests := []struct {
		name string
		card string
	}{
		{name: "negative period", card: `{"period": -2, "days": "10000", "lessonid": "L1"}`},
		{name: "fractional period", card: `{"period": 1.5, "days": "10000", "lessonid": "L1"}`},
		{name: "blank period", card: `{"period": " ", "days": "10000", "lessonid": "L1"}`},
		{name: "missing period", card: `{"days": "10000", "lessonid": "L1"}`},
		{name: "period above int range", card: `{"period": 1e19, "days": "10000", "lessonid": "L1"}`},
		{name: "huge period", card: `{"period": 1e300, "days": "10000", "lessonid": "L1"}`},
		{name: "huge period string", card: `{"period": "1e19", "days": "10000", "lessonid": "L1"}`},
		{name: "weekend day", card: `{"period": 1, "days": "0000010", "lessonid": "L1"}`},
		{name: "no day", card: `{"period": 1, "lessonid": "L1"}`},
		{name: "unknown lesson", card: `{"period": 1, "days": "10000", "lessonid": "L404"}`},
		{name: "excluded class", card: `{"period": 1, "days": "10000", "lessonid": "L3"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card, ok := AsRecord(decode(t, tt.card))
			require.True(t, ok)
			assert.Empty(t, ExpandCards([]Record{card}, r, testFilter))
		})
	}
}

func TestExpandCardsDuration(t *testing.T) {
	for _, n := range []int{1, 2, 3, 5} {
		index := TableIndex{
			TableLessons:    {{"id": "L", "durationperiods": float64(n), "subjectid": "S", "teacherids": []any{"T"}, "classids": []any{"K"}}},
			TableSubjects:   {{"id": "S", "name": "Operating Systems", "short": "OS", "color": "#ff0000"}},
			TableTeachers:   {{"id": "T", "short": "Petrov"}},
			TableClassrooms: {{"id": "R", "name": "Lab 3"}},
			TableClasses:    {{"id": "K", "short": "4г-ПИТ"}},
		}
		card := Record{"period": float64(6), "days": "00010", "lessonid": "L", "classroomids": []any{"R"}}

		entries := ExpandCards([]Record{card}, NewResolver(index), testFilter)
		require.Len(t, entries, n)

		want := entries[0]
		want.Periods = nil
		for i, e := range entries {
			assert.Equal(t, []int{6 + i}, e.Periods)
			e.Periods = nil
			assert.Equal(t, want, e)
		}
		assert.Equal(t, 3, want.DayCode)
		assert.Equal(t, "Petrov", want.Teachers)
		assert.Equal(t, "Lab 3", want.Classrooms)
	}
}

func TestExpandCardsDurationIsCapped(t *testing.T) {
	for _, d := range []float64{1e9, 1e300} {
		index := TableIndex{
			TableLessons: {{"id": "L", "durationperiods": d, "classids": []any{"K"}}},
			TableClasses: {{"id": "K", "short": "4г-ПИТ"}},
		}
		card := Record{"period": float64(MaxPeriod), "days": "1", "lessonid": "L"}

		entries := ExpandCards([]Record{card}, NewResolver(index), testFilter)
		require.Len(t, entries, MaxDuration)
		last := entries[len(entries)-1].Periods[0]
		assert.Equal(t, MaxPeriod+MaxDuration-1, last)
	}
}

func TestExpandCardsSubjectWithoutShortName(t *testing.T) {
	index := TableIndex{
		TableLessons:  {{"id": "L", "subjectid": "S", "classids": []any{"K"}}},
		TableSubjects: {{"id": "S", "name": "Databases"}},
		TableClasses:  {{"id": "K", "short": "3г-ПИТ"}},
	}
	card := Record{"period": float64(0), "days": "1", "lessonid": "L"}

	entries := ExpandCards([]Record{card}, NewResolver(index), testFilter)
	require.Len(t, entries, 1)
	assert.Equal(t, "Databases", entries[0].ShortName)
	assert.Equal(t, DefaultColor, entries[0].Color)
}

func TestScheduleEntryJSON(t *testing.T) {
	entry := models.ScheduleEntry{DayCode: 1, Periods: []int{2}, Subject: "S", ShortName: "s", Color: DefaultColor}
	raw, err := json.Marshal(entry)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Day code":1,"Periods":[2],"Subject":"S","Short name":"s","Classrooms":"","Color":"#4b5563"}`, string(raw))
}
