package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finki_timetable/models"
)

func entry(day int, subject, class string, periods ...int) models.ScheduleEntry {
	return models.ScheduleEntry{DayCode: day, Periods: periods, Subject: subject, ShortName: subject, Classes: class, Color: DefaultColor}
}

func TestMergeByKey(t *testing.T) {
	key, err := KeyFromFields(DefaultMergeFields)
	require.NoError(t, err)

	items := []models.ScheduleEntry{
		entry(0, "Math", "3г-ПИТ", 4),
		entry(0, "Math", "3г-ПИТ", 2),
		entry(1, "Math", "3г-ПИТ", 1),
		entry(0, "Math", "3г-ПИТ", 3, 2),
		entry(0, "Physics", "3г-ПИТ", 1),
	}

	merged := MergeByKey(items, key)
	require.Len(t, merged, 3)
	assert.Equal(t, []int{2, 3, 4}, merged[0].Periods)
	assert.Equal(t, 1, merged[1].DayCode)
	assert.Equal(t, "Physics", merged[2].Subject)

	assert.Equal(t, []int{4}, items[0].Periods, "input must not be modified")
}

func TestMergeByKeyIdempotent(t *testing.T) {
	key, err := KeyFromFields([]string{"day", "subject"})
	require.NoError(t, err)

	items := []models.ScheduleEntry{
		entry(2, "A", "x", 5),
		entry(2, "A", "y", 1),
		entry(2, "B", "x", 2),
		entry(2, "A", "x", 5),
	}

	once := MergeByKey(items, key)
	twice := MergeByKey(once, key)
	assert.Equal(t, once, twice)
	assert.Equal(t, []int{1, 5}, once[0].Periods)
	assert.Equal(t, "x", once[0].Classes, "first entry shape is kept")
}

func TestMergeByKeyEmpty(t *testing.T) {
	key, err := KeyFromFields([]string{"day"})
	require.NoError(t, err)

	merged := MergeByKey(nil, key)
	assert.NotNil(t, merged)
	assert.Empty(t, merged)
}

func TestKeyFromFieldsErrors(t *testing.T) {
	_, err := KeyFromFields(nil)
	assert.Error(t, err)

	_, err = KeyFromFields([]string{"day", "weather"})
	assert.ErrorContains(t, err, "weather")
}
