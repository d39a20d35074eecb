package plan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weekly-planner/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWeekKeyOf(t *testing.T) {
	cases := []struct {
		in   time.Time
		want model.WeekKey
	}{
		{date(2024, time.February, 12), "2024-W07"},
		{date(2024, time.February, 18), "2024-W07"},
		{date(2024, time.January, 1), "2024-W01"},
		{date(2021, time.January, 3), "2020-W53"},
		{date(2024, time.December, 30), "2025-W01"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, WeekKeyOf(tc.in), tc.in.Format("2006-01-02"))
	}
}

func TestParseWeekKey(t *testing.T) {
	monday, ok := ParseWeekKey("2024-W07")
	require.True(t, ok)
	assert.Equal(t, date(2024, time.February, 12), monday)

	monday, ok = ParseWeekKey("2020-W53")
	require.True(t, ok)
	assert.Equal(t, date(2020, time.December, 28), monday)

	for _, bad := range []model.WeekKey{"", "2024", "2024-07", "2024-Wxx", "2024-W00", "2024-W54", "2021-W53", "abcd-W07"} {
		_, ok := ParseWeekKey(bad)
		assert.False(t, ok, string(bad))
	}
}

func TestWeekStartRoundTrip(t *testing.T) {
	d := date(2023, time.January, 1)
	for i := 0; i < 800; i++ {
		key := WeekKeyOf(d)
		monday := WeekStart(key)
		assert.Equal(t, time.Monday, monday.Weekday())
		assert.Equal(t, key, WeekKeyOf(monday))
		assert.False(t, d.Before(monday), "date %s precedes its Monday", d)
		d = d.AddDate(0, 0, 1)
	}
}

func TestWeekStartFallsBackToCurrentWeek(t *testing.T) {
	now := date(2024, time.May, 16)
	assert.Equal(t, date(2024, time.May, 13), weekStartAt("garbage", now))
	assert.Equal(t, date(2024, time.February, 12), weekStartAt("2024-W07", now))

	got := WeekStart("not-a-week")
	assert.Equal(t, WeekKeyOf(time.Now()), WeekKeyOf(got))
}

func TestNextAndPrevWeek(t *testing.T) {
	assert.Equal(t, model.WeekKey("2024-W08"), NextWeek("2024-W07"))
	assert.Equal(t, model.WeekKey("2025-W01"), NextWeek("2024-W52"))
	assert.Equal(t, model.WeekKey("2020-W53"), PrevWeek("2021-W01"))
}

func TestWeekOfMonth(t *testing.T) {
	assert.Equal(t, 1, WeekOfMonth(date(2024, time.January, 1)))
	assert.Equal(t, 3, WeekOfMonth(date(2024, time.February, 12)))
	assert.Equal(t, 1, WeekOfMonth(date(2024, time.February, 1)))
	assert.Equal(t, 5, WeekOfMonth(date(2024, time.March, 31)))
}

func TestWeekLabel(t *testing.T) {
	assert.Equal(t, "24.02 week 3", WeekLabel("2024-W07"))
}

func TestDayOffsets(t *testing.T) {
	for i, d := range model.Days {
		off, ok := DayOffset(d)
		require.True(t, ok)
		assert.Equal(t, i, off)
		assert.Equal(t, d, DayOfOffset(i))
	}
	_, ok := DayOffset(model.Unscheduled)
	assert.False(t, ok)
	assert.Equal(t, model.Unscheduled, DayOfOffset(7))
	assert.Equal(t, model.Unscheduled, DayOfOffset(-1))
}

func TestDayOfAndDateOf(t *testing.T) {
	assert.Equal(t, model.Monday, DayOf(date(2024, time.February, 12)))
	assert.Equal(t, model.Sunday, DayOf(date(2024, time.February, 18)))
	assert.Equal(t, date(2024, time.February, 15), DateOf("2024-W07", model.Thursday))
	assert.Equal(t, date(2024, time.February, 12), DateOf("2024-W07", model.Unscheduled))
}

func TestParseDay(t *testing.T) {
	assert.Equal(t, model.Monday, ParseDay("Mon"))
	assert.Equal(t, model.Monday, ParseDay(" monday "))
	assert.Equal(t, model.Tuesday, ParseDay("TUE"))
	assert.Equal(t, model.Sunday, ParseDay("일"))
	assert.Equal(t, model.Wednesday, ParseDay("수"))
	assert.Equal(t, model.Unscheduled, ParseDay("someday"))
	assert.Equal(t, model.Unscheduled, ParseDay(""))
}
