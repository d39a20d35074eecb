// Package plan implements the weekly task lifecycle: calendar indexing,
// normalization of loosely typed task records, merging of proposed plans,
// per-day ordering and postpone rescheduling.
//
// Every function in this package is synchronous and free of I/O. Callers that
// share a Store between goroutines must serialize access themselves.
package plan

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"weekly-planner/internal/model"
)

// WeekKeyOf returns the ISO year-week key of the given date.
func WeekKeyOf(d time.Time) model.WeekKey {
	year, week := d.ISOWeek()
	return model.WeekKey(fmt.Sprintf("%d-W%02d", year, week))
}

// ParseWeekKey returns the Monday of an ISO week key. ok is false when the
// key is malformed or names a week that does not exist in that year.
func ParseWeekKey(key model.WeekKey) (monday time.Time, ok bool) {
	yearPart, weekPart, found := strings.Cut(strings.TrimSpace(string(key)), "-W")
	if !found {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(yearPart)
	if err != nil || year < 1 || year > 9999 {
		return time.Time{}, false
	}
	week, err := strconv.Atoi(weekPart)
	if err != nil || week < 1 || week > 53 {
		return time.Time{}, false
	}

	// January 4th always falls in ISO week 1.
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	monday = mondayOf(jan4).AddDate(0, 0, (week-1)*7)
	if y, w := monday.ISOWeek(); y != year || w != week {
		return time.Time{}, false
	}
	return monday, true
}

// WeekStart returns the Monday of the given week. Malformed keys fall back to
// the Monday of the current week so a calendar can always be rendered.
func WeekStart(key model.WeekKey) time.Time {
	return weekStartAt(key, time.Now())
}

func weekStartAt(key model.WeekKey, now time.Time) time.Time {
	if monday, ok := ParseWeekKey(key); ok {
		return monday
	}
	return mondayOf(now)
}

// NextWeek returns the key of the week after key.
func NextWeek(key model.WeekKey) model.WeekKey {
	return WeekKeyOf(WeekStart(key).AddDate(0, 0, 7))
}

// PrevWeek returns the key of the week before key.
func PrevWeek(key model.WeekKey) model.WeekKey {
	return WeekKeyOf(WeekStart(key).AddDate(0, 0, -7))
}

// WeekOfMonth returns the 1-based index of the Monday-aligned week of d
// within its month.
func WeekOfMonth(d time.Time) int {
	first := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	firstMonday := mondayOf(first)
	thisMonday := mondayOf(day)
	return int(thisMonday.Sub(firstMonday).Hours()/24)/7 + 1
}

// WeekLabel renders a short human label such as "24.02 week 3" for the
// Monday of key.
func WeekLabel(key model.WeekKey) string {
	monday := WeekStart(key)
	return fmt.Sprintf("%02d.%02d week %d", monday.Year()%100, int(monday.Month()), WeekOfMonth(monday))
}

// DateOf returns the calendar date of a day slot. Unscheduled days map to the
// Monday of the week.
func DateOf(key model.WeekKey, day model.Day) time.Time {
	offset, ok := DayOffset(day)
	if !ok {
		offset = 0
	}
	return WeekStart(key).AddDate(0, 0, offset)
}

// DayOffset maps a day label to 0 (Monday) through 6 (Sunday).
func DayOffset(day model.Day) (int, bool) {
	for i, d := range model.Days {
		if d == day {
			return i, true
		}
	}
	return 0, false
}

// DayOfOffset is the inverse of DayOffset. Out of range offsets are
// unscheduled.
func DayOfOffset(offset int) model.Day {
	if offset < 0 || offset >= len(model.Days) {
		return model.Unscheduled
	}
	return model.Days[offset]
}

// DayOf returns the day label of a calendar date.
func DayOf(d time.Time) model.Day {
	// time.Weekday starts on Sunday.
	return DayOfOffset((int(d.Weekday()) + 6) % 7)
}

var dayAliases = map[string]model.Day{
	"mon": model.Monday, "monday": model.Monday, "월": model.Monday,
	"tue": model.Tuesday, "tuesday": model.Tuesday, "화": model.Tuesday,
	"wed": model.Wednesday, "wednesday": model.Wednesday, "수": model.Wednesday,
	"thu": model.Thursday, "thursday": model.Thursday, "목": model.Thursday,
	"fri": model.Friday, "friday": model.Friday, "금": model.Friday,
	"sat": model.Saturday, "saturday": model.Saturday, "토": model.Saturday,
	"sun": model.Sunday, "sunday": model.Sunday, "일": model.Sunday,
}

// ParseDay normalizes free-form input to a day label. Unknown input is
// unscheduled.
func ParseDay(raw string) model.Day {
	return dayAliases[strings.ToLower(strings.TrimSpace(raw))]
}

func mondayOf(d time.Time) time.Time {
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
