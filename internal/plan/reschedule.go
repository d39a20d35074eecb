package plan

import "weekly-planner/internal/model"

// Advance moves a postponed task to its next slot: an unscheduled task lands
// on Monday of its week, Monday through Saturday roll to the following day,
// and Sunday wraps to Monday of the next week. Only Week, Day and Status
// change.
func Advance(t model.Task) model.Task {
	t.Status = model.Postponed
	offset, ok := DayOffset(t.Day)
	switch {
	case !ok:
		t.Day = model.Monday
	case t.Day != model.Sunday:
		t.Day = DayOfOffset(offset + 1)
	default:
		t.Week = WeekKeyOf(WeekStart(t.Week).AddDate(0, 0, 7))
		t.Day = model.Monday
	}
	return t
}
