package plan

import (
	"sort"

	"weekly-planner/internal/model"
)

// SortForDay returns a copy of items ordered by status priority (in progress,
// postponed, checked) and then by creation time, oldest first. Ties keep
// their input order.
func SortForDay(items []model.Task) []model.Task {
	out := make([]model.Task, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := priority(out[i].Status), priority(out[j].Status)
		if pi != pj {
			return pi < pj
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
