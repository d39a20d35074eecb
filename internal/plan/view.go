package plan

import (
	"math"

	"weekly-planner/internal/model"
)

// ViewOptions filters the calendar view of a week.
type ViewOptions struct {
	// Statuses limits the view to the given statuses. Empty means all.
	Statuses      []model.Status
	IncludeHidden bool
	// Unsorted keeps the stored order instead of SortForDay.
	Unsorted bool
}

// DayBuckets groups tasks by day. Unscheduled tasks are collected under
// model.Unscheduled.
func DayBuckets(tasks []model.Task, opts ViewOptions) map[model.Day][]model.Task {
	allowed := make(map[model.Status]bool, len(opts.Statuses))
	for _, s := range opts.Statuses {
		allowed[s] = true
	}

	buckets := make(map[model.Day][]model.Task, len(model.Days))
	for _, t := range tasks {
		if len(allowed) > 0 && !allowed[t.Status] {
			continue
		}
		if t.Hidden && !opts.IncludeHidden {
			continue
		}
		buckets[t.Day] = append(buckets[t.Day], t)
	}
	if !opts.Unsorted {
		for day, items := range buckets {
			buckets[day] = SortForDay(items)
		}
	}
	return buckets
}

// Completion returns the share of checked tasks as a percentage rounded to
// one decimal, or nil when there are no tasks.
func Completion(tasks []model.Task) *float64 {
	if len(tasks) == 0 {
		return nil
	}
	done := 0
	for _, t := range tasks {
		if t.Status == model.Checked {
			done++
		}
	}
	pct := math.Round(1000*float64(done)/float64(len(tasks))) / 10
	return &pct
}
