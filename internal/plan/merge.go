package plan

import (
	"strings"
	"time"

	"weekly-planner/internal/model"
)

// Key identifies one logical task occurrence.
type Key struct {
	Week model.WeekKey
	Day  model.Day
	Text string
}

// KeyOf returns the dedup key of t: week, day and lowercased trimmed text.
func KeyOf(t model.Task) Key {
	return Key{Week: t.Week, Day: t.Day, Text: strings.ToLower(strings.TrimSpace(t.Text))}
}

// Merge combines the stored tasks of a week with an incoming list. Existing
// tasks come first in their stored order and are kept as they are, even when
// two of them share a key; an incoming task is appended only when its key has
// not been seen. Tasks without text or without a day are dropped.
func Merge(existing, incoming []model.Task, week model.WeekKey) []model.Task {
	now := time.Now()
	merged := make([]model.Task, 0, len(existing)+len(incoming))
	seen := make(map[Key]struct{}, len(existing)+len(incoming))

	for _, t := range existing {
		t = NormalizeTask(t, week, now)
		if !placeable(t) {
			continue
		}
		seen[KeyOf(t)] = struct{}{}
		merged = append(merged, t)
	}
	for _, t := range incoming {
		t = NormalizeTask(t, week, now)
		if !placeable(t) {
			continue
		}
		key := KeyOf(t)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		merged = append(merged, t)
	}
	return merged
}

func placeable(t model.Task) bool {
	return t.Text != "" && t.Day != model.Unscheduled
}

// NormalizeAll converts raw proposal records into tasks owned by week,
// discarding records without text.
func NormalizeAll(raws []map[string]any, week model.WeekKey, now time.Time) []model.Task {
	out := make([]model.Task, 0, len(raws))
	for _, raw := range raws {
		t := Normalize(raw, week, now)
		if t.Text == "" {
			continue
		}
		out = append(out, t)
	}
	return out
}
