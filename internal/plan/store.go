package plan

import (
	"sort"
	"time"

	"weekly-planner/internal/model"
)

// Store holds task collections keyed by week for one session. It is not safe
// for concurrent use.
type Store struct {
	weeks map[model.WeekKey][]model.Task
	dirty map[model.WeekKey]bool
	now   func() time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		weeks: make(map[model.WeekKey][]model.Task),
		dirty: make(map[model.WeekKey]bool),
		now:   time.Now,
	}
}

// Load replaces the collection of a week without marking it dirty. Tasks are
// normalized and entries without text are dropped.
func (s *Store) Load(week model.WeekKey, tasks []model.Task) {
	now := s.now()
	list := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		t = NormalizeTask(t, week, now)
		if t.Text == "" {
			continue
		}
		list = append(list, t)
	}
	s.weeks[week] = list
}

// Loaded reports whether a week has been loaded or written.
func (s *Store) Loaded(week model.WeekKey) bool {
	_, ok := s.weeks[week]
	return ok
}

// Week returns a copy of the ordered collection of a week.
func (s *Store) Week(week model.WeekKey) []model.Task {
	list := s.weeks[week]
	out := make([]model.Task, len(list))
	copy(out, list)
	return out
}

// Weeks lists the known week keys in ascending order.
func (s *Store) Weeks() []model.WeekKey {
	keys := make([]model.WeekKey, 0, len(s.weeks))
	for k := range s.weeks {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Dirty lists the weeks modified since they were loaded, in ascending order.
func (s *Store) Dirty() []model.WeekKey {
	keys := make([]model.WeekKey, 0, len(s.dirty))
	for k := range s.dirty {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Add appends a directly created task to its week. The task is returned in
// normalized form; ok is false when it has no text.
func (s *Store) Add(week model.WeekKey, t model.Task) (model.Task, bool) {
	t = NormalizeTask(t, week, s.now())
	if t.Text == "" {
		return t, false
	}
	s.weeks[t.Week] = append(s.weeks[t.Week], t)
	s.dirty[t.Week] = true
	return t, true
}

// Find looks up a task by ID across all loaded weeks.
func (s *Store) Find(id string) (model.Task, bool) {
	for _, list := range s.weeks {
		for _, t := range list {
			if t.ID == id {
				return t, true
			}
		}
	}
	return model.Task{}, false
}

// Remove deletes the task from its (week, day) bucket. It first matches on
// ID, then on text, day and creation time, and finally on text and day
// alone. It reports whether anything was removed.
func (s *Store) Remove(t model.Task) bool {
	list := s.weeks[t.Week]
	idx := lastIndex(list, func(c model.Task) bool { return t.ID != "" && c.ID == t.ID })
	if idx < 0 {
		idx = lastIndex(list, func(c model.Task) bool {
			return c.Text == t.Text && c.Day == t.Day && c.CreatedAt.Equal(t.CreatedAt)
		})
	}
	if idx < 0 {
		idx = lastIndex(list, func(c model.Task) bool { return c.Text == t.Text && c.Day == t.Day })
	}
	if idx < 0 {
		return false
	}
	s.weeks[t.Week] = append(list[:idx:idx], list[idx+1:]...)
	s.dirty[t.Week] = true
	return true
}

// Transition describes the effect of a status change.
type Transition struct {
	Before model.Task
	After  model.Task
	// Moved is set when the task was rescheduled by a postpone.
	Moved bool
}

// Wrapped reports whether a postpone crossed into the following week.
func (tr Transition) Wrapped() bool {
	return tr.Moved && tr.Before.Week != tr.After.Week
}

// SetStatus changes the status of the task with the given ID. Moving into
// Postponed from any other status reschedules the task with Advance: it is
// removed from its old slot and inserted at the end of its new week.
// Selecting Postponed again is a plain no-op. ok is false when the ID is
// unknown.
func (s *Store) SetStatus(id string, status model.Status) (Transition, bool) {
	current, found := s.Find(id)
	if !found {
		return Transition{}, false
	}
	status = ParseStatus(string(status))
	tr := Transition{Before: current, After: current}
	if current.Status == status {
		return tr, true
	}

	if status == model.Postponed {
		moved := Advance(current)
		s.Remove(current)
		s.weeks[moved.Week] = append(s.weeks[moved.Week], moved)
		s.dirty[moved.Week] = true
		tr.After = moved
		tr.Moved = true
		return tr, true
	}

	current.Status = status
	s.replace(current)
	tr.After = current
	return tr, true
}

// SetHidden toggles the presentation-only hidden flag.
func (s *Store) SetHidden(id string, hidden bool) (model.Task, bool) {
	t, found := s.Find(id)
	if !found {
		return model.Task{}, false
	}
	if t.Hidden != hidden {
		t.Hidden = hidden
		s.replace(t)
	}
	return t, true
}

// MergeInto merges incoming tasks into the collection of week and returns
// how many were added. Incoming tasks are owned by week regardless of the
// week they carry.
func (s *Store) MergeInto(week model.WeekKey, incoming []model.Task) int {
	existing := s.weeks[week]
	known := make(map[string]bool, len(existing))
	for _, t := range existing {
		known[t.ID] = true
	}
	owned := make([]model.Task, len(incoming))
	for i, t := range incoming {
		t.Week = week
		owned[i] = t
	}
	merged := Merge(existing, owned, week)
	s.weeks[week] = merged

	added := 0
	for _, t := range merged {
		if !known[t.ID] {
			added++
		}
	}
	if added > 0 || len(merged) != len(existing) {
		s.dirty[week] = true
	}
	return added
}

func (s *Store) replace(t model.Task) {
	list := s.weeks[t.Week]
	for i := range list {
		if list[i].ID == t.ID {
			list[i] = t
			s.dirty[t.Week] = true
			return
		}
	}
}

func lastIndex(list []model.Task, match func(model.Task) bool) int {
	for i := len(list) - 1; i >= 0; i-- {
		if match(list[i]) {
			return i
		}
	}
	return -1
}
