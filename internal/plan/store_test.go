package plan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weekly-planner/internal/model"
)

func newTestStore() *Store {
	s := NewStore()
	s.now = func() time.Time { return fixedNow }
	return s
}

func countText(s *Store, text string) int {
	n := 0
	for _, wk := range s.Weeks() {
		for _, t := range s.Week(wk) {
			if t.Text == text {
				n++
			}
		}
	}
	return n
}

func TestStoreLoadIsClean(t *testing.T) {
	s := newTestStore()
	s.Load("2024-W07", []model.Task{
		task("a", model.Monday, "Write outline", model.InProgress),
		task("b", model.Monday, "", model.InProgress),
	})

	assert.Len(t, s.Week("2024-W07"), 1)
	assert.Empty(t, s.Dirty())
	assert.True(t, s.Loaded("2024-W07"))
	assert.False(t, s.Loaded("2024-W08"))
}

func TestStoreAdd(t *testing.T) {
	s := newTestStore()
	added, ok := s.Add("2024-W07", model.Task{Day: "Wed", Text: " Journal "})
	require.True(t, ok)
	assert.Equal(t, "Journal", added.Text)
	assert.Equal(t, model.Wednesday, added.Day)
	assert.Equal(t, fixedNow, added.CreatedAt)
	assert.Equal(t, []model.WeekKey{"2024-W07"}, s.Dirty())

	_, ok = s.Add("2024-W07", model.Task{Text: "  "})
	assert.False(t, ok)
	assert.Len(t, s.Week("2024-W07"), 1)
}

func TestStorePostponeMidWeek(t *testing.T) {
	s := newTestStore()
	s.Load("2024-W07", []model.Task{
		task("a", model.Tuesday, "Read 10 pages", model.InProgress),
		task("b", model.Wednesday, "Gym", model.InProgress),
	})

	tr, ok := s.SetStatus("a", model.Postponed)
	require.True(t, ok)
	assert.True(t, tr.Moved)
	assert.False(t, tr.Wrapped())
	assert.Equal(t, model.Wednesday, tr.After.Day)
	assert.Equal(t, model.Postponed, tr.After.Status)
	assert.Equal(t, "a", tr.After.ID)

	week := s.Week("2024-W07")
	require.Len(t, week, 2)
	assert.Equal(t, "b", week[0].ID)
	assert.Equal(t, "a", week[1].ID, "moved task is re-inserted at the end")
	assert.Equal(t, 1, countText(s, "Read 10 pages"))
}

func TestStorePostponeSundayCrossesWeek(t *testing.T) {
	s := newTestStore()
	s.Load("2024-W07", []model.Task{task("a", model.Sunday, "Call advisor", model.InProgress)})
	s.Load("2024-W08", []model.Task{task("x", model.Monday, "Existing", model.InProgress)})

	tr, ok := s.SetStatus("a", model.Postponed)
	require.True(t, ok)
	assert.True(t, tr.Wrapped())

	assert.Empty(t, s.Week("2024-W07"))
	next := s.Week("2024-W08")
	require.Len(t, next, 2)
	assert.Equal(t, "a", next[1].ID)
	assert.Equal(t, model.Monday, next[1].Day)
	assert.Equal(t, fixedNow, next[1].CreatedAt)
	assert.Equal(t, []model.WeekKey{"2024-W07", "2024-W08"}, s.Dirty())
	assert.Equal(t, 1, countText(s, "Call advisor"))
}

func TestStorePostponeIsEdgeTriggered(t *testing.T) {
	s := newTestStore()
	s.Load("2024-W07", []model.Task{task("a", model.Monday, "Read", model.Postponed)})

	tr, ok := s.SetStatus("a", model.Postponed)
	require.True(t, ok)
	assert.False(t, tr.Moved)
	assert.Equal(t, model.Monday, s.Week("2024-W07")[0].Day)
	assert.Empty(t, s.Dirty())

	_, _ = s.SetStatus("a", model.InProgress)
	tr, _ = s.SetStatus("a", model.Postponed)
	assert.True(t, tr.Moved)
	assert.Equal(t, model.Tuesday, s.Week("2024-W07")[0].Day)
}

func TestStorePostponeUnscheduled(t *testing.T) {
	s := newTestStore()
	s.Load("2024-W07", []model.Task{task("a", model.Unscheduled, "Someday", model.InProgress)})

	tr, ok := s.SetStatus("a", model.Postponed)
	require.True(t, ok)
	assert.Equal(t, model.Monday, tr.After.Day)
	assert.Equal(t, model.WeekKey("2024-W07"), tr.After.Week)
}

func TestStoreSetStatusInPlace(t *testing.T) {
	s := newTestStore()
	s.Load("2024-W07", []model.Task{
		task("a", model.Monday, "Write", model.InProgress),
		task("b", model.Monday, "Read", model.InProgress),
	})

	tr, ok := s.SetStatus("a", model.Checked)
	require.True(t, ok)
	assert.False(t, tr.Moved)

	week := s.Week("2024-W07")
	assert.Equal(t, "a", week[0].ID)
	assert.Equal(t, model.Checked, week[0].Status)

	_, ok = s.SetStatus("missing", model.Checked)
	assert.False(t, ok)
}

func TestStoreRemoveFallbacks(t *testing.T) {
	s := newTestStore()
	created := fixedNow.Add(-time.Hour)
	s.Load("2024-W07", []model.Task{
		{ID: "a", Week: "2024-W07", Day: model.Monday, Text: "Read", CreatedAt: created},
		{ID: "b", Week: "2024-W07", Day: model.Monday, Text: "Read", CreatedAt: fixedNow},
	})

	// No ID: exact text, day and creation time pick "a" even though it is
	// not the last match.
	removed := s.Remove(model.Task{Week: "2024-W07", Day: model.Monday, Text: "Read", CreatedAt: created})
	require.True(t, removed)
	week := s.Week("2024-W07")
	require.Len(t, week, 1)
	assert.Equal(t, "b", week[0].ID)

	// Drifted creation time falls back to text and day.
	removed = s.Remove(model.Task{Week: "2024-W07", Day: model.Monday, Text: "Read", CreatedAt: created.Add(time.Minute)})
	require.True(t, removed)
	assert.Empty(t, s.Week("2024-W07"))

	assert.False(t, s.Remove(model.Task{Week: "2024-W07", Day: model.Monday, Text: "Read"}))
}

func TestStoreSetHidden(t *testing.T) {
	s := newTestStore()
	s.Load("2024-W07", []model.Task{task("a", model.Monday, "Write", model.InProgress)})

	got, ok := s.SetHidden("a", true)
	require.True(t, ok)
	assert.True(t, got.Hidden)
	assert.True(t, s.Week("2024-W07")[0].Hidden)

	_, ok = s.SetHidden("nope", true)
	assert.False(t, ok)
}

func TestStoreMergeInto(t *testing.T) {
	s := newTestStore()
	s.Load("2024-W07", []model.Task{task("a", model.Monday, "Write outline", model.Checked)})

	incoming := []model.Task{
		{Week: "2024-W01", Day: model.Monday, Text: "write outline"},
		{Day: model.Tuesday, Text: "Read 10 pages"},
	}
	added := s.MergeInto("2024-W07", incoming)
	assert.Equal(t, 1, added)

	week := s.Week("2024-W07")
	require.Len(t, week, 2)
	assert.Equal(t, model.Checked, week[0].Status)
	assert.Equal(t, model.WeekKey("2024-W07"), week[1].Week)

	again := s.MergeInto("2024-W07", incoming)
	assert.Equal(t, 0, again)
	assert.Len(t, s.Week("2024-W07"), 2)
}

func TestStoreMergeKeepsPostponedIntoOccupiedSlot(t *testing.T) {
	s := newTestStore()
	s.Load("2024-W07", []model.Task{
		task("tue", model.Tuesday, "Call advisor", model.InProgress),
		task("mon", model.Monday, "Call advisor", model.InProgress),
	})

	tr, ok := s.SetStatus("mon", model.Postponed)
	require.True(t, ok)
	require.Equal(t, model.Tuesday, tr.After.Day)

	added := s.MergeInto("2024-W07", []model.Task{{Day: model.Wednesday, Text: "New thing"}})
	assert.Equal(t, 1, added)

	moved, found := s.Find("mon")
	require.True(t, found, "postponed task survives the merge")
	assert.Equal(t, model.Postponed, moved.Status)
	assert.Equal(t, model.Tuesday, moved.Day)
	assert.Equal(t, 2, countText(s, "Call advisor"))
	assert.Len(t, s.Week("2024-W07"), 3)
}

func TestStoreWeekReturnsCopy(t *testing.T) {
	s := newTestStore()
	s.Load("2024-W07", []model.Task{task("a", model.Monday, "Write", model.InProgress)})
	week := s.Week("2024-W07")
	week[0].Text = "changed"
	assert.Equal(t, "Write", s.Week("2024-W07")[0].Text)
}
