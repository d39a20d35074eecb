package plan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weekly-planner/internal/model"
)

func task(id string, day model.Day, text string, status model.Status) model.Task {
	return model.Task{
		ID:        id,
		Week:      "2024-W07",
		Day:       day,
		Text:      text,
		Status:    status,
		CreatedAt: fixedNow,
	}
}

func texts(tasks []model.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Text
	}
	return out
}

func TestMergeKeepsExistingOccurrence(t *testing.T) {
	existing := []model.Task{task("e1", model.Monday, "Write outline", model.InProgress)}
	incoming := NormalizeAll([]map[string]any{
		{"day": "Mon", "task": "Write outline", "status": "in_progress"},
		{"day": "Tue", "task": "Read 10 pages", "status": "in_progress"},
	}, "2024-W07", fixedNow)

	merged := Merge(existing, incoming, "2024-W07")

	require.Len(t, merged, 2)
	assert.Equal(t, "e1", merged[0].ID)
	assert.Equal(t, "Write outline", merged[0].Text)
	assert.Equal(t, "Read 10 pages", merged[1].Text)
	assert.Equal(t, model.Tuesday, merged[1].Day)
}

func TestMergeDedupIgnoresCaseAndSpace(t *testing.T) {
	existing := []model.Task{task("e1", model.Monday, "Write outline", model.Checked)}
	incoming := []model.Task{task("i1", model.Monday, "  write OUTLINE", model.InProgress)}

	merged := Merge(existing, incoming, "2024-W07")

	require.Len(t, merged, 1)
	assert.Equal(t, model.Checked, merged[0].Status, "prior edits survive the merge")
}

func TestMergeKeepsExistingDuplicates(t *testing.T) {
	existing := []model.Task{
		task("a", model.Monday, "Read", model.InProgress),
		task("b", model.Monday, "read", model.Postponed),
	}

	merged := Merge(existing, nil, "2024-W07")

	require.Len(t, merged, 2)
	assert.Equal(t, "a", merged[0].ID)
	assert.Equal(t, "b", merged[1].ID)
	assert.Equal(t, model.Postponed, merged[1].Status)

	merged = Merge(existing, []model.Task{task("c", model.Monday, "READ", model.InProgress)}, "2024-W07")
	assert.Len(t, merged, 2, "incoming still dedups against existing keys")
}

func TestMergeSameTextOtherDayIsDistinct(t *testing.T) {
	existing := []model.Task{task("e1", model.Monday, "Run", model.InProgress)}
	incoming := []model.Task{task("i1", model.Wednesday, "Run", model.InProgress)}

	assert.Len(t, Merge(existing, incoming, "2024-W07"), 2)
}

func TestMergeDropsUnplaceable(t *testing.T) {
	existing := []model.Task{
		task("e1", model.Unscheduled, "Somewhere", model.InProgress),
		task("e2", model.Monday, "   ", model.InProgress),
	}
	incoming := []model.Task{
		task("i1", model.Unscheduled, "Nowhere", model.InProgress),
		task("i2", model.Friday, "Plan weekend", model.InProgress),
	}

	merged := Merge(existing, incoming, "2024-W07")
	assert.Equal(t, []string{"Plan weekend"}, texts(merged))
}

func TestMergeDedupsWithinIncoming(t *testing.T) {
	incoming := []model.Task{
		task("i1", model.Monday, "Stretch", model.InProgress),
		task("i2", model.Monday, "stretch", model.InProgress),
	}
	merged := Merge(nil, incoming, "2024-W07")
	require.Len(t, merged, 1)
	assert.Equal(t, "i1", merged[0].ID)
}

func TestMergeIsIdempotent(t *testing.T) {
	a := []model.Task{
		task("a1", model.Monday, "Write outline", model.Checked),
		task("a2", model.Tuesday, "Email mentor", model.InProgress),
	}
	b := []model.Task{
		task("b1", model.Tuesday, "email mentor", model.InProgress),
		task("b2", model.Thursday, "Review notes", model.InProgress),
		task("b3", model.Unscheduled, "Floating", model.InProgress),
	}

	once := Merge(a, b, "2024-W07")
	twice := Merge(a, once, "2024-W07")
	assert.Equal(t, once, twice)
	assert.Equal(t, once, Merge(once, b, "2024-W07"))
}

func TestMergeIsAdditive(t *testing.T) {
	a := []model.Task{
		task("a1", model.Monday, "Write outline", model.InProgress),
		task("a2", model.Sunday, "Reflect", model.Postponed),
	}
	b := []model.Task{task("b1", model.Friday, "Gym", model.InProgress)}

	merged := Merge(a, b, "2024-W07")

	keys := make(map[Key]bool)
	for _, m := range merged {
		keys[KeyOf(m)] = true
	}
	for _, x := range a {
		assert.True(t, keys[KeyOf(x)], "existing %q must survive", x.Text)
	}
	src := make(map[Key]bool)
	for _, x := range append(append([]model.Task{}, a...), b...) {
		src[KeyOf(x)] = true
	}
	for k := range keys {
		assert.True(t, src[k])
	}
}

func TestMergeAssignsOwningWeek(t *testing.T) {
	incoming := []model.Task{{Day: model.Monday, Text: "No week"}}
	merged := Merge(nil, incoming, "2024-W09")
	require.Len(t, merged, 1)
	assert.Equal(t, model.WeekKey("2024-W09"), merged[0].Week)
	assert.NotEmpty(t, merged[0].ID)
	assert.False(t, merged[0].CreatedAt.IsZero())
}

func TestNormalizeAllDropsEmptyText(t *testing.T) {
	got := NormalizeAll([]map[string]any{
		{"task": ""},
		{"task": "  "},
		{"day": "Mon"},
		{"task": "Keep", "day": "Mon"},
	}, "2024-W07", fixedNow)
	assert.Equal(t, []string{"Keep"}, texts(got))
}

func TestSortForDay(t *testing.T) {
	t0 := fixedNow
	items := []model.Task{
		{ID: "done-old", Status: model.Checked, CreatedAt: t0},
		{ID: "open-new", Status: model.InProgress, CreatedAt: t0.Add(2 * time.Hour)},
		{ID: "later", Status: model.Postponed, CreatedAt: t0},
		{ID: "open-old", Status: model.InProgress, CreatedAt: t0.Add(time.Hour)},
	}

	sorted := SortForDay(items)

	ids := make([]string, len(sorted))
	for i, s := range sorted {
		ids[i] = s.ID
	}
	assert.Equal(t, []string{"open-old", "open-new", "later", "done-old"}, ids)
	assert.Equal(t, "done-old", items[0].ID, "input is not mutated")
}

func TestSortForDayIsStable(t *testing.T) {
	items := []model.Task{
		{ID: "first", Status: model.InProgress, CreatedAt: fixedNow},
		{ID: "second", Status: model.InProgress, CreatedAt: fixedNow},
		{ID: "third", Status: model.InProgress, CreatedAt: fixedNow},
	}
	sorted := SortForDay(items)
	assert.Equal(t, items, sorted)
}
