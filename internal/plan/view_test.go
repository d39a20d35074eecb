package plan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weekly-planner/internal/model"
)

func TestDayBuckets(t *testing.T) {
	tasks := []model.Task{
		{ID: "1", Day: model.Monday, Status: model.Checked, CreatedAt: fixedNow},
		{ID: "2", Day: model.Monday, Status: model.InProgress, CreatedAt: fixedNow.Add(time.Hour)},
		{ID: "3", Day: model.Tuesday, Status: model.Postponed, CreatedAt: fixedNow},
		{ID: "4", Day: model.Tuesday, Status: model.InProgress, Hidden: true, CreatedAt: fixedNow},
		{ID: "5", Status: model.InProgress, CreatedAt: fixedNow},
	}

	buckets := DayBuckets(tasks, ViewOptions{})
	require.Len(t, buckets[model.Monday], 2)
	assert.Equal(t, "2", buckets[model.Monday][0].ID)
	require.Len(t, buckets[model.Tuesday], 1)
	assert.Equal(t, "3", buckets[model.Tuesday][0].ID)
	assert.Len(t, buckets[model.Unscheduled], 1)

	withHidden := DayBuckets(tasks, ViewOptions{IncludeHidden: true})
	assert.Len(t, withHidden[model.Tuesday], 2)
	assert.Equal(t, "4", withHidden[model.Tuesday][0].ID)

	onlyChecked := DayBuckets(tasks, ViewOptions{Statuses: []model.Status{model.Checked}})
	assert.Len(t, onlyChecked[model.Monday], 1)
	assert.Empty(t, onlyChecked[model.Tuesday])

	unsorted := DayBuckets(tasks, ViewOptions{Unsorted: true})
	assert.Equal(t, "1", unsorted[model.Monday][0].ID)
}

func TestCompletion(t *testing.T) {
	assert.Nil(t, Completion(nil))
	assert.Nil(t, Completion([]model.Task{}))

	pct := Completion([]model.Task{
		{Status: model.Checked},
		{Status: model.InProgress},
		{Status: model.Postponed},
	})
	require.NotNil(t, pct)
	assert.Equal(t, 33.3, *pct)

	pct = Completion([]model.Task{{Status: model.Checked}, {Status: model.Checked}})
	require.NotNil(t, pct)
	assert.Equal(t, 100.0, *pct)

	pct = Completion([]model.Task{{Status: model.InProgress}})
	require.NotNil(t, pct)
	assert.Equal(t, 0.0, *pct)
}

func TestStatusParsingAndGlyphs(t *testing.T) {
	assert.Equal(t, model.Checked, ParseStatus(" Checked "))
	assert.Equal(t, model.Postponed, ParseStatus("미루기"))
	assert.Equal(t, model.InProgress, ParseStatus("whatever"))

	_, ok := LookupStatus("whatever")
	assert.False(t, ok)
	assert.Equal(t, model.Checked, ParseUserStatus("DONE"))
	assert.Equal(t, model.Postponed, ParseUserStatus("later"))
	assert.Equal(t, model.InProgress, ParseUserStatus("whatever"))
}

func TestStoredStatusIgnoresTypedAliases(t *testing.T) {
	for _, alias := range []string{"done", "later", "todo", "complete", "postpone"} {
		assert.Equal(t, model.InProgress, ParseStatus(alias), alias)
	}

	task := Normalize(map[string]any{"task": "Read", "day": "Mon", "status": "done"}, "2024-W07", fixedNow)
	assert.Equal(t, model.InProgress, task.Status)
	task = Normalize(map[string]any{"task": "Read", "day": "Mon", "status": "체크"}, "2024-W07", fixedNow)
	assert.Equal(t, model.Checked, task.Status)

	assert.Equal(t, "✅", Glyph(model.Checked))
	assert.Equal(t, "🕒", Glyph(model.Postponed))
	assert.Equal(t, "⏳", Glyph(model.InProgress))
}
