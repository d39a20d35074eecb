package bot

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weekly-planner/internal/model"
)

func TestStatusCallbackRoundTrip(t *testing.T) {
	data := statusCallback(model.Postponed, "0b9e4c1e-6a55-4c1b-9d0e-8c1d2f3a4b5c")
	assert.LessOrEqual(t, len(data), 64)

	status, id, ok := parseStatusCallback(data)
	require.True(t, ok)
	assert.Equal(t, model.Postponed, status)
	assert.Equal(t, "0b9e4c1e-6a55-4c1b-9d0e-8c1d2f3a4b5c", id)

	for _, bad := range []string{"st:", "st:checked", "st:checked:", "st:bogus:id", "hide:id"} {
		_, _, ok := parseStatusCallback(bad)
		assert.False(t, ok, bad)
	}
}

func TestResolveWeekArg(t *testing.T) {
	now := time.Date(2024, 2, 14, 9, 0, 0, 0, time.UTC)
	current := model.WeekKey("2024-W07")

	cases := map[string]model.WeekKey{
		"":         "2024-W07",
		"next":     "2024-W08",
		"prev":     "2024-W06",
		"this":     "2024-W07",
		"2020-w53": "2020-W53",
	}
	for arg, want := range cases {
		got, ok := resolveWeekArg(arg, current, now)
		require.True(t, ok, arg)
		assert.Equal(t, want, got, arg)
	}

	for _, bad := range []string{"2021-W53", "tomorrow", "2024-07"} {
		_, ok := resolveWeekArg(bad, current, now)
		assert.False(t, ok, bad)
	}
}

func TestParseDialogInput(t *testing.T) {
	day, ok := parseDayInput("tuesday")
	assert.True(t, ok)
	assert.Equal(t, model.Tuesday, day)

	day, ok = parseDayInput(btnNoDay)
	assert.True(t, ok)
	assert.Equal(t, model.Unscheduled, day)

	_, ok = parseDayInput("someday")
	assert.False(t, ok)

	status, ok := parseStatusInput(statusLabelDone)
	assert.True(t, ok)
	assert.Equal(t, model.Checked, status)

	status, ok = parseStatusInput("in progress")
	assert.True(t, ok)
	assert.Equal(t, model.InProgress, status)

	status, ok = parseStatusInput(btnSkip)
	assert.True(t, ok)
	assert.Equal(t, model.InProgress, status)

	_, ok = parseStatusInput("maybe")
	assert.False(t, ok)

	assert.True(t, isCancelDialogInput(btnCancelDialog))
	assert.False(t, isCancelDialogInput("Mon"))
}

func TestRenderWeek(t *testing.T) {
	created := time.Date(2024, 2, 12, 8, 0, 0, 0, time.UTC)
	tasks := []model.Task{
		{ID: "a", Week: "2024-W07", Day: model.Monday, Text: "Read <notes>", Status: model.Checked, CreatedAt: created},
		{ID: "b", Week: "2024-W07", Day: model.Monday, Text: "Write outline", Status: model.InProgress, CreatedAt: created},
		{ID: "c", Week: "2024-W07", Day: model.Sunday, Text: "Secret", Hidden: true, CreatedAt: created},
	}

	text, markup := renderWeek("2024-W07", tasks)
	assert.Contains(t, text, "24.02 week 3")
	assert.Contains(t, text, "<b>Mon 12.02</b>")
	assert.Contains(t, text, "1. ⏳ Write outline")
	assert.Contains(t, text, "2. ✅ Read &lt;notes&gt;")
	assert.NotContains(t, text, "Secret")
	assert.NotContains(t, text, "Sun")
	assert.Contains(t, text, "🙈 1 hidden")
	assert.Contains(t, text, "33.3% done")

	rows := markup.InlineKeyboard
	require.Len(t, rows, 4)
	require.Len(t, rows[0], 4)
	require.NotNil(t, rows[0][0].CallbackData)
	assert.Equal(t, "st:checked:b", *rows[0][0].CallbackData)
	assert.Equal(t, "hide:b", *rows[0][3].CallbackData)
	assert.Equal(t, "show:c", *rows[2][0].CallbackData)
	assert.Equal(t, "wk:2024-W06", *rows[3][0].CallbackData)
	assert.Equal(t, "wk:2024-W08", *rows[3][1].CallbackData)
}

func TestRenderEmptyWeek(t *testing.T) {
	text, markup := renderWeek("2024-W07", nil)
	assert.Contains(t, text, "Nothing planned yet")
	assert.False(t, strings.Contains(text, "% done"))
	assert.Len(t, markup.InlineKeyboard, 1)
}

func TestShortTitle(t *testing.T) {
	assert.Equal(t, "short", shortTitle("  short ", 10))
	assert.Equal(t, "a very lo…", shortTitle("a very long\ntitle", 10))
}
