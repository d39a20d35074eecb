package plan

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"weekly-planner/internal/model"
)

// createdLayouts are tried in order when a creation time arrives as text.
var createdLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Normalize coerces an untrusted, possibly partial record into a task owned
// by week. It never fails: every missing or malformed field is defaulted.
// Records with empty text come back with empty Text and must be discarded by
// the caller.
func Normalize(raw map[string]any, week model.WeekKey, now time.Time) model.Task {
	t := model.Task{
		ID:     stringField(raw, "id"),
		Week:   model.WeekKey(stringField(raw, "week")),
		Day:    ParseDay(stringField(raw, "day")),
		Text:   stringField(raw, "task"),
		Hidden: boolField(raw, "hidden"),
	}
	if t.Text == "" {
		t.Text = stringField(raw, "text")
	}

	status := stringField(raw, "status")
	switch {
	case status != "":
		t.Status = ParseStatus(status)
	case hasField(raw, "done"):
		if boolField(raw, "done") {
			t.Status = model.Checked
		} else {
			t.Status = model.InProgress
		}
	default:
		t.Status = model.InProgress
	}

	t.CreatedAt = timeField(raw, "created_at")
	return NormalizeTask(t, week, now)
}

// NormalizeTask applies the same defaults to an already typed task. An
// existing ID and creation time are kept as-is.
func NormalizeTask(t model.Task, week model.WeekKey, now time.Time) model.Task {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Week == "" {
		t.Week = week
	}
	t.Day = ParseDay(string(t.Day))
	t.Text = strings.TrimSpace(t.Text)
	t.Status = ParseStatus(string(t.Status))
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	return t
}

func hasField(raw map[string]any, key string) bool {
	v, ok := raw[key]
	return ok && v != nil
}

func stringField(raw map[string]any, key string) string {
	switch v := raw[key].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case model.Day:
		return string(v)
	case model.Status:
		return string(v)
	case model.WeekKey:
		return string(v)
	case fmt.Stringer:
		return strings.TrimSpace(v.String())
	case float64, int, int64, bool:
		return strings.TrimSpace(fmt.Sprint(v))
	default:
		return ""
	}
}

func boolField(raw map[string]any, key string) bool {
	switch v := raw[key].(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "y", "1":
			return true
		}
		return false
	case float64:
		return v != 0
	case int:
		return v != 0
	default:
		return false
	}
}

func timeField(raw map[string]any, key string) time.Time {
	switch v := raw[key].(type) {
	case time.Time:
		return v
	case string:
		s := strings.TrimSpace(v)
		for _, layout := range createdLayouts {
			if ts, err := time.ParseInLocation(layout, s, time.Local); err == nil {
				return ts
			}
		}
	}
	return time.Time{}
}
