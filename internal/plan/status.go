package plan

import (
	"strings"

	"weekly-planner/internal/model"
)

// statusValues are the accepted spellings of a stored or proposed status:
// the enum values and the product's Korean labels.
var statusValues = map[string]model.Status{
	"in_progress": model.InProgress,
	"진행중":         model.InProgress,
	"postponed":   model.Postponed,
	"미루기":         model.Postponed,
	"checked":     model.Checked,
	"체크":          model.Checked,
}

// statusAliases are the extra words accepted from a person typing a status.
var statusAliases = map[string]model.Status{
	"in progress": model.InProgress,
	"inprogress":  model.InProgress,
	"todo":        model.InProgress,
	"open":        model.InProgress,

	"postpone": model.Postponed,
	"later":    model.Postponed,

	"check":    model.Checked,
	"done":     model.Checked,
	"complete": model.Checked,
}

// ParseStatus maps a stored or proposed status to its enum value. Anything
// other than an enum value or its Korean label collapses to InProgress.
func ParseStatus(raw string) model.Status {
	if s, ok := statusValues[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return s
	}
	return model.InProgress
}

// LookupStatus maps status input typed by a person, aliases included. ok is
// false for unknown input.
func LookupStatus(raw string) (model.Status, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if s, ok := statusValues[key]; ok {
		return s, true
	}
	s, ok := statusAliases[key]
	return s, ok
}

// ParseUserStatus is LookupStatus with the InProgress fallback.
func ParseUserStatus(raw string) model.Status {
	if s, ok := LookupStatus(raw); ok {
		return s
	}
	return model.InProgress
}

// Glyph is the status icon shown next to a task.
func Glyph(s model.Status) string {
	switch s {
	case model.Checked:
		return "✅"
	case model.Postponed:
		return "🕒"
	default:
		return "⏳"
	}
}

// priority orders open work before postponed work before completed work.
func priority(s model.Status) int {
	switch s {
	case model.InProgress:
		return 0
	case model.Postponed:
		return 1
	case model.Checked:
		return 2
	default:
		return 9
	}
}
