package coach

import "strings"

// Signals are labelled facts a user states in a chat message, such as
// "Goal: finish the thesis draft".
type Signals struct {
	Goal          string
	CurrentStatus string
	Constraints   string
}

// Empty reports whether no signal was found.
func (s Signals) Empty() bool {
	return s.Goal == "" && s.CurrentStatus == "" && s.Constraints == ""
}

var (
	goalLabels       = []string{"weekly goal", "goal", "주간 목표", "목표"}
	currentLabels    = []string{"current status", "current", "status", "현재 상태", "현재"}
	constraintLabels = []string{"constraints", "constraint", "limits", "제약", "제한"}
)

// ExtractSignals scans text line by line for "label: value" pairs.
func ExtractSignals(text string) Signals {
	return Signals{
		Goal:          labelledValue(text, goalLabels),
		CurrentStatus: labelledValue(text, currentLabels),
		Constraints:   labelledValue(text, constraintLabels),
	}
}

func labelledValue(text string, labels []string) string {
	for _, label := range labels {
		for _, line := range strings.Split(text, "\n") {
			head, value, found := strings.Cut(line, ":")
			if !found || !strings.Contains(strings.ToLower(head), label) {
				continue
			}
			if value = strings.TrimSpace(value); value != "" {
				return value
			}
		}
	}
	return ""
}
