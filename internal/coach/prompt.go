package coach

import (
	"fmt"
	"strings"

	"weekly-planner/internal/model"
)

var toneGuide = map[string][]string{
	"warm": {
		"Open by acknowledging how the user feels.",
		"Keep advice gentle and encouraging.",
	},
	"direct": {
		"Skip pleasantries and lead with the action.",
		"Use short sentences.",
	},
	"cheerful": {
		"Sound upbeat and celebrate small wins.",
		"An emoji now and then is fine.",
	},
}

// BuildSystemPrompt renders the coaching instructions for a user and the
// week being planned.
func BuildSystemPrompt(user model.User, week model.Week) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a running-mate coach helping a university student through a first attempt at something new.\n")
	fmt.Fprintf(&b, "Always address the user as %q.\n\n", user.DisplayName())

	b.WriteString("[Tone / level / domain]\n")
	fmt.Fprintf(&b, "- tone: %s\n- level: %s\n- domain: %s\n", user.Tone, user.Level, user.Domain)
	if rules := toneGuide[user.Tone]; len(rules) > 0 {
		b.WriteString("\n[Tone rules]\n")
		for _, r := range rules {
			fmt.Fprintf(&b, "- %s\n", r)
		}
	}

	b.WriteString("\n[Principles]\n")
	b.WriteString("- Pair empathy with concrete, doable advice.\n")
	b.WriteString("- For legal, medical, mental health or financial risk, recommend a professional and list safe actions.\n")

	if week.Goal != "" || week.CurrentStatus != "" || week.Constraints != "" {
		fmt.Fprintf(&b, "\n[Week %s context]\n", week.Key)
		if week.Goal != "" {
			fmt.Fprintf(&b, "- goal: %s\n", week.Goal)
		}
		if week.CurrentStatus != "" {
			fmt.Fprintf(&b, "- current status: %s\n", week.CurrentStatus)
		}
		if week.Constraints != "" {
			fmt.Fprintf(&b, "- constraints: %s\n", week.Constraints)
		}
	}

	b.WriteString("\n[Output]\nReply with JSON only, no prose:\n")
	fmt.Fprintf(&b, `{
  "empathy_summary": "2-4 sentences",
  "strategies": ["..."],
  "weekly_active_plan": [{"day": "Mon|Tue|Wed|Thu|Fri|Sat|Sun", "task": "...", "status": "in_progress|postponed|checked"}],
  "risk_warning": {"is_high_risk": false, "message": "", "safe_actions": []}
}
Propose at most %d plan items.`, MaxPlanItems)
	return b.String()
}
