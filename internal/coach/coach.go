// Package coach talks to the language model that proposes weekly plans.
// Replies are untrusted: plan items stay loosely typed until the plan
// package normalizes them.
package coach

import "context"

// MaxPlanItems caps how many proposed tasks a single reply may contribute.
const MaxPlanItems = 24

// Message is one turn of the coaching conversation.
type Message struct {
	Role    string
	Content string
}

// Request is a single coaching call.
type Request struct {
	System  string
	History []Message
	Message string
}

// Risk flags replies that touch legal, medical, mental health or financial
// danger.
type Risk struct {
	IsHighRisk  bool     `json:"is_high_risk"`
	Message     string   `json:"message"`
	SafeActions []string `json:"safe_actions"`
}

// Reply is the decoded model answer.
type Reply struct {
	EmpathySummary   string           `json:"empathy_summary"`
	Strategies       []string         `json:"strategies"`
	WeeklyActivePlan []map[string]any `json:"weekly_active_plan"`
	RiskWarning      Risk             `json:"risk_warning"`
}

// Proposer produces a coaching reply for a request.
type Proposer interface {
	Propose(ctx context.Context, req Request) (Reply, error)
}
