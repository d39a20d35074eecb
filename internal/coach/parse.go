package coach

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseReply decodes a model answer. Surrounding code fences are stripped
// and the outermost JSON object is decoded. At most MaxPlanItems plan items
// are kept.
func ParseReply(text string) (Reply, error) {
	body := extractObject(text)
	var reply Reply
	if err := json.Unmarshal([]byte(body), &reply); err != nil {
		return Reply{}, fmt.Errorf("decode coach reply: %w", err)
	}
	if len(reply.WeeklyActivePlan) > MaxPlanItems {
		reply.WeeklyActivePlan = reply.WeeklyActivePlan[:MaxPlanItems]
	}
	return reply, nil
}

func extractObject(text string) string {
	s := strings.TrimSpace(text)
	s = strings.Trim(s, "`")
	// A fenced block may carry a language tag such as ```json.
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return s
	}
	return s[start : end+1]
}
