package plan

import (
	"fmt"
	"hash/fnv"
	"strings"

	"weekly-planner/internal/model"
)

// UIKey derives a stable display key for a task from its placement and a
// FNV-1a hash of its text. The same task yields the same key across
// restarts.
func UIKey(t model.Task) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.TrimSpace(t.Text)))
	return fmt.Sprintf("%s_%s_%06d", t.Week, t.Day, h.Sum32()%1_000_000)
}
