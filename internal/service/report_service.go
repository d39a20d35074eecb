package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"weekly-planner/internal/model"
	"weekly-planner/internal/plan"
)

// ReportService builds human-readable week summaries for notifications.
type ReportService struct {
	plans *PlanService
}

func NewReportService(plans *PlanService) *ReportService {
	return &ReportService{plans: plans}
}

// WeeklySummary renders the week as Telegram HTML: one section per planned
// day in calendar order, open work first, followed by the completion rate.
func (s *ReportService) WeeklySummary(ctx context.Context, user *model.User, key model.WeekKey, now time.Time) (string, error) {
	tasks, err := s.plans.Week(ctx, user, key)
	if err != nil {
		return "", err
	}
	buckets := plan.DayBuckets(tasks, plan.ViewOptions{IncludeHidden: true})

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("📋 <b>Weekly plan · %s</b>\n", html.EscapeString(plan.WeekLabel(key))))
	builder.WriteString(fmt.Sprintf("🗓 %s · %s\n\n", key, now.Format("02.01.2006")))

	if len(tasks) == 0 {
		builder.WriteString("— no tasks planned for this week\n")
		return strings.TrimSpace(builder.String()), nil
	}

	days := append([]model.Day{}, model.Days...)
	days = append(days, model.Unscheduled)
	for _, day := range days {
		items := buckets[day]
		if len(items) == 0 {
			continue
		}
		builder.WriteString(fmt.Sprintf("<b>%s</b>\n", dayHeading(key, day)))
		for _, t := range items {
			builder.WriteString(formatTask(t))
		}
		builder.WriteByte('\n')
	}

	if pct := plan.Completion(tasks); pct != nil {
		builder.WriteString(fmt.Sprintf("📈 Completion: <b>%.1f%%</b>", *pct))
	}
	return strings.TrimSpace(builder.String()), nil
}

func dayHeading(key model.WeekKey, day model.Day) string {
	if day == model.Unscheduled {
		return "Unscheduled"
	}
	return fmt.Sprintf("%s %s", day, plan.DateOf(key, day).Format("02.01"))
}

func formatTask(t model.Task) string {
	title := html.EscapeString(strings.TrimSpace(t.Text))
	if t.Status == model.Checked {
		title = "<s>" + title + "</s>"
	}
	line := fmt.Sprintf("%s %s", plan.Glyph(t.Status), title)
	if t.Hidden {
		line += " <i>(hidden)</i>"
	}
	return line + "\n"
}
