package bot

import (
	"fmt"
	"html"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"weekly-planner/internal/model"
	"weekly-planner/internal/plan"
)

const (
	cbStatusPrefix = "st:"
	cbHidePrefix   = "hide:"
	cbShowPrefix   = "show:"
	cbWeekPrefix   = "wk:"
)

// statusCallback encodes "set task to status", e.g. st:checked:<id>.
func statusCallback(status model.Status, taskID string) string {
	return cbStatusPrefix + string(status) + ":" + taskID
}

func parseStatusCallback(data string) (model.Status, string, bool) {
	rest, ok := strings.CutPrefix(data, cbStatusPrefix)
	if !ok {
		return "", "", false
	}
	raw, taskID, ok := strings.Cut(rest, ":")
	if !ok || taskID == "" {
		return "", "", false
	}
	status, ok := plan.LookupStatus(raw)
	return status, taskID, ok
}

// resolveWeekArg interprets the /week argument relative to the week being
// viewed.
func resolveWeekArg(arg string, current model.WeekKey, now time.Time) (model.WeekKey, bool) {
	switch strings.ToLower(strings.TrimSpace(arg)) {
	case "":
		return current, true
	case "next", "+":
		return plan.NextWeek(current), true
	case "prev", "previous", "-":
		return plan.PrevWeek(current), true
	case "this", "now", "today":
		return plan.WeekKeyOf(now), true
	}
	key := model.WeekKey(strings.ToUpper(strings.TrimSpace(arg)))
	if _, ok := plan.ParseWeekKey(key); !ok {
		return "", false
	}
	return key, true
}

// renderWeek builds the calendar message of a week and its inline keyboard:
// one button row per visible task, a show button per hidden task and a
// navigation row.
func renderWeek(key model.WeekKey, tasks []model.Task) (string, tgbotapi.InlineKeyboardMarkup) {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("🗓 <b>%s</b> · %s\n", escape(plan.WeekLabel(key)), key))
	if pct := plan.Completion(tasks); pct != nil {
		builder.WriteString(fmt.Sprintf("📈 %.1f%% done\n", *pct))
	}
	builder.WriteByte('\n')

	var rows [][]tgbotapi.InlineKeyboardButton
	buckets := plan.DayBuckets(tasks, plan.ViewOptions{})
	days := append(append([]model.Day{}, model.Days...), model.Unscheduled)
	n := 0
	for _, day := range days {
		items := buckets[day]
		if len(items) == 0 {
			continue
		}
		if day == model.Unscheduled {
			builder.WriteString("<b>No day</b>\n")
		} else {
			builder.WriteString(fmt.Sprintf("<b>%s %s</b>\n", day, plan.DateOf(key, day).Format("02.01")))
		}
		for _, t := range items {
			n++
			builder.WriteString(fmt.Sprintf("%d. %s %s\n", n, plan.Glyph(t.Status), escape(t.Text)))
			rows = append(rows, taskButtons(n, t))
		}
		builder.WriteByte('\n')
	}
	if n == 0 {
		builder.WriteString("Nothing planned yet. Use /add or /coach to fill the week.\n")
	}

	hidden := 0
	for _, t := range tasks {
		if !t.Hidden {
			continue
		}
		hidden++
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("👁 Show · "+shortTitle(t.Text, 24), cbShowPrefix+t.ID),
		))
	}
	if hidden > 0 {
		builder.WriteString(fmt.Sprintf("🙈 %d hidden\n", hidden))
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("« "+string(plan.PrevWeek(key)), cbWeekPrefix+string(plan.PrevWeek(key))),
		tgbotapi.NewInlineKeyboardButtonData(string(plan.NextWeek(key))+" »", cbWeekPrefix+string(plan.NextWeek(key))),
	))
	return strings.TrimSpace(builder.String()), tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func taskButtons(n int, t model.Task) []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("✅ %d", n), statusCallback(model.Checked, t.ID)),
		tgbotapi.NewInlineKeyboardButtonData("⏳", statusCallback(model.InProgress, t.ID)),
		tgbotapi.NewInlineKeyboardButtonData("🕒", statusCallback(model.Postponed, t.ID)),
		tgbotapi.NewInlineKeyboardButtonData("🙈", cbHidePrefix+t.ID),
	)
}

func shortTitle(title string, maxLen int) string {
	clean := strings.Join(strings.Fields(title), " ")
	runes := []rune(clean)
	if len(runes) <= maxLen {
		return clean
	}
	if maxLen <= 1 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-1]) + "…"
}

func escape(s string) string {
	return html.EscapeString(s)
}
