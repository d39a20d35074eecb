package bot

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"weekly-planner/internal/model"
	"weekly-planner/internal/plan"
)

const (
	btnSkip          = "⏭️ Skip"
	btnNoDay         = "📥 No day"
	btnCancelDialog  = "⏪ Cancel input"
	menuLabelWeek    = "🗓 This week"
	menuLabelAdd     = "➕ New task"
	menuLabelReport  = "📋 Report"
	menuLabelHelp    = "ℹ️ Help"
	statusLabelOpen  = "⏳ in_progress"
	statusLabelLater = "🕒 postponed"
	statusLabelDone  = "✅ checked"
)

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelWeek),
			tgbotapi.NewKeyboardButton(menuLabelAdd),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelReport),
			tgbotapi.NewKeyboardButton(menuLabelHelp),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = false
	return kb
}

func daysKeyboard() tgbotapi.ReplyKeyboardMarkup {
	first := make([]tgbotapi.KeyboardButton, 0, 4)
	second := make([]tgbotapi.KeyboardButton, 0, 3)
	for i, d := range model.Days {
		btn := tgbotapi.NewKeyboardButton(string(d))
		if i < 4 {
			first = append(first, btn)
		} else {
			second = append(second, btn)
		}
	}
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(first...),
		tgbotapi.NewKeyboardButtonRow(second...),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnNoDay),
			tgbotapi.NewKeyboardButton(btnCancelDialog),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func cancelKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCancelDialog),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func statusKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(statusLabelOpen),
			tgbotapi.NewKeyboardButton(statusLabelLater),
			tgbotapi.NewKeyboardButton(statusLabelDone),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnSkip),
			tgbotapi.NewKeyboardButton(btnCancelDialog),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func isSkipInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == "-" || value == strings.ToLower(btnSkip) || value == "skip"
}

func isNoDayInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == strings.ToLower(btnNoDay) || value == "no day" || isSkipInput(value)
}

func isCancelDialogInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == strings.ToLower(btnCancelDialog) || value == "cancel input" || value == "cancel"
}

// parseDayInput accepts a day label or the no-day button.
func parseDayInput(text string) (model.Day, bool) {
	if isNoDayInput(text) {
		return model.Unscheduled, true
	}
	day := plan.ParseDay(text)
	return day, day != model.Unscheduled
}

// parseStatusInput accepts a status keyboard label, a status alias or skip.
func parseStatusInput(text string) (model.Status, bool) {
	if isSkipInput(text) {
		return model.InProgress, true
	}
	if s, ok := plan.LookupStatus(text); ok {
		return s, true
	}
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", false
	}
	return plan.LookupStatus(fields[len(fields)-1])
}
