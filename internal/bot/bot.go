package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"gorm.io/gorm"

	"weekly-planner/internal/config"
	"weekly-planner/internal/model"
	"weekly-planner/internal/plan"
	"weekly-planner/internal/repository"
	"weekly-planner/internal/service"
)

type conversationStage int

const (
	stageNone conversationStage = iota
	stageDay
	stageText
	stageStatus
)

type conversationState struct {
	stage conversationStage
	week  model.WeekKey
	day   model.Day
	text  string
}

// Services bundles what the bot talks to.
type Services struct {
	Users   *repository.UserRepository
	Plans   *service.PlanService
	Coach   *service.CoachService
	Reports *service.ReportService
	Exports *service.ExportService
}

// Bot aggregates Telegram API with services.
type Bot struct {
	api           *tgbotapi.BotAPI
	svc           Services
	config        *config.Config
	conversations map[int64]*conversationState
	viewing       map[int64]model.WeekKey
	mu            sync.Mutex
}

func New(token string, svc Services, cfg *config.Config) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Printf("[info] bot authorized on account %s", api.Self.UserName)

	return &Bot{
		api:           api,
		svc:           svc,
		config:        cfg,
		conversations: make(map[int64]*conversationState),
		viewing:       make(map[int64]model.WeekKey),
	}, nil
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	log.Println("[info] start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		switch {
		case update.CallbackQuery != nil:
			if err := b.handleCallback(ctx, update.CallbackQuery); err != nil {
				log.Printf("handle callback: %v", err)
			}
		case update.Message != nil:
			if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
				continue
			}
			if err := b.handleMessage(ctx, update.Message); err != nil {
				log.Printf("handle message: %v", err)
			}
		}
	}

	return nil
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}

	if !msg.IsCommand() && isCancelDialogInput(msg.Text) {
		b.clearConversation(msg.From.ID)
		return b.sendText(msg.Chat.ID, "⏪ Task input cancelled.")
	}

	if msg.IsCommand() {
		log.Printf("[info] command from %d: /%s %s", msg.From.ID, msg.Command(), msg.CommandArguments())
		return b.handleCommand(ctx, msg)
	}

	if handled, err := b.handleMenuAlias(ctx, msg); handled {
		return err
	}

	if b.hasConversation(msg.From.ID) {
		log.Printf("[info] conversation step %d from %d", b.getConversation(msg.From.ID).stage, msg.From.ID)
		return b.handleConversation(ctx, msg)
	}

	if b.svc.Coach != nil && b.svc.Coach.Enabled() {
		return b.coach(ctx, msg, msg.Text)
	}
	return b.sendText(msg.Chat.ID, "I did not get that. Use /add to plan a task or /help for the list of commands.")
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	switch msg.Command() {
	case "start":
		return b.handleStart(ctx, msg)
	case "help":
		return b.handleHelp(msg)
	case "week":
		return b.handleWeek(ctx, msg)
	case "add":
		return b.handleAdd(ctx, msg)
	case "coach":
		return b.coach(ctx, msg, msg.CommandArguments())
	case "report":
		return b.handleReport(ctx, msg)
	case "export":
		return b.handleExport(ctx, msg)
	case "profile":
		return b.handleProfile(ctx, msg)
	case "cancel":
		b.clearConversation(msg.From.ID)
		return b.sendText(msg.Chat.ID, "⏪ Task input cancelled.")
	default:
		return b.sendText(msg.Chat.ID, "Unknown command. See /help.")
	}
}

const helpText = "• /week [YYYY-Www|next|prev] — show a week with status buttons\n" +
	"• /add [day|today text] — plan a task (step by step without arguments)\n" +
	"• /coach &lt;message&gt; — get advice and a proposed plan for the week\n" +
	"• /report — weekly summary\n" +
	"• /export [notion] — download the week as a spreadsheet or save it to Notion\n" +
	"• /profile &lt;nickname|tone|level|domain&gt; &lt;value&gt; — coaching preferences\n" +
	"• /cancel — cancel the current input"

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}

	text := fmt.Sprintf(
		"👋 Hi, %s!\n<b>I am your weekly running mate: plan the week, tick things off, postpone what does not fit.</b>\n\nCommands:\n%s",
		escape(user.DisplayName()), helpText,
	)
	count, err := b.svc.Plans.TaskCount(ctx, user)
	if err != nil {
		log.Printf("count tasks: %v", err)
	} else if count > 0 {
		text += fmt.Sprintf("\n\n📌 Tasks planned so far: <b>%d</b>", count)
	}
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleHelp(msg *tgbotapi.Message) error {
	text := "ℹ️ <b>Tips</b>\n" + helpText + "\n\n" +
		"🕒 Postponing moves a task to the next day; from Sunday it jumps to Monday of the next week.\n" +
		"Write “Goal: …”, “Current: …” or “Constraints: …” in a coaching message and I will remember it for the week."
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleWeek(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	key, ok := resolveWeekArg(msg.CommandArguments(), b.currentWeek(msg.From.ID), b.now())
	if !ok {
		return b.sendText(msg.Chat.ID, "Week must look like <code>2024-W07</code>, or use next / prev.")
	}
	b.setViewing(msg.From.ID, key)
	return b.sendWeek(ctx, msg.Chat.ID, user, key)
}

func (b *Bot) handleAdd(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	week := b.currentWeek(msg.From.ID)

	// Quick form: /add Mon Write outline
	if args := strings.TrimSpace(msg.CommandArguments()); args != "" {
		dayPart, text, _ := strings.Cut(args, " ")
		day, ok := parseDayInput(dayPart)
		if strings.EqualFold(dayPart, "today") {
			day, ok = plan.DayOf(b.now()), true
		}
		if !ok {
			day, text = model.Unscheduled, args
		}
		return b.finishTaskCreation(ctx, msg.Chat.ID, user, &conversationState{week: week, day: day, text: text, stage: stageStatus}, model.InProgress)
	}

	log.Printf("[info] start new task conversation user=%d week=%s", msg.From.ID, week)
	b.setConversation(msg.From.ID, &conversationState{stage: stageDay, week: week})
	return b.sendWithReplyMarkup(msg.Chat.ID, fmt.Sprintf("🆕 New task for %s.\n<b>Step 1:</b> which day?", week), daysKeyboard())
}

func (b *Bot) handleConversation(ctx context.Context, msg *tgbotapi.Message) error {
	state := b.getConversation(msg.From.ID)
	if state == nil {
		return nil
	}

	text := strings.TrimSpace(msg.Text)
	switch state.stage {
	case stageDay:
		day, ok := parseDayInput(text)
		if !ok {
			return b.sendWithReplyMarkup(msg.Chat.ID, "Pick a day from the keyboard, or “No day”.", daysKeyboard())
		}
		state.day = day
		state.stage = stageText
		return b.sendWithReplyMarkup(msg.Chat.ID, "✏️ <b>Step 2:</b> what is the task?", cancelKeyboard())
	case stageText:
		if text == "" {
			return b.sendWithReplyMarkup(msg.Chat.ID, "The task needs some text.", cancelKeyboard())
		}
		state.text = text
		state.stage = stageStatus
		return b.sendWithReplyMarkup(msg.Chat.ID, "📌 <b>Step 3:</b> status? (or “Skip” for in progress)", statusKeyboard())
	case stageStatus:
		status, ok := parseStatusInput(text)
		if !ok {
			return b.sendWithReplyMarkup(msg.Chat.ID, "Pick a status from the keyboard.", statusKeyboard())
		}
		user, err := b.ensureUser(ctx, msg.From)
		if err != nil {
			return err
		}
		err = b.finishTaskCreation(ctx, msg.Chat.ID, user, state, status)
		b.clearConversation(msg.From.ID)
		return err
	default:
		b.clearConversation(msg.From.ID)
		return b.sendText(msg.Chat.ID, "Input reset. Try again with /add.")
	}
}

func (b *Bot) finishTaskCreation(ctx context.Context, chatID int64, user *model.User, state *conversationState, status model.Status) error {
	task, err := b.svc.Plans.AddTask(ctx, user, state.week, state.day, state.text, status)
	if err != nil {
		if errors.Is(err, service.ErrEmptyText) {
			return b.sendText(chatID, "The task needs some text: /add Mon Write outline")
		}
		return b.sendText(chatID, fmt.Sprintf("Could not save the task: %s", escape(err.Error())))
	}

	day := "no day"
	if task.Day != model.Unscheduled {
		day = string(task.Day)
	}
	summary := fmt.Sprintf("✅ <b>Task saved</b>\n• %s %s\n• %s · %s", plan.Glyph(task.Status), escape(task.Text), task.Week, day)
	if err := b.sendWithReplyMarkup(chatID, summary, tgbotapi.NewRemoveKeyboard(true)); err != nil {
		return err
	}
	return b.sendWeek(ctx, chatID, user, task.Week)
}

func (b *Bot) coach(ctx context.Context, msg *tgbotapi.Message, text string) error {
	if b.svc.Coach == nil || !b.svc.Coach.Enabled() {
		return b.sendText(msg.Chat.ID, "Coaching is not configured on this bot.")
	}
	if strings.TrimSpace(text) == "" {
		return b.sendText(msg.Chat.ID, "Tell me what you are starting, e.g. /coach Goal: finish the thesis draft")
	}
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	week := b.currentWeek(msg.From.ID)

	_, _ = b.api.Request(tgbotapi.NewChatAction(msg.Chat.ID, tgbotapi.ChatTyping))
	res, err := b.svc.Coach.Coach(ctx, user, week, text)
	if err != nil {
		log.Printf("coach user %d: %v", user.ID, err)
		return b.sendText(msg.Chat.ID, "The coach could not answer right now, please try again later.")
	}

	var builder strings.Builder
	if res.Reply.EmpathySummary != "" {
		builder.WriteString(escape(res.Reply.EmpathySummary) + "\n\n")
	}
	if len(res.Reply.Strategies) > 0 {
		builder.WriteString("<b>Strategies</b>\n")
		for _, s := range res.Reply.Strategies {
			builder.WriteString("• " + escape(s) + "\n")
		}
		builder.WriteByte('\n')
	}
	if res.Reply.RiskWarning.IsHighRisk {
		builder.WriteString("⚠️ " + escape(res.Reply.RiskWarning.Message) + "\n")
		for _, a := range res.Reply.RiskWarning.SafeActions {
			builder.WriteString("• " + escape(a) + "\n")
		}
		builder.WriteByte('\n')
	}
	builder.WriteString(fmt.Sprintf("🗓 %d new task(s) added to %s.", res.Added, week))
	if err := b.sendText(msg.Chat.ID, strings.TrimSpace(builder.String())); err != nil {
		return err
	}
	return b.sendWeek(ctx, msg.Chat.ID, user, week)
}

func (b *Bot) handleReport(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	text, err := b.svc.Reports.WeeklySummary(ctx, user, b.currentWeek(msg.From.ID), b.now())
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Could not build the report: %s", escape(err.Error())))
	}
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleExport(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	week := b.currentWeek(msg.From.ID)

	if strings.EqualFold(strings.TrimSpace(msg.CommandArguments()), "notion") {
		url, err := b.svc.Exports.Notion(ctx, user, week)
		switch {
		case errors.Is(err, service.ErrNotionDisabled):
			return b.sendText(msg.Chat.ID, "Notion export is not configured on this bot.")
		case err != nil:
			log.Printf("notion export user %d: %v", user.ID, err)
			return b.sendText(msg.Chat.ID, "Could not save the week to Notion.")
		}
		return b.sendText(msg.Chat.ID, fmt.Sprintf("📝 Saved to Notion: %s", escape(url)))
	}

	data, err := b.svc.Exports.XLSX(ctx, user, week)
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Could not build the spreadsheet: %s", escape(err.Error())))
	}
	doc := tgbotapi.NewDocument(msg.Chat.ID, tgbotapi.FileBytes{Name: fmt.Sprintf("plan-%s.xlsx", week), Bytes: data})
	doc.Caption = fmt.Sprintf("Week %s", week)
	_, err = b.api.Send(doc)
	return err
}

func (b *Bot) handleProfile(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	field, value, _ := strings.Cut(strings.TrimSpace(msg.CommandArguments()), " ")
	value = strings.TrimSpace(value)
	if field == "" || value == "" {
		return b.sendText(msg.Chat.ID, fmt.Sprintf(
			"👤 <b>%s</b>\n• tone: %s\n• level: %s\n• domain: %s\nChange with /profile tone direct",
			escape(user.DisplayName()), escape(user.Tone), escape(user.Level), escape(user.Domain)))
	}

	var prefs repository.Preferences
	switch strings.ToLower(field) {
	case "nickname", "name":
		prefs.Nickname = value
	case "tone":
		prefs.Tone = value
	case "level":
		prefs.Level = value
	case "domain":
		prefs.Domain = value
	default:
		return b.sendText(msg.Chat.ID, "Pick one of nickname, tone, level or domain.")
	}
	if err := b.svc.Users.UpdatePreferences(ctx, user, prefs); err != nil {
		return err
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("Saved: %s = %s", escape(field), escape(value)))
}

func (b *Bot) handleMenuAlias(ctx context.Context, msg *tgbotapi.Message) (bool, error) {
	text := strings.TrimSpace(strings.ToLower(msg.Text))
	switch text {
	case strings.ToLower(menuLabelWeek):
		b.setViewing(msg.From.ID, plan.WeekKeyOf(b.now()))
		user, err := b.ensureUser(ctx, msg.From)
		if err != nil {
			return true, err
		}
		return true, b.sendWeek(ctx, msg.Chat.ID, user, b.currentWeek(msg.From.ID))
	case strings.ToLower(menuLabelAdd):
		return true, b.handleAdd(ctx, msg)
	case strings.ToLower(menuLabelReport):
		return true, b.handleReport(ctx, msg)
	case strings.ToLower(menuLabelHelp):
		return true, b.handleHelp(msg)
	default:
		return false, nil
	}
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb == nil || cb.From == nil || cb.Message == nil {
		return nil
	}
	data := cb.Data
	log.Printf("[info] callback user=%d data=%s", cb.From.ID, data)

	user, err := b.ensureUser(ctx, cb.From)
	if err != nil {
		b.ack(cb, "")
		return err
	}

	var week model.WeekKey
	notice := ""
	switch {
	case strings.HasPrefix(data, cbStatusPrefix):
		status, taskID, ok := parseStatusCallback(data)
		if !ok {
			b.ack(cb, "")
			return nil
		}
		tr, err := b.svc.Plans.SetStatus(ctx, user, taskID, status)
		if err != nil {
			b.ack(cb, callbackError(err))
			return nil
		}
		week = tr.Before.Week
		if tr.Moved {
			notice = fmt.Sprintf("🕒 Moved to %s %s", tr.After.Week, tr.After.Day)
		}
	case strings.HasPrefix(data, cbHidePrefix), strings.HasPrefix(data, cbShowPrefix):
		hide := strings.HasPrefix(data, cbHidePrefix)
		taskID := strings.TrimPrefix(strings.TrimPrefix(data, cbHidePrefix), cbShowPrefix)
		task, err := b.svc.Plans.SetHidden(ctx, user, taskID, hide)
		if err != nil {
			b.ack(cb, callbackError(err))
			return nil
		}
		week = task.Week
	case strings.HasPrefix(data, cbWeekPrefix):
		key := model.WeekKey(strings.TrimPrefix(data, cbWeekPrefix))
		if _, ok := plan.ParseWeekKey(key); !ok {
			b.ack(cb, "")
			return nil
		}
		week = key
		b.setViewing(cb.From.ID, week)
	default:
		b.ack(cb, "")
		return nil
	}

	b.ack(cb, notice)
	return b.refreshWeek(ctx, cb.Message.Chat.ID, cb.Message.MessageID, user, week)
}

func callbackError(err error) string {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "Task not found."
	}
	log.Printf("callback: %v", err)
	return "Something went wrong, try again."
}

func (b *Bot) ack(cb *tgbotapi.CallbackQuery, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, text)); err != nil {
		log.Printf("callback ack: %v", err)
	}
}

// SendWeeklyReports delivers the current week's summary to every user.
func (b *Bot) SendWeeklyReports(ctx context.Context) error {
	users, err := b.svc.Users.ListAll(ctx)
	if err != nil {
		return err
	}
	now := b.now()
	key := plan.WeekKeyOf(now)
	for i := range users {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		user := &users[i]
		text, err := b.svc.Reports.WeeklySummary(ctx, user, key, now)
		if err != nil {
			log.Printf("build summary for user %d: %v", user.TelegramID, err)
			continue
		}
		if err := b.sendText(user.TelegramID, text); err != nil {
			log.Printf("send summary to %d: %v", user.TelegramID, err)
		}
	}
	return nil
}

func (b *Bot) sendWeek(ctx context.Context, chatID int64, user *model.User, key model.WeekKey) error {
	tasks, err := b.svc.Plans.Week(ctx, user, key)
	if err != nil {
		return b.sendText(chatID, fmt.Sprintf("Could not load the week: %s", escape(err.Error())))
	}
	text, markup := renderWeek(key, tasks)
	return b.sendWithReplyMarkup(chatID, text, markup)
}

func (b *Bot) refreshWeek(ctx context.Context, chatID int64, messageID int, user *model.User, key model.WeekKey) error {
	tasks, err := b.svc.Plans.Week(ctx, user, key)
	if err != nil {
		return err
	}
	text, markup := renderWeek(key, tasks)
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, markup)
	edit.ParseMode = tgbotapi.ModeHTML
	_, err = b.api.Send(edit)
	return err
}

func (b *Bot) ensureUser(ctx context.Context, from *tgbotapi.User) (*model.User, error) {
	return b.svc.Users.UpsertFromTelegram(ctx, from.ID, from.FirstName, from.LastName, from.UserName)
}

func (b *Bot) now() time.Time {
	if b.config != nil && b.config.Location != nil {
		return time.Now().In(b.config.Location)
	}
	return time.Now()
}

func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = mainMenuKeyboard()
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) sendWithReplyMarkup(chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = markup
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) currentWeek(userID int64) model.WeekKey {
	b.mu.Lock()
	defer b.mu.Unlock()
	if key, ok := b.viewing[userID]; ok {
		return key
	}
	return plan.WeekKeyOf(b.now())
}

func (b *Bot) setViewing(userID int64, key model.WeekKey) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.viewing[userID] = key
}

func (b *Bot) setConversation(userID int64, state *conversationState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.conversations[userID] = state
}

func (b *Bot) getConversation(userID int64) *conversationState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conversations[userID]
}

func (b *Bot) hasConversation(userID int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.conversations[userID]
	return ok
}

func (b *Bot) clearConversation(userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.conversations, userID)
}
