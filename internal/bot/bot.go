package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"accountability/internal/logger"
	"accountability/internal/messages"
	"accountability/internal/model"
	"accountability/internal/parser"
	"accountability/internal/service"
)

const (
	defaultFocusMinutes = 60
	defaultVacationDays = 1
)

// Bot routes inbound Telegram updates: command-prefixed text mutates
// linking/suppression state, anything else goes through the task intent
// parser.
type Bot struct {
	api       *tgbotapi.BotAPI
	out       service.Delivery
	settings  service.SettingsStore
	taskSvc   *service.TaskService
	reminders *service.ReminderService
}

func New(api *tgbotapi.BotAPI, out service.Delivery, settings service.SettingsStore, taskSvc *service.TaskService, reminders *service.ReminderService) *Bot {
	return &Bot{api: api, out: out, settings: settings, taskSvc: taskSvc, reminders: reminders}
}

// StartPolling begins long-polling updates until ctx is cancelled. Used
// for local development; production feeds updates through the webhook.
func (b *Bot) StartPolling(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	logger.Info("start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		if err := b.HandleUpdate(ctx, update); err != nil {
			logger.Error("handle update", err)
		}
	}
	return nil
}

// HandleUpdate processes a single inbound update.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) error {
	msg := update.Message
	if msg == nil || msg.Text == "" {
		return nil
	}
	if msg.Chat == nil || !msg.Chat.IsPrivate() {
		return nil
	}

	if msg.IsCommand() {
		logger.Info("command received",
			zap.Int64("chat", msg.Chat.ID),
			zap.String("command", msg.Command()))
		return b.handleCommand(ctx, msg)
	}
	return b.handleTaskMessage(ctx, msg)
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	switch msg.Command() {
	case "start":
		return b.handleStart(ctx, msg)
	case "status":
		return b.handleStatus(ctx, msg)
	case "disconnect":
		return b.handleDisconnect(ctx, msg)
	case "help":
		b.reply(ctx, msg.Chat.ID, messages.Help())
		return nil
	case "focus":
		return b.handleFocus(ctx, msg)
	case "vacation":
		return b.handleVacation(ctx, msg)
	case "summary":
		return b.handleSummary(ctx, msg)
	default:
		b.reply(ctx, msg.Chat.ID, "Unknown command. Send /help for the list of commands.")
		return nil
	}
}

// handleStart links this chat to the app account encoded in the link
// code. Without a code it runs as a plain welcome.
func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) error {
	linkCode := strings.TrimSpace(msg.CommandArguments())
	if linkCode == "" {
		b.reply(ctx, msg.Chat.ID, messages.Welcome())
		return nil
	}

	if _, err := b.settings.LinkChat(ctx, linkCode, msg.Chat.ID); err != nil {
		logger.Error("link telegram chat", err, zap.Int64("chat", msg.Chat.ID))
		b.reply(ctx, msg.Chat.ID, "❌ Failed to connect. Please try again from the app.")
		return err
	}

	name := "there"
	if msg.From != nil {
		if msg.From.UserName != "" {
			name = msg.From.UserName
		} else if msg.From.FirstName != "" {
			name = msg.From.FirstName
		}
	}
	b.reply(ctx, msg.Chat.ID, messages.Connected(name))
	return nil
}

func (b *Bot) handleStatus(ctx context.Context, msg *tgbotapi.Message) error {
	if _, err := b.settings.FindByChatID(ctx, msg.Chat.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			b.reply(ctx, msg.Chat.ID, "❌ Your Telegram is not connected. Use the app to connect.")
			return nil
		}
		return err
	}
	b.reply(ctx, msg.Chat.ID, "✅ Your Telegram is connected and active!")
	return nil
}

func (b *Bot) handleDisconnect(ctx context.Context, msg *tgbotapi.Message) error {
	if err := b.settings.UnlinkChat(ctx, msg.Chat.ID); err != nil {
		return err
	}
	b.reply(ctx, msg.Chat.ID, "👋 Disconnected! You will no longer receive reminders.")
	return nil
}

func (b *Bot) handleFocus(ctx context.Context, msg *tgbotapi.Message) error {
	settings, ok := b.linkedSettings(ctx, msg.Chat.ID)
	if !ok {
		return nil
	}

	arg := strings.TrimSpace(msg.CommandArguments())
	if strings.EqualFold(arg, "off") {
		settings.FocusUntil = nil
		if err := b.settings.Save(ctx, settings); err != nil {
			return err
		}
		b.reply(ctx, msg.Chat.ID, "🔔 Focus mode off. Reminders are back on.")
		return nil
	}

	minutes := defaultFocusMinutes
	if arg != "" {
		parsed, err := strconv.Atoi(arg)
		if err != nil || parsed <= 0 {
			b.reply(ctx, msg.Chat.ID, "Usage: /focus &lt;minutes&gt; or /focus off")
			return nil
		}
		minutes = parsed
	}

	until := time.Now().Add(time.Duration(minutes) * time.Minute)
	settings.FocusUntil = &until
	if err := b.settings.Save(ctx, settings); err != nil {
		return err
	}
	b.reply(ctx, msg.Chat.ID, fmt.Sprintf("🧘 Focus mode on for %d minutes. Reminders are paused.", minutes))
	return nil
}

func (b *Bot) handleVacation(ctx context.Context, msg *tgbotapi.Message) error {
	settings, ok := b.linkedSettings(ctx, msg.Chat.ID)
	if !ok {
		return nil
	}

	arg := strings.TrimSpace(msg.CommandArguments())
	if strings.EqualFold(arg, "off") {
		settings.VacationUntil = nil
		if err := b.settings.Save(ctx, settings); err != nil {
			return err
		}
		b.reply(ctx, msg.Chat.ID, "🔔 Vacation mode off. Welcome back!")
		return nil
	}

	days := defaultVacationDays
	if arg != "" {
		parsed, err := strconv.Atoi(arg)
		if err != nil || parsed <= 0 {
			b.reply(ctx, msg.Chat.ID, "Usage: /vacation &lt;days&gt; or /vacation off")
			return nil
		}
		days = parsed
	}

	until := time.Now().AddDate(0, 0, days)
	settings.VacationUntil = &until
	if err := b.settings.Save(ctx, settings); err != nil {
		return err
	}
	b.reply(ctx, msg.Chat.ID, fmt.Sprintf("🏖 Vacation mode on for %d day(s). Everything is paused.", days))
	return nil
}

func (b *Bot) handleSummary(ctx context.Context, msg *tgbotapi.Message) error {
	settings, ok := b.linkedSettings(ctx, msg.Chat.ID)
	if !ok {
		return nil
	}
	text, err := b.reminders.SummaryFor(ctx, settings.UserID, time.Now())
	if err != nil {
		return err
	}
	b.reply(ctx, msg.Chat.ID, text)
	return nil
}

// handleTaskMessage turns free-form text into a task for the linked user.
func (b *Bot) handleTaskMessage(ctx context.Context, msg *tgbotapi.Message) error {
	settings, ok := b.linkedSettings(ctx, msg.Chat.ID)
	if !ok {
		return nil
	}

	now := time.Now()
	task, result, err := b.taskSvc.CreateFromMessage(ctx, settings.UserID, msg.Text, now)
	switch {
	case errors.Is(err, parser.ErrMessageTooShort), errors.Is(err, parser.ErrTitleMissing):
		b.reply(ctx, msg.Chat.ID, messages.ParseError(err))
		return nil
	case err != nil:
		logger.Error("create task from message", err, zap.String("user", settings.UserID))
		b.reply(ctx, msg.Chat.ID, messages.DatabaseError())
		return err
	}

	logger.Info("task created from chat",
		zap.String("task", task.ID),
		zap.String("user", settings.UserID),
		zap.String("bucket", string(task.Bucket)))

	b.reply(ctx, msg.Chat.ID, messages.TaskConfirmation(result.Task, task.Bucket, result.Warning, now))
	return nil
}

// linkedSettings resolves the chat's account, replying with the
// not-connected help when there is none.
func (b *Bot) linkedSettings(ctx context.Context, chatID int64) (*model.UserSettings, bool) {
	settings, err := b.settings.FindByChatID(ctx, chatID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("resolve chat link", err, zap.Int64("chat", chatID))
		}
		b.reply(ctx, chatID, messages.NotConnected())
		return nil, false
	}
	return settings, true
}

func (b *Bot) reply(ctx context.Context, chatID int64, text string) {
	if !b.out.Send(ctx, chatID, text) {
		logger.Warn("reply not delivered", zap.Int64("chat", chatID))
	}
}
