package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"accountability/internal/logger"
)

// Transport delivers messages over the Telegram Bot API. Any transport or
// network failure is reduced to false so reminder sweeps never abort on a
// bad send.
type Transport struct {
	api *tgbotapi.BotAPI
}

func NewTransport(api *tgbotapi.BotAPI) *Transport {
	return &Transport{api: api}
}

func (t *Transport) Send(ctx context.Context, chatID int64, text string) bool {
	if err := ctx.Err(); err != nil {
		return false
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	if _, err := t.api.Send(msg); err != nil {
		logger.Error("send telegram message", err, zap.Int64("chat", chatID))
		return false
	}
	return true
}
