package reminder

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	tele "gopkg.in/telebot.v4"
)

// TelegramSender delivers reminders through the Telegram Bot API. The HTTP
// client carries a bounded timeout so one unreachable endpoint cannot stall
// a sweep indefinitely.
type TelegramSender struct {
	bot *tele.Bot
	log zerolog.Logger
}

func NewTelegramSender(token string, log zerolog.Logger) (*TelegramSender, error) {
	if strings.TrimSpace(token) == "" {
		return nil, errors.New("telegram bot token is empty")
	}
	bot, err := tele.NewBot(tele.Settings{
		Token:  token,
		Client: &http.Client{Timeout: 10 * time.Second},
	})
	if err != nil {
		return nil, err
	}
	return &TelegramSender{bot: bot, log: log}, nil
}

// Send reports delivery failure as false; errors are logged, never
// propagated. The context deadline is honored through the client timeout.
func (sender *TelegramSender) Send(ctx context.Context, chatID string, text string) bool {
	if err := ctx.Err(); err != nil {
		sender.log.Warn().Err(err).Str("chat_id", chatID).Msg("telegram send aborted")
		return false
	}

	numericChatID, err := strconv.ParseInt(strings.TrimSpace(chatID), 10, 64)
	if err != nil {
		sender.log.Warn().Str("chat_id", chatID).Msg("telegram chat id is not numeric")
		return false
	}

	if _, err := sender.bot.Send(tele.ChatID(numericChatID), text, tele.ModeHTML); err != nil {
		sender.log.Error().Err(err).Str("chat_id", chatID).Msg("telegram send failed")
		return false
	}
	return true
}
