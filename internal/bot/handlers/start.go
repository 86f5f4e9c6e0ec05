package handlers

import (
	"context"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/fvalenzuela1/botarb/internal/bot/keyboard"
	"github.com/fvalenzuela1/botarb/internal/event"
	"github.com/fvalenzuela1/botarb/internal/reply"
	"github.com/fvalenzuela1/botarb/internal/telegram"
)

// NewStartHandler returns the /start command handler: it sends the mode
// selection menu. The session mode is left untouched.
func NewStartHandler(kb *keyboard.Builder, sender telegram.Sender, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(ctx context.Context, ev event.Event) error {
		if sender == nil {
			log.Error("sender not configured for start handler")
			return nil
		}

		var markup *telebot.ReplyMarkup
		if kb != nil {
			markup = kb.ArbitrageMenu()
		} else {
			log.Warn("keyboard builder not configured for start handler")
		}

		return sender.SendText(ctx, ev.UserID, reply.MenuPrompt, markup)
	}
}
