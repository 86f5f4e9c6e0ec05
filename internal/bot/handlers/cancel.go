package handlers

import (
	"context"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/fvalenzuela1/botarb/internal/bot/keyboard"
	apperrors "github.com/fvalenzuela1/botarb/internal/errors"
	"github.com/fvalenzuela1/botarb/internal/event"
	"github.com/fvalenzuela1/botarb/internal/reply"
	"github.com/fvalenzuela1/botarb/internal/session"
	"github.com/fvalenzuela1/botarb/internal/telegram"
)

// NewCancelHandler resets the user's mode and re-sends the menu.
func NewCancelHandler(store session.Store, kb *keyboard.Builder, sender telegram.Sender, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(ctx context.Context, ev event.Event) error {
		if store == nil || sender == nil {
			log.Error("cancel handler missing dependencies")
			return nil
		}

		if err := store.Clear(ctx, ev.UserID); err != nil {
			return apperrors.NewStateError(err)
		}

		if err := sender.SendText(ctx, ev.UserID, reply.Cancelled, nil); err != nil {
			return err
		}

		var markup *telebot.ReplyMarkup
		if kb != nil {
			markup = kb.ArbitrageMenu()
		}

		return sender.SendText(ctx, ev.UserID, reply.MenuPrompt, markup)
	}
}
