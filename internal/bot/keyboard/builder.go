// Package keyboard builds the bot's inline keyboards.
package keyboard

import (
	"log/slog"

	telebot "gopkg.in/telebot.v3"
)

// Builder creates inline keyboards for the bot's menus.
type Builder struct {
	log *slog.Logger
}

// NewBuilder returns a new Builder instance.
func NewBuilder(log *slog.Logger) *Builder {
	return &Builder{log: log}
}

// ArbitrageMenu builds the mode selection menu with its two options. Each
// button produces a callback query carrying its Data value.
func (b *Builder) ArbitrageMenu() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	markup.InlineKeyboard = [][]telebot.InlineButton{
		{
			{
				Text: "🧮 Completar arbitraje",
				Data: "completar",
			},
		},
		{
			{
				Text: "🔀 Arbitraje total",
				Data: "total",
			},
		},
	}
	return markup
}
