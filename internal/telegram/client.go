// Package telegram wraps the telebot client behind the narrow surface the
// rest of the bot needs.
package telegram

import (
	"context"
	"fmt"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	apperrors "github.com/fvalenzuela1/botarb/internal/errors"
)

// Sender delivers outbound messages to the platform.
type Sender interface {
	// SendText sends Markdown-formatted text to the user, optionally with an
	// inline keyboard.
	SendText(ctx context.Context, userID int64, text string, markup *telebot.ReplyMarkup) error
	// AnswerCallback acknowledges a callback query so the client stops
	// showing its progress indicator.
	AnswerCallback(ctx context.Context, callbackID string) error
}

// Client is the telebot-backed platform client.
type Client struct {
	bot *telebot.Bot
	log *slog.Logger
}

// NewClient authenticates against the platform with the given token. The
// token is verified immediately; a failure here is fatal for the process.
func NewClient(token string, log *slog.Logger) (*Client, error) {
	if log == nil {
		log = slog.Default()
	}

	settings := telebot.Settings{
		Token:     token,
		ParseMode: telebot.ModeMarkdown,
		OnError: func(err error, _ telebot.Context) {
			log.Error("telebot error", slog.Any("error", err))
		},
	}

	tb, err := telebot.NewBot(settings)
	if err != nil {
		return nil, fmt.Errorf("initialize telebot: %w", err)
	}

	return &Client{bot: tb, log: log}, nil
}

// SendText implements Sender.
func (c *Client) SendText(ctx context.Context, userID int64, text string, markup *telebot.ReplyMarkup) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	opts := &telebot.SendOptions{ParseMode: telebot.ModeMarkdown}
	if markup != nil {
		opts.ReplyMarkup = markup
	}

	if _, err := c.bot.Send(telebot.ChatID(userID), text, opts); err != nil {
		return apperrors.NewDeliveryError(err)
	}

	return nil
}

// AnswerCallback implements Sender.
func (c *Client) AnswerCallback(ctx context.Context, callbackID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := c.bot.Respond(&telebot.Callback{ID: callbackID}, &telebot.CallbackResponse{}); err != nil {
		return apperrors.NewDeliveryError(err)
	}

	return nil
}

// SetWebhook registers url with the platform as the delivery target for
// message and callback_query updates.
func (c *Client) SetWebhook(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	params := map[string]interface{}{
		"url":             url,
		"allowed_updates": []string{"message", "callback_query"},
	}

	if _, err := c.bot.Raw("setWebhook", params); err != nil {
		return fmt.Errorf("set webhook: %w", err)
	}

	c.log.Info("webhook registered", slog.String("url", url))
	return nil
}

// SetCommands publishes the bot command list shown in the chat client.
func (c *Client) SetCommands(ctx context.Context, commands []telebot.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := c.bot.SetCommands(commands); err != nil {
		return fmt.Errorf("set commands: %w", err)
	}

	return nil
}
