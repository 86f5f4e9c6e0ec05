// Package bot wires the event router, its handlers, and the middleware
// chain for the arbitrage calculator bot.
package bot

import (
	"context"
	"fmt"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/fvalenzuela1/botarb/internal/arb"
	"github.com/fvalenzuela1/botarb/internal/bot/handlers"
	"github.com/fvalenzuela1/botarb/internal/bot/keyboard"
	apperrors "github.com/fvalenzuela1/botarb/internal/errors"
	"github.com/fvalenzuela1/botarb/internal/reply"
	"github.com/fvalenzuela1/botarb/internal/session"
	"github.com/fvalenzuela1/botarb/internal/telegram"
)

// CommandPublisher publishes the bot command list to the platform.
// Implemented by *telegram.Client.
type CommandPublisher interface {
	SetCommands(ctx context.Context, commands []telebot.Command) error
}

// Deps bundles everything the router's handlers need.
type Deps struct {
	Store      session.Store
	Sender     telegram.Sender
	Keyboard   *keyboard.Builder
	ErrHandler *apperrors.Handler
	Commands   CommandPublisher
	Log        *slog.Logger
}

// Startup returns the one-time runtime startup sequence: it installs the
// middleware chain, registers every handler on the router, and publishes
// the command list. The bridge guarantees it runs exactly once per process.
func Startup(r *Router, d Deps) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		log := d.Log
		if log == nil {
			log = slog.Default()
		}

		r.Use(RecoveryMiddleware(log, d.ErrHandler, d.Sender))
		r.Use(ErrorHandlingMiddleware(d.ErrHandler, d.Sender, log))
		r.Use(LoggingMiddleware(log))
		r.Use(MetricsMiddleware())

		r.RegisterCommand(CommandStart, handlers.NewStartHandler(d.Keyboard, d.Sender, log))
		r.RegisterCommand(CommandCancel, handlers.NewCancelHandler(d.Store, d.Keyboard, d.Sender, log))

		r.RegisterCallback(CallbackCompletar, handlers.NewModeSelectHandler(
			session.ModeCompletar, reply.CompletarHint(), d.Store, d.Sender, log))
		r.RegisterCallback(CallbackTotal, handlers.NewModeSelectHandler(
			session.ModeTotal, reply.TotalHint(), d.Store, d.Sender, log))

		r.RegisterModeHandler(session.ModeCompletar, handlers.NewCalculationHandler(
			"completar", arb.Complete, reply.CompletarResult, d.Sender, log))
		r.RegisterModeHandler(session.ModeTotal, handlers.NewCalculationHandler(
			"total", arb.Total, reply.TotalResult, d.Sender, log))

		r.SetFallback(handlers.NewIdleTextHandler(d.Sender, log))

		if d.Commands != nil {
			commandList := []telebot.Command{
				{Text: "start", Description: "Mostrar el menú de arbitraje"},
				{Text: "cancel", Description: "Cancelar el modo actual"},
			}

			if err := d.Commands.SetCommands(ctx, commandList); err != nil {
				return fmt.Errorf("publish command list: %w", err)
			}
		}

		log.Info("bot router configured")
		return nil
	}
}
