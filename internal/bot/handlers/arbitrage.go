package handlers

import (
	"context"
	"log/slog"

	"github.com/fvalenzuela1/botarb/internal/arb"
	apperrors "github.com/fvalenzuela1/botarb/internal/errors"
	"github.com/fvalenzuela1/botarb/internal/event"
	"github.com/fvalenzuela1/botarb/internal/reply"
	"github.com/fvalenzuela1/botarb/internal/session"
	"github.com/fvalenzuela1/botarb/internal/telegram"
	"github.com/fvalenzuela1/botarb/pkg/metrics"
)

// Formula evaluates one of the arbitrage formulas over a parsed request.
type Formula func(a, b, c float64) (x, y float64, err error)

// NewModeSelectHandler returns the callback handler that activates mode and
// replies with the matching format hint. The mode overwrites whatever the
// user had selected before.
func NewModeSelectHandler(mode session.Mode, hint string, store session.Store, sender telegram.Sender, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(ctx context.Context, ev event.Event) error {
		if store == nil || sender == nil {
			log.Error("mode select handler missing dependencies", slog.String("mode", string(mode)))
			return nil
		}

		if ev.CallbackID != "" {
			if err := sender.AnswerCallback(ctx, ev.CallbackID); err != nil {
				log.Warn("failed to answer callback",
					slog.Int64("user_id", ev.UserID),
					slog.Any("error", err),
				)
			}
		}

		if err := store.Set(ctx, ev.UserID, mode); err != nil {
			return apperrors.NewStateError(err)
		}

		return sender.SendText(ctx, ev.UserID, hint, nil)
	}
}

// NewCalculationHandler returns the text handler for an active mode: it
// parses three numbers out of the message, evaluates the formula, and
// replies with the rendered result. Parse and calculation failures produce
// a user-visible reply and leave the mode untouched, so the user can retry
// without re-selecting the menu.
func NewCalculationHandler(name string, formula Formula, render func(x, y float64) string, sender telegram.Sender, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(ctx context.Context, ev event.Event) error {
		if sender == nil {
			log.Error("calculation handler missing sender", slog.String("formula", name))
			return nil
		}

		req, err := arb.ParseRequest(ev.Text)
		if err != nil {
			metrics.RecordCalculation(name, "invalid_input")
			log.Info("rejected calculation input",
				slog.String("formula", name),
				slog.Int64("user_id", ev.UserID),
				slog.Any("error", err),
			)
			return sender.SendText(ctx, ev.UserID, reply.InvalidFormat, nil)
		}

		x, y, err := formula(req.A, req.B, req.C)
		if err != nil {
			metrics.RecordCalculation(name, "error")
			calcErr := apperrors.NewCalculationError(err)
			log.Warn("calculation failed",
				slog.String("formula", name),
				slog.Int64("user_id", ev.UserID),
				slog.Any("error", err),
			)
			return sender.SendText(ctx, ev.UserID, calcErr.UserMessage, nil)
		}

		metrics.RecordCalculation(name, "ok")
		return sender.SendText(ctx, ev.UserID, render(x, y), nil)
	}
}

// NewIdleTextHandler returns the fallback for text received while no mode
// is active: point the user at /start, compute nothing.
func NewIdleTextHandler(sender telegram.Sender, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(ctx context.Context, ev event.Event) error {
		if sender == nil {
			log.Error("idle text handler missing sender")
			return nil
		}

		return sender.SendText(ctx, ev.UserID, reply.StartHint, nil)
	}
}
