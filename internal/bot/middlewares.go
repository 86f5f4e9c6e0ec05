package bot

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/fvalenzuela1/botarb/internal/bot/handlers"
	apperrors "github.com/fvalenzuela1/botarb/internal/errors"
	"github.com/fvalenzuela1/botarb/internal/event"
	"github.com/fvalenzuela1/botarb/internal/telegram"
	"github.com/fvalenzuela1/botarb/pkg/metrics"
)

// RecoveryMiddleware catches panics, reports them via the centralized
// handler, and notifies the user. A panicking handler never fails the
// surrounding request or leaks into other requests.
func RecoveryMiddleware(log *slog.Logger, errHandler *apperrors.Handler, sender telegram.Sender) handlers.Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(ctx context.Context, ev event.Event) (err error) {
			defer func() {
				if r := recover(); r != nil {
					log.Error("panic recovered in handler",
						slog.Any("panic", r),
						slog.String("stack", string(debug.Stack())),
					)

					userMsg := "Ocurrió un error. Intenta de nuevo más tarde."
					if errHandler != nil {
						panicErr := apperrors.NewStateError(fmt.Errorf("panic recovered: %v", r))
						if msg, _ := errHandler.Handle(ctx, panicErr); msg != "" {
							userMsg = msg
						}
					}

					if sender != nil {
						if sendErr := sender.SendText(ctx, ev.UserID, userMsg, nil); sendErr != nil {
							log.Error("failed to notify user about panic", slog.Any("error", sendErr))
						}
					}

					err = nil
				}
			}()

			return next(ctx, ev)
		}
	}
}

// ErrorHandlingMiddleware centralizes error reporting and user messaging
// for handler failures. Errors are swallowed after reporting: a failed
// handler must not turn into a transport-level failure.
func ErrorHandlingMiddleware(errHandler *apperrors.Handler, sender telegram.Sender, log *slog.Logger) handlers.Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(ctx context.Context, ev event.Event) error {
			err := next(ctx, ev)
			if err == nil {
				return nil
			}

			userMsg := ""
			if errHandler != nil {
				userMsg, _ = errHandler.Handle(ctx, err)
			}

			if userMsg != "" && sender != nil {
				if sendErr := sender.SendText(ctx, ev.UserID, userMsg, nil); sendErr != nil {
					log.Error("failed to deliver error reply",
						slog.Int64("user_id", ev.UserID),
						slog.Any("error", sendErr),
					)
				}
			}

			return nil
		}
	}
}

// LoggingMiddleware logs basic telemetry about handled events.
func LoggingMiddleware(log *slog.Logger) handlers.Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(ctx context.Context, ev event.Event) error {
			start := time.Now()

			log.Info("handling update",
				slog.Int("update_id", ev.UpdateID),
				slog.String("kind", string(ev.Kind)),
				slog.Int64("user_id", ev.UserID),
			)

			err := next(ctx, ev)

			log.Info("handled update",
				slog.Int("update_id", ev.UpdateID),
				slog.String("kind", string(ev.Kind)),
				slog.Int64("user_id", ev.UserID),
				slog.Duration("duration", time.Since(start)),
				slog.Any("error", err),
			)

			return err
		}
	}
}

// MetricsMiddleware measures execution time and status per event kind.
func MetricsMiddleware() handlers.Middleware {
	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(ctx context.Context, ev event.Event) error {
			start := time.Now()
			err := next(ctx, ev)

			status := "ok"
			if err != nil {
				status = "error"
			}

			metrics.RecordUpdate(string(ev.Kind), status, time.Since(start))

			return err
		}
	}
}
