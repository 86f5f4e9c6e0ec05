package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/fvalenzuela1/botarb/internal/bot/handlers"
	apperrors "github.com/fvalenzuela1/botarb/internal/errors"
	"github.com/fvalenzuela1/botarb/internal/event"
	"github.com/fvalenzuela1/botarb/internal/session"
)

// Router dispatches decoded events to command, callback, and mode-specific
// handlers. Text messages are routed by the user's current session mode,
// never by the message content itself.
type Router struct {
	mu           sync.RWMutex
	commands     map[string]handlers.Handler
	callbacks    map[string]handlers.Handler
	modeHandlers map[session.Mode]handlers.Handler
	fallback     handlers.Handler
	middlewares  []handlers.Middleware

	store session.Store
	log   *slog.Logger
}

// NewRouter builds a Router with empty registries.
func NewRouter(store session.Store, log *slog.Logger) *Router {
	if log == nil {
		log = slog.Default()
	}

	return &Router{
		commands:     make(map[string]handlers.Handler),
		callbacks:    make(map[string]handlers.Handler),
		modeHandlers: make(map[session.Mode]handlers.Handler),
		middlewares:  make([]handlers.Middleware, 0),
		store:        store,
		log:          log,
	}
}

// RegisterCommand registers a handler for a bot command.
func (r *Router) RegisterCommand(cmd string, h handlers.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands[cmd] = h
}

// RegisterCallback registers a handler for callback data prefixes.
func (r *Router) RegisterCallback(prefix string, h handlers.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.callbacks[prefix] = h
}

// RegisterModeHandler registers the text handler for an active session mode.
func (r *Router) RegisterModeHandler(mode session.Mode, h handlers.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modeHandlers[mode] = h
}

// SetFallback sets the handler for text received while no mode is active.
func (r *Router) SetFallback(h handlers.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = h
}

// Use appends a middleware to the chain.
func (r *Router) Use(mw handlers.Middleware) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.middlewares = append(r.middlewares, mw)
}

// Route directs the event to the matching handler. Every reachable branch
// either produces a reply or is an explicit, logged no-op; routing itself
// never rejects an event.
func (r *Router) Route(ctx context.Context, ev event.Event) error {
	switch ev.Kind {
	case event.KindCommand:
		if h := r.commandHandler(ev.Command); h != nil {
			return r.execute(h, ctx, ev)
		}

		r.log.Info("unknown command ignored",
			slog.String("command", ev.Command),
			slog.Int64("user_id", ev.UserID),
		)
		return nil

	case event.KindCallback:
		if h := r.callbackHandler(ev.CallbackData); h != nil {
			return r.execute(h, ctx, ev)
		}

		// Unrecognized callback data is a tolerated no-op, not an error.
		r.log.Info("unrecognized callback ignored",
			slog.String("data", ev.CallbackData),
			slog.Int64("user_id", ev.UserID),
		)
		return nil

	case event.KindText:
		return r.routeText(ctx, ev)

	default:
		return fmt.Errorf("bot: unknown event kind %q", ev.Kind)
	}
}

func (r *Router) routeText(ctx context.Context, ev event.Event) error {
	mode := session.ModeNone

	if r.store != nil {
		stored, err := r.store.Get(ctx, ev.UserID)
		if err != nil {
			if !errors.Is(err, session.ErrNotFound) {
				return apperrors.NewStateError(err)
			}
		} else {
			mode = stored
		}
	}

	if mode != session.ModeNone {
		if h := r.modeHandler(mode); h != nil {
			return r.execute(h, ctx, ev)
		}

		r.log.Warn("no handler registered for mode",
			slog.String("mode", string(mode)),
			slog.Int64("user_id", ev.UserID),
		)
	}

	if h := r.fallbackHandler(); h != nil {
		return r.execute(h, ctx, ev)
	}

	return nil
}

func (r *Router) execute(h handlers.Handler, ctx context.Context, ev event.Event) error {
	wrapped := r.applyMiddlewares(h)
	if wrapped == nil {
		return nil
	}
	return wrapped(ctx, ev)
}

func (r *Router) commandHandler(cmd string) handlers.Handler {
	r.mu.RLock()
	handler := r.commands[cmd]
	r.mu.RUnlock()
	return handler
}

func (r *Router) callbackHandler(data string) handlers.Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for prefix, handler := range r.callbacks {
		if strings.HasPrefix(data, prefix) {
			return handler
		}
	}

	return nil
}

func (r *Router) modeHandler(mode session.Mode) handlers.Handler {
	r.mu.RLock()
	handler := r.modeHandlers[mode]
	r.mu.RUnlock()
	return handler
}

func (r *Router) fallbackHandler() handlers.Handler {
	r.mu.RLock()
	handler := r.fallback
	r.mu.RUnlock()
	return handler
}

// applyMiddlewares wraps the handler with all registered middlewares.
func (r *Router) applyMiddlewares(h handlers.Handler) handlers.Handler {
	if h == nil {
		return nil
	}

	middlewares := r.middlewaresSnapshot()
	wrapped := h
	for i := len(middlewares) - 1; i >= 0; i-- {
		wrapped = middlewares[i](wrapped)
	}

	return wrapped
}

func (r *Router) middlewaresSnapshot() []handlers.Middleware {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.middlewares) == 0 {
		return nil
	}

	snapshot := make([]handlers.Middleware, len(r.middlewares))
	copy(snapshot, r.middlewares)
	return snapshot
}
