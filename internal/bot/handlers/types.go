// Package handlers contains the event handlers behind the bot's router.
package handlers

import (
	"context"

	"github.com/fvalenzuela1/botarb/internal/event"
)

// Handler processes a decoded inbound event.
type Handler func(ctx context.Context, ev event.Event) error

// Middleware wraps handlers with additional behavior.
type Middleware func(Handler) Handler
