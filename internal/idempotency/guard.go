// Package idempotency deduplicates webhook deliveries by update ID. The
// platform retries deliveries that were not acknowledged in time; retried
// updates must be acked without being processed again.
package idempotency

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const defaultTTL = 10 * time.Minute

// Guard is an in-memory seen-set over update IDs with a TTL. Entries are
// pruned by Cleanup; the set is otherwise unbounded within one TTL window.
type Guard struct {
	mu   sync.Mutex
	seen map[int]time.Time
	ttl  time.Duration
	log  *slog.Logger
}

// NewGuard builds a Guard. A non-positive ttl falls back to the default.
func NewGuard(ttl time.Duration, log *slog.Logger) *Guard {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if log == nil {
		log = slog.Default()
	}

	return &Guard{
		seen: make(map[int]time.Time),
		ttl:  ttl,
		log:  log,
	}
}

// Seen records the update ID and reports whether it was already present
// within the TTL window.
func (g *Guard) Seen(updateID int) bool {
	now := time.Now()

	g.mu.Lock()
	defer g.mu.Unlock()

	if at, ok := g.seen[updateID]; ok && now.Sub(at) < g.ttl {
		return true
	}

	g.seen[updateID] = now
	return false
}

// Cleanup drops entries older than the TTL and returns how many were removed.
func (g *Guard) Cleanup() int {
	cutoff := time.Now().Add(-g.ttl)

	g.mu.Lock()
	defer g.mu.Unlock()

	removed := 0
	for id, at := range g.seen {
		if at.Before(cutoff) {
			delete(g.seen, id)
			removed++
		}
	}

	return removed
}

// StartCleaner prunes expired entries on the given interval until ctx is
// done. Intended to run as a goroutine.
func (g *Guard) StartCleaner(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := g.Cleanup(); removed > 0 {
				g.log.Debug("pruned idempotency entries", slog.Int("removed", removed))
			}
		}
	}
}
