package session

import (
	"context"
	"log/slog"
	"sync"
)

// Store is the persistence contract for per-user modes.
type Store interface {
	// Get returns the current mode for the user, or ErrNotFound.
	Get(ctx context.Context, userID int64) (Mode, error)
	// Set saves the mode for the user, overwriting any previous value.
	Set(ctx context.Context, userID int64, mode Mode) error
	// Clear removes the user's entry.
	Clear(ctx context.Context, userID int64) error
}

// MemoryStore keeps modes in a process-lifetime map. There is no TTL and no
// eviction: a restart silently resets every user to the initial state.
// Entries for different users never interfere; concurrent writes for the
// same user are last-write-wins.
type MemoryStore struct {
	mu    sync.RWMutex
	modes map[int64]Mode
	log   *slog.Logger
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore(log *slog.Logger) *MemoryStore {
	if log == nil {
		log = slog.Default()
	}

	return &MemoryStore{
		modes: make(map[int64]Mode),
		log:   log,
	}
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, userID int64) (Mode, error) {
	s.mu.RLock()
	mode, ok := s.modes[userID]
	s.mu.RUnlock()

	if !ok {
		return ModeNone, ErrNotFound
	}

	return mode, nil
}

// Set implements Store.
func (s *MemoryStore) Set(_ context.Context, userID int64, mode Mode) error {
	s.mu.Lock()
	previous, ok := s.modes[userID]
	s.modes[userID] = mode
	s.mu.Unlock()

	if !ok {
		previous = ModeNone
	}
	if previous != mode {
		modeRecorder(string(previous), string(mode))
	}

	s.log.Debug("session mode updated",
		slog.Int64("user_id", userID),
		slog.String("from", string(previous)),
		slog.String("to", string(mode)),
	)

	return nil
}

// Clear implements Store.
func (s *MemoryStore) Clear(_ context.Context, userID int64) error {
	s.mu.Lock()
	delete(s.modes, userID)
	s.mu.Unlock()

	return nil
}

// Len reports the number of tracked sessions.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.modes)
}
