package idempotency

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGuard_Seen(t *testing.T) {
	guard := NewGuard(time.Minute, testLogger())

	require.False(t, guard.Seen(1))
	require.True(t, guard.Seen(1))
	require.False(t, guard.Seen(2))
}

func TestGuard_ExpiryAllowsReprocessing(t *testing.T) {
	guard := NewGuard(10*time.Millisecond, testLogger())

	require.False(t, guard.Seen(1))
	time.Sleep(20 * time.Millisecond)

	// Entry expired: the same ID counts as new again.
	require.False(t, guard.Seen(1))
}

func TestGuard_Cleanup(t *testing.T) {
	guard := NewGuard(10*time.Millisecond, testLogger())

	require.False(t, guard.Seen(1))
	require.False(t, guard.Seen(2))
	time.Sleep(20 * time.Millisecond)
	require.False(t, guard.Seen(3))

	removed := guard.Cleanup()
	require.Equal(t, 2, removed)
	require.Equal(t, 0, guard.Cleanup())
}
