package bridge

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	telebot "gopkg.in/telebot.v3"

	"github.com/fvalenzuela1/botarb/internal/event"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type recordingRouter struct {
	mu     sync.Mutex
	events []event.Event
	err    error
	panics bool
}

func (r *recordingRouter) Route(_ context.Context, ev event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.panics {
		panic("handler exploded")
	}

	r.events = append(r.events, ev)
	return r.err
}

func (r *recordingRouter) recorded() []event.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]event.Event(nil), r.events...)
}

func textUpdate(id int, userID int64, text string) telebot.Update {
	return telebot.Update{
		ID:      id,
		Message: &telebot.Message{Sender: &telebot.User{ID: userID}, Text: text},
	}
}

func TestEnsureReady_RunsStartupOnce(t *testing.T) {
	var startups int32

	br := New(&recordingRouter{}, func(context.Context) error {
		time.Sleep(10 * time.Millisecond) // widen the race window
		atomic.AddInt32(&startups, 1)
		return nil
	}, 2, 8, testLogger())

	const callers = 20
	errCh := make(chan error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errCh <- br.EnsureReady(context.Background())
		}()
	}
	wg.Wait()
	close(errCh)

	for err := range errCh {
		require.NoError(t, err)
	}

	require.Equal(t, int32(1), atomic.LoadInt32(&startups))
	require.True(t, br.Ready())
}

func TestEnsureReady_StartupErrorPropagatesToAllCallers(t *testing.T) {
	var startups int32
	startupErr := errors.New("setCommands rejected")

	br := New(&recordingRouter{}, func(context.Context) error {
		atomic.AddInt32(&startups, 1)
		return startupErr
	}, 2, 8, testLogger())

	for i := 0; i < 5; i++ {
		err := br.EnsureReady(context.Background())
		require.ErrorIs(t, err, startupErr)
	}

	// The failed startup is not retried.
	require.Equal(t, int32(1), atomic.LoadInt32(&startups))
	require.False(t, br.Ready())
}

func TestProcess_RoutesDecodedEvent(t *testing.T) {
	router := &recordingRouter{}
	br := New(router, nil, 2, 8, testLogger())

	err := br.Process(context.Background(), textUpdate(1, 7, "100 0.54 0.23"))
	require.NoError(t, err)

	events := router.recorded()
	require.Len(t, events, 1)
	require.Equal(t, event.KindText, events[0].Kind)
	require.Equal(t, int64(7), events[0].UserID)
	require.Equal(t, "100 0.54 0.23", events[0].Text)
}

func TestProcess_UnsupportedUpdateNeverReachesRouter(t *testing.T) {
	router := &recordingRouter{}
	br := New(router, nil, 2, 8, testLogger())

	err := br.Process(context.Background(), telebot.Update{ID: 1})
	require.ErrorIs(t, err, event.ErrUnsupportedUpdate)
	require.Empty(t, router.recorded())
}

func TestProcess_HandlerErrorReturnedToOwnCallerOnly(t *testing.T) {
	router := &recordingRouter{err: errors.New("boom")}
	br := New(router, nil, 2, 8, testLogger())

	err := br.Process(context.Background(), textUpdate(1, 7, "hola"))
	require.EqualError(t, err, "boom")

	// A failed request does not poison the pool.
	router.mu.Lock()
	router.err = nil
	router.mu.Unlock()

	require.NoError(t, br.Process(context.Background(), textUpdate(2, 7, "hola")))
}

func TestProcess_PanicIsIsolated(t *testing.T) {
	router := &recordingRouter{panics: true}
	br := New(router, nil, 1, 4, testLogger())

	err := br.Process(context.Background(), textUpdate(1, 7, "hola"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "panic")

	router.mu.Lock()
	router.panics = false
	router.mu.Unlock()

	// The single worker survived the panic.
	require.NoError(t, br.Process(context.Background(), textUpdate(2, 7, "hola")))
}

func TestProcess_ConcurrentRequests(t *testing.T) {
	router := &recordingRouter{}
	br := New(router, nil, 4, 16, testLogger())

	const requests = 50
	errCh := make(chan error, requests)

	var wg sync.WaitGroup
	for i := 0; i < requests; i++ {
		upd := textUpdate(i+1, int64(i), "hola")

		wg.Add(1)
		go func() {
			defer wg.Done()
			errCh <- br.Process(context.Background(), upd)
		}()
	}
	wg.Wait()
	close(errCh)

	for err := range errCh {
		require.NoError(t, err)
	}

	require.Len(t, router.recorded(), requests)
}

func TestShutdown(t *testing.T) {
	router := &recordingRouter{}
	br := New(router, nil, 2, 8, testLogger())

	require.NoError(t, br.Process(context.Background(), textUpdate(1, 7, "hola")))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, br.Shutdown(ctx))
	require.NoError(t, br.Shutdown(ctx)) // idempotent

	err := br.Process(context.Background(), textUpdate(2, 7, "hola"))
	require.ErrorIs(t, err, ErrShuttingDown)
}

func TestShutdown_BeforeFirstUse(t *testing.T) {
	br := New(&recordingRouter{}, nil, 2, 8, testLogger())
	require.NoError(t, br.Shutdown(context.Background()))
}
