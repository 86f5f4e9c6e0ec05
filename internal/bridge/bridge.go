// Package bridge connects the synchronous webhook boundary to the bot's
// asynchronous processing runtime.
//
// The runtime is one shared, long-lived pool of workers consuming a bounded
// job queue. Its startup sequence runs exactly once per process no matter
// how many requests race on first use; each request enqueues its decoded
// event and blocks until a worker has driven it to completion.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	telebot "gopkg.in/telebot.v3"

	"github.com/fvalenzuela1/botarb/internal/event"
)

// ErrShuttingDown is returned by Process once Shutdown has begun.
var ErrShuttingDown = errors.New("bridge: shutting down")

// Router routes one decoded event. Implemented by *bot.Router.
type Router interface {
	Route(ctx context.Context, ev event.Event) error
}

// StartupFunc performs the one-time runtime startup work, such as handler
// registration and publishing the command list.
type StartupFunc func(ctx context.Context) error

type job struct {
	ctx  context.Context
	ev   event.Event
	done chan error
}

// Bridge owns the processing runtime's lifecycle.
type Bridge struct {
	router    Router
	startup   StartupFunc
	workers   int
	queueSize int
	log       *slog.Logger

	once       sync.Once
	ready      atomic.Bool
	closed     atomic.Bool
	startupErr error
	jobs       chan job
	wg         sync.WaitGroup
	stopOnce   sync.Once
}

// New builds a Bridge over the given router. Startup may be nil.
func New(router Router, startup StartupFunc, workers, queueSize int, log *slog.Logger) *Bridge {
	if workers <= 0 {
		workers = 4
	}
	if queueSize <= 0 {
		queueSize = workers * 4
	}
	if log == nil {
		log = slog.Default()
	}

	return &Bridge{
		router:    router,
		startup:   startup,
		workers:   workers,
		queueSize: queueSize,
		log:       log,
	}
}

// EnsureReady runs the startup sequence on first use. The first caller
// performs it; callers arriving while it is in flight block until it has
// finished and observe its result. After a successful startup this is a
// cheap flag check.
func (b *Bridge) EnsureReady(ctx context.Context) error {
	if b.ready.Load() {
		return nil
	}

	b.once.Do(func() {
		if b.startup != nil {
			if err := b.startup(ctx); err != nil {
				b.startupErr = fmt.Errorf("bridge startup: %w", err)
				return
			}
		}

		b.jobs = make(chan job, b.queueSize)
		for i := 0; i < b.workers; i++ {
			b.wg.Add(1)
			go b.worker()
		}

		b.ready.Store(true)
		b.log.Info("processing runtime started",
			slog.Int("workers", b.workers),
			slog.Int("queue_size", b.queueSize),
		)
	})

	if b.startupErr != nil {
		return b.startupErr
	}

	return nil
}

// Ready reports whether the runtime has completed its startup sequence.
func (b *Bridge) Ready() bool {
	return b.ready.Load()
}

// Process drives a single update to completion from the caller's point of
// view: it ensures the runtime is ready, decodes the update, enqueues the
// event, and blocks until a worker reports the result.
func (b *Bridge) Process(ctx context.Context, upd telebot.Update) error {
	if err := b.EnsureReady(ctx); err != nil {
		return err
	}
	if b.closed.Load() {
		return ErrShuttingDown
	}

	ev, err := event.FromUpdate(upd)
	if err != nil {
		return err
	}

	j := job{ctx: ctx, ev: ev, done: make(chan error, 1)}

	select {
	case b.jobs <- j:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-j.done:
		return err
	case <-ctx.Done():
		// The worker still finishes the job; the buffered done channel keeps
		// it from blocking on a caller that gave up waiting.
		return ctx.Err()
	}
}

func (b *Bridge) worker() {
	defer b.wg.Done()

	for j := range b.jobs {
		j.done <- b.route(j.ctx, j.ev)
	}
}

// route isolates one job's execution: a panicking handler fails only its
// own request.
func (b *Bridge) route(ctx context.Context, ev event.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("bridge: handler panic: %v", r)
		}
	}()

	if ctx == nil {
		ctx = context.Background()
	}

	return b.router.Route(ctx, ev)
}

// Shutdown stops accepting new work and waits for in-flight jobs to finish
// or ctx to expire. Safe to call more than once.
func (b *Bridge) Shutdown(ctx context.Context) error {
	if !b.ready.Load() {
		return nil
	}

	b.stopOnce.Do(func() {
		b.closed.Store(true)
		close(b.jobs)
	})

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.log.Info("processing runtime stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
