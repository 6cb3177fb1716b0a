// Package async decouples a slow or unreliable output from the table writer.
package async

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/crimson-sun/marktime/internal/output"
)

const (
	defaultBufferSize   = 1024
	defaultDrainTimeout = 5 * time.Second
)

// Option configures an Async wrapper.
type Option func(*Async)

// WithBufferSize sets the channel buffer capacity. Default: 1024.
func WithBufferSize(n int) Option {
	return func(a *Async) { a.bufSize = n }
}

// WithOnError sets the callback invoked when the inner output's Write, Close or
// Discard fails.
// Default: logs a warning via slog.
func WithOnError(f func(error)) Option {
	return func(a *Async) { a.errFunc = f }
}

// Async forwards records to the wrapped output from a background goroutine.
// Records keep their order. Errors from the inner output go to errFunc and are
// never returned to the caller, so a failing mirror cannot fail the run.
type Async struct {
	inner     output.Output
	ch        chan []string
	done      chan struct{}
	errFunc   func(error)
	bufSize   int
	closeOnce sync.Once
}

// New wraps inner. The drain goroutine starts immediately.
func New(inner output.Output, opts ...Option) *Async {
	a := &Async{
		inner:   inner,
		bufSize: defaultBufferSize,
		errFunc: func(err error) { slog.Warn("async output write error", "error", err) },
	}
	for _, opt := range opts {
		opt(a)
	}
	a.ch = make(chan []string, a.bufSize)
	a.done = make(chan struct{})
	go a.drain()
	return a
}

// Write queues a copy of record, blocking while the buffer is full.
func (a *Async) Write(_ context.Context, record []string) error {
	a.ch <- slices.Clone(record)
	return nil
}

// Close waits for queued records to drain (with a timeout), then closes the
// inner output. It always returns nil; inner failures go to errFunc.
func (a *Async) Close() error {
	return a.finish(a.inner.Close)
}

// Discard drains like Close, then discards the inner output.
func (a *Async) Discard() error {
	return a.finish(func() error { return output.Discard(a.inner) })
}

func (a *Async) finish(release func() error) error {
	a.closeOnce.Do(func() {
		close(a.ch)
		select {
		case <-a.done:
		case <-time.After(defaultDrainTimeout):
			slog.Warn("async output drain timed out")
		}
		if err := release(); err != nil {
			a.errFunc(err)
		}
	})
	return nil
}

func (a *Async) drain() {
	defer close(a.done)
	for record := range a.ch {
		if err := a.inner.Write(context.Background(), record); err != nil {
			a.errFunc(err)
		}
	}
}
