// Package latch waits for a fixed set of named asynchronous loads to finish.
package latch

import (
	"context"
	"errors"
	"sync"
)

// ErrCancelled is returned by Wait when the latch was superseded
var ErrCancelled = errors.New("latch cancelled")

// Latch is released once every named load has called Done.
// A cancelled latch never releases.
type Latch struct {
	mu        sync.Mutex
	pending   map[string]struct{}
	released  bool
	cancelled bool
	done      chan struct{}
	cancel    chan struct{}
}

// New creates a latch waiting on names. A latch with no names is released
// immediately.
func New(names ...string) *Latch {
	l := &Latch{
		pending: make(map[string]struct{}, len(names)),
		done:    make(chan struct{}),
		cancel:  make(chan struct{}),
	}
	for _, name := range names {
		l.pending[name] = struct{}{}
	}
	if len(l.pending) == 0 {
		l.released = true
		close(l.done)
	}
	return l
}

// Done marks name as loaded. It returns true for the call that released the
// latch. Repeated and unknown names are ignored, as is any call after Cancel.
func (l *Latch) Done(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.released || l.cancelled {
		return false
	}
	if _, ok := l.pending[name]; !ok {
		return false
	}
	delete(l.pending, name)
	if len(l.pending) > 0 {
		return false
	}
	l.released = true
	close(l.done)
	return true
}

// Pending returns how many loads have not finished
func (l *Latch) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}

// Cancel supersedes the latch. Waiters return ErrCancelled unless the
// latch had already been released.
func (l *Latch) Cancel() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.released || l.cancelled {
		return
	}
	l.cancelled = true
	close(l.cancel)
}

// Cancelled is closed when the latch is superseded. It stays open for a
// latch that was released.
func (l *Latch) Cancelled() <-chan struct{} {
	return l.cancel
}

// Wait blocks until the latch is released, cancelled, or ctx is done
func (l *Latch) Wait(ctx context.Context) error {
	select {
	case <-l.done:
		return nil
	case <-l.cancel:
		return ErrCancelled
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Generation hands out one latch per selection, cancelling the previous
// one so stale loads never trigger a rebuild.
type Generation struct {
	mu      sync.Mutex
	current *Latch
	seq     uint64
}

// Next cancels the current latch and returns a new one with its sequence number
func (g *Generation) Next(names ...string) (*Latch, uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.current != nil {
		g.current.Cancel()
	}
	g.seq++
	g.current = New(names...)
	return g.current, g.seq
}

// Current reports whether seq is still the latest generation
func (g *Generation) Current(seq uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return seq == g.seq
}
