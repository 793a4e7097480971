package ratelimit

import (
	"errors"
	"sync"
	"time"
)

// ErrClosed is returned by Do when the limiter has been closed.
var ErrClosed = errors.New("ratelimit: limiter closed")

type task struct {
	run  func() (any, error)
	done chan outcome
}

type outcome struct {
	result any
	err    error
}

// RateLimiter serializes calls to a rate-sensitive collaborator. Tasks
// run strictly in submission order, one at a time, with a fixed delay
// between the end of one task and the start of the next. This is
// intentionally the simplest policy that respects a per-caller rate
// ceiling: no priorities, no cancellation, no concurrency.
type RateLimiter struct {
	queue     chan *task
	delay     time.Duration
	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
	drained   chan struct{}
}

func NewRateLimiter(delay time.Duration, queueSize int) *RateLimiter {
	if queueSize <= 0 {
		queueSize = 256
	}
	rl := &RateLimiter{
		queue:   make(chan *task, queueSize),
		delay:   delay,
		drained: make(chan struct{}),
	}
	go rl.drain()
	return rl
}

func (rl *RateLimiter) drain() {
	defer close(rl.drained)
	for t := range rl.queue {
		result, err := t.run()
		t.done <- outcome{result: result, err: err}
		time.Sleep(rl.delay)
	}
}

// Do enqueues fn and blocks until it has run, returning the task's own
// outcome. After Close it returns ErrClosed without running fn.
func (rl *RateLimiter) Do(fn func() (any, error)) (any, error) {
	t := &task{run: fn, done: make(chan outcome, 1)}

	rl.mu.RLock()
	if rl.closed {
		rl.mu.RUnlock()
		return nil, ErrClosed
	}
	rl.queue <- t
	rl.mu.RUnlock()

	out := <-t.done
	return out.result, out.err
}

// Execute is the typed wrapper around Do.
func Execute[T any](rl *RateLimiter, fn func() (T, error)) (T, error) {
	result, err := rl.Do(func() (any, error) {
		return fn()
	})
	if result == nil {
		var zero T
		return zero, err
	}
	return result.(T), err
}

// Close stops accepting tasks and waits for the queue to empty.
func (rl *RateLimiter) Close() {
	rl.closeOnce.Do(func() {
		rl.mu.Lock()
		rl.closed = true
		close(rl.queue)
		rl.mu.Unlock()
	})
	<-rl.drained
}
