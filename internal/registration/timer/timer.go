// Package timer implements the inactivity countdown of a quote session.
package timer

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// DefaultTimeout is the inactivity window when none is configured.
const DefaultTimeout = 30 * time.Minute

// Timer counts down whole seconds and signals once when it reaches zero.
// Reset re-arms it, after which a new expiry can be signalled.
type Timer struct {
	tick  time.Duration
	total int

	mu      sync.Mutex
	left    int
	expired bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	done    chan struct{}
}

// Option configures a Timer.
type Option func(*Timer)

// WithTick sets how much wall time one countdown second takes.
// Intended for tests.
func WithTick(d time.Duration) Option {
	return func(t *Timer) {
		if d > 0 {
			t.tick = d
		}
	}
}

// New creates a stopped timer. A non-positive timeout uses DefaultTimeout.
func New(timeout time.Duration, opts ...Option) *Timer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	t := &Timer{
		tick:  time.Second,
		total: int(timeout / time.Second),
		done:  make(chan struct{}, 1),
	}
	t.left = t.total
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start runs the countdown until Stop is called or ctx is done.
// Calling Start on a running timer is a no-op.
func (t *Timer) Start(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.wg.Add(1)
	go t.run(ctx)
}

func (t *Timer) run(ctx context.Context) {
	defer t.wg.Done()
	ticker := time.NewTicker(t.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.step()
		}
	}
}

// step sends the expiry signal under mu so Reset never observes expired
// without the matching signal in done.
func (t *Timer) step() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.left > 1 {
		t.left--
		return
	}
	t.left = 0
	if t.expired {
		return
	}
	t.expired = true
	select {
	case t.done <- struct{}{}:
	default:
	}
}

// Stop halts the countdown and waits for the ticking goroutine to exit.
func (t *Timer) Stop() {
	t.mu.Lock()
	cancel := t.cancel
	t.cancel = nil
	t.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	t.wg.Wait()
}

// Reset restores the full countdown, clears the expired flag and drops an
// expiry signal nobody consumed yet.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.left = t.total
	t.expired = false
	select {
	case <-t.done:
	default:
	}
}

// Done delivers one value per expiry.
func (t *Timer) Done() <-chan struct{} {
	return t.done
}

func (t *Timer) Expired() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.expired
}

// TimeLeft returns the remaining countdown in seconds.
func (t *Timer) TimeLeft() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.left
}

// Format renders the remaining time as M:SS.
func (t *Timer) Format() string {
	return FormatSeconds(t.TimeLeft())
}

// FormatSeconds renders secs as M:SS with zero-padded seconds.
func FormatSeconds(secs int) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
