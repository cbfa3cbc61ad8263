package flow

import (
	"context"

	"quoteflow/internal/registration/models"
)

// Start begins the inactivity countdown. It stops when ctx is done or on Close.
func (s *Session) Start(ctx context.Context) {
	s.timer.Start(ctx)
}

// ExpiryEvents delivers one value each time the inactivity countdown reaches zero.
func (s *Session) ExpiryEvents() <-chan struct{} {
	return s.timer.Done()
}

// TimedOut reports whether the countdown is at zero and not reset since.
func (s *Session) TimedOut() bool {
	return s.timer.Expired()
}

// Touch restarts the inactivity countdown.
func (s *Session) Touch() {
	s.timer.Reset()
}

// TimeLeft returns the seconds left before the session expires.
func (s *Session) TimeLeft() int {
	return s.timer.TimeLeft()
}

// Restore loads the persisted registration into the store and reports whether
// anything was restored.
func (s *Session) Restore(ctx context.Context) bool {
	ok := s.persister.Load(ctx, s.id, s.store)
	if ok {
		s.logger.InfoContext(ctx, "registration restored",
			"session_id", s.id.String(),
			"step", string(s.store.Step()),
		)
	}
	return ok
}

// Expire handles an inactivity timeout: persisted state is cleared and the
// wizard returns to the entry step.
func (s *Session) Expire(ctx context.Context) error {
	s.logger.InfoContext(ctx, "session expired", "session_id", s.id.String())
	return s.clear(ctx)
}

// Logout ends the registration at the user's request. Same effect as Expire.
func (s *Session) Logout(ctx context.Context) error {
	s.logger.InfoContext(ctx, "session logged out", "session_id", s.id.String())
	return s.clear(ctx)
}

// Close stops the countdown goroutine.
func (s *Session) Close() {
	s.timer.Stop()
}

func (s *Session) clear(ctx context.Context) error {
	s.mu.Lock()
	s.coverage = models.CoverageNone
	s.offered = nil
	s.mu.Unlock()
	s.validator.ClearErrors()
	s.store.Reset()
	return s.persister.Clear(ctx, s.id, s.store)
}
