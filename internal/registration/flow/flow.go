// Package flow drives one quote session through the wizard: entry form,
// coverage choice, plan selection and summary.
//
// A Session owns its registration store and inactivity timer. Every mutation
// of the store is followed by an explicit save through the Persister.
package flow

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"quoteflow/internal/platform/tracer"
	"quoteflow/internal/registration/models"
	"quoteflow/internal/registration/pricing"
	"quoteflow/internal/registration/state"
	"quoteflow/internal/registration/timer"
	"quoteflow/internal/registration/validation"
	id "quoteflow/pkg/domain"
)

//go:generate mockgen -source=flow.go -destination=mocks/mocks.go -package=mocks QuoteAPI,Persister

// QuoteAPI fetches the user profile and the plan catalogue.
type QuoteAPI interface {
	FetchUser(ctx context.Context) (models.UserProfile, error)
	FetchPlans(ctx context.Context) ([]models.Plan, error)
}

// Persister saves and restores registration snapshots by session.
// Load never fails; it reports whether anything was restored.
type Persister interface {
	Save(ctx context.Context, sessionID id.SessionID, snap state.Registration) error
	Load(ctx context.Context, sessionID id.SessionID, store *state.Store) bool
	Clear(ctx context.Context, sessionID id.SessionID, store *state.Store) error
}

// Session is the flow controller of one quote session.
type Session struct {
	id        id.SessionID
	api       QuoteAPI
	persister Persister
	store     *state.Store
	validator *validation.Validator
	calc      *pricing.Calculator
	timer     *timer.Timer
	tracer    tracer.Tracer
	logger    *slog.Logger
	now       func() time.Time

	lookups singleflight.Group

	mu       sync.RWMutex
	coverage models.CoverageTarget
	offered  []models.Plan
}

// Option configures a Session.
type Option func(*Session)

func WithCalculator(c *pricing.Calculator) Option {
	return func(s *Session) {
		s.calc = c
	}
}

func WithTimer(t *timer.Timer) Option {
	return func(s *Session) {
		s.timer = t
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(s *Session) {
		s.tracer = t
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithClock sets the time source used for age computation.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// New creates a session with an empty store and a stopped timer.
func New(sessionID id.SessionID, api QuoteAPI, persister Persister, opts ...Option) *Session {
	s := &Session{
		id:        sessionID,
		api:       api,
		persister: persister,
		store:     state.New(),
		validator: validation.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.calc == nil {
		s.calc = pricing.NewCalculator()
	}
	if s.timer == nil {
		s.timer = timer.New(timer.DefaultTimeout)
	}
	if s.tracer == nil {
		s.tracer = tracer.NewNoop()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *Session) ID() id.SessionID {
	return s.id
}

// Snapshot returns a copy of the registration state.
func (s *Session) Snapshot() state.Registration {
	return s.store.Snapshot()
}

// Coverage returns the coverage target chosen on the plans step.
func (s *Session) Coverage() models.CoverageTarget {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.coverage
}

// FieldErrors returns the field errors of the last entry form validation.
func (s *Session) FieldErrors() validation.FieldErrors {
	return s.validator.Errors()
}

// save persists the current snapshot. A failed write is logged; the in-memory
// state stays authoritative for this process.
func (s *Session) save(ctx context.Context) {
	if err := s.persister.Save(ctx, s.id, s.store.Snapshot()); err != nil {
		s.logger.WarnContext(ctx, "failed to persist registration",
			"session_id", s.id.String(),
			"error", err,
		)
	}
}
