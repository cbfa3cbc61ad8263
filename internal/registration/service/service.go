// Package service manages the quote sessions held by this process.
//
// Each session runs its own inactivity timer. The manager consumes every
// expiry signal once: the session is expired (persisted state cleared) and
// removed from memory. A later request with a still valid token rebuilds the
// session from persistence.
package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"quoteflow/internal/platform/device"
	"quoteflow/internal/platform/tracer"
	"quoteflow/internal/registration/flow"
	"quoteflow/internal/registration/pricing"
	"quoteflow/internal/registration/timer"
	id "quoteflow/pkg/domain"
	dErrors "quoteflow/pkg/domain-errors"
	"quoteflow/pkg/platform/privacy"
	"quoteflow/pkg/requestcontext"
)

// Manager creates, looks up and ends quote sessions.
type Manager struct {
	api       flow.QuoteAPI
	persister flow.Persister
	calc      *pricing.Calculator
	timeout   time.Duration
	tick      time.Duration
	tracer    tracer.Tracer
	logger    *slog.Logger
	metrics   *Metrics

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	rebuild singleflight.Group

	mu       sync.RWMutex
	sessions map[id.SessionID]*entry
	closed   bool
}

type entry struct {
	sess *flow.Session
	stop chan struct{}
}

// expireTimeout bounds clearing the persisted state of an expired session.
const expireTimeout = 5 * time.Second

// Option configures a Manager.
type Option func(*Manager)

func WithCalculator(c *pricing.Calculator) Option {
	return func(m *Manager) {
		m.calc = c
	}
}

// WithSessionTimeout sets the inactivity window of new sessions.
func WithSessionTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// WithTimerTick shortens the countdown second. Intended for tests.
func WithTimerTick(d time.Duration) Option {
	return func(m *Manager) {
		m.tick = d
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(m *Manager) {
		m.tracer = t
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

func WithMetrics(metrics *Metrics) Option {
	return func(m *Manager) {
		m.metrics = metrics
	}
}

// New creates a manager. Call Shutdown to stop every session timer.
func New(api flow.QuoteAPI, persister flow.Persister, opts ...Option) *Manager {
	m := &Manager{
		api:       api,
		persister: persister,
		timeout:   timer.DefaultTimeout,
		sessions:  make(map[id.SessionID]*entry),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.calc == nil {
		m.calc = pricing.NewCalculator()
	}
	if m.tracer == nil {
		m.tracer = tracer.NewNoop()
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	m.ctx, m.cancel = context.WithCancel(context.Background())
	return m
}

func (m *Manager) newSession(sessionID id.SessionID) *flow.Session {
	var timerOpts []timer.Option
	if m.tick > 0 {
		timerOpts = append(timerOpts, timer.WithTick(m.tick))
	}
	return flow.New(sessionID, m.api, m.persister,
		flow.WithCalculator(m.calc),
		flow.WithTimer(timer.New(m.timeout, timerOpts...)),
		flow.WithTracer(m.tracer),
		flow.WithLogger(m.logger),
	)
}

// Create starts a new session with an empty registration.
func (m *Manager) Create(ctx context.Context) (*flow.Session, error) {
	sess := m.newSession(id.NewSessionID())
	if err := m.add(sess); err != nil {
		return nil, err
	}
	m.metrics.started()

	m.logger.InfoContext(ctx, "session started",
		"session_id", sess.ID().String(),
		"request_id", requestcontext.RequestID(ctx),
		"client_ip", privacy.AnonymizeIP(requestcontext.ClientIP(ctx)),
		"device", requestcontext.DeviceSummary(ctx),
		"device_fingerprint", device.Fingerprint(requestcontext.UserAgent(ctx)),
	)
	return sess, nil
}

// Get returns the session and restarts its inactivity countdown. A session
// that is not in memory is rebuilt from persistence; the caller is expected
// to have authenticated sessionID.
func (m *Manager) Get(ctx context.Context, sessionID id.SessionID) (*flow.Session, error) {
	if sessionID.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "missing session")
	}
	if sess, ok := m.lookup(sessionID); ok {
		sess.Touch()
		return sess, nil
	}

	v, err, _ := m.rebuild.Do(sessionID.String(), func() (any, error) {
		if sess, ok := m.lookup(sessionID); ok {
			return sess, nil
		}
		sess := m.newSession(sessionID)
		restored := sess.Restore(ctx)
		if err := m.add(sess); err != nil {
			return nil, err
		}
		m.metrics.rebuilt(restored)
		m.logger.InfoContext(ctx, "session rebuilt",
			"session_id", sessionID.String(),
			"restored", restored,
		)
		return sess, nil
	})
	if err != nil {
		return nil, err
	}
	sess := v.(*flow.Session)
	sess.Touch()
	return sess, nil
}

// End logs the session out and removes it. A session that is not in memory
// still has its persisted state cleared.
func (m *Manager) End(ctx context.Context, sessionID id.SessionID) error {
	sess, ok := m.remove(sessionID, nil)
	if ok {
		sess.Close()
		m.metrics.ended(ReasonLogout)
	} else {
		sess = m.newSession(sessionID)
	}
	if err := sess.Logout(ctx); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to clear session")
	}
	return nil
}

// Count returns the number of sessions held in memory.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Shutdown stops every session timer and waits for the expiry watchers.
// Persisted state is kept so sessions can be rebuilt after a restart.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	m.closed = true
	sessions := m.sessions
	m.sessions = make(map[id.SessionID]*entry)
	m.mu.Unlock()

	m.cancel()
	for _, e := range sessions {
		close(e.stop)
		e.sess.Close()
		m.metrics.ended(ReasonShutdown)
	}
	m.wg.Wait()
}

func (m *Manager) lookup(sessionID id.SessionID) (*flow.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.sessions[sessionID]
	if !ok {
		return nil, false
	}
	return e.sess, true
}

func (m *Manager) add(sess *flow.Session) error {
	e := &entry{sess: sess, stop: make(chan struct{})}
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return dErrors.New(dErrors.CodeInternal, "session manager is shut down")
	}
	m.sessions[sess.ID()] = e
	m.wg.Add(1)
	m.mu.Unlock()

	sess.Start(m.ctx)
	go m.watch(e)
	return nil
}

// remove deletes sessionID from memory and stops its watcher. When want is
// non-nil the entry is removed only if it still holds that session.
func (m *Manager) remove(sessionID id.SessionID, want *flow.Session) (*flow.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[sessionID]
	if !ok || (want != nil && e.sess != want) {
		return nil, false
	}
	delete(m.sessions, sessionID)
	close(e.stop)
	return e.sess, true
}

// watch consumes the expiry signal of one session exactly once. A signal for
// a session touched after the countdown hit zero is ignored.
func (m *Manager) watch(e *entry) {
	defer m.wg.Done()
	for {
		select {
		case <-e.stop:
			return
		case <-e.sess.ExpiryEvents():
		}
		if e.sess.TimedOut() {
			break
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), expireTimeout)
	defer cancel()
	if err := e.sess.Expire(ctx); err != nil {
		m.logger.WarnContext(ctx, "failed to clear expired session",
			"session_id", e.sess.ID().String(),
			"error", err,
		)
	}

	if _, ok := m.remove(e.sess.ID(), e.sess); !ok {
		return
	}
	e.sess.Close()
	m.metrics.ended(ReasonExpired)
}
