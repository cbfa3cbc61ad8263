// Package state holds the registration aggregate of one quote session.
//
// All mutations are synchronous and total; the store performs no I/O.
// Persistence is the caller's job (see the persistence package).
package state

import (
	"sync"

	"quoteflow/internal/registration/models"
)

// Progress weights. A full registration sums to 100.
const (
	ProgressForm = 33
	ProgressUser = 33
	ProgressPlan = 34
)

// Registration is a point-in-time copy of the aggregate.
// InitialForm is non-nil iff User is non-nil.
type Registration struct {
	User        *models.RegistrationUser
	Plan        *models.SelectedPlan
	InitialForm *models.InitialForm
	IsLoading   bool
	Error       *string
}

// Store is the registration state of one session. Safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	state Registration
}

// New returns an empty store.
func New() *Store {
	return &Store{}
}

// SetUserAndForm replaces the user and the form snapshot together and clears any error.
func (s *Store) SetUserAndForm(user models.RegistrationUser, form models.InitialForm) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.User = &user
	s.state.InitialForm = &form
	s.state.Error = nil
}

// SetPlan replaces the selected plan and clears any error.
func (s *Store) SetPlan(plan models.SelectedPlan) {
	plan = plan.Clone()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Plan = &plan
	s.state.Error = nil
}

func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.IsLoading = loading
}

// SetError records a user-visible error and stops loading. An empty message clears the error.
func (s *Store) SetError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if msg == "" {
		s.state.Error = nil
	} else {
		s.state.Error = &msg
	}
	s.state.IsLoading = false
}

// Reset restores the initial empty state.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Registration{}
}

// IsComplete reports whether both a user and a plan are set.
func (s *Store) IsComplete() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.User != nil && s.state.Plan != nil
}

// CanProceed reports whether the entry step is done and plans may be listed.
func (s *Store) CanProceed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.User != nil && s.state.InitialForm != nil
}

// Progress returns the weighted completion percentage.
func (s *Store) Progress() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return progressOf(s.state)
}

// Step derives the wizard position.
func (s *Store) Step() models.Step {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return stepOf(s.state)
}

// Snapshot returns a deep copy of the aggregate.
func (s *Store) Snapshot() Registration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Progress returns the weighted completion percentage of r.
func (r Registration) Progress() int { return progressOf(r) }

// Step derives the wizard position of r.
func (r Registration) Step() models.Step { return stepOf(r) }

func progressOf(r Registration) int {
	progress := 0
	if r.InitialForm != nil {
		progress += ProgressForm
	}
	if r.User != nil {
		progress += ProgressUser
	}
	if r.Plan != nil {
		progress += ProgressPlan
	}
	return progress
}

func stepOf(r Registration) models.Step {
	switch {
	case r.User != nil && r.Plan != nil:
		return models.StepSummary
	case r.User != nil && r.InitialForm != nil:
		return models.StepPlans
	default:
		return models.StepEntry
	}
}

func (r Registration) clone() Registration {
	out := Registration{IsLoading: r.IsLoading}
	if r.User != nil {
		u := *r.User
		out.User = &u
	}
	if r.InitialForm != nil {
		f := *r.InitialForm
		out.InitialForm = &f
	}
	if r.Plan != nil {
		p := r.Plan.Clone()
		out.Plan = &p
	}
	if r.Error != nil {
		e := *r.Error
		out.Error = &e
	}
	return out
}
