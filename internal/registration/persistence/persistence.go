// Package persistence saves and restores the registration aggregate of a
// session so a client can resume after reconnecting.
//
// Reads never fail the caller: an absent or unreadable record means there is
// nothing to restore and is only logged.
package persistence

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/goccy/go-json"

	"quoteflow/internal/registration/models"
	"quoteflow/internal/registration/state"
	id "quoteflow/pkg/domain"
)

// KeyPrefix namespaces persisted records per session.
const KeyPrefix = "registration-data:"

// record is the stored form of a registration.
type record struct {
	UserData        *models.RegistrationUser `json:"userData"`
	PlanData        *models.SelectedPlan     `json:"planData"`
	InitialFormData *models.InitialForm      `json:"initialFormData"`
}

// Adapter maps registration snapshots to KV records.
type Adapter struct {
	kv     KV
	ttl    time.Duration
	logger *slog.Logger
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithTTL expires records after ttl. Zero keeps them until cleared.
func WithTTL(ttl time.Duration) Option {
	return func(a *Adapter) {
		a.ttl = ttl
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(a *Adapter) {
		a.logger = logger
	}
}

func New(kv KV, opts ...Option) *Adapter {
	a := &Adapter{kv: kv, logger: slog.Default()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Key returns the KV key of a session record.
func Key(sessionID id.SessionID) string {
	return KeyPrefix + sessionID.String()
}

// Save writes the user, plan and form of snap. Loading and error flags are not persisted.
func (a *Adapter) Save(ctx context.Context, sessionID id.SessionID, snap state.Registration) error {
	data, err := json.Marshal(record{
		UserData:        snap.User,
		PlanData:        snap.Plan,
		InitialFormData: snap.InitialForm,
	})
	if err != nil {
		return err
	}
	return a.kv.Set(ctx, Key(sessionID), data, a.ttl)
}

// Load restores a persisted record into store and reports whether anything was applied.
// User and form are applied only together; the plan is applied whenever present.
func (a *Adapter) Load(ctx context.Context, sessionID id.SessionID, store *state.Store) bool {
	data, err := a.kv.Get(ctx, Key(sessionID))
	if errors.Is(err, ErrMiss) {
		return false
	}
	if err != nil {
		a.logger.WarnContext(ctx, "failed to read persisted registration",
			"session_id", sessionID.String(),
			"error", err,
		)
		return false
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		a.logger.WarnContext(ctx, "discarding malformed persisted registration",
			"session_id", sessionID.String(),
			"error", err,
		)
		return false
	}

	applied := false
	if rec.UserData != nil && rec.InitialFormData != nil {
		store.SetUserAndForm(*rec.UserData, *rec.InitialFormData)
		applied = true
	}
	if rec.PlanData != nil {
		store.SetPlan(*rec.PlanData)
		applied = true
	}
	return applied
}

// Clear deletes the persisted record and resets store.
func (a *Adapter) Clear(ctx context.Context, sessionID id.SessionID, store *state.Store) error {
	if store != nil {
		store.Reset()
	}
	return a.kv.Delete(ctx, Key(sessionID))
}
