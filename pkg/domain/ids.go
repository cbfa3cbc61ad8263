// Package domain provides type-safe identifiers and small date helpers shared across packages.
package domain

import (
	"github.com/google/uuid"

	dErrors "quoteflow/pkg/domain-errors"
)

// SessionID identifies one quote session (one wizard run in one browser tab).
type SessionID uuid.UUID

// NewSessionID returns a random session identifier.
func NewSessionID() SessionID {
	return SessionID(uuid.New())
}

// ParseSessionID parses a session identifier at a trust boundary (tokens, URLs).
func ParseSessionID(s string) (SessionID, error) {
	if s == "" {
		return SessionID(uuid.Nil), dErrors.New(dErrors.CodeBadRequest, "session ID cannot be empty")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return SessionID(uuid.Nil), dErrors.New(dErrors.CodeBadRequest, "invalid session ID format")
	}
	return SessionID(id), nil
}

func (id SessionID) String() string { return uuid.UUID(id).String() }

func (id SessionID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
