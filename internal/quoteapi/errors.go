package quoteapi

import (
	"errors"
	"fmt"
)

// ErrorCategory is the normalized failure taxonomy for quote API calls.
type ErrorCategory string

const (
	// ErrorTimeout indicates the API did not answer within the request timeout
	ErrorTimeout ErrorCategory = "timeout"

	// ErrorUnavailable indicates a transport failure (DNS, refused connection, reset)
	ErrorUnavailable ErrorCategory = "unavailable"

	// ErrorBadStatus indicates a non-2xx response
	ErrorBadStatus ErrorCategory = "bad_status"

	// ErrorBadData indicates a body that is not the expected JSON document
	ErrorBadData ErrorCategory = "bad_data"

	// ErrorInternal indicates a local failure (request construction, cancellation)
	ErrorInternal ErrorCategory = "internal"
)

// Resource names the document being fetched.
type Resource string

const (
	ResourceUser  Resource = "user"
	ResourcePlans Resource = "plans"
)

// User-facing messages.
const (
	MessageUserFetch  = "Error al obtener los datos del usuario"
	MessagePlansFetch = "Error al obtener los planes"
	MessageNetwork    = "Error de conexión. Verifica tu conexión a internet."
	MessageGeneric    = "Ha ocurrido un error inesperado"
)

// MessageTimeout is the internal Error message of timed-out calls; users see
// the per-resource message.
const MessageTimeout = "request timeout"

// Error wraps a failed quote API call with its category.
type Error struct {
	Category   ErrorCategory
	Resource   Resource
	StatusCode int
	Message    string
	Underlying error
}

func (e *Error) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("quoteapi %s [%s]: %s: %v", e.Resource, e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("quoteapi %s [%s]: %s", e.Resource, e.Category, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Underlying
}

func newError(category ErrorCategory, resource Resource, message string, underlying error) *Error {
	return &Error{
		Category:   category,
		Resource:   resource,
		Message:    message,
		Underlying: underlying,
	}
}

// GetCategory extracts the error category, defaulting to ErrorInternal.
func GetCategory(err error) ErrorCategory {
	var e *Error
	if errors.As(err, &e) {
		return e.Category
	}
	return ErrorInternal
}

// DisplayMessage returns the string shown to the user for a failed call. Every
// category reads as the failed resource; timeouts stay distinct only in Category.
func DisplayMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return MessageGeneric
	}
	switch e.Resource {
	case ResourceUser:
		return MessageUserFetch
	case ResourcePlans:
		return MessagePlansFetch
	default:
		return MessageNetwork
	}
}
