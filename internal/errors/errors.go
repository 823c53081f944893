package errors

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

// Sentinel errors used as marks across the engine. Handlers map them to
// HTTP statuses; services mark domain failures with the matching sentinel.
var (
	ErrNotFound         = new(ErrCodeNotFound, "resource not found")
	ErrAlreadyExists    = new(ErrCodeAlreadyExists, "resource already exists")
	ErrValidation       = new(ErrCodeValidation, "validation error")
	ErrInvalidOperation = new(ErrCodeInvalidOperation, "invalid operation")
	ErrSystem           = new(ErrCodeSystemError, "system error")

	// Promo failures: all recoverable, a quote proceeds without the promo
	ErrPromoNotApplicable = new(ErrCodePromoNotApplicable, "promo code not applicable")
	ErrPromoExpired       = new(ErrCodePromoExpired, "promo code expired")

	// Session failures: surfaced verbatim to the caller, never retried
	ErrSessionExpired     = new(ErrCodeSessionExpired, "bargain session expired")
	ErrDuplicatePrice     = new(ErrCodeDuplicatePrice, "price already proposed in this session")
	ErrRoundLimitExceeded = new(ErrCodeRoundLimitExceeded, "bargain round limit exceeded")
	ErrTerminalState      = new(ErrCodeTerminalState, "bargain session already concluded")

	ErrRateLimit = new(ErrCodeRateLimit, "rate limit exceeded")

	// maps errors to http status codes
	statusCodeMap = map[error]int{
		ErrNotFound:           http.StatusNotFound,
		ErrAlreadyExists:      http.StatusConflict,
		ErrValidation:         http.StatusBadRequest,
		ErrInvalidOperation:   http.StatusBadRequest,
		ErrSystem:             http.StatusInternalServerError,
		ErrPromoNotApplicable: http.StatusUnprocessableEntity,
		ErrPromoExpired:       http.StatusGone,
		ErrSessionExpired:     http.StatusGone,
		ErrDuplicatePrice:     http.StatusConflict,
		ErrRoundLimitExceeded: http.StatusUnprocessableEntity,
		ErrTerminalState:      http.StatusConflict,
		ErrRateLimit:          http.StatusTooManyRequests,
	}
)

const (
	ErrCodeSystemError        = "system_error"
	ErrCodeNotFound           = "not_found"
	ErrCodeAlreadyExists      = "already_exists"
	ErrCodeValidation         = "validation_error"
	ErrCodeInvalidOperation   = "invalid_operation"
	ErrCodePromoNotApplicable = "promo_not_applicable"
	ErrCodePromoExpired       = "promo_expired"
	ErrCodeSessionExpired     = "session_expired"
	ErrCodeDuplicatePrice     = "duplicate_price"
	ErrCodeRoundLimitExceeded = "round_limit_exceeded"
	ErrCodeTerminalState      = "terminal_state"
	ErrCodeRateLimit          = "rate_limit_exceeded"
)

// InternalError represents a domain error
type InternalError struct {
	Code    string // Machine-readable error code
	Message string // Human-readable error message
	Op      string // Logical operation name
	Err     error  // Underlying error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return e.DisplayError()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Err.Error())
}

func (e *InternalError) DisplayError() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Is implements error matching for wrapped errors
func (e *InternalError) Is(target error) bool {
	if target == nil {
		return false
	}

	t, ok := target.(*InternalError)
	if !ok {
		return errors.Is(e.Err, target)
	}

	return e.Code == t.Code
}

func new(code string, message string) *InternalError {
	return &InternalError{
		Code:    code,
		Message: message,
	}
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsInvalidOperation checks if an error is an invalid operation error
func IsInvalidOperation(err error) bool {
	return errors.Is(err, ErrInvalidOperation)
}

// IsPromoError checks if an error is one of the recoverable promo failures
func IsPromoError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrPromoNotApplicable) ||
		errors.Is(err, ErrPromoExpired)
}

// IsSessionExpired checks if an error is a session expiry error
func IsSessionExpired(err error) bool {
	return errors.Is(err, ErrSessionExpired)
}

// IsDuplicatePrice checks if an error is a duplicate price error
func IsDuplicatePrice(err error) bool {
	return errors.Is(err, ErrDuplicatePrice)
}

// IsRoundLimitExceeded checks if an error is a round limit error
func IsRoundLimitExceeded(err error) bool {
	return errors.Is(err, ErrRoundLimitExceeded)
}

// IsTerminalState checks if an error is a terminal session state error
func IsTerminalState(err error) bool {
	return errors.Is(err, ErrTerminalState)
}

func HTTPStatusFromErr(err error) int {
	for e, status := range statusCodeMap {
		if errors.Is(err, e) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// ErrCodeFromErr returns the machine-readable code of the sentinel the error
// is marked with, falling back to the system error code.
func ErrCodeFromErr(err error) string {
	for e := range statusCodeMap {
		if errors.Is(err, e) {
			if ie, ok := e.(*InternalError); ok {
				return ie.Code
			}
		}
	}
	return ErrCodeSystemError
}
