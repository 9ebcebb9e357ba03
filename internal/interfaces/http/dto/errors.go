package dto

import (
	"net/http"

	"github.com/gadgetstock/backend/internal/domain/shared"
)

// Error codes that only exist at the HTTP edge
const (
	// ErrCodeValidation is used when request binding or validation fails
	ErrCodeValidation = "VALIDATION_ERROR"
	// ErrCodeInternal is used for infrastructure faults; the detail is never exposed
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeTokenExpired is used when the access token has expired
	ErrCodeTokenExpired = "TOKEN_EXPIRED"
	// ErrCodeTokenRevoked is used when the access token was logged out
	ErrCodeTokenRevoked = "TOKEN_REVOKED"
	// ErrCodeAlreadyProcessed is used when an Idempotency-Key is replayed
	ErrCodeAlreadyProcessed = "ALREADY_PROCESSED"
	// ErrCodeRateLimited is used when a client exceeds its request budget
	ErrCodeRateLimited = "RATE_LIMITED"
	// ErrCodeRequestTooLarge is used when the body exceeds the configured limit
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
)

// InternalErrorMessage is the only message a 500 response ever carries
const InternalErrorMessage = "An internal error occurred"

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeValidation: http.StatusBadRequest,
	ErrCodeInternal:   http.StatusInternalServerError,

	shared.CodeInvalidInput: http.StatusBadRequest,

	shared.CodeUnauthorized: http.StatusUnauthorized,
	ErrCodeTokenExpired:     http.StatusUnauthorized,
	ErrCodeTokenRevoked:     http.StatusUnauthorized,
	shared.CodeForbidden:    http.StatusForbidden,

	shared.CodeNotFound:      http.StatusNotFound,
	shared.CodeAlreadyExists: http.StatusConflict,
	ErrCodeAlreadyProcessed:  http.StatusConflict,

	// Business rule violations -> 422 Unprocessable Entity
	shared.CodeSameBranch:        http.StatusUnprocessableEntity,
	shared.CodeInsufficientStock: http.StatusUnprocessableEntity,
	shared.CodeInvalidState:      http.StatusUnprocessableEntity,
	shared.CodeAlreadyReceived:   http.StatusUnprocessableEntity,
	shared.CodeTransferConflict:  http.StatusUnprocessableEntity,
	shared.CodeWrongBranch:       http.StatusUnprocessableEntity,

	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeRateLimited:     http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes are treated as internal errors.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
