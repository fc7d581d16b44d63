package dto

import "net/http"

// General error codes
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "NOT_FOUND"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "CONFLICT"
)

// ErrorCodeHTTPStatus maps domain error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeNotFound:   http.StatusNotFound,
	ErrCodeConflict:   http.StatusConflict,

	"ALREADY_EXISTS": http.StatusConflict,
	"INVALID_INPUT":  http.StatusBadRequest,
	"INVALID_STATE":  http.StatusUnprocessableEntity,

	// Rule engine
	"INVALID_RULE_EXPRESSION": http.StatusBadRequest,
	"INVALID_REPORT_TYPE":     http.StatusBadRequest,
	"INVALID_FIELD_VALUES":    http.StatusUnprocessableEntity,
	"INVALID_CAPTURED_FIELDS": http.StatusUnprocessableEntity,
	"INVALID_OUTCOME":         http.StatusBadRequest,

	// Reservation workflow
	"DUPLICATE_PENDING_RESERVATION": http.StatusConflict,
	"RESERVATION_NOT_APPROVED":      http.StatusUnprocessableEntity,
	"RESERVATION_EXPIRED":           http.StatusUnprocessableEntity,

	// Report emission
	"SEQUENCE_ALLOCATION_FAILED": http.StatusServiceUnavailable,
	"TEMPLATE_MISMATCH":          http.StatusInternalServerError,
	"EMISSION_IO_ERROR":          http.StatusInternalServerError,
	"INTERNAL_INVARIANT":         http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not found.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
