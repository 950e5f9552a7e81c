package routes

import (
	"errors"
	"net/http"

	"visitorlog/internal/storage"
)

// HTTPError represents an error with an associated HTTP status code and user message
type HTTPError struct {
	Err        error  // The underlying error
	StatusCode int    // HTTP status code
	Message    string // User-friendly message
}

// Error implements the error interface
func (e *HTTPError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *HTTPError) Unwrap() error {
	return e.Err
}

// NewHTTPError creates a new HTTPError
func NewHTTPError(statusCode int, err error, message string) *HTTPError {
	return &HTTPError{
		Err:        err,
		StatusCode: statusCode,
		Message:    message,
	}
}

var (
	// Authentication errors
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Validation errors
	ErrValidation = errors.New("invalid request")

	// Internal errors
	ErrInternalServer = errors.New("internal server error")
	ErrDatabaseError  = errors.New("database error")
)

// errorStatusMap maps errors to HTTP status codes
var errorStatusMap = map[error]int{
	// 400 Bad Request
	ErrValidation: http.StatusBadRequest,

	// 401 Unauthorized
	ErrUnauthorized:       http.StatusUnauthorized,
	ErrInvalidCredentials: http.StatusUnauthorized,

	// 404 Not Found
	storage.ErrVisitorNotFound: http.StatusNotFound,
	storage.ErrAdminNotFound:   http.StatusNotFound,

	// 409 Conflict
	storage.ErrAdminExists: http.StatusConflict,

	// 500 Internal Server Error
	ErrInternalServer: http.StatusInternalServerError,
	ErrDatabaseError:  http.StatusInternalServerError,
}

// errorMessageMap maps errors to user-friendly messages. Store and
// internal failures collapse into a generic message with no detail.
var errorMessageMap = map[error]string{
	ErrUnauthorized:            "Authentication required",
	ErrInvalidCredentials:      "Invalid username or password",
	ErrValidation:              "Invalid request",
	storage.ErrVisitorNotFound: "Visitor not found",
	storage.ErrAdminNotFound:   "Admin not found",
	storage.ErrAdminExists:     "Admin already exists",
	ErrInternalServer:          "An internal error occurred",
	ErrDatabaseError:           "Database operation failed",
}

// GetErrorStatus returns the HTTP status code for an error
func GetErrorStatus(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}

	if status, ok := errorStatusMap[err]; ok {
		return status
	}

	// Check if error wraps a known error
	for knownErr, status := range errorStatusMap {
		if errors.Is(err, knownErr) {
			return status
		}
	}

	return http.StatusInternalServerError
}

// GetErrorMessage returns a user-friendly message for an error
func GetErrorMessage(err error) string {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Message
	}

	if msg, ok := errorMessageMap[err]; ok {
		return msg
	}

	for knownErr, msg := range errorMessageMap {
		if errors.Is(err, knownErr) {
			return msg
		}
	}

	// Unknown errors get a generic message for 5xx, their own text otherwise
	if GetErrorStatus(err) >= 500 {
		return "An internal error occurred"
	}
	return err.Error()
}
