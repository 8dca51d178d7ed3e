package apierr

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/mcoot/hoyorecord/internal/model"
	"github.com/mcoot/hoyorecord/internal/services/record"
	"github.com/mcoot/hoyorecord/internal/services/session"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeUnknownOperation    = "UNKNOWN_OPERATION"
	CodeGameNotLinked       = "GAME_NOT_LINKED"
	CodeAccountNotFound     = "ACCOUNT_NOT_FOUND"
	CodeNoCredentials       = "NO_CREDENTIALS"
	CodeUpstreamError       = "UPSTREAM_ERROR"
	CodeUpstreamTimeout     = "UPSTREAM_TIMEOUT"
	CodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	CodeUpstreamRetcode     = "UPSTREAM_RETCODE"
	CodeChallengeRequired   = "CHALLENGE_REQUIRED"
	CodeInternalError       = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status err would be written with
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map domain errors
	switch {
	case errors.Is(err, session.ErrUnknownOperation), errors.Is(err, model.ErrUnknownGame):
		return &httpError{http.StatusNotFound, APIError{CodeUnknownOperation, err.Error()}}
	case errors.Is(err, model.ErrUnresolvedGameIdentity):
		return &httpError{http.StatusNotFound, APIError{CodeGameNotLinked, "Game is not linked to this account"}}
	case errors.Is(err, model.ErrNoCredentials):
		return &httpError{http.StatusServiceUnavailable, APIError{CodeNoCredentials, "No usable session cookies configured"}}
	}

	// Upstream failures take precedence over the account wrapper around them
	var reqErr *model.RequestError
	if errors.As(err, &reqErr) {
		switch reqErr.Kind {
		case model.KindTimeout:
			return &httpError{http.StatusGatewayTimeout, APIError{CodeUpstreamTimeout, "Upstream request timed out"}}
		case model.KindRejected:
			return &httpError{http.StatusServiceUnavailable, APIError{CodeUpstreamUnavailable, "Upstream temporarily unavailable"}}
		default:
			return &httpError{http.StatusBadGateway, APIError{CodeUpstreamError, "Upstream request failed"}}
		}
	}

	var retErr *record.RetcodeError
	if errors.As(err, &retErr) {
		if retErr.NeedsChallenge() {
			return &httpError{http.StatusTooManyRequests, APIError{CodeChallengeRequired, retErr.Error()}}
		}
		return &httpError{http.StatusBadGateway, APIError{CodeUpstreamRetcode, retErr.Error()}}
	}

	if errors.Is(err, model.ErrAccountNotFound) {
		return &httpError{http.StatusNotFound, APIError{CodeAccountNotFound, "Account not found"}}
	}
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
