package model

import (
	"errors"
	"fmt"
)

// Common errors used across the application
var (
	// Credential errors
	ErrMalformedCookieSegment = errors.New("malformed cookie segment")
	ErrNoCredentials          = errors.New("no session cookies configured")

	// Game errors
	ErrUnknownGame = errors.New("unknown game")

	// Signing errors
	ErrUnsupportedRegion = errors.New("unsupported region")

	// Account errors
	ErrAccountNotFound        = errors.New("account not found")
	ErrUnresolvedGameIdentity = errors.New("game identity not resolved for this account")

	// Storage errors
	ErrRecordNotFound = errors.New("account record not found")
)

// RequestErrorKind classifies why an upstream request failed
type RequestErrorKind string

const (
	KindTransport RequestErrorKind = "transport"
	KindTimeout   RequestErrorKind = "timeout"
	KindStatus    RequestErrorKind = "status"
	KindDecode    RequestErrorKind = "decode"
	KindRejected  RequestErrorKind = "rejected"
)

// RequestError wraps any failure of a single upstream call
type RequestError struct {
	Kind       RequestErrorKind
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *RequestError) Error() string {
	if e.Kind == KindStatus {
		return fmt.Sprintf("request to %s failed: HTTP %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("request to %s failed (%s): %v", e.Endpoint, e.Kind, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// IsTimeout returns true if the request exceeded its deadline
func (e *RequestError) IsTimeout() bool {
	return e.Kind == KindTimeout
}
