// Package errors defines the error types returned by the TikTok Research API
// wrapper. Every failure surfaces as exactly one of these types so that
// callers can classify outcomes with errors.As.
package errors

import (
	"fmt"
	"strings"
)

// ConfigError indicates a problem with the client configuration.
type ConfigError struct {
	// Field contains the name of the configuration field that caused the error
	Field string
	// Message contains the detailed error message
	Message string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config error in field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("config error: %s", e.Message)
}

// AuthError indicates a token acquisition or refresh failure. The token
// manager retries these internally; once retries are exhausted the final
// AuthError is surfaced to the caller.
type AuthError struct {
	// StatusCode is the HTTP status code of the token exchange (if one was made)
	StatusCode int
	// Body contains the raw response body from the token endpoint (if available)
	Body string
	// Message contains the detailed error message
	Message string
	// Err contains the underlying error if available
	Err error
}

func (e *AuthError) Error() string {
	parts := []string{"auth error"}
	if e.StatusCode > 0 {
		parts = append(parts, fmt.Sprintf("status code %d", e.StatusCode))
	}
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	if e.Body != "" {
		parts = append(parts, fmt.Sprintf("body: %q", e.Body))
	}
	if e.Err != nil {
		parts = append(parts, fmt.Sprintf("err: %v", e.Err))
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return parts[0] + ": " + strings.Join(parts[1:], ", ")
}

func (e *AuthError) Unwrap() error { return e.Err }

// ValidationError indicates a malformed request before send or a response
// body that does not match the expected schema. Validation failures are
// never retried and always carry enough detail to diagnose without
// re-running the request.
type ValidationError struct {
	// Field is the name of the field that failed validation (if known)
	Field string
	// Message contains the detailed error message
	Message string
	// Err contains the underlying error if available
	Err error
}

func (e *ValidationError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error on field %s: %s", e.Field, msg)
	}
	return fmt.Sprintf("validation error: %s", msg)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// APIError represents a well-formed error envelope returned by the TikTok
// Research API. The wrapper never retries these automatically; Code and
// Message are surfaced for caller-level retry decisions.
type APIError struct {
	// StatusCode is the HTTP status code of the response
	StatusCode int
	// Code is the error code from the API error envelope (e.g. "invalid_params")
	Code string
	// Message is the human-readable error message from the envelope
	Message string
	// LogID identifies the request in TikTok's logs
	LogID string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tiktok API error (status %d, code %s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("tiktok API request failed with status %d: %s", e.StatusCode, e.Message)
}

// TransportError indicates a network or HTTP-layer failure that could not be
// classified as an API-reported error: connection failures, timeouts, or
// non-success statuses whose bodies match neither the expected schema nor
// the error envelope.
type TransportError struct {
	// StatusCode is the HTTP status code (zero if the request never completed)
	StatusCode int
	// Body contains the raw response body, which may hold more details
	Body string
	// Err contains the underlying error if available
	Err error
}

func (e *TransportError) Error() string {
	parts := []string{"transport error"}
	if e.StatusCode > 0 {
		parts = append(parts, fmt.Sprintf("status code %d", e.StatusCode))
	}
	if e.Body != "" {
		parts = append(parts, fmt.Sprintf("body: %q", e.Body))
	}
	if e.Err != nil {
		parts = append(parts, fmt.Sprintf("err: %v", e.Err))
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return parts[0] + ": " + strings.Join(parts[1:], ", ")
}

func (e *TransportError) Unwrap() error { return e.Err }
