package roblox

import (
	"errors"
	"fmt"
)

// ErrNoAPIKey is returned by privileged calls when no credential is configured.
var ErrNoAPIKey = errors.New("roblox api key not configured")

// TransportError is a network or connection failure.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// HTTPStatusError is a non-2xx upstream response.
type HTTPStatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("%s: http %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// DecodeError is a malformed or unexpected JSON body.
type DecodeError struct {
	Endpoint string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: decode: %v", e.Endpoint, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Kind classifies an upstream error for logging: "transport", "status",
// "decode" or "other".
func Kind(err error) string {
	var te *TransportError
	var se *HTTPStatusError
	var de *DecodeError
	switch {
	case errors.As(err, &te):
		return "transport"
	case errors.As(err, &se):
		return "status"
	case errors.As(err, &de):
		return "decode"
	default:
		return "other"
	}
}
