package denoise

import (
	"fmt"
)

// HTTPError represents an HTTP error code and message returned by the
// denoising service. No audio is decoded from a response that resulted in an
// HTTPError.
type HTTPError struct {
	Code   int    // HTTP status code, eg 401 or 500.
	Status string // Status message, either from body or the HTTP response status line.
}

// Error returns a human-readable description of the HTTP error.
func (e HTTPError) Error() string {
	return fmt.Sprintf("http response error, code %d: %s", e.Code, e.Status)
}

// TransportError is returned when the request could not be completed, e.g.
// on DNS failure, connection reset or an expired context.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("http request: %v", e.Err)
}

// Unwrap returns the underlying net/http error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError is returned when a response body cannot be interpreted as
// 16-bit PCM audio.
type DecodeError struct {
	Reason string
}

func (e *DecodeError) Error() string {
	return "decoding audio: " + e.Reason
}

// Ensure the error types implement the error interface.
var (
	_ error = HTTPError{}
	_ error = (*TransportError)(nil)
	_ error = (*DecodeError)(nil)
)
