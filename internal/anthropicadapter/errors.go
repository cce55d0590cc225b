package anthropicadapter

import "github.com/florianilch/odette-proxy/internal/anthropicadapter/types"

// BackendError represents a failed backend call: a non-2xx response or a
// transport failure. The upstream status code is preserved so the HTTP layer
// can relay it, while the body is already translated to Anthropic shape.
type BackendError struct {
	// StatusCode is the upstream HTTP status, or 502 when the call never
	// produced a response.
	StatusCode int

	// Resp is the Anthropic-shaped error body to return to the client.
	Resp *types.ErrorResponse
}

// Error implements the error interface, returning the translated message.
func (e *BackendError) Error() string {
	if e.Resp == nil {
		return "backend error"
	}
	return e.Resp.Err.Message
}

// Unwrap exposes the translated error body for errors.As discrimination.
func (e *BackendError) Unwrap() error {
	return e.Resp
}
