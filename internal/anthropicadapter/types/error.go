package types

// Anthropic error taxonomy emitted by the proxy.
const (
	ErrorTypeInvalidRequest  = "invalid_request_error"
	ErrorTypeAuthentication  = "authentication_error"
	ErrorTypePermission      = "permission_error"
	ErrorTypeNotFound        = "not_found_error"
	ErrorTypeRequestTooLarge = "request_too_large"
	ErrorTypeRateLimit       = "rate_limit_error"
	ErrorTypeAPI             = "api_error"
	ErrorTypeOverloaded      = "overloaded_error"
)

// ErrorObject is the inner error detail of an Anthropic error body.
type ErrorObject struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Error implements the error interface, returning the error message.
func (e *ErrorObject) Error() string {
	return e.Message
}

// ErrorResponse is the Anthropic-shaped error envelope:
// {"type": "error", "error": {...}}. It implements error so translation
// failures can flow through ordinary error returns while keeping the full
// wire structure for marshaling.
type ErrorResponse struct {
	Type string      `json:"type"`
	Err  ErrorObject `json:"error"`
}

// NewErrorResponse builds an Anthropic-shaped error envelope.
func NewErrorResponse(errorType, message string) *ErrorResponse {
	return &ErrorResponse{
		Type: "error",
		Err:  ErrorObject{Type: errorType, Message: message},
	}
}

// Error implements the error interface, returning the underlying message.
func (e *ErrorResponse) Error() string {
	return e.Err.Message
}
