package openaichat

import (
	"encoding/json"
	"net/http"

	"github.com/florianilch/odette-proxy/internal/anthropicadapter"
	"github.com/florianilch/odette-proxy/internal/anthropicadapter/types"
)

// toBackendError converts a non-2xx backend response into a BackendError with
// the status preserved and the body translated to Anthropic shape. The proxy
// never relays a raw backend error body to the client.
func toBackendError(status int, body []byte) *anthropicadapter.BackendError {
	var backendErr chatError
	if err := json.Unmarshal(body, &backendErr); err == nil && backendErr.Err.Message != "" {
		return &anthropicadapter.BackendError{
			StatusCode: status,
			Resp: types.NewErrorResponse(
				mapChatErrorType(backendErr.Err.Type, status),
				backendErr.Err.Message,
			),
		}
	}

	// Body was empty or not the documented error envelope.
	return &anthropicadapter.BackendError{
		StatusCode: status,
		Resp: types.NewErrorResponse(
			errorTypeForStatus(status),
			http.StatusText(status),
		),
	}
}

// toTransportError wraps a connection-level failure (no backend response) as
// a 502 with an Anthropic-shaped body.
func toTransportError(err error) *anthropicadapter.BackendError {
	return &anthropicadapter.BackendError{
		StatusCode: http.StatusBadGateway,
		Resp:       types.NewErrorResponse(types.ErrorTypeAPI, "backend request failed: "+err.Error()),
	}
}

// mapChatErrorType translates the OpenAI error taxonomy to Anthropic's.
func mapChatErrorType(chatType string, status int) string {
	switch chatType {
	case "invalid_request_error":
		return types.ErrorTypeInvalidRequest
	case "authentication_error":
		return types.ErrorTypeAuthentication
	case "permission_denied", "permission_error":
		return types.ErrorTypePermission
	case "not_found_error":
		return types.ErrorTypeNotFound
	case "rate_limit_error", "rate_limit_exceeded", "insufficient_quota":
		return types.ErrorTypeRateLimit
	case "server_error", "api_error":
		return types.ErrorTypeAPI
	default:
		return errorTypeForStatus(status)
	}
}

// errorTypeForStatus derives an Anthropic error type from an HTTP status when
// the backend body carries no usable taxonomy.
func errorTypeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return types.ErrorTypeInvalidRequest
	case http.StatusUnauthorized:
		return types.ErrorTypeAuthentication
	case http.StatusForbidden:
		return types.ErrorTypePermission
	case http.StatusNotFound:
		return types.ErrorTypeNotFound
	case http.StatusRequestEntityTooLarge:
		return types.ErrorTypeRequestTooLarge
	case http.StatusTooManyRequests:
		return types.ErrorTypeRateLimit
	case http.StatusServiceUnavailable, 529:
		return types.ErrorTypeOverloaded
	default:
		return types.ErrorTypeAPI
	}
}
