package proxy

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/florianilch/odette-proxy/internal/anthropicadapter/types"
)

// writeJSON writes v as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already sent at this point, best effort only.
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// writeError writes an Anthropic-shaped error envelope with the HTTP status
// implied by its error type.
func writeError(w http.ResponseWriter, errResp *types.ErrorResponse) {
	writeJSON(w, statusForErrorType(errResp.Err.Type), errResp)
}

// statusForErrorType maps the Anthropic error taxonomy to HTTP status codes.
func statusForErrorType(errorType string) int {
	switch errorType {
	case types.ErrorTypeInvalidRequest:
		return http.StatusBadRequest
	case types.ErrorTypeAuthentication:
		return http.StatusUnauthorized
	case types.ErrorTypePermission:
		return http.StatusForbidden
	case types.ErrorTypeNotFound:
		return http.StatusNotFound
	case types.ErrorTypeRequestTooLarge:
		return http.StatusRequestEntityTooLarge
	case types.ErrorTypeRateLimit:
		return http.StatusTooManyRequests
	case types.ErrorTypeOverloaded:
		return 529
	default:
		return http.StatusInternalServerError
	}
}
