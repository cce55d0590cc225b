package openaichat

import (
	"strings"

	"github.com/google/uuid"
)

// newMessageID generates an Anthropic-style message ID (msg_<24-char-token>).
// Used when the backend response carries no usable ID.
func newMessageID() string {
	return "msg_" + randomToken(24)
}

// newToolUseID generates an Anthropic-style tool use ID (toolu_<24-char-token>).
// Assigned when a backend tool call arrives without one; stable for the rest
// of the response so a later tool_result can reference it.
func newToolUseID() string {
	return "toolu_" + randomToken(24)
}

// messageIDFromBackend derives the client-visible message ID from a backend
// response ID: chatcmpl-prefixed IDs are rewritten to msg-prefixed ones, an
// empty ID gets a fresh one.
func messageIDFromBackend(backendID string) string {
	if backendID == "" {
		return newMessageID()
	}
	if rewritten := strings.Replace(backendID, "chatcmpl", "msg", 1); rewritten != backendID {
		return rewritten
	}
	return backendID
}

// randomToken returns n lowercase hex characters of UUID-derived randomness.
func randomToken(n int) string {
	token := strings.ReplaceAll(uuid.New().String(), "-", "")
	for len(token) < n {
		token += strings.ReplaceAll(uuid.New().String(), "-", "")
	}
	return token[:n]
}
