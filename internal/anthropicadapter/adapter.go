package anthropicadapter

import (
	"context"
	"iter"
	"net/http"

	"github.com/florianilch/odette-proxy/internal/anthropicadapter/types"
)

// Adapter defines the contract for transforming client requests to backend
// API calls.
//
// Type parameters allow the interface to express transformation contracts for
// different request/response shapes while maintaining compile-time type safety.
//
// Type parameters:
//   - TRequest:  Client-specific request structure
//   - TResponse: Client-specific response structure
//   - TEvent:    Client-specific streaming event protocol
type Adapter[TRequest, TResponse, TEvent any] interface {
	// ProcessRequest transforms the client request, calls the backend API, and
	// returns the transformed response. Implementations should remain stateless
	// across requests.
	ProcessRequest(ctx context.Context, clientReq TRequest, transport http.RoundTripper) (*TResponse, error)

	// ProcessStreamingRequest transforms the client request, calls the backend
	// streaming API, and returns an iterator of transformed events. The iterator
	// pulls backend chunks one at a time, so a slow consumer applies
	// backpressure to the backend read instead of buffering the stream.
	ProcessStreamingRequest(ctx context.Context, clientReq TRequest, transport http.RoundTripper) (iter.Seq2[TEvent, error], error)
}

// Type aliases for the Anthropic Messages operation served by this proxy.
// CreateMessageAdapter is the concrete adapter interface for this operation.
type (
	CreateMessageRequest = types.CreateMessageRequest
	MessageResponse      = types.Message
	MessageStreamEvent   = types.StreamEvent

	CreateMessageAdapter = Adapter[
		CreateMessageRequest,
		MessageResponse,
		MessageStreamEvent,
	]
)

// Type aliases for Anthropic-shaped error bodies.
type (
	ErrorObject   = types.ErrorObject
	ErrorResponse = types.ErrorResponse
)
