package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/florianilch/odette-proxy/internal/anthropicadapter"
	"github.com/florianilch/odette-proxy/internal/anthropicadapter/types"
)

// CreateMessageHandler serves POST /v1/messages by dispatching to the
// configured adapter, in streaming or non-streaming mode depending on the
// request.
type CreateMessageHandler struct {
	Adapter   anthropicadapter.CreateMessageAdapter
	Transport http.RoundTripper
}

// Compile-time check that CreateMessageHandler implements http.Handler.
var _ http.Handler = (*CreateMessageHandler)(nil)

func (h *CreateMessageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var clientReq anthropicadapter.CreateMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&clientReq); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, types.NewErrorResponse(types.ErrorTypeRequestTooLarge, "request body too large"))
			return
		}
		writeError(w, types.NewErrorResponse(types.ErrorTypeInvalidRequest, "invalid JSON in request body: "+err.Error()))
		return
	}

	if clientReq.IsStreaming() {
		h.serveStreaming(w, r, clientReq)
	} else {
		h.serveUnary(w, r, clientReq)
	}
}

func (h *CreateMessageHandler) serveUnary(w http.ResponseWriter, r *http.Request, clientReq anthropicadapter.CreateMessageRequest) {
	resp, err := h.Adapter.ProcessRequest(r.Context(), clientReq, h.Transport)
	if err != nil {
		h.writeProcessError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *CreateMessageHandler) serveStreaming(w http.ResponseWriter, r *http.Request, clientReq anthropicadapter.CreateMessageRequest) {
	events, err := h.Adapter.ProcessStreamingRequest(r.Context(), clientReq, h.Transport)
	if err != nil {
		// The stream has not started, so errors still go out as plain JSON.
		h.writeProcessError(r.Context(), w, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		writeError(w, types.NewErrorResponse(types.ErrorTypeAPI, "streaming unsupported by connection"))
		return
	}

	for event, err := range events {
		if err != nil {
			// Mid-stream failure: the status line is long gone, report on the
			// stream itself.
			slog.ErrorContext(r.Context(), "stream translation failed", "error", err)
			_ = sse.WriteEvent("error", types.NewErrorResponse(types.ErrorTypeAPI, "stream translation failed"))
			return
		}
		if writeErr := sse.WriteEvent(event.EventType(), event); writeErr != nil {
			// Client went away; stop pulling so the backend request is released.
			slog.DebugContext(r.Context(), "client disconnected mid-stream", "error", writeErr)
			return
		}
	}
}

// writeProcessError maps adapter errors onto HTTP responses. Backend errors
// relay the upstream status; translated Anthropic errors use their taxonomy
// status; anything else is an opaque 500 with details kept server-side.
func (h *CreateMessageHandler) writeProcessError(ctx context.Context, w http.ResponseWriter, err error) {
	var backendErr *anthropicadapter.BackendError
	if errors.As(err, &backendErr) {
		writeJSON(w, backendErr.StatusCode, backendErr.Resp)
		return
	}

	var errResp *types.ErrorResponse
	if errors.As(err, &errResp) {
		writeError(w, errResp)
		return
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		// Client abandoned the request, nothing useful to write.
		return
	}

	slog.ErrorContext(ctx, "request processing failed", "error", err)
	writeError(w, types.NewErrorResponse(types.ErrorTypeAPI, "internal server error"))
}
