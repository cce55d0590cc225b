package openaichat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxErrorBodyBytes bounds how much of a backend error body is read for
// translation.
const maxErrorBodyBytes = 64 * 1024

// doChatCompletion posts the request body to the backend and returns the
// response with its status already checked. Non-2xx responses and transport
// failures come back as a BackendError with the body translated; the caller
// owns closing the body of a successful response.
//
// Authentication is the transport chain's concern (an oauth2.Transport when a
// backend key is configured), so no Authorization header is set here.
func doChatCompletion(
	ctx context.Context,
	transport http.RoundTripper,
	baseURL string,
	backendReq *chatCompletionRequest,
) (*http.Response, error) {
	body, err := json.Marshal(backendReq)
	if err != nil {
		return nil, fmt.Errorf("encode backend request: %w", err)
	}

	url := strings.TrimSuffix(baseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create backend request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")

	client := &http.Client{
		Transport: transport,
		// Client.Timeout = 0 allows long-running SSE streams (bounded by server WriteTimeout)
	}

	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, toTransportError(err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		_ = resp.Body.Close()
		return nil, toBackendError(resp.StatusCode, errBody)
	}

	return resp, nil
}
