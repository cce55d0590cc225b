package proxy

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/florianilch/odette-proxy/internal/anthropicadapter/openaichat"
)

const benchUnaryBackendResponse = `{
	"id": "chatcmpl-bench",
	"object": "chat.completion",
	"choices": [{
		"index": 0,
		"message": {"role": "assistant", "content": "The capital of France is Paris."},
		"finish_reason": "stop"
	}],
	"usage": {"prompt_tokens": 21, "completion_tokens": 8, "total_tokens": 29}
}`

var benchStreamBackendResponse = strings.Join([]string{
	`data: {"id":"chatcmpl-bench","choices":[{"index":0,"delta":{"role":"assistant","content":"The "}}]}`,
	``,
	`data: {"id":"chatcmpl-bench","choices":[{"index":0,"delta":{"content":"capital "}}]}`,
	``,
	`data: {"id":"chatcmpl-bench","choices":[{"index":0,"delta":{"content":"of France "}}]}`,
	``,
	`data: {"id":"chatcmpl-bench","choices":[{"index":0,"delta":{"content":"is Paris."}}]}`,
	``,
	`data: {"id":"chatcmpl-bench","choices":[{"index":0,"delta":{},"finish_reason":"stop"}]}`,
	``,
	`data: {"id":"chatcmpl-bench","choices":[],"usage":{"prompt_tokens":21,"completion_tokens":8,"total_tokens":29}}`,
	``,
	`data: [DONE]`,
	``,
}, "\n")

const benchMessagesRequest = `{
	"model": "claude-sonnet",
	"max_tokens": 256,
	"messages": [{"role": "user", "content": "What is the capital of France?"}]
}`

const benchStreamingMessagesRequest = `{
	"model": "claude-sonnet",
	"max_tokens": 256,
	"stream": true,
	"messages": [{"role": "user", "content": "What is the capital of France?"}]
}`

// benchTransport replays one canned backend response per round trip.
type benchTransport struct {
	body        string
	contentType string
}

func (bt *benchTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(bt.body)),
		Header:     http.Header{"Content-Type": []string{bt.contentType}},
		Request:    req,
	}, nil
}

// setupBenchProxy creates a Proxy with the full middleware stack but a mocked
// backend. Suppresses logging to isolate benchmark measurements from I/O
// overhead.
func setupBenchProxy(b *testing.B, transport http.RoundTripper) *httptest.Server {
	b.Helper()

	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))

	router := openaichat.ModelRouter{Model: "gpt-bench", Default: openaichat.DefaultModel}
	p := New("https://backend.bench/v1", router, nil, staticReadiness(true), WithTransport(transport))

	server := httptest.NewServer(p)
	b.Cleanup(server.Close)
	return server
}

// BenchmarkProxyStreaming measures end-to-end streaming latency: routing,
// middleware, handler, adapter, and SSE encoding. Excludes network latency
// (mocked transport).
func BenchmarkProxyStreaming(b *testing.B) {
	transport := &benchTransport{body: benchStreamBackendResponse, contentType: "text/event-stream"}
	server := setupBenchProxy(b, transport)

	b.ReportAllocs()
	b.ResetTimer()

	for b.Loop() {
		resp, err := http.Post(
			server.URL+"/v1/messages",
			"application/json",
			strings.NewReader(benchStreamingMessagesRequest),
		)
		if err != nil {
			b.Fatalf("Request failed: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			b.Fatalf("Unexpected status code: %d", resp.StatusCode)
		}
		if _, err := io.Copy(io.Discard, resp.Body); err != nil {
			b.Fatalf("Stream read error: %v", err)
		}
		_ = resp.Body.Close()
	}
}

// BenchmarkProxyNonStreaming provides the buffered baseline for comparison
// against the streaming benchmark to isolate SSE overhead.
func BenchmarkProxyNonStreaming(b *testing.B) {
	transport := &benchTransport{body: benchUnaryBackendResponse, contentType: "application/json"}
	server := setupBenchProxy(b, transport)

	b.ReportAllocs()
	b.ResetTimer()

	for b.Loop() {
		resp, err := http.Post(
			server.URL+"/v1/messages",
			"application/json",
			strings.NewReader(benchMessagesRequest),
		)
		if err != nil {
			b.Fatalf("Request failed: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			b.Fatalf("Unexpected status code: %d", resp.StatusCode)
		}
		if _, err := io.Copy(io.Discard, resp.Body); err != nil {
			b.Fatalf("Read error: %v", err)
		}
		_ = resp.Body.Close()
	}
}
