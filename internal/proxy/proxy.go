package proxy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/florianilch/odette-proxy/internal/anthropicadapter/openaichat"
	"github.com/florianilch/odette-proxy/internal/observability/middleware"
)

// defaultMaxRequestBytes bounds inbound request bodies. Messages requests
// carry conversation history and tool results, so the limit is generous.
const defaultMaxRequestBytes = 10 << 20

// ReadinessChecker reports whether the application is ready to serve traffic.
type ReadinessChecker interface {
	IsReady() bool
}

// Proxy is the HTTP server front of the translator: Anthropic Messages API
// in, OpenAI Chat Completions backend out.
type Proxy struct {
	handler http.Handler
	server  *http.Server
}

// Compile-time check that Proxy can be mounted as a plain handler (tests do
// this instead of binding a port).
var _ http.Handler = (*Proxy)(nil)

// Option configures optional Proxy behavior.
type Option func(*proxyConfig)

type proxyConfig struct {
	transport       http.RoundTripper
	maxRequestBytes int64
}

// WithTransport sets the base RoundTripper for backend calls. Defaults to
// http.DefaultTransport; tests inject mocks here.
func WithTransport(transport http.RoundTripper) Option {
	return func(c *proxyConfig) { c.transport = transport }
}

// WithMaxRequestBytes overrides the inbound request body limit.
func WithMaxRequestBytes(maxBytes int64) Option {
	return func(c *proxyConfig) { c.maxRequestBytes = maxBytes }
}

// New assembles the proxy: routes, middleware chain, and the authenticated
// backend transport. A nil tokenSource leaves the transport unauthenticated,
// which suits local backends that require no key.
func New(
	baseURL string,
	router openaichat.ModelRouter,
	tokenSource oauth2.TokenSource,
	readiness ReadinessChecker,
	opts ...Option,
) *Proxy {
	cfg := proxyConfig{
		transport:       http.DefaultTransport,
		maxRequestBytes: defaultMaxRequestBytes,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	transport := cfg.transport
	if tokenSource != nil {
		transport = &oauth2.Transport{Source: tokenSource, Base: transport}
	}

	mux := http.NewServeMux()
	mux.Handle("POST /v1/messages", &CreateMessageHandler{
		Adapter:   openaichat.NewCreateMessageAdapter(baseURL, router),
		Transport: transport,
	})
	mux.Handle("GET /v1/models", modelsHandler(router))
	mux.Handle("GET /livez", livenessHandler())
	mux.Handle("GET /readyz", readinessHandler(readiness))

	handler := applyMiddlewares(mux,
		Recovery,
		middleware.RequestIDGeneration,
		middleware.Logging(slog.Default()),
		middleware.TraceContextExtraction,
		middleware.RequestIDPropagation,
		RequestSizeLimit(cfg.maxRequestBytes),
	)

	return &Proxy{handler: handler}
}

// ServeHTTP implements http.Handler.
func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.handler.ServeHTTP(w, r)
}

// Start binds addr and serves in the background. The returned channel
// delivers at most one serve error and closes when the server stops.
func (p *Proxy) Start(ctx context.Context, addr string) (<-chan error, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	p.server = &http.Server{
		Handler:           p.handler,
		ReadHeaderTimeout: 10 * time.Second,
		// WriteTimeout stays 0: streamed responses are open-ended.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if err := p.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	slog.InfoContext(ctx, "proxy listening", "addr", listener.Addr().String())
	return errCh, nil
}

// Shutdown gracefully stops the server, waiting for in-flight requests until
// ctx expires.
func (p *Proxy) Shutdown(ctx context.Context) error {
	if p.server == nil {
		return nil
	}
	return p.server.Shutdown(ctx)
}
