// Package app wires configuration, key storage, and the proxy server into a
// runnable application.
package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/florianilch/odette-proxy/internal/proxy"
)

// shutdownTimeout bounds how long in-flight requests may take to drain.
const shutdownTimeout = 10 * time.Second

// App is the assembled application.
type App struct {
	cfg    *Config
	proxy  *proxy.Proxy
	health *Health
}

// New assembles the application from configuration.
func New(cfg *Config) (*App, error) {
	store, err := cfg.NewKeyStore()
	if err != nil {
		return nil, fmt.Errorf("initialize key store: %w", err)
	}

	health := NewHealth()
	p := proxy.New(cfg.Backend.BaseURL, cfg.ModelRouter(), store.TokenSource(), health)

	return &App{cfg: cfg, proxy: p, health: health}, nil
}

// Run starts the proxy and blocks until ctx is cancelled or the server
// fails, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	serveErr, err := a.proxy.Start(ctx, a.cfg.Listen)
	if err != nil {
		return err
	}
	a.health.SetReady(true)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		select {
		case err, ok := <-serveErr:
			if ok {
				return err
			}
			return nil
		case <-gctx.Done():
			return nil
		}
	})
	g.Go(func() error {
		<-gctx.Done()
		a.health.SetReady(false)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return a.proxy.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
