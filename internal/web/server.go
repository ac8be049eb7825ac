// Package web exposes the tracker over a JSON HTTP API: the catalog, the
// tracked-brew collection and its lifecycle actions, custom brews, the ABV
// calculator and the auth endpoints that drive the session observer.
package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/brewshelf/brewshelf/internal/identity"
	"github.com/brewshelf/brewshelf/internal/session"
	"github.com/brewshelf/brewshelf/internal/tracker"
)

// StartOpts holds configuration for the API server.
type StartOpts struct {
	Tracker  *tracker.Tracker
	Observer *session.Observer
	Provider identity.Provider // nil runs the server anonymous-only
	Port     int
	Out      io.Writer
	Now      func() time.Time
}

// Start launches the API server. It blocks until ctx is cancelled, then
// shuts down gracefully.
func Start(ctx context.Context, opts StartOpts) error {
	router, err := newRouter(opts)
	if err != nil {
		return err
	}
	if opts.Port <= 0 {
		opts.Port = 8077
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", opts.Port),
		Handler: router,
	}

	// Graceful shutdown on context cancellation.
	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	if opts.Out != nil {
		fmt.Fprintf(opts.Out, "Brewshelf API running at http://localhost:%d\n", opts.Port)
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("web: %w", err)
	}
	return nil
}

type server struct {
	tracker  *tracker.Tracker
	observer *session.Observer
	provider identity.Provider
	now      func() time.Time
}

// newRouter builds the Gin router; split out of Start so tests can drive the
// handlers through httptest without binding a port.
func newRouter(opts StartOpts) (*gin.Engine, error) {
	if opts.Tracker == nil {
		return nil, fmt.Errorf("web: tracker is required")
	}
	if opts.Observer == nil {
		return nil, fmt.Errorf("web: session observer is required")
	}
	s := &server{
		tracker:  opts.Tracker,
		observer: opts.Observer,
		provider: opts.Provider,
		now:      opts.Now,
	}
	if s.now == nil {
		s.now = time.Now
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	if s.provider != nil {
		router.Use(s.restoreSession)
	}
	s.registerRoutes(router)
	return router, nil
}

// apiError writes the standard error body.
func apiError(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"error": err.Error()})
}
