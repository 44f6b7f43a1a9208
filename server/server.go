// Package server assembles the HTTP surface of the reading proxy.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/oycb/readingproxy/internal/profile"
	"github.com/oycb/readingproxy/server/cache"
	"github.com/oycb/readingproxy/server/fetcher"
	"github.com/oycb/readingproxy/server/middleware"
)

// Server wires the cache store and fetcher behind the HTTP routes. The store
// and fetcher are injected so tests can stand up the full surface against an
// httptest upstream.
type Server struct {
	e       *echo.Echo
	profile *profile.Profile
	store   *cache.Store
	fetcher *fetcher.Fetcher
	logger  *slog.Logger
}

// New creates a Server with all routes and middleware registered.
func New(p *profile.Profile, store *cache.Store, f *fetcher.Fetcher, logger *slog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	s := &Server{
		e:       e,
		profile: p,
		store:   store,
		fetcher: f,
		logger:  logger,
	}
	e.HTTPErrorHandler = s.errorHandler

	limiter := middleware.NewRateLimiter(10, 20)

	e.GET("/reading", s.getReading, limiter.Middleware())
	e.GET("/health", s.health)
	e.GET("/cache/stats", s.cacheStats)
	e.POST("/cache/clear", s.cacheClear)

	return s
}

// Start runs the HTTP server until Shutdown or a listener error.
func (s *Server) Start() error {
	return s.e.Start(s.profile.ListenAddr())
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}

// errorHandler keeps unmatched routes in the JSON error shape the rest of the
// API uses. Unmatched paths are expected traffic and are not logged as
// errors.
func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := http.StatusText(code)
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		msg = fmt.Sprintf("%v", he.Message)
		if code == http.StatusNotFound {
			msg = "Not found"
		}
	} else {
		s.logger.Error("unhandled request error", slog.String("error", err.Error()))
	}

	_ = c.JSON(code, errorResponse{Error: msg})
}
