// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api is the composition root of the HTTP surface: it builds the chi
router, applies the middleware chain and mounts each domain handler.

Route layout:

	/health, /ready, /metrics   health and metrics, always public
	/views/*                    guarded portal views (303 redirects)
	/api/v1/auth/*              sign-in surface, no live session needed
	/api/v1/*                   everything else, behind RequireSession
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/collabconnect/internal/hr/company"
	"github.com/taibuivan/collabconnect/internal/hr/request"
	"github.com/taibuivan/collabconnect/internal/platform/config"
	"github.com/taibuivan/collabconnect/internal/platform/constants"
	"github.com/taibuivan/collabconnect/internal/platform/metrics"
	"github.com/taibuivan/collabconnect/internal/platform/middleware"
	"github.com/taibuivan/collabconnect/internal/portal"
	"github.com/taibuivan/collabconnect/internal/session"
	"github.com/taibuivan/collabconnect/internal/users/account"
	"github.com/taibuivan/collabconnect/internal/users/auth"
)

// Server owns the router and the listening [http.Server].
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// Handlers are the mounted endpoint sets. A nil entry is simply not mounted.
type Handlers struct {
	Liveness  http.HandlerFunc
	Readiness http.HandlerFunc
	Metrics   http.Handler

	Auth    *auth.Handler
	Session *session.Handler
	Account *account.Handler
	Company *company.Handler
	Request *request.Handler
	Portal  *portal.Handler
}

// Dependencies are the collaborators of the middleware chain.
type Dependencies struct {
	Verifier middleware.TokenVerifier
	Sessions middleware.SessionResolver

	// Collector instruments every request when metrics are enabled.
	Collector *metrics.Collector
}

// NewServer builds the router. ctx bounds background work owned by the
// middleware, such as the rate limiter's visitor sweep.
func NewServer(ctx context.Context, cfg *config.Config, log *slog.Logger, deps Dependencies, handlers Handlers) *Server {
	router := chi.NewRouter()
	router.Use(middlewareChain(ctx, cfg, log, deps)...)

	mountHealth(router, handlers)
	if handlers.Portal != nil {
		router.Mount("/views", handlers.Portal.Routes())
	}

	router.Route("/api/v1", func(v1 chi.Router) {
		if handlers.Auth != nil {
			v1.Mount("/auth", handlers.Auth.Routes())
		}

		v1.Group(func(live chi.Router) {
			live.Use(middleware.RequireSession(deps.Sessions))

			mount(live, "/session", handlers.Session)
			mount(live, "/companies", handlers.Company)
			mount(live, "/requests", handlers.Request)
			mount(live, "/", handlers.Account)
		})
	})

	return &Server{
		router:     router,
		log:        log,
		httpServer: newHTTPServer(":"+cfg.ServerPort, router),
	}
}

// middlewareChain lists the global middleware outermost first. The request
// id and access log wrap everything so even rejected requests are traced.
func middlewareChain(ctx context.Context, cfg *config.Config, log *slog.Logger, deps Dependencies) []func(http.Handler) http.Handler {
	chain := []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.StructuredLogger(log),
	}
	if deps.Collector != nil {
		chain = append(chain, deps.Collector.Instrument)
	}

	return append(chain,
		middleware.Timeout(constants.GlobalRequestTimeout),
		middleware.RateLimit(ctx),
		middleware.PanicRecovery(log),
		middleware.Authenticate(deps.Verifier),
		middleware.CORS(cfg),
		chimw.CleanPath,
	)
}

func mountHealth(router chi.Router, handlers Handlers) {
	if handlers.Liveness != nil {
		router.Get("/health", handlers.Liveness)
	}
	if handlers.Readiness != nil {
		router.Get("/ready", handlers.Readiness)
	}
	if handlers.Metrics != nil {
		router.Handle("/metrics", handlers.Metrics)
	}
}

type routable interface {
	Routes() chi.Router
}

// mount skips handler sets left nil, including typed nil pointers.
func mount[H interface {
	routable
	comparable
}](router chi.Router, pattern string, handler H) {
	var none H
	if handler == none {
		return
	}
	router.Mount(pattern, handler.Routes())
}

func newHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       constants.DefaultReadTimeout,
		ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		WriteTimeout:      constants.DefaultWriteTimeout,
		IdleTimeout:       constants.DefaultIdleTimeout,
	}
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks until the server is shut down or fails.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests for at most timeout.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
