// Package server wires the Chi router: global middleware, the public OAuth
// flow, the admin session endpoints, and the protected panel API.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/wojp/backoffice/internal/audit"
	"github.com/wojp/backoffice/internal/config"
	"github.com/wojp/backoffice/internal/handler"
	"github.com/wojp/backoffice/internal/server/middleware"
	"github.com/wojp/backoffice/internal/service"
	"github.com/wojp/backoffice/internal/store"
)

// Server is the top-level HTTP server for the panel. It owns the router and
// the wiring between handlers, the auth service, and the store.
type Server struct {
	cfg        config.Config
	router     chi.Router
	store      *store.Store
	authSvc    *service.AuthService
	recorder   *audit.Recorder
	httpServer *http.Server
	logger     *slog.Logger
}

// New creates a Server with all routes and middleware wired, ready for
// ListenAndServe.
func New(cfg config.Config, st *store.Store, authSvc *service.AuthService, recorder *audit.Recorder, logger *slog.Logger) *Server {
	s := &Server{
		cfg:      cfg,
		store:    st,
		authSvc:  authSvc,
		recorder: recorder,
		logger:   logger,
	}
	s.setupRouter()
	return s
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	production := s.cfg.IsProduction()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(s.logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(chimw.Compress(5))

	// Health checks, no auth.
	r.Get("/healthz", s.handleHealthz)
	r.Get("/readyz", s.handleReadyz)

	authHandler := handler.NewAuthHandler(s.authSvc, production)
	newsHandler := handler.NewNewsHandler(s.store, s.recorder)
	jobHandler := handler.NewJobHandler(s.store, s.recorder)
	categoryHandler := handler.NewCategoryHandler(s.store, s.recorder)
	auditHandler := handler.NewAuditHandler(s.recorder)
	oauthHandler := handler.NewOAuthHandler(s.cfg.OAuth, s.store, s.authSvc, production)

	// Public end-user OAuth flow. Mounted only when a provider is configured.
	if oauthHandler != nil {
		r.Route("/api/oauth", func(r chi.Router) {
			r.Get("/login", oauthHandler.Login)
			r.Get("/callback", oauthHandler.Callback)
		})
	}

	r.Route("/api/v1", func(r chi.Router) {
		// End-user session endpoints.
		if oauthHandler != nil {
			r.Group(func(r chi.Router) {
				r.Use(middleware.UserSession(s.authSvc))
				r.Get("/me", oauthHandler.Me)
			})
			r.Post("/logout", oauthHandler.Logout)
		}

		r.Route("/admin", func(r chi.Router) {
			// Session lifecycle. Login is public but rate-limited; me is
			// public and returns null for anonymous callers.
			r.Route("/auth", func(r chi.Router) {
				r.With(middleware.LoginRateLimit(s.cfg.Server.LoginRateLimit)).
					Post("/login", authHandler.Login)
				r.Post("/logout", authHandler.Logout)
				r.Get("/me", authHandler.Me)

				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminSession(s.authSvc))
					r.Put("/email", authHandler.UpdateEmail)
					r.Put("/password", authHandler.UpdatePassword)
				})
			})

			// Everything below requires an authenticated admin session.
			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminSession(s.authSvc))

				// Admin provisioning, super admin only.
				r.With(middleware.RequireSuperAdmin()).
					Post("/admins", authHandler.CreateAdmin)

				r.Route("/news", func(r chi.Router) {
					r.Get("/", newsHandler.List)
					r.Post("/", newsHandler.Create)
					r.Get("/slug-check", newsHandler.CheckSlug)
					r.Get("/{newsID}", newsHandler.Get)
					r.Put("/{newsID}", newsHandler.Update)
					r.Delete("/{newsID}", newsHandler.Delete)
					r.Post("/{newsID}/publish", newsHandler.TogglePublish)
				})

				r.Route("/jobs", func(r chi.Router) {
					r.Get("/", jobHandler.List)
					r.Post("/", jobHandler.Create)
					r.Get("/slug-check", jobHandler.CheckSlug)
					r.Get("/{jobID}", jobHandler.Get)
					r.Put("/{jobID}", jobHandler.Update)
					r.Delete("/{jobID}", jobHandler.Delete)
					r.Post("/{jobID}/publish", jobHandler.TogglePublish)
				})

				r.Route("/categories", func(r chi.Router) {
					r.Get("/", categoryHandler.List)
					r.Post("/", categoryHandler.Create)
					r.Put("/{categoryID}", categoryHandler.Update)
					r.Delete("/{categoryID}", categoryHandler.Delete)
				})

				r.Route("/audit", func(r chi.Router) {
					r.Get("/", auditHandler.List)
					r.Get("/actor/{adminID}", auditHandler.ListByActor)
				})
			})
		})
	})

	s.router = r
}

// handleHealthz is a liveness probe. Returns 200 if the process is running.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// handleReadyz is a readiness probe. Returns 200 when the store is
// reachable, 503 otherwise.
func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := s.store.Ping(); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"degraded"}`))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// ListenAndServe starts the HTTP server and blocks until SIGINT or SIGTERM,
// then drains in-flight requests within the shutdown timeout.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", addr, "environment", s.cfg.Environment)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server listen: %w", err)
	case <-ctx.Done():
		s.logger.Info("shutdown signal received, draining connections...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout())
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

// Router returns the underlying Chi router, useful for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ServeHTTP implements http.Handler, delegating to the router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
