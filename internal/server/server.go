// Package server wires the HTTP router, middleware and handlers.
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

	"github.com/sweetshop/sweetshop/internal/config"
	"github.com/sweetshop/sweetshop/internal/handler"
	"github.com/sweetshop/sweetshop/internal/metrics"
	"github.com/sweetshop/sweetshop/internal/openapi"
	"github.com/sweetshop/sweetshop/internal/server/middleware"
	"github.com/sweetshop/sweetshop/internal/service"
)

// Config holds the HTTP server configuration.
type Config struct {
	Host            string
	Port            int
	ShutdownTimeout time.Duration
	CORSOrigins     []string
	LoginRateLimit  int // per IP per minute; 0 disables
	Version         string
}

// DefaultConfig returns a Config with sensible production defaults.
func DefaultConfig() Config {
	return Config{
		Host:            "0.0.0.0",
		Port:            8000,
		ShutdownTimeout: 30 * time.Second,
		CORSOrigins:     []string{"*"},
		LoginRateLimit:  20,
		Version:         "dev",
	}
}

// ConfigFromSettings derives the server configuration from loaded settings.
func ConfigFromSettings(s config.Settings, version string) Config {
	return Config{
		Host:            s.Server.Host,
		Port:            s.Server.Port,
		ShutdownTimeout: s.Server.ShutdownTimeout,
		CORSOrigins:     s.Server.CORSOrigins,
		LoginRateLimit:  s.Auth.LoginRateLimit,
		Version:         version,
	}
}

// Services are the components the HTTP surface depends on.
type Services struct {
	DB       handler.Pinger
	Accounts *service.AccountService
	Tokens   *service.TokenService
	Catalog  *service.CatalogService
	Gate     *service.Gate
	Metrics  *metrics.Metrics
}

// Server is the top-level HTTP server. It owns the chi router and the
// services behind it.
type Server struct {
	cfg        Config
	svc        Services
	router     chi.Router
	httpServer *http.Server
	logger     *slog.Logger
}

// New creates a new Server, wires up all routes and middleware, and returns
// it ready to listen. Call ListenAndServe to start accepting connections.
func New(cfg Config, svc Services, logger *slog.Logger) *Server {
	if svc.Metrics == nil {
		svc.Metrics = metrics.New()
	}
	s := &Server{cfg: cfg, svc: svc, logger: logger}
	s.setupRouter()
	return s
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	// --- Global middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(s.logger, "/health", "/metrics"))
	r.Use(s.svc.Metrics.Instrument)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "WWW-Authenticate"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(chimw.Compress(5))

	baseURL := fmt.Sprintf("http://%s:%d", s.cfg.Host, s.cfg.Port)
	sys := handler.NewSystemHandler(s.svc.DB, openapi.Generate(baseURL, s.cfg.Version), s.logger)
	auth := handler.NewAuthHandler(s.svc.Accounts, s.svc.Tokens, s.logger)
	sweets := handler.NewSweetHandler(s.svc.Catalog, s.logger)

	authenticate := middleware.Authenticate(s.svc.Gate, s.logger)
	requireAdmin := middleware.RequireAdmin(s.svc.Gate)

	// --- Unauthenticated system endpoints ---
	r.Get("/", sys.Root)
	r.Get("/health", sys.Health)
	r.Handle("/metrics", s.svc.Metrics.Handler())

	// --- API routes ---
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/openapi.json", sys.OpenAPI)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", auth.Register)
			r.With(middleware.RateLimit(s.cfg.LoginRateLimit)).Post("/login", auth.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Get("/users/me", auth.Me)

			r.Route("/sweets", func(r chi.Router) {
				r.Get("/", sweets.List)
				r.Get("/search", sweets.Search)
				r.Get("/{id}", sweets.Get)
				r.Post("/{id}/purchase", sweets.Purchase)

				// Catalog management is restricted to administrators
				r.Group(func(r chi.Router) {
					r.Use(requireAdmin)
					r.Post("/", sweets.Create)
					r.Put("/{id}", sweets.Update)
					r.Delete("/{id}", sweets.Delete)
					r.Post("/{id}/restock", sweets.Restock)
				})
			})
		})
	})

	s.router = r
}

// ListenAndServe starts the HTTP server and blocks until ctx is cancelled or
// a SIGINT or SIGTERM is received. It then performs a graceful shutdown,
// draining in-flight requests. Closing the store is left to the caller.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Listen for shutdown signals
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", addr)
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// Router returns the underlying chi router, useful for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ServeHTTP implements http.Handler, delegating to the router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
