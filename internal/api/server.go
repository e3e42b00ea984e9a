// Package api provides the HTTP API server and handlers for the MyLib application.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mylibapp/mylib-server/internal/ratelimit"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	services        *Services
	router          *chi.Mux
	api             huma.API
	logger          *slog.Logger
	authRateLimiter *ratelimit.KeyedLimiter
}

// NewServer creates a new HTTP server with all routes configured.
// frontendOrigin is the origin allowed by the CORS middleware.
func NewServer(services *Services, frontendOrigin string, logger *slog.Logger) *Server {
	s := &Server{
		services:        services,
		router:          chi.NewRouter(),
		logger:          logger,
		authRateLimiter: NewAuthRateLimiter(),
	}

	s.setupMiddleware(frontendOrigin)

	humaConfig := huma.DefaultConfig("MyLib API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerAuthorRoutes()
	s.registerBookRoutes()
	s.registerGenreRoutes()
	s.registerCollectionRoutes()
	s.registerReviewRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close releases server resources.
func (s *Server) Close() {
	s.authRateLimiter.Stop()
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware(frontendOrigin string) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{frontendOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	s.router.Use(s.rateLimitAuthEndpoints)
}

// === Health ===

type healthOutput struct {
	Body struct {
		Status string `json:"status" doc:"Server health status"`
	}
}

func (s *Server) registerHealthRoutes() {
	huma.Get(s.api, "/health", func(_ context.Context, _ *struct{}) (*healthOutput, error) {
		out := &healthOutput{}
		out.Body.Status = "healthy"
		return out, nil
	})
}

// NewAuthRateLimiter returns the limiter applied to /auth endpoints: 20
// requests per minute per client IP with a burst of 10.
func NewAuthRateLimiter() *ratelimit.KeyedLimiter {
	return ratelimit.New(20.0/time.Minute.Seconds(), 10)
}
