// Package rest serves the JSON HTTP API for users, login, and posts.
package rest

import (
	"fmt"
	"net/http"
	"time"

	"github.com/inkpost/inkpost/internal/auth/token"
	"github.com/inkpost/inkpost/internal/observability/audit"
	"github.com/inkpost/inkpost/internal/platform/httpx"
	"github.com/inkpost/inkpost/internal/storage"
)

// Config bundles the dependencies of the API server.
type Config struct {
	Users  storage.UserStore
	Posts  storage.PostStore
	Tokens *token.Service
	// Audit may be nil; events are then dropped.
	Audit *audit.Emitter
	// Now supplies the clock for created_at stamps. Defaults to time.Now.
	Now func() time.Time
}

// Server handles the HTTP API surface.
type Server struct {
	users  storage.UserStore
	posts  storage.PostStore
	tokens *token.Service
	audit  *audit.Emitter
	now    func() time.Time
}

// New creates an API server from the provided config.
func New(cfg Config) (*Server, error) {
	if cfg.Users == nil {
		return nil, fmt.Errorf("user store is required")
	}
	if cfg.Posts == nil {
		return nil, fmt.Errorf("post store is required")
	}
	if cfg.Tokens == nil {
		return nil, fmt.Errorf("token service is required")
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Server{
		users:  cfg.Users,
		posts:  cfg.Posts,
		tokens: cfg.Tokens,
		audit:  cfg.Audit,
		now:    now,
	}, nil
}

// Handler returns the routed API handler wrapped with the shared middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc(http.MethodGet+" /{$}", s.handleRoot)
	mux.HandleFunc(http.MethodPost+" /users", s.handleCreateUser)
	mux.HandleFunc(http.MethodGet+" /users/{id}", s.handleGetUser)
	mux.HandleFunc(http.MethodPost+" /login", s.handleLogin)

	mux.Handle(http.MethodGet+" /posts", s.requireAuth(http.HandlerFunc(s.handleListPosts)))
	mux.Handle(http.MethodPost+" /posts", s.requireAuth(http.HandlerFunc(s.handleCreatePost)))
	mux.Handle(http.MethodGet+" /posts/{id}", s.requireAuth(http.HandlerFunc(s.handleGetPost)))
	mux.Handle(http.MethodPut+" /posts/{id}", s.requireAuth(http.HandlerFunc(s.handleUpdatePost)))
	mux.Handle(http.MethodDelete+" /posts/{id}", s.requireAuth(http.HandlerFunc(s.handleDeletePost)))

	return httpx.Chain(mux,
		httpx.RequestID(),
		httpx.RecoverPanic(),
		s.auditRequests(),
	)
}
