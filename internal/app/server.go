// Package app assembles and serves the inkpost backend.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/inkpost/inkpost/internal/api/rest"
	"github.com/inkpost/inkpost/internal/auth/token"
	"github.com/inkpost/inkpost/internal/observability/audit"
	"github.com/inkpost/inkpost/internal/platform/config"
	"github.com/inkpost/inkpost/internal/storage/sqlite"
)

type serverEnv struct {
	DBPath      string        `env:"INKPOST_DB_PATH" envDefault:"data/inkpost.db"`
	TokenSecret string        `env:"INKPOST_TOKEN_SECRET"`
	TokenIssuer string        `env:"INKPOST_TOKEN_ISSUER"`
	TokenTTL    time.Duration `env:"INKPOST_TOKEN_TTL" envDefault:"60m"`
}

// Server hosts the HTTP API and a gRPC health endpoint.
type Server struct {
	httpListener   net.Listener
	httpServer     *http.Server
	healthListener net.Listener
	grpcServer     *grpc.Server
	health         *health.Server
	store          *sqlite.Store
}

// New creates a configured server listening on the provided ports.
// Port zero picks a free port, which tests rely on.
func New(port, healthPort int) (*Server, error) {
	var envCfg serverEnv
	if err := config.ParseEnv(&envCfg); err != nil {
		return nil, err
	}
	if strings.TrimSpace(envCfg.TokenSecret) == "" {
		return nil, fmt.Errorf("INKPOST_TOKEN_SECRET is required")
	}

	store, err := openStore(envCfg.DBPath)
	if err != nil {
		return nil, err
	}

	tokens, err := token.New(token.Config{
		Secret: []byte(envCfg.TokenSecret),
		Issuer: envCfg.TokenIssuer,
		TTL:    envCfg.TokenTTL,
	})
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	apiServer, err := rest.New(rest.Config{
		Users:  store,
		Posts:  store,
		Tokens: tokens,
		Audit:  audit.NewEmitter(store),
	})
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	httpListener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("listen on port %d: %w", port, err)
	}
	httpServer := &http.Server{Handler: apiServer.Handler()}

	healthListener, err := net.Listen("tcp", fmt.Sprintf(":%d", healthPort))
	if err != nil {
		_ = httpListener.Close()
		_ = store.Close()
		return nil, fmt.Errorf("listen on health port %d: %w", healthPort, err)
	}
	grpcServer := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)

	return &Server{
		httpListener:   httpListener,
		httpServer:     httpServer,
		healthListener: healthListener,
		grpcServer:     grpcServer,
		health:         healthServer,
		store:          store,
	}, nil
}

// Addr returns the HTTP listener address.
func (s *Server) Addr() string {
	if s == nil || s.httpListener == nil {
		return ""
	}
	return s.httpListener.Addr().String()
}

// HealthAddr returns the gRPC health listener address.
func (s *Server) HealthAddr() string {
	if s == nil || s.healthListener == nil {
		return ""
	}
	return s.healthListener.Addr().String()
}

// Run creates and serves a server until the context ends.
func Run(ctx context.Context, port, healthPort int) error {
	server, err := New(port, healthPort)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// Serve starts the server and blocks until it stops or the context ends.
func (s *Server) Serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.closeStore()

	log.Printf("server listening at %v", s.httpListener.Addr())
	httpErr := make(chan error, 1)
	go func() {
		httpErr <- s.httpServer.Serve(s.httpListener)
	}()

	log.Printf("health server listening at %v", s.healthListener.Addr())
	grpcErr := make(chan error, 1)
	go func() {
		grpcErr <- s.grpcServer.Serve(s.healthListener)
	}()

	handleHTTPErr := func(err error) error {
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve HTTP: %w", err)
	}
	shutdownHTTP := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = s.httpServer.Shutdown(shutdownCtx)
	}
	shutdownGRPC := func() {
		if s.health != nil {
			s.health.Shutdown()
		}
		s.grpcServer.GracefulStop()
	}

	select {
	case <-ctx.Done():
		shutdownHTTP()
		shutdownGRPC()
		return handleHTTPErr(<-httpErr)
	case err := <-httpErr:
		shutdownGRPC()
		return handleHTTPErr(err)
	case err := <-grpcErr:
		shutdownHTTP()
		if handled := handleHTTPErr(<-httpErr); handled != nil {
			return handled
		}
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve health gRPC: %w", err)
	}
}

func (s *Server) closeStore() {
	if s == nil || s.store == nil {
		return
	}
	if err := s.store.Close(); err != nil {
		log.Printf("close store: %v", err)
	}
}

func openStore(path string) (*sqlite.Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = filepath.Join("data", "inkpost.db")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := sqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	return store, nil
}
