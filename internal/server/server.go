// Package server exposes the file analyzer over HTTP
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/toyz/ngcc/internal/annotations"
	"github.com/toyz/ngcc/internal/errors"
	"github.com/toyz/ngcc/internal/host"
	"github.com/toyz/ngcc/internal/utils"
)

// Config holds configuration for the compile server
type Config struct {
	// Addr is the address to listen on (default: ":8080")
	Addr string

	// CoreVersion is the @angular/core version compiled for when a request names none
	CoreVersion string

	// EnableLogger enables request logging middleware
	EnableLogger bool

	// EnableRecover enables panic recovery middleware
	EnableRecover bool

	// EnableCORS enables CORS middleware
	EnableCORS bool

	// ShutdownTimeout bounds graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration

	// MaxSourceBytes limits the size of a submitted source file. Request
	// bodies are capped at twice this size plus room for the JSON envelope.
	MaxSourceBytes int
}

// bodyOverheadBytes covers the JSON envelope around the source
const bodyOverheadBytes = 64 << 10

func (c Config) maxBodyBytes() int {
	return 2*c.MaxSourceBytes + bodyOverheadBytes
}

// DefaultConfig returns a server configuration with sensible defaults
func DefaultConfig() Config {
	return Config{
		Addr:            ":8080",
		CoreVersion:     "9.0.0",
		EnableLogger:    true,
		EnableRecover:   true,
		EnableCORS:      true,
		ShutdownTimeout: 30 * time.Second,
		MaxSourceBytes:  1 << 20,
	}
}

// Server wraps an Echo instance serving the compile endpoints
type Server struct {
	echo        *echo.Echo
	config      Config
	host        host.ReflectionHost
	target      annotations.Target
	diagnostics *utils.DiagnosticSystem
}

// New creates a server. The default target is resolved once; requests may
// still ask for another core version.
func New(config Config, diagnostics *utils.DiagnosticSystem) (*Server, error) {
	defaults := DefaultConfig()
	if config.Addr == "" {
		config.Addr = defaults.Addr
	}
	if config.CoreVersion == "" {
		config.CoreVersion = defaults.CoreVersion
	}
	if config.ShutdownTimeout == 0 {
		config.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if config.MaxSourceBytes == 0 {
		config.MaxSourceBytes = defaults.MaxSourceBytes
	}
	if diagnostics == nil {
		diagnostics = utils.NewQuietDiagnostics()
	}

	target, err := annotations.NewTarget(config.CoreVersion)
	if err != nil {
		return nil, errors.WrapConfigurationError("coreVersion", "resolve", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	if config.EnableRecover {
		e.Use(middleware.Recover())
	}
	e.Use(middleware.BodyLimit(fmt.Sprintf("%dB", config.maxBodyBytes())))
	if config.EnableLogger {
		e.Use(middleware.Logger())
	}
	if config.EnableCORS {
		e.Use(middleware.CORS())
	}

	s := &Server{
		echo:        e,
		config:      config,
		host:        host.NewReflectionHost(),
		target:      target,
		diagnostics: diagnostics,
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.echo.GET("/health", s.health)
	s.echo.POST("/compile", s.compile)
}

// Echo returns the underlying Echo instance
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Start serves until ctx is done, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	serveErr := make(chan error, 1)
	go func() {
		s.diagnostics.Info("Listening on %s", s.config.Addr)
		serveErr <- s.echo.Start(s.config.Addr)
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed to start: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.diagnostics.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	s.diagnostics.Success("Server shutdown complete")
	return nil
}
