package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/kbukum/cryptlib/logger"
	"github.com/kbukum/cryptlib/observability"
	"github.com/kbukum/cryptlib/server/endpoint"
	"github.com/kbukum/cryptlib/server/middleware"
)

// Server is the HTTP host for the encryption API, backed by Gin. Without TLS
// it serves HTTP/1.1 and h2c on one port; with TLS it serves HTTPS with
// HTTP/2 negotiated over ALPN.
type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	handler    http.Handler
	config     Config
	log        *logger.Logger
}

// Option configures a Server.
type Option func(*options)

type options struct {
	serviceName string
	metrics     *observability.CryptoMetrics
}

// WithServiceName sets the name reported in spans and health (default: "cryptlib").
func WithServiceName(name string) Option {
	return func(o *options) { o.serviceName = name }
}

// WithMetrics records request metrics to m.
func WithMetrics(m *observability.CryptoMetrics) Option {
	return func(o *options) { o.metrics = m }
}

// New creates a Server with the standard middleware stack applied. Routes
// are added with GinEngine or RegisterDefaultEndpoints.
func New(cfg Config, log *logger.Logger, opts ...Option) *Server {
	o := &options{serviceName: "cryptlib"}
	for _, opt := range opts {
		opt(o)
	}
	if log == nil {
		log = logger.Nop()
	}
	log = log.WithComponent("server")

	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.HandleMethodNotAllowed = true

	handler := middleware.Chain(
		middleware.Recovery(log),
		middleware.RequestID(),
		middleware.Tracing(o.serviceName, o.metrics),
		middleware.CORS(&cfg.CORS),
		middleware.BodySizeLimit(cfg.MaxBodySize),
		middleware.RateLimit(cfg.RateLimit),
		middleware.RequestLogger(log),
		middleware.ConcurrencyLimit(cfg.Concurrency, log),
	)(engine)

	h2s := &http2.Server{
		MaxConcurrentStreams: 250,
		IdleTimeout:          120 * time.Second,
	}

	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.Addr(),
			Handler:      h2c.NewHandler(handler, h2s),
			ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
			WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
			IdleTimeout:  time.Duration(cfg.IdleTimeout) * time.Second,
		},
		engine:  engine,
		handler: handler,
		config:  cfg,
		log:     log,
	}
}

// GinEngine returns the underlying Gin engine for route registration.
func (s *Server) GinEngine() *gin.Engine {
	return s.engine
}

// Handler returns the engine wrapped in the middleware stack, without h2c.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// RegisterDefaultEndpoints registers /health and /version.
func (s *Server) RegisterDefaultEndpoints(serviceName, envelope, kdf string, checkers ...observability.HealthChecker) {
	s.engine.GET("/health", endpoint.Health(serviceName, checkers...))
	s.engine.GET("/version", endpoint.Version(envelope, kdf))
}

// Start binds the port and begins serving. It returns once the listener is
// bound; serving continues in a goroutine. Certificate errors are returned
// before the port is bound.
func (s *Server) Start(ctx context.Context) error {
	tlsConfig, err := s.config.TLS.Build()
	if err != nil {
		return fmt.Errorf("server TLS setup failed: %w", err)
	}

	s.log.Info("Starting HTTP server", map[string]interface{}{
		"addr": s.httpServer.Addr,
		"tls":  tlsConfig != nil,
	})

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("server failed to bind %s: %w", s.httpServer.Addr, err)
	}
	s.httpServer.Addr = listener.Addr().String()

	serve := s.httpServer.Serve
	if tlsConfig != nil {
		s.httpServer.TLSConfig = tlsConfig
		serve = func(l net.Listener) error { return s.httpServer.ServeTLS(l, "", "") }
	}

	go func() {
		if err := serve(listener); err != nil && err != http.ErrServerClosed {
			s.log.Error("Server error", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	s.log.Info("HTTP server started", map[string]interface{}{
		"addr": s.httpServer.Addr,
	})
	return nil
}

// Stop gracefully shuts down the server with a 5-second deadline.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.log.Error("Server shutdown error", map[string]interface{}{
			"error": err.Error(),
		})
		return fmt.Errorf("server shutdown error: %w", err)
	}

	s.log.Info("HTTP server shut down successfully")
	return nil
}

// Addr returns the listen address. After Start it is the bound address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}
