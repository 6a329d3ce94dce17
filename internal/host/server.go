package host

import (
	"bufio"
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	mdwlog "github.com/msto63/dexcomx/foundation/core/log"
	"github.com/msto63/dexcomx/pkg/core/config"
	"github.com/msto63/dexcomx/pkg/core/health"
)

// Config holds server configuration
type Config struct {
	Host           string
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	OwnerToken     string
	AllowedOrigins []string
}

// ConfigFrom extracts the server settings of cfg
func ConfigFrom(cfg config.ServerConfig) Config {
	return Config{
		Host:           cfg.Host,
		Port:           cfg.Port,
		ReadTimeout:    cfg.ReadTimeout.Duration,
		WriteTimeout:   cfg.WriteTimeout.Duration,
		OwnerToken:     cfg.OwnerToken,
		AllowedOrigins: cfg.AllowedOrigins,
	}
}

// Server is the DexComX host
type Server struct {
	httpServer *http.Server
	health     *health.Registry
	logger     *mdwlog.Logger
	config     Config
}

// New wires the routes of the host
func New(cfg Config, service *Service, registry *health.Registry, logger *mdwlog.Logger) *Server {
	if logger == nil {
		logger = mdwlog.GetDefault()
	}
	logger = logger.WithField("component", "host-server")

	mux := http.NewServeMux()
	mux.Handle("/api/v1/script/ws", NewWebSocketHandler(service, cfg.OwnerToken, cfg.AllowedOrigins, logger))
	mux.Handle("/", NewHandler(service, registry, cfg.OwnerToken, logger))

	return &Server{
		httpServer: &http.Server{
			Addr:         net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
			Handler:      loggingMiddleware(logger, mux),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		health: registry,
		logger: logger,
		config: cfg,
	}
}

// Handler returns the root handler, e.g. for httptest
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func loggingMiddleware(logger *mdwlog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		logger.Debug("HTTP request", mdwlog.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   wrapper.statusCode,
			"duration": time.Since(start).String(),
		})
	})
}

// responseWrapper captures the status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWrapper) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

// Hijack hands the connection to the WebSocket upgrader
func (w *responseWrapper) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	w.statusCode = http.StatusSwitchingProtocols
	return hj.Hijack()
}

// Unwrap exposes the wrapped writer to http.ResponseController
func (w *responseWrapper) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// Start serves until the server is stopped
func (s *Server) Start() error {
	s.logger.Info("Starting DexComX host", mdwlog.Fields{"address": s.Address()})
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully stops the server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping DexComX host")
	return s.httpServer.Shutdown(ctx)
}

// Address returns the listen address
func (s *Server) Address() string {
	return s.httpServer.Addr
}

// HealthRegistry returns the health check registry
func (s *Server) HealthRegistry() *health.Registry {
	return s.health
}
