package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/emberhost/skirmish/internal/damage"
	"github.com/emberhost/skirmish/internal/event"
	"github.com/emberhost/skirmish/internal/logger"
	"github.com/emberhost/skirmish/internal/metrics"
	"github.com/emberhost/skirmish/internal/peer"
)

type Server struct {
	httpServer *http.Server
	hub        *peer.Hub
}

// NewServer builds the HTTP surface: health, version, metrics, the host
// engine's hit and equipment endpoints, and the websocket attach point
// for peers.
func NewServer(port int, hub *peer.Hub, resolver *damage.HitResolver, bus event.Bus) *Server {
	r := chi.NewRouter()

	r.Use(loggingMiddleware)
	r.Use(metrics.Middleware)

	r.Get("/healthz", HandleHealthz())
	r.Get("/version", HandleVersion())
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/engine", func(r chi.Router) {
		r.Post("/hit", HandleResolveHit(resolver))
		r.Post("/equipment", HandleEquipmentChanged(bus))
	})

	r.Get("/ws", func(w http.ResponseWriter, req *http.Request) {
		peer.ServeWS(req.Context(), hub, w, req)
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		hub: hub,
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Skip logging for health checks, metrics scrapes, and the websocket
		// upgrade path. The upgrade hijacks the connection, so it must not go
		// through the status-capturing wrapper.
		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") ||
			strings.HasPrefix(r.URL.Path, "/ws") {
			next.ServeHTTP(w, r)
			return
		}

		requestID := logger.GenerateRequestID()
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		log := logger.FromContext(ctx)

		log.Info("Request started",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent())

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds())
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info("Server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
