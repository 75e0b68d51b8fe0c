package httpadapter

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"healthboard/internal/metrics"
	"healthboard/internal/ports"
)

const apiVersion = "1.0.0"

// Server maps HTTP verbs onto the customer, scoring and dashboard ports.
// It holds no business logic.
type Server struct {
	customers ports.CustomerDirectory
	scorer    ports.Scorer
	dashboard ports.DashboardReader
	ready     func(ctx context.Context) error
	env       string
	logger    *slog.Logger
}

func New(customers ports.CustomerDirectory, scorer ports.Scorer, dashboard ports.DashboardReader, ready func(ctx context.Context) error, env string, logger *slog.Logger) *Server {
	return &Server{
		customers: customers,
		scorer:    scorer,
		dashboard: dashboard,
		ready:     ready,
		env:       env,
		logger:    logger,
	}
}

// Routes returns the chi router for the full API surface.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(countRequests)
	r.Use(middleware.Recoverer)

	r.Get("/api/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/customers", func(r chi.Router) {
		r.Get("/", s.handleListCustomers)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/health", s.handleCustomerHealth)
			r.Get("/health-data/{component}", s.handleComponentData)
			r.Post("/events", s.handleRecordEvent)
		})
	})

	r.Route("/api/dashboard", func(r chi.Router) {
		r.Get("/stats", s.handleDashboardStats)
		r.Get("/trends", s.handleHealthTrends)
		r.Get("/usage-trends", s.handleUsageTrends)
	})

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, req, http.StatusNotFound, "Not Found",
			fmt.Sprintf("Route %s not found", req.URL.Path))
	})
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(r.Method, route, fmt.Sprintf("%d", ww.Status())).Inc()
	})
}

// handleHealth is the liveness/readiness probe. The process is alive once
// this responds; the database field reports ready or initializing so a
// connection-not-ready state surfaces as retryable rather than fatal.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbState := "ready"
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.ready(ctx); err != nil {
		dbState = "initializing"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "healthy",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"version":     apiVersion,
		"environment": s.env,
		"database":    dbState,
	})
}
