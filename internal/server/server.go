// Package server exposes the merge service over HTTP.
package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ukaji3/exmerge-go/internal/logger"
	"github.com/ukaji3/exmerge-go/internal/metrics"
	"github.com/ukaji3/exmerge-go/pkg/exmerge"
)

// DefaultMaxUploadBytes bounds a whole request body.
const DefaultMaxUploadBytes int64 = 50 * 1024 * 1024

// multipartMemory is the part of a multipart form kept in memory; the rest spills to disk.
const multipartMemory = 32 << 20

// Options wires the collaborators of a Server.
type Options struct {
	Service        *exmerge.Service
	Logger         logger.Logger
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer
	MaxUploadBytes int64
}

// Server routes HTTP requests to the merge service.
type Server struct {
	svc       *exmerge.Service
	log       logger.Logger
	metrics   *metrics.Metrics
	gatherer  prometheus.Gatherer
	maxUpload int64
}

// New creates a Server. Service is required.
func New(o Options) (*Server, error) {
	if o.Service == nil {
		return nil, errors.New("server: service is required")
	}
	s := &Server{
		svc:       o.Service,
		log:       o.Logger,
		metrics:   o.Metrics,
		gatherer:  o.Gatherer,
		maxUpload: o.MaxUploadBytes,
	}
	if s.log == nil {
		s.log = logger.NewNoOpLogger()
	}
	if s.metrics == nil {
		s.metrics = metrics.New(prometheus.NewRegistry())
	}
	if s.gatherer == nil {
		s.gatherer = prometheus.NewRegistry()
	}
	if s.maxUpload <= 0 {
		s.maxUpload = DefaultMaxUploadBytes
	}
	return s, nil
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.accessLog)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Post("/upload-template", s.handleUploadTemplate)
	r.Post("/delete-template", s.handleDeleteTemplate)
	r.Get("/template", s.handleTemplate)
	r.Post("/merge", s.handleMerge)

	return r
}

// accessLog writes one structured line per request.
func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.log.Info("request", map[string]interface{}{
			"requestId": middleware.GetReqID(r.Context()),
			"method":    r.Method,
			"path":      r.URL.Path,
			"status":    status,
			"bytes":     ww.BytesWritten(),
			"duration":  time.Since(start).String(),
		})
	})
}
