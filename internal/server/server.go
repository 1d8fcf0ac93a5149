// Package server exposes the platform webhook endpoints and the thin settings
// admin surface. All purge decisions live in the purge and notify packages;
// handlers here only translate HTTP to dispatched events.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mediaops/media-purge-go/events"
	"github.com/mediaops/media-purge-go/settings"
)

type ctxKey string

const requestIDKey ctxKey = "request_id"

// Server routes webhook and admin traffic.
type Server struct {
	dispatcher *events.Dispatcher
	store      settings.Store
	logger     *zap.Logger
}

// New creates a Server.
func New(dispatcher *events.Dispatcher, store settings.Store, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		dispatcher: dispatcher,
		store:      store,
		logger:     logger,
	}
}

// Router builds the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/hooks", func(r chi.Router) {
		r.Post("/post-meta", s.handlePostMeta)
		r.Post("/attachment-metadata", s.handleAttachmentMetadata)
	})

	r.Route("/admin/settings", func(r chi.Router) {
		r.Get("/", s.handleGetSettings)
		r.Put("/", s.handlePutSettings)
		r.Delete("/", s.handleDeleteSettings)
	})

	return r
}

func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(withRequestID(r.Context(), requestID)))
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request handled",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", requestIDFrom(r.Context())),
			zap.Duration("elapsed", time.Since(started)),
		)
	})
}
