// internal/gateway/server/server.go
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"crm-ai-gateway/internal/common/config"
	apperrors "crm-ai-gateway/internal/common/errors"
	"crm-ai-gateway/internal/common/logger"
	"crm-ai-gateway/internal/gateway"
	"crm-ai-gateway/pkg/registry"
)

const requestIDHeader = "X-Request-ID"

// Options wires the transport to the bound skills.
type Options struct {
	Config    config.ServerConfig
	Version   string
	Provider  string
	Live      bool
	Endpoints []gateway.Endpoint
	Logger    logger.Logger
	// Ready is consulted by /ready. Nil means always ready.
	Ready func(ctx context.Context) error
}

type Server struct {
	opts     Options
	log      logger.Logger
	catalog  *gateway.Catalog
	byName   map[string]gateway.Endpoint
	registry registry.SkillRegistry
	router   chi.Router
	http     *http.Server
}

func New(opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	s := &Server{
		opts:    opts,
		log:     log,
		catalog: gateway.NewCatalog(opts.Endpoints),
		byName:  make(map[string]gateway.Endpoint, len(opts.Endpoints)),
	}

	s.registry = registry.SkillRegistry{
		Version:     opts.Version,
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
	}
	for _, ep := range opts.Endpoints {
		s.byName[ep.Name()] = ep
		s.registry.Skills = append(s.registry.Skills, ep.Describe())
	}
	s.registry.Sort()

	s.router = s.routes()
	s.http = &http.Server{
		Addr:         opts.Config.Addr(),
		Handler:      s.router,
		ReadTimeout:  config.GetDuration(opts.Config.ReadTimeout),
		WriteTimeout: config.GetDuration(opts.Config.WriteTimeout),
	}
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Start blocks until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.log.Info("http server listening", map[string]interface{}{
		"addr":   s.http.Addr,
		"skills": len(s.opts.Endpoints),
	})
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(s.requestID)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	origins := s.opts.Config.CORS.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Get("/api/ai/skills", s.handleRegistry)
	r.Get("/api/ai/skills/{skill}/fallback", s.handleFallback)

	for _, ep := range s.opts.Endpoints {
		if !ep.Enabled() {
			s.log.Info("skill disabled", map[string]interface{}{"skill": ep.Name()})
			continue
		}
		r.Post(ep.Path(), s.handleSkill(ep))
	}

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		stdErr := apperrors.NewSkillNotFoundError(req.URL.Path)
		writeJSON(w, http.StatusNotFound, map[string]interface{}{
			"error":     stdErr.Message,
			"errorType": apperrors.ErrorTypeGeneric,
		})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]interface{}{
			"error":     "Method not allowed",
			"errorType": apperrors.ErrorTypeGeneric,
		})
	})

	return r
}

func (s *Server) handleSkill(ep gateway.Endpoint) http.HandlerFunc {
	limit := s.opts.Config.MaxBodyBytes
	return func(w http.ResponseWriter, r *http.Request) {
		body := io.Reader(r.Body)
		if limit > 0 {
			body = http.MaxBytesReader(w, r.Body, limit)
		}
		data, err := io.ReadAll(body)
		if err != nil {
			s.rejectBody(w, r, ep, err)
			return
		}

		ctx := logger.IntoContext(r.Context(), logger.FromContext(r.Context(), s.log).With(map[string]interface{}{
			"skill":  ep.Name(),
			"domain": ep.Domain(),
		}))
		resp := ep.Handle(ctx, data)
		writeRaw(w, resp.Status, resp.Body)
	}
}

// rejectBody answers an unreadable or oversized body with the skill's
// fallback so callers always receive a usable payload.
func (s *Server) rejectBody(w http.ResponseWriter, r *http.Request, ep gateway.Endpoint, err error) {
	status := http.StatusBadRequest
	msg := "Request body could not be read"
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		status = http.StatusRequestEntityTooLarge
		msg = "Request body too large"
	}
	logger.FromContext(r.Context(), s.log).Warn("rejected request body", map[string]interface{}{
		"skill": ep.Name(),
		"error": err.Error(),
	})

	var payload map[string]interface{}
	if raw, ok := s.catalog.Envelope(ep.Name()); ok {
		_ = json.Unmarshal(raw, &payload)
	}
	if payload == nil {
		payload = map[string]interface{}{"usingFallback": true}
	}
	payload["error"] = msg
	payload["errorType"] = apperrors.ErrorTypeGeneric
	writeJSON(w, status, payload)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "healthy",
		"time":     time.Now().Format(time.RFC3339),
		"version":  s.opts.Version,
		"provider": s.opts.Provider,
		"live":     s.opts.Live,
		"skills":   s.catalog.Len(),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.opts.Ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.opts.Ready(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
				"status": "unavailable",
				"error":  err.Error(),
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ready",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleRegistry(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.registry)
}

func (s *Server) handleFallback(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "skill")
	raw, ok := s.catalog.Envelope(name)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{
			"error":     apperrors.NewSkillNotFoundError(r.URL.Path).Message,
			"errorType": apperrors.ErrorTypeGeneric,
		})
		return
	}
	writeRaw(w, http.StatusOK, raw)
}

func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := logger.IntoContext(r.Context(), s.log.With(map[string]interface{}{"requestId": id}))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logger.FromContext(r.Context(), s.log).Info("request completed", map[string]interface{}{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"bytes":      ww.BytesWritten(),
			"durationMs": time.Since(start).Milliseconds(),
		})
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		data = []byte(`{"error":"Internal error","errorType":"generic"}`)
	}
	writeRaw(w, status, data)
}

func writeRaw(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
