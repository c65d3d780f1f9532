// internal/server/server.go
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vehicle-recommender/internal/common/config"
	commonerrors "vehicle-recommender/internal/common/errors"
	"vehicle-recommender/internal/common/logger"
	"vehicle-recommender/internal/pipeline"
)

// Server exposes the recommendation pipeline over HTTP.
type Server struct {
	config   *config.Config
	pipeline *pipeline.Pipeline
	results  *pipeline.ResultStore
	logger   logger.Logger
	http     *http.Server
}

// New builds the server and its router. results may be nil; the lookup
// endpoint then answers 404 for every id.
func New(cfg *config.Config, p *pipeline.Pipeline, results *pipeline.ResultStore, log logger.Logger) *Server {
	s := &Server{
		config:   cfg,
		pipeline: p,
		results:  results,
		logger:   log.WithFields(map[string]interface{}{"component": "server"}),
	}

	s.http = &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      s.routes(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Millisecond,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/recommendations", s.handleRecommend)
		r.Get("/recommendations/{requestID}", s.handleGetResult)
	})

	return r
}

// Start blocks until the listener fails or Stop is called.
func (s *Server) Start() error {
	s.logger.Info("http server listening", map[string]interface{}{
		"address": s.config.Server.Address,
	})
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop drains in-flight requests within the configured shutdown window.
func (s *Server) Stop(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": s.config.App.Name,
		"version": s.config.App.Version,
	})
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req pipeline.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "text is required",
		})
		return
	}

	resp, err := s.pipeline.Recommend(r.Context(), &req)
	if err != nil {
		s.logger.WithError(err).Error("recommendation failed", map[string]interface{}{
			"requestId": req.RequestID,
		})
		status := http.StatusInternalServerError
		body := map[string]interface{}{"error": "recommendation failed"}
		var stdErr *commonerrors.StandardError
		if errors.As(err, &stdErr) {
			body["code"] = string(stdErr.Code)
			body["retryable"] = stdErr.Retryable
			if stdErr.Retryable {
				status = http.StatusServiceUnavailable
			}
		}
		writeJSON(w, status, body)
		return
	}

	status := http.StatusOK
	if !resp.Refined {
		// Give the background rerank a short first-response window; when it
		// beats the deadline the caller gets the refined ranking directly.
		if refined := s.awaitRefine(r.Context(), resp); refined != nil {
			writeJSON(w, http.StatusOK, refined)
			return
		}
		// The refined ranking arrives under the same request id later.
		status = http.StatusAccepted
	}
	writeJSON(w, status, resp)
}

// awaitRefine waits up to the configured oracle first timeout for the
// background rerank to land in the result store. Returns nil when the
// window elapses, so the caller falls back to the 202 reply.
func (s *Server) awaitRefine(ctx context.Context, resp *pipeline.Response) *pipeline.Response {
	window := time.Duration(s.config.Oracle.FirstTimeout) * time.Millisecond
	if window <= 0 || resp.RefineDone == nil || s.results == nil {
		return nil
	}

	timer := time.NewTimer(window)
	defer timer.Stop()

	select {
	case <-resp.RefineDone:
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return nil
	}

	refined, err := s.results.Load(ctx, resp.RequestID)
	if err != nil || !refined.Refined {
		return nil
	}
	return refined
}

func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "requestID")
	if s.results == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "result not found"})
		return
	}

	resp, err := s.results.Load(r.Context(), requestID)
	if errors.Is(err, pipeline.ErrResultNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "result not found"})
		return
	}
	if err != nil {
		s.logger.WithError(err).Error("result lookup failed", map[string]interface{}{
			"requestId": requestID,
		})
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "result lookup failed"})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
