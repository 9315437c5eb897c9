// Package server exposes album pages over HTTP.
//
// Documents live in a [store.Store] and are edited through one
// [session.Session] per document, so concurrent requests against the same
// page are serialized. Every write honours an optional If-Match header
// carrying the revision the client last saw; responses carry the new
// revision as ETag.
//
//	GET    /v1/documents
//	POST   /v1/documents
//	GET    /v1/documents/{id}
//	DELETE /v1/documents/{id}
//	PUT    /v1/documents/{id}/title
//	GET    /v1/documents/{id}/layout?width=
//	GET    /v1/documents/{id}/preview.svg?width=&theme=&labels=
//	GET    /v1/documents/{id}/graph.dot
//	GET    /v1/documents/{id}/blocks
//	PUT    /v1/documents/{id}/blocks
//	POST   /v1/documents/{id}/blocks
//	PATCH  /v1/documents/{id}/blocks/{blockID}
//	DELETE /v1/documents/{id}/blocks/{blockID}
//	POST   /v1/documents/{id}/blocks/{blockID}/move
//	POST   /v1/documents/{id}/blocks/{blockID}/assets
//	DELETE /v1/documents/{id}/blocks/{blockID}/assets/{index}
//	PUT    /v1/documents/{id}/blocks/{blockID}/spans/{index}
//	POST   /v1/documents/{id}/assets
//	DELETE /v1/documents/{id}/assets/{assetID}
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/albumstack/pkg/buildinfo"
	"github.com/matzehuels/albumstack/pkg/pipeline"
	"github.com/matzehuels/albumstack/pkg/session"
)

// Config holds listener settings.
type Config struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server serves the album API.
type Server struct {
	sessions *session.Manager
	runner   *pipeline.Runner
	logger   *log.Logger
	router   chi.Router
}

// New creates a server. A nil logger falls back to the default charm logger.
func New(sessions *session.Manager, runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{sessions: sessions, runner: runner, logger: logger}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(middleware.SetHeader("Server", buildinfo.ServerHeader()))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
	})

	r.Route("/v1/documents", func(r chi.Router) {
		r.Get("/", s.listDocuments)
		r.Post("/", s.createDocument)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getDocument)
			r.Delete("/", s.deleteDocument)
			r.Put("/title", s.setTitle)
			r.Get("/layout", s.getLayout)
			r.Get("/preview.svg", s.getPreview)
			r.Get("/graph.dot", s.getGraph)

			r.Get("/blocks", s.exportBlocks)
			r.Put("/blocks", s.importBlocks)
			r.Post("/blocks", s.addBlock)
			r.Route("/blocks/{blockID}", func(r chi.Router) {
				r.Patch("/", s.patchBlock)
				r.Delete("/", s.removeBlock)
				r.Post("/move", s.moveBlock)
				r.Post("/assets", s.attachAsset)
				r.Delete("/assets/{index}", s.detachAsset)
				r.Put("/spans/{index}", s.setSpan)
			})

			r.Post("/assets", s.addAsset)
			r.Delete("/assets/{assetID}", s.removeAsset)
		})
	})
	return r
}

// requestLogger logs one line per request at debug level and failures at
// warn level.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		fields := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Microsecond),
			"request_id", middleware.GetReqID(r.Context()),
		}
		if ww.Status() >= http.StatusInternalServerError {
			s.logger.Warn("request failed", fields...)
			return
		}
		s.logger.Debug("request", fields...)
	})
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, cfg Config) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
