// Package api implements the HTTP surface of the record keeper: CRUD for
// people and relationships, the combined family-tree read, and the cached
// layout endpoint. All request and response bodies are JSON.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/kintree/kintree/pkg/pipeline"
	"github.com/kintree/kintree/pkg/store"
)

// Server bundles the record store, the visualization pipeline and a logger
// behind the HTTP routes.
type Server struct {
	store  store.Store
	runner *pipeline.Runner
	logger *log.Logger
}

// NewServer creates a server. If runner is nil, an uncached runner is used;
// if logger is nil, the default logger is used.
func NewServer(st store.Store, runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	return &Server{
		store:  st,
		runner: runner,
		logger: logger,
	}
}

// Router builds the chi router with all routes and middleware.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(s.requestLogger)
	r.Use(s.recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Route("/people", func(r chi.Router) {
			r.Get("/", s.handleListPeople)
			r.Post("/", s.handleCreatePerson)
			r.Get("/{id}", s.handleGetPerson)
			r.Put("/{id}", s.handleReplacePerson)
			r.Delete("/{id}", s.handleDeletePerson)
		})

		r.Route("/relationships", func(r chi.Router) {
			r.Get("/", s.handleListRelationships)
			r.Post("/", s.handleCreateRelationship)
			r.Delete("/{id}", s.handleDeleteRelationship)
		})

		r.Route("/familytree", func(r chi.Router) {
			r.Get("/", s.handleFamilyTree)
			r.Get("/layout", s.handleFamilyTreeLayout)
		})
	})

	return r
}

// Serve runs the HTTP server until ctx is canceled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
