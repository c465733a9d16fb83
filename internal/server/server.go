// Package server exposes a session over a small JSON API.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/jorge-barreto/narrate/internal/autosave"
	"github.com/jorge-barreto/narrate/internal/brief"
	"github.com/jorge-barreto/narrate/internal/catalog"
	"github.com/jorge-barreto/narrate/internal/outline"
	"github.com/jorge-barreto/narrate/internal/pipeline"
	"github.com/jorge-barreto/narrate/internal/prompts"
	"github.com/jorge-barreto/narrate/internal/storage"
)

// maxBody bounds request bodies, template imports included.
const maxBody = 1 << 20

var errBadRequest = errors.New("bad request")

// Options wires a Server. Drafts and SaveTemplates may be nil.
type Options struct {
	Orchestrator *pipeline.Orchestrator
	Templates    *prompts.Store
	Catalog      catalog.Catalog
	Drafts       *autosave.Saver
	// SaveTemplates persists template overrides after every change.
	SaveTemplates func(*prompts.Store) error
	Logger        logrus.FieldLogger
}

// Server routes API requests to the orchestrator and template store.
type Server struct {
	orch          *pipeline.Orchestrator
	templates     *prompts.Store
	catalog       catalog.Catalog
	drafts        *autosave.Saver
	saveTemplates func(*prompts.Store) error
	log           logrus.FieldLogger
	router        *chi.Mux
}

// New builds the router.
func New(opts Options) *Server {
	s := &Server{
		orch:          opts.Orchestrator,
		templates:     opts.Templates,
		catalog:       opts.Catalog,
		drafts:        opts.Drafts,
		saveTemplates: opts.SaveTemplates,
		log:           opts.Logger,
		router:        chi.NewRouter(),
	}
	if s.catalog == nil {
		s.catalog = catalog.Empty
	}
	if s.log == nil {
		s.log = logrus.StandardLogger()
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(s.logRequests)
	s.router.Use(middleware.Recoverer)
}

func (s *Server) setupRoutes() {
	r := s.router
	r.Get("/api/session", s.handleSession)
	r.Post("/api/session", s.handleNewSession)
	r.Put("/api/session/fields/{field}", s.handleSetField)
	r.Post("/api/session/anchors", s.handleAddAnchor)
	r.Delete("/api/session/anchors/{index}", s.handleRemoveAnchor)
	r.Post("/api/session/headlines", s.handleAddHeadline)
	r.Put("/api/session/headlines/selected", s.handleSelectHeadline)
	r.Post("/api/session/advance", s.handleAdvance)
	r.Post("/api/session/retreat", s.handleRetreat)
	r.Post("/api/session/back-to-outline", s.handleBackToOutline)
	r.Post("/api/session/regenerate/{target}", s.handleRegenerate)

	r.Route("/api/outline/sections", func(r chi.Router) {
		r.Get("/", s.handleSections)
		r.Post("/", s.handleInsertSection)
		r.Put("/{id}", s.handleReplaceSection)
		r.Patch("/{id}", s.handleUpdateSection)
		r.Delete("/{id}", s.handleRemoveSection)
		r.Post("/{id}/up", s.handleMoveSection(true))
		r.Post("/{id}/down", s.handleMoveSection(false))
	})

	r.Get("/api/templates", s.handleTemplates)
	r.Get("/api/templates/export", s.handleExportTemplates)
	r.Post("/api/templates/import", s.handleImportTemplates)
	r.Patch("/api/templates/{category}", s.handleUpdateTemplate)
	r.Delete("/api/templates/{category}", s.handleResetTemplate)

	r.Get("/api/drafts", s.handleDrafts)
	r.Post("/api/drafts/restore", s.handleRestoreDraft)

	r.Get("/api/export", s.handleExport)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   ww.Status(),
			"duration": time.Since(start).Round(time.Millisecond),
			"request":  middleware.GetReqID(r.Context()),
		}).Info("request")
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// decode reads a JSON request body into v.
func decode(r *http.Request, v any) error {
	data, err := readBody(r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

func readBody(r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return data, nil
}

type errorBody struct {
	Error   string   `json:"error"`
	Stage   string   `json:"stage,omitempty"`
	Missing []string `json:"missing,omitempty"`
	Target  string   `json:"target,omitempty"`
}

// fail maps an error onto a status code and writes it.
func (s *Server) fail(w http.ResponseWriter, err error) {
	body := errorBody{Error: err.Error()}
	var (
		ve *pipeline.ValidationError
		ge *pipeline.GenerationError
	)
	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &ve):
		status = http.StatusUnprocessableEntity
		body.Stage, body.Missing = ve.Stage, ve.Missing
	case errors.As(err, &ge):
		status = http.StatusBadGateway
		body.Target = string(ge.Target)
	case errors.Is(err, pipeline.ErrInFlight),
		errors.Is(err, pipeline.ErrStale),
		errors.Is(err, pipeline.ErrCompleted),
		errors.Is(err, pipeline.ErrAtStart),
		errors.Is(err, pipeline.ErrNotDrafting),
		errors.Is(err, pipeline.ErrNotReached):
		status = http.StatusConflict
	case errors.Is(err, outline.ErrSectionNotFound),
		errors.Is(err, prompts.ErrTemplateNotFound),
		errors.Is(err, prompts.ErrUnknownCategory),
		errors.Is(err, storage.ErrNotFound),
		errors.Is(err, brief.ErrUnknownField),
		errors.Is(err, brief.ErrUnknownAnchor),
		errors.Is(err, pipeline.ErrUnknownTarget),
		errors.Is(err, errNoDrafts):
		status = http.StatusNotFound
	case errors.Is(err, brief.ErrInvalidValue),
		errors.Is(err, outline.ErrInvalidSection),
		errors.Is(err, prompts.ErrInvalidImport),
		errors.Is(err, catalog.ErrNoAudience),
		errors.Is(err, catalog.ErrUnknownItem),
		errors.Is(err, catalog.ErrAlreadyAnchored):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		s.log.WithError(err).Error("request failed")
	}
	writeJSON(w, status, body)
}
