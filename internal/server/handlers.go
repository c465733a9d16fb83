package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/jorge-barreto/narrate/internal/autosave"
	"github.com/jorge-barreto/narrate/internal/brief"
	"github.com/jorge-barreto/narrate/internal/catalog"
	"github.com/jorge-barreto/narrate/internal/export"
	"github.com/jorge-barreto/narrate/internal/outline"
	"github.com/jorge-barreto/narrate/internal/pipeline"
	"github.com/jorge-barreto/narrate/internal/prompts"
	"github.com/jorge-barreto/narrate/internal/state"
)

var errNoDrafts = errors.New("autosave is disabled")

type sessionView struct {
	Session      *state.Session `json:"session"`
	Position     string         `json:"position"`
	IsGenerating bool           `json:"isGenerating"`
	Missing      []string       `json:"missing,omitempty"`
}

type transitionView struct {
	Outcome *pipeline.Outcome `json:"outcome"`
	sessionView
}

func (s *Server) view() sessionView {
	sess := s.orch.Session()
	v := sessionView{Session: sess, Position: sess.Position(), IsGenerating: s.orch.IsGenerating()}
	if sess.Phase == state.PhaseNone && !sess.Completed {
		v.Missing = sess.Brief.Missing(sess.CurrentStep)
	}
	return v
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.view())
}

func (s *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	s.orch.Replace(state.New())
	writeJSON(w, http.StatusCreated, s.view())
}

// edit applies fn to the brief and answers with the session.
func (s *Server) edit(w http.ResponseWriter, fn func(*brief.Brief) error) {
	if err := s.orch.Edit(fn); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.view())
}

func (s *Server) handleSetField(w http.ResponseWriter, r *http.Request) {
	field := brief.Field(chi.URLParam(r, "field"))
	data, err := readBody(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.edit(w, func(b *brief.Brief) error {
		return b.SetFromJSON(field, data)
	})
}

func (s *Server) handleAddAnchor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SourceItemID string `json:"sourceItemId"`
	}
	if err := decode(r, &req); err != nil {
		s.fail(w, err)
		return
	}
	s.edit(w, func(b *brief.Brief) error {
		a, err := catalog.NewAnchor(s.catalog, b, req.SourceItemID)
		if err != nil {
			return err
		}
		return b.AddAnchor(a)
	})
}

func (s *Server) handleRemoveAnchor(w http.ResponseWriter, r *http.Request) {
	i, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		s.fail(w, fmt.Errorf("%w: anchor index %q", errBadRequest, chi.URLParam(r, "index")))
		return
	}
	s.edit(w, func(b *brief.Brief) error {
		return b.RemoveAnchor(i)
	})
}

func (s *Server) handleAddHeadline(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text   string `json:"text"`
		Select bool   `json:"select"`
	}
	if err := decode(r, &req); err != nil {
		s.fail(w, err)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		s.fail(w, fmt.Errorf("%w: headline text is empty", brief.ErrInvalidValue))
		return
	}
	s.edit(w, func(b *brief.Brief) error {
		h := b.AddHeadline(strings.TrimSpace(req.Text), false)
		if req.Select {
			return b.SelectHeadline(h.ID)
		}
		return nil
	})
}

func (s *Server) handleSelectHeadline(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if err := decode(r, &req); err != nil {
		s.fail(w, err)
		return
	}
	s.edit(w, func(b *brief.Brief) error {
		return b.SelectHeadline(req.ID)
	})
}

func (s *Server) transition(w http.ResponseWriter, out *pipeline.Outcome, err error) {
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, transitionView{Outcome: out, sessionView: s.view()})
}

func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request) {
	out, err := s.orch.Advance(r.Context())
	s.transition(w, out, err)
}

func (s *Server) handleRetreat(w http.ResponseWriter, r *http.Request) {
	out, err := s.orch.Retreat()
	s.transition(w, out, err)
}

func (s *Server) handleBackToOutline(w http.ResponseWriter, r *http.Request) {
	out, err := s.orch.BackToOutline()
	s.transition(w, out, err)
}

func (s *Server) handleRegenerate(w http.ResponseWriter, r *http.Request) {
	t, err := pipeline.ParseTarget(chi.URLParam(r, "target"))
	if err != nil {
		s.fail(w, err)
		return
	}
	out, err := s.orch.Regenerate(r.Context(), t)
	s.transition(w, out, err)
}

func (s *Server) handleSections(w http.ResponseWriter, r *http.Request) {
	sections := s.orch.Session().Brief.Outline.Sections
	if sections == nil {
		sections = []outline.Section{}
	}
	writeJSON(w, http.StatusOK, sections)
}

func (s *Server) handleInsertSection(w http.ResponseWriter, r *http.Request) {
	var req struct {
		After   string        `json:"after"`
		Title   string        `json:"title"`
		Level   outline.Level `json:"level"`
		Phase   outline.Phase `json:"phase"`
		Context string        `json:"context"`
	}
	if err := decode(r, &req); err != nil {
		s.fail(w, err)
		return
	}
	sec := outline.NewSection(req.Title, req.Level, req.Phase)
	sec.Context = req.Context
	if err := s.orch.Edit(func(b *brief.Brief) error {
		return b.Outline.InsertAfter(req.After, sec)
	}); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sec)
}

func (s *Server) handleReplaceSection(w http.ResponseWriter, r *http.Request) {
	var sec outline.Section
	if err := decode(r, &sec); err != nil {
		s.fail(w, err)
		return
	}
	sec.ID = chi.URLParam(r, "id")
	s.edit(w, func(b *brief.Brief) error {
		return b.Outline.Replace(sec)
	})
}

func (s *Server) handleUpdateSection(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Field string `json:"field"`
		Value string `json:"value"`
	}
	if err := decode(r, &req); err != nil {
		s.fail(w, err)
		return
	}
	id := chi.URLParam(r, "id")
	s.edit(w, func(b *brief.Brief) error {
		return b.Outline.UpdateField(id, req.Field, req.Value)
	})
}

func (s *Server) handleRemoveSection(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.edit(w, func(b *brief.Brief) error {
		b.Outline.Remove(id)
		return nil
	})
}

func (s *Server) handleMoveSection(up bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		s.edit(w, func(b *brief.Brief) error {
			if _, ok := b.Outline.Find(id); !ok {
				return fmt.Errorf("%w: %s", outline.ErrSectionNotFound, id)
			}
			if up {
				b.Outline.MoveUp(id)
			} else {
				b.Outline.MoveDown(id)
			}
			return nil
		})
	}
}

type templateView struct {
	prompts.Template
	Overridden bool `json:"overridden"`
}

func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	var out []templateView
	for _, t := range s.templates.Active() {
		out = append(out, templateView{Template: t, Overridden: s.templates.Overridden(t.Category)})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleExportTemplates(w http.ResponseWriter, r *http.Request) {
	data, err := s.templates.ExportAll()
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="templates.json"`)
	_, _ = w.Write(data)
}

func (s *Server) handleImportTemplates(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	if err := s.templates.ImportAll(data); err != nil {
		s.fail(w, err)
		return
	}
	s.templatesChanged()
	s.handleTemplates(w, r)
}

func (s *Server) handleUpdateTemplate(w http.ResponseWriter, r *http.Request) {
	var p prompts.Patch
	if err := decode(r, &p); err != nil {
		s.fail(w, err)
		return
	}
	t, err := s.templates.Update(prompts.Category(chi.URLParam(r, "category")), p)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.templatesChanged()
	writeJSON(w, http.StatusOK, templateView{Template: t, Overridden: true})
}

func (s *Server) handleResetTemplate(w http.ResponseWriter, r *http.Request) {
	cat := prompts.Category(chi.URLParam(r, "category"))
	if err := s.templates.Reset(cat); err != nil {
		s.fail(w, err)
		return
	}
	s.templatesChanged()
	t, err := s.templates.Template(cat)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, templateView{Template: t})
}

func (s *Server) templatesChanged() {
	if s.saveTemplates == nil {
		return
	}
	if err := s.saveTemplates(s.templates); err != nil {
		s.log.WithError(err).Warn("save templates")
	}
}

func (s *Server) handleDrafts(w http.ResponseWriter, r *http.Request) {
	if s.drafts == nil {
		s.fail(w, errNoDrafts)
		return
	}
	drafts, err := s.drafts.List(r.Context(), r.URL.Query().Get("session"))
	if err != nil {
		s.fail(w, err)
		return
	}
	if drafts == nil {
		drafts = []autosave.Draft{}
	}
	writeJSON(w, http.StatusOK, drafts)
}

func (s *Server) handleRestoreDraft(w http.ResponseWriter, r *http.Request) {
	if s.drafts == nil {
		s.fail(w, errNoDrafts)
		return
	}
	var req struct {
		Key string `json:"key"`
	}
	if err := decode(r, &req); err != nil {
		s.fail(w, err)
		return
	}
	sess, err := s.drafts.Load(r.Context(), req.Key)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.orch.Replace(sess)
	writeJSON(w, http.StatusOK, s.view())
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		s.fail(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	ct := "text/markdown; charset=utf-8"
	if format == export.FormatHTML {
		ct = "text/html; charset=utf-8"
	}
	w.Header().Set("Content-Type", ct)
	if err := export.Write(w, s.orch.Session().Brief, format); err != nil {
		s.log.WithError(err).Error("export")
	}
}
