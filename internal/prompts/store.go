package prompts

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrUnknownCategory  = errors.New("unknown template category")
	ErrInvalidImport    = errors.New("invalid template import")
)

// NotFoundText is what Render returns for an id it cannot resolve.
func NotFoundText(id string) string {
	return fmt.Sprintf("[template not found: %s]", id)
}

// Store holds the built-in templates and a private set of overrides.
// The injected defaults are never mutated.
type Store struct {
	mu        sync.RWMutex
	defaults  map[Category]Template
	overrides map[Category]Template
	now       func() time.Time
}

// NewStore returns a store backed by a copy of defaults.
func NewStore(defaults map[Category]Template) *Store {
	d := make(map[Category]Template, len(defaults))
	for k, v := range defaults {
		d[k] = v.clone()
	}
	return &Store{
		defaults:  d,
		overrides: make(map[Category]Template),
		now:       time.Now,
	}
}

// SetClock replaces the time source used to stamp updates.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
}

// Template returns the current template for cat: the override when one
// exists, otherwise the default.
func (s *Store) Template(cat Category) (Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.current(cat)
	if !ok {
		return Template{}, fmt.Errorf("%w: %q", ErrUnknownCategory, cat)
	}
	return t.clone(), nil
}

// Active returns the current template for every category that has one,
// in pipeline order.
func (s *Store) Active() []Template {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Template
	for _, cat := range s.categories() {
		if t, ok := s.current(cat); ok {
			out = append(out, t.clone())
		}
	}
	return out
}

// Overridden reports whether cat has a per-store override.
func (s *Store) Overridden(cat Category) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.overrides[cat]
	return ok
}

// Render interpolates the template named by id, which may be a category key
// or a template id. An inactive override renders the default instead.
// An unknown id yields NotFoundText and ErrTemplateNotFound.
func (s *Store) Render(id string, vars Vars) (string, error) {
	s.mu.RLock()
	t, ok := s.resolve(id)
	s.mu.RUnlock()
	if !ok {
		return NotFoundText(id), fmt.Errorf("%w: %q", ErrTemplateNotFound, id)
	}
	return Interpolate(t.Template, vars), nil
}

// Missing lists variables the template for cat declares that vars lacks
// or binds to an empty value.
func (s *Store) Missing(cat Category, vars Vars) ([]string, error) {
	t, err := s.Template(cat)
	if err != nil {
		return nil, err
	}
	var missing []string
	for _, name := range t.Variables {
		v, ok := vars[name]
		if !ok || strings.TrimSpace(format(v)) == "" {
			missing = append(missing, name)
		}
	}
	return missing, nil
}

// Update merges p into the current template for cat and stores the result
// as an override.
func (s *Store) Update(cat Category, p Patch) (Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.current(cat)
	if !ok {
		return Template{}, fmt.Errorf("%w: %q", ErrUnknownCategory, cat)
	}
	t = p.apply(t)
	t.Category = cat
	t.UpdatedAt = s.now().UTC()
	s.overrides[cat] = t
	return t.clone(), nil
}

// Reset drops the override for cat.
func (s *Store) Reset(cat Category) error {
	if !cat.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, cat)
	}
	s.mu.Lock()
	delete(s.overrides, cat)
	s.mu.Unlock()
	return nil
}

// ResetAll drops every override.
func (s *Store) ResetAll() {
	s.mu.Lock()
	s.overrides = make(map[Category]Template)
	s.mu.Unlock()
}

// ExportAll returns the current template set as indented JSON keyed by
// category.
func (s *Store) ExportAll() ([]byte, error) {
	s.mu.RLock()
	set := make(map[Category]Template)
	for _, cat := range s.categories() {
		if t, ok := s.current(cat); ok {
			set[cat] = t
		}
	}
	s.mu.RUnlock()
	return json.MarshalIndent(set, "", "  ")
}

// ExportOverrides returns only the per-store overrides, in the ExportAll
// format, or nil when there are none. ImportAll accepts the result.
func (s *Store) ExportOverrides() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.overrides) == 0 {
		return nil, nil
	}
	return json.MarshalIndent(s.overrides, "", "  ")
}

// ImportAll replaces the current template set with the one in data. Every
// entry is validated first; on any error the store is left unchanged.
func (s *Store) ImportAll(data []byte) error {
	var raw map[string]Template
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	if len(raw) == 0 {
		return fmt.Errorf("%w: no templates", ErrInvalidImport)
	}
	next := make(map[Category]Template, len(raw))
	for key, t := range raw {
		cat := Category(key)
		if !cat.Valid() {
			return fmt.Errorf("%w: unknown category %q", ErrInvalidImport, key)
		}
		if t.Category != "" && t.Category != cat {
			return fmt.Errorf("%w: %q holds a %q template", ErrInvalidImport, key, t.Category)
		}
		if strings.TrimSpace(t.Template) == "" {
			return fmt.Errorf("%w: %q has an empty template", ErrInvalidImport, key)
		}
		t.Category = cat
		if t.ID == "" {
			t.ID = "custom-" + key
		}
		if t.Variables == nil {
			t.Variables = Placeholders(t.Template)
		}
		next[cat] = t.clone()
	}

	s.mu.Lock()
	s.overrides = next
	s.mu.Unlock()
	return nil
}

// current returns the override for cat if present, else the default.
// Callers hold s.mu.
func (s *Store) current(cat Category) (Template, bool) {
	if t, ok := s.overrides[cat]; ok {
		return t, true
	}
	t, ok := s.defaults[cat]
	return t, ok
}

// resolve finds the template Render should use for id. Callers hold s.mu.
func (s *Store) resolve(id string) (Template, bool) {
	cat, ok := s.categoryOf(id)
	if !ok {
		return Template{}, false
	}
	o, hasOverride := s.overrides[cat]
	d, hasDefault := s.defaults[cat]
	switch {
	case hasOverride && (o.IsActive || !hasDefault):
		return o, true
	case hasDefault:
		return d, true
	}
	return Template{}, false
}

// categoryOf maps a category key or template id to its category.
func (s *Store) categoryOf(id string) (Category, bool) {
	cat := Category(id)
	if _, ok := s.current(cat); ok {
		return cat, true
	}
	for _, set := range []map[Category]Template{s.overrides, s.defaults} {
		for c, t := range set {
			if t.ID == id {
				return c, true
			}
		}
	}
	return "", false
}

// categories returns the known categories followed by any extra keys in
// the defaults, sorted. Callers hold s.mu.
func (s *Store) categories() []Category {
	cats := Categories()
	var extra []Category
	for k := range s.defaults {
		if !k.Valid() {
			extra = append(extra, k)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(cats, extra...)
}
