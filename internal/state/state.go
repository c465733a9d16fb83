package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jorge-barreto/narrate/internal/brief"
)

// ErrNoSession is returned by Load when no session has been started.
var ErrNoSession = errors.New("no active session")

// Phase is a content-drafting phase. The zero value means the session is
// still collecting the brief.
type Phase string

const (
	PhaseNone       Phase = ""
	PhaseOutline    Phase = "outline"
	PhaseIntro      Phase = "intro"
	PhaseBody       Phase = "body"
	PhaseConclusion Phase = "conclusion"
)

// Phases returns the drafting phases in order.
func Phases() []Phase {
	return []Phase{PhaseOutline, PhaseIntro, PhaseBody, PhaseConclusion}
}

// Next returns the phase after p, or PhaseNone after the conclusion.
func (p Phase) Next() Phase {
	ps := Phases()
	for i, q := range ps {
		if q == p && i+1 < len(ps) {
			return ps[i+1]
		}
	}
	return PhaseNone
}

// Prev returns the phase before p, or PhaseNone before the outline.
func (p Phase) Prev() Phase {
	ps := Phases()
	for i, q := range ps {
		if q == p && i > 0 {
			return ps[i-1]
		}
	}
	return PhaseNone
}

// Session is one authoring session: where the author is in the pipeline,
// the brief collected so far and a log of generation calls.
type Session struct {
	ID          string       `json:"id"`
	CurrentStep brief.Step   `json:"currentStep"`
	Phase       Phase        `json:"phase"`
	Completed   bool         `json:"completed"`
	Brief       *brief.Brief `json:"brief"`
	History     []Record     `json:"history"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// New starts an empty session at step 1.
func New() *Session {
	now := time.Now().UTC()
	return &Session{
		ID:          uuid.NewString(),
		CurrentStep: brief.StepStrategy,
		Brief:       brief.New(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Clone returns a deep copy of the session.
func (s *Session) Clone() *Session {
	cp := *s
	if s.Brief != nil {
		cp.Brief = s.Brief.Clone()
	}
	cp.History = append([]Record(nil), s.History...)
	return &cp
}

// Position describes where the session is, e.g. "step 2 (audience resonance)".
func (s *Session) Position() string {
	switch {
	case s.Completed:
		return "completed"
	case s.Phase != PhaseNone:
		return fmt.Sprintf("phase %s", s.Phase)
	default:
		return fmt.Sprintf("step %d (%s)", s.CurrentStep, s.CurrentStep.Name())
	}
}

// Touch stamps the session as modified.
func (s *Session) Touch() {
	s.UpdatedAt = time.Now().UTC()
}

// Load reads the session file at path.
func Load(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoSession
		}
		return nil, err
	}
	return Unmarshal(data)
}

// Unmarshal decodes a session and repairs fields older files may lack.
func Unmarshal(data []byte) (*Session, error) {
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decoding session: %w", err)
	}
	if s.Brief == nil {
		s.Brief = brief.New()
	}
	if !s.CurrentStep.Valid() {
		s.CurrentStep = brief.StepStrategy
	}
	return &s, nil
}

// Save writes the session to path atomically.
func (s *Session) Save(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return WriteFileAtomic(path, data, 0644)
}
