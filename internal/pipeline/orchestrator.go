package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jorge-barreto/narrate/internal/brief"
	"github.com/jorge-barreto/narrate/internal/catalog"
	"github.com/jorge-barreto/narrate/internal/llm"
	"github.com/jorge-barreto/narrate/internal/prompts"
	"github.com/jorge-barreto/narrate/internal/state"
)

// Config wires an Orchestrator to its collaborators. Templates and
// Generator are required.
type Config struct {
	Templates *prompts.Store
	Generator llm.Generator
	Catalog   catalog.Catalog
	// Options returns per-category generation options.
	Options func(prompts.Category) llm.Options
	// Timeout bounds each call to the generator. Zero means no bound.
	Timeout  time.Duration
	Recorder *state.Recorder
	Logger   logrus.FieldLogger
	// OnChange is called with the live session, under the orchestrator's
	// lock, after every committed change. It must not call back into the
	// orchestrator.
	OnChange func(*state.Session)
}

// Outcome describes a committed transition or regeneration.
type Outcome struct {
	From      string   `json:"from"`
	To        string   `json:"to"`
	Target    Target   `json:"target,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
	Completed bool     `json:"completed"`
}

// Orchestrator owns one session and drives it through the pipeline.
// All methods are safe for concurrent use. The lock is released while the
// generator is called.
type Orchestrator struct {
	mu       sync.Mutex
	session  *state.Session
	cfg      Config
	log      logrus.FieldLogger
	inflight map[Target]bool
	seq      int
	now      func() time.Time
}

// New returns an orchestrator for session.
func New(session *state.Session, cfg Config) *Orchestrator {
	if cfg.Catalog == nil {
		cfg.Catalog = catalog.Empty
	}
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Orchestrator{
		session:  session,
		cfg:      cfg,
		log:      log,
		inflight: make(map[Target]bool),
		seq:      len(session.History),
		now:      time.Now,
	}
}

// Session returns a copy of the current session.
func (o *Orchestrator) Session() *state.Session {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.session.Clone()
}

// IsGenerating reports whether any generation call is outstanding.
func (o *Orchestrator) IsGenerating() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.inflight) > 0
}

// Replace swaps in a different session, e.g. a restored draft. Results of
// calls still outstanding for the old session are discarded.
func (o *Orchestrator) Replace(s *state.Session) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.session = s
	o.seq = len(s.History)
	o.changed()
}

// Edit applies fn to a copy of the brief and commits it when fn succeeds.
func (o *Orchestrator) Edit(fn func(*brief.Brief) error) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	b := o.session.Brief.Clone()
	if err := fn(b); err != nil {
		return err
	}
	o.session.Brief = b
	o.changed()
	return nil
}

// Advance moves the session one stage forward, generating the content the
// next stage needs. On a ValidationError or GenerationError nothing
// changes and Advance may simply be called again.
func (o *Orchestrator) Advance(ctx context.Context) (*Outcome, error) {
	o.mu.Lock()
	s := o.session
	var target Target
	var move func(*state.Session)

	switch {
	case s.Completed:
		o.mu.Unlock()
		return nil, ErrCompleted

	case s.Phase == state.PhaseNone:
		step := s.CurrentStep
		if missing := s.Brief.Missing(step); len(missing) > 0 {
			o.mu.Unlock()
			return nil, &ValidationError{Stage: step.Name(), Missing: missing}
		}
		switch step {
		case brief.StepStrategy:
			move = func(s *state.Session) { s.CurrentStep = brief.StepAudience }
		case brief.StepAudience:
			target = TargetDiscovery
			move = func(s *state.Session) { s.CurrentStep = brief.StepDiscovery }
		case brief.StepDiscovery:
			target = TargetOutline
			move = func(s *state.Session) { s.CurrentStep = brief.StepOutline }
		default:
			move = func(s *state.Session) { s.Phase = state.PhaseOutline }
		}

	case s.Phase == state.PhaseOutline:
		if missing := s.Brief.Missing(brief.StepOutline); len(missing) > 0 {
			o.mu.Unlock()
			return nil, &ValidationError{Stage: string(state.PhaseOutline), Missing: missing}
		}
		target = TargetIntro
		move = func(s *state.Session) { s.Phase = state.PhaseIntro }

	default:
		if strings.TrimSpace(s.Brief.Content(string(s.Phase))) == "" {
			o.mu.Unlock()
			return nil, &ValidationError{Stage: string(s.Phase), Missing: []string{string(s.Phase) + "Content"}}
		}
		if next := s.Phase.Next(); next != state.PhaseNone {
			target = Target(next)
			move = func(s *state.Session) { s.Phase = next }
		} else {
			move = func(s *state.Session) { s.Completed = true }
		}
	}

	if target == "" {
		defer o.mu.Unlock()
		from := s.Position()
		move(s)
		o.changed()
		o.log.WithFields(logrus.Fields{"from": from, "to": s.Position()}).Debug("advanced")
		return &Outcome{From: from, To: s.Position(), Completed: s.Completed}, nil
	}
	return o.generate(ctx, target, false, move)
}

// Retreat moves the session one stage back without generating anything.
func (o *Orchestrator) Retreat() (*Outcome, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	s := o.session
	from := s.Position()
	switch {
	case s.Completed:
		s.Completed = false
		s.Phase = state.PhaseConclusion
	case s.Phase == state.PhaseOutline:
		s.Phase = state.PhaseNone
		s.CurrentStep = brief.StepOutline
	case s.Phase != state.PhaseNone:
		s.Phase = s.Phase.Prev()
	case s.CurrentStep <= brief.StepStrategy:
		return nil, ErrAtStart
	default:
		s.CurrentStep--
	}
	o.changed()
	return &Outcome{From: from, To: s.Position()}, nil
}

// BackToOutline returns from any drafting phase to the outline phase.
func (o *Orchestrator) BackToOutline() (*Outcome, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	s := o.session
	if !s.Completed && (s.Phase == state.PhaseNone || s.Phase == state.PhaseOutline) {
		return nil, ErrNotDrafting
	}
	from := s.Position()
	s.Completed = false
	s.Phase = state.PhaseOutline
	o.changed()
	return &Outcome{From: from, To: s.Position()}, nil
}

// Regenerate re-runs generation for a target the session has already
// reached. The position does not change; a regenerated outline always
// replaces the current one.
func (o *Orchestrator) Regenerate(ctx context.Context, t Target) (*Outcome, error) {
	if t.Categories() == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTarget, t)
	}
	o.mu.Lock()
	if !t.reached(o.session) {
		pos := o.session.Position()
		o.mu.Unlock()
		return nil, fmt.Errorf("%w: %s (at %s)", ErrNotReached, t, pos)
	}
	return o.generate(ctx, t, true, nil)
}

// exchange is one rendered prompt and the raw reply to it.
type exchange struct {
	category prompts.Category
	prompt   string
	response string
}

// generate runs the calls for t against a snapshot and merges the result
// into the live session. It must be called with o.mu held and releases it.
func (o *Orchestrator) generate(ctx context.Context, t Target, regenerate bool, move func(*state.Session)) (*Outcome, error) {
	if o.inflight[t] {
		o.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrInFlight, t)
	}
	o.inflight[t] = true
	snap := o.session.Clone()
	token := positionToken(o.session)
	o.mu.Unlock()

	start := o.now()
	calls, err := o.call(ctx, t, snap)
	end := o.now()

	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.inflight, t)
	o.record(t, calls)
	rec := state.NewRecord(string(t), start)
	log := o.log.WithFields(logrus.Fields{"target": t, "session": snap.ID})

	if err != nil {
		o.session.AddRecord(rec.Finish(end, state.OutcomeFailed, err.Error()))
		log.WithError(err).Warn("generation failed")
		return nil, &GenerationError{Target: t, Err: err}
	}
	if positionToken(o.session) != token {
		if o.session.ID == snap.ID {
			o.session.AddRecord(rec.Finish(end, state.OutcomeDiscarded, "moved to "+o.session.Position()))
		}
		log.Info("discarding stale generation")
		return nil, fmt.Errorf("%w: %s", ErrStale, t)
	}

	from := o.session.Position()
	warnings := merge(o.session.Brief, t, calls, regenerate)
	if move != nil {
		move(o.session)
	}
	outcome, detail := state.OutcomeOK, ""
	if len(warnings) > 0 {
		outcome, detail = state.OutcomeUnparsed, strings.Join(warnings, "; ")
		log.WithField("warnings", detail).Warn("response not parsed")
	}
	o.session.AddRecord(rec.Finish(end, outcome, detail))
	o.changed()
	log.WithField("duration", end.Sub(start)).Debug("generation finished")
	return &Outcome{From: from, To: o.session.Position(), Target: t, Warnings: warnings, Completed: o.session.Completed}, nil
}

// call renders and sends every prompt for t. The outline skeleton is
// rendered with the selected headline, or with the first newly generated
// one when none is selected yet.
func (o *Orchestrator) call(ctx context.Context, t Target, snap *state.Session) ([]exchange, error) {
	rc := renderContext{b: snap.Brief, cat: o.cfg.Catalog}
	var calls []exchange
	for _, cat := range t.Categories() {
		var vars prompts.Vars
		switch cat {
		case prompts.CategoryDiscovery:
			vars = rc.discovery().Vars()
		case prompts.CategoryHeadlines:
			vars = rc.headlines().Vars()
		case prompts.CategoryOutline:
			headline := ""
			if _, ok := snap.Brief.SelectedHeadline(); !ok && len(calls) > 0 {
				if r := ParseHeadlines(calls[len(calls)-1].response); r.OK {
					headline = r.Value[0]
				}
			}
			vars = rc.outline(headline).Vars()
		default:
			vars = rc.content(t).Vars()
		}
		prompt, err := o.cfg.Templates.Render(string(cat), vars)
		if err != nil {
			return calls, err
		}
		resp, err := o.send(ctx, cat, prompt)
		calls = append(calls, exchange{category: cat, prompt: prompt, response: resp})
		if err != nil {
			return calls, err
		}
	}
	return calls, nil
}

func (o *Orchestrator) send(ctx context.Context, cat prompts.Category, prompt string) (string, error) {
	if o.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.cfg.Timeout)
		defer cancel()
	}
	var opts llm.Options
	if o.cfg.Options != nil {
		opts = o.cfg.Options(cat)
	}
	resp, err := o.cfg.Generator.Generate(ctx, prompt, opts)
	if errors.Is(err, context.DeadlineExceeded) && o.cfg.Timeout > 0 {
		return "", fmt.Errorf("%s: no response within %s: %w", cat, o.cfg.Timeout, err)
	}
	return resp, err
}

// record writes prompt artifacts. Failures are logged only.
func (o *Orchestrator) record(t Target, calls []exchange) {
	if o.cfg.Recorder == nil {
		return
	}
	for _, c := range calls {
		o.seq++
		if err := o.cfg.Recorder.Record(string(c.category), o.seq, c.prompt, c.response); err != nil {
			o.log.WithError(err).WithField("target", t).Warn("write artifacts")
		}
	}
}

// merge folds parsed responses into b and returns a warning per response
// that could not be parsed.
func merge(b *brief.Brief, t Target, calls []exchange, regenerate bool) []string {
	var warnings []string
	warn := func(cat prompts.Category) {
		warnings = append(warnings, fmt.Sprintf("%s: response could not be parsed; field left unchanged", cat))
	}
	for _, c := range calls {
		switch c.category {
		case prompts.CategoryDiscovery:
			r := ParseDiscovery(c.response)
			if !r.OK {
				warn(c.category)
				continue
			}
			mergeDiscovery(b, r.Value)
		case prompts.CategoryHeadlines:
			r := ParseHeadlines(c.response)
			if !r.OK {
				warn(c.category)
				continue
			}
			b.ReplaceGeneratedHeadlines(r.Value)
		case prompts.CategoryOutline:
			r := ParseOutline(c.response)
			if !r.OK {
				warn(c.category)
				continue
			}
			mergeOutline(b, r.Value, regenerate)
		default:
			r := ParseContent(c.response)
			if !r.OK {
				warn(c.category)
				continue
			}
			_ = b.SetContent(string(t), r.Value)
		}
	}
	return warnings
}

func positionToken(s *state.Session) string {
	return s.ID + "|" + s.Position()
}

// changed stamps the session and notifies the observer. o.mu must be held.
func (o *Orchestrator) changed() {
	o.session.Touch()
	if o.cfg.OnChange != nil {
		o.cfg.OnChange(o.session)
	}
}
