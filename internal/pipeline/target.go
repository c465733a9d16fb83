package pipeline

import (
	"fmt"

	"github.com/jorge-barreto/narrate/internal/brief"
	"github.com/jorge-barreto/narrate/internal/outline"
	"github.com/jorge-barreto/narrate/internal/prompts"
	"github.com/jorge-barreto/narrate/internal/state"
)

// Target is a unit of generation.
type Target string

const (
	TargetDiscovery  Target = "discovery"
	TargetOutline    Target = "outline"
	TargetIntro      Target = "intro"
	TargetBody       Target = "body"
	TargetConclusion Target = "conclusion"
)

// Targets returns every target in pipeline order.
func Targets() []Target {
	return []Target{TargetDiscovery, TargetOutline, TargetIntro, TargetBody, TargetConclusion}
}

// ParseTarget validates a target name.
func ParseTarget(s string) (Target, error) {
	for _, t := range Targets() {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q (must be discovery, outline, intro, body, or conclusion)", ErrUnknownTarget, s)
}

// Categories returns the template categories a target renders, in call
// order. The outline target asks for headlines before the skeleton.
func (t Target) Categories() []prompts.Category {
	switch t {
	case TargetDiscovery:
		return []prompts.Category{prompts.CategoryDiscovery}
	case TargetOutline:
		return []prompts.Category{prompts.CategoryHeadlines, prompts.CategoryOutline}
	case TargetIntro:
		return []prompts.Category{prompts.CategoryIntro}
	case TargetBody:
		return []prompts.Category{prompts.CategoryBody}
	case TargetConclusion:
		return []prompts.Category{prompts.CategoryConclusion}
	}
	return nil
}

// sectionPhase is the outline phase whose sections feed a content target.
func (t Target) sectionPhase() outline.Phase {
	switch t {
	case TargetIntro:
		return outline.PhaseResonance
	case TargetBody:
		return outline.PhaseRelevance
	case TargetConclusion:
		return outline.PhaseResults
	}
	return ""
}

// reached reports whether s has progressed far enough for t to be
// regenerated.
func (t Target) reached(s *state.Session) bool {
	drafting := s.Phase != state.PhaseNone || s.Completed
	switch t {
	case TargetDiscovery:
		return drafting || s.CurrentStep >= brief.StepDiscovery
	case TargetOutline:
		return drafting || s.CurrentStep >= brief.StepOutline
	}
	if s.Completed {
		return true
	}
	for p := state.Phase(t); p != state.PhaseNone; p = p.Next() {
		if s.Phase == p {
			return true
		}
	}
	return false
}
