package brief

import "strings"

// Step is a brief-collection stage, numbered from 1.
type Step int

const (
	StepStrategy  Step = 1
	StepAudience  Step = 2
	StepDiscovery Step = 3
	StepOutline   Step = 4
)

// Steps returns the collection stages in order.
func Steps() []Step {
	return []Step{StepStrategy, StepAudience, StepDiscovery, StepOutline}
}

// Name returns the human-readable stage name.
func (s Step) Name() string {
	switch s {
	case StepStrategy:
		return "strategic alignment"
	case StepAudience:
		return "audience resonance"
	case StepDiscovery:
		return "discovery triggers"
	case StepOutline:
		return "outline"
	}
	return "unknown"
}

// Valid reports whether s is between StepStrategy and StepOutline.
func (s Step) Valid() bool {
	return s >= StepStrategy && s <= StepOutline
}

// Missing lists the required fields of step that are empty.
// It is the single source of truth for step gating.
func (b *Brief) Missing(step Step) []string {
	var missing []string
	need := func(ok bool, name string) {
		if !ok {
			missing = append(missing, name)
		}
	}
	switch step {
	case StepStrategy:
		need(filled(b.Trigger), string(FieldTrigger))
		need(filled(b.MutualGoal), string(FieldMutualGoal))
		need(filled(b.TargetKeyword), string(FieldTargetKeyword))
		need(filled(b.CallToAction), string(FieldCallToAction))
	case StepAudience:
		need(filled(b.PrimaryAudienceID), string(FieldPrimaryAudience))
		need(b.JourneyStage.Valid(), string(FieldJourneyStage))
		need(len(b.Anchors) > 0, string(FieldAnchors))
	case StepDiscovery:
		need(anyFilled(b.RelatedKeywords) || anyFilled(b.SearchQueries) || anyFilled(b.ProblemStatements),
			"relatedKeywords|searchQueries|problemStatements")
	case StepOutline:
		_, ok := b.SelectedHeadline()
		need(ok, string(FieldSelectedHeadline))
		titled := false
		for _, s := range b.Outline.Sections {
			if filled(s.Title) {
				titled = true
				break
			}
		}
		need(titled, "outline.sections")
	default:
		missing = append(missing, "step")
	}
	return missing
}

// CanAdvance reports whether every field step requires is present.
func (b *Brief) CanAdvance(step Step) bool {
	return len(b.Missing(step)) == 0
}

func filled(s string) bool {
	return strings.TrimSpace(s) != ""
}

func anyFilled(l []string) bool {
	for _, s := range l {
		if filled(s) {
			return true
		}
	}
	return false
}
