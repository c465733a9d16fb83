package ux

import (
	"fmt"
	"io"
	"strings"

	"github.com/jorge-barreto/narrate/internal/brief"
	"github.com/jorge-barreto/narrate/internal/catalog"
	"github.com/jorge-barreto/narrate/internal/outline"
	"github.com/jorge-barreto/narrate/internal/state"
)

// RenderStatus prints the full status display for a session.
func RenderStatus(w io.Writer, s *state.Session, cat catalog.Catalog) {
	b := s.Brief
	fmt.Fprintf(w, "%sSession:%s  %s\n", Bold, Reset, s.ID)
	if s.Completed {
		fmt.Fprintf(w, "%sPosition:%s %s%scompleted%s\n", Bold, Reset, Green, Bold, Reset)
	} else {
		fmt.Fprintf(w, "%sPosition:%s %s\n", Bold, Reset, s.Position())
	}
	fmt.Fprintf(w, "%sUpdated:%s  %s\n", Bold, Reset, s.UpdatedAt.Local().Format("2006-01-02 15:04:05"))

	fmt.Fprintf(w, "\n%sBrief:%s\n", Bold, Reset)
	drafting := s.Phase != state.PhaseNone || s.Completed
	for _, step := range brief.Steps() {
		mark := "  "
		switch {
		case drafting || step < s.CurrentStep:
			mark = Green + "✓" + Reset + " "
		case step == s.CurrentStep:
			mark = Yellow + "→" + Reset + " "
		}
		missing := ""
		if m := b.Missing(step); len(m) > 0 && step <= s.CurrentStep {
			missing = fmt.Sprintf("  %smissing: %s%s", Dim, strings.Join(m, ", "), Reset)
		}
		fmt.Fprintf(w, "  %s%s%d%s  %-22s%s\n", mark, Dim, step, Reset, step.Name(), missing)
	}

	fmt.Fprintf(w, "\n%sDrafting:%s\n", Bold, Reset)
	for _, p := range state.Phases() {
		mark := "  "
		switch {
		case s.Completed || (s.Phase != state.PhaseNone && phaseIndex(p) < phaseIndex(s.Phase)):
			mark = Green + "✓" + Reset + " "
		case p == s.Phase:
			mark = Yellow + "→" + Reset + " "
		}
		detail := ""
		if text := b.Content(string(p)); text != "" {
			detail = fmt.Sprintf("  %s(%d words)%s", Dim, len(strings.Fields(text)), Reset)
		} else if p == state.PhaseOutline {
			detail = fmt.Sprintf("  %s(%d sections)%s", Dim, b.Outline.Len(), Reset)
		}
		fmt.Fprintf(w, "  %s%-12s%s\n", mark, p, detail)
	}

	RenderFields(w, b, cat)
	if b.Outline.Len() > 0 {
		fmt.Fprintf(w, "\n%sOutline:%s\n", Bold, Reset)
		RenderOutline(w, b.Outline)
	}

	if len(s.History) > 0 {
		fmt.Fprintf(w, "\n%sGenerations:%s\n", Bold, Reset)
		start := max(0, len(s.History)-5)
		for _, r := range s.History[start:] {
			color := Green
			if r.Outcome != state.OutcomeOK {
				color = Yellow
			}
			if r.Outcome == state.OutcomeFailed {
				color = Red
			}
			fmt.Fprintf(w, "  %s  %-11s %s%-9s%s %s%s\n",
				r.Start.Local().Format("15:04:05"), r.Target, color, r.Outcome, Reset, r.Duration, detail(r.Detail))
		}
	}
	fmt.Fprintln(w)
}

// RenderFields prints every non-empty brief field.
func RenderFields(w io.Writer, b *brief.Brief, cat catalog.Catalog) {
	fmt.Fprintf(w, "\n%sFields:%s\n", Bold, Reset)
	line := func(name, value string) {
		if strings.TrimSpace(value) != "" {
			fmt.Fprintf(w, "  %s%-18s%s %s\n", Dim, name, Reset, truncate(value, 72))
		}
	}
	line("trigger", b.Trigger)
	line("mutualGoal", b.MutualGoal)
	line("targetKeyword", b.TargetKeyword)
	if bc := b.BusinessContext; bc.Type != "" {
		line("businessContext", strings.TrimSpace(bc.Type+" "+bc.ItemID))
	}
	line("publishReason", b.PublishReason)
	line("callToAction", b.CallToAction)
	line("primaryAudienceId", audienceLabel(cat, b.PrimaryAudienceID))
	line("journeyStage", string(b.JourneyStage))
	line("broaderAudienceId", audienceLabel(cat, b.BroaderAudienceID))
	line("readingTrigger", b.ReadingTrigger)
	for i, a := range b.Anchors {
		line(fmt.Sprintf("anchor[%d]", i), fmt.Sprintf("%s %s: %s", a.Type, a.SourceItemID, a.Content))
	}
	line("successStoryId", b.SuccessStoryID)
	line("relatedKeywords", strings.Join(b.RelatedKeywords, "; "))
	line("searchQueries", strings.Join(b.SearchQueries, "; "))
	line("problemStatements", strings.Join(b.ProblemStatements, "; "))
	RenderHeadlines(w, b)
	line("introPov", b.IntroPOV)
}

// RenderHeadlines lists headline options, marking the selected one.
func RenderHeadlines(w io.Writer, b *brief.Brief) {
	for _, h := range b.Headlines {
		mark := " "
		if h.ID == b.SelectedHeadlineID {
			mark = Green + "*" + Reset
		}
		origin := "user"
		if h.IsGenerated {
			origin = "generated"
		}
		fmt.Fprintf(w, "  %s %s%s%s %s %s(%s)%s\n", mark, Dim, shortID(h.ID), Reset, h.Text, Dim, origin, Reset)
	}
}

// RenderOutline prints sections indented by level.
func RenderOutline(w io.Writer, o outline.Outline) {
	for _, s := range o.Sections {
		indent := ""
		switch s.Level {
		case outline.H3:
			indent = "  "
		case outline.H4:
			indent = "    "
		}
		asset := ""
		if s.Asset != nil {
			asset = fmt.Sprintf(" %s[%s %s]%s", Cyan, s.Asset.AssetType, s.Asset.AssetID, Reset)
		}
		fmt.Fprintf(w, "  %s%s%s  %s%s %s%s(%s)%s\n",
			Dim, shortID(s.ID), Reset, indent, s.Title, asset, Dim, s.Phase, Reset)
	}
}

func audienceLabel(cat catalog.Catalog, id string) string {
	if cat != nil {
		if a, ok := cat.Audience(id); ok {
			return fmt.Sprintf("%s (%s)", id, a.Name)
		}
	}
	return id
}

func phaseIndex(p state.Phase) int {
	for i, q := range state.Phases() {
		if q == p {
			return i
		}
	}
	return -1
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func detail(s string) string {
	if s == "" {
		return ""
	}
	return "  " + Dim + truncate(s, 60) + Reset
}
