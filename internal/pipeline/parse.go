package pipeline

import (
	"strings"

	"github.com/jorge-barreto/narrate/internal/brief"
	"github.com/jorge-barreto/narrate/internal/extract"
	"github.com/jorge-barreto/narrate/internal/outline"
)

// Discovery is the parsed discovery-trigger response.
type Discovery struct {
	RelatedKeywords   []string `json:"relatedKeywords"`
	SearchQueries     []string `json:"searchQueries"`
	ProblemStatements []string `json:"problemStatements"`
}

func (d Discovery) empty() bool {
	return len(d.RelatedKeywords) == 0 && len(d.SearchQueries) == 0 && len(d.ProblemStatements) == 0
}

func (d Discovery) cleaned() Discovery {
	return Discovery{
		RelatedKeywords:   nonBlank(d.RelatedKeywords),
		SearchQueries:     nonBlank(d.SearchQueries),
		ProblemStatements: nonBlank(d.ProblemStatements),
	}
}

// SectionDraft is a generated outline section before it gets an id.
type SectionDraft struct {
	Title   string `json:"title"`
	Level   string `json:"level"`
	Phase   string `json:"phase"`
	Context string `json:"context"`
}

// ParseDiscovery reads discovery lists from JSON, falling back to bullet
// lists under headings that name each list.
func ParseDiscovery(raw string) extract.Result[Discovery] {
	return extract.FirstOK(raw,
		func(raw string) extract.Result[Discovery] {
			r := extract.JSON[Discovery](raw)
			if !r.OK {
				return r
			}
			r.Value = r.Value.cleaned()
			if r.Value.empty() {
				return extract.Fail[Discovery](raw)
			}
			return r
		},
		func(raw string) extract.Result[Discovery] {
			var d Discovery
			for key, items := range extract.Groups(raw) {
				switch {
				case strings.Contains(key, "keyword"):
					d.RelatedKeywords = append(d.RelatedKeywords, items...)
				case strings.Contains(key, "quer") || strings.Contains(key, "search"):
					d.SearchQueries = append(d.SearchQueries, items...)
				case strings.Contains(key, "problem") || strings.Contains(key, "pain"):
					d.ProblemStatements = append(d.ProblemStatements, items...)
				}
			}
			d = d.cleaned()
			if d.empty() {
				return extract.Fail[Discovery](raw)
			}
			return extract.Result[Discovery]{OK: true, Value: d, Tier: extract.TierHeuristic, Raw: raw}
		},
	)
}

// ParseHeadlines reads headline options from {"headlines": [...]}, a bare
// JSON array, or a bullet/numbered list.
func ParseHeadlines(raw string) extract.Result[[]string] {
	return extract.FirstOK(raw,
		func(raw string) extract.Result[[]string] {
			r := extract.JSON[struct {
				Headlines []string `json:"headlines"`
			}](raw)
			return listResult(raw, r.OK, r.Value.Headlines, extract.TierJSON)
		},
		func(raw string) extract.Result[[]string] {
			r := extract.JSON[[]string](raw)
			return listResult(raw, r.OK, r.Value, extract.TierJSON)
		},
		func(raw string) extract.Result[[]string] {
			return listResult(raw, true, extract.List(raw), extract.TierHeuristic)
		},
	)
}

// ParseOutline reads sections from {"sections": [...]} or a bare JSON
// array, falling back to markdown or numbered headings.
func ParseOutline(raw string) extract.Result[[]SectionDraft] {
	return extract.FirstOK(raw,
		func(raw string) extract.Result[[]SectionDraft] {
			r := extract.JSON[struct {
				Sections []SectionDraft `json:"sections"`
			}](raw)
			return sectionResult(raw, r.OK, r.Value.Sections, extract.TierJSON)
		},
		func(raw string) extract.Result[[]SectionDraft] {
			r := extract.JSON[[]SectionDraft](raw)
			return sectionResult(raw, r.OK, r.Value, extract.TierJSON)
		},
		func(raw string) extract.Result[[]SectionDraft] {
			return sectionResult(raw, true, sectionsFromHeadings(extract.Headings(raw)), extract.TierHeuristic)
		},
	)
}

// ParseContent reads {"content": "..."} or falls back to the response
// text itself.
func ParseContent(raw string) extract.Result[string] {
	return extract.FirstOK(raw,
		func(raw string) extract.Result[string] {
			r := extract.JSON[struct {
				Content string `json:"content"`
			}](raw)
			text := strings.TrimSpace(r.Value.Content)
			if !r.OK || text == "" {
				return extract.Fail[string](raw)
			}
			return extract.Result[string]{OK: true, Value: text, Tier: extract.TierJSON, Raw: raw}
		},
		func(raw string) extract.Result[string] {
			text := extract.Prose(raw)
			if text == "" || strings.HasPrefix(text, "{") {
				return extract.Fail[string](raw)
			}
			return extract.Result[string]{OK: true, Value: text, Tier: extract.TierHeuristic, Raw: raw}
		},
	)
}

func listResult(raw string, ok bool, items []string, tier extract.Tier) extract.Result[[]string] {
	items = nonBlank(items)
	if !ok || len(items) == 0 {
		return extract.Fail[[]string](raw)
	}
	return extract.Result[[]string]{OK: true, Value: items, Tier: tier, Raw: raw}
}

func sectionResult(raw string, ok bool, drafts []SectionDraft, tier extract.Tier) extract.Result[[]SectionDraft] {
	var kept []SectionDraft
	for _, d := range drafts {
		d.Title = strings.TrimSpace(d.Title)
		if d.Title != "" {
			kept = append(kept, d)
		}
	}
	if !ok || len(kept) == 0 {
		return extract.Fail[[]SectionDraft](raw)
	}
	return extract.Result[[]SectionDraft]{OK: true, Value: kept, Tier: tier, Raw: raw}
}

// sectionsFromHeadings turns free-text headings into section drafts.
// Short headings naming a phase ("Act 1: Resonance") switch the phase of
// the headings below them instead of becoming sections. A leading level-1
// heading is taken as the article title and dropped.
func sectionsFromHeadings(hs []extract.Heading) []SectionDraft {
	if len(hs) > 1 && hs[0].Level == 1 {
		hs = hs[1:]
	}
	var out []SectionDraft
	current := ""
	for _, h := range hs {
		if p, ok := phaseMarker(h.Text); ok {
			current = string(p)
			continue
		}
		level := "h2"
		switch {
		case h.Level == 3:
			level = "h3"
		case h.Level >= 4:
			level = "h4"
		}
		out = append(out, SectionDraft{Title: h.Text, Level: level, Phase: current, Context: h.Body})
	}
	return out
}

func phaseMarker(text string) (outline.Phase, bool) {
	if len(strings.Fields(text)) > 3 {
		return "", false
	}
	key := extract.Key(text)
	for _, p := range outline.Phases() {
		if strings.Contains(key, string(p)) {
			return p, true
		}
	}
	return "", false
}

// buildSections assigns ids, levels and phases to drafts. Drafts without a
// valid phase are spread over the three acts by position.
func buildSections(drafts []SectionDraft) []outline.Section {
	out := make([]outline.Section, 0, len(drafts))
	for i, d := range drafts {
		phase := outline.Phase(strings.ToLower(strings.TrimSpace(d.Phase)))
		if !phase.Valid() {
			phase = outline.Phases()[i*3/len(drafts)]
		}
		s := outline.NewSection(d.Title, outline.Level(strings.ToLower(d.Level)), phase)
		s.Context = strings.TrimSpace(d.Context)
		out = append(out, s)
	}
	return out
}

// mergeDiscovery replaces each discovery list that came back non-empty.
func mergeDiscovery(b *brief.Brief, d Discovery) {
	if len(d.RelatedKeywords) > 0 {
		b.RelatedKeywords = d.RelatedKeywords
	}
	if len(d.SearchQueries) > 0 {
		b.SearchQueries = d.SearchQueries
	}
	if len(d.ProblemStatements) > 0 {
		b.ProblemStatements = d.ProblemStatements
	}
}

// mergeOutline installs generated sections. Unless force is set, an
// outline the author already started is kept.
func mergeOutline(b *brief.Brief, drafts []SectionDraft, force bool) bool {
	if !force && b.Outline.Len() > 0 {
		return false
	}
	b.Outline = outline.Outline{Sections: buildSections(drafts)}
	return true
}

func nonBlank(items []string) []string {
	var out []string
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
