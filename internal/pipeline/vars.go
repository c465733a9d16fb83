package pipeline

import (
	"fmt"
	"strings"

	"github.com/jorge-barreto/narrate/internal/brief"
	"github.com/jorge-barreto/narrate/internal/catalog"
	"github.com/jorge-barreto/narrate/internal/outline"
	"github.com/jorge-barreto/narrate/internal/prompts"
)

// DiscoveryVars feeds the discovery_triggers template.
type DiscoveryVars struct {
	Trigger             string
	MutualGoal          string
	TargetKeyword       string
	BusinessContext     string
	PublishReason       string
	CallToAction        string
	AudienceName        string
	AudienceDescription string
	JourneyStage        string
	BroaderAudience     string
	ReadingTrigger      string
	NarrativeAnchors    []string
	SuccessStory        string
}

func (v DiscoveryVars) Vars() prompts.Vars {
	m := prompts.Vars{}
	put(m, "trigger", v.Trigger)
	put(m, "mutualGoal", v.MutualGoal)
	put(m, "targetKeyword", v.TargetKeyword)
	put(m, "businessContext", v.BusinessContext)
	put(m, "publishReason", v.PublishReason)
	put(m, "callToAction", v.CallToAction)
	put(m, "audienceName", v.AudienceName)
	put(m, "audienceDescription", v.AudienceDescription)
	put(m, "journeyStage", v.JourneyStage)
	put(m, "broaderAudience", v.BroaderAudience)
	put(m, "readingTrigger", v.ReadingTrigger)
	putList(m, "narrativeAnchors", v.NarrativeAnchors)
	put(m, "successStory", v.SuccessStory)
	return m
}

// HeadlineVars feeds the headline_generation template.
type HeadlineVars struct {
	TargetKeyword     string
	Trigger           string
	MutualGoal        string
	AudienceName      string
	JourneyStage      string
	NarrativeAnchors  []string
	RelatedKeywords   []string
	SearchQueries     []string
	ProblemStatements []string
	CallToAction      string
}

func (v HeadlineVars) Vars() prompts.Vars {
	m := prompts.Vars{}
	put(m, "targetKeyword", v.TargetKeyword)
	put(m, "trigger", v.Trigger)
	put(m, "mutualGoal", v.MutualGoal)
	put(m, "audienceName", v.AudienceName)
	put(m, "journeyStage", v.JourneyStage)
	putList(m, "narrativeAnchors", v.NarrativeAnchors)
	putList(m, "relatedKeywords", v.RelatedKeywords)
	putList(m, "searchQueries", v.SearchQueries)
	putList(m, "problemStatements", v.ProblemStatements)
	put(m, "callToAction", v.CallToAction)
	return m
}

// OutlineVars feeds the outline_generation template.
type OutlineVars struct {
	Headline          string
	TargetKeyword     string
	Trigger           string
	MutualGoal        string
	AudienceName      string
	JourneyStage      string
	NarrativeAnchors  []string
	ProblemStatements []string
	SuccessStory      string
	IntroPOV          string
	CallToAction      string
	ExistingSections  []string
}

func (v OutlineVars) Vars() prompts.Vars {
	m := prompts.Vars{}
	put(m, "headline", v.Headline)
	put(m, "targetKeyword", v.TargetKeyword)
	put(m, "trigger", v.Trigger)
	put(m, "mutualGoal", v.MutualGoal)
	put(m, "audienceName", v.AudienceName)
	put(m, "journeyStage", v.JourneyStage)
	putList(m, "narrativeAnchors", v.NarrativeAnchors)
	putList(m, "problemStatements", v.ProblemStatements)
	put(m, "successStory", v.SuccessStory)
	put(m, "introPov", v.IntroPOV)
	put(m, "callToAction", v.CallToAction)
	putList(m, "existingSections", v.ExistingSections)
	return m
}

// ContentVars feeds the intro, body and conclusion templates.
type ContentVars struct {
	Headline         string
	TargetKeyword    string
	MutualGoal       string
	AudienceName     string
	JourneyStage     string
	IntroPOV         string
	CallToAction     string
	NarrativeAnchors []string
	SuccessStory     string
	Sections         string
	FullOutline      string
	IntroContent     string
	BodyContent      string
}

func (v ContentVars) Vars() prompts.Vars {
	m := prompts.Vars{}
	put(m, "headline", v.Headline)
	put(m, "targetKeyword", v.TargetKeyword)
	put(m, "mutualGoal", v.MutualGoal)
	put(m, "audienceName", v.AudienceName)
	put(m, "journeyStage", v.JourneyStage)
	put(m, "introPov", v.IntroPOV)
	put(m, "callToAction", v.CallToAction)
	putList(m, "narrativeAnchors", v.NarrativeAnchors)
	put(m, "successStory", v.SuccessStory)
	put(m, "sections", v.Sections)
	put(m, "fullOutline", v.FullOutline)
	put(m, "introContent", v.IntroContent)
	put(m, "bodyContent", v.BodyContent)
	return m
}

// put binds non-blank values only, so missing inputs render as
// prompts.NotProvided.
func put(m prompts.Vars, name, value string) {
	if strings.TrimSpace(value) != "" {
		m[name] = value
	}
}

func putList(m prompts.Vars, name string, values []string) {
	var kept []string
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			kept = append(kept, v)
		}
	}
	if len(kept) > 0 {
		m[name] = kept
	}
}

// renderContext resolves catalog references of a brief once per
// generation.
type renderContext struct {
	b   *brief.Brief
	cat catalog.Catalog
}

func (c renderContext) audience() (name, desc string) {
	if a, ok := c.cat.Audience(c.b.PrimaryAudienceID); ok {
		return a.Name, a.Description
	}
	return c.b.PrimaryAudienceID, ""
}

func (c renderContext) broaderAudience() string {
	if a, ok := c.cat.Audience(c.b.BroaderAudienceID); ok {
		return a.Name
	}
	return c.b.BroaderAudienceID
}

func (c renderContext) anchors() []string {
	out := make([]string, 0, len(c.b.Anchors))
	for _, a := range c.b.Anchors {
		if strings.TrimSpace(a.Content) == "" {
			continue
		}
		out = append(out, fmt.Sprintf("%s: %s", a.Type, a.Content))
	}
	return out
}

func (c renderContext) successStory() string {
	if s, ok := c.cat.SuccessStory(c.b.SuccessStoryID); ok {
		return catalog.FormatStory(s)
	}
	return ""
}

func (c renderContext) businessContext() string {
	bc := c.b.BusinessContext
	if t := outline.AssetType(bc.Type); t.Valid() {
		if text, ok := c.cat.Describe(t, bc.ItemID); ok {
			return text
		}
	}
	if bc.ItemID != "" {
		return bc.Type + ": " + bc.ItemID
	}
	return bc.Type
}

func (c renderContext) headline() string {
	if h, ok := c.b.SelectedHeadline(); ok {
		return h.Text
	}
	return ""
}

func (c renderContext) discovery() DiscoveryVars {
	name, desc := c.audience()
	return DiscoveryVars{
		Trigger:             c.b.Trigger,
		MutualGoal:          c.b.MutualGoal,
		TargetKeyword:       c.b.TargetKeyword,
		BusinessContext:     c.businessContext(),
		PublishReason:       c.b.PublishReason,
		CallToAction:        c.b.CallToAction,
		AudienceName:        name,
		AudienceDescription: desc,
		JourneyStage:        string(c.b.JourneyStage),
		BroaderAudience:     c.broaderAudience(),
		ReadingTrigger:      c.b.ReadingTrigger,
		NarrativeAnchors:    c.anchors(),
		SuccessStory:        c.successStory(),
	}
}

func (c renderContext) headlines() HeadlineVars {
	name, _ := c.audience()
	return HeadlineVars{
		TargetKeyword:     c.b.TargetKeyword,
		Trigger:           c.b.Trigger,
		MutualGoal:        c.b.MutualGoal,
		AudienceName:      name,
		JourneyStage:      string(c.b.JourneyStage),
		NarrativeAnchors:  c.anchors(),
		RelatedKeywords:   c.b.RelatedKeywords,
		SearchQueries:     c.b.SearchQueries,
		ProblemStatements: c.b.ProblemStatements,
		CallToAction:      c.b.CallToAction,
	}
}

// outline builds the skeleton variables. headline overrides the selected
// headline when the skeleton is generated alongside new headlines.
func (c renderContext) outline(headline string) OutlineVars {
	name, _ := c.audience()
	if headline == "" {
		headline = c.headline()
	}
	var existing []string
	for _, s := range c.b.Outline.Sections {
		existing = append(existing, fmt.Sprintf("%s (%s)", s.Title, s.Phase))
	}
	return OutlineVars{
		Headline:          headline,
		TargetKeyword:     c.b.TargetKeyword,
		Trigger:           c.b.Trigger,
		MutualGoal:        c.b.MutualGoal,
		AudienceName:      name,
		JourneyStage:      string(c.b.JourneyStage),
		NarrativeAnchors:  c.anchors(),
		ProblemStatements: c.b.ProblemStatements,
		SuccessStory:      c.successStory(),
		IntroPOV:          c.b.IntroPOV,
		CallToAction:      c.b.CallToAction,
		ExistingSections:  existing,
	}
}

func (c renderContext) content(t Target) ContentVars {
	name, _ := c.audience()
	return ContentVars{
		Headline:         c.headline(),
		TargetKeyword:    c.b.TargetKeyword,
		MutualGoal:       c.b.MutualGoal,
		AudienceName:     name,
		JourneyStage:     string(c.b.JourneyStage),
		IntroPOV:         c.b.IntroPOV,
		CallToAction:     c.b.CallToAction,
		NarrativeAnchors: c.anchors(),
		SuccessStory:     c.successStory(),
		Sections:         c.sections(c.b.Outline.ForPhase(t.sectionPhase())),
		FullOutline:      c.fullOutline(),
		IntroContent:     c.b.IntroContent,
		BodyContent:      c.b.BodyContent,
	}
}

// sections renders outline sections with their context and linked asset.
func (c renderContext) sections(secs []outline.Section) string {
	var b strings.Builder
	for _, s := range secs {
		fmt.Fprintf(&b, "%s %s [%s]\n", s.Level.Markdown(), s.Title, s.PhaseSteps)
		if ctx := strings.TrimSpace(s.Context); ctx != "" {
			fmt.Fprintf(&b, "   Author notes: %s\n", ctx)
		}
		if s.Asset != nil {
			if text, ok := c.cat.Describe(s.Asset.AssetType, s.Asset.AssetID); ok {
				fmt.Fprintf(&b, "   Weave in: %s\n", text)
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (c renderContext) fullOutline() string {
	var lines []string
	for _, s := range c.b.Outline.Sections {
		lines = append(lines, fmt.Sprintf("- [%s] %s", s.Phase, s.Title))
	}
	return strings.Join(lines, "\n")
}
