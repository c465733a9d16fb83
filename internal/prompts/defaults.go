package prompts

import "time"

// builtinTime stamps the built-in templates so exports are reproducible.
var builtinTime = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

const discoveryTemplate = `You are a B2B content strategist preparing a long-form narrative.

Strategic brief:
- Trigger / thesis: {{trigger}}
- Mutual goal: {{mutualGoal}}
- Target keyword: {{targetKeyword}}
- Business context: {{businessContext}}
- Why publish now: {{publishReason}}
- Call to action: {{callToAction}}

Audience:
- Primary audience: {{audienceName}} ({{audienceDescription}})
- Journey stage: {{journeyStage}}
- Broader audience: {{broaderAudience}}
- What makes them read: {{readingTrigger}}
- Narrative anchors: {{narrativeAnchors}}
- Proof point: {{successStory}}

Suggest discovery triggers for this piece. Respond with JSON only:
{"relatedKeywords": ["..."], "searchQueries": ["..."], "problemStatements": ["..."]}
Give 5 to 8 entries per list.`

const headlineTemplate = `Write headline options for a long-form article.

Target keyword: {{targetKeyword}}
Thesis: {{trigger}}
Mutual goal: {{mutualGoal}}
Audience: {{audienceName}} at the {{journeyStage}} stage
Narrative anchors: {{narrativeAnchors}}
Related keywords: {{relatedKeywords}}
Search queries: {{searchQueries}}
Problem statements: {{problemStatements}}
Call to action: {{callToAction}}

Respond with JSON only: {"headlines": ["..."]}
Give 5 options. Each must include the target keyword or a close variant.`

const outlineTemplate = `Build the outline for an article titled "{{headline}}".

The outline follows three acts:
- resonance: earn attention by naming the reader's world and tension
- relevance: connect the insight and approach to the reader's problem
- results: show outcomes, proof and the next step

Brief:
- Target keyword: {{targetKeyword}}
- Thesis: {{trigger}}
- Mutual goal: {{mutualGoal}}
- Audience: {{audienceName}} ({{journeyStage}})
- Narrative anchors: {{narrativeAnchors}}
- Problem statements: {{problemStatements}}
- Proof point: {{successStory}}
- Author point of view for the introduction: {{introPov}}
- Call to action: {{callToAction}}
- Existing sections to respect: {{existingSections}}

Respond with JSON only:
{"sections": [{"title": "...", "level": "h2", "phase": "resonance", "context": "..."}]}
Use levels h2, h3 or h4 and phases resonance, relevance or results.`

const introTemplate = `Write the introduction of the article "{{headline}}".

Audience: {{audienceName}} at the {{journeyStage}} stage.
Target keyword: {{targetKeyword}}
Author point of view: {{introPov}}
Narrative anchors: {{narrativeAnchors}}

Resonance sections to open with:
{{sections}}

Full outline for orientation:
{{fullOutline}}

Respond with JSON only: {"content": "<markdown>"}`

const bodyTemplate = `Write the body of the article "{{headline}}".

Audience: {{audienceName}} at the {{journeyStage}} stage.
Target keyword: {{targetKeyword}}
Narrative anchors: {{narrativeAnchors}}
Proof point: {{successStory}}

The introduction already reads:
{{introContent}}

Relevance sections to cover, in order, using the linked assets:
{{sections}}

Respond with JSON only: {"content": "<markdown>"}`

const conclusionTemplate = `Write the conclusion of the article "{{headline}}".

Audience: {{audienceName}} at the {{journeyStage}} stage.
Mutual goal: {{mutualGoal}}
Proof point: {{successStory}}
Call to action: {{callToAction}}

The body ends with:
{{bodyContent}}

Results sections to land, in order:
{{sections}}

Close with the call to action. Respond with JSON only: {"content": "<markdown>"}`

func builtin(cat Category, name, desc, body string) Template {
	return Template{
		ID:          "default-" + string(cat),
		Name:        name,
		Description: desc,
		Template:    body,
		Variables:   Placeholders(body),
		Category:    cat,
		IsActive:    true,
		CreatedAt:   builtinTime,
		UpdatedAt:   builtinTime,
	}
}

// Defaults returns a fresh copy of the built-in template set.
func Defaults() map[Category]Template {
	return map[Category]Template{
		CategoryDiscovery: builtin(CategoryDiscovery, "Discovery triggers",
			"Suggests related keywords, search queries and problem statements.", discoveryTemplate),
		CategoryHeadlines: builtin(CategoryHeadlines, "Headline options",
			"Proposes headlines built around the target keyword.", headlineTemplate),
		CategoryOutline: builtin(CategoryOutline, "Outline skeleton",
			"Builds a three-act outline of phase-tagged sections.", outlineTemplate),
		CategoryIntro: builtin(CategoryIntro, "Introduction",
			"Drafts the introduction from the resonance sections.", introTemplate),
		CategoryBody: builtin(CategoryBody, "Body",
			"Drafts the body from the relevance sections.", bodyTemplate),
		CategoryConclusion: builtin(CategoryConclusion, "Conclusion",
			"Drafts the conclusion from the results sections.", conclusionTemplate),
	}
}
