package docs

var topics = []Topic{
	{
		Name:    "quickstart",
		Aliases: []string{"start", "getting-started"},
		Title:   "Quick Start",
		Summary: "Getting started with narrate",
		Content: topicQuickstart,
	},
	{
		Name:    "config",
		Aliases: []string{"configuration", "env"},
		Title:   "Configuration Reference",
		Summary: "Config file schema, fields, and defaults",
		Content: topicConfig,
	},
	{
		Name:    "pipeline",
		Aliases: []string{"steps", "phases"},
		Title:   "The Pipeline",
		Summary: "Brief steps, drafting phases, guards, and regeneration",
		Content: topicPipeline,
	},
	{
		Name:    "templates",
		Aliases: []string{"prompts"},
		Title:   "Prompt Templates",
		Summary: "Categories, variables, editing, import and export",
		Content: topicTemplates,
	},
	{
		Name:    "catalog",
		Aliases: []string{"audiences", "assets"},
		Title:   "Catalog File",
		Summary: "Audiences, success stories, and business assets",
		Content: topicCatalog,
	},
	{
		Name:    "drafts",
		Aliases: []string{"autosave", "artifacts"},
		Title:   "Drafts and Artifacts",
		Summary: "Auto-save, retention, restore, and .narrate/artifacts/",
		Content: topicDrafts,
	},
	{
		Name:    "api",
		Aliases: []string{"http", "serve"},
		Title:   "HTTP API",
		Summary: "Endpoints served by narrate serve",
		Content: topicAPI,
	},
}

const topicQuickstart = `Quick Start
===========

1. Initialize a project:

    cd your-project
    narrate init

   This creates .narrate/config.yaml, .narrate/catalog.yaml and a
   .narrate/.gitignore. Put OPENAI_API_KEY in .env or your environment,
   or set llm.provider to "mock" to try things offline.

2. Start a session and fill in the strategic brief:

    narrate new
    narrate set trigger "AI content all sounds the same"
    narrate set mutualGoal "content that builds pipeline"
    narrate set targetKeyword "narrative marketing"
    narrate set callToAction "book a demo"
    narrate advance

3. Pick the audience and anchor the story in their script:

    narrate set primaryAudienceId cmo
    narrate set journeyStage MOFU
    narrate anchor add p1
    narrate advance          # generates discovery triggers

4. Review the outline, then draft:

    narrate advance          # generates headlines and an outline
    narrate headline list
    narrate outline list
    narrate advance          # enters the outline phase
    narrate advance          # drafts the introduction

5. Check progress at any time, and export when done:

    narrate status
    narrate export --format html -o article.html

CLI Commands
------------

  narrate init                      Scaffold .narrate/ directory
  narrate new                       Start a new session
  narrate set <field> <value...>    Set a brief field
  narrate anchor add|rm|list        Manage narrative anchors
  narrate headline add|select|list  Manage headline options
  narrate outline <op>              Edit outline sections
  narrate advance                   Move one stage forward
  narrate back                      Move one stage back
  narrate back-to-outline           Return to the outline phase
  narrate regenerate <target>       Re-run a generation
  narrate status                    Show the session
  narrate templates <op>            Inspect and edit prompt templates
  narrate drafts list|restore       Auto-saved snapshots
  narrate export                    Write the article as Markdown or HTML
  narrate serve                     Serve the JSON API
  narrate docs [topic]              Show documentation
`

const topicConfig = `Configuration Reference
=======================

The project is configured in .narrate/config.yaml. Before it is read,
.env in the project root is loaded into the environment; variables that
are already set win.

Top-level fields
----------------

  name          string    Required. Project name.
  llm           object    Generative text service (see below).
  generation    map       Sampling options per template category.
  autosave      object    Draft store (see below).
  catalog       string    Catalog file. Default: .narrate/catalog.yaml.
                          Must exist.
  templates     string    Template overrides (JSON). Default:
                          .narrate/templates.json, created on first edit.

llm
---

  provider      string    "openai" (default), "command", or "mock".
  model         string    Model name. Default for openai: gpt-4o-mini.
  base-url      string    Any OpenAI-compatible endpoint.
  api-key-env   string    Variable holding the key. Default: OPENAI_API_KEY.
  command       list      For provider "command": argv of a program that
                          takes the prompt as its last argument and prints
                          the reply.
  timeout       duration  Per call. Default: 90s.

generation
----------

Keys are template categories (see 'narrate docs templates') or "default".

  max-tokens    int       Upper bound on reply length.
  temperature   float     0 to 2.

autosave
--------

  backend       string    "file" (default), "redis", or "none".
  debounce      duration  Quiet period before a snapshot. Default: 3s.
  retention     int       Snapshots kept per session. Default: 3.
  dir           string    File backend directory. Default: .narrate/drafts.
  quota         int       File backend size limit in bytes. 0 = none.
  redis-addr    string    Default: localhost:6379.
  redis-db      int       Redis database number.

Example Config
--------------

  name: acme-blog

  llm:
    provider: openai
    model: gpt-4o-mini
    timeout: 60s

  generation:
    default:
      max-tokens: 1200
    intro_generation:
      temperature: 0.9

  autosave:
    backend: redis
    redis-addr: localhost:6379
`

const topicPipeline = `The Pipeline
============

A session moves through four brief steps and then four drafting phases.
'narrate advance' is the only way forward; there are no jumps.

Brief steps
-----------

  1  strategic alignment   trigger, mutualGoal, targetKeyword, callToAction
  2  audience resonance    primaryAudienceId, journeyStage, one anchor
  3  discovery triggers    one entry in relatedKeywords, searchQueries
                           or problemStatements
  4  outline               a selected headline and one titled section

Each step can be left only when its fields are filled. Leaving step 2
generates the discovery lists; leaving step 3 generates headline options
and an outline skeleton.

Drafting phases
---------------

  outline → intro → body → conclusion → completed

Leaving the outline phase drafts the introduction, leaving the intro
drafts the body, and so on. A phase can be left only when its content is
non-empty. Sections tagged resonance feed the intro, relevance the body,
and results the conclusion.

Failures
--------

If the service fails or times out nothing changes; run the same command
again. If the reply cannot be parsed, the transition still happens, a
warning is printed, and the field keeps its previous value.

Merging
-------

  - discovery lists are replaced only by lists that came back non-empty
  - generated headlines replace earlier generated ones; yours are kept
  - the generated outline replaces yours only if you had none

Regeneration
------------

  narrate regenerate discovery|outline|intro|body|conclusion

Re-runs a generation you have already reached without moving. A
regenerated outline always replaces the current one.

Moving back
-----------

'narrate back' moves one stage back. 'narrate back-to-outline' returns
from any drafting phase to the outline. Neither generates anything.
`

const topicTemplates = `Prompt Templates
================

There is one active template per category:

  discovery_triggers      related keywords, search queries, problems
  headline_generation     headline options
  outline_generation      the outline skeleton
  intro_generation        introduction
  body_generation         body
  conclusion_generation   conclusion

Placeholders are written {{name}}. Names the pipeline does not supply,
and values that are empty, render as "[Not provided]". Lists are joined
with ", ".

Commands
--------

  narrate templates list
  narrate templates show <category>
  narrate templates edit <category> --file new.md
  narrate templates disable <category>     # keep the edit, use the default
  narrate templates reset [category]
  narrate templates export > templates.json
  narrate templates import templates.json

Edits are saved to the templates file. An import is validated in full
before anything changes: one bad entry rejects the whole file.

Variables
---------

  trigger, mutualGoal, targetKeyword, businessContext, publishReason,
  callToAction, audienceName, audienceDescription, journeyStage,
  broaderAudience, readingTrigger, narrativeAnchors, successStory,
  relatedKeywords, searchQueries, problemStatements, headline, introPov,
  existingSections, sections, fullOutline, introContent, bodyContent
`

const topicCatalog = `Catalog File
============

.narrate/catalog.yaml holds what the brief and outline refer to by id.

  strategy:
    category-pov: Content should be a story, not a stream.
    unique-insight: Buyers remember tension, not features.
    company-mission: Make every team a storytelling team.
  audiences:
    - id: cmo
      name: Chief Marketing Officer
      description: Owns pipeline and brand
      script:
        - id: p1
          type: pain          # belief, pain, struggle, transformation
          content: Content volume without impact
  success-stories:
    - id: s1
      title: Doubling demo requests
      customer: Acme
      summary: Acme rebuilt its blog around three narratives.
  features:
    - id: f1
      name: Narrative builder
      description: Guided outlines from strategy
  use-cases: []
  differentiators: []

Anchors
-------

'narrate anchor add <itemId>' links a script item of the primary audience.
Each item can back at most one anchor.

Asset links
-----------

An outline section can weave in one asset:

  narrate outline link <section> feature f1
  narrate outline link <section> categoryPOV

categoryPOV, uniqueInsight and companyMission take no id. success_story,
feature, use_case and differentiator need one.
`

const topicDrafts = `Drafts and Artifacts
====================

Auto-save
---------

After a meaningful change (trigger, goal, keyword, business context,
anchors, outline sections, generated content) the session is snapshotted
once the debounce period passes. The CLI writes any pending snapshot
before it exits. Only the newest snapshots (3 by default) are kept per
session.

  narrate drafts list [--all]
  narrate drafts restore <n|key>

Keys look like narrate:draft:<session>:<unix nanos>. A failed snapshot is
logged and otherwise ignored.

Artifacts
---------

  .narrate/
  ├── session.json               the active session
  ├── drafts/                    file backend snapshots
  └── artifacts/
      ├── prompts/
      │   ├── 001-discovery_triggers.md
      │   └── 002-headline_generation.md
      └── responses/
          ├── 001-discovery_triggers.txt
          └── 002-headline_generation.txt

Every rendered prompt and raw reply is kept, numbered in call order.
`

const topicAPI = `HTTP API
========

'narrate serve --addr :8080' serves the session as JSON.

  GET    /api/session
  POST   /api/session                         start a new session
  PUT    /api/session/fields/{field}          body: JSON value
  POST   /api/session/anchors                 {"sourceItemId": "p1"}
  DELETE /api/session/anchors/{index}
  POST   /api/session/headlines               {"text": "...", "select": true}
  PUT    /api/session/headlines/selected      {"id": "..."}
  POST   /api/session/advance
  POST   /api/session/retreat
  POST   /api/session/back-to-outline
  POST   /api/session/regenerate/{target}
  GET    /api/outline/sections
  POST   /api/outline/sections                {"after": "", "title": ...}
  PUT    /api/outline/sections/{id}           whole section
  PATCH  /api/outline/sections/{id}           {"field": "...", "value": "..."}
  DELETE /api/outline/sections/{id}
  POST   /api/outline/sections/{id}/up
  POST   /api/outline/sections/{id}/down
  GET    /api/templates
  GET    /api/templates/export
  POST   /api/templates/import
  PATCH  /api/templates/{category}
  DELETE /api/templates/{category}
  GET    /api/drafts
  POST   /api/drafts/restore                  {"key": "..."}
  GET    /api/export?format=markdown|html

Status codes
------------

  422  a stage is missing fields, or a value is invalid
  502  the generative text service failed; nothing changed
  409  a generation for the same target is already running, or the
       session moved while it ran
  404  unknown section, template, draft, or field
`
