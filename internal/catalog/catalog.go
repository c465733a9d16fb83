package catalog

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jorge-barreto/narrate/internal/brief"
	"github.com/jorge-barreto/narrate/internal/outline"
)

// ScriptItem is one belief, pain, struggle or transformation in an
// audience's script. Narrative anchors reference items by ID.
type ScriptItem struct {
	ID      string           `yaml:"id" json:"id"`
	Type    brief.AnchorType `yaml:"type" json:"type"`
	Content string           `yaml:"content" json:"content"`
}

type Audience struct {
	ID          string       `yaml:"id" json:"id"`
	Name        string       `yaml:"name" json:"name"`
	Description string       `yaml:"description" json:"description"`
	Script      []ScriptItem `yaml:"script" json:"script"`
}

// Item finds a script item by ID.
func (a Audience) Item(id string) (ScriptItem, bool) {
	for _, it := range a.Script {
		if it.ID == id {
			return it, true
		}
	}
	return ScriptItem{}, false
}

type SuccessStory struct {
	ID       string `yaml:"id" json:"id"`
	Title    string `yaml:"title" json:"title"`
	Customer string `yaml:"customer" json:"customer"`
	Summary  string `yaml:"summary" json:"summary"`
}

// Entry is a feature, use case or differentiator.
type Entry struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
}

// Strategy holds the stand-alone strategic texts.
type Strategy struct {
	CategoryPOV    string `yaml:"category-pov" json:"categoryPOV"`
	UniqueInsight  string `yaml:"unique-insight" json:"uniqueInsight"`
	CompanyMission string `yaml:"company-mission" json:"companyMission"`
}

// Catalog answers read-only lookups for prompt assembly and UI pickers.
type Catalog interface {
	Audiences() []Audience
	Audience(id string) (Audience, bool)
	SuccessStory(id string) (SuccessStory, bool)
	// Describe renders the asset of type t with id as prompt text.
	// Strategic types ignore id.
	Describe(t outline.AssetType, id string) (string, bool)
}

// File is a Catalog loaded from YAML.
type File struct {
	Strategy        Strategy       `yaml:"strategy" json:"strategy"`
	AudienceList    []Audience     `yaml:"audiences" json:"audiences"`
	SuccessStories  []SuccessStory `yaml:"success-stories" json:"successStories"`
	Features        []Entry        `yaml:"features" json:"features"`
	UseCases        []Entry        `yaml:"use-cases" json:"useCases"`
	Differentiators []Entry        `yaml:"differentiators" json:"differentiators"`
}

// Load reads and validates a catalog file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes and validates catalog YAML.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *File) validate() error {
	seen := make(map[string]bool)
	for _, a := range f.AudienceList {
		if a.ID == "" {
			return fmt.Errorf("catalog: audience %q: 'id' is required", a.Name)
		}
		if seen[a.ID] {
			return fmt.Errorf("catalog: duplicate audience id %q", a.ID)
		}
		seen[a.ID] = true
		items := make(map[string]bool)
		for _, it := range a.Script {
			if it.ID == "" {
				return fmt.Errorf("catalog: audience %q: script item 'id' is required", a.ID)
			}
			if items[it.ID] {
				return fmt.Errorf("catalog: audience %q: duplicate script item %q", a.ID, it.ID)
			}
			items[it.ID] = true
			if !it.Type.Valid() {
				return fmt.Errorf("catalog: audience %q: item %q: unknown type %q (must be belief, pain, struggle, or transformation)", a.ID, it.ID, it.Type)
			}
		}
	}
	for kind, ids := range map[string][]string{
		"success story":  storyIDs(f.SuccessStories),
		"feature":        entryIDs(f.Features),
		"use case":       entryIDs(f.UseCases),
		"differentiator": entryIDs(f.Differentiators),
	} {
		seen := make(map[string]bool)
		for _, id := range ids {
			if id == "" {
				return fmt.Errorf("catalog: %s: 'id' is required", kind)
			}
			if seen[id] {
				return fmt.Errorf("catalog: duplicate %s id %q", kind, id)
			}
			seen[id] = true
		}
	}
	return nil
}

func (f *File) Audiences() []Audience {
	return append([]Audience(nil), f.AudienceList...)
}

func (f *File) Audience(id string) (Audience, bool) {
	for _, a := range f.AudienceList {
		if a.ID == id {
			return a, true
		}
	}
	return Audience{}, false
}

func (f *File) SuccessStory(id string) (SuccessStory, bool) {
	for _, s := range f.SuccessStories {
		if s.ID == id {
			return s, true
		}
	}
	return SuccessStory{}, false
}

func (f *File) Describe(t outline.AssetType, id string) (string, bool) {
	switch t {
	case outline.AssetCategoryPOV:
		return nonEmpty("Category point of view: "+f.Strategy.CategoryPOV, f.Strategy.CategoryPOV)
	case outline.AssetUniqueInsight:
		return nonEmpty("Unique insight: "+f.Strategy.UniqueInsight, f.Strategy.UniqueInsight)
	case outline.AssetCompanyMission:
		return nonEmpty("Company mission: "+f.Strategy.CompanyMission, f.Strategy.CompanyMission)
	case outline.AssetSuccessStory:
		s, ok := f.SuccessStory(id)
		if !ok {
			return "", false
		}
		return FormatStory(s), true
	case outline.AssetFeature:
		return describeEntry("Feature", f.Features, id)
	case outline.AssetUseCase:
		return describeEntry("Use case", f.UseCases, id)
	case outline.AssetDifferentiator:
		return describeEntry("Differentiator", f.Differentiators, id)
	}
	return "", false
}

// FormatStory renders a success story as one line of prompt text.
func FormatStory(s SuccessStory) string {
	var b strings.Builder
	b.WriteString(s.Title)
	if s.Customer != "" {
		fmt.Fprintf(&b, " (%s)", s.Customer)
	}
	if s.Summary != "" {
		b.WriteString(": ")
		b.WriteString(s.Summary)
	}
	return b.String()
}

func describeEntry(label string, entries []Entry, id string) (string, bool) {
	for _, e := range entries {
		if e.ID == id {
			if e.Description == "" {
				return fmt.Sprintf("%s: %s", label, e.Name), true
			}
			return fmt.Sprintf("%s: %s. %s", label, e.Name, e.Description), true
		}
	}
	return "", false
}

func nonEmpty(text, value string) (string, bool) {
	if strings.TrimSpace(value) == "" {
		return "", false
	}
	return text, true
}

func storyIDs(s []SuccessStory) []string {
	ids := make([]string, len(s))
	for i, x := range s {
		ids[i] = x.ID
	}
	return ids
}

func entryIDs(e []Entry) []string {
	ids := make([]string, len(e))
	for i, x := range e {
		ids[i] = x.ID
	}
	return ids
}

// Empty is a catalog with no entries.
var Empty Catalog = &File{}
