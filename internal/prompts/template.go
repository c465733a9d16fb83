package prompts

import "time"

// Category is a generation stage with exactly one active template.
type Category string

const (
	CategoryDiscovery  Category = "discovery_triggers"
	CategoryHeadlines  Category = "headline_generation"
	CategoryOutline    Category = "outline_generation"
	CategoryIntro      Category = "intro_generation"
	CategoryBody       Category = "body_generation"
	CategoryConclusion Category = "conclusion_generation"
)

// Categories returns every category in pipeline order.
func Categories() []Category {
	return []Category{
		CategoryDiscovery, CategoryHeadlines, CategoryOutline,
		CategoryIntro, CategoryBody, CategoryConclusion,
	}
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, k := range Categories() {
		if c == k {
			return true
		}
	}
	return false
}

// Template is a prompt with {{variable}} placeholders. Variables documents
// the names the template expects; rendering does not enforce it.
type Template struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Template    string    `json:"template"`
	Variables   []string  `json:"variables"`
	Category    Category  `json:"category"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (t Template) clone() Template {
	t.Variables = append([]string(nil), t.Variables...)
	return t
}

// Patch holds the fields Update merges into a template. Nil means unchanged.
type Patch struct {
	Name        *string   `json:"name,omitempty"`
	Description *string   `json:"description,omitempty"`
	Template    *string   `json:"template,omitempty"`
	Variables   *[]string `json:"variables,omitempty"`
	IsActive    *bool     `json:"isActive,omitempty"`
}

func (p Patch) apply(t Template) Template {
	t = t.clone()
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Template != nil {
		t.Template = *p.Template
	}
	if p.Variables != nil {
		t.Variables = append([]string(nil), (*p.Variables)...)
	}
	if p.IsActive != nil {
		t.IsActive = *p.IsActive
	}
	return t
}
