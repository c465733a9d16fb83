package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jorge-barreto/narrate/internal/brief"
	"github.com/jorge-barreto/narrate/internal/outline"
)

const sample = `strategy:
  category-pov: Content should be a story, not a stream.
  unique-insight: Buyers remember tension, not features.
  company-mission: Make every team a storytelling team.
audiences:
  - id: cmo
    name: Chief Marketing Officer
    description: Owns pipeline and brand
    script:
      - id: b1
        type: belief
        content: Brand and demand are one motion
      - id: p1
        type: pain
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
use-cases:
  - id: u1
    name: Launch campaigns
differentiators: []
`

func TestParse_Sample(t *testing.T) {
	c, err := Parse([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}
	a, ok := c.Audience("cmo")
	if !ok || a.Name != "Chief Marketing Officer" || len(a.Script) != 2 {
		t.Fatalf("audience = %+v", a)
	}
	it, ok := a.Item("p1")
	if !ok || it.Content != "Content volume without impact" {
		t.Fatalf("item = %+v", it)
	}
	if _, ok := c.Audience("cfo"); ok {
		t.Fatal("unexpected audience")
	}
	if len(c.Audiences()) != 1 {
		t.Fatalf("audiences = %d", len(c.Audiences()))
	}
}

func TestDescribe(t *testing.T) {
	c, _ := Parse([]byte(sample))
	cases := []struct {
		typ  outline.AssetType
		id   string
		want string
	}{
		{outline.AssetCategoryPOV, "", "Category point of view: Content should be a story, not a stream."},
		{outline.AssetSuccessStory, "s1", "Doubling demo requests (Acme): Acme rebuilt its blog around three narratives."},
		{outline.AssetFeature, "f1", "Feature: Narrative builder. Guided outlines from strategy"},
		{outline.AssetUseCase, "u1", "Use case: Launch campaigns"},
	}
	for _, tc := range cases {
		got, ok := c.Describe(tc.typ, tc.id)
		if !ok || got != tc.want {
			t.Fatalf("%s/%s: got %q, %v", tc.typ, tc.id, got, ok)
		}
	}
	if _, ok := c.Describe(outline.AssetDifferentiator, "d1"); ok {
		t.Fatal("missing differentiator resolved")
	}
	if _, ok := Empty.Describe(outline.AssetCompanyMission, ""); ok {
		t.Fatal("empty strategy text resolved")
	}
}

func TestParse_Errors(t *testing.T) {
	cases := map[string]string{
		"duplicate audience": "audiences:\n  - id: a\n  - id: a\n",
		"bad script type":    "audiences:\n  - id: a\n    script:\n      - id: x\n        type: hope\n",
		"duplicate item":     "audiences:\n  - id: a\n    script:\n      - id: x\n        type: pain\n      - id: x\n        type: pain\n",
		"feature without id": "features:\n  - name: n\n",
		"bad yaml":           "audiences: [",
	}
	for name, data := range cases {
		if _, err := Parse([]byte(data)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	os.WriteFile(path, []byte(sample), 0644)
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if s, ok := c.SuccessStory("s1"); !ok || s.Customer != "Acme" {
		t.Fatalf("story = %+v", s)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil || !strings.Contains(err.Error(), "nope.yaml") {
		t.Fatalf("got %v", err)
	}
}

func TestNewAnchor(t *testing.T) {
	c, err := Parse([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}
	b := brief.New()
	if _, err := NewAnchor(c, b, "p1"); !errors.Is(err, ErrNoAudience) {
		t.Fatalf("err = %v", err)
	}
	b.PrimaryAudienceID = "cmo"
	a, err := NewAnchor(c, b, "p1")
	if err != nil {
		t.Fatal(err)
	}
	if a.Type != brief.AnchorPain || a.Content != "Content volume without impact" {
		t.Fatalf("anchor = %+v", a)
	}
	b.AddAnchor(a)
	if _, err := NewAnchor(c, b, "p1"); !errors.Is(err, ErrAlreadyAnchored) {
		t.Fatalf("err = %v", err)
	}
	if _, err := NewAnchor(c, b, "zz"); !errors.Is(err, ErrUnknownItem) {
		t.Fatalf("err = %v", err)
	}
}
