package docs

import (
	"strings"
	"testing"

	"github.com/jorge-barreto/narrate/internal/pipeline"
	"github.com/jorge-barreto/narrate/internal/prompts"
)

func TestAll_TopicsComplete(t *testing.T) {
	seen := make(map[string]bool)
	for _, topic := range All() {
		if seen[topic.Name] {
			t.Errorf("duplicate topic name: %q", topic.Name)
		}
		seen[topic.Name] = true
		if topic.Title == "" || topic.Summary == "" || topic.Content == "" {
			t.Errorf("topic %q has an empty field", topic.Name)
		}
	}
	if All()[0].Name != "quickstart" {
		t.Errorf("first topic = %q, want quickstart", All()[0].Name)
	}
}

func TestTemplates_ListsEveryCategory(t *testing.T) {
	topic, err := Get("templates")
	if err != nil {
		t.Fatal(err)
	}
	for _, cat := range prompts.Categories() {
		if !strings.Contains(topic.Content, string(cat)) {
			t.Errorf("templates topic does not mention %s", cat)
		}
	}
}

func TestPipeline_ListsEveryTarget(t *testing.T) {
	topic, err := Get("pipeline")
	if err != nil {
		t.Fatal(err)
	}
	for _, target := range pipeline.Targets() {
		if !strings.Contains(topic.Content, string(target)) {
			t.Errorf("pipeline topic does not mention %s", target)
		}
	}
}

func TestQuickstart_ListsCommands(t *testing.T) {
	topic, err := Get("quickstart")
	if err != nil {
		t.Fatal(err)
	}
	for _, cmd := range []string{"init", "new", "set", "advance", "back-to-outline", "regenerate", "drafts", "export", "serve"} {
		if !strings.Contains(topic.Content, "narrate "+cmd) {
			t.Errorf("quickstart does not mention 'narrate %s'", cmd)
		}
	}
}

func TestGet_AliasesAndPrefixes(t *testing.T) {
	cases := map[string]string{
		"pipeline":  "pipeline",
		"Pipeline":  "pipeline",
		"prompts":   "templates",
		"autosave":  "drafts",
		" http ":    "api",
		"temp":      "templates",
		"quick":     "quickstart",
		"audiences": "catalog",
	}
	for query, want := range cases {
		got, err := Get(query)
		if err != nil {
			t.Errorf("%q: %v", query, err)
			continue
		}
		if got.Name != want {
			t.Errorf("%q: got %q, want %q", query, got.Name, want)
		}
	}
}

func TestGet_AmbiguousPrefix(t *testing.T) {
	_, err := Get("c")
	if err == nil || !strings.Contains(err.Error(), "catalog, config") {
		t.Fatalf("got %v", err)
	}
}

func TestAliases_Unique(t *testing.T) {
	seen := make(map[string]string)
	for _, topic := range All() {
		seen[topic.Name] = topic.Name
	}
	for _, topic := range All() {
		for _, a := range topic.Aliases {
			if other, ok := seen[a]; ok {
				t.Errorf("alias %q of %s collides with %s", a, topic.Name, other)
			}
			seen[a] = topic.Name
		}
	}
}

func TestGet_NotFound(t *testing.T) {
	_, err := Get("nonexistent")
	if err == nil || !strings.Contains(err.Error(), "narrate docs") {
		t.Fatalf("got %v", err)
	}
}
