package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// projectWithCatalog returns a temp project root holding an empty catalog
// at the default location.
func projectWithCatalog(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	os.MkdirAll(filepath.Join(root, Dir), 0755)
	os.WriteFile(filepath.Join(root, Dir, "catalog.yaml"), []byte("audiences: []\n"), 0644)
	return root
}

func TestValidate_NameRequired(t *testing.T) {
	cfg := &Config{}
	if err := Validate(cfg, projectWithCatalog(t)); err == nil || !strings.Contains(err.Error(), "'name' is required") {
		t.Fatalf("expected name required error, got %v", err)
	}
}

func TestValidate_Defaults(t *testing.T) {
	cfg := &Config{Name: "blog"}
	if err := Validate(cfg, projectWithCatalog(t)); err != nil {
		t.Fatal(err)
	}
	if cfg.LLM.Provider != "openai" || cfg.LLM.Model != "gpt-4o-mini" || cfg.LLM.APIKeyEnv != "OPENAI_API_KEY" {
		t.Fatalf("llm = %+v", cfg.LLM)
	}
	if cfg.LLM.Timeout != 90*time.Second {
		t.Fatalf("timeout = %v", cfg.LLM.Timeout)
	}
	if cfg.Autosave.Backend != "file" || cfg.Autosave.Debounce != 3*time.Second || cfg.Autosave.Retention != 3 {
		t.Fatalf("autosave = %+v", cfg.Autosave)
	}
	if cfg.Autosave.Dir != filepath.Join(Dir, "drafts") {
		t.Fatalf("dir = %q", cfg.Autosave.Dir)
	}
}

func TestValidate_UnknownProvider(t *testing.T) {
	cfg := &Config{Name: "x", LLM: LLM{Provider: "carrier-pigeon"}}
	if err := Validate(cfg, projectWithCatalog(t)); err == nil || !strings.Contains(err.Error(), "unknown provider") {
		t.Fatalf("got %v", err)
	}
}

func TestValidate_CommandRequiresCommand(t *testing.T) {
	cfg := &Config{Name: "x", LLM: LLM{Provider: "command"}}
	if err := Validate(cfg, projectWithCatalog(t)); err == nil || !strings.Contains(err.Error(), "'command' is required") {
		t.Fatalf("got %v", err)
	}
	cfg = &Config{Name: "x", LLM: LLM{Provider: "command", Command: []string{"claude", "-p"}}}
	if err := Validate(cfg, projectWithCatalog(t)); err != nil {
		t.Fatal(err)
	}
}

func TestValidate_NegativeTimeout(t *testing.T) {
	cfg := &Config{Name: "x", LLM: LLM{Timeout: -time.Second}}
	if err := Validate(cfg, projectWithCatalog(t)); err == nil || !strings.Contains(err.Error(), "timeout") {
		t.Fatalf("got %v", err)
	}
}

func TestValidate_GenerationUnknownCategory(t *testing.T) {
	cfg := &Config{Name: "x", Generation: map[string]Generation{"poems": {}}}
	if err := Validate(cfg, projectWithCatalog(t)); err == nil || !strings.Contains(err.Error(), "unknown category") {
		t.Fatalf("got %v", err)
	}
}

func TestValidate_GenerationTemperatureRange(t *testing.T) {
	hot := 3.0
	cfg := &Config{Name: "x", Generation: map[string]Generation{"body_generation": {Temperature: &hot}}}
	if err := Validate(cfg, projectWithCatalog(t)); err == nil || !strings.Contains(err.Error(), "temperature") {
		t.Fatalf("got %v", err)
	}
}

func TestValidate_UnknownBackend(t *testing.T) {
	cfg := &Config{Name: "x", Autosave: Autosave{Backend: "tape"}}
	if err := Validate(cfg, projectWithCatalog(t)); err == nil || !strings.Contains(err.Error(), "unknown backend") {
		t.Fatalf("got %v", err)
	}
}

func TestValidate_RedisDefaults(t *testing.T) {
	cfg := &Config{Name: "x", Autosave: Autosave{Backend: "redis"}}
	if err := Validate(cfg, projectWithCatalog(t)); err != nil {
		t.Fatal(err)
	}
	if cfg.Autosave.RedisAddr != "localhost:6379" {
		t.Fatalf("addr = %q", cfg.Autosave.RedisAddr)
	}
}

func TestValidate_CatalogMissing(t *testing.T) {
	cfg := &Config{Name: "x"}
	if err := Validate(cfg, t.TempDir()); err == nil || !strings.Contains(err.Error(), "catalog file") {
		t.Fatalf("got %v", err)
	}
}

func TestValidate_TemplatesMissing(t *testing.T) {
	cfg := &Config{Name: "x", Templates: "prompts.json"}
	if err := Validate(cfg, projectWithCatalog(t)); err == nil || !strings.Contains(err.Error(), "templates file") {
		t.Fatalf("got %v", err)
	}
}

func TestLoad_FullConfig(t *testing.T) {
	root := projectWithCatalog(t)
	yaml := `name: launch-blog
llm:
  provider: openai
  model: gpt-4o
  base-url: http://localhost:8080/v1
  timeout: 45s
generation:
  default:
    max-tokens: 1200
    temperature: 0.7
  body_generation:
    max-tokens: 3000
autosave:
  backend: file
  debounce: 2s
  retention: 5
`
	path := filepath.Join(root, Dir, "config.yaml")
	os.WriteFile(path, []byte(yaml), 0644)

	cfg, err := Load(path, root)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LLM.Timeout != 45*time.Second || cfg.LLM.BaseURL != "http://localhost:8080/v1" {
		t.Fatalf("llm = %+v", cfg.LLM)
	}
	if cfg.Autosave.Debounce != 2*time.Second || cfg.Autosave.Retention != 5 {
		t.Fatalf("autosave = %+v", cfg.Autosave)
	}

	body := cfg.GenerationFor("body_generation")
	if body.MaxTokens != 3000 || body.Temperature == nil || *body.Temperature != 0.7 {
		t.Fatalf("body = %+v", body)
	}
	intro := cfg.GenerationFor("intro_generation")
	if intro.MaxTokens != 1200 {
		t.Fatalf("intro = %+v", intro)
	}
}

func TestLoadEnv(t *testing.T) {
	root := t.TempDir()
	if err := LoadEnv(root); err != nil {
		t.Fatalf("missing .env should be ignored, got %v", err)
	}
	os.WriteFile(filepath.Join(root, ".env"), []byte("NARRATE_TEST_KEY_XYZ=from-dotenv\n"), 0644)
	os.Unsetenv("NARRATE_TEST_KEY_XYZ")
	defer os.Unsetenv("NARRATE_TEST_KEY_XYZ")
	if err := LoadEnv(root); err != nil {
		t.Fatal(err)
	}
	cfg := &Config{LLM: LLM{APIKeyEnv: "NARRATE_TEST_KEY_XYZ"}}
	if cfg.APIKey() != "from-dotenv" {
		t.Fatalf("got %q", cfg.APIKey())
	}
}

func TestPath(t *testing.T) {
	if got := Path("/proj", "a/b"); got != filepath.Join("/proj", "a/b") {
		t.Fatalf("got %q", got)
	}
	if got := Path("/proj", "/abs"); got != "/abs" {
		t.Fatalf("got %q", got)
	}
}
