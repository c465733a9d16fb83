package scaffold

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jorge-barreto/narrate/internal/catalog"
	"github.com/jorge-barreto/narrate/internal/config"
)

func TestInit_CreatesDirectoryStructure(t *testing.T) {
	dir := t.TempDir()
	if err := Init(dir, "blog"); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	for _, path := range []string{
		".narrate",
		filepath.Join(".narrate", "config.yaml"),
		filepath.Join(".narrate", "catalog.yaml"),
		filepath.Join(".narrate", ".gitignore"),
	} {
		full := filepath.Join(dir, path)
		info, err := os.Stat(full)
		if err != nil {
			t.Fatalf("%s not created: %v", path, err)
		}
		if !info.IsDir() && info.Size() == 0 {
			t.Fatalf("%s is empty", path)
		}
	}
}

func TestInit_GeneratedConfigIsValid(t *testing.T) {
	dir := t.TempDir()
	if err := Init(dir, "it's mine"); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	cfg, err := config.Load(config.ConfigPath(dir), dir)
	if err != nil {
		t.Fatalf("config.Load failed on generated config: %v", err)
	}
	if cfg.Name != "it's mine" {
		t.Fatalf("Name = %q", cfg.Name)
	}
	if cfg.LLM.Provider != "openai" || cfg.Autosave.Retention != 3 {
		t.Fatalf("cfg = %+v", cfg)
	}
	if g := cfg.GenerationFor("intro_generation"); g.MaxTokens != 1500 {
		t.Fatalf("generation = %+v", g)
	}
}

func TestInit_GeneratedCatalogIsValid(t *testing.T) {
	dir := t.TempDir()
	if err := Init(dir, ""); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	c, err := catalog.Load(filepath.Join(dir, ".narrate", "catalog.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	a, ok := c.Audience("example-buyer")
	if !ok || len(a.Script) != 4 {
		t.Fatalf("audience = %+v", a)
	}

	cfg, err := config.Load(config.ConfigPath(dir), dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Name != filepath.Base(dir) {
		t.Fatalf("Name = %q", cfg.Name)
	}
}

func TestInit_FailsIfDirExists(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, ".narrate"), 0755); err != nil {
		t.Fatal(err)
	}

	err := Init(dir, "x")
	if err == nil {
		t.Fatal("expected error when .narrate already exists")
	}
	if !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected error containing 'already exists', got: %s", err)
	}
}
