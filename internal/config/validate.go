package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jorge-barreto/narrate/internal/prompts"
)

var validProviders = map[string]bool{
	"openai":  true,
	"command": true,
	"mock":    true,
}

var validBackends = map[string]bool{
	"file":  true,
	"redis": true,
	"none":  true,
}

// Validate checks the config for errors and sets defaults.
func Validate(cfg *Config, projectRoot string) error {
	if cfg.Name == "" {
		return fmt.Errorf("config: 'name' is required")
	}

	l := &cfg.LLM
	if l.Provider == "" {
		l.Provider = "openai"
	}
	if !validProviders[l.Provider] {
		return fmt.Errorf("config: llm: unknown provider %q (must be openai, command, or mock)", l.Provider)
	}
	switch l.Provider {
	case "openai":
		if l.Model == "" {
			l.Model = "gpt-4o-mini"
		}
		if l.APIKeyEnv == "" {
			l.APIKeyEnv = "OPENAI_API_KEY"
		}
	case "command":
		if len(l.Command) == 0 || strings.TrimSpace(l.Command[0]) == "" {
			return fmt.Errorf("config: llm: 'command' is required for the command provider")
		}
	}
	if l.Timeout < 0 {
		return fmt.Errorf("config: llm: timeout must be >= 0")
	}
	if l.Timeout == 0 {
		l.Timeout = 90 * time.Second
	}

	for key, g := range cfg.Generation {
		if key != "default" && !prompts.Category(key).Valid() {
			return fmt.Errorf("config: generation: unknown category %q", key)
		}
		if g.MaxTokens < 0 {
			return fmt.Errorf("config: generation %q: max-tokens must be >= 0", key)
		}
		if g.Temperature != nil && (*g.Temperature < 0 || *g.Temperature > 2) {
			return fmt.Errorf("config: generation %q: temperature must be between 0 and 2", key)
		}
	}

	a := &cfg.Autosave
	if a.Backend == "" {
		a.Backend = "file"
	}
	if !validBackends[a.Backend] {
		return fmt.Errorf("config: autosave: unknown backend %q (must be file, redis, or none)", a.Backend)
	}
	if a.Debounce < 0 {
		return fmt.Errorf("config: autosave: debounce must be >= 0")
	}
	if a.Debounce == 0 {
		a.Debounce = 3 * time.Second
	}
	if a.Retention < 0 {
		return fmt.Errorf("config: autosave: retention must be >= 0")
	}
	if a.Retention == 0 {
		a.Retention = 3
	}
	if a.Quota < 0 {
		return fmt.Errorf("config: autosave: quota must be >= 0")
	}
	switch a.Backend {
	case "file":
		if a.Dir == "" {
			a.Dir = filepath.Join(Dir, "drafts")
		}
	case "redis":
		if a.RedisAddr == "" {
			a.RedisAddr = "localhost:6379"
		}
		if a.RedisDB < 0 {
			return fmt.Errorf("config: autosave: redis-db must be >= 0")
		}
	}

	if cfg.Catalog == "" {
		cfg.Catalog = filepath.Join(Dir, "catalog.yaml")
	}
	if _, err := os.Stat(Path(projectRoot, cfg.Catalog)); err != nil {
		return fmt.Errorf("config: catalog file %q not found", Path(projectRoot, cfg.Catalog))
	}
	if cfg.Templates != "" {
		if _, err := os.Stat(Path(projectRoot, cfg.Templates)); err != nil {
			return fmt.Errorf("config: templates file %q not found", Path(projectRoot, cfg.Templates))
		}
	}

	return nil
}
