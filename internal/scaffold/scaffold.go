package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jorge-barreto/narrate/internal/config"
	"github.com/jorge-barreto/narrate/internal/ux"
)

const configTemplate = `name: %s

llm:
  # openai, command, or mock (offline, canned replies)
  provider: openai
  model: gpt-4o-mini
  api-key-env: OPENAI_API_KEY
  timeout: 90s

generation:
  default:
    max-tokens: 1500
    temperature: 0.7

autosave:
  backend: file
  debounce: 3s
  retention: 3

catalog: .narrate/catalog.yaml
`

const catalogTemplate = `strategy:
  category-pov: Replace with the point of view your category is missing.
  unique-insight: Replace with what you know that competitors do not.
  company-mission: Replace with your mission statement.

audiences:
  - id: example-buyer
    name: Example Buyer
    description: Who they are and what they own
    script:
      - id: belief-1
        type: belief
        content: What they believe about the problem today
      - id: pain-1
        type: pain
        content: What hurts
      - id: struggle-1
        type: struggle
        content: What they have tried that did not work
      - id: transformation-1
        type: transformation
        content: What changes once the problem is solved

success-stories:
  - id: story-1
    title: A customer outcome worth retelling
    customer: Example Co
    summary: One or two sentences with a concrete result.

features: []
use-cases: []
differentiators: []
`

const gitignoreTemplate = `session.json
drafts/
artifacts/
`

// Init creates a new .narrate/ directory with a starter config, catalog
// and .gitignore. name defaults to the directory's base name.
func Init(targetDir, name string) error {
	dir := filepath.Join(targetDir, config.Dir)
	if _, err := os.Stat(dir); err == nil {
		return fmt.Errorf("%s directory already exists in %s", config.Dir, targetDir)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", config.Dir, err)
	}

	if strings.TrimSpace(name) == "" {
		abs, err := filepath.Abs(targetDir)
		if err != nil {
			return err
		}
		name = filepath.Base(abs)
	}

	files := []struct {
		name, content string
	}{
		{"config.yaml", fmt.Sprintf(configTemplate, quote(name))},
		{"catalog.yaml", catalogTemplate},
		{".gitignore", gitignoreTemplate},
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(dir, f.name), []byte(f.content), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", f.name, err)
		}
	}

	fmt.Printf("\n%s%s✓ Initialized %s/ directory%s\n\n", ux.Bold, ux.Green, config.Dir, ux.Reset)
	fmt.Printf("  Created:\n")
	fmt.Printf("    %s.narrate/config.yaml%s   project configuration\n", ux.Cyan, ux.Reset)
	fmt.Printf("    %s.narrate/catalog.yaml%s  audiences, stories and assets\n", ux.Cyan, ux.Reset)
	fmt.Printf("    %s.narrate/.gitignore%s    keeps sessions and drafts out of git\n\n", ux.Cyan, ux.Reset)
	fmt.Printf("  Next steps:\n")
	fmt.Printf("    1. Describe your audiences in %s.narrate/catalog.yaml%s\n", ux.Cyan, ux.Reset)
	fmt.Printf("    2. Put OPENAI_API_KEY in %s.env%s (or set llm.provider: mock)\n", ux.Cyan, ux.Reset)
	fmt.Printf("    3. Run %snarrate new%s to start a session\n\n", ux.Cyan, ux.Reset)
	return nil
}

// quote returns name as a YAML scalar safe for the config template.
func quote(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}
