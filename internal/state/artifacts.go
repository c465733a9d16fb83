package state

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// EnsureDir creates the artifacts directory structure.
func EnsureDir(artifactsDir string) error {
	dirs := []string{
		artifactsDir,
		filepath.Join(artifactsDir, "prompts"),
		filepath.Join(artifactsDir, "responses"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0755); err != nil {
			return fmt.Errorf("creating artifacts dir %s: %w", d, err)
		}
	}
	return nil
}

// PromptPath returns the path for the rendered prompt of the seq-th
// generation call of a target.
func PromptPath(artifactsDir, target string, seq int) string {
	return filepath.Join(artifactsDir, "prompts", fmt.Sprintf("%03d-%s.md", seq, target))
}

// ResponsePath returns the path for the raw service response of the
// seq-th generation call of a target.
func ResponsePath(artifactsDir, target string, seq int) string {
	return filepath.Join(artifactsDir, "responses", fmt.Sprintf("%03d-%s.txt", seq, target))
}

// Recorder writes rendered prompts and raw responses for inspection.
type Recorder struct {
	Dir string
}

// Record saves prompt and response for the seq-th call. An empty response
// is not written.
func (r *Recorder) Record(target string, seq int, prompt, response string) error {
	if err := EnsureDir(r.Dir); err != nil {
		return err
	}
	if err := os.WriteFile(PromptPath(r.Dir, target, seq), []byte(prompt), 0644); err != nil {
		return err
	}
	if response == "" {
		return nil
	}
	return os.WriteFile(ResponsePath(r.Dir, target, seq), []byte(response), 0644)
}

// Prompts lists recorded prompt files, oldest first.
func (r *Recorder) Prompts() ([]string, error) {
	m, err := filepath.Glob(filepath.Join(r.Dir, "prompts", "*.md"))
	if err != nil {
		return nil, err
	}
	sort.Strings(m)
	return m, nil
}
