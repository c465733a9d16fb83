package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Dir is the project directory that holds config, session and drafts.
const Dir = ".narrate"

// LLM selects and configures the generative text service.
type LLM struct {
	Provider  string        `yaml:"provider"`
	Model     string        `yaml:"model"`
	BaseURL   string        `yaml:"base-url"`
	APIKeyEnv string        `yaml:"api-key-env"`
	Command   []string      `yaml:"command"`
	Timeout   time.Duration `yaml:"timeout"`
}

// Generation holds per-category sampling options.
type Generation struct {
	MaxTokens   int      `yaml:"max-tokens"`
	Temperature *float64 `yaml:"temperature"`
}

// Autosave configures the draft store and snapshot cadence.
type Autosave struct {
	Backend   string        `yaml:"backend"`
	Debounce  time.Duration `yaml:"debounce"`
	Retention int           `yaml:"retention"`
	Dir       string        `yaml:"dir"`
	RedisAddr string        `yaml:"redis-addr"`
	RedisDB   int           `yaml:"redis-db"`
	Quota     int64         `yaml:"quota"`
}

type Config struct {
	Name       string                `yaml:"name"`
	LLM        LLM                   `yaml:"llm"`
	Generation map[string]Generation `yaml:"generation"`
	Autosave   Autosave              `yaml:"autosave"`
	Catalog    string                `yaml:"catalog"`
	Templates  string                `yaml:"templates"`
}

// Load reads a YAML config file and returns a validated Config.
func Load(path, projectRoot string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if err := Validate(&cfg, projectRoot); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadEnv loads projectRoot/.env into the process environment without
// overriding variables that are already set. A missing file is not an error.
func LoadEnv(projectRoot string) error {
	err := godotenv.Load(filepath.Join(projectRoot, ".env"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// APIKey returns the service key from the configured environment variable.
func (c *Config) APIKey() string {
	return os.Getenv(c.LLM.APIKeyEnv)
}

// GenerationFor returns the sampling options for a template category,
// falling back to the "default" entry.
func (c *Config) GenerationFor(category string) Generation {
	g, ok := c.Generation[category]
	if !ok {
		return c.Generation["default"]
	}
	if g.MaxTokens == 0 {
		g.MaxTokens = c.Generation["default"].MaxTokens
	}
	if g.Temperature == nil {
		g.Temperature = c.Generation["default"].Temperature
	}
	return g
}

// Path resolves p against projectRoot unless it is absolute.
func Path(projectRoot, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(projectRoot, p)
}

// ConfigPath returns the config file location for a project.
func ConfigPath(projectRoot string) string {
	return filepath.Join(projectRoot, Dir, "config.yaml")
}

// SessionPath returns the active session file for a project.
func SessionPath(projectRoot string) string {
	return filepath.Join(projectRoot, Dir, "session.json")
}

// ArtifactsDir returns the directory for prompt and response artifacts.
func ArtifactsDir(projectRoot string) string {
	return filepath.Join(projectRoot, Dir, "artifacts")
}
