package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/jorge-barreto/narrate/internal/config"
)

// ErrEmptyResponse is returned when the service answers with no text.
var ErrEmptyResponse = errors.New("llm: empty response")

// Options tunes a single generation call. Zero values leave the
// provider's defaults in place.
type Options struct {
	MaxTokens   int
	Temperature *float64
}

// Generator is the generative text service. Tests can substitute a fake.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts Options) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string, opts Options) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	return f(ctx, prompt, opts)
}

// New returns the generator selected by cfg.
func New(cfg config.LLM, apiKey string) (Generator, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAI(cfg.Model, apiKey, cfg.BaseURL)
	case "command":
		return NewCommand(cfg.Command, cfg.Model)
	case "mock":
		return &Mock{}, nil
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", cfg.Provider)
	}
}

// OptionsFrom converts per-category config into call options.
func OptionsFrom(g config.Generation) Options {
	return Options{MaxTokens: g.MaxTokens, Temperature: g.Temperature}
}
