package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// Mock is an offline generator for local runs and tests. It answers every
// prompt with the same JSON document, which carries a key for each kind of
// structured output the pipeline asks for. Set Err to simulate a failure.
type Mock struct {
	Err error

	mu      sync.Mutex
	prompts []string
}

// MockResponse is the document Mock returns.
type MockResponse struct {
	RelatedKeywords   []string      `json:"relatedKeywords"`
	SearchQueries     []string      `json:"searchQueries"`
	ProblemStatements []string      `json:"problemStatements"`
	Headlines         []string      `json:"headlines"`
	Sections          []MockSection `json:"sections"`
	Content           string        `json:"content"`
}

type MockSection struct {
	Title   string `json:"title"`
	Level   string `json:"level"`
	Phase   string `json:"phase"`
	Context string `json:"context,omitempty"`
}

// DefaultMockResponse is the canned answer.
func DefaultMockResponse() MockResponse {
	return MockResponse{
		RelatedKeywords:   []string{"narrative marketing", "b2b storytelling", "content strategy"},
		SearchQueries:     []string{"how to build a content narrative", "what makes b2b content convert"},
		ProblemStatements: []string{"our content does not move pipeline", "every post sounds like every competitor"},
		Headlines: []string{
			"Why Your Content Strategy Needs a Narrative",
			"From Noise to Pipeline: A Story-First Playbook",
			"The Three-Act Structure Behind Content That Converts",
		},
		Sections: []MockSection{
			{Title: "The moment everything sounds the same", Level: "h2", Phase: "resonance"},
			{Title: "What buyers actually look for", Level: "h2", Phase: "relevance"},
			{Title: "A story-first operating model", Level: "h3", Phase: "relevance"},
			{Title: "What changes when the story lands", Level: "h2", Phase: "results"},
		},
		Content: "Every team publishes. Few teams are remembered. This draft was produced offline by the mock generator.",
	}
}

func (m *Mock) Generate(ctx context.Context, prompt string, _ Options) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	err := m.Err
	m.mu.Unlock()

	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := json.Marshal(DefaultMockResponse())
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Prompts returns the prompts received so far.
func (m *Mock) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}
