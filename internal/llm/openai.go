package llm

import (
	"context"
	"errors"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const systemPrompt = "You are a senior B2B content strategist. Follow the requested output format exactly."

// OpenAI generates text with the chat completions API of any
// OpenAI-compatible endpoint.
type OpenAI struct {
	Model  string
	client openai.Client
}

func NewOpenAI(model, apiKey, baseURL string) (*OpenAI, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key missing; set the variable named by llm.api-key-env")
	}
	if model == "" {
		return nil, errors.New("llm model is required")
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAI{Model: model, client: openai.NewClient(opts...)}, nil
}

func (o *OpenAI) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
	}
	if opts.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(opts.MaxTokens))
	}
	if opts.Temperature != nil {
		params.Temperature = openai.Float(*opts.Temperature)
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}
