package llm

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"
)

const openRouterBaseURL = "https://openrouter.ai/api/v1"

var openaiAliases = aliases{
	"gpt":      "gpt-4o",
	"gpt-mini": "gpt-4o-mini",
}

// chatProvider completes prompts through the OpenAI chat completions API
// with a strict json_schema response format. OpenRouter serves the same API
// under another base URL, so both vendors share this type.
type chatProvider struct {
	name   string
	client *openai.Client
	model  string
}

func newOpenAI(cfg OpenAIConfig) (*chatProvider, error) {
	return newChat(ProviderOpenAI, cfg.APIKey, cfg.BaseURL, openaiAliases.resolve(cfg.Model))
}

// newOpenRouter uses the model ID verbatim: OpenRouter IDs are vendor/model
// paths that must not be remapped.
func newOpenRouter(cfg OpenRouterConfig) (*chatProvider, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = openRouterBaseURL
	}
	return newChat(ProviderOpenRouter, cfg.APIKey, baseURL, cfg.Model)
}

func newChat(name, apiKey, baseURL, model string) (*chatProvider, error) {
	if apiKey == "" {
		return nil, errMissingKey(name)
	}
	conf := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		conf.BaseURL = baseURL
	}
	return &chatProvider{
		name:   name,
		client: openai.NewClientWithConfig(conf),
		model:  model,
	}, nil
}

func (p *chatProvider) Model() string { return p.model }

func (p *chatProvider) Complete(ctx context.Context, pr Prompt) (*Completion, error) {
	if err := pr.check(); err != nil {
		return nil, err
	}

	req := openai.ChatCompletionRequest{
		Model:               p.model,
		Messages:            chatMessages(pr),
		MaxCompletionTokens: pr.maxTokens(),
		Temperature:         float32(pr.Temperature),
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:        pr.Schema.Name,
				Description: pr.Schema.Description,
				Schema:      pr.Schema.JSON(),
				Strict:      true,
			},
		},
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, p.fail(err)
	}
	if len(resp.Choices) == 0 {
		return nil, &Error{Provider: p.name, Kind: KindInvalidOutput, Err: errEmptyOutput}
	}

	choice := resp.Choices[0]
	out := []byte(choice.Message.Content)
	if choice.FinishReason == openai.FinishReasonLength {
		return nil, &Error{Provider: p.name, Kind: KindTruncated, Output: out}
	}

	usage := Usage{Input: resp.Usage.PromptTokens, Output: resp.Usage.CompletionTokens}
	return accept(p.name, pr, out, resp.Model, usage)
}

func chatMessages(pr Prompt) []openai.ChatCompletionMessage {
	msgs := make([]openai.ChatCompletionMessage, 0, 2)
	if pr.Instructions != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: pr.Instructions,
		})
	}
	return append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: pr.Input,
	})
}

func (p *chatProvider) fail(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return httpError(p.name, apiErr.HTTPStatusCode, nil, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return httpError(p.name, reqErr.HTTPStatusCode, nil, err)
	}
	return httpError(p.name, 0, nil, err)
}
