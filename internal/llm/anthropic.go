package llm

import (
	"context"
	"errors"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

var anthropicAliases = aliases{
	"claude-sonnet": "claude-sonnet-4-20250514",
	"claude-haiku":  "claude-haiku-4-5-20251001",
}

// anthropicProvider completes prompts through the Messages API with the
// reply format pinned to the prompt schema.
type anthropicProvider struct {
	client anthropic.Client
	model  string
}

// newAnthropic builds the provider. The SDK's own retries are turned off
// because Retrying owns that policy. opts are appended last, so tests can
// point the client at a local server.
func newAnthropic(cfg AnthropicConfig, opts ...option.RequestOption) (*anthropicProvider, error) {
	if cfg.APIKey == "" {
		return nil, errMissingKey(ProviderAnthropic)
	}
	base := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	return &anthropicProvider{
		client: anthropic.NewClient(append(base, opts...)...),
		model:  anthropicAliases.resolve(cfg.Model),
	}, nil
}

func (p *anthropicProvider) Model() string { return p.model }

func (p *anthropicProvider) Complete(ctx context.Context, pr Prompt) (*Completion, error) {
	if err := pr.check(); err != nil {
		return nil, err
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: int64(pr.maxTokens()),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(pr.Input)),
		},
		OutputConfig: anthropic.OutputConfigParam{
			Format: anthropic.JSONOutputFormatParam{Schema: pr.Schema.Definition},
		},
	}
	if pr.Instructions != "" {
		params.System = []anthropic.TextBlockParam{{Text: pr.Instructions}}
	}
	if pr.Temperature > 0 {
		params.Temperature = anthropic.Float(pr.Temperature)
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, anthropicError(err)
	}

	var text string
	for _, block := range msg.Content {
		if block.Type == "text" {
			text = block.Text
			break
		}
	}
	if msg.StopReason == "max_tokens" {
		return nil, &Error{Provider: ProviderAnthropic, Kind: KindTruncated, Output: []byte(text)}
	}

	usage := Usage{Input: int(msg.Usage.InputTokens), Output: int(msg.Usage.OutputTokens)}
	return accept(ProviderAnthropic, pr, []byte(text), string(msg.Model), usage)
}

func anthropicError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		var header http.Header
		if apiErr.Response != nil {
			header = apiErr.Response.Header
		}
		return httpError(ProviderAnthropic, apiErr.StatusCode, header, err)
	}
	return httpError(ProviderAnthropic, 0, nil, err)
}
