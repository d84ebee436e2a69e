package llm

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

var geminiAliases = aliases{
	"gemini-flash": "gemini-2.0-flash",
	"gemini-pro":   "gemini-2.0-pro",
}

// geminiProvider completes prompts with GenerateContent, passing the prompt
// schema as a response schema.
type geminiProvider struct {
	client *genai.Client
	model  string
}

func newGemini(ctx context.Context, cfg GeminiConfig) (*geminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, errMissingKey(ProviderGemini)
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &geminiProvider{client: client, model: geminiAliases.resolve(cfg.Model)}, nil
}

func (p *geminiProvider) Model() string { return p.model }

func (p *geminiProvider) Complete(ctx context.Context, pr Prompt) (*Completion, error) {
	if err := pr.check(); err != nil {
		return nil, err
	}

	config := &genai.GenerateContentConfig{
		MaxOutputTokens:  int32(pr.maxTokens()),
		ResponseMIMEType: "application/json",
		ResponseSchema:   toGenaiSchema(pr.Schema.Definition),
	}
	if pr.Temperature > 0 {
		t := float32(pr.Temperature)
		config.Temperature = &t
	}
	if pr.Instructions != "" {
		config.SystemInstruction = genai.NewContentFromText(pr.Instructions, genai.RoleUser)
	}

	contents := []*genai.Content{genai.NewContentFromText(pr.Input, genai.RoleUser)}
	result, err := p.client.Models.GenerateContent(ctx, p.model, contents, config)
	if err != nil {
		return nil, geminiError(err)
	}

	out := []byte(result.Text())
	if len(result.Candidates) > 0 && result.Candidates[0].FinishReason == "MAX_TOKENS" {
		return nil, &Error{Provider: ProviderGemini, Kind: KindTruncated, Output: out}
	}

	var usage Usage
	if m := result.UsageMetadata; m != nil {
		usage = Usage{Input: int(m.PromptTokenCount), Output: int(m.CandidatesTokenCount)}
	}
	return accept(ProviderGemini, pr, out, p.model, usage)
}

var genaiTypes = map[string]genai.Type{
	"string":  genai.TypeString,
	"number":  genai.TypeNumber,
	"integer": genai.TypeInteger,
	"boolean": genai.TypeBoolean,
	"array":   genai.TypeArray,
	"object":  genai.TypeObject,
}

// toGenaiSchema converts the subset of JSON Schema wordiz schemas use.
// additionalProperties has no Gemini equivalent and is dropped; the reply is
// still checked against the full schema afterwards.
func toGenaiSchema(def map[string]any) *genai.Schema {
	s := &genai.Schema{}
	if t, ok := def["type"].(string); ok {
		if gt, ok := genaiTypes[t]; ok {
			s.Type = gt
		} else {
			s.Type = genai.TypeString
		}
	}
	s.Description, _ = def["description"].(string)
	s.Required = stringList(def["required"])
	s.Enum = stringList(def["enum"])

	if props, ok := def["properties"].(map[string]any); ok {
		s.Properties = make(map[string]*genai.Schema, len(props))
		for name, v := range props {
			if sub, ok := v.(map[string]any); ok {
				s.Properties[name] = toGenaiSchema(sub)
			}
		}
	}
	if items, ok := def["items"].(map[string]any); ok {
		s.Items = toGenaiSchema(items)
	}
	return s
}

// stringList reads a JSON Schema string array given as []any or []string.
func stringList(v any) []string {
	switch vs := v.(type) {
	case []string:
		return vs
	case []any:
		out := make([]string, 0, len(vs))
		for _, x := range vs {
			if s, ok := x.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func geminiError(err error) error {
	var apiErr *genai.APIError
	if errors.As(err, &apiErr) {
		return httpError(ProviderGemini, apiErr.Code, nil, err)
	}
	return httpError(ProviderGemini, 0, nil, err)
}
