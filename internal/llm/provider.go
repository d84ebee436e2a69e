// Package llm sends structured prompts to hosted language models. Every call
// wordiz makes wants one JSON document of a known shape, so a Prompt always
// carries a Schema and a Completion always holds output that satisfied it.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
)

// DefaultMaxTokens is used when a prompt leaves MaxTokens at zero.
const DefaultMaxTokens = 1024

// Provider completes one structured prompt per call.
type Provider interface {
	Complete(ctx context.Context, p Prompt) (*Completion, error)

	// Model returns the model ID prompts are sent to.
	Model() string
}

// Purpose labels what a prompt is for in the request log.
type Purpose string

const (
	PurposeExpand  Purpose = "deck-expand"
	PurposeCompare Purpose = "word-compare"
	PurposeUnknown Purpose = "unknown"
)

// Prompt is a single-turn request for a JSON document.
type Prompt struct {
	Purpose Purpose

	// Instructions hold the standing rules. Input is the part that changes
	// from call to call.
	Instructions string
	Input        string

	Schema *Schema

	MaxTokens int

	// Temperature in [0, 1]. Zero leaves the provider default.
	Temperature float64
}

var (
	errNoSchema    = errors.New("prompt has no schema")
	errNoInput     = errors.New("prompt has no input")
	errEmptyOutput = errors.New("model returned no content")
)

func (p Prompt) check() error {
	if p.Schema == nil {
		return errNoSchema
	}
	if strings.TrimSpace(p.Input) == "" {
		return errNoInput
	}
	return nil
}

func (p Prompt) maxTokens() int {
	if p.MaxTokens > 0 {
		return p.MaxTokens
	}
	return DefaultMaxTokens
}

func (p Prompt) purpose() string {
	if p.Purpose == "" {
		return string(PurposeUnknown)
	}
	return string(p.Purpose)
}

// Completion is a model reply that passed the prompt's schema.
type Completion struct {
	JSON  json.RawMessage
	Model string
	Usage Usage
}

// Decode unmarshals the reply into v.
func (c *Completion) Decode(v any) error {
	return json.Unmarshal(c.JSON, v)
}

// Usage counts tokens for one call.
type Usage struct {
	Input  int
	Output int
}

// Total returns input plus output tokens.
func (u Usage) Total() int {
	return u.Input + u.Output
}

// accept validates a raw reply against the prompt schema. Every provider
// funnels its output through here.
func accept(provider string, p Prompt, out json.RawMessage, model string, usage Usage) (*Completion, error) {
	if len(bytes.TrimSpace(out)) == 0 {
		return nil, &Error{Provider: provider, Kind: KindInvalidOutput, Err: errEmptyOutput}
	}
	if err := p.Schema.Validate(out); err != nil {
		return nil, &Error{Provider: provider, Kind: KindInvalidOutput, Output: out, Err: err}
	}
	return &Completion{JSON: out, Model: model, Usage: usage}, nil
}

// aliases maps short model names accepted in configuration to model IDs.
type aliases map[string]string

// resolve returns the ID for name, or name itself when it is not an alias.
func (a aliases) resolve(name string) string {
	if id, ok := a[name]; ok {
		return id
	}
	return name
}
