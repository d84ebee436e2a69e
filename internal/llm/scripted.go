package llm

import (
	"context"
	"errors"
	"sync"
)

// ProviderScripted names the Scripted provider in logs and request records.
const ProviderScripted = "scripted"

var errScriptExhausted = errors.New("no scripted replies left")

// Reply is one scripted outcome: raw JSON, or an error.
type Reply struct {
	JSON  string
	Usage Usage
	Err   error
}

// Scripted is a Provider that plays back fixed replies in order and keeps
// every prompt it receives. Replies are returned as written, without schema
// checks, so callers can exercise their handling of odd output.
type Scripted struct {
	mu      sync.Mutex
	replies []Reply
	prompts []Prompt
}

// NewScripted creates a Scripted provider that plays back replies.
func NewScripted(replies ...Reply) *Scripted {
	return &Scripted{replies: replies}
}

func (s *Scripted) Model() string { return ProviderScripted }

func (s *Scripted) Complete(_ context.Context, pr Prompt) (*Completion, error) {
	if err := pr.check(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.prompts = append(s.prompts, pr)
	if len(s.replies) == 0 {
		return nil, &Error{Provider: ProviderScripted, Kind: KindUnavailable, Err: errScriptExhausted}
	}
	r := s.replies[0]
	s.replies = s.replies[1:]

	if r.Err != nil {
		return nil, r.Err
	}
	return &Completion{JSON: []byte(r.JSON), Model: ProviderScripted, Usage: r.Usage}, nil
}

// Prompts returns the prompts received so far.
func (s *Scripted) Prompts() []Prompt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Prompt(nil), s.prompts...)
}
