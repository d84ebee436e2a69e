package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/wordiz/internal/store"
)

type recording struct {
	inner    Provider
	provider string
	events   store.EventRepo
	logger   logrus.FieldLogger
	now      func() time.Time
}

// Recording wraps p so that every call is logged and appended to the LLM
// request log under provider. events may be nil. A failed append is logged
// and never fails the call.
func Recording(p Provider, provider string, events store.EventRepo, logger logrus.FieldLogger) Provider {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &recording{inner: p, provider: provider, events: events, logger: logger, now: time.Now}
}

func (r *recording) Model() string { return r.inner.Model() }

func (r *recording) Complete(ctx context.Context, pr Prompt) (*Completion, error) {
	start := r.now()
	c, err := r.inner.Complete(ctx, pr)

	data := store.LLMRequestEventData{
		Provider:    r.provider,
		Model:       r.inner.Model(),
		Purpose:     pr.purpose(),
		LatencyMs:   r.now().Sub(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: transcript(pr),
	}
	if c != nil {
		if c.Model != "" {
			data.Model = c.Model
		}
		data.InputTokens = c.Usage.Input
		data.OutputTokens = c.Usage.Output
		data.ResponseBody = string(c.JSON)
	}
	if err != nil {
		data.ErrorMessage = err.Error()
		var e *Error
		if errors.As(err, &e) && len(e.Output) > 0 {
			data.ResponseBody = string(e.Output)
		}
	}

	entry := r.logger.WithFields(logrus.Fields{
		"provider":   data.Provider,
		"model":      data.Model,
		"purpose":    data.Purpose,
		"latency_ms": data.LatencyMs,
	})
	if err != nil {
		entry.WithError(err).Warn("llm request failed")
	} else {
		entry.WithField("tokens", c.Usage.Total()).Debug("llm request")
	}

	if r.events != nil {
		if appendErr := r.events.AppendLLMRequest(ctx, data); appendErr != nil {
			r.logger.WithError(appendErr).Warn("failed to record llm request")
		}
	}
	return c, err
}

// transcript renders a prompt in the sectioned form shown by `wordiz llm view`.
func transcript(pr Prompt) string {
	var b strings.Builder
	if pr.Instructions != "" {
		b.WriteString("[instructions]\n")
		b.WriteString(pr.Instructions)
		b.WriteString("\n\n")
	}
	b.WriteString("[input]\n")
	b.WriteString(pr.Input)
	b.WriteString("\n")
	if pr.Schema != nil {
		b.WriteString("\n[schema: ")
		b.WriteString(pr.Schema.Name)
		b.WriteString("]\n")
		b.Write(pr.Schema.JSON())
		b.WriteString("\n")
	}
	return b.String()
}
