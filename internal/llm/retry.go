package llm

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/sirupsen/logrus"
)

// RetryPolicy bounds how often and how patiently a prompt is resent.
type RetryPolicy struct {
	// Attempts is the total number of sends, including the first.
	Attempts int
	// Base is the wait after the first failure. It doubles per attempt.
	Base time.Duration
	// Max caps any single wait, including a server's Retry-After.
	Max time.Duration
}

type retrying struct {
	inner  Provider
	policy RetryPolicy
	logger logrus.FieldLogger

	sleep  func(context.Context, time.Duration) error
	jitter func() float64
}

// Retrying wraps p so that retryable failures are resent under policy.
// Invalid output is resent at most once. Failures that are not an *Error,
// such as a prompt without a schema, are returned at once. logger may be nil.
func Retrying(p Provider, policy RetryPolicy, logger logrus.FieldLogger) Provider {
	if policy.Attempts < 1 {
		policy.Attempts = 1
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &retrying{
		inner:  p,
		policy: policy,
		logger: logger,
		sleep:  sleepContext,
		jitter: rand.Float64,
	}
}

func (r *retrying) Model() string { return r.inner.Model() }

func (r *retrying) Complete(ctx context.Context, pr Prompt) (*Completion, error) {
	resentInvalid := false
	for attempt := 1; ; attempt++ {
		c, err := r.inner.Complete(ctx, pr)
		if err == nil {
			return c, nil
		}
		if attempt >= r.policy.Attempts || !r.retryable(err, &resentInvalid) {
			return nil, err
		}

		wait := r.wait(attempt, err)
		r.logger.WithFields(logrus.Fields{
			"purpose": pr.purpose(),
			"attempt": attempt,
			"wait":    wait,
		}).WithError(err).Debug("retrying llm request")

		if err := r.sleep(ctx, wait); err != nil {
			return nil, err
		}
	}
}

func (r *retrying) retryable(err error, resentInvalid *bool) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	if e.Kind == KindInvalidOutput {
		if *resentInvalid {
			return false
		}
		*resentInvalid = true
	}
	return e.Retryable()
}

// wait returns the pause before the next attempt: the server's Retry-After
// when given, else Base doubled per attempt, both capped at Max and
// jittered by up to 20% either way.
func (r *retrying) wait(attempt int, err error) time.Duration {
	d := r.policy.Base
	for i := 1; i < attempt && d < r.policy.Max; i++ {
		d *= 2
	}
	var e *Error
	if errors.As(err, &e) && e.RetryAfter > 0 {
		d = e.RetryAfter
	}
	if r.policy.Max > 0 && d > r.policy.Max {
		d = r.policy.Max
	}
	return time.Duration(float64(d) * (0.8 + 0.4*r.jitter()))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
