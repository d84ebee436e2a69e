package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

// newTestRetrying returns a retrying provider whose sleeps are recorded
// instead of taken and whose jitter is neutral.
func newTestRetrying(inner Provider, policy RetryPolicy) (*retrying, *[]time.Duration) {
	logger, _ := logtest.NewNullLogger()
	r := Retrying(inner, policy, logger).(*retrying)
	var waits []time.Duration
	r.sleep = func(_ context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}
	r.jitter = func() float64 { return 0.5 }
	return r, &waits
}

var testPolicy = RetryPolicy{Attempts: 3, Base: time.Second, Max: 10 * time.Second}

func unavailable() error {
	return &Error{Provider: "test", Kind: KindUnavailable, Err: errors.New("connection reset")}
}

func TestRetrying_RecoversFromOutage(t *testing.T) {
	s := NewScripted(Reply{Err: unavailable()}, Reply{Err: unavailable()}, Reply{JSON: aridCard})
	r, waits := newTestRetrying(s, testPolicy)

	c, err := r.Complete(context.Background(), wordCardPrompt())
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if string(c.JSON) != aridCard {
		t.Errorf("JSON = %s", c.JSON)
	}
	if len(s.Prompts()) != 3 {
		t.Errorf("sent %d times, want 3", len(s.Prompts()))
	}
	want := []time.Duration{time.Second, 2 * time.Second}
	if len(*waits) != 2 || (*waits)[0] != want[0] || (*waits)[1] != want[1] {
		t.Errorf("waits = %v, want %v", *waits, want)
	}
}

func TestRetrying_GivesUpAfterAttempts(t *testing.T) {
	s := NewScripted(Reply{Err: unavailable()}, Reply{Err: unavailable()}, Reply{Err: unavailable()}, Reply{JSON: aridCard})
	r, _ := newTestRetrying(s, testPolicy)

	_, err := r.Complete(context.Background(), wordCardPrompt())
	if !IsKind(err, KindUnavailable) {
		t.Errorf("err = %v", err)
	}
	if len(s.Prompts()) != 3 {
		t.Errorf("sent %d times, want 3", len(s.Prompts()))
	}
}

func TestRetrying_StopsOnRejection(t *testing.T) {
	s := NewScripted(Reply{Err: &Error{Provider: "test", Kind: KindRejected}}, Reply{JSON: aridCard})
	r, waits := newTestRetrying(s, testPolicy)

	if _, err := r.Complete(context.Background(), wordCardPrompt()); !IsKind(err, KindRejected) {
		t.Errorf("err = %v", err)
	}
	if len(s.Prompts()) != 1 || len(*waits) != 0 {
		t.Errorf("sent %d times with waits %v, want one send", len(s.Prompts()), *waits)
	}
}

func TestRetrying_ResendsInvalidOutputOnce(t *testing.T) {
	bad := func() Reply {
		return Reply{Err: &Error{Provider: "test", Kind: KindInvalidOutput, Output: []byte(`{}`)}}
	}
	s := NewScripted(bad(), bad(), Reply{JSON: aridCard})
	r, _ := newTestRetrying(s, RetryPolicy{Attempts: 5, Base: time.Second, Max: 10 * time.Second})

	if _, err := r.Complete(context.Background(), wordCardPrompt()); !IsKind(err, KindInvalidOutput) {
		t.Errorf("err = %v", err)
	}
	if len(s.Prompts()) != 2 {
		t.Errorf("sent %d times, want 2", len(s.Prompts()))
	}
}

func TestRetrying_PrefersRetryAfter(t *testing.T) {
	tests := []struct {
		after time.Duration
		want  time.Duration
	}{
		{3 * time.Second, 3 * time.Second},
		{30 * time.Second, 10 * time.Second},
	}
	for _, tt := range tests {
		s := NewScripted(Reply{Err: &Error{Provider: "test", Kind: KindRateLimited, RetryAfter: tt.after}}, Reply{JSON: aridCard})
		r, waits := newTestRetrying(s, testPolicy)

		if _, err := r.Complete(context.Background(), wordCardPrompt()); err != nil {
			t.Fatalf("Complete: %v", err)
		}
		if len(*waits) != 1 || (*waits)[0] != tt.want {
			t.Errorf("Retry-After %v: waits = %v, want [%v]", tt.after, *waits, tt.want)
		}
	}
}

func TestRetrying_WaitBounds(t *testing.T) {
	r, _ := newTestRetrying(NewScripted(), testPolicy)
	err := unavailable()

	if got := r.wait(1, err); got != time.Second {
		t.Errorf("wait(1) = %v", got)
	}
	if got := r.wait(3, err); got != 4*time.Second {
		t.Errorf("wait(3) = %v", got)
	}
	if got := r.wait(9, err); got != 10*time.Second {
		t.Errorf("wait(9) = %v, want the cap", got)
	}

	r.jitter = func() float64 { return 0 }
	if got := r.wait(1, err); got != 800*time.Millisecond {
		t.Errorf("low jitter wait = %v", got)
	}
	r.jitter = func() float64 { return 1 }
	if got := r.wait(1, err); got != 1200*time.Millisecond {
		t.Errorf("high jitter wait = %v", got)
	}
}

func TestRetrying_PlainErrorsReturnAtOnce(t *testing.T) {
	s := NewScripted(Reply{JSON: aridCard})
	r, waits := newTestRetrying(s, testPolicy)

	pr := wordCardPrompt()
	pr.Schema = nil
	if _, err := r.Complete(context.Background(), pr); !errors.Is(err, errNoSchema) {
		t.Errorf("err = %v", err)
	}
	if len(*waits) != 0 {
		t.Errorf("waits = %v", *waits)
	}
}

func TestRetrying_CanceledWhileWaiting(t *testing.T) {
	s := NewScripted(Reply{Err: unavailable()}, Reply{JSON: aridCard})
	r := Retrying(s, RetryPolicy{Attempts: 3, Base: time.Hour, Max: time.Hour}, nil).(*retrying)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.Complete(ctx, wordCardPrompt()); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if len(s.Prompts()) != 1 {
		t.Errorf("sent %d times, want 1", len(s.Prompts()))
	}
}

func TestRetrying_LogsEachRetry(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	s := NewScripted(Reply{Err: unavailable()}, Reply{JSON: aridCard})
	r := Retrying(s, testPolicy, logger).(*retrying)
	r.sleep = func(context.Context, time.Duration) error { return nil }

	if _, err := r.Complete(context.Background(), wordCardPrompt()); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if len(hook.Entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(hook.Entries))
	}
	e := hook.LastEntry()
	if e.Message != "retrying llm request" || e.Data["attempt"] != 1 || e.Data["purpose"] != string(PurposeExpand) {
		t.Errorf("entry = %q %v", e.Message, e.Data)
	}
}

func TestRetrying_AtLeastOneAttempt(t *testing.T) {
	s := NewScripted(Reply{JSON: aridCard})
	r := Retrying(s, RetryPolicy{}, nil).(*retrying)
	if r.policy.Attempts != 1 {
		t.Errorf("Attempts = %d", r.policy.Attempts)
	}
	if r.Model() != ProviderScripted {
		t.Errorf("Model() = %q", r.Model())
	}
}
