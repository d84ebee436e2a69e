package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Kind classifies a provider failure.
type Kind int

const (
	// KindUnavailable covers network failures and 5xx responses.
	KindUnavailable Kind = iota
	// KindRateLimited is a 429.
	KindRateLimited
	// KindRejected is any other 4xx: a bad key, model or request.
	KindRejected
	// KindInvalidOutput means the reply was empty or failed the schema.
	KindInvalidOutput
	// KindTruncated means the reply hit the token limit.
	KindTruncated
)

func (k Kind) String() string {
	switch k {
	case KindUnavailable:
		return "unavailable"
	case KindRateLimited:
		return "rate limited"
	case KindRejected:
		return "rejected"
	case KindInvalidOutput:
		return "invalid output"
	case KindTruncated:
		return "truncated"
	}
	return "unknown"
}

// Error is the failure type every provider returns.
type Error struct {
	Provider string
	Kind     Kind

	// RetryAfter is the wait the server asked for on a 429, if any.
	RetryAfter time.Duration

	// Output is the offending reply for invalid or truncated output.
	Output json.RawMessage

	Err error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Provider, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Retryable reports whether sending the same prompt again may succeed.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindUnavailable, KindRateLimited, KindInvalidOutput:
		return true
	}
	return false
}

// IsKind reports whether err wraps an *Error of kind k.
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

// httpError classifies an SDK error by the HTTP status it carries. status
// is zero when no response was received. header may be nil.
func httpError(provider string, status int, header http.Header, err error) *Error {
	e := &Error{Provider: provider, Kind: KindUnavailable, Err: err}
	switch {
	case status == http.StatusTooManyRequests:
		e.Kind = KindRateLimited
		if header != nil {
			e.RetryAfter = parseRetryAfter(header.Get("Retry-After"))
		}
	case status >= 400 && status < 500:
		e.Kind = KindRejected
	}
	return e
}

// parseRetryAfter reads a Retry-After header given in seconds. HTTP dates
// are ignored.
func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

func errMissingKey(provider string) error {
	return fmt.Errorf("%s API key is required", provider)
}
