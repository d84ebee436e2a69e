package session

import (
	"errors"
	"fmt"

	"github.com/abhisek/wordiz/internal/drill"
)

var (
	ErrEmptyPool       = errors.New("vocabulary pool is empty")
	ErrInvalidCount    = errors.New("question count must be positive")
	ErrUnknownKind     = drill.ErrUnknownKind
	ErrInvalidHints    = errors.New("hints used out of range")
	ErrInvalidElapsed  = errors.New("elapsed time is negative")
	ErrSessionComplete = errors.New("session is already complete")
	ErrNoQuestion      = errors.New("session has no active question")
	ErrHintUnavailable = errors.New("hints are only available for free recall")
	ErrHintLimit       = errors.New("hint limit reached")
	ErrQueueClosed     = errors.New("history queue is closed")
)

// ConfigError reports invalid drill configuration or event input. The
// session is left untouched.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("drill configuration: %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// StateError reports an operation that is not allowed in the session's
// current state.
type StateError struct {
	Op        string
	SessionID string
	Err       error
}

func (e *StateError) Error() string {
	return fmt.Sprintf("session %s: %s: %v", e.SessionID, e.Op, e.Err)
}

func (e *StateError) Unwrap() error {
	return e.Err
}
