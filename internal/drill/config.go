package drill

import "time"

// DefaultTimeLimit is the per-question limit for timed kinds.
const DefaultTimeLimit = 30 * time.Second

// Config controls question generation.
type Config struct {
	// DistractorCount is the number of wrong options per question.
	DistractorCount int

	// TimeLimits holds the per-question limit by kind. Kinds without an
	// entry are untimed.
	TimeLimits map[Kind]time.Duration
}

// DefaultConfig returns the standard generation settings: three distractors,
// and a 30 second limit for definition-match and multiple-choice questions.
func DefaultConfig() Config {
	return Config{
		DistractorCount: 3,
		TimeLimits: map[Kind]time.Duration{
			KindDefinitionMatch: DefaultTimeLimit,
			KindMultipleChoice:  DefaultTimeLimit,
		},
	}
}

// WithTimeLimit returns a copy of c where every timed kind uses limit.
// A zero limit makes all kinds untimed.
func (c Config) WithTimeLimit(limit time.Duration) Config {
	limits := make(map[Kind]time.Duration, len(c.TimeLimits))
	if limit > 0 {
		for k := range c.TimeLimits {
			limits[k] = limit
		}
	}
	c.TimeLimits = limits
	return c
}
