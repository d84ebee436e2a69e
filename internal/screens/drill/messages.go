package drill

import "time"

// tickMsg drives the per-question countdown. question is the index the tick
// was scheduled for, so ticks left over from an earlier question are ignored.
type tickMsg struct {
	question int
	at       time.Time
}

// persistedMsg reports the outcome of a background history write.
type persistedMsg struct {
	Err error
}

// abandonedMsg carries the result of saving an abandoned session.
type abandonedMsg struct {
	Err error
}
