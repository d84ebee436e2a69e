// Package drill is the screen that runs an in-progress session.
package drill

import (
	"context"
	"errors"
	"time"

	tea "charm.land/bubbletea/v2"

	wdrill "github.com/abhisek/wordiz/internal/drill"
	"github.com/abhisek/wordiz/internal/hint"
	"github.com/abhisek/wordiz/internal/router"
	"github.com/abhisek/wordiz/internal/screen"
	"github.com/abhisek/wordiz/internal/screens/summary"
	"github.com/abhisek/wordiz/internal/session"
	"github.com/abhisek/wordiz/internal/ui/components"
	"github.com/abhisek/wordiz/internal/ui/layout"
)

// Deps are the collaborators a drill needs.
type Deps struct {
	Controller *session.Controller
	Recorder   *session.Recorder
	Now        func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// DrillScreen implements screen.Screen for an in-progress session.
type DrillScreen struct {
	deps    Deps
	session *session.Session

	// writes orders history writes so the session row always precedes its
	// results and later refreshes.
	writes  *session.Queue
	started <-chan error

	// shown stays on the answered question while feedback is displayed.
	shown wdrill.Question

	questionStart time.Time
	lastTick      time.Time

	choices components.Choices
	input   components.Field
	hints   []string

	feedback    *session.Result
	confirmQuit bool
	errMsg      string
}

var _ screen.Screen = (*DrillScreen)(nil)
var _ screen.KeyHintProvider = (*DrillScreen)(nil)
var _ screen.StatusProvider = (*DrillScreen)(nil)
var _ screen.EscapeHandler = (*DrillScreen)(nil)
var _ screen.Closer = (*DrillScreen)(nil)

// New creates a screen for s, which must be freshly started.
func New(deps Deps, s *session.Session) *DrillScreen {
	d := &DrillScreen{
		deps:    deps,
		session: s,
		writes:  session.NewQueue(deps.Recorder),
	}
	d.started = d.writes.Enqueue(func(ctx context.Context, r *session.Recorder) error {
		return r.Started(ctx, s)
	})
	d.resetQuestion()
	return d
}

func (d *DrillScreen) Init() tea.Cmd {
	started := d.started
	return tea.Batch(
		d.input.Init(),
		d.tickCmd(),
		func() tea.Msg { return persistedMsg{Err: <-started} },
	)
}

func (d *DrillScreen) Title() string {
	return d.session.Kind.DisplayName()
}

// Status shows progress and score in the header.
func (d *DrillScreen) Status() string {
	snap := d.session.Snapshot(d.deps.now())
	index := snap.Index + 1
	if index > snap.Total {
		index = snap.Total
	}
	return fmtStatus(index, snap.Total, snap.Score)
}

func (d *DrillScreen) HandlesEscape() bool { return true }

// Close waits for queued history writes. It runs when the drill leaves the
// stack and when the app quits mid-drill.
func (d *DrillScreen) Close() tea.Cmd {
	writes := d.writes
	return func() tea.Msg {
		writes.Close()
		return nil
	}
}

func (d *DrillScreen) KeyHints() []layout.KeyHint {
	switch {
	case d.confirmQuit:
		return []layout.KeyHint{
			{Key: "Y", Description: "End drill"},
			{Key: "N", Description: "Keep going"},
		}
	case d.feedback != nil:
		return []layout.KeyHint{
			{Key: "any key", Description: "Continue"},
		}
	}

	if d.hasOptions() {
		return []layout.KeyHint{
			{Key: "1-9", Description: "Choose"},
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Submit"},
			{Key: "Esc", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Submit"},
		{Key: "?", Description: "Hint"},
		{Key: "Esc", Description: "Quit"},
	}
}

// Session returns the current session value.
func (d *DrillScreen) Session() *session.Session {
	return d.session
}

func (d *DrillScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return d.handleTick(msg)

	case components.ChoiceMadeMsg:
		return d.submit(msg.Value)

	case persistedMsg:
		// Failures are logged by the recorder; the drill carries on.
		return d, nil

	case abandonedMsg:
		if msg.Err != nil {
			d.errMsg = "Could not save this drill: " + msg.Err.Error()
			return d, nil
		}
		return d, d.leave()

	case tea.KeyMsg:
		return d.handleKey(msg)
	}

	if d.feedback == nil && !d.confirmQuit && !d.hasOptions() {
		var cmd tea.Cmd
		d.input, cmd = d.input.Update(msg)
		return d, cmd
	}
	return d, nil
}

func (d *DrillScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if d.confirmQuit {
		switch key {
		case "y", "Y":
			return d.abandon()
		case "n", "N", "esc":
			d.confirmQuit = false
		}
		return d, nil
	}

	if d.feedback != nil {
		return d.advance()
	}

	if key == "esc" {
		d.confirmQuit = true
		return d, nil
	}

	if d.hasOptions() {
		var cmd tea.Cmd
		d.choices, cmd = d.choices.Update(msg)
		return d, cmd
	}

	switch key {
	case "enter":
		return d.submit(d.input.Value())
	case "?":
		return d.requestHint()
	}

	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	return d, cmd
}

func (d *DrillScreen) handleTick(msg tickMsg) (screen.Screen, tea.Cmd) {
	if msg.question != d.session.CurrentIndex || d.session.Complete() {
		return d, nil
	}
	d.lastTick = msg.at

	if d.feedback != nil || d.confirmQuit {
		return d, d.tickCmd()
	}

	if q := d.shown; q.TimeLimit > 0 && msg.at.Sub(d.questionStart) >= q.TimeLimit {
		next, res, err := d.deps.Controller.Timeout(d.session)
		if err != nil {
			d.errMsg = err.Error()
			return d, nil
		}
		return d.recordResult(next, res)
	}
	return d, d.tickCmd()
}

func (d *DrillScreen) submit(answer string) (screen.Screen, tea.Cmd) {
	if d.feedback != nil {
		return d, nil
	}
	elapsed := d.deps.now().Sub(d.questionStart)
	if elapsed < 0 {
		elapsed = 0
	}

	next, res, err := d.deps.Controller.SubmitAnswer(d.session, answer, elapsed, d.session.HintsUsed)
	if err != nil {
		d.errMsg = err.Error()
		return d, nil
	}
	return d.recordResult(next, res)
}

func (d *DrillScreen) recordResult(next *session.Session, res session.Result) (screen.Screen, tea.Cmd) {
	d.session = next
	d.feedback = &res

	if d.hasOptions() {
		d.choices.Reveal(res.Answer)
	} else {
		d.input.Lock(res.Correct)
	}

	return d, d.persist(func(ctx context.Context, r *session.Recorder) error {
		return r.Answered(ctx, next, res)
	})
}

func (d *DrillScreen) requestHint() (screen.Screen, tea.Cmd) {
	level := hint.LevelFor(d.session.HintsUsed)
	next, text, err := d.deps.Controller.RequestHint(d.session)
	if err != nil {
		if errors.Is(err, session.ErrHintLimit) || errors.Is(err, session.ErrHintUnavailable) {
			return d, nil
		}
		d.errMsg = err.Error()
		return d, nil
	}
	d.hints = append(d.hints, text)

	// Record against the session as it was when the hint was shown.
	prev := d.session
	d.session = next
	return d, d.persist(func(ctx context.Context, r *session.Recorder) error {
		return r.Hinted(ctx, prev, level, text)
	})
}

// persist queues a history write and reports its outcome as a persistedMsg.
func (d *DrillScreen) persist(write func(context.Context, *session.Recorder) error) tea.Cmd {
	errc := d.writes.Enqueue(write)
	return func() tea.Msg { return persistedMsg{Err: <-errc} }
}

// advance leaves the feedback view for the next question or the summary.
func (d *DrillScreen) advance() (screen.Screen, tea.Cmd) {
	d.feedback = nil
	if d.session.Complete() {
		return d, d.leave()
	}
	d.resetQuestion()
	return d, tea.Batch(d.input.Init(), d.tickCmd())
}

// abandon saves the session as abandoned. The screen stays up with the
// error when the write fails, so the learner can retry.
func (d *DrillScreen) abandon() (screen.Screen, tea.Cmd) {
	d.confirmQuit = false
	d.errMsg = ""
	s := d.session
	errc := d.writes.Enqueue(func(ctx context.Context, r *session.Recorder) error {
		return r.Abandoned(ctx, s)
	})
	return d, func() tea.Msg { return abandonedMsg{Err: <-errc} }
}

// leave drains pending history writes, then moves on to the summary, or
// back when nothing was answered.
func (d *DrillScreen) leave() tea.Cmd {
	writes := d.writes
	s := d.session
	if len(s.Results) == 0 {
		return func() tea.Msg {
			writes.Close()
			return router.PopScreenMsg{}
		}
	}
	sum := session.BuildSummary(s, d.deps.now())
	return func() tea.Msg {
		writes.Close()
		return router.ReplaceScreenMsg{Screen: summary.New(sum)}
	}
}

func (d *DrillScreen) resetQuestion() {
	d.questionStart = d.deps.now()
	d.lastTick = d.questionStart
	d.hints = nil

	d.shown, _ = d.session.CurrentQuestion()
	d.input = components.NewAnswerField("Type the word...", 40)
	d.choices = components.NewChoices(d.shown.Options())
}

func (d *DrillScreen) hasOptions() bool {
	return d.shown.Kind().HasOptions()
}

// remaining returns the time left on the active question, or false when it
// is untimed.
func (d *DrillScreen) remaining() (time.Duration, time.Duration, bool) {
	q := d.shown
	if q.TimeLimit <= 0 {
		return 0, 0, false
	}
	left := q.TimeLimit - d.lastTick.Sub(d.questionStart)
	if left < 0 {
		left = 0
	}
	return left, q.TimeLimit, true
}

func (d *DrillScreen) tickCmd() tea.Cmd {
	index := d.session.CurrentIndex
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg{question: index, at: t}
	})
}
