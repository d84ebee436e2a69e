package components

import (
	"strconv"
	"unicode"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/wordiz/internal/ui/theme"
)

// Field is a one-line text entry that only accepts runes passing its
// filter. After Lock it shows whether the entry was right.
type Field struct {
	input  textinput.Model
	accept func(rune) bool

	locked  bool
	correct bool
}

// WordRune accepts what can appear in a vocabulary answer.
func WordRune(r rune) bool {
	return unicode.IsLetter(r) || r == ' ' || r == '-' || r == '\''
}

// DigitRune accepts decimal digits.
func DigitRune(r rune) bool {
	return r >= '0' && r <= '9'
}

// NewAnswerField returns a focused field for typing a word.
func NewAnswerField(placeholder string, limit int) Field {
	return newField(placeholder, limit, WordRune)
}

// NewCountField returns a focused numeric field holding value.
func NewCountField(value, limit int) Field {
	f := newField(strconv.Itoa(value), limit, DigitRune)
	f.input.SetValue(strconv.Itoa(value))
	f.input.CursorEnd()
	return f
}

func newField(placeholder string, limit int, accept func(rune) bool) Field {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Focus()
	return Field{input: ti, accept: accept}
}

// Init starts the cursor blinking.
func (f Field) Init() tea.Cmd {
	return f.input.Focus()
}

// Update passes keys to the input, dropping text the filter rejects.
func (f Field) Update(msg tea.Msg) (Field, tea.Cmd) {
	if f.locked {
		return f, nil
	}
	if key, ok := msg.(tea.KeyPressMsg); ok && key.Text != "" {
		for _, r := range key.Text {
			if !f.accept(r) {
				return f, nil
			}
		}
	}
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return f, cmd
}

// View renders the input, with a mark once locked.
func (f Field) View() string {
	v := f.input.View()
	if !f.locked {
		return v
	}
	if f.correct {
		return v + " " + theme.Correct.Render("✓")
	}
	return v + " " + theme.Incorrect.Render("✗")
}

// Value returns the text entered.
func (f Field) Value() string {
	return f.input.Value()
}

// SetValue replaces the text entered and moves the cursor to the end.
func (f *Field) SetValue(s string) {
	f.input.SetValue(s)
	f.input.CursorEnd()
}

// Int parses the text entered as a number.
func (f Field) Int() (int, error) {
	return strconv.Atoi(f.input.Value())
}

// Lock stops editing and records whether the entry was correct.
func (f *Field) Lock(correct bool) {
	f.locked = true
	f.correct = correct
	f.input.Blur()
}

// Locked reports whether Lock has been called.
func (f Field) Locked() bool {
	return f.locked
}
