package game

import (
	"unicode"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	fieldMaxLength     = 40
	cursorBlinkSeconds = 0.5
	fieldPlaceholder   = "Add an option"
)

// textField is the single-line label input under the wheel.
type textField struct {
	text    []rune
	focused bool
	errMsg  string

	blinkTimer    float64
	cursorVisible bool
}

func (f *textField) Value() string { return string(f.text) }

// Placeholder returns the hint shown while the field is empty and whether it
// is an error message.
func (f *textField) Placeholder() (string, bool) {
	if f.errMsg != "" {
		return f.errMsg, true
	}
	return fieldPlaceholder, false
}

func (f *textField) Focus() {
	f.focused = true
	f.showCursor()
}

func (f *textField) Blur() {
	f.focused = false
	f.cursorVisible = false
}

func (f *textField) Focused() bool { return f.focused }

func (f *textField) CursorVisible() bool { return f.focused && f.cursorVisible }

// Reset empties the field and drops the error.
func (f *textField) Reset() {
	f.text = f.text[:0]
	f.errMsg = ""
}

// Reject empties the field and shows msg in place of the placeholder.
func (f *textField) Reject(msg string) {
	f.text = f.text[:0]
	f.errMsg = msg
}

// Insert appends printable runes up to the length limit. Typing a visible
// character clears a pending error.
func (f *textField) Insert(rs []rune) {
	for _, r := range rs {
		if !unicode.IsPrint(r) {
			continue
		}
		if len(f.text) >= fieldMaxLength {
			break
		}
		f.text = append(f.text, r)
		if !unicode.IsSpace(r) {
			f.errMsg = ""
		}
	}
	f.showCursor()
}

func (f *textField) Backspace() {
	if len(f.text) > 0 {
		f.text = f.text[:len(f.text)-1]
	}
	f.showCursor()
}

func (f *textField) blink(dt float64) {
	f.blinkTimer += dt
	if f.blinkTimer >= cursorBlinkSeconds {
		f.blinkTimer = 0
		f.cursorVisible = !f.cursorVisible
	}
}

func (f *textField) showCursor() {
	f.blinkTimer = 0
	f.cursorVisible = true
}

// Update reads the keyboard while focused and reports whether Enter was
// pressed.
func (f *textField) Update(dt float64) (submit bool) {
	if !f.focused {
		return false
	}
	f.blink(dt)

	if rs := ebiten.AppendInputChars(nil); len(rs) > 0 {
		f.Insert(rs)
	}
	if keyRepeat(inpututil.KeyPressDuration(ebiten.KeyBackspace)) {
		f.Backspace()
	}
	return inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadEnter)
}
