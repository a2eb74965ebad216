package game

import (
	"image/color"
	"math"
	"strings"
	"testing"

	"github.com/iburimskiy/roulette/internal/effects"
	"github.com/iburimskiy/roulette/internal/roulette"
)

func TestKeyRepeat(t *testing.T) {
	tests := []struct {
		ticks int
		want  bool
	}{
		{0, false},
		{1, true},
		{2, false},
		{29, false},
		{30, true},
		{31, false},
		{33, true},
	}
	for _, tt := range tests {
		if got := keyRepeat(tt.ticks); got != tt.want {
			t.Errorf("keyRepeat(%d) = %v, want %v", tt.ticks, got, tt.want)
		}
	}
}

func TestTextField(t *testing.T) {
	var f textField

	f.Insert([]rune("ab\tc\x7f"))
	if got := f.Value(); got != "abc" {
		t.Errorf("Insert kept control characters: %q", got)
	}

	f.Backspace()
	if got := f.Value(); got != "ab" {
		t.Errorf("after Backspace = %q", got)
	}
	f.Backspace()
	f.Backspace()
	f.Backspace()
	if got := f.Value(); got != "" {
		t.Errorf("Backspace past empty = %q", got)
	}

	f.Insert([]rune(strings.Repeat("x", fieldMaxLength+10)))
	if got := len([]rune(f.Value())); got != fieldMaxLength {
		t.Errorf("length = %d, want %d", got, fieldMaxLength)
	}
}

func TestTextFieldError(t *testing.T) {
	var f textField
	f.Insert([]rune("  "))

	f.Reject("required")
	if f.Value() != "" {
		t.Errorf("Reject kept text %q", f.Value())
	}
	if hint, isErr := f.Placeholder(); !isErr || hint != "required" {
		t.Errorf("Placeholder() = %q, %v", hint, isErr)
	}

	// spaces alone keep the error
	f.Insert([]rune(" "))
	if _, isErr := f.Placeholder(); !isErr {
		t.Error("whitespace cleared the error")
	}

	f.Insert([]rune("a"))
	if hint, isErr := f.Placeholder(); isErr || hint != fieldPlaceholder {
		t.Errorf("Placeholder() after typing = %q, %v", hint, isErr)
	}
}

func TestTextFieldCursor(t *testing.T) {
	var f textField
	if f.CursorVisible() {
		t.Error("cursor visible while blurred")
	}

	f.Focus()
	if !f.CursorVisible() {
		t.Fatal("cursor hidden right after focus")
	}
	f.blink(cursorBlinkSeconds)
	if f.CursorVisible() {
		t.Error("cursor did not blink off")
	}
	f.blink(cursorBlinkSeconds)
	if !f.CursorVisible() {
		t.Error("cursor did not blink back on")
	}

	f.Blur()
	if f.CursorVisible() {
		t.Error("cursor visible after blur")
	}
}

func testOptions(n int) []roulette.Option {
	opts := make([]roulette.Option, n)
	for i := range opts {
		opts[i] = roulette.Option{ID: string(rune('a' + i)), Value: strings.ToUpper(string(rune('a' + i)))}
	}
	return opts
}

func TestPanelHit(t *testing.T) {
	p := newOptionsPanel(wheelRect)
	opts := testOptions(3)

	x, y := p.editRect(1).center()
	if id, action := p.Hit(opts, int(x), int(y)); action != panelNone || id != "" {
		t.Errorf("closed panel hit = %q, %v", id, action)
	}

	p.Toggle()
	if id, action := p.Hit(opts, int(x), int(y)); action != panelEdit || id != "b" {
		t.Errorf("edit hit = %q, %v; want b, edit", id, action)
	}

	x, y = p.deleteRect(2).center()
	if id, action := p.Hit(opts, int(x), int(y)); action != panelDelete || id != "c" {
		t.Errorf("delete hit = %q, %v; want c, delete", id, action)
	}

	// rows past the end of the list are empty
	x, y = p.deleteRect(5).center()
	if _, action := p.Hit(opts, int(x), int(y)); action != panelNone {
		t.Errorf("empty row hit = %v", action)
	}
}

func TestPanelScroll(t *testing.T) {
	p := newOptionsPanel(wheelRect)
	p.Toggle()
	capacity := p.capacity()
	if capacity < 1 {
		t.Fatalf("capacity = %d", capacity)
	}

	n := capacity + 3
	opts := testOptions(n)

	p.Scroll(-1, n)
	if p.scroll != 0 {
		t.Errorf("scroll above the top = %d", p.scroll)
	}

	p.Scroll(100, n)
	if p.scroll != 3 {
		t.Errorf("scroll = %d, want 3", p.scroll)
	}
	from, to := p.visible(n)
	if from != 3 || to != n {
		t.Errorf("visible = [%d, %d), want [3, %d)", from, to, n)
	}

	x, y := p.editRect(0).center()
	if id, _ := p.Hit(opts, int(x), int(y)); id != opts[3].ID {
		t.Errorf("first visible row = %q, want %q", id, opts[3].ID)
	}

	// a short list never scrolls
	p.Scroll(5, 2)
	if p.scroll != 0 {
		t.Errorf("scroll with a short list = %d", p.scroll)
	}
}

func TestRect(t *testing.T) {
	r := rect{X: 10, Y: 20, W: 30, H: 40}
	if !r.contains(10, 20) || !r.contains(39, 59) {
		t.Error("contains rejects inner points")
	}
	if r.contains(40, 20) || r.contains(10, 60) || r.contains(9, 25) {
		t.Error("contains accepts outer points")
	}
	if x, y := r.center(); x != 25 || y != 40 {
		t.Errorf("center = %v, %v", x, y)
	}
}

func TestFanVertices(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	square := [][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

	vs, is := fanVertices(nil, nil, square, red)
	if len(vs) != 4 {
		t.Fatalf("len(vs) = %d", len(vs))
	}
	want := []uint16{0, 1, 2, 0, 2, 3}
	if len(is) != len(want) {
		t.Fatalf("indices = %v, want %v", is, want)
	}
	for i := range want {
		if is[i] != want[i] {
			t.Fatalf("indices = %v, want %v", is, want)
		}
	}
	if v := vs[0]; v.ColorR != 1 || v.ColorG != 0 || v.ColorA != 1 {
		t.Errorf("vertex color = %v %v %v %v", v.ColorR, v.ColorG, v.ColorB, v.ColorA)
	}

	// appending keeps indices relative to the new vertices
	vs, is = fanVertices(vs, is, square[:3], red)
	if got := is[len(is)-3:]; got[0] != 4 || got[1] != 5 || got[2] != 6 {
		t.Errorf("appended triangle = %v", got)
	}

	if vs2, is2 := fanVertices(nil, nil, square[:2], red); vs2 != nil || is2 != nil {
		t.Error("degenerate polygon produced geometry")
	}
}

func TestWedgeFanCoversSector(t *testing.T) {
	geom := roulette.NewGeometry(350, 350)
	s := geom.Sectors(3, 0)[0]

	points := geom.ArcPoints(s, arcStep)
	_, is := fanVertices(nil, nil, points, s.Color)
	if want := 3 * (len(points) - 2); len(is) != want {
		t.Errorf("indices = %d, want %d", len(is), want)
	}
}

func TestPointerPulse(t *testing.T) {
	rest := pointerPoints(0)
	cx, _ := WheelCenter()
	if rest[2][0] != cx {
		t.Errorf("pointer tip x = %v, want %v", rest[2][0], cx)
	}
	if rest[2][1] <= rest[0][1] {
		t.Error("pointer tip does not point down into the wheel")
	}

	loud := pointerPoints(1)
	if w0, w1 := rest[1][0]-rest[0][0], loud[1][0]-loud[0][0]; w1 <= w0 {
		t.Errorf("pointer did not grow with level: %v -> %v", w0, w1)
	}

	clamped := pointerPoints(5)
	if clamped[1][0] != loud[1][0] {
		t.Error("pointer level not clamped")
	}
}

func TestPieceQuad(t *testing.T) {
	p := effects.Piece{X: 10, Y: 20, W: 4, H: 2, Rotation: 90}
	quad := pieceQuad(p)

	want := [][2]float64{{11, 18}, {11, 22}, {9, 22}, {9, 18}}
	for i := range want {
		if math.Abs(quad[i][0]-want[i][0]) > 1e-9 || math.Abs(quad[i][1]-want[i][1]) > 1e-9 {
			t.Errorf("corner %d = %v, want %v", i, quad[i], want[i])
		}
	}
}

func TestFade(t *testing.T) {
	c := color.RGBA{R: 200, G: 100, B: 50, A: 255}

	if got := fade(c, 0.5); got != (color.RGBA{R: 100, G: 50, B: 25, A: 127}) {
		t.Errorf("fade(0.5) = %v", got)
	}
	if got := fade(c, 2); got != c {
		t.Errorf("fade(2) = %v", got)
	}
	if got := fade(c, -1); got != (color.RGBA{}) {
		t.Errorf("fade(-1) = %v", got)
	}
}
