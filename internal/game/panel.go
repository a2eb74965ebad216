package game

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/roulette/internal/roulette"
)

const (
	panelPadding     = 8
	panelHeader      = 30
	panelRowHeight   = 26
	panelButtonWidth = 54
	panelButtonGap   = 6
)

var (
	panelBackground = color.RGBA{R: 17, G: 24, B: 39, A: 235}
	panelBorder     = color.RGBA{R: 75, G: 85, B: 99, A: 255}
	editColor       = color.RGBA{R: 37, G: 99, B: 235, A: 255}
	deleteColor     = color.RGBA{R: 220, G: 38, B: 38, A: 255}
	mutedText       = color.RGBA{R: 156, G: 163, B: 175, A: 255}
)

type panelAction int

const (
	panelNone panelAction = iota
	panelEdit
	panelDelete
)

// optionsPanel lists every option with edit and delete controls. It overlays
// the area given by bounds and scrolls when the list is longer than it.
type optionsPanel struct {
	bounds rect
	open   bool
	scroll int
}

func newOptionsPanel(bounds rect) *optionsPanel {
	return &optionsPanel{bounds: bounds}
}

func (p *optionsPanel) Open() bool { return p.open }

func (p *optionsPanel) Toggle() {
	p.open = !p.open
	p.scroll = 0
}

func (p *optionsPanel) Close() {
	p.open = false
	p.scroll = 0
}

func (p *optionsPanel) capacity() int {
	return int((p.bounds.H - panelHeader - panelPadding) / panelRowHeight)
}

// Scroll moves the list by delta rows, keeping the last page full.
func (p *optionsPanel) Scroll(delta, n int) {
	p.scroll += delta
	maxScroll := n - p.capacity()
	if p.scroll > maxScroll {
		p.scroll = maxScroll
	}
	if p.scroll < 0 {
		p.scroll = 0
	}
}

func (p *optionsPanel) rowRect(slot int) rect {
	return rect{
		X: p.bounds.X + panelPadding,
		Y: p.bounds.Y + panelHeader + float64(slot)*panelRowHeight,
		W: p.bounds.W - 2*panelPadding,
		H: panelRowHeight,
	}
}

func (p *optionsPanel) deleteRect(slot int) rect {
	row := p.rowRect(slot)
	return rect{X: row.X + row.W - panelButtonWidth, Y: row.Y + 3, W: panelButtonWidth, H: row.H - 6}
}

func (p *optionsPanel) editRect(slot int) rect {
	del := p.deleteRect(slot)
	return rect{X: del.X - panelButtonGap - panelButtonWidth, Y: del.Y, W: panelButtonWidth, H: del.H}
}

// visible returns the index range of options shown.
func (p *optionsPanel) visible(n int) (from, to int) {
	from = min(p.scroll, n)
	to = min(from+p.capacity(), n)
	return from, to
}

// Hit resolves a click at (x, y) to an option and the control pressed.
func (p *optionsPanel) Hit(options []roulette.Option, x, y int) (string, panelAction) {
	if !p.open || !p.bounds.contains(x, y) {
		return "", panelNone
	}
	from, to := p.visible(len(options))
	for i := from; i < to; i++ {
		slot := i - from
		switch {
		case p.editRect(slot).contains(x, y):
			return options[i].ID, panelEdit
		case p.deleteRect(slot).contains(x, y):
			return options[i].ID, panelDelete
		}
	}
	return "", panelNone
}

func (p *optionsPanel) Draw(dst *ebiten.Image, options []roulette.Option, face text.Face) {
	if !p.open {
		return
	}
	b := p.bounds
	vector.DrawFilledRect(dst, float32(b.X), float32(b.Y), float32(b.W), float32(b.H), panelBackground, false)
	vector.StrokeRect(dst, float32(b.X), float32(b.Y), float32(b.W), float32(b.H), 1, panelBorder, false)

	op := &text.DrawOptions{}
	op.GeoM.Translate(b.X+panelPadding, b.Y+panelHeader/2)
	op.SecondaryAlign = text.AlignCenter
	op.ColorScale.ScaleWithColor(color.White)
	text.Draw(dst, "Options", face, op)

	from, to := p.visible(len(options))
	for i := from; i < to; i++ {
		slot := i - from
		row := p.rowRect(slot)

		op := &text.DrawOptions{}
		op.GeoM.Translate(row.X, row.Y+row.H/2)
		op.SecondaryAlign = text.AlignCenter
		op.ColorScale.ScaleWithColor(color.White)
		label := ellipsize(options[i].Value, face, p.editRect(slot).X-row.X-panelButtonGap)
		text.Draw(dst, label, face, op)

		drawTextButton(dst, p.editRect(slot), "edit", editColor, face)
		drawTextButton(dst, p.deleteRect(slot), "delete", deleteColor, face)
	}

	if hidden := len(options) - (to - from); hidden > 0 {
		op := &text.DrawOptions{}
		op.GeoM.Translate(b.X+b.W-panelPadding, b.Y+panelHeader/2)
		op.PrimaryAlign = text.AlignEnd
		op.SecondaryAlign = text.AlignCenter
		op.ColorScale.ScaleWithColor(mutedText)
		text.Draw(dst, "scroll for more", face, op)
	}
}

func drawTextButton(dst *ebiten.Image, r rect, label string, bg color.Color, face text.Face) {
	vector.DrawFilledRect(dst, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), bg, false)
	cx, cy := r.center()
	op := &text.DrawOptions{}
	op.GeoM.Translate(cx, cy)
	op.PrimaryAlign = text.AlignCenter
	op.SecondaryAlign = text.AlignCenter
	op.ColorScale.ScaleWithColor(color.White)
	text.Draw(dst, label, face, op)
}
