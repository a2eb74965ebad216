package game

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/roulette/internal/config"
	"github.com/iburimskiy/roulette/internal/effects"
	"github.com/iburimskiy/roulette/internal/roulette"
)

var (
	backgroundColor  = color.RGBA{R: 31, G: 41, B: 55, A: 255}
	titleColor       = color.RGBA{R: 243, G: 244, B: 246, A: 255}
	pointerColor     = color.RGBA{R: 249, G: 250, B: 251, A: 255}
	spinColor        = color.RGBA{R: 22, G: 163, B: 74, A: 255}
	spinBusyColor    = color.RGBA{R: 107, G: 114, B: 128, A: 255}
	fieldColor       = color.RGBA{R: 249, G: 250, B: 251, A: 255}
	fieldBorder      = color.RGBA{R: 156, G: 163, B: 175, A: 255}
	fieldFocusBorder = color.RGBA{R: 59, G: 130, B: 246, A: 255}
	fieldText        = color.RGBA{R: 17, G: 24, B: 39, A: 255}
	placeholderColor = color.RGBA{R: 107, G: 114, B: 128, A: 255}
	errorColor       = color.RGBA{R: 220, G: 38, B: 38, A: 255}
	addColor         = color.RGBA{R: 37, G: 99, B: 235, A: 255}
	gearColor        = color.RGBA{R: 209, G: 213, B: 219, A: 255}
)

// pointerPulse is how much the pointer grows at full cue level.
const pointerPulse = 0.6

func drawCentered(dst *ebiten.Image, s string, face text.Face, x, y float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.PrimaryAlign = text.AlignCenter
	op.SecondaryAlign = text.AlignCenter
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(dst, s, face, op)
}

// pointerPoints returns the pointer triangle above the wheel, scaled by the
// current cue level in [0, 1].
func pointerPoints(level float64) [][2]float64 {
	scale := 1 + pointerPulse*math.Max(0, math.Min(1, level))
	cx, _ := WheelCenter()
	top := wheelRect.Y - 2
	half := config.PointerHalfWidth * scale
	return [][2]float64{
		{cx - half, top},
		{cx + half, top},
		{cx, top + config.PointerHeight*scale},
	}
}

func drawPointer(dst *ebiten.Image, level float64) {
	fillPolygon(dst, pointerPoints(level), pointerColor)
}

func (g *Game) drawCenter(dst *ebiten.Image, n int) {
	if g.panel.Open() {
		return
	}
	cx, cy := WheelCenter()
	msg, canSpin := roulette.Prompt(n)
	if !canSpin {
		drawCentered(dst, msg, g.faces.ui, cx, cy, titleColor)
		return
	}

	bg := spinColor
	if g.scheduler.Spinning() {
		bg = spinBusyColor
	}
	vector.DrawFilledCircle(dst, float32(cx), float32(cy), config.SpinButtonRadius, bg, true)
	vector.StrokeCircle(dst, float32(cx), float32(cy), config.SpinButtonRadius, 2, color.White, true)
	drawCentered(dst, "Spin!", g.faces.button, cx, cy, color.White)
}

// drawResult names the winner of the last resolved spin while it still
// exists.
func (g *Game) drawResult(dst *ebiten.Image) {
	if g.scheduler.Spinning() {
		return
	}
	res, ok := g.scheduler.LastResult()
	if !ok || !res.Resolved {
		return
	}
	winner, ok := g.registry.Get(res.Winner.ID)
	if !ok {
		return
	}
	label := ellipsize(winner.Value, g.faces.ui, wheelRect.W)
	drawCentered(dst, label, g.faces.ui, config.WindowWidth/2, wheelRect.Y+wheelRect.H+14, titleColor)
}

func (g *Game) drawForm(dst *ebiten.Image) {
	r := fieldRect
	border := fieldBorder
	if g.field.Focused() {
		border = fieldFocusBorder
	}
	vector.DrawFilledRect(dst, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), fieldColor, false)
	vector.StrokeRect(dst, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), 2, border, false)

	const inset = 8
	value := g.field.Value()
	op := &text.DrawOptions{}
	op.GeoM.Translate(r.X+inset, r.Y+r.H/2)
	op.SecondaryAlign = text.AlignCenter
	if value == "" {
		hint, isErr := g.field.Placeholder()
		clr := placeholderColor
		if isErr {
			clr = errorColor
		}
		op.ColorScale.ScaleWithColor(clr)
		text.Draw(dst, hint, g.faces.ui, op)
	} else {
		op.ColorScale.ScaleWithColor(fieldText)
		text.Draw(dst, value, g.faces.ui, op)
	}

	if g.field.CursorVisible() {
		x := r.X + inset + text.Advance(value, g.faces.ui) + 1
		vector.StrokeLine(dst, float32(x), float32(r.Y+6), float32(x), float32(r.Y+r.H-6), 1, fieldText, false)
	}

	b := addRect
	vector.DrawFilledRect(dst, float32(b.X), float32(b.Y), float32(b.W), float32(b.H), addColor, false)
	cx, cy := b.center()
	drawCentered(dst, "Add", g.faces.ui, cx, cy, color.White)
}

func drawGear(dst *ebiten.Image, r rect, active bool) {
	clr := gearColor
	if active {
		clr = addColor
	}
	cx, cy := r.center()
	radius := r.W/2 - 4

	const teeth = 8
	for i := 0; i < teeth; i++ {
		a := float64(i) * 2 * math.Pi / teeth
		x0, y0 := cx+radius*math.Cos(a), cy+radius*math.Sin(a)
		x1, y1 := cx+(radius+4)*math.Cos(a), cy+(radius+4)*math.Sin(a)
		vector.StrokeLine(dst, float32(x0), float32(y0), float32(x1), float32(y1), 4, clr, true)
	}
	vector.DrawFilledCircle(dst, float32(cx), float32(cy), float32(radius), clr, true)
	vector.DrawFilledCircle(dst, float32(cx), float32(cy), float32(radius/2.5), backgroundColor, true)
}

// pieceQuad returns the corners of a confetti piece, rotated about its center.
func pieceQuad(p effects.Piece) [][2]float64 {
	rad := p.Rotation * math.Pi / 180
	sin, cos := math.Sincos(rad)
	hw, hh := p.W/2, p.H/2

	corners := [4][2]float64{{-hw, -hh}, {hw, -hh}, {hw, hh}, {-hw, hh}}
	quad := make([][2]float64, 0, 4)
	for _, c := range corners {
		quad = append(quad, [2]float64{
			p.X + c[0]*cos - c[1]*sin,
			p.Y + c[0]*sin + c[1]*cos,
		})
	}
	return quad
}

// fade scales a premultiplied color by alpha.
func fade(c color.RGBA, alpha float64) color.RGBA {
	a := math.Max(0, math.Min(1, alpha))
	return color.RGBA{
		R: uint8(float64(c.R) * a),
		G: uint8(float64(c.G) * a),
		B: uint8(float64(c.B) * a),
		A: uint8(float64(c.A) * a),
	}
}

func drawConfetti(dst *ebiten.Image, pieces []effects.Piece) {
	for _, p := range pieces {
		if p.Alpha <= 0 {
			continue
		}
		fillPolygon(dst, pieceQuad(p), fade(p.Color, p.Alpha))
	}
}
