package game

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/roulette/internal/roulette"
)

const arcStep = 2.0 // degrees between rim points

var (
	emptyDiscColor  = color.RGBA{R: 0x40, G: 0x40, B: 0x40, A: 0xff}
	filledDiscColor = color.RGBA{R: 0xE5, G: 0xE7, B: 0xEB, A: 0xff}
	labelColor      = color.White
)

var (
	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
)

// vertex colors come from color.Color.RGBA, which is premultiplied
var trianglesOptions = &ebiten.DrawTrianglesOptions{
	AntiAlias:      true,
	ColorScaleMode: ebiten.ColorScaleModePremultipliedAlpha,
}

func init() {
	whiteImage.Fill(color.White)
}

// Renderer paints the wheel onto a surface it owns.
type Renderer struct {
	surface *ebiten.Image
	geom    roulette.Geometry
	face    text.Face

	vs []ebiten.Vertex
	is []uint16
}

func NewRenderer(size int, face text.Face) *Renderer {
	return &Renderer{
		surface: ebiten.NewImage(size, size),
		geom:    roulette.NewGeometry(float64(size), float64(size)),
		face:    face,
	}
}

func (r *Renderer) Surface() *ebiten.Image { return r.surface }

func (r *Renderer) Geometry() roulette.Geometry { return r.geom }

// Draw repaints the wheel for options rotated by angle degrees. It does
// nothing once the surface is gone.
func (r *Renderer) Draw(options []roulette.Option, angle float64) {
	if r.surface == nil {
		return
	}
	r.surface.Clear()

	n := len(options)
	disc := filledDiscColor
	if n == 0 {
		disc = emptyDiscColor
	}
	vector.DrawFilledCircle(r.surface,
		float32(r.geom.CenterX), float32(r.geom.CenterY), float32(r.geom.Radius),
		disc, true)

	if n == 0 {
		return
	}

	sectors := r.geom.Sectors(n, angle)
	if n == 1 {
		// a single sector is the whole disc
		vector.DrawFilledCircle(r.surface,
			float32(r.geom.CenterX), float32(r.geom.CenterY), float32(r.geom.Radius),
			sectors[0].Color, true)
	} else {
		for _, s := range sectors {
			r.vs, r.is = fanVertices(r.vs[:0], r.is[:0], r.geom.ArcPoints(s, arcStep), s.Color)
			r.surface.DrawTriangles(r.vs, r.is, whiteSubImage, trianglesOptions)
		}
	}

	if r.face == nil {
		return
	}
	for _, s := range sectors {
		op := &text.DrawOptions{}
		op.GeoM.Rotate(s.LabelRotation * math.Pi / 180)
		op.GeoM.Translate(s.LabelX, s.LabelY)
		op.ColorScale.ScaleWithColor(labelColor)
		op.PrimaryAlign = text.AlignCenter
		op.SecondaryAlign = text.AlignCenter
		text.Draw(r.surface, options[s.Index].Value, r.face, op)
	}
}

// Close releases the surface.
func (r *Renderer) Close() {
	if r.surface == nil {
		return
	}
	r.surface.Deallocate()
	r.surface = nil
}

// fanVertices appends a triangle fan over points, whose first element is the
// hub, filled with clr.
func fanVertices(vs []ebiten.Vertex, is []uint16, points [][2]float64, clr color.Color) ([]ebiten.Vertex, []uint16) {
	if len(points) < 3 {
		return vs, is
	}
	cr, cg, cb, ca := clr.RGBA()

	base := uint16(len(vs))
	for _, p := range points {
		vs = append(vs, ebiten.Vertex{
			DstX:   float32(p[0]),
			DstY:   float32(p[1]),
			SrcX:   1,
			SrcY:   1,
			ColorR: float32(cr) / 0xffff,
			ColorG: float32(cg) / 0xffff,
			ColorB: float32(cb) / 0xffff,
			ColorA: float32(ca) / 0xffff,
		})
	}
	for k := 1; k < len(points)-1; k++ {
		is = append(is, base, base+uint16(k), base+uint16(k+1))
	}
	return vs, is
}

// fillPolygon fills a convex polygon given in order.
func fillPolygon(dst *ebiten.Image, points [][2]float64, clr color.Color) {
	vs, is := fanVertices(nil, nil, points, clr)
	if len(is) == 0 {
		return
	}
	dst.DrawTriangles(vs, is, whiteSubImage, trianglesOptions)
}
