package roulette

import (
	"image/color"
	"math"
)

const (
	// PointerAngle is where the fixed pointer sits: straight up in screen space.
	PointerAngle = 270.0
	// RestAngle is the rotation of an idle wheel after its options change.
	RestAngle = 270.0

	SectorSaturation = 0.7
	SectorLightness  = 0.5

	// LabelInset is how far labels sit inside the rim.
	LabelInset = 20.0
	// RimMargin keeps the wheel off the surface edge.
	RimMargin = 5.0
)

// Geometry describes where the wheel sits on the drawing surface.
type Geometry struct {
	CenterX float64
	CenterY float64
	Radius  float64
}

// NewGeometry centers a wheel on a width x height surface.
func NewGeometry(width, height float64) Geometry {
	cx, cy := width/2, height/2
	return Geometry{
		CenterX: cx,
		CenterY: cy,
		Radius:  math.Min(cx, cy) - RimMargin,
	}
}

// Sector is one wedge of the wheel. Angles are in degrees, clockwise from +X
// in screen space, and are not normalized.
type Sector struct {
	Index int
	Start float64
	End   float64
	Hue   float64
	Color color.RGBA

	// Label anchor and text rotation.
	LabelX        float64
	LabelY        float64
	LabelRotation float64
}

func (s Sector) Mid() float64 {
	return s.Start + (s.End-s.Start)/2
}

func (s Sector) Span() float64 {
	return s.End - s.Start
}

// Contains reports whether the direction deg falls in [Start, End) modulo 360.
func (s Sector) Contains(deg float64) bool {
	span := s.Span()
	if span >= 360 {
		return true
	}
	offset := Normalize(deg - s.Start)
	return offset < span
}

// Sectors lays out n equal sectors rotated by angle degrees.
func (g Geometry) Sectors(n int, angle float64) []Sector {
	if n <= 0 {
		return nil
	}

	step := 360 / float64(n)
	labelRadius := g.Radius - LabelInset

	sectors := make([]Sector, n)
	for i := 0; i < n; i++ {
		start := float64(i)*step + angle
		end := float64(i+1)*step + angle
		mid := start + (end-start)/2
		midRad := mid * math.Pi / 180
		hue := float64(i) * step

		sectors[i] = Sector{
			Index:         i,
			Start:         start,
			End:           end,
			Hue:           hue,
			Color:         HSL(hue, SectorSaturation, SectorLightness),
			LabelX:        g.CenterX + labelRadius*math.Cos(midRad),
			LabelY:        g.CenterY + labelRadius*math.Sin(midRad),
			LabelRotation: mid + 90,
		}
	}
	return sectors
}

// ArcPoints returns the polygon of a wedge: the center followed by points
// along the rim from Start to End, at most maxStep degrees apart.
func (g Geometry) ArcPoints(s Sector, maxStep float64) [][2]float64 {
	if maxStep <= 0 {
		maxStep = 2
	}
	span := s.Span()
	segments := int(math.Ceil(span / maxStep))
	if segments < 1 {
		segments = 1
	}

	points := make([][2]float64, 0, segments+2)
	points = append(points, [2]float64{g.CenterX, g.CenterY})
	for k := 0; k <= segments; k++ {
		a := (s.Start + span*float64(k)/float64(segments)) * math.Pi / 180
		points = append(points, [2]float64{
			g.CenterX + g.Radius*math.Cos(a),
			g.CenterY + g.Radius*math.Sin(a),
		})
	}
	return points
}

// Normalize maps any angle into [0, 360).
func Normalize(angle float64) float64 {
	a := math.Mod(angle, 360)
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a = 0
	}
	return a
}

// PointerIndex returns the sector under the pointer for n sectors rotated by
// angle, or -1 when there are no sectors.
func PointerIndex(n int, angle float64) int {
	if n <= 0 {
		return -1
	}
	step := 360 / float64(n)
	idx := int(Normalize(PointerAngle-angle) / step)
	if idx >= n {
		idx = n - 1
	}
	return idx
}

// TargetAngle is the rotation in [0, 360) that centers sector i under the pointer.
func TargetAngle(n, i int) float64 {
	if n <= 0 {
		return RestAngle
	}
	step := 360 / float64(n)
	return Normalize(PointerAngle - (float64(i)+0.5)*step)
}
