package game

import (
	"bytes"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// rect is an axis-aligned hit area in window coordinates.
type rect struct {
	X, Y, W, H float64
}

func (r rect) contains(x, y int) bool {
	fx, fy := float64(x), float64(y)
	return fx >= r.X && fx < r.X+r.W && fy >= r.Y && fy < r.Y+r.H
}

func (r rect) center() (float64, float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// keyRepeat reports whether a key held for d ticks should fire: on the first
// tick, then every third tick after half a second.
func keyRepeat(d int) bool {
	return d == 1 || (d >= 30 && d%3 == 0)
}

// faces holds the UI typefaces, all cut from Go Regular.
type faces struct {
	label  *text.GoTextFace
	ui     *text.GoTextFace
	title  *text.GoTextFace
	button *text.GoTextFace
}

func loadFaces(labelSize float64) (faces, error) {
	const op = "game.loadFaces"

	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return faces{}, fmt.Errorf("%s: %w", op, err)
	}
	face := func(size float64) *text.GoTextFace {
		return &text.GoTextFace{Source: src, Size: size, Direction: text.DirectionLeftToRight}
	}
	return faces{
		label:  face(labelSize),
		ui:     face(14),
		title:  face(26),
		button: face(16),
	}, nil
}

// ellipsize shortens s with a trailing ellipsis until it fits maxWidth.
func ellipsize(s string, face text.Face, maxWidth float64) string {
	if text.Advance(s, face) <= maxWidth {
		return s
	}
	rs := []rune(s)
	for len(rs) > 0 {
		rs = rs[:len(rs)-1]
		if t := string(rs) + "…"; text.Advance(t, face) <= maxWidth {
			return t
		}
	}
	return ""
}
