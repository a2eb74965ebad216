package effects

import (
	"image/color"
	"math"
	"math/rand/v2"
	"time"

	"github.com/iburimskiy/roulette/internal/roulette"
)

const (
	confettiGravity   = 900.0 // px/s²
	confettiDrag      = 0.6   // fraction of velocity kept per second
	confettiMinSpeed  = 250.0
	confettiMaxSpeed  = 900.0
	confettiMinSize   = 4.0
	confettiMaxSize   = 9.0
	confettiMaxSpin   = 720.0 // deg/s
	confettiFadeShare = 0.3   // last share of the lifetime spent fading out
)

// Piece is one confetti particle.
type Piece struct {
	X, Y     float64
	VX, VY   float64
	Rotation float64 // degrees
	Spin     float64 // deg/s
	W, H     float64
	Color    color.RGBA
	Alpha    float64
}

// Confetti is a time-bounded celebratory burst. It is driven by the game
// loop and is not safe for concurrent use.
type Confetti struct {
	duration time.Duration
	count    int
	rng      *rand.Rand

	pieces []Piece
	age    time.Duration
	active bool
}

func NewConfetti(duration time.Duration, count int, rng *rand.Rand) *Confetti {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Confetti{
		duration: duration,
		count:    count,
		rng:      rng,
	}
}

// Burst launches the pieces from (x, y), upward in a wide fan.
func (c *Confetti) Burst(x, y float64) {
	c.pieces = c.pieces[:0]
	for i := 0; i < c.count; i++ {
		// fan between 200 and 340 degrees: mostly up, some sideways
		dir := (200 + c.rng.Float64()*140) * math.Pi / 180
		speed := confettiMinSpeed + c.rng.Float64()*(confettiMaxSpeed-confettiMinSpeed)
		size := confettiMinSize + c.rng.Float64()*(confettiMaxSize-confettiMinSize)

		c.pieces = append(c.pieces, Piece{
			X:        x,
			Y:        y,
			VX:       math.Cos(dir) * speed,
			VY:       math.Sin(dir) * speed,
			Rotation: c.rng.Float64() * 360,
			Spin:     (c.rng.Float64()*2 - 1) * confettiMaxSpin,
			W:        size,
			H:        size * 0.5,
			Color:    roulette.HSL(c.rng.Float64()*360, 0.8, 0.6),
			Alpha:    1,
		})
	}
	c.age = 0
	c.active = c.count > 0 && c.duration > 0
}

// Update advances the burst by dt and ends it once its duration has passed.
func (c *Confetti) Update(dt time.Duration) {
	if !c.active {
		return
	}

	c.age += dt
	if c.age >= c.duration {
		c.Clear()
		return
	}

	secs := dt.Seconds()
	keep := math.Pow(confettiDrag, secs)
	alpha := c.alpha()
	for i := range c.pieces {
		p := &c.pieces[i]
		p.VX *= keep
		p.VY = p.VY*keep + confettiGravity*secs
		p.X += p.VX * secs
		p.Y += p.VY * secs
		p.Rotation = math.Mod(p.Rotation+p.Spin*secs, 360)
		p.Alpha = alpha
	}
}

func (c *Confetti) alpha() float64 {
	fadeStart := float64(c.duration) * (1 - confettiFadeShare)
	if float64(c.age) <= fadeStart {
		return 1
	}
	return math.Max(0, 1-(float64(c.age)-fadeStart)/(float64(c.duration)-fadeStart))
}

// Clear removes every piece immediately.
func (c *Confetti) Clear() {
	c.pieces = c.pieces[:0]
	c.age = 0
	c.active = false
}

func (c *Confetti) Active() bool {
	return c.active
}

// Pieces returns the live pieces. The slice is reused by the next Update.
func (c *Confetti) Pieces() []Piece {
	return c.pieces
}
