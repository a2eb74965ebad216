package roulette

import (
	"math/rand/v2"
	"time"

	"github.com/iburimskiy/roulette/internal/lib/logger/sl"
	"golang.org/x/exp/slog"
)

// State of the spin state machine.
type State int

const (
	Idle State = iota
	Spinning
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Spinning:
		return "spinning"
	default:
		return "unknown"
	}
}

// Mode selects how frame angles are produced.
type Mode string

const (
	// ModeClassic draws an independent random angle every frame and never
	// resolves a winner.
	ModeClassic Mode = "classic"
	// ModeResolved samples the winner up front and eases the wheel onto it.
	ModeResolved Mode = "resolved"
)

// SpinBudget is the wall-clock length of every spin.
const SpinBudget = 4 * time.Second

const (
	// DefaultMaxFrameDelayMs is also the highest ceiling a config may ask for.
	DefaultMaxFrameDelayMs = 50
	DefaultExtraTurns      = 6
)

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the wall clock.
func SystemClock() Clock { return systemClock{} }

// Rand is the randomness a spin consumes. *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }
func (globalRand) IntN(n int) int   { return rand.IntN(n) }

// Effects is told when a spin starts and stops. Implementations must not block.
type Effects interface {
	SpinStarted()
	SpinStopped(Result)
}

type noEffects struct{}

func (noEffects) SpinStarted()       {}
func (noEffects) SpinStopped(Result) {}

// OptionSource is read at spin start and at every frame.
type OptionSource interface {
	Options() []Option
}

// Session is the state of one spin. It only exists while spinning.
type Session struct {
	StartTime    time.Time
	FrameDelayMs int
	NextFrameAt  time.Time
	Frames       int

	// Resolved mode only.
	From   float64
	Delta  float64
	Target int
}

// Result describes a finished spin. Winner is only set when Resolved is true.
type Result struct {
	Winner   Option
	Index    int
	Resolved bool
	Angle    float64
	Frames   int
	Elapsed  time.Duration
}

type SpinConfig struct {
	Mode            Mode
	MaxFrameDelayMs int
	ExtraTurns      int
}

func DefaultSpinConfig() SpinConfig {
	return SpinConfig{
		Mode:            ModeResolved,
		MaxFrameDelayMs: DefaultMaxFrameDelayMs,
		ExtraTurns:      DefaultExtraTurns,
	}
}

// Scheduler drives the spin animation. Tick must be called once per host
// frame; a step only runs once the session's frame delay has passed.
type Scheduler struct {
	cfg     SpinConfig
	clock   Clock
	rng     Rand
	options OptionSource
	effects Effects
	log     *slog.Logger

	state   State
	session Session
	angle   float64

	last    Result
	hasLast bool
}

type SchedulerOption func(*Scheduler)

func WithClock(c Clock) SchedulerOption {
	return func(s *Scheduler) { s.clock = c }
}

func WithRand(r Rand) SchedulerOption {
	return func(s *Scheduler) { s.rng = r }
}

func WithLogger(log *slog.Logger) SchedulerOption {
	return func(s *Scheduler) { s.log = log }
}

func WithSpinConfig(cfg SpinConfig) SchedulerOption {
	return func(s *Scheduler) { s.cfg = cfg }
}

func NewScheduler(options OptionSource, effects Effects, opts ...SchedulerOption) *Scheduler {
	if effects == nil {
		effects = noEffects{}
	}
	s := &Scheduler{
		cfg:     DefaultSpinConfig(),
		clock:   SystemClock(),
		rng:     globalRand{},
		options: options,
		effects: effects,
		log:     sl.Discard(),
		angle:   RestAngle,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.cfg.MaxFrameDelayMs = max(1, min(s.cfg.MaxFrameDelayMs, DefaultMaxFrameDelayMs))
	if s.cfg.Mode == "" {
		s.cfg.Mode = ModeResolved
	}
	return s
}

func (s *Scheduler) State() State { return s.state }

func (s *Scheduler) Spinning() bool { return s.state == Spinning }

// Angle is the current rotation in [0, 360).
func (s *Scheduler) Angle() float64 { return s.angle }

func (s *Scheduler) Config() SpinConfig { return s.cfg }

// Session returns the active session, if any.
func (s *Scheduler) Session() (Session, bool) {
	if s.state != Spinning {
		return Session{}, false
	}
	return s.session, true
}

// LastResult returns the outcome of the most recent finished spin.
func (s *Scheduler) LastResult() (Result, bool) {
	return s.last, s.hasLast
}

// OptionsChanged resets an idle wheel to its rest angle. A spinning wheel
// keeps its angle; the next frame simply uses the new sector count.
func (s *Scheduler) OptionsChanged() {
	if s.state == Spinning {
		return
	}
	s.angle = RestAngle
}

// Spin starts a session. It reports false when already spinning or when
// there are fewer than MinOptions options.
func (s *Scheduler) Spin() bool {
	if s.state == Spinning {
		s.log.Debug("spin ignored, wheel already spinning")
		return false
	}

	n := len(s.options.Options())
	if n < MinOptions {
		s.log.Debug("spin ignored, not enough options", slog.Int("options", n))
		return false
	}

	now := s.clock.Now()
	s.session = Session{
		StartTime:    now,
		FrameDelayMs: 1,
		NextFrameAt:  now,
		From:         s.angle,
		Target:       -1,
	}

	if s.cfg.Mode == ModeResolved {
		target := s.rng.IntN(n)
		stop := TargetAngle(n, target)
		s.session.Target = target
		s.session.Delta = Normalize(stop-s.angle) + 360*float64(s.cfg.ExtraTurns)
	}

	s.state = Spinning
	s.log.Info("spin started",
		slog.Int("options", n),
		sl.String("mode", string(s.cfg.Mode)),
	)
	s.effects.SpinStarted()

	return true
}

// Tick advances the session if its next frame is due. It reports whether a
// frame was drawn or the spin ended.
func (s *Scheduler) Tick() bool {
	if s.state != Spinning {
		return false
	}
	now := s.clock.Now()
	if now.Before(s.session.NextFrameAt) {
		return false
	}
	s.step(now)
	return true
}

func (s *Scheduler) step(now time.Time) {
	elapsed := now.Sub(s.session.StartTime)
	if elapsed >= SpinBudget {
		s.finish(elapsed)
		return
	}

	s.angle = s.frameAngle(elapsed)
	s.session.Frames++

	s.session.NextFrameAt = now.Add(time.Duration(s.session.FrameDelayMs) * time.Millisecond)
	if s.session.FrameDelayMs < s.cfg.MaxFrameDelayMs {
		s.session.FrameDelayMs++
	}
}

func (s *Scheduler) frameAngle(elapsed time.Duration) float64 {
	if s.cfg.Mode == ModeClassic {
		return Normalize(s.rng.Float64() * 360)
	}
	p := float64(elapsed) / float64(SpinBudget)
	return Normalize(s.session.From + s.session.Delta*EaseOutCubic(p))
}

func (s *Scheduler) finish(elapsed time.Duration) {
	res := Result{
		Index:   -1,
		Frames:  s.session.Frames,
		Elapsed: elapsed,
	}

	if s.cfg.Mode == ModeResolved {
		s.angle = Normalize(s.session.From + s.session.Delta)
		opts := s.options.Options()
		if idx := PointerIndex(len(opts), s.angle); idx >= 0 {
			res.Winner = opts[idx]
			res.Index = idx
			res.Resolved = true
		}
	}
	res.Angle = s.angle

	s.state = Idle
	s.session = Session{}
	s.last = res
	s.hasLast = true

	if res.Resolved {
		s.log.Info("spin finished",
			slog.Int("frames", res.Frames),
			sl.String("winner", res.Winner.Value),
		)
	} else {
		s.log.Info("spin finished", slog.Int("frames", res.Frames))
	}
	s.effects.SpinStopped(res)
}
