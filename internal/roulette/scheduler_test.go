package roulette

import (
	"math"
	"math/rand/v2"
	"testing"
	"time"
)

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type recordingEffects struct {
	started int
	stopped []Result
}

func (e *recordingEffects) SpinStarted()         { e.started++ }
func (e *recordingEffects) SpinStopped(r Result) { e.stopped = append(e.stopped, r) }

// hostFrame is one ebiten tick at 60 TPS.
const hostFrame = time.Second / 60

func newTestScheduler(t *testing.T, mode Mode, labels ...string) (*Scheduler, *Registry, *fakeClock, *recordingEffects) {
	t.Helper()

	reg := NewRegistry()
	for _, l := range labels {
		if _, err := reg.Add(l); err != nil {
			t.Fatalf("Add(%q): %v", l, err)
		}
	}

	clock := newFakeClock()
	fx := &recordingEffects{}
	cfg := DefaultSpinConfig()
	cfg.Mode = mode

	s := NewScheduler(reg, fx,
		WithClock(clock),
		WithRand(rand.New(rand.NewPCG(1, 2))),
		WithSpinConfig(cfg),
	)
	reg.Subscribe(s.OptionsChanged)

	return s, reg, clock, fx
}

// runUntilIdle ticks at host frame rate and returns the number of ticks.
func runUntilIdle(t *testing.T, s *Scheduler, clock *fakeClock, limit int) int {
	t.Helper()
	for i := 0; i < limit; i++ {
		if s.State() == Idle {
			return i
		}
		clock.Advance(hostFrame)
		s.Tick()
	}
	if s.State() != Idle {
		t.Fatalf("still spinning after %d ticks", limit)
	}
	return limit
}

func TestSpinRequiresTwoOptions(t *testing.T) {
	for _, labels := range [][]string{nil, {"A"}} {
		s, _, _, fx := newTestScheduler(t, ModeResolved, labels...)

		if s.Spin() {
			t.Errorf("Spin() with %d options = true", len(labels))
		}
		if s.State() != Idle {
			t.Errorf("state = %v, want idle", s.State())
		}
		if fx.started != 0 {
			t.Errorf("effects started %d times", fx.started)
		}
		if _, ok := s.Session(); ok {
			t.Error("session exists without a spin")
		}
	}

	s, _, _, fx := newTestScheduler(t, ModeResolved, "A", "B")
	if !s.Spin() {
		t.Fatal("Spin() with two options = false")
	}
	if s.State() != Spinning || fx.started != 1 {
		t.Errorf("state = %v, started = %d", s.State(), fx.started)
	}
}

func TestSpinStartsSession(t *testing.T) {
	s, _, clock, _ := newTestScheduler(t, ModeClassic, "A", "B")
	s.Spin()

	sess, ok := s.Session()
	if !ok {
		t.Fatal("no session after Spin()")
	}
	if !sess.StartTime.Equal(clock.Now()) {
		t.Errorf("StartTime = %v, want %v", sess.StartTime, clock.Now())
	}
	if sess.FrameDelayMs != 1 {
		t.Errorf("FrameDelayMs = %d, want 1", sess.FrameDelayMs)
	}
}

func TestSpinIsNotReentrant(t *testing.T) {
	s, _, clock, fx := newTestScheduler(t, ModeClassic, "A", "B", "C")
	s.Spin()

	for i := 0; i < 30; i++ {
		clock.Advance(hostFrame)
		s.Tick()
	}
	before, _ := s.Session()

	clock.Advance(hostFrame)
	if s.Spin() {
		t.Error("Spin() while spinning = true")
	}

	after, _ := s.Session()
	if after.FrameDelayMs != before.FrameDelayMs {
		t.Errorf("FrameDelayMs changed from %d to %d", before.FrameDelayMs, after.FrameDelayMs)
	}
	if !after.StartTime.Equal(before.StartTime) {
		t.Errorf("StartTime changed from %v to %v", before.StartTime, after.StartTime)
	}
	if fx.started != 1 {
		t.Errorf("effects started %d times", fx.started)
	}
}

func TestFrameDelayMonotonicAndBounded(t *testing.T) {
	s, _, clock, _ := newTestScheduler(t, ModeClassic, "A", "B", "C")
	s.Spin()

	prev := 1
	reachedCeiling := false
	for s.State() == Spinning {
		clock.Advance(time.Millisecond)
		s.Tick()
		sess, ok := s.Session()
		if !ok {
			break
		}
		if sess.FrameDelayMs < prev {
			t.Fatalf("FrameDelayMs decreased from %d to %d", prev, sess.FrameDelayMs)
		}
		if sess.FrameDelayMs > DefaultMaxFrameDelayMs {
			t.Fatalf("FrameDelayMs = %d exceeds %d", sess.FrameDelayMs, DefaultMaxFrameDelayMs)
		}
		if sess.FrameDelayMs == DefaultMaxFrameDelayMs {
			reachedCeiling = true
		}
		prev = sess.FrameDelayMs
	}
	if !reachedCeiling {
		t.Error("frame delay never reached its ceiling")
	}
}

func TestFrameDelayCeilingIsClamped(t *testing.T) {
	tests := []struct {
		name    string
		ceiling int
		want    int
	}{
		{"above 50", 500, DefaultMaxFrameDelayMs},
		{"zero", 0, 1},
		{"within range", 20, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry()
			reg.Add("A")
			reg.Add("B")
			clock := newFakeClock()

			s := NewScheduler(reg, nil,
				WithClock(clock),
				WithRand(rand.New(rand.NewPCG(3, 4))),
				WithSpinConfig(SpinConfig{Mode: ModeClassic, MaxFrameDelayMs: tt.ceiling}),
			)
			if got := s.Config().MaxFrameDelayMs; got != tt.want {
				t.Fatalf("MaxFrameDelayMs = %d, want %d", got, tt.want)
			}

			s.Spin()
			highest := 0
			for s.State() == Spinning {
				clock.Advance(time.Millisecond)
				s.Tick()
				if sess, ok := s.Session(); ok {
					highest = max(highest, sess.FrameDelayMs)
				}
			}
			if highest > tt.want {
				t.Errorf("FrameDelayMs reached %d, ceiling %d", highest, tt.want)
			}
			if highest != tt.want {
				t.Errorf("FrameDelayMs peaked at %d, want %d", highest, tt.want)
			}
		})
	}
}

func TestFramesWaitForTheirDelay(t *testing.T) {
	s, _, clock, _ := newTestScheduler(t, ModeClassic, "A", "B")
	s.Spin()

	if !s.Tick() {
		t.Fatal("first frame should run immediately")
	}
	// next frame is due 1ms later, then 2ms after that
	if s.Tick() {
		t.Error("frame ran before its delay")
	}
	clock.Advance(time.Millisecond)
	if !s.Tick() {
		t.Error("frame did not run once due")
	}
	clock.Advance(time.Millisecond)
	if s.Tick() {
		t.Error("frame ran 1ms into a 2ms delay")
	}
	clock.Advance(time.Millisecond)
	if !s.Tick() {
		t.Error("frame did not run after 2ms")
	}

	sess, _ := s.Session()
	if sess.Frames != 3 {
		t.Errorf("Frames = %d, want 3", sess.Frames)
	}
}

func TestSpinTerminatesWithinBudget(t *testing.T) {
	s, _, clock, fx := newTestScheduler(t, ModeClassic, "A", "B", "C")
	s.Spin()
	start := clock.Now()

	for s.State() == Spinning {
		sess, _ := s.Session()
		clock.Advance(hostFrame)
		s.Tick()

		elapsed := clock.Now().Sub(start)
		due := !clock.Now().Before(sess.NextFrameAt)
		if elapsed >= SpinBudget && due && s.State() != Idle {
			t.Fatalf("still spinning on a due frame at %v", elapsed)
		}
		if elapsed > SpinBudget+DefaultMaxFrameDelayMs*time.Millisecond+hostFrame {
			t.Fatalf("overran the budget: %v", elapsed)
		}
	}

	if len(fx.stopped) != 1 {
		t.Fatalf("SpinStopped called %d times", len(fx.stopped))
	}
	if fx.stopped[0].Elapsed < SpinBudget {
		t.Errorf("stopped after %v, before the budget", fx.stopped[0].Elapsed)
	}
}

func TestTerminatesOnFirstStepPastBudget(t *testing.T) {
	s, _, clock, fx := newTestScheduler(t, ModeClassic, "A", "B")
	s.Spin()
	s.Tick()

	clock.Advance(SpinBudget)
	if !s.Tick() {
		t.Fatal("due tick did nothing")
	}
	if s.State() != Idle {
		t.Errorf("state = %v, want idle", s.State())
	}
	if len(fx.stopped) != 1 {
		t.Errorf("SpinStopped called %d times", len(fx.stopped))
	}
	if _, ok := s.Session(); ok {
		t.Error("session survived termination")
	}
}

func TestClassicModeDrawsRandomAngles(t *testing.T) {
	s, _, clock, fx := newTestScheduler(t, ModeClassic, "A", "B", "C")
	s.Spin()

	distinct := make(map[float64]bool)
	frames := 0
	for i := 0; i < 50; i++ {
		clock.Advance(hostFrame)
		if !s.Tick() {
			continue
		}
		frames++
		a := s.Angle()
		if a < 0 || a >= 360 {
			t.Fatalf("angle %v outside [0,360)", a)
		}
		distinct[a] = true
	}
	if frames < 20 {
		t.Fatalf("only %d frames drawn in 50 ticks", frames)
	}
	if len(distinct) != frames {
		t.Errorf("%d distinct angles in %d frames", len(distinct), frames)
	}

	runUntilIdle(t, s, clock, 10000)
	res := fx.stopped[0]
	if res.Resolved || res.Index != -1 {
		t.Errorf("classic mode resolved a winner: %+v", res)
	}
}

func TestResolvedModeLandsOnWinner(t *testing.T) {
	for seed := uint64(0); seed < 20; seed++ {
		s, reg, clock, fx := newTestScheduler(t, ModeResolved, "A", "B", "C", "D", "E")
		s.rng = rand.New(rand.NewPCG(seed, seed*7+1))
		s.Spin()

		sess, _ := s.Session()
		target := sess.Target
		if target < 0 || target >= reg.Len() {
			t.Fatalf("target %d out of range", target)
		}

		runUntilIdle(t, s, clock, 10000)

		res := fx.stopped[0]
		if !res.Resolved {
			t.Fatalf("seed %d: no winner resolved", seed)
		}
		if res.Index != target {
			t.Errorf("seed %d: winner %d, sampled %d", seed, res.Index, target)
		}
		if res.Winner != reg.Options()[target] {
			t.Errorf("seed %d: winner %+v, want %+v", seed, res.Winner, reg.Options()[target])
		}
		if math.Abs(res.Angle-TargetAngle(reg.Len(), target)) > 1e-6 {
			t.Errorf("seed %d: stop angle %v, want %v", seed, res.Angle, TargetAngle(reg.Len(), target))
		}
		if got, ok := s.LastResult(); !ok || got != res {
			t.Errorf("LastResult() = %+v, %v", got, ok)
		}
	}
}

func TestResolvedModeDecelerates(t *testing.T) {
	s, _, clock, _ := newTestScheduler(t, ModeResolved, "A", "B", "C")
	s.Spin()
	sess, _ := s.Session()

	// unwrap the eased position and check the rotation rate shrinks
	prevTravel := 0.0
	prevAt := sess.StartTime
	prevRate := math.Inf(1)
	for i := 0; i < 600 && s.State() == Spinning; i++ {
		clock.Advance(hostFrame)
		if !s.Tick() {
			continue
		}
		if _, ok := s.Session(); !ok {
			break
		}

		now := clock.Now()
		elapsed := now.Sub(sess.StartTime)
		travel := sess.Delta * EaseOutCubic(float64(elapsed)/float64(SpinBudget))
		if math.Abs(Normalize(sess.From+travel)-s.Angle()) > 1e-6 {
			t.Fatalf("angle %v off the easing curve %v", s.Angle(), Normalize(sess.From+travel))
		}

		rate := (travel - prevTravel) / now.Sub(prevAt).Seconds()
		if rate > prevRate+1e-9 {
			t.Fatalf("rotation sped up at tick %d: %v > %v deg/s", i, rate, prevRate)
		}
		prevTravel, prevAt, prevRate = travel, now, rate
	}
}

func TestOptionsChangeMidSpin(t *testing.T) {
	s, reg, clock, fx := newTestScheduler(t, ModeResolved, "A", "B", "C")
	s.Spin()
	for i := 0; i < 10; i++ {
		clock.Advance(hostFrame)
		s.Tick()
	}
	angle := s.Angle()

	// spinning wheels keep their angle when options change
	opt, _ := reg.Add("D")
	if s.Angle() != angle {
		t.Errorf("angle reset mid-spin: %v -> %v", angle, s.Angle())
	}
	reg.Remove(opt.ID)
	reg.Remove(reg.Options()[0].ID)

	runUntilIdle(t, s, clock, 10000)
	res := fx.stopped[0]
	if res.Resolved && (res.Index < 0 || res.Index >= reg.Len()) {
		t.Errorf("winner index %d out of range for %d options", res.Index, reg.Len())
	}
}

func TestIdleWheelResetsOnChange(t *testing.T) {
	s, reg, clock, _ := newTestScheduler(t, ModeClassic, "A", "B")
	if s.Angle() != RestAngle {
		t.Errorf("initial angle = %v, want %v", s.Angle(), RestAngle)
	}

	s.Spin()
	runUntilIdle(t, s, clock, 10000)
	last := s.Angle()

	// the wheel rests where it stopped until options change
	clock.Advance(time.Second)
	s.Tick()
	if s.Angle() != last {
		t.Errorf("idle wheel moved from %v to %v", last, s.Angle())
	}

	reg.Add("C")
	if s.Angle() != RestAngle {
		t.Errorf("angle after change = %v, want %v", s.Angle(), RestAngle)
	}
}

func TestSpinAgainAfterFinish(t *testing.T) {
	s, _, clock, fx := newTestScheduler(t, ModeResolved, "A", "B")
	s.Spin()
	runUntilIdle(t, s, clock, 10000)

	if !s.Spin() {
		t.Fatal("could not spin again after finishing")
	}
	runUntilIdle(t, s, clock, 10000)
	if fx.started != 2 || len(fx.stopped) != 2 {
		t.Errorf("started=%d stopped=%d, want 2 and 2", fx.started, len(fx.stopped))
	}
}

func TestStateString(t *testing.T) {
	if Idle.String() != "idle" || Spinning.String() != "spinning" || State(9).String() != "unknown" {
		t.Error("unexpected State strings")
	}
}
