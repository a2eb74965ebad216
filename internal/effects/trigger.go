package effects

import (
	"golang.org/x/exp/slog"

	"github.com/iburimskiy/roulette/internal/lib/logger/sl"
	"github.com/iburimskiy/roulette/internal/roulette"
)

// Trigger plays the cues and launches confetti around a spin.
// It implements roulette.Effects.
type Trigger struct {
	cues     CuePlayer
	confetti *Confetti
	originX  float64
	originY  float64
	log      *slog.Logger
}

var _ roulette.Effects = (*Trigger)(nil)

// NewTrigger bursts confetti from (originX, originY) when a spin stops.
func NewTrigger(cues CuePlayer, confetti *Confetti, originX, originY float64, log *slog.Logger) *Trigger {
	if cues == nil {
		cues = Silent{}
	}
	if log == nil {
		log = sl.Discard()
	}
	return &Trigger{
		cues:     cues,
		confetti: confetti,
		originX:  originX,
		originY:  originY,
		log:      log,
	}
}

func (t *Trigger) SpinStarted() {
	t.confetti.Clear()
	t.play(CueSpin)
}

func (t *Trigger) SpinStopped(res roulette.Result) {
	t.play(CueDone)
	t.confetti.Burst(t.originX, t.originY)

	if res.Resolved {
		t.log.Debug("celebrating", sl.String("winner", res.Winner.Value))
	}
}

func (t *Trigger) Confetti() *Confetti {
	return t.confetti
}

func (t *Trigger) play(c Cue) {
	if err := t.cues.Play(c); err != nil {
		t.log.Warn("cue playback failed", sl.String("cue", c.String()), sl.Err(err))
	}
}
