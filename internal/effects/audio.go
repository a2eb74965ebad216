package effects

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/faiface/beep"
	beepfx "github.com/faiface/beep/effects"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
	"golang.org/x/exp/slog"
	"golang.org/x/sync/errgroup"

	"github.com/iburimskiy/roulette/internal/lib/logger/sl"
)

// Cue identifies one of the pre-loaded sound cues.
type Cue int

const (
	CueSpin Cue = iota
	CueDone
)

func (c Cue) String() string {
	switch c {
	case CueSpin:
		return "spin"
	case CueDone:
		return "done"
	default:
		return fmt.Sprintf("cue(%d)", int(c))
	}
}

// CuePlayer plays pre-loaded cues without blocking.
type CuePlayer interface {
	Play(Cue) error
	// Level is the loudness of the cue playing right now, in [0, 1].
	Level() float64
}

// Silent is a CuePlayer for when audio could not be set up.
type Silent struct{}

func (Silent) Play(Cue) error { return nil }
func (Silent) Level() float64 { return 0 }

const (
	sampleRate   = beep.SampleRate(44100)
	levelRing    = 4096
	levelWindow  = 1024
	resampleQual = 4
)

// CueBank keeps decoded cues in memory and plays them through the speaker.
type CueBank struct {
	log     *slog.Logger
	volume  float64
	buffers map[Cue]*beep.Buffer
	tap     *levelTap
}

// LoadCues decodes every cue concurrently, then initializes the speaker.
// Supported formats are .mp3, .wav and .flac.
func LoadCues(ctx context.Context, log *slog.Logger, volume float64, paths map[Cue]string) (*CueBank, error) {
	const op = "effects.LoadCues"

	cues := make([]Cue, 0, len(paths))
	for c := range paths {
		cues = append(cues, c)
	}
	decoded := make([]*beep.Buffer, len(cues))

	g, ctx := errgroup.WithContext(ctx)
	for i, c := range cues {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			buf, err := decodeFile(paths[c])
			if err != nil {
				return fmt.Errorf("cue %s: %w", c, err)
			}
			decoded[i] = buf
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/20)); err != nil {
		return nil, fmt.Errorf("%s: speaker init: %w", op, err)
	}

	bank := &CueBank{
		log:     log,
		volume:  volume,
		buffers: make(map[Cue]*beep.Buffer, len(cues)),
	}
	for i, c := range cues {
		bank.buffers[c] = decoded[i]
		log.Debug("cue loaded",
			sl.String("cue", c.String()),
			sl.String("path", paths[c]),
			slog.Duration("length", sampleRate.D(decoded[i].Len())),
		)
	}

	return bank, nil
}

func decodeFile(path string) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	default:
		_ = f.Close()
		return nil, errors.New("unsupported file type: " + ext)
	}
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	defer streamer.Close()

	var src beep.Streamer = streamer
	if format.SampleRate != sampleRate {
		src = beep.Resample(resampleQual, format.SampleRate, sampleRate, streamer)
	}

	buf := beep.NewBuffer(beep.Format{SampleRate: sampleRate, NumChannels: 2, Precision: 2})
	buf.Append(src)
	if err := streamer.Err(); err != nil {
		return nil, err
	}
	return buf, nil
}

// Play starts a cue from the beginning at the bank volume.
func (b *CueBank) Play(c Cue) error {
	const op = "effects.CueBank.Play"

	buf, ok := b.buffers[c]
	if !ok {
		return fmt.Errorf("%s: cue %s not loaded", op, c)
	}

	vol := &beepfx.Volume{
		Streamer: buf.Streamer(0, buf.Len()),
		Base:     2,
		Volume:   math.Log2(math.Max(b.volume, 1e-6)),
		Silent:   b.volume <= 0,
	}
	tap := newLevelTap(vol, levelRing)

	speaker.Lock()
	b.tap = tap
	speaker.Unlock()

	speaker.Play(tap)
	return nil
}

func (b *CueBank) Level() float64 {
	speaker.Lock()
	tap := b.tap
	speaker.Unlock()

	if tap == nil {
		return 0
	}
	return tap.level(levelWindow)
}

// Close stops everything the bank is playing.
func (b *CueBank) Close() {
	speaker.Lock()
	speaker.Clear()
	b.tap = nil
	speaker.Unlock()
}
