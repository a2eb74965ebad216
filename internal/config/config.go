package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	WindowWidth  = 480
	WindowHeight = 720

	// Wheel surface
	CanvasSize = 350
	CanvasX    = (WindowWidth - CanvasSize) / 2
	CanvasY    = 70

	// Pointer triangle above the wheel
	PointerHalfWidth = 10
	PointerHeight    = 15

	// Spin button in the wheel center
	SpinButtonRadius = 32

	// Input form
	FieldWidth   = 240
	FieldHeight  = 28
	FieldX       = (WindowWidth - FieldWidth) / 2
	FieldY       = CanvasY + CanvasSize + 30
	ButtonWidth  = FieldWidth
	ButtonHeight = 28
	ButtonX      = FieldX
	ButtonY      = FieldY + FieldHeight + 8

	// Options panel toggle
	GearSize = 28
	GearX    = (WindowWidth - GearSize) / 2
	GearY    = ButtonY + ButtonHeight + 12

	LabelFontSize = 12
)

// Spin modes.
const (
	ModeClassic  = "classic"
	ModeResolved = "resolved"
)

const EnvPath = "ROULETTE_CONFIG"

// MaxFrameDelayMs caps spin.maxFrameDelayMs.
const MaxFrameDelayMs = 50

type Config struct {
	Window   Window   `yaml:"window"`
	Spin     Spin     `yaml:"spin"`
	Audio    Audio    `yaml:"audio"`
	Confetti Confetti `yaml:"confetti"`
	Log      Log      `yaml:"log"`
	Storage  Storage  `yaml:"storage"`
}

type Window struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// Spin tunes the animation. The spin length itself is fixed.
type Spin struct {
	Mode            string `yaml:"mode"`
	MaxFrameDelayMs int    `yaml:"maxFrameDelayMs"`
	ExtraTurns      int    `yaml:"extraTurns"`
}

type Audio struct {
	Volume  float64 `yaml:"volume"`
	SpinCue string  `yaml:"spinCue"`
	DoneCue string  `yaml:"doneCue"`
}

type Confetti struct {
	Duration time.Duration `yaml:"duration"`
	Count    int           `yaml:"count"`
}

type Log struct {
	Env  string `yaml:"env"`
	File string `yaml:"file"`
}

type Storage struct {
	AppName string `yaml:"appName"`
}

func Default() Config {
	return Config{
		Window: Window{
			Width:  WindowWidth,
			Height: WindowHeight,
			Title:  "Multigames | Roulette",
		},
		Spin: Spin{
			Mode:            ModeResolved,
			MaxFrameDelayMs: MaxFrameDelayMs,
			ExtraTurns:      6,
		},
		Audio: Audio{
			Volume:  0.2,
			SpinCue: "assets/wheelsound.mp3",
			DoneCue: "assets/confettisound.mp3",
		},
		Confetti: Confetti{
			Duration: 3 * time.Second,
			Count:    150,
		},
		Log: Log{
			Env: "local",
		},
		Storage: Storage{
			AppName: "multigames",
		},
	}
}

// Path returns the config file location, honoring ROULETTE_CONFIG.
func Path() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	return "config.yaml"
}

// Load reads a YAML file on top of Default. A missing file is not an error;
// unknown keys are.
func Load(path string) (Config, error) {
	const op = "config.Load"

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("%s: %w", op, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Default(), fmt.Errorf("%s: %w", op, err)
	}

	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("%s: %w", op, err)
	}

	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Spin.Mode {
	case ModeClassic, ModeResolved:
	default:
		return fmt.Errorf("unknown spin mode %q", c.Spin.Mode)
	}
	if c.Spin.MaxFrameDelayMs < 1 || c.Spin.MaxFrameDelayMs > MaxFrameDelayMs {
		return fmt.Errorf("maxFrameDelayMs must be within [1,%d], got %d", MaxFrameDelayMs, c.Spin.MaxFrameDelayMs)
	}
	if c.Spin.ExtraTurns < 0 {
		return fmt.Errorf("extraTurns must not be negative, got %d", c.Spin.ExtraTurns)
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return fmt.Errorf("audio volume must be within [0,1], got %v", c.Audio.Volume)
	}
	return nil
}
