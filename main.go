package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/ncruces/zenity"
	"golang.org/x/exp/slog"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/iburimskiy/roulette/internal/auth"
	"github.com/iburimskiy/roulette/internal/config"
	"github.com/iburimskiy/roulette/internal/effects"
	"github.com/iburimskiy/roulette/internal/game"
	"github.com/iburimskiy/roulette/internal/lib/logger/sl"
	"github.com/iburimskiy/roulette/internal/roulette"
)

const (
	envDev  = "dev"
	envProd = "prod"
)

func main() {
	cfg, err := config.Load(config.Path())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := setupLogger(cfg.Log.Env, cfg.Log.File)
	log.Info("starting roulette",
		sl.String("env", cfg.Log.Env),
		sl.String("mode", cfg.Spin.Mode),
	)

	cues := loadCues(log, cfg.Audio)
	if bank, ok := cues.(*effects.CueBank); ok {
		defer bank.Close()
	}

	registry := roulette.NewRegistry()

	cx, cy := game.WheelCenter()
	confetti := effects.NewConfetti(cfg.Confetti.Duration, cfg.Confetti.Count, nil)
	trigger := effects.NewTrigger(cues, confetti, cx, cy, log)

	scheduler := roulette.NewScheduler(registry, trigger,
		roulette.WithLogger(log),
		roulette.WithSpinConfig(roulette.SpinConfig{
			Mode:            roulette.Mode(cfg.Spin.Mode),
			MaxFrameDelayMs: cfg.Spin.MaxFrameDelayMs,
			ExtraTurns:      cfg.Spin.ExtraTurns,
		}),
	)
	registry.Subscribe(scheduler.OptionsChanged)

	logSession(log, cfg.Storage.AppName)

	g, err := game.New(log, registry, scheduler, confetti, cues,
		game.WithPrompter(game.DialogPrompter(cfg.Window.Title)),
	)
	if err != nil {
		log.Error("failed to init game", sl.Err(err))
		os.Exit(1)
	}
	defer g.Close()

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		panic(err)
	}
	log.Info("bye")
}

// loadCues decodes the spin and completion cues. Any media failure leaves
// the game silent.
func loadCues(log *slog.Logger, audio config.Audio) effects.CuePlayer {
	bank, err := effects.LoadCues(context.Background(), log, audio.Volume, map[effects.Cue]string{
		effects.CueSpin: audio.SpinCue,
		effects.CueDone: audio.DoneCue,
	})
	if err != nil {
		log.Warn("sound disabled", sl.Err(err))
		go func() {
			if err := zenity.Notify("Sound is disabled: " + err.Error()); err != nil {
				log.Debug("notification failed", sl.Err(err))
			}
		}()
		return effects.Silent{}
	}
	return bank
}

// logSession reports whether a stored login exists. The wheel never reads it.
func logSession(log *slog.Logger, appName string) {
	store, err := auth.OpenGDataStore(appName)
	if err != nil {
		log.Warn("user storage unavailable", sl.Err(err))
		return
	}
	provider := auth.NewHeaderProvider(store, log)

	user, err := provider.User()
	switch {
	case err != nil:
		log.Warn("stored session unreadable", sl.Err(err))
	case user == nil:
		log.Debug("no stored session")
	default:
		log.Debug("stored session found", sl.String("codiusuario", user.CodiUsuario))
	}
}

func setupLogger(env, file string) *slog.Logger {
	var out io.Writer = os.Stdout
	if file != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   file,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     7,
			Compress:   true,
		})
	}

	var log *slog.Logger

	switch env {
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default: // local
		log = slog.New(
			slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	return log
}
