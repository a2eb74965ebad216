// Package game hosts the roulette in an ebiten window: it owns the wheel
// surface, reads input and feeds the spin scheduler one tick at a time.
package game

import (
	"errors"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/ncruces/zenity"
	"golang.org/x/exp/slog"

	"github.com/iburimskiy/roulette/internal/config"
	"github.com/iburimskiy/roulette/internal/effects"
	"github.com/iburimskiy/roulette/internal/lib/logger/sl"
	"github.com/iburimskiy/roulette/internal/roulette"
)

var (
	wheelRect = rect{X: config.CanvasX, Y: config.CanvasY, W: config.CanvasSize, H: config.CanvasSize}
	fieldRect = rect{X: config.FieldX, Y: config.FieldY, W: config.FieldWidth, H: config.FieldHeight}
	addRect   = rect{X: config.ButtonX, Y: config.ButtonY, W: config.ButtonWidth, H: config.ButtonHeight}
	gearRect  = rect{X: config.GearX, Y: config.GearY, W: config.GearSize, H: config.GearSize}
)

// WheelCenter is the wheel's center in window coordinates.
func WheelCenter() (float64, float64) {
	return wheelRect.center()
}

// LabelPrompter asks the user for a replacement label. It blocks until the
// user answers.
type LabelPrompter func(current string) (string, error)

// DialogPrompter asks through a native entry dialog.
func DialogPrompter(title string) LabelPrompter {
	return func(current string) (string, error) {
		return zenity.Entry("New label:",
			zenity.Title(title),
			zenity.EntryText(current),
		)
	}
}

type editResult struct {
	id    string
	label string
	err   error
}

type Game struct {
	log       *slog.Logger
	registry  *roulette.Registry
	scheduler *roulette.Scheduler
	confetti  *effects.Confetti
	cues      effects.CuePlayer

	renderer *Renderer
	faces    faces
	field    textField
	panel    *optionsPanel

	prompt  LabelPrompter
	edits   chan editResult
	editing bool
}

type Option func(*Game)

func WithPrompter(p LabelPrompter) Option {
	return func(g *Game) { g.prompt = p }
}

func New(
	log *slog.Logger,
	registry *roulette.Registry,
	scheduler *roulette.Scheduler,
	confetti *effects.Confetti,
	cues effects.CuePlayer,
	opts ...Option,
) (*Game, error) {
	const op = "game.New"

	fs, err := loadFaces(config.LabelFontSize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if cues == nil {
		cues = effects.Silent{}
	}

	g := &Game{
		log:       log,
		registry:  registry,
		scheduler: scheduler,
		confetti:  confetti,
		cues:      cues,
		renderer:  NewRenderer(config.CanvasSize, fs.label),
		faces:     fs,
		panel:     newOptionsPanel(wheelRect),
		prompt:    DialogPrompter("Roulette"),
		edits:     make(chan editResult, 1),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Close releases the wheel surface.
func (g *Game) Close() {
	g.renderer.Close()
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		if !g.field.Focused() {
			return ebiten.Termination
		}
		g.field.Blur()
	}
	if !g.field.Focused() && inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	g.drainEdits()

	dt := tickDelta()
	if g.field.Update(dt.Seconds()) {
		g.submit()
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.click(ebiten.CursorPosition())
	}
	if g.panel.Open() {
		if _, dy := ebiten.Wheel(); dy > 0 {
			g.panel.Scroll(-1, g.registry.Len())
		} else if dy < 0 {
			g.panel.Scroll(1, g.registry.Len())
		}
	}
	if !g.field.Focused() && inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.scheduler.Spin()
	}

	g.scheduler.Tick()
	if g.confetti != nil {
		g.confetti.Update(dt)
	}
	return nil
}

func tickDelta() time.Duration {
	tps := ebiten.TPS()
	if tps <= 0 {
		tps = ebiten.DefaultTPS
	}
	return time.Second / time.Duration(tps)
}

func (g *Game) click(x, y int) {
	if fieldRect.contains(x, y) {
		g.field.Focus()
		return
	}
	if addRect.contains(x, y) {
		g.submit()
		return
	}

	switch {
	case g.gearVisible() && gearRect.contains(x, y):
		g.panel.Toggle()
	case g.panel.Open() && g.panel.bounds.contains(x, y):
		id, action := g.panel.Hit(g.registry.Options(), x, y)
		switch action {
		case panelEdit:
			g.edit(id)
		case panelDelete:
			if g.registry.Remove(id) {
				g.log.Debug("option removed", sl.String("id", id))
			}
			if !g.gearVisible() {
				g.panel.Close()
			}
		}
	case g.overSpinButton(x, y):
		g.scheduler.Spin()
	}
	g.field.Blur()
}

// gearVisible reports whether the panel toggle is shown. It needs at least
// one option.
func (g *Game) gearVisible() bool {
	return g.registry.Len() > 0
}

func (g *Game) overSpinButton(x, y int) bool {
	if g.panel.Open() {
		return false
	}
	if _, canSpin := roulette.Prompt(g.registry.Len()); !canSpin {
		return false
	}
	cx, cy := WheelCenter()
	dx, dy := float64(x)-cx, float64(y)-cy
	return dx*dx+dy*dy <= config.SpinButtonRadius*config.SpinButtonRadius
}

// submit adds the field's text as a new option. A rejected label is shown in
// place of the placeholder.
func (g *Game) submit() {
	opt, err := g.registry.Add(g.field.Value())
	if err != nil {
		var verr *roulette.ValidationError
		if errors.As(err, &verr) {
			g.field.Reject(verr.Message)
			return
		}
		g.log.Error("failed to add option", sl.Err(err))
		return
	}
	g.field.Reset()
	g.log.Debug("option added", sl.String("id", opt.ID), sl.String("value", opt.Value))
}

// edit opens the label prompt for id off the game loop. Only one prompt is
// open at a time.
func (g *Game) edit(id string) {
	if g.editing {
		return
	}
	opt, ok := g.registry.Get(id)
	if !ok {
		return
	}
	g.editing = true

	go func() {
		label, err := g.prompt(opt.Value)
		g.edits <- editResult{id: id, label: label, err: err}
	}()
}

func (g *Game) drainEdits() {
	select {
	case res := <-g.edits:
		g.editing = false
		g.applyEdit(res)
	default:
	}
}

func (g *Game) applyEdit(res editResult) {
	if res.err != nil {
		if !errors.Is(res.err, zenity.ErrCanceled) {
			g.log.Warn("edit dialog failed", sl.Err(res.err))
		}
		return
	}
	found, err := g.registry.Update(res.id, res.label)
	switch {
	case err != nil:
		g.log.Info("edit rejected", sl.String("id", res.id), sl.Err(err))
	case !found:
		g.log.Debug("edited option no longer exists", sl.String("id", res.id))
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	options := g.registry.Options()

	drawCentered(screen, "Roulette", g.faces.title, config.WindowWidth/2, config.CanvasY/2, titleColor)

	g.renderer.Draw(options, g.scheduler.Angle())
	if surface := g.renderer.Surface(); surface != nil {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(wheelRect.X, wheelRect.Y)
		screen.DrawImage(surface, op)
	}
	drawPointer(screen, g.cues.Level())

	g.drawCenter(screen, len(options))
	g.drawResult(screen)
	g.drawForm(screen)
	if g.gearVisible() {
		drawGear(screen, gearRect, g.panel.Open())
	}
	g.panel.Draw(screen, options, g.faces.ui)

	if g.confetti != nil {
		drawConfetti(screen, g.confetti.Pieces())
	}

	ebitenutil.DebugPrintAt(screen, g.status(), 12, config.WindowHeight-24)
}

// status is the help line at the bottom of the window.
func (g *Game) status() string {
	switch {
	case g.scheduler.Spinning():
		return "Spinning..."
	case g.field.Focused():
		return "Enter: add option | Esc: leave the field"
	case g.panel.Open():
		return "Wheel: scroll options | Gear: close"
	default:
		return "Space: spin | Esc/Q: quit"
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.WindowWidth, config.WindowHeight
}
