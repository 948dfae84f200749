//go:build ebiten

// Package ebiten shows frames in an Ebitengine window. Ebitengine owns the
// main loop, so this backend drives the emulator itself. Build with the
// ebiten tag.
package ebiten

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/valerio/go-dmgcore/dmg"
	"github.com/valerio/go-dmgcore/dmg/backend"
	"github.com/valerio/go-dmgcore/dmg/memory"
	"github.com/valerio/go-dmgcore/dmg/timing"
	"github.com/valerio/go-dmgcore/dmg/video"
)

const defaultScale = 4

var keyMapping = map[ebiten.Key]memory.Button{
	ebiten.KeyArrowUp:    memory.ButtonUp,
	ebiten.KeyArrowDown:  memory.ButtonDown,
	ebiten.KeyArrowLeft:  memory.ButtonLeft,
	ebiten.KeyArrowRight: memory.ButtonRight,
	ebiten.KeyZ:          memory.ButtonA,
	ebiten.KeyX:          memory.ButtonB,
	ebiten.KeyEnter:      memory.ButtonStart,
	ebiten.KeyBackspace:  memory.ButtonSelect,
}

// Backend is a backend.Driver: Run hands it the emulator.
type Backend struct{}

func New() *Backend {
	return &Backend{}
}

func (b *Backend) Init(cfg backend.Config) error {
	scale := cfg.Scale
	if scale <= 0 {
		scale = defaultScale
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(video.FramebufferWidth*scale, video.FramebufferHeight*scale)
	ebiten.SetTPS(int(timing.FramesPerSecond() + 0.5))
	return nil
}

// Update is not used, the game loop pulls frames in Drive.
func (b *Backend) Update(*video.FrameBuffer) (backend.Events, error) {
	return backend.Events{}, errors.New("ebiten backend drives its own loop")
}

func (b *Backend) Cleanup() error { return nil }

// Drive runs the Ebitengine loop, one emulated frame per tick.
func (b *Backend) Drive(ctx context.Context, e *dmg.Emulator, maxFrames int) error {
	g := &game{ctx: ctx, emu: e, maxFrames: maxFrames}
	if err := ebiten.RunGame(g); err != nil {
		return err
	}
	return g.err
}

type game struct {
	ctx       context.Context
	emu       *dmg.Emulator
	maxFrames int
	frames    int
	pixels    []byte
	err       error
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || g.ctx.Err() != nil {
		return ebiten.Termination
	}

	for key, button := range keyMapping {
		switch {
		case inpututil.IsKeyJustPressed(key):
			g.emu.SetButton(button, true)
		case inpututil.IsKeyJustReleased(key):
			g.emu.SetButton(button, false)
		}
	}

	if err := g.emu.RunUntilFrame(); err != nil {
		g.err = fmt.Errorf("frame %d: %w", g.frames, err)
		return ebiten.Termination
	}
	g.frames++

	if g.maxFrames > 0 && g.frames >= g.maxFrames {
		slog.Info("frame limit reached", "frames", g.frames)
		return ebiten.Termination
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.pixels = backend.RGBA(g.emu.Frame(), g.pixels)
	screen.WritePixels(g.pixels)
}

func (g *game) Layout(int, int) (int, int) {
	return video.FramebufferWidth, video.FramebufferHeight
}
