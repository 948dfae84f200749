//go:build sdl2

// Package sdl2 shows frames in an SDL2 window. Building it needs the SDL2
// development libraries and the sdl2 build tag.
package sdl2

import (
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/valerio/go-dmgcore/dmg/backend"
	"github.com/valerio/go-dmgcore/dmg/memory"
	"github.com/valerio/go-dmgcore/dmg/video"
)

const defaultScale = 4

var keyMapping = map[sdl.Keycode]memory.Button{
	sdl.K_UP:        memory.ButtonUp,
	sdl.K_DOWN:      memory.ButtonDown,
	sdl.K_LEFT:      memory.ButtonLeft,
	sdl.K_RIGHT:     memory.ButtonRight,
	sdl.K_z:         memory.ButtonA,
	sdl.K_x:         memory.ButtonB,
	sdl.K_RETURN:    memory.ButtonStart,
	sdl.K_BACKSPACE: memory.ButtonSelect,
}

// Backend renders into a streaming texture scaled to the window.
type Backend struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	pixels   []byte
}

func New() *Backend {
	return &Backend{}
}

func (s *Backend) Init(cfg backend.Config) error {
	scale := cfg.Scale
	if scale <= 0 {
		scale = defaultScale
	}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("initializing SDL2: %w", err)
	}

	window, err := sdl.CreateWindow(cfg.Title,
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(video.FramebufferWidth*scale), int32(video.FramebufferHeight*scale),
		sdl.WINDOW_SHOWN)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("creating window: %w", err)
	}
	s.window = window

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		s.Cleanup()
		return fmt.Errorf("creating renderer: %w", err)
	}
	s.renderer = renderer

	// ABGR8888 is R,G,B,A in memory on little-endian hosts.
	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_ABGR8888, sdl.TEXTUREACCESS_STREAMING,
		video.FramebufferWidth, video.FramebufferHeight)
	if err != nil {
		s.Cleanup()
		return fmt.Errorf("creating texture: %w", err)
	}
	s.texture = texture

	slog.Debug("SDL2 backend initialized", "scale", scale)
	return nil
}

func (s *Backend) Update(frame *video.FrameBuffer) (backend.Events, error) {
	var events backend.Events
	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		switch e := ev.(type) {
		case *sdl.QuitEvent:
			events.Quit = true
		case *sdl.KeyboardEvent:
			if e.Repeat != 0 {
				continue
			}
			if e.Keysym.Sym == sdl.K_ESCAPE {
				events.Quit = true
				continue
			}
			if b, ok := keyMapping[e.Keysym.Sym]; ok {
				events.Inputs = append(events.Inputs, backend.Input{Button: b, Pressed: e.Type == sdl.KEYDOWN})
			}
		}
	}

	s.pixels = backend.RGBA(frame, s.pixels)
	if err := s.texture.Update(nil, unsafe.Pointer(&s.pixels[0]), frame.Width()*4); err != nil {
		return events, fmt.Errorf("updating texture: %w", err)
	}
	s.renderer.Clear()
	s.renderer.Copy(s.texture, nil, nil)
	s.renderer.Present()

	return events, nil
}

func (s *Backend) Cleanup() error {
	if s.texture != nil {
		s.texture.Destroy()
	}
	if s.renderer != nil {
		s.renderer.Destroy()
	}
	if s.window != nil {
		s.window.Destroy()
	}
	sdl.Quit()
	return nil
}
