// Package backend connects an emulator to a host platform: something that
// shows frames and produces joypad input.
package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/valerio/go-dmgcore/dmg"
	"github.com/valerio/go-dmgcore/dmg/memory"
	"github.com/valerio/go-dmgcore/dmg/timing"
	"github.com/valerio/go-dmgcore/dmg/video"
)

// ErrUnavailable is returned by backends compiled without their platform
// library.
var ErrUnavailable = errors.New("backend not available in this build")

// Input is one joypad transition.
type Input struct {
	Button  memory.Button
	Pressed bool
}

// Events is what a backend reports back after presenting a frame.
type Events struct {
	Inputs []Input
	Quit   bool
}

// Config holds settings shared by all backends. Backends ignore what they
// cannot use.
type Config struct {
	Title string
	Scale int
}

// Backend presents one frame per Update call.
type Backend interface {
	// Init must be called once before Update.
	Init(cfg Config) error
	// Update shows frame and returns the input collected since the last call.
	Update(frame *video.FrameBuffer) (Events, error)
	Cleanup() error
}

// Driver is implemented by backends whose platform owns the main loop
// (ebiten). Run hands the emulator over instead of calling Update.
type Driver interface {
	Drive(ctx context.Context, e *dmg.Emulator, maxFrames int) error
}

// Run drives e frame by frame through b until the backend asks to quit,
// maxFrames frames have completed (when positive), ctx is done or the
// emulator fails. limiter may be nil.
func Run(ctx context.Context, e *dmg.Emulator, b Backend, cfg Config, limiter timing.Limiter, maxFrames int) (err error) {
	if err := b.Init(cfg); err != nil {
		return fmt.Errorf("initializing backend: %w", err)
	}
	defer func() {
		if cerr := b.Cleanup(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if d, ok := b.(Driver); ok {
		return d.Drive(ctx, e, maxFrames)
	}

	if limiter == nil {
		limiter = timing.Unlimited{}
	}
	defer limiter.Stop()

	for frames := 0; maxFrames <= 0 || frames < maxFrames; frames++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.RunUntilFrame(); err != nil {
			return fmt.Errorf("frame %d: %w", frames, err)
		}

		events, err := b.Update(e.Frame())
		if err != nil {
			return err
		}
		Apply(e, events.Inputs)
		if events.Quit {
			slog.Info("backend requested quit", "frames", frames+1)
			return nil
		}
		limiter.Wait()
	}
	return nil
}

// Apply feeds input transitions to the emulator's joypad.
func Apply(e *dmg.Emulator, inputs []Input) {
	for _, in := range inputs {
		e.SetButton(in.Button, in.Pressed)
	}
}

// RGBA fills dst with the frame as 8-bit R, G, B, A bytes, reallocating
// when dst is too small.
func RGBA(fb *video.FrameBuffer, dst []byte) []byte {
	size := fb.Width() * fb.Height() * 4
	if cap(dst) < size {
		dst = make([]byte, size)
	}
	dst = dst[:size]
	for i, c := range fb.Pixels() {
		rgba := c.RGBA()
		dst[i*4] = rgba.R
		dst[i*4+1] = rgba.G
		dst[i*4+2] = rgba.B
		dst[i*4+3] = rgba.A
	}
	return dst
}
