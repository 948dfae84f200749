//go:build !sdl2

package sdl2

import (
	"fmt"

	"github.com/valerio/go-dmgcore/dmg/backend"
	"github.com/valerio/go-dmgcore/dmg/video"
)

// Backend is a placeholder for builds without the sdl2 tag.
type Backend struct{}

func New() *Backend {
	return &Backend{}
}

func (s *Backend) Init(backend.Config) error {
	return fmt.Errorf("sdl2: %w, build with -tags sdl2", backend.ErrUnavailable)
}

func (s *Backend) Update(*video.FrameBuffer) (backend.Events, error) {
	return backend.Events{}, backend.ErrUnavailable
}

func (s *Backend) Cleanup() error { return nil }
