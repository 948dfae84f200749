//go:build !ebiten

package ebiten

import (
	"fmt"

	"github.com/valerio/go-dmgcore/dmg/backend"
	"github.com/valerio/go-dmgcore/dmg/video"
)

// Backend is a placeholder for builds without the ebiten tag.
type Backend struct{}

func New() *Backend {
	return &Backend{}
}

func (b *Backend) Init(backend.Config) error {
	return fmt.Errorf("ebiten: %w, build with -tags ebiten", backend.ErrUnavailable)
}

func (b *Backend) Update(*video.FrameBuffer) (backend.Events, error) {
	return backend.Events{}, backend.ErrUnavailable
}

func (b *Backend) Cleanup() error { return nil }
