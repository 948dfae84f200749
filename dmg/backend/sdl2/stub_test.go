//go:build !sdl2

package sdl2

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/valerio/go-dmgcore/dmg/backend"
)

func TestStubIsUnavailable(t *testing.T) {
	var b backend.Backend = New()
	assert.ErrorIs(t, b.Init(backend.Config{}), backend.ErrUnavailable)
	assert.NoError(t, b.Cleanup())
}
