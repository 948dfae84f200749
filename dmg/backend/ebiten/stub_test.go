//go:build !ebiten

package ebiten

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valerio/go-dmgcore/dmg"
	"github.com/valerio/go-dmgcore/dmg/backend"
)

func TestStubIsUnavailable(t *testing.T) {
	e, err := dmg.New(make([]byte, 0x8000))
	require.NoError(t, err)

	err = backend.Run(context.Background(), e, New(), backend.Config{}, nil, 1)
	assert.ErrorIs(t, err, backend.ErrUnavailable)
	assert.Zero(t, e.Frames())
}
