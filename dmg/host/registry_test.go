package host

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valerio/go-dmgcore/dmg"
)

func writeROM(t *testing.T) string {
	t.Helper()
	rom := make([]byte, 0x8000)
	rom[0x100], rom[0x101] = 0x18, 0xFE // JR -2
	path := filepath.Join(t.TempDir(), "loop.gb")
	require.NoError(t, os.WriteFile(path, rom, 0o644))
	return path
}

func TestRegistryLifecycle(t *testing.T) {
	r := NewRegistry()
	path := writeROM(t)

	a, err := r.Open(path)
	require.NoError(t, err)
	b, err := r.Open(path)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.NotZero(t, a)
	assert.Equal(t, 2, r.Len())

	ea, err := r.Get(a)
	require.NoError(t, err)
	eb, err := r.Get(b)
	require.NoError(t, err)
	assert.NotSame(t, ea, eb)

	require.NoError(t, ea.Run(10))
	assert.Equal(t, uint64(10), ea.Steps())
	assert.Zero(t, eb.Steps())

	require.NoError(t, r.Close(a))
	_, err = r.Get(a)
	assert.ErrorIs(t, err, ErrUnknownHandle)
	assert.ErrorIs(t, r.Close(a), ErrUnknownHandle)

	c, err := r.Open(path)
	require.NoError(t, err)
	assert.NotEqual(t, a, c, "handles are not reused")

	r.CloseAll()
	assert.Zero(t, r.Len())
}

func TestRegistryOpenMissingFile(t *testing.T) {
	r := NewRegistry()
	_, err := r.Open(filepath.Join(t.TempDir(), "nope.gb"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Zero(t, r.Len())
}

func TestRegistryConcurrentInstances(t *testing.T) {
	r := NewRegistry()
	path := writeROM(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h, err := r.Open(path)
			if !assert.NoError(t, err) {
				return
			}
			e, err := r.Get(h)
			if !assert.NoError(t, err) {
				return
			}
			assert.NoError(t, e.RunUntilFrame())
		}()
	}
	wg.Wait()
	assert.Equal(t, 8, r.Len())
}

func TestRegistryAdd(t *testing.T) {
	rom := make([]byte, 0x8000)
	e, err := dmg.New(rom)
	require.NoError(t, err)

	r := NewRegistry()
	h := r.Add(e)
	got, err := r.Get(h)
	require.NoError(t, err)
	assert.Same(t, e, got)
}
