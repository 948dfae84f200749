package memory

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestMMU builds a 32 KiB image with the given header bytes.
func newTestMMU(t *testing.T, cartType, ramSize byte) *MMU {
	t.Helper()
	rom := make([]byte, 0x8000)
	rom[0x0147] = cartType
	rom[0x0149] = ramSize
	copy(rom[0x0134:], "TESTCART")
	cart, err := NewCartridge(rom)
	require.NoError(t, err)
	return New(cart)
}

// accessError runs fn and returns the *AccessError it panicked with.
func accessError(t *testing.T, fn func()) (err *AccessError) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a bus fault")
		var ok bool
		err, ok = r.(*AccessError)
		require.True(t, ok, "panic value %v is not an *AccessError", r)
	}()
	fn()
	return nil
}
