package main

import (
	"bytes"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	tests := []struct {
		in      string
		want    uint16
		wantErr bool
	}{
		{"0x0100", 0x0100, false},
		{"$C000", 0xC000, false},
		{"256", 0x0100, false},
		{"0x10000", 0, true},
		{"pc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseAddress(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultBackend(t *testing.T) {
	assert.Equal(t, "terminal", defaultBackend(true))
	assert.Equal(t, "headless", defaultBackend(false))
}

func TestSnapshotter(t *testing.T) {
	s, err := snapshotter(0, "", "roms/tetris.gb", 1)
	require.NoError(t, err)
	assert.Zero(t, s.Interval)

	dir := t.TempDir()
	s, err = snapshotter(30, dir, "roms/tetris.gb", 2)
	require.NoError(t, err)
	assert.Equal(t, dir, s.Dir)
	assert.Equal(t, "tetris", s.Prefix)
	assert.Equal(t, 2, s.Scale)

	s, err = snapshotter(30, "", "tetris.gb", 1)
	require.NoError(t, err)
	defer os.RemoveAll(s.Dir)
	assert.DirExists(t, s.Dir)
}

func TestRestoreLogging(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	var held bytes.Buffer
	setupLogging(&held, false)
	slog.Info("while drawing")

	var out bytes.Buffer
	restoreLogging(&out, &held, false)
	slog.Info("after")

	assert.Zero(t, held.Len())
	assert.Contains(t, out.String(), "msg=\"while drawing\"")
	assert.Contains(t, out.String(), "msg=after")
	assert.Less(t, bytes.Index(out.Bytes(), []byte("while drawing")), bytes.Index(out.Bytes(), []byte("after")))
}
