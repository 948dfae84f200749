package script

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valerio/go-dmgcore/dmg/host"
)

// writeROM stores a ROM that loads A with $42 and spins.
func writeROM(t *testing.T) string {
	t.Helper()
	rom := make([]byte, 0x8000)
	copy(rom[0x100:], []byte{0x3E, 0x42, 0x18, 0xFE})
	path := filepath.Join(t.TempDir(), "test.gb")
	require.NoError(t, os.WriteFile(path, rom, 0o644))
	return path
}

func newRuntime(t *testing.T) (*Runtime, *host.Registry, *bytes.Buffer) {
	t.Helper()
	reg := host.NewRegistry()
	var out bytes.Buffer
	r := New(reg, &out)
	t.Cleanup(r.Close)
	return r, reg, &out
}

func TestScriptDrivesEmulator(t *testing.T) {
	r, reg, out := newRuntime(t)
	path := writeROM(t)

	src := fmt.Sprintf(`
		local h = dmg.open(%q)
		print(dmg.reg(h, "pc"))
		print(dmg.step(h, 2))
		print(dmg.reg(h, "a"), dmg.reg(h, "PC"), dmg.reg(h, "sp"))
		print(dmg.frame(h))
		print(dmg.pixel(h, 0, 0), dmg.peek(h, 0x0100))
		dmg.close(h)
	`, path)
	require.NoError(t, r.DoString(src))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "256", lines[0])
	assert.Equal(t, "20", lines[1]) // LD A,n + JR
	assert.Equal(t, "66\t258\t65534", lines[2])
	assert.Equal(t, "1", lines[3])
	assert.Equal(t, "0\t62", lines[4])
	assert.Zero(t, reg.Len())
}

func TestScriptPressAndDump(t *testing.T) {
	r, reg, out := newRuntime(t)
	path := writeROM(t)

	require.NoError(t, r.DoString(fmt.Sprintf(`
		h = dmg.open(%q)
		dmg.press(h, "Start", true)
		dmg.press(h, "a")
		print(dmg.dump(h))
	`, path)))

	assert.Equal(t, 1, reg.Len())
	assert.Contains(t, out.String(), "Joypad:-R")
	assert.Contains(t, out.String(), "PC=0100")
}

func TestScriptErrors(t *testing.T) {
	path := writeROM(t)

	tests := []struct {
		name string
		src  string
		want string
	}{
		{"unknown handle", `dmg.step(99, 1)`, "unknown emulator handle"},
		{"missing rom", `dmg.open("/nonexistent/rom.gb")`, "opening /nonexistent/rom.gb"},
		{"bad button", fmt.Sprintf(`dmg.press(dmg.open(%q), "turbo", true)`, path), "unknown button"},
		{"bad register", fmt.Sprintf(`dmg.reg(dmg.open(%q), "ix")`, path), "unknown register"},
		{"pixel out of range", fmt.Sprintf(`dmg.pixel(dmg.open(%q), 160, 0)`, path), "x out of range"},
		{"bus fault", fmt.Sprintf(`dmg.peek(dmg.open(%q), 0xE000)`, path), "unmapped"},
		{"double close", fmt.Sprintf(`local h = dmg.open(%q); dmg.close(h); dmg.close(h)`, path), "unknown emulator handle"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, _ := newRuntime(t)
			err := r.DoString(tt.src)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDoFile(t *testing.T) {
	r, _, out := newRuntime(t)
	path := writeROM(t)

	script := filepath.Join(t.TempDir(), "run.lua")
	require.NoError(t, os.WriteFile(script, []byte(fmt.Sprintf(`
		local h = dmg.open(%q)
		dmg.step(h, 1)
		print(string.format("%%02X", dmg.reg(h, "a")))
	`, path)), 0o644))

	require.NoError(t, r.DoFile(script))
	assert.Equal(t, "42\n", out.String())

	err := r.DoFile(filepath.Join(t.TempDir(), "missing.lua"))
	assert.Error(t, err)
}

func TestSetString(t *testing.T) {
	r, _, out := newRuntime(t)
	r.SetString("rom", writeROM(t))

	require.NoError(t, r.DoString(`
		local h = dmg.open(rom)
		print(dmg.reg(h, "sp"))
	`))
	assert.Equal(t, "65534\n", out.String())
}
