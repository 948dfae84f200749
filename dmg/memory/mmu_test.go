package memory

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valerio/go-dmgcore/dmg/addr"
)

func TestMMU_PostBootRegisters(t *testing.T) {
	m := newTestMMU(t, 0x00, 0x00)

	assert.Equal(t, byte(0x91), m.Read(addr.LCDC))
	assert.Equal(t, byte(0xFC), m.Read(addr.BGP))
	assert.Equal(t, byte(0xFF), m.Read(addr.OBP0))
	assert.Equal(t, byte(0xFF), m.Read(addr.OBP1))
	assert.Equal(t, byte(0x00), m.Read(addr.LY))
	assert.Equal(t, byte(0xE0), m.Read(addr.IF))
}

func TestMMU_RAMRegions(t *testing.T) {
	m := newTestMMU(t, 0x00, 0x00)

	tests := []struct {
		name    string
		address uint16
	}{
		{"vram start", 0x8000},
		{"vram end", 0x9FFF},
		{"wram start", 0xC000},
		{"wram end", 0xDFFF},
		{"oam start", 0xFE00},
		{"oam end", 0xFE9F},
		{"hram start", 0xFF80},
		{"hram end", 0xFFFE},
		{"ie", 0xFFFF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m.Write(tt.address, 0x5A)
			assert.Equal(t, byte(0x5A), m.Read(tt.address))
		})
	}
}

func TestMMU_Read16Write16(t *testing.T) {
	m := newTestMMU(t, 0x00, 0x00)

	m.Write16(0xC100, 0xBEEF)
	assert.Equal(t, byte(0xEF), m.Read(0xC100))
	assert.Equal(t, byte(0xBE), m.Read(0xC101))
	assert.Equal(t, uint16(0xBEEF), m.Read16(0xC100))
}

func TestMMU_FatalAccess(t *testing.T) {
	tests := []struct {
		name    string
		fn      func(m *MMU)
		address uint16
		want    error
	}{
		{"echo read", func(m *MMU) { m.Read(0xE000) }, 0xE000, ErrUnmappedAddress},
		{"echo write", func(m *MMU) { m.Write(0xFDFF, 1) }, 0xFDFF, ErrUnmappedAddress},
		{"unusable read", func(m *MMU) { m.Read(0xFEA0) }, 0xFEA0, ErrUnmappedAddress},
		{"unusable write", func(m *MMU) { m.Write(0xFEFF, 1) }, 0xFEFF, ErrUnmappedAddress},
		{"ext ram without cart ram", func(m *MMU) { m.Read(0xA000) }, 0xA000, ErrUnmappedAddress},
		{"rom write on rom-only cart", func(m *MMU) { m.Write(0x2000, 1) }, 0x2000, ErrWriteProtected},
		{"ly write", func(m *MMU) { m.Write(addr.LY, 1) }, addr.LY, ErrWriteProtected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMMU(t, 0x00, 0x00)
			err := accessError(t, func() { tt.fn(m) })
			assert.Equal(t, tt.address, err.Address)
			assert.True(t, errors.Is(err, tt.want))
		})
	}
}

func TestMMU_MBC1ControlWritesIgnored(t *testing.T) {
	m := newTestMMU(t, 0x01, 0x00)
	before := m.Read(0x2000)

	assert.NotPanics(t, func() { m.Write(0x2000, 0x01) })
	assert.Equal(t, before, m.Read(0x2000))
}

func TestMMU_ExternalRAMEnable(t *testing.T) {
	m := newTestMMU(t, 0x03, 0x02)

	// disabled: writes dropped, reads 0xFF
	m.Write(0xA000, 0x12)
	assert.Equal(t, byte(0xFF), m.Read(0xA000))

	m.Write(0x0000, 0x0A)
	m.Write(0xA000, 0x12)
	assert.Equal(t, byte(0x12), m.Read(0xA000))

	m.Write(0x0000, 0x00)
	assert.Equal(t, byte(0xFF), m.Read(0xA000))
}

func TestMMU_STATComposition(t *testing.T) {
	m := newTestMMU(t, 0x00, 0x00)

	m.SetMode(3)
	m.SetCoincidence(true)
	m.Write(addr.STAT, 0xFF)

	// bit 7 reads 1, selects written, mode/coincidence from the PPU
	assert.Equal(t, byte(0xFF), m.Read(addr.STAT))

	m.Write(addr.STAT, 0x00)
	assert.Equal(t, byte(0x87), m.Read(addr.STAT))

	m.SetMode(1)
	m.SetCoincidence(false)
	m.Write(addr.STAT, 0x40)
	assert.Equal(t, byte(0xC1), m.Read(addr.STAT))
}

func TestMMU_OAMDMA(t *testing.T) {
	m := newTestMMU(t, 0x00, 0x00)
	for i := uint16(0); i < uint16(0xA0); i++ {
		m.Write(0xC000+i, byte(i))
	}

	m.Write(addr.DMA, 0xC0)

	require.Equal(t, byte(0xC0), m.Read(addr.DMA))
	for i := uint16(0); i < uint16(0xA0); i++ {
		assert.Equal(t, byte(i), m.Read(addr.OAMStart+i))
	}
}

func TestMMU_AudioRegistersAreConstant(t *testing.T) {
	m := newTestMMU(t, 0x00, 0x00)

	before := m.Read(0xFF26)
	m.Write(0xFF26, 0x00)
	m.Write(0xFF30, 0x12)

	assert.Equal(t, byte(0xF1), before)
	assert.Equal(t, before, m.Read(0xFF26))
	assert.Equal(t, byte(0xFF), m.Read(0xFF30))
}

func TestMMU_UnusedIORegisters(t *testing.T) {
	m := newTestMMU(t, 0x00, 0x00)

	assert.NotPanics(t, func() { m.Write(0xFF7F, 0x12) })
	assert.Equal(t, byte(0xFF), m.Read(0xFF7F))
	assert.Equal(t, byte(0xFF), m.Read(0xFF4D))
}

func TestMMU_InterruptFlags(t *testing.T) {
	m := newTestMMU(t, 0x00, 0x00)

	m.Write(addr.IE, 0x05)
	m.RequestInterrupt(addr.TimerInterrupt)
	m.RequestInterrupt(addr.LCDSTATInterrupt)

	assert.Equal(t, byte(0xE6), m.Read(addr.IF))
	assert.Equal(t, uint8(0x04), m.PendingInterrupts())

	m.ClearInterrupt(addr.TimerInterrupt)
	assert.Equal(t, uint8(0x00), m.PendingInterrupts())
}

func TestMMU_SerialTransfer(t *testing.T) {
	m := newTestMMU(t, 0x00, 0x00)
	var out bytes.Buffer
	m.SetSerialPort(NewSerialSink(&out))

	for _, c := range []byte("ok\n") {
		m.Write(addr.SB, c)
		m.Write(addr.SC, 0x81)
	}

	assert.Equal(t, "ok\n", out.String())
	assert.Equal(t, byte(0xFF), m.Read(addr.SB))
	assert.False(t, m.ReadBit(7, addr.SC), "start bit cleared on completion")
	assert.True(t, m.ReadBit(3, addr.IF), "serial interrupt requested")
}

func TestMMU_SerialExternalClockNeverCompletes(t *testing.T) {
	m := newTestMMU(t, 0x00, 0x00)

	m.Write(addr.SB, 'x')
	m.Write(addr.SC, 0x80)

	assert.Equal(t, byte('x'), m.Read(addr.SB))
	assert.False(t, m.ReadBit(3, addr.IF))
}

func TestCartridge_ShortImage(t *testing.T) {
	_, err := NewCartridge(make([]byte, 0x100))
	assert.ErrorIs(t, err, ErrShortROM)
}

func TestCartridge_Header(t *testing.T) {
	m := newTestMMU(t, 0x03, 0x03)
	h := m.Cartridge().Header

	assert.Equal(t, "TESTCART", h.Title)
	assert.Equal(t, uint8(0x03), h.Type)
	assert.Equal(t, 32*1024, h.RAMBytes())
	assert.Equal(t, 32*1024, h.ROMBytes())
	assert.True(t, h.HasExternalRAM())
}
