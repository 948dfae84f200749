package memory

import (
	"fmt"
	"log/slog"

	"github.com/valerio/go-dmgcore/dmg/addr"
	"github.com/valerio/go-dmgcore/dmg/bit"
)

type memRegion uint8

const (
	regionUnmapped memRegion = iota
	regionROM
	regionVRAM
	regionExtRAM
	regionWRAM
	regionOAM
	regionIO
)

// regionMap routes an address by its high byte. Page 0xFE needs a second
// look since only 0xFE00-0xFE9F is OAM.
var regionMap = func() (m [256]memRegion) {
	for i := 0x00; i <= 0x7F; i++ {
		m[i] = regionROM
	}
	for i := 0x80; i <= 0x9F; i++ {
		m[i] = regionVRAM
	}
	for i := 0xA0; i <= 0xBF; i++ {
		m[i] = regionExtRAM
	}
	for i := 0xC0; i <= 0xDF; i++ {
		m[i] = regionWRAM
	}
	// echo RAM 0xE000-0xFDFF stays unmapped
	m[0xFE] = regionOAM
	m[0xFF] = regionIO
	return m
}()

// audioRegisters are the values the sound registers hold after the boot ROM.
// The APU is not emulated so they never change.
var audioRegisters = [...]byte{
	0x80, 0xBF, 0xF3, 0xFF, 0xBF, 0xFF, 0x3F, 0x00, // 0xFF10
	0xFF, 0xBF, 0x7F, 0xFF, 0x9F, 0xFF, 0xBF, 0xFF, // 0xFF18
	0xFF, 0x00, 0x00, 0xBF, 0x77, 0xF3, 0xF1, // 0xFF20 (NR52 last)
}

// MMU allows access to all memory mapped I/O and data/registers.
//
// Any access that real software has no business doing (echo RAM, the
// 0xFEA0-0xFEFF hole, ROM writes on a cart without a mapper, writes to LY)
// panics with an *AccessError.
type MMU struct {
	cart *Cartridge

	vram [0x2000]byte
	wram [0x2000]byte
	oam  [0xA0]byte
	hram [0x7F]byte

	lcdc, scy, scx, ly, lyc, dma byte
	bgp, obp0, obp1, wy, wx      byte

	// STAT is split: bits 3-6 are CPU writable, mode and coincidence are
	// owned by the PPU.
	statSelect  byte
	mode        byte
	coincidence bool

	interruptFlags  byte
	interruptEnable byte

	joypad *Joypad
	timer  Timer
	serial SerialPort
}

// New creates a memory unit with the given cartridge inserted and the I/O
// registers set to their post-boot values.
func New(cart *Cartridge) *MMU {
	return &MMU{
		cart:   cart,
		lcdc:   0x91,
		bgp:    0xFC,
		obp0:   0xFF,
		obp1:   0xFF,
		mode:   2,
		joypad: NewJoypad(),
		serial: NewSerialSink(nil),
	}
}

// SetSerialPort replaces the device on the serial port.
func (m *MMU) SetSerialPort(port SerialPort) {
	m.serial = port
}

// Cartridge returns the inserted cartridge.
func (m *MMU) Cartridge() *Cartridge {
	return m.cart
}

// Timer exposes the timer so the driver can clock it.
func (m *MMU) Timer() *Timer {
	return &m.timer
}

// RequestInterrupt sets the IF bit of the chosen interrupt.
func (m *MMU) RequestInterrupt(interrupt addr.Interrupt) {
	m.interruptFlags |= interrupt.Mask()
}

// ClearInterrupt resets the IF bit of the chosen interrupt.
func (m *MMU) ClearInterrupt(interrupt addr.Interrupt) {
	m.interruptFlags &^= interrupt.Mask()
}

// PendingInterrupts returns IE & IF restricted to the five sources.
func (m *MMU) PendingInterrupts() uint8 {
	return m.interruptEnable & m.interruptFlags & 0x1F
}

// SetButton updates a joypad input, requesting the joypad interrupt when
// the button goes from released to pressed.
func (m *MMU) SetButton(b Button, pressed bool) {
	if m.joypad.Set(b, pressed) {
		m.RequestInterrupt(addr.JoypadInterrupt)
	}
}

// SetLY is used by the PPU to publish the current line.
func (m *MMU) SetLY(ly byte) {
	m.ly = ly
}

// SetMode is used by the PPU to publish its mode in STAT bits 0-1.
func (m *MMU) SetMode(mode byte) {
	m.mode = mode & 0x03
}

// SetCoincidence is used by the PPU to publish the LYC==LY latch (STAT bit 2).
func (m *MMU) SetCoincidence(on bool) {
	m.coincidence = on
}

// OAM returns a read-only view of the sprite attribute table.
func (m *MMU) OAM() []byte {
	return m.oam[:]
}

// VRAM returns a read-only view of video RAM.
func (m *MMU) VRAM() []byte {
	return m.vram[:]
}

func (m *MMU) ReadBit(index uint8, address uint16) bool {
	return bit.IsSet(index, m.Read(address))
}

// Read16 reads a little-endian word.
func (m *MMU) Read16(address uint16) uint16 {
	low := m.Read(address)
	high := m.Read(address + 1)
	return bit.Combine(high, low)
}

// Write16 writes a little-endian word.
func (m *MMU) Write16(address uint16, value uint16) {
	m.Write(address, bit.Low(value))
	m.Write(address+1, bit.High(value))
}

func (m *MMU) Read(address uint16) byte {
	switch regionMap[address>>8] {
	case regionROM:
		return m.cart.read(address)
	case regionVRAM:
		return m.vram[address-addr.VRAMStart]
	case regionExtRAM:
		return m.cart.readRAM(address)
	case regionWRAM:
		return m.wram[address-addr.WRAMStart]
	case regionOAM:
		if address > addr.OAMEnd {
			unmapped("read", address)
		}
		return m.oam[address-addr.OAMStart]
	case regionIO:
		return m.readIO(address)
	default:
		unmapped("read", address)
		return 0
	}
}

func (m *MMU) Write(address uint16, value byte) {
	switch regionMap[address>>8] {
	case regionROM:
		m.cart.write(address, value)
	case regionVRAM:
		m.vram[address-addr.VRAMStart] = value
	case regionExtRAM:
		m.cart.writeRAM(address, value)
	case regionWRAM:
		m.wram[address-addr.WRAMStart] = value
	case regionOAM:
		if address > addr.OAMEnd {
			unmapped("write", address)
		}
		m.oam[address-addr.OAMStart] = value
	case regionIO:
		m.writeIO(address, value)
	default:
		unmapped("write", address)
	}
}

func (m *MMU) readIO(address uint16) byte {
	switch {
	case address >= addr.HRAMStart && address <= addr.HRAMEnd:
		return m.hram[address-addr.HRAMStart]
	case address >= addr.AudioStart && address <= addr.AudioEnd:
		if i := int(address - addr.AudioStart); i < len(audioRegisters) {
			return audioRegisters[i]
		}
		return 0xFF
	}

	switch address {
	case addr.P1:
		return m.joypad.Read()
	case addr.SB, addr.SC:
		return m.serial.Read(address)
	case addr.DIV, addr.TIMA, addr.TMA, addr.TAC:
		return m.timer.Read(address)
	case addr.IF:
		// upper 3 bits always read as 1
		return m.interruptFlags | 0xE0
	case addr.IE:
		return m.interruptEnable
	case addr.LCDC:
		return m.lcdc
	case addr.STAT:
		stat := 0x80 | m.statSelect | m.mode
		if m.coincidence {
			stat |= 0x04
		}
		return stat
	case addr.SCY:
		return m.scy
	case addr.SCX:
		return m.scx
	case addr.LY:
		return m.ly
	case addr.LYC:
		return m.lyc
	case addr.DMA:
		return m.dma
	case addr.BGP:
		return m.bgp
	case addr.OBP0:
		return m.obp0
	case addr.OBP1:
		return m.obp1
	case addr.WY:
		return m.wy
	case addr.WX:
		return m.wx
	}
	return 0xFF
}

func (m *MMU) writeIO(address uint16, value byte) {
	switch {
	case address >= addr.HRAMStart && address <= addr.HRAMEnd:
		m.hram[address-addr.HRAMStart] = value
		return
	case address >= addr.AudioStart && address <= addr.AudioEnd:
		return
	}

	switch address {
	case addr.P1:
		m.joypad.Write(value)
	case addr.SB, addr.SC:
		if m.serial.Write(address, value) {
			m.RequestInterrupt(addr.SerialInterrupt)
		}
	case addr.DIV, addr.TIMA, addr.TMA, addr.TAC:
		m.timer.Write(address, value)
	case addr.IF:
		m.interruptFlags = value & 0x1F
	case addr.IE:
		m.interruptEnable = value
	case addr.LCDC:
		m.lcdc = value
	case addr.STAT:
		m.statSelect = value & 0x78
	case addr.SCY:
		m.scy = value
	case addr.SCX:
		m.scx = value
	case addr.LY:
		writeProtected(address)
	case addr.LYC:
		m.lyc = value
	case addr.DMA:
		m.dma = value
		m.transferOAM(uint16(value) << 8)
	case addr.BGP:
		m.bgp = value
	case addr.OBP0:
		m.obp0 = value
	case addr.OBP1:
		m.obp1 = value
	case addr.WY:
		m.wy = value
	case addr.WX:
		m.wx = value
	}
	// remaining I/O registers accept and drop writes
}

// transferOAM copies 160 bytes from source into OAM in one go.
func (m *MMU) transferOAM(source uint16) {
	for i := uint16(0); i < uint16(len(m.oam)); i++ {
		m.oam[i] = m.Read(source + i)
	}
}

func debugLog(msg string, address uint16, value byte) {
	slog.Debug(msg, "addr", fmt.Sprintf("0x%04X", address), "value", fmt.Sprintf("0x%02X", value))
}
