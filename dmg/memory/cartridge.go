package memory

import (
	"errors"
	"fmt"
	"strings"

	"github.com/valerio/go-dmgcore/dmg/addr"
)

const (
	titleAddress = 0x134
	titleLength  = 16
	headerEnd    = 0x150
)

// cartridge types that carry the MBC1 family register layout.
const (
	cartROMOnly        uint8 = 0x00
	cartMBC1           uint8 = 0x01
	cartMBC1RAM        uint8 = 0x02
	cartMBC1RAMBattery uint8 = 0x03
)

// ErrShortROM is returned when the image is too small to hold a header.
var ErrShortROM = errors.New("rom image shorter than cartridge header")

// ramSizes maps the header RAM size code to a byte count.
var ramSizes = map[uint8]int{
	0x00: 0,
	0x01: 2 * 1024,
	0x02: 8 * 1024,
	0x03: 32 * 1024,
	0x04: 128 * 1024,
	0x05: 64 * 1024,
}

// Header holds the cartridge header fields the bus looks at.
type Header struct {
	Title   string
	Type    uint8
	ROMSize uint8
	RAMSize uint8
}

// ParseHeader reads the header of a ROM image.
func ParseHeader(rom []byte) (Header, error) {
	if len(rom) < headerEnd {
		return Header{}, fmt.Errorf("%w: %d bytes", ErrShortROM, len(rom))
	}

	title := string(rom[titleAddress : titleAddress+titleLength])
	title = strings.TrimRight(title, "\x00")

	return Header{
		Title:   title,
		Type:    rom[addr.CartridgeType],
		ROMSize: rom[addr.ROMSize],
		RAMSize: rom[addr.RAMSize],
	}, nil
}

// ROMBytes returns the ROM size in bytes encoded by the size code.
func (h Header) ROMBytes() int {
	return (32 * 1024) << h.ROMSize
}

// RAMBytes returns the external RAM size in bytes, 0 when absent or unknown.
func (h Header) RAMBytes() int {
	return ramSizes[h.RAMSize]
}

// HasExternalRAM reports whether 0xA000-0xBFFF is backed by cartridge RAM.
// Only the battery-backed MBC1 variant is wired.
func (h Header) HasExternalRAM() bool {
	return h.Type == cartMBC1RAMBattery && h.RAMBytes() > 0
}

// acceptsControlWrites reports whether ROM-area writes are MBC register writes.
func (h Header) acceptsControlWrites() bool {
	switch h.Type {
	case cartMBC1, cartMBC1RAM, cartMBC1RAMBattery:
		return true
	}
	return false
}

func (h Header) String() string {
	return fmt.Sprintf("%q type=0x%02X rom=0x%02X ram=0x%02X", h.Title, h.Type, h.ROMSize, h.RAMSize)
}

// Cartridge is the read-only ROM image plus the optional external RAM.
type Cartridge struct {
	Header
	data       []byte
	ram        []byte
	ramEnabled bool
}

// NewCartridge copies rom and parses its header.
func NewCartridge(rom []byte) (*Cartridge, error) {
	h, err := ParseHeader(rom)
	if err != nil {
		return nil, err
	}

	c := &Cartridge{
		Header: h,
		data:   make([]byte, len(rom)),
	}
	copy(c.data, rom)
	if h.HasExternalRAM() {
		c.ram = make([]byte, h.RAMBytes())
	}
	return c, nil
}

func (c *Cartridge) read(address uint16) byte {
	if int(address) >= len(c.data) {
		return 0xFF
	}
	return c.data[address]
}

func (c *Cartridge) write(address uint16, value byte) {
	if !c.acceptsControlWrites() {
		writeProtected(address)
	}
	if c.ram != nil && address <= 0x1FFF {
		c.ramEnabled = value&0x0F == 0x0A
		return
	}
	debugLog("ignoring mbc control write", address, value)
}

func (c *Cartridge) readRAM(address uint16) byte {
	if c.ram == nil {
		unmapped("read", address)
	}
	if !c.ramEnabled {
		return 0xFF
	}
	return c.ram[int(address-addr.ExtRAMStart)%len(c.ram)]
}

func (c *Cartridge) writeRAM(address uint16, value byte) {
	if c.ram == nil {
		unmapped("write", address)
	}
	if !c.ramEnabled {
		return
	}
	c.ram[int(address-addr.ExtRAMStart)%len(c.ram)] = value
}
