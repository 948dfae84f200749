package video

import (
	"github.com/valerio/go-dmgcore/dmg/addr"
)

// fakeBus is a flat address space that records the PPU-owned registers.
type fakeBus struct {
	mem         [0x10000]byte
	mode        uint8
	coincidence bool
	requests    map[addr.Interrupt]int
}

func newFakeBus() *fakeBus {
	b := &fakeBus{requests: map[addr.Interrupt]int{}}
	b.mem[addr.LCDC] = 0x91
	b.mem[addr.BGP] = 0xE4 // identity: dot n -> shade n
	b.mem[addr.OBP0] = 0xE4
	b.mem[addr.OBP1] = 0x1B // reversed
	return b
}

func (b *fakeBus) Read(address uint16) byte { return b.mem[address] }
func (b *fakeBus) SetLY(ly uint8)           { b.mem[addr.LY] = ly }
func (b *fakeBus) SetMode(mode uint8)       { b.mode = mode }
func (b *fakeBus) SetCoincidence(on bool)   { b.coincidence = on }

func (b *fakeBus) RequestInterrupt(interrupt addr.Interrupt) {
	b.requests[interrupt]++
}

// solidTile fills tile data at base so that every dot has the given value.
func (b *fakeBus) solidTile(base uint16, dot uint8) {
	var low, high byte
	if dot&1 != 0 {
		low = 0xFF
	}
	if dot&2 != 0 {
		high = 0xFF
	}
	for row := uint16(0); row < uint16(8); row++ {
		b.mem[base+row*2] = low
		b.mem[base+row*2+1] = high
	}
}

// sprite writes OAM entry i with screen coordinates.
func (b *fakeBus) sprite(i int, x, y int, tile, flags uint8) {
	base := addr.OAMStart + uint16(i*4)
	b.mem[base] = uint8(y + 16)
	b.mem[base+1] = uint8(x + 8)
	b.mem[base+2] = tile
	b.mem[base+3] = flags
}

// renderLine runs the PPU until line ly has been drawn.
func renderLine(p *PPU, ly int) {
	for !(p.LY() == ly && p.Mode() == HBlank) {
		p.Tick(4)
	}
}
