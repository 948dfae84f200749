package cpu

import (
	"github.com/valerio/go-dmgcore/dmg/addr"
)

// flatBus is 64 KiB of plain RAM with IE/IF bookkeeping.
type flatBus struct {
	mem [0x10000]byte
}

func (b *flatBus) Read(address uint16) byte         { return b.mem[address] }
func (b *flatBus) Write(address uint16, value byte) { b.mem[address] = value }

func (b *flatBus) PendingInterrupts() uint8 {
	return b.mem[addr.IE] & b.mem[addr.IF] & 0x1F
}

func (b *flatBus) ClearInterrupt(interrupt addr.Interrupt) {
	b.mem[addr.IF] &^= interrupt.Mask()
}

// load places program at address.
func (b *flatBus) load(address uint16, program ...byte) {
	copy(b.mem[address:], program)
}

func newTestCPU(program ...byte) (*CPU, *flatBus) {
	bus := &flatBus{}
	bus.load(0x0100, program...)
	return New(bus), bus
}
