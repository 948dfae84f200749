// Package cpu implements the SM83 core: decoding, execution and interrupt
// servicing over a memory bus.
package cpu

import (
	"github.com/valerio/go-dmgcore/dmg/addr"
)

// Bus is what the CPU needs from the memory unit.
type Bus interface {
	Reader
	Write(address uint16, value byte)
	PendingInterrupts() uint8
	ClearInterrupt(interrupt addr.Interrupt)
}

// CPU holds the SM83 state.
type CPU struct {
	regs Registers

	ime    bool
	halted bool
	// eiDelay counts the instructions left before EI takes effect
	eiDelay int
	cycles  uint64

	bus Bus
}

// New returns a CPU with the post-boot register values.
func New(bus Bus) *CPU {
	c := &CPU{bus: bus}
	c.regs.SetAF(0x01B0)
	c.regs.SetBC(0x0013)
	c.regs.SetDE(0x00D8)
	c.regs.SetHL(0x014D)
	c.regs.SP = 0xFFFE
	c.regs.PC = 0x0100
	return c
}

// Registers returns a copy of the register file.
func (c *CPU) Registers() Registers { return c.regs }

// SetRegisters overwrites the register file. F keeps only its flag bits.
func (c *CPU) SetRegisters(r Registers) {
	r.F &= 0xF0
	c.regs = r
}

func (c *CPU) PC() uint16     { return c.regs.PC }
func (c *CPU) IME() bool      { return c.ime }
func (c *CPU) Halted() bool   { return c.halted }
func (c *CPU) Cycles() uint64 { return c.cycles }

// Step decodes and executes the instruction at PC.
func (c *CPU) Step() (int, error) {
	op, err := Decode(c.bus, c.regs.PC)
	if err != nil {
		return 0, err
	}
	return c.Execute(op)
}

func (c *CPU) pushStack(value uint16) {
	c.regs.SP -= 2
	c.bus.Write(c.regs.SP+1, uint8(value>>8))
	c.bus.Write(c.regs.SP, uint8(value))
}

func (c *CPU) popStack() uint16 {
	low := c.bus.Read(c.regs.SP)
	high := c.bus.Read(c.regs.SP + 1)
	c.regs.SP += 2
	return uint16(high)<<8 | uint16(low)
}
