package cpu

import (
	"github.com/valerio/go-dmgcore/dmg/addr"
)

// InterruptDispatchCycles is the cost of jumping to an interrupt vector.
const InterruptDispatchCycles = 20

// ServiceInterrupts checks IE & IF once and reports whether an interrupt was
// dispatched.
//
// A pending enabled interrupt always ends HALT, even with IME off; the CPU
// then resumes after the HALT opcode. Dispatch additionally needs IME: the
// highest priority source has its IF bit cleared, PC is pushed and replaced
// by the vector, and IME is cleared. Lower priority sources stay pending.
func (c *CPU) ServiceInterrupts() bool {
	pending := c.bus.PendingInterrupts()
	if pending == 0 {
		return false
	}

	if c.halted {
		c.halted = false
		c.regs.PC++
	}

	if !c.ime {
		return false
	}

	for _, interrupt := range addr.Interrupts {
		if pending&interrupt.Mask() == 0 {
			continue
		}

		c.bus.ClearInterrupt(interrupt)
		c.pushStack(c.regs.PC)
		c.regs.PC = interrupt.Vector()
		c.ime = false
		c.cycles += InterruptDispatchCycles
		return true
	}
	return false
}
