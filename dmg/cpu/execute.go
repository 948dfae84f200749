package cpu

import (
	"fmt"
)

// Execute applies op to the registers and bus. PC must point at the
// instruction op was decoded from. It returns the T-cycles taken.
//
// Conditional branches charge their taken or not-taken cost. STOP advances
// PC past its two bytes and returns ErrNotImplemented.
func (c *CPU) Execute(op Operation) (int, error) {
	next := c.regs.PC + op.Len()
	if _, ok := op.(Halt); !ok {
		c.regs.PC = next
	}

	cycles, err := c.execute(op)
	c.cycles += uint64(cycles)
	if err != nil {
		return cycles, err
	}

	if c.eiDelay > 0 {
		c.eiDelay--
		if c.eiDelay == 0 {
			c.ime = true
		}
	}
	return cycles, nil
}

func (c *CPU) execute(op Operation) (int, error) {
	r := &c.regs

	switch op := op.(type) {
	case Nop:
		return 4, nil
	case Halt:
		c.halted = true
		return 4, nil
	case Stop:
		return 4, fmt.Errorf("STOP at 0x%04X: %w", r.PC-op.Len(), ErrNotImplemented)
	case DI:
		c.ime = false
		c.eiDelay = 0
		return 4, nil
	case EI:
		// IME turns on once the following instruction has run
		if !c.ime && c.eiDelay == 0 {
			c.eiDelay = 2
		}
		return 4, nil
	case DAA:
		c.daa()
		return 4, nil
	case CPL:
		r.A = ^r.A
		r.setFlag(subFlag)
		r.setFlag(halfCarryFlag)
		return 4, nil
	case SCF:
		r.resetFlag(subFlag)
		r.resetFlag(halfCarryFlag)
		r.setFlag(carryFlag)
		return 4, nil
	case CCF:
		r.resetFlag(subFlag)
		r.resetFlag(halfCarryFlag)
		r.setFlagToCondition(carryFlag, !r.isSetFlag(carryFlag))
		return 4, nil
	case RotateA:
		r.A = c.shift(op.Op, r.A)
		r.resetFlag(zeroFlag)
		return 4, nil

	case Load8:
		c.set8(op.Dst, c.get8(op.Src))
		if op.Dst == RegHLInd || op.Src == RegHLInd {
			return 8, nil
		}
		return 4, nil
	case Load8Imm:
		c.set8(op.Dst, op.Value)
		if op.Dst == RegHLInd {
			return 12, nil
		}
		return 8, nil
	case Load16Imm:
		r.Set16(op.Dst, op.Value)
		return 12, nil
	case StoreIndirect:
		c.bus.Write(c.indirectAddress(op.Mode), r.A)
		return 8, nil
	case LoadIndirect:
		r.A = c.bus.Read(c.indirectAddress(op.Mode))
		return 8, nil
	case StoreSP:
		c.bus.Write(op.Address, uint8(r.SP))
		c.bus.Write(op.Address+1, uint8(r.SP>>8))
		return 20, nil
	case StoreA:
		c.bus.Write(op.Address, r.A)
		return 16, nil
	case LoadA:
		r.A = c.bus.Read(op.Address)
		return 16, nil
	case StoreHigh:
		if op.ViaC {
			c.bus.Write(0xFF00+uint16(r.C), r.A)
			return 8, nil
		}
		c.bus.Write(0xFF00+uint16(op.Offset), r.A)
		return 12, nil
	case LoadHigh:
		if op.ViaC {
			r.A = c.bus.Read(0xFF00 + uint16(r.C))
			return 8, nil
		}
		r.A = c.bus.Read(0xFF00 + uint16(op.Offset))
		return 12, nil
	case LoadSPHL:
		r.SP = r.HL()
		return 8, nil
	case LoadHLSP:
		r.SetHL(c.addSPOffset(op.Offset))
		return 12, nil
	case AddSP:
		r.SP = c.addSPOffset(op.Offset)
		return 16, nil

	case Inc8:
		value := c.get8(op.Reg)
		result := value + 1
		c.set8(op.Reg, result)
		r.setFlagToCondition(zeroFlag, result == 0)
		r.resetFlag(subFlag)
		r.setFlagToCondition(halfCarryFlag, value&0x0F == 0x0F)
		return c.readModifyWriteCycles(op.Reg), nil
	case Dec8:
		value := c.get8(op.Reg)
		result := value - 1
		c.set8(op.Reg, result)
		r.setFlagToCondition(zeroFlag, result == 0)
		r.setFlag(subFlag)
		r.setFlagToCondition(halfCarryFlag, value&0x0F == 0x00)
		return c.readModifyWriteCycles(op.Reg), nil
	case Inc16:
		r.Set16(op.Reg, r.Get16(op.Reg)+1)
		return 8, nil
	case Dec16:
		r.Set16(op.Reg, r.Get16(op.Reg)-1)
		return 8, nil
	case AddHL:
		hl, value := r.HL(), r.Get16(op.Src)
		result := uint32(hl) + uint32(value)
		r.resetFlag(subFlag)
		r.setFlagToCondition(halfCarryFlag, (hl&0x0FFF)+(value&0x0FFF) > 0x0FFF)
		r.setFlagToCondition(carryFlag, result > 0xFFFF)
		r.SetHL(uint16(result))
		return 8, nil
	case ALU:
		c.alu(op.Op, c.get8(op.Src))
		if op.Src == RegHLInd {
			return 8, nil
		}
		return 4, nil
	case ALUImm:
		c.alu(op.Op, op.Value)
		return 8, nil

	case JR:
		if !c.condition(op.Cond) {
			return 8, nil
		}
		r.PC += uint16(int16(op.Offset))
		return 12, nil
	case JP:
		if !c.condition(op.Cond) {
			return 12, nil
		}
		r.PC = op.Address
		return 16, nil
	case JPHL:
		r.PC = r.HL()
		return 4, nil
	case Call:
		if !c.condition(op.Cond) {
			return 12, nil
		}
		c.pushStack(r.PC)
		r.PC = op.Address
		return 24, nil
	case Ret:
		if op.Cond == Always {
			r.PC = c.popStack()
			return 16, nil
		}
		if !c.condition(op.Cond) {
			return 8, nil
		}
		r.PC = c.popStack()
		return 20, nil
	case RetI:
		r.PC = c.popStack()
		c.ime = true
		c.eiDelay = 0
		return 16, nil
	case RST:
		c.pushStack(r.PC)
		r.PC = uint16(op.Vector)
		return 16, nil
	case Push:
		c.pushStack(r.Get16(op.Reg))
		return 16, nil
	case Pop:
		r.Set16(op.Reg, c.popStack())
		return 12, nil

	case Shift:
		result := c.shift(op.Op, c.get8(op.Reg))
		c.set8(op.Reg, result)
		return c.prefixedCycles(op.Reg, 16), nil
	case Bit:
		set := c.get8(op.Reg)&(1<<op.N) != 0
		r.setFlagToCondition(zeroFlag, !set)
		r.resetFlag(subFlag)
		r.setFlag(halfCarryFlag)
		return c.prefixedCycles(op.Reg, 12), nil
	case Res:
		c.set8(op.Reg, c.get8(op.Reg)&^(1<<op.N))
		return c.prefixedCycles(op.Reg, 16), nil
	case Set:
		c.set8(op.Reg, c.get8(op.Reg)|(1<<op.N))
		return c.prefixedCycles(op.Reg, 16), nil
	}

	panic(fmt.Sprintf("cpu: unhandled operation %T", op))
}

func (c *CPU) get8(reg Reg8) uint8 {
	if reg == RegHLInd {
		return c.bus.Read(c.regs.HL())
	}
	return *c.regs.ptr8(reg)
}

func (c *CPU) set8(reg Reg8, value uint8) {
	if reg == RegHLInd {
		c.bus.Write(c.regs.HL(), value)
		return
	}
	*c.regs.ptr8(reg) = value
}

func (c *CPU) indirectAddress(mode Indirect) uint16 {
	switch mode {
	case IndBC:
		return c.regs.BC()
	case IndDE:
		return c.regs.DE()
	case IndHLI:
		hl := c.regs.HL()
		c.regs.SetHL(hl + 1)
		return hl
	case IndHLD:
		hl := c.regs.HL()
		c.regs.SetHL(hl - 1)
		return hl
	}
	panic(fmt.Sprintf("cpu: invalid indirect mode %d", mode))
}

func (c *CPU) condition(cond Condition) bool {
	switch cond {
	case Always:
		return true
	case CondNZ:
		return !c.regs.isSetFlag(zeroFlag)
	case CondZ:
		return c.regs.isSetFlag(zeroFlag)
	case CondNC:
		return !c.regs.isSetFlag(carryFlag)
	case CondC:
		return c.regs.isSetFlag(carryFlag)
	}
	panic(fmt.Sprintf("cpu: invalid condition %d", cond))
}

func (c *CPU) readModifyWriteCycles(reg Reg8) int {
	if reg == RegHLInd {
		return 12
	}
	return 4
}

func (c *CPU) prefixedCycles(reg Reg8, indirect int) int {
	if reg == RegHLInd {
		return indirect
	}
	return 8
}
