package cpu

import "fmt"

// alu applies an accumulator operation and sets all four flags.
func (c *CPU) alu(op ALUOp, value uint8) {
	r := &c.regs
	switch op {
	case OpAdd:
		r.A = c.add(r.A, value, 0)
	case OpAdc:
		r.A = c.add(r.A, value, r.flagToBit(carryFlag))
	case OpSub:
		r.A = c.sub(r.A, value, 0)
	case OpSbc:
		r.A = c.sub(r.A, value, r.flagToBit(carryFlag))
	case OpCp:
		c.sub(r.A, value, 0)
	case OpAnd:
		r.A &= value
		r.setFlags(r.A == 0, false, true, false)
	case OpXor:
		r.A ^= value
		r.setFlags(r.A == 0, false, false, false)
	case OpOr:
		r.A |= value
		r.setFlags(r.A == 0, false, false, false)
	default:
		panic(fmt.Sprintf("cpu: invalid alu op %d", op))
	}
}

// add returns a+b+carry, half carry out of bit 3 and carry out of bit 7.
func (c *CPU) add(a, b, carry uint8) uint8 {
	full := uint16(a) + uint16(b) + uint16(carry)
	result := uint8(full)
	half := (a&0x0F)+(b&0x0F)+carry > 0x0F
	c.regs.setFlags(result == 0, false, half, full > 0xFF)
	return result
}

// sub returns a-b-carry, flags set from the nibble and byte borrows.
func (c *CPU) sub(a, b, carry uint8) uint8 {
	full := int(a) - int(b) - int(carry)
	result := uint8(full)
	half := int(a&0x0F)-int(b&0x0F)-int(carry) < 0
	c.regs.setFlags(result == 0, true, half, full < 0)
	return result
}

// addSPOffset computes SP+e8. Z and N are cleared, H and C come from the
// unsigned addition of the low byte.
func (c *CPU) addSPOffset(offset int8) uint16 {
	sp := c.regs.SP
	d := uint16(uint8(offset))
	half := (sp&0x0F)+(d&0x0F) > 0x0F
	carry := (sp&0xFF)+d > 0xFF
	c.regs.setFlags(false, false, half, carry)
	return sp + uint16(int16(offset))
}

// shift runs one of the CB rotate/shift operations and sets Z, N=0, H=0 and C.
func (c *CPU) shift(op ShiftOp, value uint8) uint8 {
	r := &c.regs
	carryIn := r.flagToBit(carryFlag)

	var result, carryOut uint8
	switch op {
	case OpRLC:
		carryOut = value >> 7
		result = value<<1 | carryOut
	case OpRRC:
		carryOut = value & 1
		result = value>>1 | carryOut<<7
	case OpRL:
		carryOut = value >> 7
		result = value<<1 | carryIn
	case OpRR:
		carryOut = value & 1
		result = value>>1 | carryIn<<7
	case OpSLA:
		carryOut = value >> 7
		result = value << 1
	case OpSRA:
		carryOut = value & 1
		result = value>>1 | value&0x80
	case OpSWAP:
		result = value<<4 | value>>4
	case OpSRL:
		carryOut = value & 1
		result = value >> 1
	default:
		panic(fmt.Sprintf("cpu: invalid shift op %d", op))
	}

	r.setFlags(result == 0, false, false, carryOut == 1)
	return result
}

// daa adjusts A back to BCD after an addition or subtraction.
func (c *CPU) daa() {
	r := &c.regs
	var correction uint8
	if r.isSetFlag(halfCarryFlag) {
		correction |= 0x06
	}
	if r.isSetFlag(carryFlag) {
		correction |= 0x60
	}

	if r.isSetFlag(subFlag) {
		r.A -= correction
	} else {
		if r.A&0x0F > 0x09 {
			correction |= 0x06
		}
		if r.A > 0x99 {
			correction |= 0x60
		}
		r.A += correction
	}

	r.setFlagToCondition(zeroFlag, r.A == 0)
	r.resetFlag(halfCarryFlag)
	r.setFlagToCondition(carryFlag, correction&0x60 != 0)
}
