package cpu

import (
	"github.com/valerio/go-dmgcore/dmg/bit"
)

// Reader is the read side of the bus, all the decoder needs.
type Reader interface {
	Read(address uint16) byte
}

var (
	pairs      = [4]Reg16{RegBC, RegDE, RegHL, RegSP}
	stackPairs = [4]Reg16{RegBC, RegDE, RegHL, RegAF}
	conditions = [4]Condition{CondNZ, CondZ, CondNC, CondC}
)

// Decode reads the instruction at address. It consumes 1 to 3 bytes and
// never writes to mem.
func Decode(mem Reader, address uint16) (Operation, error) {
	opcode := mem.Read(address)
	d8 := func() uint8 { return mem.Read(address + 1) }
	d16 := func() uint16 { return bit.Combine(mem.Read(address+2), mem.Read(address+1)) }

	// exact values
	switch opcode {
	case 0x00:
		return Nop{}, nil
	case 0x10:
		return Stop{}, nil
	case 0x76:
		return Halt{}, nil
	case 0x07:
		return RotateA{OpRLC}, nil
	case 0x0F:
		return RotateA{OpRRC}, nil
	case 0x17:
		return RotateA{OpRL}, nil
	case 0x1F:
		return RotateA{OpRR}, nil
	case 0x27:
		return DAA{}, nil
	case 0x2F:
		return CPL{}, nil
	case 0x37:
		return SCF{}, nil
	case 0x3F:
		return CCF{}, nil
	case 0x08:
		return StoreSP{d16()}, nil
	case 0x18:
		return JR{Always, int8(d8())}, nil
	case 0xC3:
		return JP{Always, d16()}, nil
	case 0xC9:
		return Ret{Always}, nil
	case 0xD9:
		return RetI{}, nil
	case 0xCD:
		return Call{Always, d16()}, nil
	case 0xE0:
		return StoreHigh{Offset: d8()}, nil
	case 0xF0:
		return LoadHigh{Offset: d8()}, nil
	case 0xE2:
		return StoreHigh{ViaC: true}, nil
	case 0xF2:
		return LoadHigh{ViaC: true}, nil
	case 0xE8:
		return AddSP{int8(d8())}, nil
	case 0xF8:
		return LoadHLSP{int8(d8())}, nil
	case 0xE9:
		return JPHL{}, nil
	case 0xF9:
		return LoadSPHL{}, nil
	case 0xEA:
		return StoreA{d16()}, nil
	case 0xFA:
		return LoadA{d16()}, nil
	case 0xF3:
		return DI{}, nil
	case 0xFB:
		return EI{}, nil
	case 0xCB:
		return decodePrefixed(mem.Read(address+1), address)
	}

	switch {
	case opcode < 0x40:
		if op, ok := decodeLowBlock(opcode, d8, d16); ok {
			return op, nil
		}
	case opcode < 0x80:
		// 0x76 (HALT) was matched above
		return Load8{Dst: Reg8((opcode - 0x40) / 8), Src: Reg8(opcode & 0x07)}, nil
	case opcode < 0xC0:
		return ALU{Op: ALUOp((opcode - 0x80) / 8), Src: Reg8(opcode & 0x07)}, nil
	default:
		if op, ok := decodeHighBlock(opcode, d8, d16); ok {
			return op, nil
		}
	}

	return nil, &DecodeError{Address: address, Opcode: opcode}
}

// decodeLowBlock handles the vertical 16-bit columns and horizontal 8-bit
// columns of 0x00-0x3F.
func decodeLowBlock(opcode uint8, d8 func() uint8, d16 func() uint16) (Operation, bool) {
	row := opcode / 16
	switch opcode & 0x0F {
	case 0x01:
		return Load16Imm{pairs[row], d16()}, true
	case 0x02:
		return StoreIndirect{Indirect(row)}, true
	case 0x03:
		return Inc16{pairs[row]}, true
	case 0x09:
		return AddHL{pairs[row]}, true
	case 0x0A:
		return LoadIndirect{Indirect(row)}, true
	case 0x0B:
		return Dec16{pairs[row]}, true
	}

	// JR cc at 0x20, 0x28, 0x30, 0x38
	if opcode >= 0x20 && opcode&0x07 == 0x00 {
		return JR{conditions[(opcode-0x20)/8], int8(d8())}, true
	}

	reg := Reg8(opcode / 8)
	switch opcode & 0x07 {
	case 0x04:
		return Inc8{reg}, true
	case 0x05:
		return Dec8{reg}, true
	case 0x06:
		return Load8Imm{reg, d8()}, true
	}
	return nil, false
}

func decodeHighBlock(opcode uint8, d8 func() uint8, d16 func() uint16) (Operation, bool) {
	switch {
	case opcode <= 0xD8 && opcode&0x07 == 0x00:
		return Ret{conditions[(opcode-0xC0)/8]}, true
	case opcode <= 0xDA && opcode&0x07 == 0x02:
		return JP{conditions[(opcode-0xC2)/8], d16()}, true
	case opcode <= 0xDC && opcode&0x07 == 0x04:
		return Call{conditions[(opcode-0xC4)/8], d16()}, true
	case opcode&0x0F == 0x01:
		return Pop{stackPairs[(opcode-0xC1)/16]}, true
	case opcode&0x0F == 0x05:
		return Push{stackPairs[(opcode-0xC5)/16]}, true
	case opcode&0x07 == 0x06:
		return ALUImm{ALUOp((opcode - 0xC6) / 8), d8()}, true
	case opcode&0x07 == 0x07:
		return RST{opcode - 0xC7}, true
	}
	return nil, false
}

// decodePrefixed decodes the byte after 0xCB. Every value is valid.
func decodePrefixed(opcode uint8, address uint16) (Operation, error) {
	reg := Reg8(opcode & 0x07)
	n := (opcode / 8) & 0x07
	switch opcode >> 6 {
	case 0:
		return Shift{ShiftOp(opcode / 8), reg}, nil
	case 1:
		return Bit{n, reg}, nil
	case 2:
		return Res{n, reg}, nil
	case 3:
		return Set{n, reg}, nil
	}
	return nil, &DecodeError{Address: address, Opcode: opcode, Prefixed: true}
}
