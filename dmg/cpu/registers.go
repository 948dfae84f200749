package cpu

import (
	"fmt"

	"github.com/valerio/go-dmgcore/dmg/bit"
)

// Flag is one of the 4 possible flags used in the flag register (low part of AF)
type Flag uint8

const (
	zeroFlag      Flag = 0x80
	subFlag       Flag = 0x40
	halfCarryFlag Flag = 0x20
	carryFlag     Flag = 0x10
)

// Registers is the SM83 register file. F only ever holds the four flag bits.
type Registers struct {
	A, F uint8
	B, C uint8
	D, E uint8
	H, L uint8
	SP   uint16
	PC   uint16
}

func (r Registers) AF() uint16 { return bit.Combine(r.A, r.F) }
func (r Registers) BC() uint16 { return bit.Combine(r.B, r.C) }
func (r Registers) DE() uint16 { return bit.Combine(r.D, r.E) }
func (r Registers) HL() uint16 { return bit.Combine(r.H, r.L) }

// SetAF loads A and F, the low nibble of F is forced to zero.
func (r *Registers) SetAF(value uint16) {
	r.A = bit.High(value)
	r.F = bit.Low(value) & 0xF0
}

func (r *Registers) SetBC(value uint16) {
	r.B = bit.High(value)
	r.C = bit.Low(value)
}

func (r *Registers) SetDE(value uint16) {
	r.D = bit.High(value)
	r.E = bit.Low(value)
}

func (r *Registers) SetHL(value uint16) {
	r.H = bit.High(value)
	r.L = bit.Low(value)
}

func (r *Registers) setFlag(flag Flag) {
	r.F |= uint8(flag)
}

func (r *Registers) resetFlag(flag Flag) {
	r.F &^= uint8(flag)
}

func (r Registers) isSetFlag(flag Flag) bool {
	return r.F&uint8(flag) != 0
}

// flagToBit will return 1 if the passed flag is set, 0 otherwise
func (r Registers) flagToBit(flag Flag) uint8 {
	if r.isSetFlag(flag) {
		return 1
	}
	return 0
}

func (r *Registers) setFlagToCondition(flag Flag, condition bool) {
	if !condition {
		r.resetFlag(flag)
		return
	}
	r.setFlag(flag)
}

// setFlags assigns all four flags at once.
func (r *Registers) setFlags(z, n, h, c bool) {
	r.setFlagToCondition(zeroFlag, z)
	r.setFlagToCondition(subFlag, n)
	r.setFlagToCondition(halfCarryFlag, h)
	r.setFlagToCondition(carryFlag, c)
}

// FlagString renders the flags as ZNHC, a dash for each clear flag.
func (r Registers) FlagString() string {
	flags := []byte("ZNHC")
	for i, f := range []Flag{zeroFlag, subFlag, halfCarryFlag, carryFlag} {
		if !r.isSetFlag(f) {
			flags[i] = '-'
		}
	}
	return string(flags)
}

// Get16 reads a register pair.
func (r Registers) Get16(reg Reg16) uint16 {
	switch reg {
	case RegBC:
		return r.BC()
	case RegDE:
		return r.DE()
	case RegHL:
		return r.HL()
	case RegSP:
		return r.SP
	case RegAF:
		return r.AF()
	}
	panic(fmt.Sprintf("cpu: invalid 16-bit register selector %d", reg))
}

// Set16 writes a register pair.
func (r *Registers) Set16(reg Reg16, value uint16) {
	switch reg {
	case RegBC:
		r.SetBC(value)
	case RegDE:
		r.SetDE(value)
	case RegHL:
		r.SetHL(value)
	case RegSP:
		r.SP = value
	case RegAF:
		r.SetAF(value)
	default:
		panic(fmt.Sprintf("cpu: invalid 16-bit register selector %d", reg))
	}
}

// ptr8 returns the storage of an 8-bit register. (HL) has none.
func (r *Registers) ptr8(reg Reg8) *uint8 {
	switch reg {
	case RegB:
		return &r.B
	case RegC:
		return &r.C
	case RegD:
		return &r.D
	case RegE:
		return &r.E
	case RegH:
		return &r.H
	case RegL:
		return &r.L
	case RegA:
		return &r.A
	}
	panic(fmt.Sprintf("cpu: invalid 8-bit register selector %d", reg))
}

func (r Registers) String() string {
	return fmt.Sprintf("AF=%04X BC=%04X DE=%04X HL=%04X SP=%04X PC=%04X %s",
		r.AF(), r.BC(), r.DE(), r.HL(), r.SP, r.PC, r.FlagString())
}
