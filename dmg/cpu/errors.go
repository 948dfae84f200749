package cpu

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidOpcode means no decoding rule matched: a decoder gap or a corrupt ROM.
	ErrInvalidOpcode = errors.New("invalid opcode")
	// ErrNotImplemented is returned when executing an instruction the core does not support (STOP).
	ErrNotImplemented = errors.New("instruction not implemented")
)

// DecodeError reports the opcode and address of a failed decode.
type DecodeError struct {
	Address  uint16
	Opcode   uint8
	Prefixed bool
}

func (e *DecodeError) Error() string {
	if e.Prefixed {
		return fmt.Sprintf("%v: 0xCB%02X at 0x%04X", ErrInvalidOpcode, e.Opcode, e.Address)
	}
	return fmt.Sprintf("%v: 0x%02X at 0x%04X", ErrInvalidOpcode, e.Opcode, e.Address)
}

func (e *DecodeError) Unwrap() error {
	return ErrInvalidOpcode
}
