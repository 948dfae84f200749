package memory

import (
	"errors"
	"fmt"
)

var (
	// ErrUnmappedAddress is returned for an access outside every mapped region.
	ErrUnmappedAddress = errors.New("unmapped address")
	// ErrWriteProtected is returned for a write to a read-only location.
	ErrWriteProtected = errors.New("write-protected address")
)

// AccessError describes a fatal bus access. The MMU panics with it and the
// emulator recovers it at the step boundary.
type AccessError struct {
	Op      string // "read" or "write"
	Address uint16
	Err     error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("%s 0x%04X: %v", e.Op, e.Address, e.Err)
}

func (e *AccessError) Unwrap() error {
	return e.Err
}

func unmapped(op string, address uint16) {
	panic(&AccessError{Op: op, Address: address, Err: ErrUnmappedAddress})
}

func writeProtected(address uint16) {
	panic(&AccessError{Op: "write", Address: address, Err: ErrWriteProtected})
}
