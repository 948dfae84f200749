package cpu

import (
	"fmt"
	"strings"
)

// Line is one disassembled instruction.
type Line struct {
	Address uint16
	Bytes   []byte
	Op      Operation
	Err     error
}

func (l Line) String() string {
	var hex strings.Builder
	for i, b := range l.Bytes {
		if i > 0 {
			hex.WriteByte(' ')
		}
		fmt.Fprintf(&hex, "%02X", b)
	}

	text := "??"
	if l.Op != nil {
		text = l.Op.String()
	}
	return fmt.Sprintf("%04X  %-8s  %s", l.Address, hex.String(), text)
}

// Disassemble decodes n consecutive instructions starting at address.
// An invalid opcode produces a one-byte line carrying the error and
// decoding resumes at the next byte.
func Disassemble(mem Reader, address uint16, n int) []Line {
	lines := make([]Line, 0, n)
	for k := 0; k < n; k++ {
		op, err := Decode(mem, address)
		size := uint16(1)
		if err == nil {
			size = op.Len()
		}

		raw := make([]byte, size)
		for i := uint16(0); i < size; i++ {
			raw[i] = mem.Read(address + i)
		}
		lines = append(lines, Line{Address: address, Bytes: raw, Op: op, Err: err})
		address += size
	}
	return lines
}
