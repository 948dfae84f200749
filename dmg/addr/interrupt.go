package addr

import "fmt"

// Interrupt is an enum that represents one of the possible interrupts.
// The value is the bit position inside IE/IF, which is also the priority
// (lower is serviced first).
type Interrupt uint8

const (
	// VBlankInterrupt is fired when the PPU enters VBlank.
	VBlankInterrupt Interrupt = iota
	// LCDSTATInterrupt is fired based on one of the conditions selected in STAT.
	LCDSTATInterrupt
	// TimerInterrupt is fired when TIMA overflows (i.e. goes from 0xFF to 0x00).
	TimerInterrupt
	// SerialInterrupt is fired when a serial transfer has completed.
	SerialInterrupt
	// JoypadInterrupt is fired when any of the keypad inputs goes from high to low.
	JoypadInterrupt
)

// Interrupts lists every source in priority order.
var Interrupts = [...]Interrupt{VBlankInterrupt, LCDSTATInterrupt, TimerInterrupt, SerialInterrupt, JoypadInterrupt}

// Mask returns the IE/IF bit mask of the interrupt.
func (i Interrupt) Mask() uint8 {
	return 1 << uint8(i)
}

// Vector returns the handler address: 0x40, 0x48, 0x50, 0x58, 0x60.
func (i Interrupt) Vector() uint16 {
	return 0x40 + uint16(i)*8
}

func (i Interrupt) String() string {
	switch i {
	case VBlankInterrupt:
		return "VBlank"
	case LCDSTATInterrupt:
		return "LCDSTAT"
	case TimerInterrupt:
		return "Timer"
	case SerialInterrupt:
		return "Serial"
	case JoypadInterrupt:
		return "Joypad"
	}
	return fmt.Sprintf("Interrupt(%d)", uint8(i))
}
