package memory

import (
	"github.com/valerio/go-dmgcore/dmg/addr"
	"github.com/valerio/go-dmgcore/dmg/bit"
)

// tacDividers maps TAC bits 1-0 to the number of cycles per TIMA increment.
//
//	00 -> 1024 (4096 Hz)
//	01 -> 16   (262144 Hz)
//	10 -> 64   (65536 Hz)
//	11 -> 256  (16384 Hz)
var tacDividers = [4]int{1024, 16, 64, 256}

// Timer implements DIV/TIMA/TMA/TAC. It does not touch IF, Tick reports
// overflows to the caller instead.
type Timer struct {
	divCounter  uint16 // free running, DIV is the upper byte
	timaCounter int    // cycles accumulated toward the next TIMA increment

	tima byte
	tma  byte
	tac  byte
}

// Tick advances the timer by the given number of cycles and reports whether
// TIMA overflowed (and was reloaded from TMA) at least once.
func (t *Timer) Tick(cycles int) bool {
	t.divCounter += uint16(cycles)

	if !bit.IsSet(2, t.tac) {
		return false
	}

	overflow := false
	divider := tacDividers[t.tac&0x03]
	t.timaCounter += cycles
	for t.timaCounter >= divider {
		t.timaCounter -= divider
		if t.tima == 0xFF {
			t.tima = t.tma
			overflow = true
			continue
		}
		t.tima++
	}
	return overflow
}

func (t *Timer) Read(address uint16) byte {
	switch address {
	case addr.DIV:
		return byte(t.divCounter >> 8)
	case addr.TIMA:
		return t.tima
	case addr.TMA:
		return t.tma
	case addr.TAC:
		return t.tac | 0xF8
	default:
		return 0xFF
	}
}

func (t *Timer) Write(address uint16, value byte) {
	switch address {
	case addr.DIV:
		t.divCounter = 0 // any write resets DIV
	case addr.TIMA:
		t.tima = value
	case addr.TMA:
		t.tma = value
	case addr.TAC:
		t.tac = value & 0x07
	}
}
