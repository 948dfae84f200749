package memory

import (
	"fmt"

	"github.com/valerio/go-dmgcore/dmg/bit"
)

// Button is one of the eight joypad inputs.
type Button uint8

const (
	ButtonRight Button = iota
	ButtonLeft
	ButtonUp
	ButtonDown
	ButtonA
	ButtonB
	ButtonSelect
	ButtonStart
)

// Buttons lists every input, in the order of the P1 line bits.
var Buttons = [...]Button{ButtonRight, ButtonLeft, ButtonUp, ButtonDown, ButtonA, ButtonB, ButtonSelect, ButtonStart}

var buttonNames = [...]string{"right", "left", "up", "down", "a", "b", "select", "start"}

func (b Button) String() string {
	if int(b) < len(buttonNames) {
		return buttonNames[b]
	}
	return fmt.Sprintf("Button(%d)", uint8(b))
}

// ParseButton maps a lower-case button name back to a Button.
func ParseButton(name string) (Button, bool) {
	for i, n := range buttonNames {
		if n == name {
			return Button(i), true
		}
	}
	return 0, false
}

// Joypad holds the two active-low input nibbles and the select lines
// written through P1.
type Joypad struct {
	dpad    uint8
	buttons uint8
	// selection bits 4-5 as written, 0 selects the group
	selection uint8
}

// NewJoypad returns a joypad with nothing pressed and no line selected.
func NewJoypad() *Joypad {
	return &Joypad{
		dpad:      0x0F,
		buttons:   0x0F,
		selection: 0x30,
	}
}

// Set updates a button level. It returns true on a released to pressed
// transition, which is what raises the joypad interrupt.
func (j *Joypad) Set(b Button, pressed bool) bool {
	nibble := &j.dpad
	index := uint8(b)
	if b >= ButtonA {
		nibble = &j.buttons
		index -= uint8(ButtonA)
	}

	before := *nibble
	*nibble = bit.SetTo(index, *nibble, !pressed)
	return bit.IsSet(index, before) && !bit.IsSet(index, *nibble)
}

// Write stores the select lines, only bits 4-5 are writable.
func (j *Joypad) Write(value uint8) {
	j.selection = value & 0x30
}

// Read composes P1.
//   - bit 4 clear: low nibble is the d-pad
//   - bit 5 clear: low nibble is the buttons
//   - both clear: the two nibbles are ANDed
//   - neither: 0x0F
//
// Bits 6-7 always read as 1.
func (j *Joypad) Read() uint8 {
	result := uint8(0xC0) | j.selection

	selectDpad := !bit.IsSet(4, j.selection)
	selectButtons := !bit.IsSet(5, j.selection)

	switch {
	case selectButtons && !selectDpad:
		result |= j.buttons
	case selectDpad && !selectButtons:
		result |= j.dpad
	case selectButtons && selectDpad:
		result |= j.buttons & j.dpad
	default:
		result |= 0x0F
	}
	return result
}
