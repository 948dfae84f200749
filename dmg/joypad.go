package dmg

import "github.com/valerio/go-dmgcore/dmg/memory"

// SetButton updates one button. A press requests the joypad interrupt.
func (e *Emulator) SetButton(b memory.Button, pressed bool) {
	e.mem.SetButton(b, pressed)
}

func (e *Emulator) PressRight(pressed bool)  { e.SetButton(memory.ButtonRight, pressed) }
func (e *Emulator) PressLeft(pressed bool)   { e.SetButton(memory.ButtonLeft, pressed) }
func (e *Emulator) PressUp(pressed bool)     { e.SetButton(memory.ButtonUp, pressed) }
func (e *Emulator) PressDown(pressed bool)   { e.SetButton(memory.ButtonDown, pressed) }
func (e *Emulator) PressA(pressed bool)      { e.SetButton(memory.ButtonA, pressed) }
func (e *Emulator) PressB(pressed bool)      { e.SetButton(memory.ButtonB, pressed) }
func (e *Emulator) PressSelect(pressed bool) { e.SetButton(memory.ButtonSelect, pressed) }
func (e *Emulator) PressStart(pressed bool)  { e.SetButton(memory.ButtonStart, pressed) }
