// Package debug renders emulator state for humans: register and
// interrupt summaries, disassembly, text frame dumps and PNG snapshots.
package debug

import (
	"fmt"
	"strings"

	"github.com/valerio/go-dmgcore/dmg"
	"github.com/valerio/go-dmgcore/dmg/addr"
	"github.com/valerio/go-dmgcore/dmg/cpu"
	"github.com/valerio/go-dmgcore/dmg/video"
)

// disasmLines is how many instructions Dump lists from PC.
const disasmLines = 6

// FormatCPU renders registers, flags and the interrupt master state.
func FormatCPU(regs cpu.Registers, ime, halted bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "A=%02X F=%02X B=%02X C=%02X D=%02X E=%02X H=%02X L=%02X\n",
		regs.A, regs.F, regs.B, regs.C, regs.D, regs.E, regs.H, regs.L)
	fmt.Fprintf(&sb, "SP=%04X PC=%04X flags=%s ime=%s", regs.SP, regs.PC, regs.FlagString(), onOff(ime))
	if halted {
		sb.WriteString(" HALT")
	}
	return sb.String()
}

// FormatInterrupts lists each source as name:enabled/requested, e.g.
// "VBlank:E- Timer:ER".
func FormatInterrupts(ie, iflags uint8) string {
	parts := make([]string, 0, len(addr.Interrupts))
	for _, i := range addr.Interrupts {
		state := []byte("--")
		if ie&i.Mask() != 0 {
			state[0] = 'E'
		}
		if iflags&i.Mask() != 0 {
			state[1] = 'R'
		}
		parts = append(parts, i.String()+":"+string(state))
	}
	return strings.Join(parts, " ")
}

// FormatPPU renders the mode machine position.
func FormatPPU(p *video.PPU) string {
	return fmt.Sprintf("mode=%s ly=%d frames=%d", p.Mode(), p.LY(), p.Frames())
}

// FormatLCD renders the LCD control and scroll registers.
func FormatLCD(lcdc, stat, scy, scx, wy, wx uint8) string {
	return fmt.Sprintf("LCDC=%02X STAT=%02X SCY=%d SCX=%d WY=%d WX=%d", lcdc, stat, scy, scx, wy, wx)
}

// FormatOAM lists the sprites placed inside the visible area, one per line,
// with screen coordinates.
func FormatOAM(oam []byte) string {
	var sb strings.Builder
	for i := 0; i+3 < len(oam); i += 4 {
		y, x := int(oam[i])-16, int(oam[i+1])-8
		if y <= -16 || y >= video.FramebufferHeight || x <= -8 || x >= video.FramebufferWidth {
			continue
		}
		fmt.Fprintf(&sb, "OBJ%02d x=%d y=%d tile=%02X flags=%02X\n", i/4, x, y, oam[i+2], oam[i+3])
	}
	return sb.String()
}

// FormatVRAM summarises tile data usage: how many of the 384 tiles hold
// any set dot.
func FormatVRAM(vram []byte) string {
	const tileBytes = 16
	tiles := int(addr.TileMap0-addr.VRAMStart) / tileBytes
	used := 0
	for t := 0; t < tiles; t++ {
		for _, b := range vram[t*tileBytes : (t+1)*tileBytes] {
			if b != 0 {
				used++
				break
			}
		}
	}
	return fmt.Sprintf("vram tiles=%d/%d", used, tiles)
}

// Disassembly renders lines, marking the one at pc.
func Disassembly(lines []cpu.Line, pc uint16) string {
	var sb strings.Builder
	for _, l := range lines {
		marker := "  "
		if l.Address == pc {
			marker = "> "
		}
		sb.WriteString(marker)
		sb.WriteString(l.String())
		if l.Err != nil {
			sb.WriteString("  ; ")
			sb.WriteString(l.Err.Error())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Dump is the full state report used by the CLI and scripts. With
// withFrame the glyph rendering of the frame buffer is appended.
func Dump(e *dmg.Emulator, withFrame bool) string {
	var sb strings.Builder
	c := e.CPU()
	mem := e.MMU()

	sb.WriteString(FormatCPU(c.Registers(), c.IME(), c.Halted()))
	sb.WriteByte('\n')
	fmt.Fprintf(&sb, "cycles=%d steps=%d\n", c.Cycles(), e.Steps())
	sb.WriteString(FormatInterrupts(mem.Read(addr.IE), mem.Read(addr.IF)))
	sb.WriteByte('\n')
	sb.WriteString(FormatPPU(e.PPU()))
	sb.WriteByte('\n')
	sb.WriteString(FormatLCD(mem.Read(addr.LCDC), mem.Read(addr.STAT), mem.Read(addr.SCY),
		mem.Read(addr.SCX), mem.Read(addr.WY), mem.Read(addr.WX)))
	sb.WriteByte('\n')
	sb.WriteString(FormatVRAM(mem.VRAM()))
	sb.WriteByte('\n')
	sb.WriteString(FormatOAM(mem.OAM()))

	if lines, err := e.Disassemble(disasmLines); err != nil {
		fmt.Fprintf(&sb, "disassembly unavailable: %v\n", err)
	} else {
		sb.WriteString(Disassembly(lines, c.PC()))
	}

	if out := e.SerialOutput(); out != "" {
		fmt.Fprintf(&sb, "serial: %q\n", out)
	}

	if withFrame {
		sb.WriteString(e.Frame().Glyphs())
	}
	return sb.String()
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
