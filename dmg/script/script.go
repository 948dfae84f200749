// Package script exposes emulators to Lua. Scripts see a global "dmg"
// table whose functions take the integer handles issued by a
// host.Registry:
//
//	local h = dmg.open("rom.gb")
//	dmg.step(h, 1000)
//	dmg.press(h, "start", true)
//	print(dmg.reg(h, "pc"), dmg.pixel(h, 0, 0))
//	dmg.close(h)
package script

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/valerio/go-dmgcore/dmg"
	"github.com/valerio/go-dmgcore/dmg/debug"
	"github.com/valerio/go-dmgcore/dmg/host"
	"github.com/valerio/go-dmgcore/dmg/memory"
	"github.com/valerio/go-dmgcore/dmg/video"
)

// Runtime is one Lua state bound to a registry. Not safe for concurrent use.
type Runtime struct {
	state    *lua.LState
	registry *host.Registry
	out      io.Writer
}

// New creates a Lua state with the dmg table installed. print writes to out.
func New(registry *host.Registry, out io.Writer) *Runtime {
	r := &Runtime{
		state:    lua.NewState(),
		registry: registry,
		out:      out,
	}

	mod := r.state.NewTable()
	r.state.SetFuncs(mod, map[string]lua.LGFunction{
		"open":   r.open,
		"close":  r.close,
		"step":   r.step,
		"frame":  r.frame,
		"press":  r.press,
		"pixel":  r.pixel,
		"reg":    r.reg,
		"peek":   r.peek,
		"serial": r.serial,
		"dump":   r.dump,
	})
	r.state.SetGlobal("dmg", mod)
	r.state.SetGlobal("print", r.state.NewFunction(r.print))
	return r
}

// DoFile runs a script file.
func (r *Runtime) DoFile(path string) error {
	slog.Debug("running script", "path", path)
	if err := r.state.DoFile(path); err != nil {
		return fmt.Errorf("script %s: %w", path, err)
	}
	return nil
}

// DoString runs a chunk of Lua source.
func (r *Runtime) DoString(src string) error {
	return r.state.DoString(src)
}

// SetString defines a global string, e.g. the ROM path given on the
// command line.
func (r *Runtime) SetString(name, value string) {
	r.state.SetGlobal(name, lua.LString(value))
}

// Close releases the Lua state. Emulators stay in the registry.
func (r *Runtime) Close() {
	r.state.Close()
}

func (r *Runtime) print(L *lua.LState) int {
	parts := make([]string, L.GetTop())
	for i := range parts {
		parts[i] = L.ToStringMeta(L.Get(i + 1)).String()
	}
	fmt.Fprintln(r.out, strings.Join(parts, "\t"))
	return 0
}

// emulator resolves the handle in argument 1, raising a Lua error on failure.
func (r *Runtime) emulator(L *lua.LState) *dmg.Emulator {
	e, err := r.registry.Get(host.Handle(L.CheckInt64(1)))
	if err != nil {
		L.RaiseError("%v", err)
	}
	return e
}

func (r *Runtime) open(L *lua.LState) int {
	h, err := r.registry.Open(L.CheckString(1))
	if err != nil {
		L.RaiseError("%v", err)
	}
	L.Push(lua.LNumber(h))
	return 1
}

func (r *Runtime) close(L *lua.LState) int {
	if err := r.registry.Close(host.Handle(L.CheckInt64(1))); err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

// step(h, n) runs n steps and returns the cycles elapsed.
func (r *Runtime) step(L *lua.LState) int {
	e := r.emulator(L)
	n := L.OptInt(2, 1)

	total := 0
	for i := 0; i < n; i++ {
		cycles, err := e.Step()
		total += cycles
		if err != nil {
			L.RaiseError("step %d: %v", i, err)
		}
	}
	L.Push(lua.LNumber(total))
	return 1
}

// frame(h) runs to the next VBlank and returns the frame count.
func (r *Runtime) frame(L *lua.LState) int {
	e := r.emulator(L)
	if err := e.RunUntilFrame(); err != nil {
		L.RaiseError("%v", err)
	}
	L.Push(lua.LNumber(e.Frames()))
	return 1
}

func (r *Runtime) press(L *lua.LState) int {
	e := r.emulator(L)
	name := L.CheckString(2)
	b, ok := memory.ParseButton(strings.ToLower(name))
	if !ok {
		L.ArgError(2, fmt.Sprintf("unknown button %q", name))
	}
	e.SetButton(b, L.OptBool(3, true))
	return 0
}

// pixel(h, x, y) returns the shade 0-3 at x,y of the frame buffer.
func (r *Runtime) pixel(L *lua.LState) int {
	e := r.emulator(L)
	x, y := L.CheckInt(2), L.CheckInt(3)
	if x < 0 || x >= video.FramebufferWidth {
		L.ArgError(2, "x out of range")
	}
	if y < 0 || y >= video.FramebufferHeight {
		L.ArgError(3, "y out of range")
	}
	L.Push(lua.LNumber(e.Frame().At(x, y)))
	return 1
}

func (r *Runtime) reg(L *lua.LState) int {
	e := r.emulator(L)
	name := L.CheckString(2)
	regs := e.Registers()

	var v uint16
	switch strings.ToLower(name) {
	case "a":
		v = uint16(regs.A)
	case "f":
		v = uint16(regs.F)
	case "b":
		v = uint16(regs.B)
	case "c":
		v = uint16(regs.C)
	case "d":
		v = uint16(regs.D)
	case "e":
		v = uint16(regs.E)
	case "h":
		v = uint16(regs.H)
	case "l":
		v = uint16(regs.L)
	case "af":
		v = regs.AF()
	case "bc":
		v = regs.BC()
	case "de":
		v = regs.DE()
	case "hl":
		v = regs.HL()
	case "sp":
		v = regs.SP
	case "pc":
		v = regs.PC
	default:
		L.ArgError(2, fmt.Sprintf("unknown register %q", name))
	}
	L.Push(lua.LNumber(v))
	return 1
}

func (r *Runtime) peek(L *lua.LState) int {
	e := r.emulator(L)
	address := L.CheckInt(2)
	if address < 0 || address > 0xFFFF {
		L.ArgError(2, "address out of range")
	}
	v, err := e.Peek(uint16(address))
	if err != nil {
		L.RaiseError("%v", err)
	}
	L.Push(lua.LNumber(v))
	return 1
}

func (r *Runtime) serial(L *lua.LState) int {
	L.Push(lua.LString(r.emulator(L).SerialOutput()))
	return 1
}

// dump(h [, frame]) returns the debug state report.
func (r *Runtime) dump(L *lua.LState) int {
	e := r.emulator(L)
	L.Push(lua.LString(debug.Dump(e, L.OptBool(2, false))))
	return 1
}
