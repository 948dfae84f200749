// Package dmg wires the CPU, memory bus, timer and PPU into a steppable
// Game Boy.
package dmg

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/valerio/go-dmgcore/dmg/addr"
	"github.com/valerio/go-dmgcore/dmg/cpu"
	"github.com/valerio/go-dmgcore/dmg/memory"
	"github.com/valerio/go-dmgcore/dmg/video"
)

const (
	// haltCycles is what a step costs while the CPU is halted.
	haltCycles = 4
	// CyclesPerFrame is the length of one 154 line frame.
	CyclesPerFrame = 154 * 456
)

// Option configures an Emulator.
type Option func(*Emulator)

// WithScanlineFunc registers the per-scanline pixel sink.
func WithScanlineFunc(fn video.PixelFunc) Option {
	return func(e *Emulator) { e.ppu.OnScanline(fn) }
}

// WithSerialOutput copies every byte sent on the serial port to w.
func WithSerialOutput(w io.Writer) Option {
	return func(e *Emulator) { e.serialOut = w }
}

// Emulator is one Game Boy. It is not safe for concurrent use.
type Emulator struct {
	mem *memory.MMU
	cpu *cpu.CPU
	ppu *video.PPU

	serial    bytes.Buffer
	serialOut io.Writer

	steps uint64
}

// New creates an emulator with rom inserted. The slice is copied.
func New(rom []byte, opts ...Option) (*Emulator, error) {
	cart, err := memory.NewCartridge(rom)
	if err != nil {
		return nil, fmt.Errorf("loading cartridge: %w", err)
	}

	e := &Emulator{mem: memory.New(cart)}
	e.cpu = cpu.New(e.mem)
	e.ppu = video.New(e.mem)

	for _, opt := range opts {
		opt(e)
	}

	var sink io.Writer = &e.serial
	if e.serialOut != nil {
		sink = io.MultiWriter(&e.serial, e.serialOut)
	}
	e.mem.SetSerialPort(memory.NewSerialSink(sink))

	slog.Info("loaded cartridge",
		"title", cart.Title,
		"type", fmt.Sprintf("0x%02X", cart.Type),
		"rom_size", fmt.Sprintf("0x%02X", cart.ROMSize),
		"ram_size", fmt.Sprintf("0x%02X", cart.RAMSize),
		"rom_bytes", cart.ROMBytes(),
		"bytes", len(rom))

	return e, nil
}

// NewWithFile creates a new emulator instance and loads the file specified into it.
func NewWithFile(path string, opts ...Option) (*Emulator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return New(data, opts...)
}

// Step runs one driver cycle: service interrupts, execute one instruction
// (or idle if halted), clock the timer, then the PPU. It returns the cycles
// elapsed. Errors are fatal for the instance.
func (e *Emulator) Step() (cycles int, err error) {
	defer func() {
		if r := recover(); r != nil {
			accessErr, ok := r.(*memory.AccessError)
			if !ok {
				panic(r)
			}
			err = accessErr
		}
	}()
	e.steps++

	if e.cpu.ServiceInterrupts() {
		cycles += cpu.InterruptDispatchCycles
	}

	if e.cpu.Halted() {
		cycles += haltCycles
	} else {
		n, err := e.cpu.Step()
		cycles += n
		if err != nil {
			return cycles, err
		}
	}

	if e.mem.Timer().Tick(cycles) {
		e.mem.RequestInterrupt(addr.TimerInterrupt)
	}
	e.ppu.Tick(cycles)

	return cycles, nil
}

// Run calls Step n times, stopping at the first error.
func (e *Emulator) Run(n int) error {
	for i := 0; i < n; i++ {
		if _, err := e.Step(); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
	}
	return nil
}

// RunContext is Run that also stops when ctx is done. The context is
// polled once per frame worth of cycles. A negative n runs until ctx ends
// or a step fails.
func (e *Emulator) RunContext(ctx context.Context, n int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	budget := 0
	for i := 0; n < 0 || i < n; i++ {
		cycles, err := e.Step()
		if err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
		budget += cycles
		if budget >= CyclesPerFrame {
			budget = 0
			if err := ctx.Err(); err != nil {
				return err
			}
		}
	}
	return nil
}

// RunUntilFrame steps until the PPU enters VBlank, so Frame holds a
// complete picture.
func (e *Emulator) RunUntilFrame() error {
	start := e.ppu.Frames()
	for e.ppu.Frames() == start {
		if _, err := e.Step(); err != nil {
			return err
		}
	}
	return nil
}

// OnScanline replaces the per-scanline pixel sink, nil disables it.
func (e *Emulator) OnScanline(fn video.PixelFunc) {
	e.ppu.OnScanline(fn)
}

// Frame returns the frame buffer the PPU draws into.
func (e *Emulator) Frame() *video.FrameBuffer {
	return e.ppu.Frame()
}

// Frames counts completed frames.
func (e *Emulator) Frames() uint64 {
	return e.ppu.Frames()
}

// Steps counts Step calls.
func (e *Emulator) Steps() uint64 {
	return e.steps
}

// SerialOutput returns every byte sent over the serial port so far.
func (e *Emulator) SerialOutput() string {
	return e.serial.String()
}

// Registers returns a copy of the CPU registers.
func (e *Emulator) Registers() cpu.Registers {
	return e.cpu.Registers()
}

// CPU exposes the processor for inspection.
func (e *Emulator) CPU() *cpu.CPU {
	return e.cpu
}

// PPU exposes the renderer for inspection.
func (e *Emulator) PPU() *video.PPU {
	return e.ppu
}

// MMU exposes the bus for inspection.
func (e *Emulator) MMU() *memory.MMU {
	return e.mem
}

// Peek reads a byte the way the CPU would, returning bus faults as errors.
func (e *Emulator) Peek(address uint16) (value byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			accessErr, ok := r.(*memory.AccessError)
			if !ok {
				panic(r)
			}
			err = accessErr
		}
	}()
	return e.mem.Read(address), nil
}

// Disassemble decodes n instructions starting at PC.
func (e *Emulator) Disassemble(n int) ([]cpu.Line, error) {
	return e.DisassembleAt(e.cpu.PC(), n)
}

// DisassembleAt decodes n instructions starting at address.
func (e *Emulator) DisassembleAt(address uint16, n int) (lines []cpu.Line, err error) {
	defer func() {
		if r := recover(); r != nil {
			accessErr, ok := r.(*memory.AccessError)
			if !ok {
				panic(r)
			}
			err = accessErr
		}
	}()
	return cpu.Disassemble(e.mem, address, n), nil
}

// BackgroundMap renders the full 256x256 background map as currently
// selected by LCDC.
func (e *Emulator) BackgroundMap() *video.FrameBuffer {
	return video.RenderBackgroundMap(e.mem, e.mem.Read(addr.LCDC), e.mem.Read(addr.BGP))
}
