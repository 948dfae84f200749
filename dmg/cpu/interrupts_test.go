package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valerio/go-dmgcore/dmg/addr"
)

func TestInterruptHandling(t *testing.T) {
	t.Run("interrupts disabled by default", func(t *testing.T) {
		c, bus := newTestCPU()
		bus.mem[addr.IF] = 0x01
		bus.mem[addr.IE] = 0x01

		assert.False(t, c.ServiceInterrupts())
		assert.Equal(t, uint16(0x100), c.PC())
		assert.Equal(t, uint8(0x01), bus.mem[addr.IF])
	})

	t.Run("dispatch", func(t *testing.T) {
		c, bus := newTestCPU()
		c.ime = true
		bus.mem[addr.IF] = 0x04
		bus.mem[addr.IE] = 0xFF

		require.True(t, c.ServiceInterrupts())
		assert.Equal(t, uint16(0x0050), c.PC())
		assert.False(t, c.IME())
		assert.Equal(t, uint8(0x00), bus.mem[addr.IF])
		assert.Equal(t, uint16(0xFFFC), c.regs.SP)
		assert.Equal(t, uint16(0x0100), c.popStack())
		assert.Equal(t, uint64(InterruptDispatchCycles), c.Cycles())
	})

	t.Run("interrupt priority order", func(t *testing.T) {
		c, bus := newTestCPU()
		bus.mem[addr.IF] = 0x1F
		bus.mem[addr.IE] = 0x1F

		for _, vector := range []uint16{0x40, 0x48, 0x50, 0x58, 0x60} {
			c.ime = true
			require.True(t, c.ServiceInterrupts())
			assert.Equal(t, vector, c.PC())
		}
		assert.Equal(t, uint8(0x00), bus.mem[addr.IF])
	})

	t.Run("one source per call", func(t *testing.T) {
		c, bus := newTestCPU()
		c.ime = true
		bus.mem[addr.IF] = 0x03
		bus.mem[addr.IE] = 0x03

		c.ServiceInterrupts()
		assert.Equal(t, uint8(0x02), bus.mem[addr.IF])
	})

	t.Run("disabled source is ignored", func(t *testing.T) {
		c, bus := newTestCPU()
		c.ime = true
		bus.mem[addr.IF] = 0x01
		bus.mem[addr.IE] = 0x02

		assert.False(t, c.ServiceInterrupts())
		assert.Equal(t, uint16(0x100), c.PC())
	})
}

func TestHaltWake(t *testing.T) {
	t.Run("wakes without IME and resumes after HALT", func(t *testing.T) {
		c, bus := newTestCPU(0x76, 0x00)
		_, err := c.Step()
		require.NoError(t, err)
		require.True(t, c.Halted())

		// nothing pending, stays halted
		assert.False(t, c.ServiceInterrupts())
		assert.True(t, c.Halted())

		bus.mem[addr.IE] = 0x04
		bus.mem[addr.IF] = 0x04
		assert.False(t, c.ServiceInterrupts())
		assert.False(t, c.Halted())
		assert.Equal(t, uint16(0x0101), c.PC())
		assert.Equal(t, uint8(0x04), bus.mem[addr.IF], "not dispatched, stays pending")
	})

	t.Run("wakes and dispatches with IME", func(t *testing.T) {
		c, bus := newTestCPU(0x76)
		c.ime = true
		_, err := c.Step()
		require.NoError(t, err)

		bus.mem[addr.IE] = 0x01
		bus.mem[addr.IF] = 0x01
		require.True(t, c.ServiceInterrupts())
		assert.False(t, c.Halted())
		assert.Equal(t, uint16(0x0040), c.PC())
		assert.Equal(t, uint16(0x0101), c.popStack(), "returns past the HALT")
	})
}

func TestEIDelay(t *testing.T) {
	// EI; NOP; NOP
	c, bus := newTestCPU(0xFB, 0x00, 0x00)
	bus.mem[addr.IE] = 0x01
	bus.mem[addr.IF] = 0x01

	_, err := c.Step()
	require.NoError(t, err)
	assert.False(t, c.IME(), "EI does not take effect immediately")
	assert.False(t, c.ServiceInterrupts())

	_, err = c.Step()
	require.NoError(t, err)
	assert.True(t, c.IME(), "enabled after the following instruction")

	require.True(t, c.ServiceInterrupts())
	assert.Equal(t, uint16(0x0102), c.popStack())
}

func TestDICancelsPendingEI(t *testing.T) {
	// EI; DI; NOP
	c, _ := newTestCPU(0xFB, 0xF3, 0x00)

	for i := 0; i < 3; i++ {
		_, err := c.Step()
		require.NoError(t, err)
	}
	assert.False(t, c.IME())
}

func TestRETIEnablesImmediately(t *testing.T) {
	c, _ := newTestCPU(0xD9)
	c.pushStack(0x0200)

	_, err := c.Step()
	require.NoError(t, err)
	assert.True(t, c.IME())
	assert.Equal(t, uint16(0x0200), c.PC())
}
