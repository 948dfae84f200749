package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/valerio/go-dmgcore/dmg/addr"
)

func TestTimer_FullPeriodAtDivider16(t *testing.T) {
	var timer Timer
	timer.Write(addr.TAC, 0b101)

	overflows := 0
	for i := 0; i < 256*16/4; i++ {
		if timer.Tick(4) {
			overflows++
		}
	}

	// 256 increments from 0 wrap exactly once, back to TMA=0
	assert.Equal(t, 1, overflows)
	assert.Equal(t, byte(0x00), timer.Read(addr.TIMA))
}

func TestTimer_SingleLargeTick(t *testing.T) {
	var timer Timer
	timer.Write(addr.TAC, 0b101)
	timer.Write(addr.TMA, 0x80)

	assert.True(t, timer.Tick(256*16))
	assert.Equal(t, byte(0x80), timer.Read(addr.TIMA))
}

func TestTimer_Dividers(t *testing.T) {
	tests := []struct {
		tac     byte
		divider int
	}{
		{0b100, 1024},
		{0b101, 16},
		{0b110, 64},
		{0b111, 256},
	}

	for _, tt := range tests {
		var timer Timer
		timer.Write(addr.TAC, tt.tac)

		timer.Tick(tt.divider - 1)
		assert.Equal(t, byte(0), timer.Read(addr.TIMA), "tac=%03b", tt.tac)
		timer.Tick(1)
		assert.Equal(t, byte(1), timer.Read(addr.TIMA), "tac=%03b", tt.tac)
	}
}

func TestTimer_Disabled(t *testing.T) {
	var timer Timer
	timer.Write(addr.TAC, 0b001)

	assert.False(t, timer.Tick(100000))
	assert.Equal(t, byte(0), timer.Read(addr.TIMA))
}

func TestTimer_DIV(t *testing.T) {
	var timer Timer

	timer.Tick(255)
	assert.Equal(t, byte(0), timer.Read(addr.DIV))
	timer.Tick(1)
	assert.Equal(t, byte(1), timer.Read(addr.DIV))

	timer.Tick(254 * 256)
	assert.Equal(t, byte(0xFF), timer.Read(addr.DIV))

	// the upper byte wraps every 65536 cycles
	timer.Tick(256)
	assert.Equal(t, byte(0), timer.Read(addr.DIV))
	timer.Tick(3 * 256)
	assert.Equal(t, byte(3), timer.Read(addr.DIV))

	timer.Write(addr.DIV, 0x42)
	assert.Equal(t, byte(0), timer.Read(addr.DIV))
}

func TestTimer_DIVLargeTick(t *testing.T) {
	var timer Timer

	timer.Tick(65536 + 5*256 + 17)
	assert.Equal(t, byte(5), timer.Read(addr.DIV))
}

func TestTimer_OverflowReloadsTMA(t *testing.T) {
	var timer Timer
	timer.Write(addr.TAC, 0b101)
	timer.Write(addr.TIMA, 0xFF)
	timer.Write(addr.TMA, 0x42)

	assert.True(t, timer.Tick(16))
	assert.Equal(t, byte(0x42), timer.Read(addr.TIMA))
	assert.False(t, timer.Tick(15))
}
