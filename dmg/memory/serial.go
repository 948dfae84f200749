package memory

import (
	"io"
	"log/slog"

	"github.com/valerio/go-dmgcore/dmg/addr"
	"github.com/valerio/go-dmgcore/dmg/bit"
)

// SerialPort is a device plugged on SB/SC. Implementations only see
// addresses addr.SB and addr.SC.
type SerialPort interface {
	Write(address uint16, value byte) (done bool)
	Read(address uint16) byte
}

// SerialSink is a link-cable stand-in with no peer: every transfer started on
// the internal clock completes immediately, receives 0xFF, and the outgoing
// byte is logged line by line and copied to an optional writer.
// Test ROMs print their results this way.
type SerialSink struct {
	sb, sc byte
	out    io.Writer
	line   []byte
	logger *slog.Logger
}

// NewSerialSink creates a sink. out may be nil.
func NewSerialSink(out io.Writer) *SerialSink {
	return &SerialSink{
		out:    out,
		logger: slog.Default(),
	}
}

// Write stores SB/SC and reports whether a transfer completed, which the bus
// turns into a serial interrupt request.
func (s *SerialSink) Write(address uint16, value byte) bool {
	switch address {
	case addr.SB:
		s.sb = value
		return false
	case addr.SC:
		s.sc = value | 0x7E
		return s.maybeTransfer()
	default:
		panic("memory.SerialSink: invalid write address")
	}
}

func (s *SerialSink) Read(address uint16) byte {
	switch address {
	case addr.SB:
		return s.sb
	case addr.SC:
		return s.sc
	default:
		panic("memory.SerialSink: invalid read address")
	}
}

func (s *SerialSink) maybeTransfer() bool {
	// external clock transfers never complete without a peer
	if !bit.IsSet(7, s.sc) || !bit.IsSet(0, s.sc) {
		return false
	}

	b := s.sb
	if s.out != nil {
		_, _ = s.out.Write([]byte{b})
	}
	if b == 0 || b == '\n' || b == '\r' {
		s.flush()
	} else {
		s.line = append(s.line, b)
	}

	s.sb = 0xFF
	s.sc = bit.Clear(7, s.sc)
	return true
}

func (s *SerialSink) flush() {
	if len(s.line) == 0 {
		return
	}
	s.logger.Info("serial", "line", string(s.line))
	s.line = s.line[:0]
}
