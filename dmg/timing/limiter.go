// Package timing paces hosts to the handheld's frame rate. The emulator
// core itself never sleeps.
package timing

import "time"

const (
	// ClockHz is the CPU clock in cycles per second.
	ClockHz = 4194304
	// FrameCycles is the length of one 154 line frame.
	FrameCycles = 70224
)

// Limiter blocks a host loop between frames.
type Limiter interface {
	// Wait returns once the next frame is due, immediately when behind.
	Wait()
	// Reset restarts the schedule, e.g. after a pause.
	Reset()
	// Stop releases any resources.
	Stop()
}

// FramesPerSecond is roughly 59.73.
func FramesPerSecond() float64 {
	return float64(ClockHz) / float64(FrameCycles)
}

// FrameDuration is the wall time of one frame.
func FrameDuration() time.Duration {
	return time.Duration(float64(time.Second) / FramesPerSecond())
}

// Unlimited runs as fast as the host can go.
type Unlimited struct{}

func (Unlimited) Wait()  {}
func (Unlimited) Reset() {}
func (Unlimited) Stop()  {}

// New returns a real-time limiter, or Unlimited when realtime is false.
func New(realtime bool) Limiter {
	if !realtime {
		return Unlimited{}
	}
	return NewAdaptive()
}
