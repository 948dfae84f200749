package timing

import (
	"log/slog"
	"time"
)

const (
	// below this the remaining wait is spun instead of slept
	spinThreshold = 2 * time.Millisecond
	// a host further behind than this drops the backlog
	maxLag = 5 * time.Millisecond
)

// Adaptive sleeps most of the frame and spins the rest, resynchronising
// when the host falls behind.
type Adaptive struct {
	frame  time.Duration
	next   time.Time
	frames int64
	now    func() time.Time
	sleep  func(time.Duration)
}

func NewAdaptive() *Adaptive {
	return &Adaptive{
		frame: FrameDuration(),
		next:  time.Now(),
		now:   time.Now,
		sleep: time.Sleep,
	}
}

func (a *Adaptive) Wait() {
	now := a.now()
	remaining := a.next.Sub(now)

	switch {
	case remaining > spinThreshold:
		a.sleep(remaining - time.Millisecond)
		fallthrough
	case remaining > 0:
		for a.now().Before(a.next) {
		}
	case remaining < -maxLag:
		slog.Debug("frame limiter behind, resyncing", "lag_ms", (-remaining).Milliseconds())
		a.next = now
	}

	a.next = a.next.Add(a.frame)
	a.frames++
}

func (a *Adaptive) Reset() {
	a.next = a.now()
	a.frames = 0
}

func (a *Adaptive) Stop() {}

// Frames counts Wait calls since the last Reset.
func (a *Adaptive) Frames() int64 { return a.frames }
