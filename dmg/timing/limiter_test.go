package timing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFrameRate(t *testing.T) {
	assert.InDelta(t, 59.7275, FramesPerSecond(), 0.001)
	assert.InDelta(t, 16.74, float64(FrameDuration())/float64(time.Millisecond), 0.01)
}

func TestNew(t *testing.T) {
	assert.IsType(t, Unlimited{}, New(false))
	assert.IsType(t, &Adaptive{}, New(true))
}

// fakeClock advances only when sleep is called or on every read.
type fakeClock struct {
	t     time.Time
	slept time.Duration
}

func (c *fakeClock) now() time.Time {
	c.t = c.t.Add(100 * time.Microsecond)
	return c.t
}

func (c *fakeClock) sleep(d time.Duration) {
	c.slept += d
	c.t = c.t.Add(d)
}

func newFakeAdaptive() (*Adaptive, *fakeClock) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	a := NewAdaptive()
	a.now = clock.now
	a.sleep = clock.sleep
	a.Reset()
	return a, clock
}

func TestAdaptiveSleepsUntilNextFrame(t *testing.T) {
	a, clock := newFakeAdaptive()

	a.Wait() // first frame is due immediately
	assert.Zero(t, clock.slept)

	a.Wait()
	assert.Greater(t, clock.slept, 10*time.Millisecond)
	assert.False(t, clock.t.Before(a.next.Add(-a.frame)))
	assert.Equal(t, int64(2), a.Frames())
}

func TestAdaptiveResyncsWhenBehind(t *testing.T) {
	a, clock := newFakeAdaptive()
	a.Wait()

	clock.t = clock.t.Add(time.Second)
	a.Wait()
	assert.Zero(t, clock.slept)
	assert.True(t, a.next.After(clock.t))

	a.Reset()
	assert.Zero(t, a.Frames())
}
