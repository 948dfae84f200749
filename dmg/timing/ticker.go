package timing

import "time"

// Ticker paces frames with a time.Ticker. Coarser than Adaptive but it
// never spins.
type Ticker struct {
	ticker *time.Ticker
}

func NewTicker() *Ticker {
	return &Ticker{ticker: time.NewTicker(FrameDuration())}
}

func (t *Ticker) Wait()  { <-t.ticker.C }
func (t *Ticker) Reset() { t.ticker.Reset(FrameDuration()) }
func (t *Ticker) Stop()  { t.ticker.Stop() }
