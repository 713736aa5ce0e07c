package sim

import "time"

// Clock reports the wall-clock time elapsed since the previous call, in
// seconds. The first call returns zero.
type Clock interface {
	Delta() float64
}

type WallClock struct {
	last time.Time
	now  func() time.Time
}

func NewWallClock() *WallClock {
	return &WallClock{now: time.Now}
}

func (c *WallClock) Delta() float64 {
	now := c.now()
	if c.last.IsZero() {
		c.last = now
		return 0
	}
	d := now.Sub(c.last).Seconds()
	c.last = now
	return d
}

// FixedClock always reports the same delta. Useful for headless runs and
// tests where wall time is irrelevant.
type FixedClock float64

func (c FixedClock) Delta() float64 { return float64(c) }
