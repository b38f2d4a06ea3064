package clock

import "sync/atomic"

// Logical is a monotonically increasing counter shared by all callers.
// It orders cache touches and has no relation to wall-clock time.
type Logical struct {
	now atomic.Int64
}

func New() *Logical {
	return &Logical{}
}

// Now returns the current value without advancing.
func (c *Logical) Now() int64 {
	return c.now.Load()
}

// Tick returns the current value and advances the clock by one.
func (c *Logical) Tick() int64 {
	return c.now.Add(1) - 1
}
