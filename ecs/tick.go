package ecs

// Tick is a monotonically increasing frame counter used for change detection.
// A Tick of 0 never appears on a stamped cell; it means "no previous tick."
type Tick uint64

// Last returns the tick that was current during the previous completed frame.
// It never underflows: a Clock starts at 1, so Last of the first frame is 0,
// which no cell is ever stamped with.
func (t Tick) Last() Tick {
	if t == 0 {
		return 0
	}
	return t - 1
}

// Next returns the tick that follows t.
func (t Tick) Next() Tick {
	return t + 1
}

// Clock tracks the current tick for a World.
type Clock struct {
	current Tick
}

// NewClock returns a Clock whose current tick is 1, so Last never underflows.
func NewClock() *Clock {
	return &Clock{current: 1}
}

// Current returns the tick associated with the frame presently executing.
func (c *Clock) Current() Tick {
	return c.current
}

// Last returns the tick associated with the most recently completed frame.
func (c *Clock) Last() Tick {
	return c.current.Last()
}

// Advance moves the clock to the next tick, to be called once per completed frame.
func (c *Clock) Advance() {
	c.current = c.current.Next()
}
