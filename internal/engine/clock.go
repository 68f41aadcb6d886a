// Package engine provides the simulation clock and the tick-based loop
// that drives the water table.
package engine

// Clock tracks simulated time. Ticks are fixed-duration; all
// day-denominated rates in the water config are converted through
// SecondsPerDay.
type Clock struct {
	// SecondsPerDay is the number of simulated seconds in one in-game day.
	SecondsPerDay float64
	// TickSeconds is the simulated time covered by one tick.
	TickSeconds float64

	elapsed float64
}

// NewClock returns a clock with one simulated second per tick and a
// 60-second in-game day.
func NewClock() *Clock {
	return &Clock{
		SecondsPerDay: 60,
		TickSeconds:   1,
	}
}

// Advance moves the clock forward by one tick.
func (c *Clock) Advance() {
	c.elapsed += c.TickSeconds
}

// ElapsedSeconds returns the total simulated time, in seconds.
func (c *Clock) ElapsedSeconds() float64 {
	return c.elapsed
}

// SetElapsedSeconds restores the clock to a saved point in time.
func (c *Clock) SetElapsedSeconds(s float64) {
	c.elapsed = s
}

// ElapsedDays returns the total simulated time, in in-game days.
func (c *Clock) ElapsedDays() float64 {
	if c.SecondsPerDay == 0 {
		return 0
	}
	return c.elapsed / c.SecondsPerDay
}

// FractionOfDay returns how far the clock is through the current day:
// 0.0 is dawn, 0.25 noon, 0.5 dusk, 0.75 midnight.
func (c *Clock) FractionOfDay() float64 {
	d := c.ElapsedDays()
	return d - float64(int(d))
}

// IsNight reports whether the sun is down: the half of the day between
// dusk and the following dawn.
func (c *Clock) IsNight() bool {
	return c.FractionOfDay() >= 0.5
}
