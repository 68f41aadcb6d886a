package water

import "math"

// Ocean is the single global state of the infinite reservoir surrounding
// the map. Its height is recomputed each tick from elapsed in-game time.
type Ocean struct {
	// Height is the current tide-driven water level of the ocean.
	Height float64 `json:"height"`
}

// tideHeight computes the ocean height for the given elapsed time, in
// in-game days. The sine term has range [-1, 1], so the amplitude is added
// once before it to keep the lowest tide at exactly the configured minimum.
func tideHeight(elapsedDays float64, settings TideSettings) float64 {
	if settings.Period == 0 {
		return settings.Minimum
	}
	scaled := elapsedDays * 2 * math.Pi / settings.Period
	return settings.Minimum + settings.Amplitude + settings.Amplitude*math.Sin(scaled)
}

// updateTide recomputes the ocean height from elapsed in-game time.
func (t *Table) updateTide(elapsedDays float64, cfg Config) {
	t.ocean.Height = tideHeight(elapsedDays, cfg.Tide)
}
