package water

import (
	"github.com/talgya/hexwater/internal/light"
	"github.com/talgya/hexwater/internal/weather"
)

// TickInput carries the external state the water engine reads each tick:
// the clock conversion factors and the current weather and light, all
// supplied by collaborators.
type TickInput struct {
	// ElapsedSeconds is the simulated time covered by this tick.
	ElapsedSeconds float64
	// SecondsPerDay converts day-denominated rates to per-second rates.
	SecondsPerDay float64
	// ElapsedDays is the total simulated time so far, in days. Drives the
	// tides.
	ElapsedDays float64
	// Weather is the current sky condition.
	Weather weather.Weather
	// Light is the current illuminance level.
	Light light.Illuminance
	// Uptake, when non-nil, is invoked at the external-uptake slot of the
	// pipeline so collaborators such as root systems can draw water via
	// RemoveWater. The engine does not know who the consumers are.
	Uptake func(t *Table)
}

// tickDays returns the fraction of an in-game day covered by this tick.
func (in TickInput) tickDays() float64 {
	if in.SecondsPerDay == 0 {
		return 0
	}
	return in.ElapsedSeconds / in.SecondsPerDay
}

// perTick converts a per-day rate to this tick's amount.
func (in TickInput) perTick(ratePerDay float64) float64 {
	return ratePerDay * in.tickDays()
}

// Tick advances the water table by one simulation step. The pass order is
// fixed: cache previous volumes, tide, emission, precipitation, external
// uptake, evaporation, depth resync, lateral flow, depth resync.
//
// The first resync gives lateral flow a gradient that reflects the vertical
// flux just applied; the second publishes depth consistent with the final
// volumes to external readers.
func (t *Table) Tick(cfg Config, in TickInput) {
	t.cachePreviousVolumes()

	t.updateTide(in.ElapsedDays, cfg)
	t.emitWater(in.tickDays(), cfg)
	t.precipitate(in.perTick(cfg.PrecipitationRate), in.Weather)
	if in.Uptake != nil {
		in.Uptake(t)
	}
	t.evaporate(in.perTick(cfg.EvaporationRate), in.Light)

	t.resyncDepths()
	t.flowLaterally(in.perTick(cfg.LateralFlowRate), cfg)
	t.resyncDepths()
}
