package water

import "github.com/talgya/hexwater/internal/world"

// Emitter is a point source that produces water from nothing, such as a
// spring. Production slows as standing water accumulates above it and stops
// entirely once the water reaches the emitter's pressure, which keeps
// springs from flooding indefinitely.
type Emitter struct {
	Tile world.HexCoord `json:"tile"`
	// Pressure is the standing-water height at which production stops.
	Pressure float64 `json:"pressure"`
}

// currentProduction computes the emitter's output in volume per day, given
// the standing water currently above it.
func (e Emitter) currentProduction(surfaceWaterDepth float64, cfg Config) float64 {
	if surfaceWaterDepth < 0 {
		panic("water: negative surface water depth")
	}
	remaining := e.Pressure - surfaceWaterDepth
	if remaining < 0 {
		remaining = 0
	}
	return remaining * cfg.EmissionRate
}

// maxProduction computes the emitter's output per day when fully uncovered.
func (e Emitter) maxProduction(cfg Config) float64 {
	return e.Pressure * cfg.EmissionRate
}

// AddEmitter registers a point source at the given tile. pressure is the
// standing-water height at which its production stops.
func (t *Table) AddEmitter(coord world.HexCoord, pressure float64) {
	t.emitters = append(t.emitters, Emitter{Tile: coord, Pressure: pressure})
}

// Emitters returns the registered point sources.
func (t *Table) Emitters() []Emitter {
	return t.emitters
}

// emitWater runs every registered emitter for one tick. elapsedDays is the
// fraction of an in-game day covered by this tick. Disabled by a zero
// emission rate.
func (t *Table) emitWater(elapsedDays float64, cfg Config) {
	if cfg.EmissionRate == 0 {
		return
	}
	for _, e := range t.emitters {
		i, ok := t.geo.TileIndex(e.Tile)
		if !ok {
			continue
		}
		standing := t.tiles[i].depth.SurfaceWaterDepth()
		t.addAt(i, e.currentProduction(standing, cfg)*elapsedDays)
	}
}
