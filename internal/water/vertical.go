package water

import (
	"github.com/talgya/hexwater/internal/light"
	"github.com/talgya/hexwater/internal/weather"
)

// precipitate adds rainfall uniformly across the map, scaled by the current
// weather's precipitation factor.
func (t *Table) precipitate(perTick float64, w weather.Weather) {
	amount := perTick * w.PrecipitationFactor()
	if amount <= 0 {
		return
	}
	for i := range t.tiles {
		t.addAt(i, amount)
	}
}

// evaporate removes water from every tile. Open water evaporates at the
// base rate scaled by light exposure; subsurface water is further slowed by
// the tile's soil evaporation multiplier.
func (t *Table) evaporate(perTick float64, lux light.Illuminance) {
	base := perTick * lux.EvaporationFactor()
	if base <= 0 {
		return
	}
	for i := range t.tiles {
		amount := base
		if t.tiles[i].depth.Kind != Flooded {
			amount *= t.tiles[i].soil.EvaporationRate
		}
		t.removeAt(i, amount)
	}
}
