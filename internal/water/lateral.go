package water

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/talgya/hexwater/internal/world"
)

// lateralFlow computes the volume that should move from side A to side B in
// one tick, given the pairwise water-table gradient.
//
// The rate is halved because the same pair is evaluated symmetrically from
// each side of the per-tile loop; halving keeps the total consistent with a
// single bidirectional exchange.
func lateralFlow(baseRate, soilRateA, soilRateB, heightA, heightB, waterHeightA, waterHeightB float64) float64 {
	assertNonNegative("base rate", baseRate)
	assertNonNegative("soil rate A", soilRateA)
	assertNonNegative("soil rate B", soilRateB)
	assertNonNegative("height A", heightA)
	assertNonNegative("height B", heightB)
	assertNonNegative("water height A", waterHeightA)
	assertNonNegative("water height B", waterHeightB)

	delta := waterHeightA - waterHeightB

	// Water never flows uphill relative to the water table, even when raw
	// volumes would suggest otherwise.
	if delta <= 0 {
		return 0
	}

	surfaceA := waterHeightA > heightA
	surfaceB := waterHeightB > heightB

	// Water moves more easily between two bodies of open water than
	// through soil.
	var medium float64
	switch {
	case surfaceA && surfaceB:
		medium = 1.0
	case !surfaceA && !surfaceB:
		medium = (soilRateA + soilRateB) / 2
	case surfaceA:
		medium = (1.0 + soilRateB) / 2
	default:
		medium = (1.0 + soilRateA) / 2
	}

	return delta * medium * baseRate / 2
}

func assertNonNegative(name string, v float64) {
	if v < 0 {
		panic(fmt.Sprintf("water: negative %s: %v", name, v))
	}
}

// volumeAtWaterHeight returns the volume the tile at arena index i holds
// when its water table sits at the given height: soil storage up to the
// terrain surface, open water above it. The inverse of ResolveDepth's
// volume-to-height mapping.
func (t *Table) volumeAtWaterHeight(i int, waterHeight float64) float64 {
	height := t.geo.HeightAt(i)
	capacity := t.tiles[i].soil.Capacity
	if waterHeight <= height {
		return waterHeight * capacity
	}
	return height*capacity + (waterHeight - height)
}

// volumeForDrawdown returns the volume to remove from the tile at arena
// index i to lower its water table by dh, crossing the flooding boundary
// piecewise.
func (t *Table) volumeForDrawdown(i int, dh float64) float64 {
	waterHeight := t.waterHeightAt(i)
	target := waterHeight - dh
	if target < 0 {
		target = 0
	}
	return t.volumeAtWaterHeight(i, waterHeight) - t.volumeAtWaterHeight(i, target)
}

// volumeForRise returns the volume to add to the tile at arena index i to
// raise its water table by dh.
func (t *Table) volumeForRise(i int, dh float64) float64 {
	waterHeight := t.waterHeightAt(i)
	return t.volumeAtWaterHeight(i, waterHeight+dh) - t.volumeAtWaterHeight(i, waterHeight)
}

// flowLaterally redistributes water between neighboring tiles, and between
// boundary tiles and the ocean, proportional to water-table height
// differences.
//
// The pass is two-phase: transfers for every tile are computed against the
// state snapshot from the start of the pass and accumulated into per-tile
// addition/removal ledgers, which are applied together afterward. Each pair
// moves at most a seventh of its height gap, counted in real volume on both
// sides of the pair, so a tile exchanging with all six neighbors at once
// can neither drop below nor rise above any of them within one tick: the
// map's water-table extremes only ever contract, at any flow rate.
func (t *Table) flowLaterally(baseRate float64, cfg Config) {
	n := len(t.tiles)
	additions := make([]float64, n)
	removals := make([]float64, n)

	for i := range t.tiles {
		t.tiles[i].flow = mgl64.Vec2{}

		available := t.tiles[i].volume
		if available <= 0 {
			continue
		}

		height := t.geo.HeightAt(i)
		waterHeight := t.waterHeightAt(i)
		soil := t.tiles[i].soil
		neighbors := t.geo.NeighborsAt(i)

		var outflow [6]float64
		total := 0.0
		totalShare := 0.0

		for d, nb := range neighbors {
			var nbHeight, nbWaterHeight, nbSoilRate float64
			if nb.Ocean {
				if !cfg.EnableOceans {
					continue
				}
				// The ocean is open water over a floor at height zero.
				nbHeight = 0
				nbWaterHeight = t.ocean.Height
				nbSoilRate = 1.0
			} else {
				nbHeight = t.geo.HeightAt(nb.Index)
				nbWaterHeight = t.waterHeightAt(nb.Index)
				nbSoilRate = t.tiles[nb.Index].soil.FlowRate
			}

			delta := waterHeight - nbWaterHeight
			if delta <= 0 {
				continue
			}

			amount := lateralFlow(
				baseRate, soil.FlowRate, nbSoilRate,
				height, nbHeight,
				waterHeight, nbWaterHeight,
			)

			// The gap is shared as if the tile and its six neighbors split
			// it equally, so neither side of the pair moves more than a
			// seventh of the gap in one tick. The receiving side caps each
			// pair on its own; the sending side is capped in aggregate
			// below, since six independent drawdowns would each count the
			// cheap standing-water segment of the column once.
			share := delta / 7
			totalShare += share
			if nb.Ocean {
				if limit := t.volumeForDrawdown(i, share); amount > limit {
					amount = limit
				}
			} else {
				if limit := t.volumeForRise(nb.Index, share); amount > limit {
					amount = limit
				}
			}

			outflow[d] = amount
			total += amount
		}

		if total <= 0 {
			continue
		}

		// The tile's combined outflow may not lower its table by more than
		// the summed pair shares, and never past what it holds.
		allowed := t.volumeForDrawdown(i, totalShare)
		if allowed > available {
			allowed = available
		}
		scale := 1.0
		if total > allowed {
			scale = allowed / total
		}

		for d, nb := range neighbors {
			amount := outflow[d] * scale
			if amount <= 0 {
				continue
			}
			removals[i] += amount
			if !nb.Ocean {
				additions[nb.Index] += amount
			}
			// Ocean-bound water leaves the map; the reservoir is infinite
			// and is not credited.

			t.tiles[i].flow = t.tiles[i].flow.Add(world.DirectionVector(d).Mul(amount))
		}
	}

	// Inbound flow from the ocean into shore tiles. The ocean is never
	// decremented.
	if cfg.EnableOceans {
		for _, ring := range t.geo.OceanRing() {
			for _, coord := range ring.Neighbors() {
				i, ok := t.geo.TileIndex(coord)
				if !ok {
					continue
				}
				delta := t.ocean.Height - t.waterHeightAt(i)
				if delta <= 0 {
					continue
				}
				inflow := lateralFlow(
					baseRate, 1.0, t.tiles[i].soil.FlowRate,
					0, t.geo.HeightAt(i),
					t.ocean.Height, t.waterHeightAt(i),
				)
				if limit := t.volumeForRise(i, delta/7); inflow > limit {
					inflow = limit
				}
				additions[i] += inflow
			}
		}
	}

	for i := range t.tiles {
		t.tiles[i].volume += additions[i]
		t.tiles[i].volume -= removals[i]
		// Removals were scaled against the tile's available volume, so any
		// negative residue is floating-point noise.
		if t.tiles[i].volume < 0 {
			t.tiles[i].volume = 0
		}
	}
}
