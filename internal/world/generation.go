// Terrain generation using layered simplex noise.
// Produces a heightmap and per-tile soil coefficients for the water engine.
package world

import (
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// GenConfig holds terrain generation parameters.
type GenConfig struct {
	Radius     int     // Hex grid radius
	Seed       int64   // Random seed (0 = random)
	PeakHeight float64 // Tallest terrain on the map, in tile heights
	Shelf      float64 // Fraction of the radius over which land falls off toward the ocean
}

// DefaultGenConfig returns a reasonable starting configuration.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Radius:     22,
		Seed:       0,
		PeakHeight: 6.0,
		Shelf:      0.35,
	}
}

// SmallTestConfig returns a tiny world for rapid iteration.
func SmallTestConfig() GenConfig {
	return GenConfig{
		Radius:     5,
		Seed:       42,
		PeakHeight: 4.0,
		Shelf:      0.35,
	}
}

// Generate creates the map geometry and soil profiles for a new world.
// Soil profiles are indexed by tile arena index.
func Generate(cfg GenConfig) (*Geometry, []SoilProfile) {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}

	// Independent noise layers for elevation and soil character.
	elevNoise := opensimplex.NewNormalized(seed)
	soilNoise := opensimplex.NewNormalized(seed + 1)

	g := NewGeometry(cfg.Radius)
	soils := make([]SoilProfile, g.TileCount())

	for i, coord := range g.Tiles() {
		pos := coord.ToWorld()
		x, y := pos.X(), pos.Y()

		// Multi-octave noise for natural-looking terrain.
		elev := octaveNoise(elevNoise, x, y, 4, 0.08, 0.5)

		// Continental shaping: slope down toward the map edge so the
		// coastline meets the ocean ring.
		distFromCenter := math.Sqrt(x*x+y*y) / float64(cfg.Radius)
		edgeFalloff := (1.0 - distFromCenter) / cfg.Shelf
		if edgeFalloff > 1 {
			edgeFalloff = 1
		}
		if edgeFalloff < 0 {
			edgeFalloff = 0
		}

		g.SetHeight(coord, elev*cfg.PeakHeight*edgeFalloff)

		// Soil character varies smoothly across the map: sandier ground
		// holds less water but drains faster.
		sand := octaveNoise(soilNoise, x, y, 3, 0.06, 0.5)
		soils[i] = SoilProfile{
			Capacity:        0.3 + 0.4*(1.0-sand),
			EvaporationRate: 0.3 + 0.4*sand,
			FlowRate:        0.3 + 0.4*sand,
		}
	}

	return g, soils
}

// UniformSoil returns a soil slice with the same profile for every tile.
func UniformSoil(g *Geometry, profile SoilProfile) []SoilProfile {
	soils := make([]SoilProfile, g.TileCount())
	for i := range soils {
		soils[i] = profile
	}
	return soils
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}
