// Package water simulates the rise and fall of a per-tile water table over
// hexagonal terrain: vertical fluxes (rain, evaporation, springs, tides) and
// gravity-driven lateral redistribution between neighboring tiles, with an
// infinite tide-driven ocean at the map boundary.
package water

// TideSettings controls the periodic rise and fall of the ocean.
type TideSettings struct {
	// Amplitude is half the total tidal variation, in tile heights.
	Amplitude float64 `json:"amplitude"`
	// Period is the length of one full tidal cycle, in in-game days.
	Period float64 `json:"period"`
	// Minimum is the ocean height at the lowest tide.
	Minimum float64 `json:"minimum"`
}

// Config holds the global water simulation parameters. All rates are
// denominated per in-game day and converted to per-tick amounts through the
// simulation clock. The config is immutable during a run.
type Config struct {
	// EvaporationRate is the amount of water evaporated from open water per
	// day, in tile heights.
	EvaporationRate float64 `json:"evaporation_rate"`
	// PrecipitationRate is the amount of rainfall per day under full rain,
	// in tile heights.
	PrecipitationRate float64 `json:"precipitation_rate"`
	// EmissionRate is the volume a fully uncovered emitter produces per day
	// per unit of remaining pressure.
	EmissionRate float64 `json:"emission_rate"`
	// EmissionPressure is the standing-water height at which an emitter
	// stops producing.
	EmissionPressure float64 `json:"emission_pressure"`
	// ItemsPerTile converts between water items and tile volumes for
	// external inventory systems. Not used by the physics.
	ItemsPerTile float64 `json:"items_per_tile"`
	// LateralFlowRate controls how quickly water flows between tiles, per
	// day.
	LateralFlowRate float64 `json:"lateral_flow_rate"`
	// EnableOceans turns on the infinite ocean at the map boundary. When
	// disabled, off-map neighbors are ignored entirely.
	EnableOceans bool `json:"enable_oceans"`
	// Tide controls the ocean height over time.
	Tide TideSettings `json:"tide"`
}

// InGameConfig returns the fully active configuration used during play.
func InGameConfig() Config {
	return Config{
		EvaporationRate:   2.0,
		PrecipitationRate: 2.0,
		EmissionRate:      1e4,
		EmissionPressure:  1.0,
		ItemsPerTile:      50.0,
		LateralFlowRate:   1e4,
		EnableOceans:      true,
		Tide: TideSettings{
			Amplitude: 0.6,
			Period:    0.3,
			Minimum:   0.1,
		},
	}
}

// NullConfig returns a fully inert configuration: all rates zero and oceans
// disabled. Used to isolate individual behaviors in tests.
func NullConfig() Config {
	return Config{}
}

// ItemsToVolume converts a count of water items to a tile volume.
func (c Config) ItemsToVolume(items int) float64 {
	if c.ItemsPerTile == 0 {
		return 0
	}
	return float64(items) / c.ItemsPerTile
}

// VolumeToItems converts a tile volume to a whole number of water items,
// rounding down.
func (c Config) VolumeToItems(volume float64) int {
	return int(volume * c.ItemsPerTile)
}
