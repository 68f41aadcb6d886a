package water

import "fmt"

// DepthKind tags the three states a tile's water column can be in.
type DepthKind uint8

const (
	// Dry means the tile holds no water at all.
	Dry DepthKind = iota
	// Underground means all water fits within the soil's pore space.
	Underground
	// Flooded means water stands above the terrain surface.
	Flooded
)

// Depth is the derived water depth of a tile. It is recomputed from volume,
// terrain height, and soil capacity; never mutated directly.
//
// For Underground, Value is the depth of the water table below the terrain
// surface. For Flooded, Value is the height of the standing water above the
// surface. For Dry, Value is zero.
type Depth struct {
	Kind  DepthKind
	Value float64
}

// ResolveDepth computes the depth state for a tile. All inputs must already
// be clamped non-negative; violating that is a contract failure and panics.
//
// Soil capacity is the fraction of the terrain height that can hold
// subsurface water, so a volume V occupies V/capacity of apparent wetted
// column: lower capacity makes the same volume fill more of the soil.
func ResolveDepth(volume, terrainHeight, soilCapacity float64) Depth {
	if volume < 0 {
		panic(fmt.Sprintf("water: negative volume %v", volume))
	}
	if terrainHeight < 0 {
		panic(fmt.Sprintf("water: negative terrain height %v", terrainHeight))
	}
	if soilCapacity < 0 || soilCapacity > 1 {
		panic(fmt.Sprintf("water: soil capacity %v out of [0,1]", soilCapacity))
	}

	if volume == 0 {
		return Depth{Kind: Dry}
	}

	maxStorable := terrainHeight * soilCapacity
	if volume <= maxStorable {
		soilColumn := volume / soilCapacity
		return Depth{Kind: Underground, Value: terrainHeight - soilColumn}
	}

	return Depth{Kind: Flooded, Value: volume - maxStorable}
}

// SurfaceHeight returns the height of the tile's exposed surface: the
// terrain height, plus the standing water when flooded.
func (d Depth) SurfaceHeight(terrainHeight float64) float64 {
	if d.Kind == Flooded {
		return terrainHeight + d.Value
	}
	return terrainHeight
}

// WaterTableHeight returns the absolute height of the water table. Dry
// tiles report zero, matching the limit of Underground as volume goes to
// zero on bedrock.
func (d Depth) WaterTableHeight(terrainHeight float64) float64 {
	switch d.Kind {
	case Underground:
		return terrainHeight - d.Value
	case Flooded:
		return terrainHeight + d.Value
	default:
		return 0
	}
}

// SurfaceWaterDepth returns the height of standing water, or zero when the
// tile is not flooded.
func (d Depth) SurfaceWaterDepth() float64 {
	if d.Kind == Flooded {
		return d.Value
	}
	return 0
}

// String returns a human-readable description of the depth state.
func (d Depth) String() string {
	switch d.Kind {
	case Dry:
		return "Dry"
	case Underground:
		return fmt.Sprintf("Underground(%.3f)", d.Value)
	case Flooded:
		return fmt.Sprintf("Flooded(%.3f)", d.Value)
	default:
		return "Unknown"
	}
}
