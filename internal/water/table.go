package water

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/talgya/hexwater/internal/world"
)

// tileState holds the per-tile water fields. The Table is the sole writer;
// collaborators read through the accessors below and request removal via
// RemoveWater.
type tileState struct {
	volume   float64
	previous float64
	depth    Depth
	flow     mgl64.Vec2
	soil     world.SoilProfile
}

// Table is the arena of per-tile water state for one map, plus the ocean
// and the set of water emitters.
type Table struct {
	geo      *world.Geometry
	tiles    []tileState
	ocean    Ocean
	emitters []Emitter
}

// NewTable creates a water table for the given geometry with zero volume
// everywhere. soils must have one profile per tile (see world.Generate); a
// nil slice applies world.DefaultSoil to every tile.
func NewTable(geo *world.Geometry, soils []world.SoilProfile) *Table {
	if soils == nil {
		soils = world.UniformSoil(geo, world.DefaultSoil())
	}
	if len(soils) != geo.TileCount() {
		panic(fmt.Sprintf("water: %d soil profiles for %d tiles", len(soils), geo.TileCount()))
	}

	t := &Table{
		geo:   geo,
		tiles: make([]tileState, geo.TileCount()),
	}
	for i := range t.tiles {
		t.tiles[i].soil = soils[i]
		t.tiles[i].depth = Depth{Kind: Dry}
	}
	return t
}

// Geometry returns the map geometry this table is bound to.
func (t *Table) Geometry() *world.Geometry {
	return t.geo
}

// Ocean returns the current ocean state.
func (t *Table) Ocean() Ocean {
	return t.ocean
}

// Volume returns the water volume at the given coordinate, or zero for
// off-map coordinates.
func (t *Table) Volume(coord world.HexCoord) float64 {
	if i, ok := t.geo.TileIndex(coord); ok {
		return t.tiles[i].volume
	}
	return 0
}

// VolumeAt returns the water volume of the tile at arena index i.
func (t *Table) VolumeAt(i int) float64 {
	return t.tiles[i].volume
}

// Depth returns the derived depth state at the given coordinate. It is
// consistent with the tile's volume immediately after a depth resync; in
// between pipeline passes it may lag by design.
func (t *Table) Depth(coord world.HexCoord) Depth {
	if i, ok := t.geo.TileIndex(coord); ok {
		return t.tiles[i].depth
	}
	return Depth{Kind: Dry}
}

// DepthAt returns the derived depth state of the tile at arena index i.
func (t *Table) DepthAt(i int) Depth {
	return t.tiles[i].depth
}

// FlowVelocity returns the outward flow vector of the tile, recomputed each
// tick from the volumes actually transferred to its neighbors.
func (t *Table) FlowVelocity(coord world.HexCoord) mgl64.Vec2 {
	if i, ok := t.geo.TileIndex(coord); ok {
		return t.tiles[i].flow
	}
	return mgl64.Vec2{}
}

// NetFlux returns the change in volume since the previous tick. Positive
// means the tile gained water.
func (t *Table) NetFlux(coord world.HexCoord) float64 {
	if i, ok := t.geo.TileIndex(coord); ok {
		return t.tiles[i].volume - t.tiles[i].previous
	}
	return 0
}

// Soil returns the soil profile of the tile at the given coordinate.
func (t *Table) Soil(coord world.HexCoord) world.SoilProfile {
	if i, ok := t.geo.TileIndex(coord); ok {
		return t.tiles[i].soil
	}
	return world.DefaultSoil()
}

// SetVolume sets the volume of a tile directly. Intended for world setup
// and scenario construction, not for use during a tick.
func (t *Table) SetVolume(coord world.HexCoord, volume float64) {
	if volume < 0 {
		panic(fmt.Sprintf("water: negative volume %v", volume))
	}
	if i, ok := t.geo.TileIndex(coord); ok {
		t.tiles[i].volume = volume
	}
}

// AddWater adds volume to the tile at the given coordinate. The amount must
// be non-negative.
func (t *Table) AddWater(coord world.HexCoord, amount float64) {
	if i, ok := t.geo.TileIndex(coord); ok {
		t.addAt(i, amount)
	}
}

func (t *Table) addAt(i int, amount float64) {
	if amount < 0 {
		panic(fmt.Sprintf("water: negative amount %v", amount))
	}
	t.tiles[i].volume += amount
}

// RemoveWater removes up to amount of water from the tile and returns how
// much was actually removed. Removing more than is present clamps to zero;
// this is the one operation that partially fails gracefully, since callers
// like evaporation routinely overdraw nearly-dry tiles.
func (t *Table) RemoveWater(coord world.HexCoord, amount float64) float64 {
	if i, ok := t.geo.TileIndex(coord); ok {
		return t.removeAt(i, amount)
	}
	return 0
}

func (t *Table) removeAt(i int, amount float64) float64 {
	if amount < 0 {
		panic(fmt.Sprintf("water: negative amount %v", amount))
	}
	removed := amount
	if removed > t.tiles[i].volume {
		removed = t.tiles[i].volume
	}
	t.tiles[i].volume -= removed
	return removed
}

// TotalVolume returns the sum of water volume across all tiles.
func (t *Table) TotalVolume() float64 {
	total := 0.0
	for i := range t.tiles {
		total += t.tiles[i].volume
	}
	return total
}

// AverageWaterHeight returns the mean water-table height across the map.
func (t *Table) AverageWaterHeight() float64 {
	if len(t.tiles) == 0 {
		return 0
	}
	total := 0.0
	for i := range t.tiles {
		total += t.waterHeightAt(i)
	}
	return total / float64(len(t.tiles))
}

// WaterTableHeight returns the water-table height at the given coordinate.
func (t *Table) WaterTableHeight(coord world.HexCoord) float64 {
	if i, ok := t.geo.TileIndex(coord); ok {
		return t.waterHeightAt(i)
	}
	return 0
}

// waterHeightAt reads the water-table height through the cached depth. The
// depth must have been resynced since the last volume change for this to be
// accurate.
func (t *Table) waterHeightAt(i int) float64 {
	return t.tiles[i].depth.WaterTableHeight(t.geo.HeightAt(i))
}

// Resync recomputes derived depth for every tile. The tick pipeline does
// this on its own; setup paths that set volumes directly call it once after
// construction.
func (t *Table) Resync() {
	t.resyncDepths()
}

// resyncDepths recomputes every tile's derived depth from its current
// volume.
func (t *Table) resyncDepths() {
	for i := range t.tiles {
		t.tiles[i].depth = ResolveDepth(t.tiles[i].volume, t.geo.HeightAt(i), t.tiles[i].soil.Capacity)
	}
}

// cachePreviousVolumes snapshots each tile's volume for NetFlux.
func (t *Table) cachePreviousVolumes() {
	for i := range t.tiles {
		t.tiles[i].previous = t.tiles[i].volume
	}
}
