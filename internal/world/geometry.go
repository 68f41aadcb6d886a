package world

import "fmt"

// MaxHeight is the terrain height ceiling. Heights are clamped to
// [0, MaxHeight] when set.
const MaxHeight = 255.0

// Neighbor identifies one of the six adjacent positions of a tile: either
// another valid tile (by index) or the ocean boundary for positions that
// fall outside the map radius.
type Neighbor struct {
	Index int  // index into the tile arena; meaningless when Ocean is true
	Ocean bool // true when the adjacent position is off the map
}

// SoilProfile holds the per-tile soil coefficients, fixed at world
// generation time.
type SoilProfile struct {
	// Capacity is the fraction of a tile's height that can hold subsurface
	// water before flooding begins.
	Capacity float64 `json:"capacity"`
	// EvaporationRate scales evaporation while water is subsurface.
	EvaporationRate float64 `json:"evaporation_rate"`
	// FlowRate scales lateral flow while water is subsurface. Surface water
	// always flows at rate 1.
	FlowRate float64 `json:"flow_rate"`
}

// DefaultSoil returns the baseline soil coefficients.
func DefaultSoil() SoilProfile {
	return SoilProfile{
		Capacity:        0.5,
		EvaporationRate: 0.5,
		FlowRate:        0.5,
	}
}

// Geometry holds the hex map shape: the set of valid tiles, their terrain
// heights, precomputed adjacency, and the ring of off-map coordinates that
// form the ocean boundary. It is read-only during a simulation tick.
type Geometry struct {
	Radius int

	tiles     []HexCoord
	index     map[HexCoord]int
	heights   []float64
	neighbors [][6]Neighbor
	oceanRing []HexCoord
}

// NewGeometry creates a map of the given radius with all heights zero.
// A hex grid of radius R contains tiles where max(|q|, |r|, |s|) <= R.
func NewGeometry(radius int) *Geometry {
	g := &Geometry{
		Radius: radius,
		index:  make(map[HexCoord]int),
	}

	for q := -radius; q <= radius; q++ {
		for r := -radius; r <= radius; r++ {
			coord := HexCoord{Q: q, R: r}
			if coord.RingDistance() > radius {
				continue
			}
			g.index[coord] = len(g.tiles)
			g.tiles = append(g.tiles, coord)
		}
	}
	g.heights = make([]float64, len(g.tiles))

	// Precompute adjacency. Off-map positions become ocean neighbors.
	g.neighbors = make([][6]Neighbor, len(g.tiles))
	for i, coord := range g.tiles {
		for d, n := range coord.Neighbors() {
			if j, ok := g.index[n]; ok {
				g.neighbors[i][d] = Neighbor{Index: j}
			} else {
				g.neighbors[i][d] = Neighbor{Ocean: true}
			}
		}
	}

	// The ocean ring is the set of coordinates exactly one step outside the
	// map radius.
	outer := radius + 1
	for q := -outer; q <= outer; q++ {
		for r := -outer; r <= outer; r++ {
			coord := HexCoord{Q: q, R: r}
			if coord.RingDistance() == outer {
				g.oceanRing = append(g.oceanRing, coord)
			}
		}
	}

	return g
}

// IsValid returns true if the coordinate is a tile on the map.
func (g *Geometry) IsValid(coord HexCoord) bool {
	_, ok := g.index[coord]
	return ok
}

// TileIndex returns the arena index of the given coordinate.
func (g *Geometry) TileIndex(coord HexCoord) (int, bool) {
	i, ok := g.index[coord]
	return i, ok
}

// Tiles returns all valid tile coordinates in arena order.
func (g *Geometry) Tiles() []HexCoord {
	return g.tiles
}

// TileCount returns the number of valid tiles.
func (g *Geometry) TileCount() int {
	return len(g.tiles)
}

// Coord returns the coordinate of the tile at arena index i.
func (g *Geometry) Coord(i int) HexCoord {
	return g.tiles[i]
}

// HeightAt returns the terrain height of the tile at arena index i.
func (g *Geometry) HeightAt(i int) float64 {
	return g.heights[i]
}

// Height returns the terrain height at the given coordinate, or zero for
// off-map coordinates.
func (g *Geometry) Height(coord HexCoord) float64 {
	if i, ok := g.index[coord]; ok {
		return g.heights[i]
	}
	return 0
}

// SetHeight sets the terrain height at the given coordinate, clamped to
// [0, MaxHeight]. Setting heights mid-tick is not supported.
func (g *Geometry) SetHeight(coord HexCoord, height float64) {
	i, ok := g.index[coord]
	if !ok {
		return
	}
	if height < 0 {
		height = 0
	}
	if height > MaxHeight {
		height = MaxHeight
	}
	g.heights[i] = height
}

// NeighborsAt returns the six precomputed neighbors of the tile at arena
// index i.
func (g *Geometry) NeighborsAt(i int) [6]Neighbor {
	return g.neighbors[i]
}

// OceanRing returns the coordinates immediately outside the map radius.
func (g *Geometry) OceanRing() []HexCoord {
	return g.oceanRing
}

// String returns a summary of the geometry.
func (g *Geometry) String() string {
	return fmt.Sprintf("Geometry(radius=%d, tiles=%d)", g.Radius, len(g.tiles))
}
