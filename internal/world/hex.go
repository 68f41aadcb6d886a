// Package world provides the hex grid, terrain heights, and spatial data
// structures consumed by the water engine.
// Uses axial coordinates (q, r) for the hex grid.
package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// HexCoord represents a position on the hex grid using axial coordinates.
// The third cube coordinate s is derived: s = -q - r.
type HexCoord struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// S returns the implicit third cube coordinate.
func (h HexCoord) S() int {
	return -h.Q - h.R
}

// HexNeighborDirections defines the six neighbor offsets in axial coordinates.
var HexNeighborDirections = [6]HexCoord{
	{Q: 1, R: 0},
	{Q: 1, R: -1},
	{Q: 0, R: -1},
	{Q: -1, R: 0},
	{Q: -1, R: 1},
	{Q: 0, R: 1},
}

// hexDirectionVectors holds the unit vector in the world plane for each of
// the six neighbor directions, using the same axial-to-cartesian projection
// as terrain generation: x = q + r/2, y = r * sqrt(3)/2.
var hexDirectionVectors [6]mgl64.Vec2

func init() {
	for i, dir := range HexNeighborDirections {
		x := float64(dir.Q) + float64(dir.R)*0.5
		y := float64(dir.R) * math.Sqrt(3.0) / 2.0
		hexDirectionVectors[i] = mgl64.Vec2{x, y}.Normalize()
	}
}

// DirectionVector returns the unit vector in the world plane for neighbor
// direction i, matching the ordering of HexNeighborDirections.
func DirectionVector(i int) mgl64.Vec2 {
	return hexDirectionVectors[i]
}

// Neighbors returns the six adjacent hex coordinates.
func (h HexCoord) Neighbors() [6]HexCoord {
	var result [6]HexCoord
	for i, dir := range HexNeighborDirections {
		result[i] = HexCoord{Q: h.Q + dir.Q, R: h.R + dir.R}
	}
	return result
}

// ToWorld projects the hex center into continuous world-plane coordinates.
func (h HexCoord) ToWorld() mgl64.Vec2 {
	x := float64(h.Q) + float64(h.R)*0.5
	y := float64(h.R) * math.Sqrt(3.0) / 2.0
	return mgl64.Vec2{x, y}
}

// RingDistance returns the hex distance of the coordinate from the origin.
func (h HexCoord) RingDistance() int {
	return Distance(HexCoord{}, h)
}

// Distance returns the hex distance between two coordinates.
func Distance(a, b HexCoord) int {
	dq := a.Q - b.Q
	dr := a.R - b.R
	ds := a.S() - b.S()
	if dq < 0 {
		dq = -dq
	}
	if dr < 0 {
		dr = -dr
	}
	if ds < 0 {
		ds = -ds
	}
	// Max of the three absolute differences in cube coordinates.
	max := dq
	if dr > max {
		max = dr
	}
	if ds > max {
		max = ds
	}
	return max
}
