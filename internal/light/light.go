// Package light provides the illuminance levels that modulate evaporation.
package light

// Illuminance describes how much light reaches a tile.
type Illuminance uint8

const (
	// Dark means no meaningful light, e.g. at night.
	Dark Illuminance = iota
	// DimlyLit means partial light, e.g. under cloud cover.
	DimlyLit
	// BrightlyLit means the full light of the sun.
	BrightlyLit
)

// evaporationFactors maps each illuminance level to its evaporation
// multiplier.
var evaporationFactors = [...]float64{
	Dark:        0.2,
	DimlyLit:    0.5,
	BrightlyLit: 1.0,
}

// EvaporationFactor returns the evaporation multiplier for this light level.
func (i Illuminance) EvaporationFactor() float64 {
	return evaporationFactors[i]
}

// String returns a human-readable name for the illuminance level.
func (i Illuminance) String() string {
	switch i {
	case Dark:
		return "Dark"
	case DimlyLit:
		return "Dimly Lit"
	case BrightlyLit:
		return "Brightly Lit"
	default:
		return "Unknown"
	}
}
