// Package weather provides the daily weather state and its simulation
// modifiers.
package weather

import (
	"math/rand"

	"github.com/talgya/hexwater/internal/light"
)

// Weather is the current sky condition, rolled once per simulated day.
type Weather uint8

const (
	// Clear is a cloudless day.
	Clear Weather = iota
	// Cloudy is an overcast day.
	Cloudy
	// Rainy is a day of steady rain.
	Rainy
)

// precipitationFactors maps each weather state to its precipitation
// multiplier. Rainy is defined to be 1.0.
var precipitationFactors = [...]float64{
	Clear:  0.0,
	Cloudy: 0.0,
	Rainy:  1.0,
}

// daytimeLight maps each weather state to the illuminance it allows during
// the day.
var daytimeLight = [...]light.Illuminance{
	Clear:  light.BrightlyLit,
	Cloudy: light.DimlyLit,
	Rainy:  light.DimlyLit,
}

// PrecipitationFactor returns the precipitation multiplier for this weather.
func (w Weather) PrecipitationFactor() float64 {
	return precipitationFactors[w]
}

// DaytimeLight returns the illuminance this weather allows while the sun is
// up. Night is always light.Dark regardless of weather.
func (w Weather) DaytimeLight() light.Illuminance {
	return daytimeLight[w]
}

// Random picks a uniformly random weather state.
func Random(rng *rand.Rand) Weather {
	return Weather(rng.Intn(3))
}

// String returns a human-readable name for the weather state.
func (w Weather) String() string {
	switch w {
	case Clear:
		return "Clear"
	case Cloudy:
		return "Cloudy"
	case Rainy:
		return "Rainy"
	default:
		return "Unknown"
	}
}
