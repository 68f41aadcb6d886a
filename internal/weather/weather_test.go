package weather

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talgya/hexwater/internal/light"
)

func TestPrecipitationFactor(t *testing.T) {
	assert.Equal(t, 0.0, Clear.PrecipitationFactor())
	assert.Equal(t, 0.0, Cloudy.PrecipitationFactor())
	assert.Equal(t, 1.0, Rainy.PrecipitationFactor())
}

func TestDaytimeLight(t *testing.T) {
	assert.Equal(t, light.BrightlyLit, Clear.DaytimeLight())
	assert.Equal(t, light.DimlyLit, Cloudy.DaytimeLight())
	assert.Equal(t, light.DimlyLit, Rainy.DaytimeLight())
}

func TestRandomCoversAllStates(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	seen := make(map[Weather]bool)
	for i := 0; i < 100; i++ {
		w := Random(rng)
		assert.LessOrEqual(t, w, Rainy)
		seen[w] = true
	}
	assert.Len(t, seen, 3)
}

func TestString(t *testing.T) {
	assert.Equal(t, "Clear", Clear.String())
	assert.Equal(t, "Cloudy", Cloudy.String())
	assert.Equal(t, "Rainy", Rainy.String())
}
