package water

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/hexwater/internal/light"
	"github.com/talgya/hexwater/internal/weather"
	"github.com/talgya/hexwater/internal/world"
)

// The smallest amount of water that these tests care about.
const epsilon = 0.001

// mapShape controls the terrain of a test map.
type mapShape int

const (
	shapeBedrock mapShape = iota // flat at height 0
	shapeFlat                    // flat at height 1
	shapeSloped                  // rises along the q axis
	shapeBumpy                   // random heights in [0, 1)
)

var mapShapes = []mapShape{shapeBedrock, shapeFlat, shapeSloped, shapeBumpy}

func (s mapShape) String() string {
	return [...]string{"Bedrock", "Flat", "Sloped", "Bumpy"}[s]
}

func (s mapShape) build(radius int) *world.Geometry {
	geo := world.NewGeometry(radius)
	rng := rand.New(rand.NewSource(9))
	for _, coord := range geo.Tiles() {
		var height float64
		switch s {
		case shapeBedrock:
			height = 0
		case shapeFlat:
			height = 1
		case shapeSloped:
			if coord.Q > 0 {
				height = float64(coord.Q)
			}
		case shapeBumpy:
			height = rng.Float64()
		}
		geo.SetHeight(coord, height)
	}
	return geo
}

// waterStrategy controls the initial water level of a test map.
type waterStrategy int

const (
	strategyDry waterStrategy = iota
	strategyDepthHalf
	strategyDepthOne
	strategySaturated
	strategyFlooded
)

var waterStrategies = []waterStrategy{
	strategyDry, strategyDepthHalf, strategyDepthOne, strategySaturated, strategyFlooded,
}

func (s waterStrategy) String() string {
	return [...]string{"Dry", "DepthHalf", "DepthOne", "Saturated", "Flooded"}[s]
}

func (s waterStrategy) startingVolume(height float64) float64 {
	switch s {
	case strategyDry:
		return 0
	case strategyDepthHalf:
		return 0.5
	case strategyDepthOne:
		return 1
	case strategySaturated:
		return height
	default:
		return height + 1
	}
}

var mapRadii = []int{0, 3}

// scenario is one configuration of the water testing grid.
type scenario struct {
	cfg      Config
	radius   int
	shape    mapShape
	strategy waterStrategy
	weather  weather.Weather
	light    light.Illuminance
	ticks    int
}

func (sc scenario) String() string {
	return fmt.Sprintf("radius=%d shape=%s strategy=%s weather=%s ticks=%d",
		sc.radius, sc.shape, sc.strategy, sc.weather, sc.ticks)
}

// run builds the scenario's water table and advances it tick by tick, one
// simulated second per tick with a 60-second day.
func (sc scenario) run(t *testing.T) *Table {
	t.Helper()
	table := sc.build(t)
	for i := 0; i < sc.ticks; i++ {
		table.Tick(sc.cfg, TickInput{
			ElapsedSeconds: 1,
			SecondsPerDay:  60,
			ElapsedDays:    float64(i+1) / 60,
			Weather:        sc.weather,
			Light:          sc.light,
		})
	}
	return table
}

func (sc scenario) build(t *testing.T) *Table {
	t.Helper()
	geo := sc.shape.build(sc.radius)
	table := NewTable(geo, nil)
	for _, coord := range geo.Tiles() {
		table.SetVolume(coord, sc.strategy.startingVolume(geo.Height(coord)))
	}
	table.Resync()
	return table
}

// forEachScenario runs fn over the full grid of map radii, shapes, and
// initial water strategies.
func forEachScenario(t *testing.T, base scenario, fn func(t *testing.T, sc scenario)) {
	for _, radius := range mapRadii {
		for _, shape := range mapShapes {
			for _, strategy := range waterStrategies {
				sc := base
				sc.radius = radius
				sc.shape = shape
				sc.strategy = strategy
				t.Run(sc.String(), func(t *testing.T) {
					fn(t, sc)
				})
			}
		}
	}
}

func TestDoingNothingConservesWater(t *testing.T) {
	base := scenario{cfg: NullConfig(), weather: weather.Clear, light: light.BrightlyLit, ticks: 3}
	forEachScenario(t, base, func(t *testing.T, sc scenario) {
		table := sc.build(t)
		before := table.TotalVolume()

		for i := 0; i < sc.ticks; i++ {
			table.Tick(sc.cfg, TickInput{ElapsedSeconds: 1, SecondsPerDay: 60, Weather: sc.weather, Light: sc.light})
		}

		// A fully inert config must not move a single bit of water.
		assert.Equal(t, before, table.TotalVolume(), "in %s", sc)
	})
}

func TestLateralFlowConservesWater(t *testing.T) {
	cfg := NullConfig()
	cfg.LateralFlowRate = 1.0

	base := scenario{cfg: cfg, weather: weather.Clear, light: light.BrightlyLit, ticks: 5}
	forEachScenario(t, base, func(t *testing.T, sc scenario) {
		table := sc.build(t)
		before := table.TotalVolume()
		table = sc.run(t)

		assert.InDelta(t, before, table.TotalVolume(), epsilon, "in %s", sc)
	})
}

func TestExtremelyHighLateralFlowConservesWater(t *testing.T) {
	cfg := NullConfig()
	cfg.LateralFlowRate = 9001.0

	base := scenario{cfg: cfg, weather: weather.Clear, light: light.BrightlyLit, ticks: 5}
	forEachScenario(t, base, func(t *testing.T, sc scenario) {
		table := sc.build(t)
		before := table.TotalVolume()
		table = sc.run(t)

		assert.InDelta(t, before, table.TotalVolume(), epsilon, "in %s", sc)
	})
}

func TestExtremelyHighLateralFlowIsStable(t *testing.T) {
	cfg := NullConfig()
	cfg.LateralFlowRate = 9001.0

	base := scenario{cfg: cfg, weather: weather.Clear, light: light.BrightlyLit, ticks: 20}
	forEachScenario(t, base, func(t *testing.T, sc scenario) {
		table := sc.build(t)

		envelope := func() (float64, float64) {
			low := math.Inf(1)
			high := math.Inf(-1)
			for _, coord := range table.Geometry().Tiles() {
				wh := table.WaterTableHeight(coord)
				low = math.Min(low, wh)
				high = math.Max(high, wh)
			}
			return low, high
		}

		low, high := envelope()
		spread := high - low
		for i := 0; i < sc.ticks; i++ {
			table.Tick(sc.cfg, TickInput{ElapsedSeconds: 1, SecondsPerDay: 60})

			// Water-table extremes may only contract, no matter how hard
			// the flow rate pushes; anything else is overshoot.
			newLow, newHigh := envelope()
			assert.GreaterOrEqual(t, newLow, low-epsilon, "tick %d in %s", i, sc)
			assert.LessOrEqual(t, newHigh, high+epsilon, "tick %d in %s", i, sc)
			newSpread := newHigh - newLow
			assert.LessOrEqual(t, newSpread, spread+epsilon, "tick %d in %s", i, sc)
			low, high, spread = newLow, newHigh, newSpread
		}
	})
}

func TestLateralFlowContinuesDownSlopes(t *testing.T) {
	cfg := NullConfig()
	cfg.LateralFlowRate = 1000.0

	// A mid-slope tile sits below the average of its surroundings when one
	// neighbor towers over it, but it must still pass water on to its lower
	// neighbors or the downhill front stalls.
	geo := world.NewGeometry(1)
	table := NewTable(geo, nil)
	mid := world.HexCoord{}
	table.SetVolume(mid, 1.0)
	table.SetVolume(world.HexCoord{Q: 1, R: 0}, 10.0)
	for _, coord := range []world.HexCoord{{Q: 1, R: -1}, {Q: 0, R: -1}, {Q: -1, R: 0}, {Q: -1, R: 1}, {Q: 0, R: 1}} {
		table.SetVolume(coord, 0.2)
	}
	table.Resync()

	table.Tick(cfg, TickInput{ElapsedSeconds: 1, SecondsPerDay: 60})

	assert.Greater(t, table.FlowVelocity(mid).Len(), 0.0,
		"mid-slope tile sent nothing downhill")
}

func TestEvaporationDecreasesWaterLevels(t *testing.T) {
	cfg := NullConfig()
	cfg.EvaporationRate = 1.0

	base := scenario{cfg: cfg, weather: weather.Clear, light: light.BrightlyLit, ticks: 1}
	forEachScenario(t, base, func(t *testing.T, sc scenario) {
		table := sc.run(t)

		for _, coord := range table.Geometry().Tiles() {
			starting := sc.strategy.startingVolume(table.Geometry().Height(coord))
			if starting > 0 {
				assert.Less(t, table.Volume(coord), starting,
					"tile %v did not lose water in %s", coord, sc)
			} else {
				assert.Equal(t, 0.0, table.Volume(coord),
					"tile %v invented water in %s", coord, sc)
			}
		}
	})
}

func TestPrecipitationIncreasesWaterLevels(t *testing.T) {
	cfg := NullConfig()
	cfg.PrecipitationRate = 1.0

	base := scenario{cfg: cfg, weather: weather.Rainy, light: light.DimlyLit, ticks: 1}
	forEachScenario(t, base, func(t *testing.T, sc scenario) {
		table := sc.run(t)

		for _, coord := range table.Geometry().Tiles() {
			starting := sc.strategy.startingVolume(table.Geometry().Height(coord))
			assert.Greater(t, table.Volume(coord), starting,
				"tile %v did not gain water in %s", coord, sc)
		}
	})
}

func TestEmissionIncreasesWaterLevels(t *testing.T) {
	cfg := NullConfig()
	cfg.EmissionRate = 1.0
	cfg.EmissionPressure = 1.0
	cfg.LateralFlowRate = 1000.0

	// A flooded start already stands above the emitter's pressure, which
	// shuts the emitter off; cover the strategies that leave headroom.
	strategies := []waterStrategy{strategyDry, strategyDepthHalf, strategyDepthOne, strategySaturated}

	for _, radius := range mapRadii {
		for _, strategy := range strategies {
			sc := scenario{
				cfg: cfg, radius: radius, shape: shapeFlat, strategy: strategy,
				weather: weather.Clear, light: light.BrightlyLit, ticks: 10,
			}
			t.Run(sc.String(), func(t *testing.T) {
				table := sc.build(t)
				table.AddEmitter(world.HexCoord{}, cfg.EmissionPressure)
				before := table.TotalVolume()

				for i := 0; i < sc.ticks; i++ {
					table.Tick(sc.cfg, TickInput{
						ElapsedSeconds: 1, SecondsPerDay: 60,
						Weather: sc.weather, Light: sc.light,
					})
				}

				assert.Greater(t, table.TotalVolume(), before, "in %s", sc)

				for _, coord := range table.Geometry().Tiles() {
					starting := sc.strategy.startingVolume(table.Geometry().Height(coord))
					assert.Greater(t, table.Volume(coord), starting,
						"emitted water did not reach tile %v in %s", coord, sc)
				}
			})
		}
	}
}

func TestEmissionStopsWhenFullyCovered(t *testing.T) {
	cfg := NullConfig()
	cfg.EmissionRate = 1.0
	cfg.EmissionPressure = 1.0

	// Start the single tile flooded well past the emitter's pressure.
	geo := world.NewGeometry(0)
	table := NewTable(geo, nil)
	table.SetVolume(world.HexCoord{}, 5.0)
	table.AddEmitter(world.HexCoord{}, cfg.EmissionPressure)
	table.Resync()

	before := table.TotalVolume()
	table.Tick(cfg, TickInput{ElapsedSeconds: 1, SecondsPerDay: 60})
	assert.Equal(t, before, table.TotalVolume())
}

func TestLateralFlowLevelsOutHill(t *testing.T) {
	cfg := NullConfig()
	cfg.LateralFlowRate = 1000.0

	sc := scenario{
		cfg: cfg, radius: 3, shape: shapeBedrock, strategy: strategyDepthOne,
		weather: weather.Clear, light: light.BrightlyLit, ticks: 25,
	}
	table := sc.build(t)
	table.AddWater(world.HexCoord{}, 1.0)
	table.Resync()

	for i := 0; i < sc.ticks; i++ {
		table.Tick(sc.cfg, TickInput{ElapsedSeconds: 1, SecondsPerDay: 60})
	}

	average := table.AverageWaterHeight()
	for _, coord := range table.Geometry().Tiles() {
		assert.InDelta(t, average, table.WaterTableHeight(coord), epsilon,
			"tile %v did not level out", coord)
	}
}

func TestLateralFlowLevelsOutValley(t *testing.T) {
	cfg := NullConfig()
	cfg.LateralFlowRate = 1000.0

	sc := scenario{
		cfg: cfg, radius: 3, shape: shapeBedrock, strategy: strategyDepthOne,
		weather: weather.Clear, light: light.BrightlyLit, ticks: 25,
	}
	table := sc.build(t)
	table.RemoveWater(world.HexCoord{}, 1.0)
	table.Resync()

	for i := 0; i < sc.ticks; i++ {
		table.Tick(sc.cfg, TickInput{ElapsedSeconds: 1, SecondsPerDay: 60})
	}

	average := table.AverageWaterHeight()
	for _, coord := range table.Geometry().Tiles() {
		assert.InDelta(t, average, table.WaterTableHeight(coord), epsilon,
			"tile %v did not level out", coord)
	}
}

func TestOceanActsAsInfiniteReservoir(t *testing.T) {
	// A dry single-tile map next to a constant-height ocean fills until
	// its water table matches the ocean; with oceans disabled it stays
	// bone dry forever.
	runScenario := func(enableOceans bool) *Table {
		cfg := NullConfig()
		cfg.LateralFlowRate = 1000.0
		cfg.EnableOceans = enableOceans
		cfg.Tide = TideSettings{Minimum: 2.0} // zero amplitude: constant height

		geo := world.NewGeometry(0)
		geo.SetHeight(world.HexCoord{}, 1.0)
		table := NewTable(geo, nil)
		table.Resync()

		for i := 0; i < 200; i++ {
			table.Tick(cfg, TickInput{
				ElapsedSeconds: 1, SecondsPerDay: 60,
				ElapsedDays: float64(i+1) / 60,
			})
		}
		return table
	}

	withOcean := runScenario(true)
	withoutOcean := runScenario(false)

	assert.Equal(t, 0.0, withoutOcean.Volume(world.HexCoord{}),
		"a sealed dry map must stay dry")

	require.Greater(t, withOcean.Volume(world.HexCoord{}), 0.0)
	assert.InDelta(t, 2.0, withOcean.WaterTableHeight(world.HexCoord{}), 0.01,
		"shore tile should stabilize at the ocean height")
}

func TestTideRangeAndPeriod(t *testing.T) {
	settings := TideSettings{Amplitude: 0.6, Period: 0.3, Minimum: 0.1}

	low := math.Inf(1)
	high := math.Inf(-1)
	for i := 0; i < 1000; i++ {
		h := tideHeight(float64(i)*0.001, settings)
		low = math.Min(low, h)
		high = math.Max(high, h)
	}

	assert.InDelta(t, settings.Minimum, low, 0.01, "lowest tide should touch the floor")
	assert.InDelta(t, settings.Minimum+2*settings.Amplitude, high, 0.01)

	// Periodic: one full period apart, same height.
	assert.InDelta(t, tideHeight(0.05, settings), tideHeight(0.05+settings.Period, settings), 1e-9)
}

func TestFlowVelocityPointsDownhill(t *testing.T) {
	cfg := NullConfig()
	cfg.LateralFlowRate = 100.0

	// A wet origin surrounded by dry tiles: all six outward transfers
	// cancel, but a wet tile next to a single dry neighbor must point at
	// that neighbor.
	geo := world.NewGeometry(1)
	table := NewTable(geo, nil)
	wet := world.HexCoord{Q: -1, R: 0}
	table.SetVolume(wet, 1.0)
	table.Resync()

	table.Tick(cfg, TickInput{ElapsedSeconds: 1, SecondsPerDay: 60})

	flow := table.FlowVelocity(wet)
	require.Greater(t, flow.Len(), 0.0, "wet tile should report outward flow")

	// The wet tile sits west of the origin; its dry neighbors are spread
	// to the east, so the aggregate flow must have a positive x component.
	assert.Greater(t, flow.X(), 0.0)

	// Tiles with no outflow report a zero vector.
	dryCorner := world.HexCoord{Q: 1, R: 0}
	assert.Equal(t, 0.0, table.FlowVelocity(dryCorner).Len())
}
