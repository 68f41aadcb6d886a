package engine

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/talgya/hexwater/internal/light"
	"github.com/talgya/hexwater/internal/water"
	"github.com/talgya/hexwater/internal/weather"
)

// Engine drives the water simulation forward tick by tick.
type Engine struct {
	Water  *water.Table
	Config water.Config
	Clock  *Clock

	Tick     uint64        // Current tick counter (monotonic, never resets)
	Speed    float64       // Multiplier: 1.0 = real-time, 0 = paused
	Interval time.Duration // Wall-clock time per tick (default 1 second)
	Running  bool

	// Uptake is forwarded to the water pipeline's external-uptake slot.
	Uptake func(t *water.Table)

	// OnTick, when set, runs after each completed tick.
	OnTick func(tick uint64)

	weather    weather.Weather
	weatherDay uint64
	rng        *rand.Rand
}

// NewEngine creates an engine over the given water table.
func NewEngine(table *water.Table, cfg water.Config, seed int64) *Engine {
	return &Engine{
		Water:    table,
		Config:   cfg,
		Clock:    NewClock(),
		Speed:    1.0,
		Interval: time.Second,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// Weather returns the current sky condition.
func (e *Engine) Weather() weather.Weather {
	return e.weather
}

// Light returns the current illuminance, derived from the time of day and
// the weather.
func (e *Engine) Light() light.Illuminance {
	if e.Clock.IsNight() {
		return light.Dark
	}
	return e.weather.DaytimeLight()
}

// Step advances the simulation by one tick.
func (e *Engine) Step() {
	e.Tick++
	e.Clock.Advance()

	// Roll new weather at the start of each in-game day.
	day := uint64(e.Clock.ElapsedDays())
	if day != e.weatherDay {
		e.weatherDay = day
		e.weather = weather.Random(e.rng)
		slog.Debug("weather changed", "day", day, "weather", e.weather)
	}

	e.Water.Tick(e.Config, water.TickInput{
		ElapsedSeconds: e.Clock.TickSeconds,
		SecondsPerDay:  e.Clock.SecondsPerDay,
		ElapsedDays:    e.Clock.ElapsedDays(),
		Weather:        e.weather,
		Light:          e.Light(),
		Uptake:         e.Uptake,
	})

	ticksPerDay := uint64(e.Clock.SecondsPerDay / e.Clock.TickSeconds)
	if ticksPerDay > 0 && e.Tick%ticksPerDay == 0 {
		slog.Info("daily report",
			"tick", e.Tick,
			"day", day,
			"weather", e.weather,
			"ocean_height", fmt.Sprintf("%.3f", e.Water.Ocean().Height),
			"total_water", fmt.Sprintf("%.3f", e.Water.TotalVolume()),
			"avg_water_height", fmt.Sprintf("%.3f", e.Water.AverageWaterHeight()),
		)
	}

	if e.OnTick != nil {
		e.OnTick(e.Tick)
	}
}

// Run starts the simulation loop. Blocks until Stop is called.
func (e *Engine) Run() {
	e.Running = true
	slog.Info("simulation engine started", "tick", e.Tick, "speed", e.Speed)

	for e.Running {
		if e.Speed <= 0 {
			// Paused. Sleep briefly and check again; a tick either runs to
			// completion or does not run at all.
			time.Sleep(100 * time.Millisecond)
			continue
		}

		start := time.Now()

		e.Step()

		// Sleep for the remainder of the tick interval, adjusted for speed.
		elapsed := time.Since(start)
		target := time.Duration(float64(e.Interval) / e.Speed)
		if elapsed < target {
			time.Sleep(target - elapsed)
		}
	}

	slog.Info("simulation engine stopped", "tick", e.Tick)
}

// Stop halts the simulation loop.
func (e *Engine) Stop() {
	e.Running = false
}
