// Command hydrosim runs the hex-grid water table simulation.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/dustin/go-humanize"

	"github.com/talgya/hexwater/internal/api"
	"github.com/talgya/hexwater/internal/engine"
	"github.com/talgya/hexwater/internal/persistence"
	"github.com/talgya/hexwater/internal/water"
	"github.com/talgya/hexwater/internal/world"
)

func main() {
	radius := flag.Int("radius", 22, "hex map radius")
	seed := flag.Int64("seed", 42, "world generation seed")
	dbPath := flag.String("db", "data/hexwater.db", "path to the SQLite world database")
	apiPort := flag.Int("port", 8080, "HTTP API port")
	speed := flag.Float64("speed", 1.0, "simulation speed multiplier")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	// ── Database ──────────────────────────────────────────────────────
	os.MkdirAll("data", 0755)
	db, err := persistence.Open(*dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", *dbPath)

	// ── World ─────────────────────────────────────────────────────────
	var table *water.Table
	var startTick uint64
	var startSeconds float64

	if db.HasWorld() {
		slog.Info("found saved world, loading...", "world_id", db.WorldID())

		table, err = db.LoadWorld()
		if err != nil {
			slog.Error("failed to load world", "error", err)
			os.Exit(1)
		}

		if tickStr, err := db.GetMeta("tick"); err == nil {
			if t, err := strconv.ParseUint(tickStr, 10, 64); err == nil {
				startTick = t
			}
		}
		if secStr, err := db.GetMeta("elapsed_seconds"); err == nil {
			if s, err := strconv.ParseFloat(secStr, 64); err == nil {
				startSeconds = s
			}
		}

		slog.Info("world restored", "tick", startTick)
	} else {
		slog.Info("no saved world found, generating...")

		cfg := world.DefaultGenConfig()
		cfg.Radius = *radius
		cfg.Seed = *seed
		geo, soils := world.Generate(cfg)
		table = water.NewTable(geo, soils)

		// A spring at the summit keeps the interior wet between rains.
		waterCfg := water.InGameConfig()
		table.AddEmitter(highestTile(geo), waterCfg.EmissionPressure)
		table.Resync()

		slog.Info("world generated", "geometry", geo.String())
	}

	// ── Simulation ────────────────────────────────────────────────────
	cfg := water.InGameConfig()
	eng := engine.NewEngine(table, cfg, *seed)
	eng.Tick = startTick
	eng.Speed = *speed
	eng.Clock.SetElapsedSeconds(startSeconds)

	apiServer := &api.Server{Eng: eng, Port: *apiPort}
	apiServer.Start()

	// Stream state to observers and auto-save once per in-game day.
	ticksPerDay := uint64(eng.Clock.SecondsPerDay / eng.Clock.TickSeconds)
	eng.OnTick = func(tick uint64) {
		apiServer.Broadcast()
		if ticksPerDay > 0 && tick%ticksPerDay == 0 {
			if err := db.SaveWorld(table, tick, eng.Clock.ElapsedSeconds()); err != nil {
				slog.Error("daily save failed", "error", err)
			}
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		eng.Stop()
	}()

	fmt.Printf("Simulating %s tiles of water table.\n",
		humanize.Comma(int64(table.Geometry().TileCount())))
	fmt.Printf("API: http://localhost:%d/api/v1/status\n", *apiPort)
	fmt.Println("Starting simulation... (Ctrl+C to stop)")

	eng.Run()

	// Final save on shutdown.
	slog.Info("final save...")
	if err := db.SaveWorld(table, eng.Tick, eng.Clock.ElapsedSeconds()); err != nil {
		slog.Error("final save failed", "error", err)
	}

	fmt.Printf("Simulation stopped after %s ticks. World state saved.\n",
		humanize.Comma(int64(eng.Tick)))
}

// highestTile returns the coordinate of the tallest tile, breaking ties by
// arena order.
func highestTile(geo *world.Geometry) world.HexCoord {
	best := 0
	for i := 1; i < geo.TileCount(); i++ {
		if geo.HeightAt(i) > geo.HeightAt(best) {
			best = i
		}
	}
	return geo.Coord(best)
}
