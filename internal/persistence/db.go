// Package persistence provides SQLite-based world state storage for the
// water simulation.
package persistence

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/hexwater/internal/water"
	"github.com/talgya/hexwater/internal/world"
)

// DB wraps a SQLite connection for world state persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS tiles (
		q INTEGER NOT NULL,
		r INTEGER NOT NULL,
		height REAL NOT NULL,
		soil_capacity REAL NOT NULL,
		soil_evaporation REAL NOT NULL,
		soil_flow REAL NOT NULL,
		volume REAL NOT NULL,
		PRIMARY KEY (q, r)
	);

	CREATE TABLE IF NOT EXISTS emitters (
		q INTEGER NOT NULL,
		r INTEGER NOT NULL,
		pressure REAL NOT NULL,
		PRIMARY KEY (q, r)
	);

	CREATE TABLE IF NOT EXISTS world_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// tileRow mirrors one row of the tiles table.
type tileRow struct {
	Q               int     `db:"q"`
	R               int     `db:"r"`
	Height          float64 `db:"height"`
	SoilCapacity    float64 `db:"soil_capacity"`
	SoilEvaporation float64 `db:"soil_evaporation"`
	SoilFlow        float64 `db:"soil_flow"`
	Volume          float64 `db:"volume"`
}

// SaveWorld writes the full world snapshot: geometry, soil, water volumes,
// emitters, and metadata (full replace).
func (db *DB) SaveWorld(table *water.Table, tick uint64, elapsedSeconds float64) error {
	geo := table.Geometry()

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM tiles"); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM emitters"); err != nil {
		return err
	}

	stmt, err := tx.PrepareNamed(`INSERT INTO tiles
		(q, r, height, soil_capacity, soil_evaporation, soil_flow, volume)
		VALUES (:q, :r, :height, :soil_capacity, :soil_evaporation, :soil_flow, :volume)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, coord := range geo.Tiles() {
		soil := table.Soil(coord)
		row := tileRow{
			Q:               coord.Q,
			R:               coord.R,
			Height:          geo.Height(coord),
			SoilCapacity:    soil.Capacity,
			SoilEvaporation: soil.EvaporationRate,
			SoilFlow:        soil.FlowRate,
			Volume:          table.Volume(coord),
		}
		if _, err := stmt.Exec(row); err != nil {
			return fmt.Errorf("save tile %v: %w", coord, err)
		}
	}

	for _, e := range table.Emitters() {
		if _, err := tx.Exec("INSERT INTO emitters (q, r, pressure) VALUES (?, ?, ?)",
			e.Tile.Q, e.Tile.R, e.Pressure); err != nil {
			return fmt.Errorf("save emitter %v: %w", e.Tile, err)
		}
	}

	meta := map[string]string{
		"radius":          strconv.Itoa(geo.Radius),
		"tick":            strconv.FormatUint(tick, 10),
		"elapsed_seconds": strconv.FormatFloat(elapsedSeconds, 'g', -1, 64),
	}
	for key, value := range meta {
		if _, err := tx.Exec(
			"INSERT INTO world_meta (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
			key, value); err != nil {
			return err
		}
	}

	// A stable world identifier, minted on first save.
	var existing string
	err = tx.Get(&existing, "SELECT value FROM world_meta WHERE key = 'world_id'")
	if err == sql.ErrNoRows {
		if _, err := tx.Exec("INSERT INTO world_meta (key, value) VALUES ('world_id', ?)",
			uuid.NewString()); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	slog.Debug("world saved", "tiles", geo.TileCount(), "tick", tick)
	return nil
}

// HasWorld reports whether the database contains a saved world.
func (db *DB) HasWorld() bool {
	var count int
	if err := db.conn.Get(&count, "SELECT COUNT(*) FROM tiles"); err != nil {
		return false
	}
	return count > 0
}

// LoadWorld restores the geometry and water table from a saved snapshot.
func (db *DB) LoadWorld() (*water.Table, error) {
	radiusStr, err := db.GetMeta("radius")
	if err != nil {
		return nil, fmt.Errorf("load radius: %w", err)
	}
	radius, err := strconv.Atoi(radiusStr)
	if err != nil {
		return nil, fmt.Errorf("parse radius: %w", err)
	}

	var rows []tileRow
	if err := db.conn.Select(&rows, "SELECT * FROM tiles"); err != nil {
		return nil, fmt.Errorf("load tiles: %w", err)
	}

	geo := world.NewGeometry(radius)
	soils := world.UniformSoil(geo, world.DefaultSoil())
	for _, row := range rows {
		coord := world.HexCoord{Q: row.Q, R: row.R}
		geo.SetHeight(coord, row.Height)
		if i, ok := geo.TileIndex(coord); ok {
			soils[i] = world.SoilProfile{
				Capacity:        row.SoilCapacity,
				EvaporationRate: row.SoilEvaporation,
				FlowRate:        row.SoilFlow,
			}
		}
	}

	table := water.NewTable(geo, soils)
	for _, row := range rows {
		table.SetVolume(world.HexCoord{Q: row.Q, R: row.R}, row.Volume)
	}
	table.Resync()

	type emitterRow struct {
		Q        int     `db:"q"`
		R        int     `db:"r"`
		Pressure float64 `db:"pressure"`
	}
	var emitters []emitterRow
	if err := db.conn.Select(&emitters, "SELECT * FROM emitters"); err != nil {
		return nil, fmt.Errorf("load emitters: %w", err)
	}
	for _, e := range emitters {
		table.AddEmitter(world.HexCoord{Q: e.Q, R: e.R}, e.Pressure)
	}

	slog.Info("world loaded", "tiles", len(rows), "emitters", len(emitters))
	return table, nil
}

// GetMeta reads a metadata value by key.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	if err := db.conn.Get(&value, "SELECT value FROM world_meta WHERE key = ?", key); err != nil {
		return "", err
	}
	return value, nil
}

// WorldID returns the stable identifier of the saved world, or empty if the
// world has never been saved.
func (db *DB) WorldID() string {
	id, err := db.GetMeta("world_id")
	if err != nil {
		return ""
	}
	return id
}
