package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/hexwater/internal/engine"
	"github.com/talgya/hexwater/internal/water"
	"github.com/talgya/hexwater/internal/world"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	table := water.NewTable(world.NewGeometry(1), nil)
	table.SetVolume(world.HexCoord{}, 0.5)
	table.Resync()
	eng := engine.NewEngine(table, water.NullConfig(), 1)
	eng.Step()
	return &Server{Eng: eng}
}

func TestHandleStatus(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.handleStatus(rec, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var status Status
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&status))
	assert.Equal(t, uint64(1), status.Tick)
	assert.Equal(t, 7, status.TileCount)
	assert.InDelta(t, 0.5, status.TotalWater, 1e-12)
}

func TestHandleTiles(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.handleTiles(rec, httptest.NewRequest(http.MethodGet, "/api/v1/tiles", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var tiles []TileState
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&tiles))
	assert.Len(t, tiles, 7)
}

func TestHandleTile(t *testing.T) {
	s := newTestServer(t)

	t.Run("valid tile", func(t *testing.T) {
		rec := httptest.NewRecorder()
		s.handleTile(rec, httptest.NewRequest(http.MethodGet, "/api/v1/tile?q=0&r=0", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var tile TileState
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&tile))
		assert.Equal(t, world.HexCoord{}, tile.Coord)
		assert.InDelta(t, 0.5, tile.Volume, 1e-12)
	})

	t.Run("off-map tile", func(t *testing.T) {
		rec := httptest.NewRecorder()
		s.handleTile(rec, httptest.NewRequest(http.MethodGet, "/api/v1/tile?q=10&r=10", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed coordinates", func(t *testing.T) {
		rec := httptest.NewRecorder()
		s.handleTile(rec, httptest.NewRequest(http.MethodGet, "/api/v1/tile?q=abc&r=0", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
