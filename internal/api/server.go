// Package api provides the HTTP API for observing the water simulation.
// All endpoints are read-only; the simulation engine remains the sole
// writer of tile state.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/talgya/hexwater/internal/engine"
	"github.com/talgya/hexwater/internal/world"
)

// Server serves the water table state over HTTP and WebSocket.
type Server struct {
	Eng  *engine.Engine
	Port int

	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// TileState is the JSON shape of one tile's published water state.
type TileState struct {
	Coord        world.HexCoord `json:"coord"`
	Height       float64        `json:"height"`
	Volume       float64        `json:"volume"`
	Depth        string         `json:"depth"`
	SurfaceWater float64        `json:"surface_water"`
	NetFlux      float64        `json:"net_flux"`
	FlowX        float64        `json:"flow_x"`
	FlowY        float64        `json:"flow_y"`
}

// Status is the JSON shape of the summary endpoint.
type Status struct {
	Tick        uint64  `json:"tick"`
	ElapsedDays float64 `json:"elapsed_days"`
	Weather     string  `json:"weather"`
	Light       string  `json:"light"`
	OceanHeight float64 `json:"ocean_height"`
	TotalWater  float64 `json:"total_water"`
	TileCount   int     `json:"tile_count"`
}

// Start begins serving in a goroutine.
func (s *Server) Start() {
	s.clients = make(map[*websocket.Conn]struct{})
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}

	tilesLimiter := NewRateLimiter(60, time.Minute)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/tiles", RateLimitMiddleware(tilesLimiter, s.handleTiles))
	mux.HandleFunc("/api/v1/tile", s.handleTile)
	mux.HandleFunc("/ws", s.handleWebSocket)

	addr := fmt.Sprintf(":%d", s.Port)
	go func() {
		slog.Info("api server listening", "addr", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			slog.Error("api server stopped", "error", err)
		}
	}()
}

func (s *Server) status() Status {
	return Status{
		Tick:        s.Eng.Tick,
		ElapsedDays: s.Eng.Clock.ElapsedDays(),
		Weather:     s.Eng.Weather().String(),
		Light:       s.Eng.Light().String(),
		OceanHeight: s.Eng.Water.Ocean().Height,
		TotalWater:  s.Eng.Water.TotalVolume(),
		TileCount:   s.Eng.Water.Geometry().TileCount(),
	}
}

func (s *Server) tileState(coord world.HexCoord) TileState {
	table := s.Eng.Water
	depth := table.Depth(coord)
	flow := table.FlowVelocity(coord)
	return TileState{
		Coord:        coord,
		Height:       table.Geometry().Height(coord),
		Volume:       table.Volume(coord),
		Depth:        depth.String(),
		SurfaceWater: depth.SurfaceWaterDepth(),
		NetFlux:      table.NetFlux(coord),
		FlowX:        flow.X(),
		FlowY:        flow.Y(),
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.status())
}

func (s *Server) handleTiles(w http.ResponseWriter, r *http.Request) {
	geo := s.Eng.Water.Geometry()
	tiles := make([]TileState, 0, geo.TileCount())
	for _, coord := range geo.Tiles() {
		tiles = append(tiles, s.tileState(coord))
	}
	writeJSON(w, tiles)
}

func (s *Server) handleTile(w http.ResponseWriter, r *http.Request) {
	var coord world.HexCoord
	if _, err := fmt.Sscanf(r.URL.Query().Get("q"), "%d", &coord.Q); err != nil {
		http.Error(w, "bad q", http.StatusBadRequest)
		return
	}
	if _, err := fmt.Sscanf(r.URL.Query().Get("r"), "%d", &coord.R); err != nil {
		http.Error(w, "bad r", http.StatusBadRequest)
		return
	}
	if !s.Eng.Water.Geometry().IsValid(coord) {
		http.Error(w, "tile not found", http.StatusNotFound)
		return
	}
	writeJSON(w, s.tileState(coord))
}

// handleWebSocket upgrades the connection and registers it for per-tick
// status pushes.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}

	s.mu.Lock()
	s.clients[conn] = struct{}{}
	count := len(s.clients)
	s.mu.Unlock()
	slog.Info("websocket client connected", "clients", count)

	// Drain reads so we notice disconnects.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				s.dropClient(conn)
				return
			}
		}
	}()
}

func (s *Server) dropClient(conn *websocket.Conn) {
	s.mu.Lock()
	delete(s.clients, conn)
	s.mu.Unlock()
	conn.Close()
}

// Broadcast pushes the current status to all connected WebSocket clients.
// Called by the driver after each tick (or at whatever cadence it prefers).
func (s *Server) Broadcast() {
	status := s.status()
	payload, err := json.Marshal(status)
	if err != nil {
		return
	}

	s.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(s.clients))
	for conn := range s.clients {
		conns = append(conns, conn)
	}
	s.mu.Unlock()

	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			s.dropClient(conn)
		}
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("encode response", "error", err)
	}
}
