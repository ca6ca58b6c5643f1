// Package sparring is a small reference decision service. It speaks the same
// protocol as any remote player and is good enough to make a match move.
package sparring

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/pthm-cable/tankarena/agent"
	"github.com/pthm-cable/tankarena/components"
	"github.com/pthm-cable/tankarena/control"
)

// wallClearance is how close a wall dead ahead may get before the tank turns.
const wallClearance = 40.0

type game struct {
	cycles int
}

// Server tracks the matches it has been registered for.
type Server struct {
	mu     sync.Mutex
	games  map[string]*game
	logger *slog.Logger
}

// NewServer creates a server with no registered matches.
func NewServer(logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{games: make(map[string]*game), logger: logger.With("component", "sparring")}
}

// Handler returns the HTTP routes of the protocol.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /start_game", s.handleStart)
	mux.HandleFunc("POST /brain", s.handleBrain)
	mux.HandleFunc("POST /win", s.handleEnd(control.Win))
	mux.HandleFunc("POST /loss", s.handleEnd(control.Loss))
	return mux
}

// Games returns the number of registered matches.
func (s *Server) Games() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.games)
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req agent.StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.GameID == "" {
		writeError(w, http.StatusBadRequest, "game_id is required")
		return
	}

	s.mu.Lock()
	s.games[req.GameID] = &game{}
	s.mu.Unlock()

	s.logger.Info("game started", "game_id", req.GameID, "server", req.Server, "port", req.Port)
	writeJSON(w, http.StatusOK, map[string]string{"message": "game started", "game_id": req.GameID})
}

func (s *Server) handleBrain(w http.ResponseWriter, r *http.Request) {
	var snap agent.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil || snap.GameID == "" {
		writeError(w, http.StatusBadRequest, "game_id is required")
		return
	}

	s.mu.Lock()
	g, ok := s.games[snap.GameID]
	if ok {
		g.cycles++
	}
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "game not found")
		return
	}

	writeJSON(w, http.StatusOK, agent.Action{Action: Decide(snap)})
}

func (s *Server) handleEnd(outcome control.Outcome) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req agent.EndRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.GameID == "" {
			writeError(w, http.StatusBadRequest, "game_id is required")
			return
		}

		s.mu.Lock()
		g, ok := s.games[req.GameID]
		delete(s.games, req.GameID)
		s.mu.Unlock()
		if !ok {
			writeError(w, http.StatusNotFound, "game not found")
			return
		}

		s.logger.Info("game ended", "game_id", req.GameID, "outcome", outcome.String(), "cycles", g.cycles)
		writeJSON(w, http.StatusOK, map[string]string{"message": "game ended", "game_id": req.GameID})
	}
}

// Decide picks an action for a snapshot.
func Decide(snap agent.Snapshot) string {
	turret := snap.TurretVision
	if n := len(turret); n > 0 {
		center := n / 2
		if turret[center].Kind == components.HitEnemy {
			return control.Shoot.String()
		}
		for i, ray := range turret {
			if ray.Kind != components.HitEnemy {
				continue
			}
			// Rays are ordered counter-clockwise; left spins clockwise.
			if i < center {
				return control.SpinTurretLeft.String()
			}
			return control.SpinTurretRight.String()
		}
	}

	for _, ray := range snap.HullVision {
		if ray.Kind == components.HitEnemy {
			return control.SpinTurretLeft.String()
		}
	}

	if len(snap.HullVision) > 0 {
		ahead := snap.HullVision[0]
		if ahead.Kind == components.HitWall && ahead.Distance < wallClearance {
			return control.RotateLeft.String()
		}
	}
	return control.MoveForward.String()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
