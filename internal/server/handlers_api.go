package server

import (
	"log"
	"net/http"
	"strings"

	"reaction-games/internal/games"
)

type createRoomRequest struct {
	GameType string `json:"game_type"`
	Username string `json:"username"`
}

type joinRoomRequest struct {
	RoomCode string `json:"room_code"`
	Username string `json:"username"`
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	list := make([]map[string]any, 0)
	for _, name := range s.registry.List() {
		info := s.registry.Info(name)
		if cfg, ok := games.DefaultConfig(name); ok {
			info["min_players"] = cfg.MinPlayers
			info["max_players"] = cfg.MaxPlayers
			info["turn_time"] = s.turnSeconds(name, cfg.TurnTimeSeconds)
			info["max_rounds"] = s.maxRounds(name, cfg.MaxRounds)
		}
		list = append(list, info)
	}
	writeJSON(w, http.StatusOK, map[string]any{"games": list})
}

func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"rooms": s.store.ListRooms()})
}

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	username := strings.TrimSpace(req.Username)
	if username == "" {
		writeError(w, http.StatusBadRequest, "username is required")
		return
	}
	cfg, ok := games.DefaultConfig(req.GameType)
	if !ok || !s.registry.Has(req.GameType) {
		writeError(w, http.StatusBadRequest, "unknown game type")
		return
	}
	cfg.TurnTimeSeconds = s.turnSeconds(req.GameType, cfg.TurnTimeSeconds)
	cfg.MaxRounds = s.maxRounds(req.GameType, cfg.MaxRounds)
	eng := s.registry.Create(req.GameType, cfg)
	if eng == nil {
		writeError(w, http.StatusInternalServerError, "failed to create game")
		return
	}
	room := s.store.CreateRoom(req.GameType, username, eng)
	s.persistRoom(room)
	log.Printf("room created room=%s game_type=%s creator=%s", room.Code, room.GameType, username)
	writeJSON(w, http.StatusCreated, map[string]any{
		"room_code": room.Code,
		"game_type": room.GameType,
		"creator":   room.Creator,
	})
}

func (s *Server) handleJoinRoom(w http.ResponseWriter, r *http.Request) {
	var req joinRoomRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	username := strings.TrimSpace(req.Username)
	if username == "" {
		writeError(w, http.StatusBadRequest, "username is required")
		return
	}
	code := strings.ToUpper(strings.TrimSpace(req.RoomCode))
	if _, err := s.store.AddPlayer(code, username); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	snapshot, err := s.snapshotRoom(code)
	if err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	log.Printf("player joined room=%s player=%s", code, username)
	s.ws.Broadcast(code, snapshot)
	writeJSON(w, http.StatusOK, snapshot)
}

func (s *Server) handleRoomInfo(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.snapshotRoom(r.PathValue("code"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

// turnSeconds applies the per-variant override from the environment config,
// falling back to the registry default.
func (s *Server) turnSeconds(gameType string, fallback int) int {
	if value := s.cfg.TurnSeconds(gameType); value > 0 {
		return value
	}
	return fallback
}

func (s *Server) maxRounds(gameType string, fallback int) int {
	if value := s.cfg.MaxRounds(gameType); value > 0 {
		return value
	}
	return fallback
}
