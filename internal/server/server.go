package server

import (
	"net/http"
	"sync"

	"reaction-games/internal/config"
	"reaction-games/internal/engine"

	"gorm.io/gorm"
)

type Server struct {
	store    *Store
	db       *gorm.DB
	ws       *wsHub
	cfg      config.Config
	registry *engine.Registry
	timersMu sync.Mutex
	timers   map[string]*turnTimer
}

func New(conn *gorm.DB, cfg config.Config, registry *engine.Registry) *Server {
	return &Server{
		store:    NewStore(),
		db:       conn,
		ws:       newWSHub(),
		cfg:      cfg,
		registry: registry,
		timers:   make(map[string]*turnTimer),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/games", s.handleListGames)
	mux.HandleFunc("GET /api/rooms", s.handleListRooms)
	mux.HandleFunc("POST /api/rooms", s.handleCreateRoom)
	mux.HandleFunc("POST /api/rooms/join", s.handleJoinRoom)
	mux.HandleFunc("GET /api/rooms/{code}", s.handleRoomInfo)
	mux.HandleFunc("GET /ws/rooms/{code}", s.handleRoomWebsocket)
	return mux
}
