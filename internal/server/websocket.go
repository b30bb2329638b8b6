package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"reaction-games/internal/engine"

	"github.com/gorilla/websocket"
)

// wsHub tracks the sockets of each room. The username per connection is
// kept for disconnect handling.
type wsHub struct {
	mu    sync.Mutex
	rooms map[string]map[*websocket.Conn]string
}

func newWSHub() *wsHub {
	return &wsHub{
		rooms: make(map[string]map[*websocket.Conn]string),
	}
}

func (h *wsHub) Add(code string, conn *websocket.Conn, username string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group := h.rooms[code]
	if group == nil {
		group = make(map[*websocket.Conn]string)
		h.rooms[code] = group
	}
	group[conn] = username
}

func (h *wsHub) Remove(code string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group := h.rooms[code]
	if group == nil {
		return
	}
	delete(group, conn)
	_ = conn.Close()
	if len(group) == 0 {
		delete(h.rooms, code)
	}
}

func (h *wsHub) Send(conn *websocket.Conn, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	_ = conn.WriteMessage(websocket.TextMessage, data)
}

func (h *wsHub) Broadcast(code string, payload any) {
	h.mu.Lock()
	group := h.rooms[code]
	conns := make([]*websocket.Conn, 0, len(group))
	for conn := range group {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.Remove(code, conn)
		}
	}
}

type wsMessage struct {
	Type   string `json:"type"`
	Action any    `json:"action"`
}

func (s *Server) handleRoomWebsocket(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	username := r.URL.Query().Get("username")
	room, ok := s.store.GetRoom(code)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if username == "" || !room.HasPlayer(username) {
		http.Error(w, "join the room first", http.StatusForbidden)
		return
	}
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	log.Printf("ws connected room=%s player=%s remote=%s", code, username, r.RemoteAddr)
	s.ws.Add(code, conn, username)
	s.markReconnected(code, username)
	s.sendResync(conn, code)
	go s.readWS(code, username, conn)
}

// sendResync delivers the room snapshot, plus the live turn when a game is
// running, so a reconnecting client can render immediately.
func (s *Server) sendResync(conn *websocket.Conn, code string) {
	var snapshot, turn map[string]any
	_, err := s.store.UpdateRoom(code, func(room *Room) error {
		snapshot = s.roomState(room)
		if room.Started {
			if state := room.Engine.State(); state != nil && state.Status == engine.StatusPlaying {
				turn = room.Engine.TurnData()
			}
		}
		return nil
	})
	if err != nil {
		return
	}
	s.ws.Send(conn, snapshot)
	if turn != nil {
		s.ws.Send(conn, messageWithType("next_turn", turn))
	}
}

func (s *Server) readWS(code, username string, conn *websocket.Conn) {
	defer func() {
		s.ws.Remove(code, conn)
		s.markDisconnected(code, username)
	}()
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			log.Printf("ws disconnected room=%s player=%s error=%v", code, username, err)
			return
		}
		var msg wsMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			s.ws.Send(conn, wsError("invalid message"))
			continue
		}
		s.dispatchWS(code, username, conn, msg)
	}
}

func (s *Server) dispatchWS(code, username string, conn *websocket.Conn, msg wsMessage) {
	var err error
	switch msg.Type {
	case "start_game", "restart_game":
		err = s.startGame(code, username)
	case "make_choice":
		err = s.submitAction(code, username, msg.Action)
	case "exit_game":
		err = s.exitPlayer(code, username)
		if err == nil {
			s.ws.Remove(code, conn)
			return
		}
	default:
		err = errUnknownMessage
	}
	if err != nil {
		s.ws.Send(conn, wsError(err.Error()))
	}
}

func wsError(message string) map[string]any {
	return map[string]any{
		"type":    "error",
		"message": message,
	}
}
