package server

import (
	"time"

	"reaction-games/internal/engine"
)

// Room is one lobby with at most one running game. All fields are guarded by
// the store mutex; the engine is only ever called inside UpdateRoom closures.
type Room struct {
	Code      string
	GameType  string
	Creator   string
	Players   []string
	Engine    engine.Engine
	Started   bool
	GameID    string
	CreatedAt time.Time

	// Generation counts game starts in this room. Deadline timers carry the
	// generation they were armed under, so a timer surviving from a finished
	// game can never fire into a restarted one.
	Generation int

	DBRoomID  uint
	DBMatchID uint
}

type RoomSummary struct {
	Code     string `json:"room_code"`
	GameType string `json:"game_type"`
	Players  int    `json:"players"`
	Started  bool   `json:"started"`
}

// HasPlayer reports whether the username is in the room roster.
func (r *Room) HasPlayer(username string) bool {
	for _, name := range r.Players {
		if name == username {
			return true
		}
	}
	return false
}
