package server

import (
	"crypto/rand"
	"errors"
	"sort"
	"sync"
	"time"

	"reaction-games/internal/engine"
)

type Store struct {
	mu    sync.Mutex
	rooms map[string]*Room
}

func NewStore() *Store {
	return &Store{
		rooms: make(map[string]*Room),
	}
}

// CreateRoom opens a new lobby with the creator already in the roster.
func (s *Store) CreateRoom(gameType, creator string, eng engine.Engine) *Room {
	s.mu.Lock()
	defer s.mu.Unlock()

	code := newRoomCode()
	for {
		if _, taken := s.rooms[code]; !taken {
			break
		}
		code = newRoomCode()
	}
	room := &Room{
		Code:      code,
		GameType:  gameType,
		Creator:   creator,
		Players:   []string{creator},
		Engine:    eng,
		CreatedAt: timeNowUTC(),
	}
	s.rooms[code] = room
	return room
}

func (s *Store) GetRoom(code string) (*Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[code]
	return room, ok
}

// UpdateRoom runs the closure under the store lock. Every engine call goes
// through here so rooms are serialized against their timers.
func (s *Store) UpdateRoom(code string, update func(room *Room) error) (*Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[code]
	if !ok {
		return nil, errors.New("room not found")
	}
	if err := update(room); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *Store) AddPlayer(code, username string) (*Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[code]
	if !ok {
		return nil, errors.New("room not found")
	}
	if room.HasPlayer(username) {
		return room, nil
	}
	if room.Started {
		return nil, errors.New("game already started")
	}
	if len(room.Players) >= room.Engine.Config().MaxPlayers {
		return nil, errors.New("room is full")
	}
	room.Players = append(room.Players, username)
	return room, nil
}

// RemovePlayer takes the username out of the roster. The room is deleted when
// it empties; otherwise the creator role passes to the oldest remaining
// player. The returned flags tell the caller which of those happened.
func (s *Store) RemovePlayer(code, username string) (*Room, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[code]
	if !ok {
		return nil, false, errors.New("room not found")
	}
	index := -1
	for i, name := range room.Players {
		if name == username {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, false, errors.New("player not in room")
	}
	room.Players = append(room.Players[:index], room.Players[index+1:]...)
	if len(room.Players) == 0 {
		delete(s.rooms, code)
		return room, true, nil
	}
	if room.Creator == username {
		room.Creator = room.Players[0]
	}
	return room, false, nil
}

func (s *Store) DeleteRoom(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, code)
}

func (s *Store) ListRooms() []RoomSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]RoomSummary, 0, len(s.rooms))
	for _, room := range s.rooms {
		list = append(list, RoomSummary{
			Code:     room.Code,
			GameType: room.GameType,
			Players:  len(room.Players),
			Started:  room.Started,
		})
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Code < list[j].Code
	})
	return list
}

func newRoomCode() string {
	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "AAAAAA"
	}
	for i := range buf {
		buf[i] = alphabet[int(buf[i])%len(alphabet)]
	}
	return string(buf)
}

func timeNowUTC() time.Time {
	return time.Now().UTC()
}
