package server

import "reaction-games/internal/engine"

// roomState is the resync payload sent on connect and after roster changes.
func (s *Server) roomState(room *Room) map[string]any {
	cfg := room.Engine.Config()
	payload := map[string]any{
		"type":        "room_state",
		"room_code":   room.Code,
		"game_type":   room.GameType,
		"creator":     room.Creator,
		"players":     append([]string(nil), room.Players...),
		"started":     room.Started,
		"min_players": cfg.MinPlayers,
		"max_players": cfg.MaxPlayers,
	}
	if state := room.Engine.State(); state != nil {
		payload["game_status"] = state.Status
		if state.Status == engine.StatusFinished {
			payload["winner"] = state.Winner
		}
	}
	return payload
}

// snapshotRoom builds the room_state payload under the store lock, so the
// roster it copies cannot be mid-mutation.
func (s *Server) snapshotRoom(code string) (map[string]any, error) {
	var snapshot map[string]any
	if _, err := s.store.UpdateRoom(code, func(room *Room) error {
		snapshot = s.roomState(room)
		return nil
	}); err != nil {
		return nil, err
	}
	return snapshot, nil
}

// messageWithType copies the payload with its type key overwritten, so turn
// data can carry a broadcast-level type without mutating the engine's map.
func messageWithType(messageType string, data map[string]any) map[string]any {
	payload := make(map[string]any, len(data)+1)
	for key, value := range data {
		payload[key] = value
	}
	payload["type"] = messageType
	return payload
}
