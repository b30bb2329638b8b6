package server

import (
	"encoding/json"
	"errors"
	"log"
	"sort"

	"reaction-games/internal/db"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm/clause"
)

// The persistence layer is append-only match history. Every write is guarded
// by a nil-db check so the server runs fully in memory without Postgres.

func (s *Server) persistRoom(room *Room) {
	if s.db == nil {
		return
	}
	record := db.Room{
		Code:     room.Code,
		GameType: room.GameType,
		Creator:  room.Creator,
	}
	if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&record).Error; err != nil {
		log.Printf("persist room failed room=%s error=%v", room.Code, err)
		return
	}
	room.DBRoomID = record.ID
}

func (s *Server) persistMatchStart(room *Room) {
	if s.db == nil {
		return
	}
	if room.DBRoomID == 0 {
		s.ensureRoomDBID(room)
	}
	if room.DBRoomID == 0 {
		return
	}
	record := db.Match{
		RoomID:    room.DBRoomID,
		GameID:    room.GameID,
		GameType:  room.GameType,
		Status:    "playing",
		StartedAt: timeNowUTC(),
	}
	if err := s.db.Create(&record).Error; err != nil {
		log.Printf("persist match failed room=%s game_id=%s error=%v", room.Code, room.GameID, err)
		return
	}
	room.DBMatchID = record.ID
	for _, username := range room.Players {
		player := db.MatchPlayer{
			MatchID:  record.ID,
			Username: username,
		}
		if err := s.db.Create(&player).Error; err != nil && !isUniqueViolation(err) {
			log.Printf("persist match player failed match_id=%d player=%s error=%v", record.ID, username, err)
		}
	}
}

func (s *Server) persistTurn(room *Room, res *turnResult) {
	if s.db == nil || room.DBMatchID == 0 {
		return
	}
	eventType := "choice_made"
	if res.autoPlayed {
		eventType = "auto_choice"
	}
	payload, err := json.Marshal(map[string]any{
		"player": res.player,
		"action": res.action,
		"events": res.outcome.Events,
	})
	if err != nil {
		return
	}
	event := db.MatchEvent{
		MatchID:  room.DBMatchID,
		Turn:     res.turn,
		Username: res.player,
		Type:     eventType,
		Payload:  datatypes.JSON(payload),
	}
	if err := s.db.Create(&event).Error; err != nil {
		log.Printf("persist turn failed match_id=%d turn=%d error=%v", room.DBMatchID, res.turn, err)
	}
}

func (s *Server) persistMatchEnd(room *Room, res *turnResult) {
	if s.db == nil || room.DBMatchID == 0 {
		return
	}
	now := timeNowUTC()
	updates := map[string]any{
		"status":      "finished",
		"winner":      res.winner,
		"finished_at": &now,
	}
	if err := s.db.Model(&db.Match{}).Where("id = ?", room.DBMatchID).Updates(updates).Error; err != nil {
		log.Printf("persist match end failed match_id=%d error=%v", room.DBMatchID, err)
		return
	}
	for username, score := range res.scores {
		placement := placementFor(res, username)
		err := s.db.Model(&db.MatchPlayer{}).
			Where("match_id = ? AND username = ?", room.DBMatchID, username).
			Updates(map[string]any{"score": score, "placement": placement}).Error
		if err != nil {
			log.Printf("persist match score failed match_id=%d player=%s error=%v", room.DBMatchID, username, err)
		}
	}
	payload, err := json.Marshal(map[string]any{
		"winner":      res.winner,
		"game_status": res.status,
	})
	if err != nil {
		return
	}
	event := db.MatchEvent{
		MatchID: room.DBMatchID,
		Turn:    res.turn,
		Type:    "game_ended",
		Payload: datatypes.JSON(payload),
	}
	if err := s.db.Create(&event).Error; err != nil {
		log.Printf("persist game end event failed match_id=%d error=%v", room.DBMatchID, err)
	}
}

// placementFor ranks players by score descending, winner forced first.
func placementFor(res *turnResult, username string) int {
	type ranked struct {
		name  string
		score float64
	}
	players := make([]ranked, 0, len(res.scores))
	for name, score := range res.scores {
		players = append(players, ranked{name, score})
	}
	sort.Slice(players, func(i, j int) bool {
		if players[i].name == res.winner {
			return true
		}
		if players[j].name == res.winner {
			return false
		}
		if players[i].score != players[j].score {
			return players[i].score > players[j].score
		}
		return players[i].name < players[j].name
	})
	for i, p := range players {
		if p.name == username {
			return i + 1
		}
	}
	return 0
}

func (s *Server) ensureRoomDBID(room *Room) {
	if s.db == nil || room.DBRoomID != 0 {
		return
	}
	var record db.Room
	if err := s.db.Where("code = ?", room.Code).First(&record).Error; err != nil {
		return
	}
	room.DBRoomID = record.ID
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
