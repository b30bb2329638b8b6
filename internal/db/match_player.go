package db

import "time"

type MatchPlayer struct {
	ID        uint      `gorm:"primaryKey"`
	MatchID   uint      `gorm:"index;not null;uniqueIndex:idx_match_players_match_name"`
	Username  string    `gorm:"size:64;not null;uniqueIndex:idx_match_players_match_name"`
	Score     float64   `gorm:"not null;default:0"`
	Placement int       `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
