package db

import "time"

type Match struct {
	ID         uint      `gorm:"primaryKey"`
	RoomID     uint      `gorm:"index;not null"`
	GameID     string    `gorm:"size:36;index;not null"`
	GameType   string    `gorm:"size:32;not null"`
	Status     string    `gorm:"size:32;not null"`
	Winner     string    `gorm:"size:64"`
	StartedAt  time.Time `gorm:"not null"`
	FinishedAt *time.Time
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
	Players    []MatchPlayer
	Events     []MatchEvent
}
