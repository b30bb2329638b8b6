package db

import "time"

type Room struct {
	ID        uint      `gorm:"primaryKey"`
	Code      string    `gorm:"size:12;uniqueIndex;not null"`
	GameType  string    `gorm:"size:32;not null"`
	Creator   string    `gorm:"size:64;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
	Matches   []Match
}
