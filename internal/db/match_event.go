package db

import (
	"time"

	"gorm.io/datatypes"
)

type MatchEvent struct {
	ID        uint           `gorm:"primaryKey"`
	MatchID   uint           `gorm:"index;not null"`
	Turn      int            `gorm:"not null;default:0"`
	Username  string         `gorm:"size:64"`
	Type      string         `gorm:"size:64;not null"`
	Payload   datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `gorm:"not null"`
}
