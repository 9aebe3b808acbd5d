package entity

import (
	"time"

	"github.com/lib/pq"
)

// AttendanceReport archives the outcome of one evening run.
type AttendanceReport struct {
	ID               string `gorm:"primaryKey;type:uuid"`
	CreatedAt        time.Time
	Date             string `gorm:"not null;index"`
	EventID          int64  `gorm:"not null"`
	ChannelID        int64  `gorm:"not null"`
	RoleID           int64
	Participants     pq.StringArray `gorm:"type:text[]"`
	ParticipantCount int
}
