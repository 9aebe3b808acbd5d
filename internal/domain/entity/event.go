package entity

import "time"

// Event is one posted attendance prompt, keyed in the store by the calendar
// date it was created on plus its message snowflake.
type Event struct {
	ID        int64     `json:"event_id"`
	ChannelID int64     `json:"channel_id"`
	RoleID    int64     `json:"role_id"`
	CreatedAt time.Time `json:"created_at"`
}
