package entity

import "fmt"

// Member is a chat member who reacted to an attendance prompt.
type Member struct {
	ID          int64
	DisplayName string
}

func (m Member) Mention() string {
	return fmt.Sprintf("<@%d>", m.ID)
}
