package entity

import "time"

type Answer string

const (
	AnswerYes Answer = "yes"
	AnswerNo  Answer = "no"
)

// Response is a user's current answer to one attendance prompt. A new write
// for the same (event, user) pair replaces the prior one entirely.
type Response struct {
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	Answer    Answer    `json:"answer"`
	Timestamp time.Time `json:"timestamp"`
}
