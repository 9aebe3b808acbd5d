package messages

import (
	"fmt"
	"strings"
)

const (
	EmojiYes = "✅"
	EmojiNo  = "❌"
	EmojiMic = "🎤"
)

const NoParticipants = "Nobody checked in for today's meeting. 😢"

// MorningCheck is the attendance prompt posted in the morning. Members answer
// by reacting with the markers listed in the message body.
func MorningCheck(roleID int64) string {
	return fmt.Sprintf(
		"<@&%d> Good morning! Please check in for tonight's 10pm retrospective.\n\n%s attending\n%s not attending",
		roleID, EmojiYes, EmojiNo,
	)
}

// EveningReminder mentions everyone who opted in shortly before the meeting.
func EveningReminder(mentions []string) string {
	return fmt.Sprintf(
		"%s The 10pm retrospective is about to start. Hop into the voice channel! %s",
		strings.Join(mentions, " "), EmojiMic,
	)
}
