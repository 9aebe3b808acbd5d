package service

import (
	"context"
	"time"

	"github.com/hillkeeper/hillkeeper/internal/adapters/metrics"
	"github.com/hillkeeper/hillkeeper/internal/domain/entity"
	"github.com/hillkeeper/hillkeeper/internal/domain/messages"
	"github.com/hillkeeper/hillkeeper/pkg/logger/types"
)

type reactionEventStorage interface {
	Get(ctx context.Context, date time.Time, id int64) (*entity.Event, error)
}

type reactionResponseStorage interface {
	Upsert(ctx context.Context, eventID int64, response entity.Response, expiration time.Duration) error
}

type reactionGateway interface {
	RemoveUserReaction(ctx context.Context, channelID, messageID, userID int64, emoji string) error
}

// ReactionSignal is one inbound reaction event from the chat platform.
type ReactionSignal struct {
	MessageID int64
	UserID    int64
	Username  string
	Emoji     string
}

// ReactionService turns reaction signals into stored answers. The stored
// answer is authoritative; the visible reaction state on the platform is only
// kept in sync best effort.
type ReactionService struct {
	events    reactionEventStorage
	responses reactionResponseStorage
	gateway   reactionGateway

	clock       Clock
	responseTTL time.Duration
	logger      *types.Logger
}

func NewReactionService(
	events reactionEventStorage,
	responses reactionResponseStorage,
	gateway reactionGateway,
	clock Clock,
	responseTTL time.Duration,
	logger *types.Logger,
) *ReactionService {
	return &ReactionService{
		events:      events,
		responses:   responses,
		gateway:     gateway,
		clock:       clock,
		responseTTL: responseTTL,
		logger:      logger,
	}
}

// HandleReaction records the user's latest answer. Reactions with unknown
// emoji or on messages that are not tracked prompts are silently ignored.
// Replaying the same signal twice yields the same end state.
func (s *ReactionService) HandleReaction(ctx context.Context, signal ReactionSignal) error {
	answer, ok := answerFor(signal.Emoji)
	if !ok {
		return nil
	}

	now := s.clock.Now()
	event, err := s.events.Get(ctx, now, signal.MessageID)
	if err != nil {
		return err
	}
	if event == nil {
		// not a tracked prompt, or its record already expired
		return nil
	}

	// Only one visible reaction per user. Removal can fail on permissions or
	// because the opposite marker was never set; either way the stored answer
	// below stays authoritative.
	if err = s.gateway.RemoveUserReaction(ctx, event.ChannelID, event.ID, signal.UserID, opposite(signal.Emoji)); err != nil {
		s.logger.Debugf("failed to remove opposite reaction (user: %d, message: %d): %v", signal.UserID, event.ID, err)
	}

	response := entity.Response{
		UserID:    signal.UserID,
		Username:  signal.Username,
		Answer:    answer,
		Timestamp: now,
	}
	if err = s.responses.Upsert(ctx, event.ID, response, s.responseTTL); err != nil {
		return err
	}

	metrics.ReactionsHandled.Inc()
	s.logger.Infof("user %s (%d) answered %s on message %d", signal.Username, signal.UserID, answer, event.ID)
	return nil
}

func answerFor(emoji string) (entity.Answer, bool) {
	switch emoji {
	case messages.EmojiYes:
		return entity.AnswerYes, true
	case messages.EmojiNo:
		return entity.AnswerNo, true
	default:
		return "", false
	}
}

func opposite(emoji string) string {
	if emoji == messages.EmojiYes {
		return messages.EmojiNo
	}
	return messages.EmojiYes
}
