package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hillkeeper/hillkeeper/internal/domain/entity"
	"github.com/hillkeeper/hillkeeper/internal/domain/messages"
	"github.com/stretchr/testify/require"
)

type fakeReactionEvents struct {
	event *entity.Event
	err   error
}

func (f *fakeReactionEvents) Get(context.Context, time.Time, int64) (*entity.Event, error) {
	return f.event, f.err
}

type upsertCall struct {
	eventID  int64
	response entity.Response
	ttl      time.Duration
}

type fakeResponses struct {
	err     error
	upserts []upsertCall
}

func (f *fakeResponses) Upsert(_ context.Context, eventID int64, response entity.Response, ttl time.Duration) error {
	if f.err != nil {
		return f.err
	}
	f.upserts = append(f.upserts, upsertCall{eventID: eventID, response: response, ttl: ttl})
	return nil
}

type removeCall struct {
	userID int64
	emoji  string
}

type fakeRemover struct {
	err   error
	calls []removeCall
}

func (f *fakeRemover) RemoveUserReaction(_ context.Context, _ int64, _ int64, userID int64, emoji string) error {
	f.calls = append(f.calls, removeCall{userID: userID, emoji: emoji})
	return f.err
}

func newReactionService(events *fakeReactionEvents, responses *fakeResponses, remover *fakeRemover) *ReactionService {
	clock := fixedClock{now: time.Date(2025, 6, 5, 10, 0, 0, 0, time.UTC)}
	return NewReactionService(events, responses, remover, clock, 604800*time.Second, testLogger())
}

func trackedEvent() *entity.Event {
	return &entity.Event{ID: 1001, ChannelID: 5, RoleID: 9}
}

func TestHandleReactionStoresAnswer(t *testing.T) {
	responses := &fakeResponses{}
	remover := &fakeRemover{}
	svc := newReactionService(&fakeReactionEvents{event: trackedEvent()}, responses, remover)

	signal := ReactionSignal{MessageID: 1001, UserID: 42, Username: "alice", Emoji: messages.EmojiYes}
	require.NoError(t, svc.HandleReaction(context.Background(), signal))

	require.Len(t, responses.upserts, 1)
	require.Equal(t, int64(1001), responses.upserts[0].eventID)
	require.Equal(t, entity.AnswerYes, responses.upserts[0].response.Answer)
	require.Equal(t, "alice", responses.upserts[0].response.Username)

	require.Len(t, remover.calls, 1)
	require.Equal(t, messages.EmojiNo, remover.calls[0].emoji, "the opposite marker is removed")
}

func TestHandleReactionUntrackedMessageIsIgnored(t *testing.T) {
	responses := &fakeResponses{}
	remover := &fakeRemover{}
	svc := newReactionService(&fakeReactionEvents{event: nil}, responses, remover)

	signal := ReactionSignal{MessageID: 999, UserID: 42, Username: "alice", Emoji: messages.EmojiYes}
	require.NoError(t, svc.HandleReaction(context.Background(), signal))
	require.Empty(t, responses.upserts)
	require.Empty(t, remover.calls)
}

func TestHandleReactionUnknownEmojiIsIgnored(t *testing.T) {
	responses := &fakeResponses{}
	svc := newReactionService(&fakeReactionEvents{event: trackedEvent()}, responses, &fakeRemover{})

	signal := ReactionSignal{MessageID: 1001, UserID: 42, Username: "alice", Emoji: "🎉"}
	require.NoError(t, svc.HandleReaction(context.Background(), signal))
	require.Empty(t, responses.upserts)
}

func TestHandleReactionRemovalFailureIsSwallowed(t *testing.T) {
	responses := &fakeResponses{}
	remover := &fakeRemover{err: errors.New("missing permissions")}
	svc := newReactionService(&fakeReactionEvents{event: trackedEvent()}, responses, remover)

	signal := ReactionSignal{MessageID: 1001, UserID: 42, Username: "alice", Emoji: messages.EmojiNo}
	require.NoError(t, svc.HandleReaction(context.Background(), signal))
	require.Len(t, responses.upserts, 1, "the store write happens even when removal fails")
	require.Equal(t, entity.AnswerNo, responses.upserts[0].response.Answer)
}

func TestHandleReactionToggle(t *testing.T) {
	responses := &fakeResponses{}
	svc := newReactionService(&fakeReactionEvents{event: trackedEvent()}, responses, &fakeRemover{})

	no := ReactionSignal{MessageID: 1001, UserID: 42, Username: "alice", Emoji: messages.EmojiNo}
	yes := ReactionSignal{MessageID: 1001, UserID: 42, Username: "alice", Emoji: messages.EmojiYes}
	require.NoError(t, svc.HandleReaction(context.Background(), no))
	require.NoError(t, svc.HandleReaction(context.Background(), yes))

	require.Len(t, responses.upserts, 2)
	require.Equal(t, entity.AnswerYes, responses.upserts[1].response.Answer, "the later reaction wins")
}

func TestHandleReactionStoreErrorPropagates(t *testing.T) {
	events := &fakeReactionEvents{err: errors.New("store unreachable")}
	svc := newReactionService(events, &fakeResponses{}, &fakeRemover{})

	signal := ReactionSignal{MessageID: 1001, UserID: 42, Username: "alice", Emoji: messages.EmojiYes}
	require.Error(t, svc.HandleReaction(context.Background(), signal))
}

func TestAnswerMapping(t *testing.T) {
	answer, ok := answerFor(messages.EmojiYes)
	require.True(t, ok)
	require.Equal(t, entity.AnswerYes, answer)

	answer, ok = answerFor(messages.EmojiNo)
	require.True(t, ok)
	require.Equal(t, entity.AnswerNo, answer)

	_, ok = answerFor("👍")
	require.False(t, ok)

	require.Equal(t, messages.EmojiNo, opposite(messages.EmojiYes))
	require.Equal(t, messages.EmojiYes, opposite(messages.EmojiNo))
}
