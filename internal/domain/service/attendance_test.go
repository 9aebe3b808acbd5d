package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/hillkeeper/hillkeeper/internal/domain/common/errorz"
	"github.com/hillkeeper/hillkeeper/internal/domain/entity"
	"github.com/hillkeeper/hillkeeper/internal/domain/messages"
	"github.com/hillkeeper/hillkeeper/pkg/logger/types"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testLogger() *types.Logger {
	return &types.Logger{SugaredLogger: zap.NewNop().Sugar()}
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

type fakeEvents struct {
	ids       []int64
	listErr   error
	createErr error

	created []entity.Event
	deleted []int64
}

func (f *fakeEvents) Create(_ context.Context, _ time.Time, event entity.Event, _ time.Duration) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, event)
	return nil
}

func (f *fakeEvents) ListIDs(_ context.Context, _ time.Time) ([]int64, error) {
	return f.ids, f.listErr
}

func (f *fakeEvents) Delete(_ context.Context, _ time.Time, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeGateway struct {
	resolveChannelErr error
	resolveRoleErr    error
	postErr           error
	reactionErr       error
	fetchErr          error
	reactorsErr       error

	nextMessageID int64
	reactors      []entity.Member

	posts     []string
	reactions []string
	fetched   []int64
	queried   []int64
}

func (f *fakeGateway) ResolveChannel(context.Context, int64) error {
	return f.resolveChannelErr
}

func (f *fakeGateway) ResolveRole(context.Context, int64, int64) error {
	return f.resolveRoleErr
}

func (f *fakeGateway) Post(_ context.Context, _ int64, content string) (int64, error) {
	if f.postErr != nil {
		return 0, f.postErr
	}
	f.posts = append(f.posts, content)
	return f.nextMessageID, nil
}

func (f *fakeGateway) AddReaction(_ context.Context, _ int64, _ int64, emoji string) error {
	if f.reactionErr != nil {
		return f.reactionErr
	}
	f.reactions = append(f.reactions, emoji)
	return nil
}

func (f *fakeGateway) FetchMessage(_ context.Context, _ int64, messageID int64) error {
	f.fetched = append(f.fetched, messageID)
	return f.fetchErr
}

func (f *fakeGateway) UsersWhoReacted(_ context.Context, _ int64, messageID int64, _ string, _ int64) ([]entity.Member, error) {
	if f.reactorsErr != nil {
		return nil, f.reactorsErr
	}
	f.queried = append(f.queried, messageID)
	return f.reactors, nil
}

type fakeReports struct {
	err     error
	created []*entity.AttendanceReport
}

func (f *fakeReports) Create(_ context.Context, report *entity.AttendanceReport) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, report)
	return nil
}

func newService(events *fakeEvents, gateway *fakeGateway, reports ReportStorage) *AttendanceService {
	clock := fixedClock{now: time.Date(2025, 6, 5, 21, 45, 0, 0, time.UTC)}
	return NewAttendanceService(events, nil, gateway, reports, nil, clock, testLogger())
}

func TestMorningPostsAndRegistersEvent(t *testing.T) {
	events := &fakeEvents{}
	gateway := &fakeGateway{nextMessageID: 1001}
	svc := newService(events, gateway, nil)

	id, err := svc.Morning(context.Background(), 5, 9, 604800*time.Second)
	require.NoError(t, err)
	require.Equal(t, int64(1001), id)

	require.Len(t, gateway.posts, 1)
	require.Contains(t, gateway.posts[0], "<@&9>")
	require.Equal(t, []string{messages.EmojiYes, messages.EmojiNo}, gateway.reactions)

	require.Len(t, events.created, 1)
	require.Equal(t, int64(1001), events.created[0].ID)
	require.Equal(t, int64(5), events.created[0].ChannelID)
	require.Equal(t, int64(9), events.created[0].RoleID)
}

func TestMorningMissingConfiguration(t *testing.T) {
	svc := newService(&fakeEvents{}, &fakeGateway{}, nil)

	_, err := svc.Morning(context.Background(), 0, 9, time.Hour)
	require.ErrorIs(t, err, errorz.ConfigurationMissing)

	_, err = svc.Morning(context.Background(), 5, 0, time.Hour)
	require.ErrorIs(t, err, errorz.ConfigurationMissing)
}

func TestMorningChannelNotFound(t *testing.T) {
	gateway := &fakeGateway{resolveChannelErr: fmt.Errorf("%w: 5", errorz.ChannelNotFound)}
	svc := newService(&fakeEvents{}, gateway, nil)

	_, err := svc.Morning(context.Background(), 5, 9, time.Hour)
	require.ErrorIs(t, err, errorz.ChannelNotFound)
	require.Empty(t, gateway.posts, "nothing is posted when the channel cannot be resolved")
}

func TestMorningStoreFailureIsNotRolledBack(t *testing.T) {
	events := &fakeEvents{createErr: errorz.StoreUnavailable}
	gateway := &fakeGateway{nextMessageID: 1001}
	svc := newService(events, gateway, nil)

	_, err := svc.Morning(context.Background(), 5, 9, time.Hour)
	require.ErrorIs(t, err, errorz.StoreUnavailable)
	// The prompt went out before the store write failed; it stays visible.
	require.Len(t, gateway.posts, 1)
}

func TestEveningNoEvents(t *testing.T) {
	svc := newService(&fakeEvents{}, &fakeGateway{}, nil)

	err := svc.Evening(context.Background(), 5, 9)
	require.ErrorIs(t, err, errorz.NoAttendanceData)
}

func TestEveningSelectsLatestEvent(t *testing.T) {
	events := &fakeEvents{ids: []int64{1001, 1002}}
	gateway := &fakeGateway{reactors: []entity.Member{{ID: 42, DisplayName: "alice"}}}
	svc := newService(events, gateway, nil)

	require.NoError(t, svc.Evening(context.Background(), 5, 9))
	require.Equal(t, []int64{1002}, gateway.fetched)
	require.Equal(t, []int64{1002}, gateway.queried)
}

func TestEveningSelfHealsOnFetchFailure(t *testing.T) {
	events := &fakeEvents{ids: []int64{1001, 1002}}
	gateway := &fakeGateway{fetchErr: errors.New("message deleted")}
	svc := newService(events, gateway, nil)

	err := svc.Evening(context.Background(), 5, 9)
	require.ErrorIs(t, err, errorz.NoAttendanceData)
	require.Equal(t, []int64{1002}, events.deleted, "only the stale latest event is removed")
	require.NotContains(t, events.deleted, int64(1001), "sibling events are left untouched")
}

func TestEveningNoParticipantsIsNotAnError(t *testing.T) {
	events := &fakeEvents{ids: []int64{1001}}
	gateway := &fakeGateway{reactors: nil}
	svc := newService(events, gateway, nil)

	require.NoError(t, svc.Evening(context.Background(), 5, 9))
	require.Len(t, gateway.posts, 1)
	require.Equal(t, messages.NoParticipants, gateway.posts[0])
}

func TestEveningMentionsParticipants(t *testing.T) {
	events := &fakeEvents{ids: []int64{1001}}
	gateway := &fakeGateway{reactors: []entity.Member{
		{ID: 42, DisplayName: "alice"},
		{ID: 43, DisplayName: "bob"},
	}}
	svc := newService(events, gateway, nil)

	require.NoError(t, svc.Evening(context.Background(), 5, 9))
	require.Len(t, gateway.posts, 1)
	require.True(t, strings.Contains(gateway.posts[0], "<@42>"))
	require.True(t, strings.Contains(gateway.posts[0], "<@43>"))
}

func TestEveningRoleNotFound(t *testing.T) {
	gateway := &fakeGateway{resolveRoleErr: fmt.Errorf("%w: 9", errorz.RoleNotFound)}
	svc := newService(&fakeEvents{ids: []int64{1001}}, gateway, nil)

	err := svc.Evening(context.Background(), 5, 9)
	require.ErrorIs(t, err, errorz.RoleNotFound)
}

func TestEveningArchivesOutcome(t *testing.T) {
	events := &fakeEvents{ids: []int64{1001}}
	gateway := &fakeGateway{reactors: []entity.Member{{ID: 42, DisplayName: "alice"}}}
	reports := &fakeReports{}
	svc := newService(events, gateway, reports)

	require.NoError(t, svc.Evening(context.Background(), 5, 9))
	require.Len(t, reports.created, 1)
	require.Equal(t, "2025-06-05", reports.created[0].Date)
	require.Equal(t, int64(1001), reports.created[0].EventID)
	require.Equal(t, []string{"alice"}, []string(reports.created[0].Participants))
}

func TestEveningArchiveFailureIsBestEffort(t *testing.T) {
	events := &fakeEvents{ids: []int64{1001}}
	gateway := &fakeGateway{reactors: []entity.Member{{ID: 42, DisplayName: "alice"}}}
	reports := &fakeReports{err: errors.New("database down")}
	svc := newService(events, gateway, reports)

	require.NoError(t, svc.Evening(context.Background(), 5, 9), "archive failures never fail the flow")
}
