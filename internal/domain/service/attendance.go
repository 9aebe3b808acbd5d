package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/hillkeeper/hillkeeper/internal/adapters/metrics"
	"github.com/hillkeeper/hillkeeper/internal/domain/common/errorz"
	"github.com/hillkeeper/hillkeeper/internal/domain/entity"
	"github.com/hillkeeper/hillkeeper/internal/domain/messages"
	"github.com/hillkeeper/hillkeeper/pkg/logger/types"
)

type EventStorage interface {
	Create(ctx context.Context, date time.Time, event entity.Event, expiration time.Duration) error
	ListIDs(ctx context.Context, date time.Time) ([]int64, error)
	Delete(ctx context.Context, date time.Time, id int64) error
}

// Gateway is the chat platform seen from the attendance flows. It only moves
// messages and reactions around; which record is authoritative is decided here.
type Gateway interface {
	ResolveChannel(ctx context.Context, channelID int64) error
	ResolveRole(ctx context.Context, channelID, roleID int64) error
	Post(ctx context.Context, channelID int64, content string) (int64, error)
	AddReaction(ctx context.Context, channelID, messageID int64, emoji string) error
	FetchMessage(ctx context.Context, channelID, messageID int64) error
	UsersWhoReacted(ctx context.Context, channelID, messageID int64, emoji string, roleID int64) ([]entity.Member, error)
}

type ResponseStorage interface {
	List(ctx context.Context, eventID int64) ([]entity.Response, error)
}

type ReportStorage interface {
	Create(ctx context.Context, report *entity.AttendanceReport) error
}

type SummaryMailer interface {
	SendSummary(date string, participants []string)
}

type AttendanceService struct {
	events    EventStorage
	responses ResponseStorage
	gateway   Gateway
	reports   ReportStorage // optional
	mailer    SummaryMailer // optional

	clock  Clock
	logger *types.Logger
}

func NewAttendanceService(
	events EventStorage,
	responses ResponseStorage,
	gateway Gateway,
	reports ReportStorage,
	mailer SummaryMailer,
	clock Clock,
	logger *types.Logger,
) *AttendanceService {
	return &AttendanceService{
		events:    events,
		responses: responses,
		gateway:   gateway,
		reports:   reports,
		mailer:    mailer,
		clock:     clock,
		logger:    logger,
	}
}

// Morning posts the attendance prompt, seeds it with the two reaction markers
// and registers the prompt in the event store. It returns the posted message
// id.
//
// Known limitation: if the store write fails after the prompt was posted, the
// prompt stays visible with no tracked record. Nothing is rolled back.
func (s *AttendanceService) Morning(ctx context.Context, channelID, roleID int64, expiration time.Duration) (int64, error) {
	if channelID == 0 || roleID == 0 {
		return 0, errorz.ConfigurationMissing
	}

	if err := s.gateway.ResolveChannel(ctx, channelID); err != nil {
		return 0, err
	}

	messageID, err := s.gateway.Post(ctx, channelID, messages.MorningCheck(roleID))
	if err != nil {
		return 0, err
	}

	for _, emoji := range []string{messages.EmojiYes, messages.EmojiNo} {
		if err = s.gateway.AddReaction(ctx, channelID, messageID, emoji); err != nil {
			return 0, fmt.Errorf("failed to add %s marker to message %d: %w", emoji, messageID, err)
		}
	}

	now := s.clock.Now()
	event := entity.Event{
		ID:        messageID,
		ChannelID: channelID,
		RoleID:    roleID,
		CreatedAt: now,
	}
	if err = s.events.Create(ctx, now, event, expiration); err != nil {
		return 0, err
	}

	metrics.MorningChecks.Inc()
	s.logger.Infof("morning check message sent (message: %d)", messageID)
	return messageID, nil
}

// Evening picks the latest prompt posted today, collects the members who
// reacted affirmatively and posts the reminder addressed to them. An empty
// participant set is a normal outcome; a day without any tracked prompt is
// errorz.NoAttendanceData.
func (s *AttendanceService) Evening(ctx context.Context, channelID, roleID int64) error {
	if channelID == 0 || roleID == 0 {
		return errorz.ConfigurationMissing
	}

	if err := s.gateway.ResolveChannel(ctx, channelID); err != nil {
		return err
	}
	if err := s.gateway.ResolveRole(ctx, channelID, roleID); err != nil {
		return err
	}

	now := s.clock.Now()
	ids, err := s.events.ListIDs(ctx, now)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return fmt.Errorf("%w: no events for %s", errorz.NoAttendanceData, now.Format("2006-01-02"))
	}

	// Snowflake ids grow with creation time, so the numeric maximum is the
	// most recent prompt. Covers manual re-triggers posting twice a day.
	latest := slices.Max(ids)

	if err = s.gateway.FetchMessage(ctx, channelID, latest); err != nil {
		// The message behind the record is gone or unreachable; drop the
		// stale record so the next run does not trip over it again. Older
		// sibling events stay untouched.
		if delErr := s.events.Delete(ctx, now, latest); delErr != nil {
			s.logger.Errorf("failed to delete stale event %d: %v", latest, delErr)
		}
		return fmt.Errorf("%w: message %d could not be fetched: %v", errorz.NoAttendanceData, latest, err)
	}

	participants, err := s.gateway.UsersWhoReacted(ctx, channelID, latest, messages.EmojiYes, roleID)
	if err != nil {
		return err
	}

	s.logStoredResponses(ctx, latest)

	var content string
	if len(participants) == 0 {
		content = messages.NoParticipants
	} else {
		mentions := make([]string, len(participants))
		for i, member := range participants {
			mentions[i] = member.Mention()
		}
		content = messages.EveningReminder(mentions)
	}

	if _, err = s.gateway.Post(ctx, channelID, content); err != nil {
		return err
	}

	if len(participants) == 0 {
		s.logger.Info("no members checked in")
	} else {
		s.logger.Infof("evening reminder sent to %d members", len(participants))
	}
	metrics.EveningReminders.Inc()

	s.archive(ctx, now, latest, channelID, roleID, participants)
	return nil
}

// logStoredResponses tallies the answers recorded by the reconciler. The
// live reaction query above stays authoritative for who gets mentioned; the
// tally only surfaces drift between the two in the logs.
func (s *AttendanceService) logStoredResponses(ctx context.Context, eventID int64) {
	if s.responses == nil {
		return
	}
	stored, err := s.responses.List(ctx, eventID)
	if err != nil {
		s.logger.Debugf("failed to list stored responses for event %d: %v", eventID, err)
		return
	}

	yes, no := 0, 0
	for _, response := range stored {
		if response.Answer == entity.AnswerYes {
			yes++
		} else {
			no++
		}
	}
	s.logger.Infof("stored responses for event %d: %d yes, %d no", eventID, yes, no)
}

// archive records the run outcome in the report store and mails the summary
// when either is configured. Both are best effort and never fail the flow.
func (s *AttendanceService) archive(ctx context.Context, now time.Time, eventID, channelID, roleID int64, participants []entity.Member) {
	date := now.Format("2006-01-02")
	names := make([]string, len(participants))
	for i, member := range participants {
		names[i] = member.DisplayName
	}

	if s.reports != nil {
		report := &entity.AttendanceReport{
			Date:             date,
			EventID:          eventID,
			ChannelID:        channelID,
			RoleID:           roleID,
			Participants:     names,
			ParticipantCount: len(names),
		}
		if err := s.reports.Create(ctx, report); err != nil {
			s.logger.Errorf("failed to archive attendance report for %s: %v", date, err)
		}
	}

	if s.mailer != nil {
		s.mailer.SendSummary(date, names)
	}
}
