package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/hillkeeper/hillkeeper/internal/domain/service"
	"github.com/hillkeeper/hillkeeper/pkg/logger/types"
	"github.com/spf13/viper"
)

// CommandHandler serves the test slash commands. The test commands run the
// real flows against the test channel (when configured) with a short TTL so
// leftovers clean themselves up quickly.
type CommandHandler struct {
	attendance *service.AttendanceService
	logger     *types.Logger
}

func NewCommandHandler(attendanceService *service.AttendanceService, logger *types.Logger) *CommandHandler {
	return &CommandHandler{
		attendance: attendanceService,
		logger:     logger,
	}
}

func (h *CommandHandler) Register(s *discordgo.Session) error {
	commands := []*discordgo.ApplicationCommand{
		{Name: "ping", Description: "Check bot's response time"},
		{Name: "morning-check", Description: "Test the morning attendance check"},
		{Name: "evening-reminder", Description: "Test the evening reminder"},
	}

	for _, command := range commands {
		if _, err := s.ApplicationCommandCreate(s.State.User.ID, "", command); err != nil {
			return fmt.Errorf("failed to register /%s: %w", command.Name, err)
		}
	}
	h.logger.Info("Slash commands registered successfully")
	return nil
}

func (h *CommandHandler) OnInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "ping":
		h.ping(s, i)
	case "morning-check":
		h.testMorningCheck(s, i)
	case "evening-reminder":
		h.testEveningReminder(s, i)
	}
}

func (h *CommandHandler) ping(s *discordgo.Session, i *discordgo.InteractionCreate) {
	latency := s.HeartbeatLatency().Round(time.Millisecond)
	h.respond(s, i, fmt.Sprintf("🏓 Pong! Latency: %s", latency))
}

func (h *CommandHandler) testMorningCheck(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := h.deferReply(s, i); err != nil {
		return
	}

	channelID, roleID := testChannelID(), viper.GetInt64("attendance.role-id")
	ttl := time.Duration(viper.GetInt("attendance.test-ttl-seconds")) * time.Second

	if _, err := h.attendance.Morning(context.Background(), channelID, roleID, ttl); err != nil {
		h.logger.Errorf("test morning check failed: %v", err)
		h.followup(s, i, fmt.Sprintf("❌ Failed: %v", err))
		return
	}
	h.followup(s, i, "✅ Morning check test completed! Check the test channel.")
}

func (h *CommandHandler) testEveningReminder(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := h.deferReply(s, i); err != nil {
		return
	}

	channelID, roleID := testChannelID(), viper.GetInt64("attendance.role-id")

	if err := h.attendance.Evening(context.Background(), channelID, roleID); err != nil {
		h.logger.Errorf("test evening reminder failed: %v", err)
		h.followup(s, i, fmt.Sprintf("❌ Failed: %v", err))
		return
	}
	h.followup(s, i, "✅ Evening reminder test completed! Check the test channel.")
}

func (h *CommandHandler) respond(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		h.logger.Errorf("failed to respond to interaction: %v", err)
	}
}

func (h *CommandHandler) deferReply(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		h.logger.Errorf("failed to defer interaction: %v", err)
	}
	return err
}

func (h *CommandHandler) followup(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	_, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	if err != nil {
		h.logger.Errorf("failed to send interaction followup: %v", err)
	}
}

func testChannelID() int64 {
	if id := viper.GetInt64("attendance.test-channel-id"); id != 0 {
		return id
	}
	return viper.GetInt64("attendance.channel-id")
}
