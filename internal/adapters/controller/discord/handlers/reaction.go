package handlers

import (
	"context"
	"strconv"

	"github.com/bwmarrin/discordgo"
	"github.com/hillkeeper/hillkeeper/internal/domain/service"
	"github.com/hillkeeper/hillkeeper/pkg/logger/types"
)

type ReactionHandler struct {
	service *service.ReactionService
	logger  *types.Logger
}

func NewReactionHandler(reactionService *service.ReactionService, logger *types.Logger) *ReactionHandler {
	return &ReactionHandler{
		service: reactionService,
		logger:  logger,
	}
}

// OnReactionAdd forwards every inbound reaction to the reconciler. Signals
// from the bot itself and malformed ids are dropped here; everything else is
// the reconciler's call.
func (h *ReactionHandler) OnReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	if s.State.User != nil && r.UserID == s.State.User.ID {
		return
	}

	messageID, err := strconv.ParseInt(r.MessageID, 10, 64)
	if err != nil {
		return
	}
	userID, err := strconv.ParseInt(r.UserID, 10, 64)
	if err != nil {
		return
	}

	username := r.UserID
	if r.Member != nil {
		if r.Member.Nick != "" {
			username = r.Member.Nick
		} else if r.Member.User != nil {
			username = r.Member.User.Username
		}
	}

	signal := service.ReactionSignal{
		MessageID: messageID,
		UserID:    userID,
		Username:  username,
		Emoji:     r.Emoji.Name,
	}
	if err = h.service.HandleReaction(context.Background(), signal); err != nil {
		h.logger.Errorf("failed to handle reaction (user: %d, message: %d): %v", userID, messageID, err)
	}
}
