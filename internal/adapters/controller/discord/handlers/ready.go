package handlers

import (
	"github.com/bwmarrin/discordgo"
	"github.com/hillkeeper/hillkeeper/pkg/logger/types"
)

// OnReady logs the connected account and registers the slash commands once
// the gateway session is up.
func OnReady(commands *CommandHandler, logger *types.Logger) func(*discordgo.Session, *discordgo.Ready) {
	return func(s *discordgo.Session, r *discordgo.Ready) {
		logger.Infof("Bot is ready: %s (id: %s)", r.User.Username, r.User.ID)

		if err := commands.Register(s); err != nil {
			logger.Errorf("failed to register slash commands: %v", err)
		}
	}
}
