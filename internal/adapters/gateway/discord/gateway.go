package discord

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/bwmarrin/discordgo"
	"github.com/hillkeeper/hillkeeper/internal/domain/common/errorz"
	"github.com/hillkeeper/hillkeeper/internal/domain/entity"
	"github.com/hillkeeper/hillkeeper/pkg/logger/types"
)

const reactionPageSize = 100

// Gateway implements the messaging gateway on the Discord REST API. Domain
// ids are int64 snowflakes; the API speaks decimal strings.
type Gateway struct {
	session *discordgo.Session
	logger  *types.Logger
}

func New(session *discordgo.Session, logger *types.Logger) *Gateway {
	return &Gateway{
		session: session,
		logger:  logger,
	}
}

func fid(id int64) string {
	return strconv.FormatInt(id, 10)
}

func (g *Gateway) ResolveChannel(ctx context.Context, channelID int64) error {
	if _, err := g.session.Channel(fid(channelID), discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("%w: %d: %v", errorz.ChannelNotFound, channelID, err)
	}
	return nil
}

func (g *Gateway) ResolveRole(ctx context.Context, channelID, roleID int64) error {
	channel, err := g.session.Channel(fid(channelID), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("%w: %d: %v", errorz.ChannelNotFound, channelID, err)
	}

	roles, err := g.session.GuildRoles(channel.GuildID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("%w: %d: %v", errorz.RoleNotFound, roleID, err)
	}
	for _, role := range roles {
		if role.ID == fid(roleID) {
			return nil
		}
	}
	return fmt.Errorf("%w: %d", errorz.RoleNotFound, roleID)
}

func (g *Gateway) Post(ctx context.Context, channelID int64, content string) (int64, error) {
	message, err := g.session.ChannelMessageSend(fid(channelID), content, discordgo.WithContext(ctx))
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(message.ID, 10, 64)
}

func (g *Gateway) AddReaction(ctx context.Context, channelID, messageID int64, emoji string) error {
	return g.session.MessageReactionAdd(fid(channelID), fid(messageID), emoji, discordgo.WithContext(ctx))
}

func (g *Gateway) RemoveUserReaction(ctx context.Context, channelID, messageID, userID int64, emoji string) error {
	return g.session.MessageReactionRemove(fid(channelID), fid(messageID), emoji, fid(userID), discordgo.WithContext(ctx))
}

func (g *Gateway) FetchMessage(ctx context.Context, channelID, messageID int64) error {
	_, err := g.session.ChannelMessage(fid(channelID), fid(messageID), discordgo.WithContext(ctx))
	return err
}

// UsersWhoReacted pages through everyone who reacted with the given emoji,
// dropping bots, users that left the guild and users lacking the role.
func (g *Gateway) UsersWhoReacted(ctx context.Context, channelID, messageID int64, emoji string, roleID int64) ([]entity.Member, error) {
	channel, err := g.session.Channel(fid(channelID), discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("%w: %d: %v", errorz.ChannelNotFound, channelID, err)
	}

	var members []entity.Member
	after := ""
	for {
		users, err := g.session.MessageReactions(
			fid(channelID), fid(messageID), emoji,
			reactionPageSize, "", after,
			discordgo.WithContext(ctx),
		)
		if err != nil {
			return nil, err
		}

		for _, user := range users {
			if user.Bot {
				continue
			}

			member, errMember := g.session.GuildMember(channel.GuildID, user.ID, discordgo.WithContext(ctx))
			if errMember != nil {
				g.logger.Debugf("skipping reactor %s: %v", user.ID, errMember)
				continue
			}
			if !slices.Contains(member.Roles, fid(roleID)) {
				continue
			}

			id, errParse := strconv.ParseInt(user.ID, 10, 64)
			if errParse != nil {
				continue
			}

			name := member.Nick
			if name == "" {
				name = user.Username
			}
			members = append(members, entity.Member{ID: id, DisplayName: name})
		}

		if len(users) < reactionPageSize {
			return members, nil
		}
		after = users[len(users)-1].ID
	}
}
