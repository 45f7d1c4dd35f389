package infrastructure

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/0xcathiefish/discord-qqmusic-bot/internal/modules/music/application/ports"
	"github.com/0xcathiefish/discord-qqmusic-bot/internal/modules/music/domain"
)

// DiscordNotifier sends replies through the Discord session.
type DiscordNotifier struct {
	session *discordgo.Session
}

// NewDiscordNotifier creates a new DiscordNotifier.
func NewDiscordNotifier(session *discordgo.Session) *DiscordNotifier {
	return &DiscordNotifier{
		session: session,
	}
}

// Reply sends content as an inline reply to the target message.
func (n *DiscordNotifier) Reply(
	ctx context.Context,
	target domain.ReplyTarget,
	content string,
) error {
	_, err := n.session.ChannelMessageSendReply(
		target.ChannelID.String(),
		content,
		&discordgo.MessageReference{
			MessageID: target.MessageID.String(),
			ChannelID: target.ChannelID.String(),
		},
		discordgo.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("send reply: %w", err)
	}
	return nil
}

// Ensure DiscordNotifier implements ports.Notifier.
var _ ports.Notifier = (*DiscordNotifier)(nil)
