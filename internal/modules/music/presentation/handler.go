package presentation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"

	"github.com/0xcathiefish/discord-qqmusic-bot/internal/modules/music/application"
	"github.com/0xcathiefish/discord-qqmusic-bot/internal/modules/music/application/ports"
	"github.com/0xcathiefish/discord-qqmusic-bot/internal/modules/music/domain"
)

// MessageHandler is the ingestion path: it decodes MessageCreate events,
// runs the parser, sends any immediate usage reply, and hands accepted
// commands to the queue. It never blocks on catalog or voice I/O.
type MessageHandler struct {
	parser   *application.Parser
	queue    *application.CommandQueue
	notifier ports.Notifier
}

// NewMessageHandler creates a MessageHandler.
func NewMessageHandler(
	parser *application.Parser,
	queue *application.CommandQueue,
	notifier ports.Notifier,
) *MessageHandler {
	return &MessageHandler{
		parser:   parser,
		queue:    queue,
		notifier: notifier,
	}
}

// HandleMessageCreate processes one inbound message event.
func (h *MessageHandler) HandleMessageCreate(_ *discordgo.Session, m *discordgo.MessageCreate) {
	msg, err := messageFromEvent(m)
	if err != nil {
		slog.Debug("skipping undecodable message event", "error", err)
		return
	}

	result := h.parser.Parse(msg)

	ctx := context.Background()

	if result.Reply != "" {
		// Parse-time replies are a direct side effect of ingestion, not
		// part of the command protocol.
		target := domain.ReplyTarget{ChannelID: msg.ChannelID, MessageID: msg.MessageID}
		if err := h.notifier.Reply(ctx, target, result.Reply); err != nil {
			slog.Error("failed to send parse reply",
				"guild_id", msg.GuildID,
				"error", err,
			)
		}
	}

	if result.Command != nil {
		// Blocks when the queue is full: accepted backpressure, commands
		// are never dropped.
		if err := h.queue.Enqueue(ctx, result.Command); err != nil {
			slog.Error("failed to enqueue command",
				"guild_id", msg.GuildID,
				"error", err,
			)
		}
	}
}

// messageFromEvent converts a discordgo event into the parser's input.
// Direct messages carry no guild and are rejected here.
func messageFromEvent(m *discordgo.MessageCreate) (application.Message, error) {
	if m.GuildID == "" {
		return application.Message{}, fmt.Errorf("message %s has no guild", m.ID)
	}

	guildID, err := snowflake.Parse(m.GuildID)
	if err != nil {
		return application.Message{}, fmt.Errorf("parse guild id: %w", err)
	}
	channelID, err := snowflake.Parse(m.ChannelID)
	if err != nil {
		return application.Message{}, fmt.Errorf("parse channel id: %w", err)
	}
	messageID, err := snowflake.Parse(m.ID)
	if err != nil {
		return application.Message{}, fmt.Errorf("parse message id: %w", err)
	}

	msg := application.Message{
		GuildID:   guildID,
		ChannelID: channelID,
		MessageID: messageID,
		Content:   m.Content,
	}

	if m.Author != nil {
		msg.AuthorIsBot = m.Author.Bot
		authorID, err := snowflake.Parse(m.Author.ID)
		if err != nil {
			return application.Message{}, fmt.Errorf("parse author id: %w", err)
		}
		msg.AuthorID = authorID
	}

	for _, user := range m.Mentions {
		id, err := snowflake.Parse(user.ID)
		if err != nil {
			continue
		}
		msg.Mentions = append(msg.Mentions, id)
	}

	return msg, nil
}
