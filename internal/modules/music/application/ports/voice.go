package ports

import (
	"context"

	"github.com/disgoorg/snowflake/v2"

	"github.com/0xcathiefish/discord-qqmusic-bot/internal/modules/music/domain"
)

// VoiceConnector acquires voice channel connections.
type VoiceConnector interface {
	// Join connects the bot to the given voice channel and returns the
	// guild's exclusive connection. Joining a guild the bot is already
	// connected to reuses or moves the existing connection, never
	// duplicates it.
	Join(ctx context.Context, guildID, channelID snowflake.ID) (domain.VoiceSession, error)
}

// VoiceStateProvider reports which voice channel a user occupies.
type VoiceStateProvider interface {
	// UserVoiceChannel returns the voice channel the user is currently in,
	// or 0 if they are not in any voice channel.
	UserVoiceChannel(guildID, userID snowflake.ID) (snowflake.ID, error)
}
