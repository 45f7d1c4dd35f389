package domain

import (
	"github.com/disgoorg/snowflake/v2"
)

// SessionRepository stores and retrieves per-guild playback sessions.
type SessionRepository interface {
	// Get returns the PlaybackSession for the given guild, or nil if none exists.
	Get(guildID snowflake.ID) *PlaybackSession

	// Save stores the PlaybackSession.
	Save(session *PlaybackSession)

	// Delete removes the PlaybackSession for the given guild.
	Delete(guildID snowflake.ID)

	// All returns every stored session. Used for shutdown cleanup.
	All() []*PlaybackSession
}
