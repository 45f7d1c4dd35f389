package domain

import (
	"github.com/disgoorg/snowflake/v2"
)

// ReplyTarget identifies the message a command reply should be attached to.
// It is threaded through the pipeline unchanged and only interpreted at the
// chat boundary.
type ReplyTarget struct {
	ChannelID snowflake.ID
	MessageID snowflake.ID
}

// Command is a typed user instruction parsed from a chat message.
// Exactly one concrete command is produced per accepted message.
type Command interface {
	// Guild returns the guild the command applies to. Commands sharing a
	// guild must execute in submission order.
	Guild() snowflake.ID

	// Target returns where the reply for this command should be delivered.
	Target() ReplyTarget
}

// CancelCommand stops the current track and releases the guild's voice
// connection. Issued via "/cancel".
type CancelCommand struct {
	GuildID snowflake.ID
	ReplyTo ReplyTarget
}

func (c *CancelCommand) Guild() snowflake.ID { return c.GuildID }
func (c *CancelCommand) Target() ReplyTarget { return c.ReplyTo }

// SearchCommand looks up tracks in the music catalog. Issued via
// "/search <keywords>". Query is non-empty and trimmed; the parser rejects
// empty arguments before a command is constructed.
type SearchCommand struct {
	GuildID snowflake.ID
	ReplyTo ReplyTarget
	Query   string
}

func (c *SearchCommand) Guild() snowflake.ID { return c.GuildID }
func (c *SearchCommand) Target() ReplyTarget { return c.ReplyTo }

// PlayCommand requests playback of a track in the requester's voice channel.
// Issued via "/play <track id>". TrackID is non-empty and trimmed.
type PlayCommand struct {
	GuildID snowflake.ID
	ReplyTo ReplyTarget
	UserID  snowflake.ID // requester; must occupy a voice channel for playback
	TrackID string
}

func (c *PlayCommand) Guild() snowflake.ID { return c.GuildID }
func (c *PlayCommand) Target() ReplyTarget { return c.ReplyTo }
