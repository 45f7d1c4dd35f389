package application

import (
	"slices"
	"strings"
	"unicode"

	"github.com/disgoorg/snowflake/v2"

	"github.com/0xcathiefish/discord-qqmusic-bot/internal/modules/music/domain"
)

// Replies the parser produces directly, without constructing a command.
const (
	SearchUsageReply    = "Error! eg. @me /search 永不失联的爱"
	PlayUsageReply      = "Error! eg. @me /play 002GwAma2DGN2x"
	UnknownCommandReply = "Error: Unknown Command"
)

// Message is a decoded inbound chat message, the parser's only input.
type Message struct {
	GuildID     snowflake.ID
	ChannelID   snowflake.ID
	MessageID   snowflake.ID
	AuthorID    snowflake.ID
	AuthorIsBot bool
	Content     string
	Mentions    []snowflake.ID
}

// ParseResult is the parser's decision for one message: at most one command
// and at most one immediate reply. Both zero means silent ignore.
type ParseResult struct {
	Command domain.Command
	Reply   string
}

// Parser turns raw chat messages into typed commands. It is pure: no I/O,
// no calls into the catalog or session manager.
type Parser struct {
	botID snowflake.ID
}

// NewParser creates a Parser that answers to mentions of botID.
func NewParser(botID snowflake.ID) *Parser {
	return &Parser{botID: botID}
}

// Parse decides whether the message addresses the bot and, if so, which
// command it carries. Messages authored by bots are ignored before mention
// matching. Empty arguments and unknown commands produce a usage reply and
// no command.
func (p *Parser) Parse(msg Message) ParseResult {
	if msg.AuthorIsBot {
		return ParseResult{}
	}
	if !slices.Contains(msg.Mentions, p.botID) {
		return ParseResult{}
	}

	// Strip every form of the bot's own mention token.
	content := msg.Content
	content = strings.ReplaceAll(content, "<@"+p.botID.String()+">", "")
	content = strings.ReplaceAll(content, "<@!"+p.botID.String()+">", "")
	content = strings.TrimSpace(content)

	command, argument := splitCommand(content)
	target := domain.ReplyTarget{ChannelID: msg.ChannelID, MessageID: msg.MessageID}

	switch command {
	case "/cancel":
		return ParseResult{Command: &domain.CancelCommand{
			GuildID: msg.GuildID,
			ReplyTo: target,
		}}

	case "/search":
		if argument == "" {
			return ParseResult{Reply: SearchUsageReply}
		}
		return ParseResult{Command: &domain.SearchCommand{
			GuildID: msg.GuildID,
			ReplyTo: target,
			Query:   argument,
		}}

	case "/play":
		if argument == "" {
			return ParseResult{Reply: PlayUsageReply}
		}
		return ParseResult{Command: &domain.PlayCommand{
			GuildID: msg.GuildID,
			ReplyTo: target,
			UserID:  msg.AuthorID,
			TrackID: argument,
		}}

	default:
		return ParseResult{Reply: UnknownCommandReply}
	}
}

// splitCommand splits trimmed text on the first whitespace run into the
// command token and its trimmed argument.
func splitCommand(text string) (command, argument string) {
	i := strings.IndexFunc(text, unicode.IsSpace)
	if i < 0 {
		return text, ""
	}
	return text[:i], strings.TrimSpace(text[i:])
}
