package application

import (
	"context"
	"errors"
	"log/slog"

	"github.com/0xcathiefish/discord-qqmusic-bot/internal/modules/music/application/ports"
	"github.com/0xcathiefish/discord-qqmusic-bot/internal/modules/music/domain"
)

// User-facing reply texts. Internal errors never reach the chat interface
// raw; they are logged with detail and reported as one of these.
const (
	PlaySuccessReply    = "Got it! I'm playing this music"
	CancelSuccessReply  = "Stopped the current track and left the voice channel"
	CancelFailureReply  = "Sorry, I couldn't stop the current track"
	SearchFailureReply  = "Sorry, the music search failed. Please try again"
	ResolveFailureReply = "Sorry, I couldn't get a play URL for that track"
	PlayFailureReply    = "Sorry, I couldn't play that track"
)

// Executor consumes commands and dispatches them to the catalog and the
// session manager. Every command produces exactly one reply.
type Executor struct {
	catalog  ports.Catalog
	sessions *SessionManager
	notifier ports.Notifier
}

// NewExecutor creates an Executor.
func NewExecutor(catalog ports.Catalog, sessions *SessionManager, notifier ports.Notifier) *Executor {
	return &Executor{
		catalog:  catalog,
		sessions: sessions,
		notifier: notifier,
	}
}

// Execute runs one command to completion and sends its reply. A failed
// reply send is logged, not retried.
func (e *Executor) Execute(ctx context.Context, cmd domain.Command) {
	var reply string

	switch c := cmd.(type) {
	case *domain.CancelCommand:
		reply = e.cancel(ctx, c)
	case *domain.SearchCommand:
		reply = e.search(ctx, c)
	case *domain.PlayCommand:
		reply = e.play(ctx, c)
	default:
		slog.Error("unhandled command type", "command", cmd)
		return
	}

	if err := e.notifier.Reply(ctx, cmd.Target(), reply); err != nil {
		slog.Error("failed to send reply",
			"guild_id", cmd.Guild(),
			"error", err,
		)
	}
}

func (e *Executor) cancel(ctx context.Context, cmd *domain.CancelCommand) string {
	if err := e.sessions.Cancel(ctx, cmd.GuildID); err != nil {
		slog.Error("failed to cancel playback", "guild_id", cmd.GuildID, "error", err)
		return CancelFailureReply
	}
	return CancelSuccessReply
}

func (e *Executor) search(ctx context.Context, cmd *domain.SearchCommand) string {
	result, err := e.catalog.Search(ctx, cmd.Query)
	if err != nil {
		slog.Error("catalog search failed",
			"guild_id", cmd.GuildID,
			"query", cmd.Query,
			"error", err,
		)
		return SearchFailureReply
	}

	slog.Debug("catalog search succeeded",
		"guild_id", cmd.GuildID,
		"query", cmd.Query,
		"results", len(result),
	)

	return FormatSearchResult(result)
}

func (e *Executor) play(ctx context.Context, cmd *domain.PlayCommand) string {
	url, err := e.catalog.ResolvePlayURL(ctx, cmd.TrackID)
	if err != nil {
		slog.Error("failed to resolve play url",
			"guild_id", cmd.GuildID,
			"track_id", cmd.TrackID,
			"error", err,
		)
		return ResolveFailureReply
	}

	if err := e.sessions.Play(ctx, cmd.GuildID, cmd.UserID, cmd.TrackID, url); err != nil {
		if errors.Is(err, ErrNotInVoiceChannel) {
			// User input error: reported verbatim, no escalation.
			slog.Info("play requested outside a voice channel",
				"guild_id", cmd.GuildID,
				"user_id", cmd.UserID,
			)
			return ErrNotInVoiceChannel.Error()
		}
		slog.Error("failed to start playback",
			"guild_id", cmd.GuildID,
			"track_id", cmd.TrackID,
			"error", err,
		)
		return PlayFailureReply
	}

	return PlaySuccessReply
}
