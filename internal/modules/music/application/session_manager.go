package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/disgoorg/snowflake/v2"

	"github.com/0xcathiefish/discord-qqmusic-bot/internal/modules/music/application/ports"
	"github.com/0xcathiefish/discord-qqmusic-bot/internal/modules/music/domain"
)

// SessionManager owns every guild's playback session and is the only
// component that mutates them. Callers must serialize per guild (the
// dispatcher's per-guild lanes provide that); the manager does not lock
// individual sessions.
type SessionManager struct {
	repo       domain.SessionRepository
	voice      ports.VoiceConnector
	voiceState ports.VoiceStateProvider
	downloader ports.AudioDownloader
}

// NewSessionManager creates a SessionManager.
func NewSessionManager(
	repo domain.SessionRepository,
	voice ports.VoiceConnector,
	voiceState ports.VoiceStateProvider,
	downloader ports.AudioDownloader,
) *SessionManager {
	return &SessionManager{
		repo:       repo,
		voice:      voice,
		voiceState: voiceState,
		downloader: downloader,
	}
}

// Play drives the session through Joining, Downloading, and Playing for the
// resolved track URL. A track already playing in the guild is stopped first.
// Any failure resets the session to Idle with the voice connection released;
// nothing is retried.
func (m *SessionManager) Play(
	ctx context.Context,
	guildID, userID snowflake.ID,
	trackID, url string,
) error {
	channelID, err := m.voiceState.UserVoiceChannel(guildID, userID)
	if err != nil {
		return fmt.Errorf("look up requester voice state: %w", err)
	}
	if channelID == 0 {
		return ErrNotInVoiceChannel
	}

	session := m.repo.Get(guildID)
	if session == nil {
		session = domain.NewPlaybackSession(guildID)
		m.repo.Save(session)
	}

	// A play on top of an active track replaces it.
	session.StopTrack()

	if err := session.BeginJoin(); err != nil {
		m.teardown(session)
		return err
	}
	conn, err := m.voice.Join(ctx, guildID, channelID)
	if err != nil {
		m.teardown(session)
		return fmt.Errorf("join voice channel: %w", err)
	}
	if err := session.AttachConnection(conn); err != nil {
		m.teardown(session)
		return err
	}

	audio, err := m.downloader.Download(ctx, url)
	if err != nil {
		m.teardown(session)
		return fmt.Errorf("download track %s: %w", trackID, err)
	}

	handle, err := conn.Play(ctx, audio)
	if err != nil {
		m.teardown(session)
		return fmt.Errorf("start stream for track %s: %w", trackID, err)
	}
	if err := session.StartTrack(trackID, handle); err != nil {
		handle.Stop()
		m.teardown(session)
		return err
	}

	slog.Info("started playback",
		"guild_id", guildID,
		"track_id", trackID,
		"channel_id", channelID,
	)

	return nil
}

// Cancel stops the guild's current track and releases its voice connection.
// Cancelling a guild with no session is a success no-op.
func (m *SessionManager) Cancel(ctx context.Context, guildID snowflake.ID) error {
	session := m.repo.Get(guildID)
	if session == nil {
		return nil
	}

	err := session.Release()
	m.repo.Delete(guildID)
	if err != nil {
		return fmt.Errorf("release voice connection: %w", err)
	}

	slog.Info("cancelled playback", "guild_id", guildID)

	return nil
}

// Shutdown releases every live session. Called once on process shutdown,
// after the executor has drained.
func (m *SessionManager) Shutdown() {
	for _, session := range m.repo.All() {
		guildID := session.GuildID()
		if err := session.Release(); err != nil {
			slog.Warn("failed to release session", "guild_id", guildID, "error", err)
		}
		m.repo.Delete(guildID)
	}
}

// teardown resets a session after an unrecoverable error: track stopped,
// connection released, state deleted. The error is reported to the
// requester by the executor, never retried here.
func (m *SessionManager) teardown(session *domain.PlaybackSession) {
	if err := session.Release(); err != nil {
		slog.Warn("failed to release session during teardown",
			"guild_id", session.GuildID(),
			"error", err,
		)
	}
	m.repo.Delete(session.GuildID())
}
