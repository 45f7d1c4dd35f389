package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"

	"github.com/0xcathiefish/discord-qqmusic-bot/internal/modules/music/application/ports"
	"github.com/0xcathiefish/discord-qqmusic-bot/internal/modules/music/domain"
)

// FrameStreamer turns a downloaded audio payload into opus frames. Encoding
// and container handling live entirely behind this function; the core never
// inspects audio bytes. Implementations must return when ctx is cancelled.
type FrameStreamer func(ctx context.Context, audio []byte) (<-chan []byte, error)

// DiscordVoiceConnector joins voice channels over the discordgo session.
type DiscordVoiceConnector struct {
	session  *discordgo.Session
	streamer FrameStreamer
}

// NewDiscordVoiceConnector creates a connector that streams audio with the
// given FrameStreamer.
func NewDiscordVoiceConnector(session *discordgo.Session, streamer FrameStreamer) *DiscordVoiceConnector {
	return &DiscordVoiceConnector{
		session:  session,
		streamer: streamer,
	}
}

// Join connects to the voice channel and returns the guild's connection.
// discordgo keeps one voice connection per guild, so joining while already
// connected moves the existing connection instead of opening a second one.
func (c *DiscordVoiceConnector) Join(
	ctx context.Context,
	guildID, channelID snowflake.ID,
) (domain.VoiceSession, error) {
	vc, err := c.session.ChannelVoiceJoin(guildID.String(), channelID.String(), false, true)
	if err != nil {
		return nil, fmt.Errorf("join voice channel %s: %w", channelID, err)
	}

	return &discordVoiceSession{
		vc:       vc,
		streamer: c.streamer,
	}, nil
}

// discordVoiceSession is a live discordgo voice connection for one guild.
type discordVoiceSession struct {
	vc       *discordgo.VoiceConnection
	streamer FrameStreamer
}

// Play streams the payload's frames onto the voice connection from a
// background goroutine and returns immediately with a stop handle.
func (s *discordVoiceSession) Play(ctx context.Context, audio []byte) (domain.TrackHandle, error) {
	// The stream outlives the command that started it, so it runs under its
	// own context. Cancelling it tears down the whole pipeline: the frame
	// producer (and its ffmpeg process) as well as the feed loop below.
	streamCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	frames, err := s.streamer(streamCtx, audio)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("prepare audio frames: %w", err)
	}

	handle := &streamHandle{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(handle.done)

		if err := s.vc.Speaking(true); err != nil {
			slog.Warn("failed to set speaking state", "error", err)
		}
		defer func() {
			if err := s.vc.Speaking(false); err != nil {
				slog.Warn("failed to clear speaking state", "error", err)
			}
		}()

		// discordgo paces the opus sender itself; this loop only feeds it.
		for {
			select {
			case <-streamCtx.Done():
				return
			case frame, ok := <-frames:
				if !ok {
					return
				}
				select {
				case s.vc.OpusSend <- frame:
				case <-streamCtx.Done():
					return
				}
			}
		}
	}()

	return handle, nil
}

// Close disconnects from the voice channel.
func (s *discordVoiceSession) Close() error {
	return s.vc.Disconnect()
}

// streamHandle stops one in-flight stream.
type streamHandle struct {
	cancel   context.CancelFunc
	done     chan struct{}
	stopOnce sync.Once
}

// Stop halts the stream and waits for the frame goroutine to exit, so the
// voice connection is quiet before a new track starts.
func (h *streamHandle) Stop() {
	h.stopOnce.Do(func() {
		h.cancel()
		<-h.done
	})
}

// Ensure the adapter satisfies its ports.
var (
	_ ports.VoiceConnector = (*DiscordVoiceConnector)(nil)
	_ domain.VoiceSession  = (*discordVoiceSession)(nil)
	_ domain.TrackHandle   = (*streamHandle)(nil)
)
