package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/disgoorg/snowflake/v2"
)

// SessionState is the lifecycle state of a guild's playback session.
type SessionState int

const (
	StateIdle SessionState = iota
	StateJoining
	StateDownloading
	StatePlaying
	StateStopping
)

// String returns the lowercase state name.
func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateJoining:
		return "joining"
	case StateDownloading:
		return "downloading"
	case StatePlaying:
		return "playing"
	case StateStopping:
		return "stopping"
	default:
		return "unknown"
	}
}

// ErrInvalidTransition is returned when a session method is called in a state
// that does not permit it.
var ErrInvalidTransition = errors.New("invalid session transition")

// TrackHandle controls one in-flight audio stream.
type TrackHandle interface {
	// Stop halts the stream. Safe to call more than once.
	Stop()
}

// VoiceSession is an exclusive connection to one guild's voice channel.
// At most one exists per guild; it is owned by that guild's PlaybackSession.
type VoiceSession interface {
	// Play streams the buffered audio payload and returns a handle for
	// stopping it.
	Play(ctx context.Context, audio []byte) (TrackHandle, error)

	// Close disconnects from the voice channel.
	Close() error
}

// CurrentTrack is the track a session is streaming right now.
type CurrentTrack struct {
	TrackID string
	Handle  TrackHandle
}

// PlaybackSession is the per-guild playback state machine:
//
//	Idle -> Joining -> Downloading -> Playing -> Idle
//
// with any state collapsing back to Idle on cancel or unrecoverable error.
// All mutation happens on the single executor path serialized per guild, so
// the session itself carries no locking.
type PlaybackSession struct {
	guildID snowflake.ID
	state   SessionState
	conn    VoiceSession
	current *CurrentTrack
}

// NewPlaybackSession creates an idle session for the guild.
func NewPlaybackSession(guildID snowflake.ID) *PlaybackSession {
	return &PlaybackSession{
		guildID: guildID,
		state:   StateIdle,
	}
}

// GuildID returns the guild this session belongs to.
// No setter: a session never changes guilds.
func (s *PlaybackSession) GuildID() snowflake.ID {
	return s.guildID
}

// State returns the current lifecycle state.
func (s *PlaybackSession) State() SessionState {
	return s.state
}

// Connection returns the owned voice connection, or nil when disconnected.
func (s *PlaybackSession) Connection() VoiceSession {
	return s.conn
}

// Current returns the streaming track, or nil when nothing is playing.
func (s *PlaybackSession) Current() *CurrentTrack {
	return s.current
}

// StopTrack stops and clears the streaming track, if any, moving a Playing
// session back to Idle. The voice connection is retained so a follow-up play
// can reuse it. Idempotent: stopping with no active track is a no-op.
func (s *PlaybackSession) StopTrack() {
	if s.current != nil {
		s.current.Handle.Stop()
		s.current = nil
	}
	if s.state == StatePlaying {
		s.state = StateIdle
	}
}

// BeginJoin starts the join transition. Only valid from Idle.
func (s *PlaybackSession) BeginJoin() error {
	if s.state != StateIdle {
		return s.transitionErr(StateJoining)
	}
	s.state = StateJoining
	return nil
}

// AttachConnection records the acquired voice connection and moves the
// session to Downloading. Only valid from Joining.
func (s *PlaybackSession) AttachConnection(conn VoiceSession) error {
	if s.state != StateJoining {
		return s.transitionErr(StateDownloading)
	}
	s.conn = conn
	s.state = StateDownloading
	return nil
}

// StartTrack records the stream handle for the track that just started and
// moves the session to Playing. Only valid from Downloading.
func (s *PlaybackSession) StartTrack(trackID string, handle TrackHandle) error {
	if s.state != StateDownloading {
		return s.transitionErr(StatePlaying)
	}
	s.current = &CurrentTrack{TrackID: trackID, Handle: handle}
	s.state = StatePlaying
	return nil
}

// Release stops any streaming track, closes the voice connection, and resets
// the session to Idle. Valid from every state; used for cancel, terminal
// errors, and shutdown.
func (s *PlaybackSession) Release() error {
	s.state = StateStopping
	if s.current != nil {
		s.current.Handle.Stop()
		s.current = nil
	}
	var err error
	if s.conn != nil {
		err = s.conn.Close()
		s.conn = nil
	}
	s.state = StateIdle
	return err
}

func (s *PlaybackSession) transitionErr(to SessionState) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.state, to)
}
