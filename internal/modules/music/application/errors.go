package application

import "errors"

var (
	// ErrNotInVoiceChannel is returned when playback is requested by a user
	// who is not in any voice channel. Checked before any join attempt.
	ErrNotInVoiceChannel = errors.New("you need to join a voice channel first")

	// ErrQueueClosed is returned by queue operations after Close.
	ErrQueueClosed = errors.New("command queue is closed")
)
