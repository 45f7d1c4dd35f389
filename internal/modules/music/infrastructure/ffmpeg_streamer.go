package infrastructure

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"

	"layeh.com/gopus"
)

// Audio format expected by the Discord voice websocket: 48kHz stereo,
// 960 samples per channel per 20ms frame.
const (
	sampleRate = 48000
	channels   = 2
	frameSize  = 960
)

// FFmpegOpusStreamer decodes a buffered audio payload with ffmpeg into raw
// PCM and encodes it into 20ms opus frames. ffmpeg handles whatever
// container the catalog serves; the rest of the pipeline never inspects
// audio bytes.
func FFmpegOpusStreamer(ctx context.Context, audio []byte) (<-chan []byte, error) {
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-i", "pipe:0",
		"-f", "s16le",
		"-ar", fmt.Sprintf("%d", sampleRate),
		"-ac", fmt.Sprintf("%d", channels),
		"-loglevel", "warning",
		"pipe:1",
	)
	cmd.Stdin = bytes.NewReader(audio)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe error: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("command start error: %w", err)
	}

	encoder, err := gopus.NewEncoder(sampleRate, channels, gopus.Audio)
	if err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return nil, fmt.Errorf("encoder error: %w", err)
	}

	frames := make(chan []byte, 16)

	go func() {
		defer close(frames)
		defer func() {
			_ = cmd.Process.Kill()
			_ = cmd.Wait()
		}()

		pcmBuf := make([]byte, frameSize*channels*2)
		intBuf := make([]int16, frameSize*channels)

		for {
			_, err := io.ReadFull(stdout, pcmBuf)
			if err != nil {
				if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
					slog.Warn("pcm read failed", "error", err)
				}
				return
			}

			for i := range intBuf {
				intBuf[i] = int16(binary.LittleEndian.Uint16(pcmBuf[i*2 : i*2+2]))
			}

			opus, err := encoder.Encode(intBuf, frameSize, len(pcmBuf))
			if err != nil {
				slog.Warn("opus encode failed", "error", err)
				return
			}

			select {
			case frames <- opus:
			case <-ctx.Done():
				return
			}
		}
	}()

	return frames, nil
}

// Ensure the streamer matches the connector's expected signature.
var _ FrameStreamer = FFmpegOpusStreamer
