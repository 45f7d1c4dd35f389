package application

import (
	"context"
	"errors"
	"log/slog"

	"github.com/disgoorg/snowflake/v2"
	"golang.org/x/sync/errgroup"

	"github.com/0xcathiefish/discord-qqmusic-bot/internal/modules/music/application/ports"
	"github.com/0xcathiefish/discord-qqmusic-bot/internal/modules/music/domain"
)

// laneBuffer bounds each per-guild lane. A full lane blocks the dispatch
// loop, which in turn backpressures the main command queue.
const laneBuffer = 16

// ShutdownReply is sent for a command that was accepted but cannot be
// delivered to its lane because the dispatcher is shutting down. It is the
// only reply not produced by the executor.
const ShutdownReply = "Sorry, I'm shutting down. Please try again later"

// commandRunner executes one command to completion.
type commandRunner interface {
	Execute(ctx context.Context, cmd domain.Command)
}

// Dispatcher drains the command queue and fans commands out to one lane per
// guild. Commands sharing a guild run in submission order on that guild's
// lane goroutine; commands for different guilds run concurrently. This is
// what makes the session manager safe without per-session locking.
type Dispatcher struct {
	queue    *CommandQueue
	runner   commandRunner
	notifier ports.Notifier
}

// NewDispatcher creates a Dispatcher draining queue into runner.
func NewDispatcher(queue *CommandQueue, runner commandRunner, notifier ports.Notifier) *Dispatcher {
	return &Dispatcher{
		queue:    queue,
		runner:   runner,
		notifier: notifier,
	}
}

// Run dispatches until the queue closes or the context is cancelled, then
// waits for every lane to finish its in-flight commands. Lanes are created
// lazily on a guild's first command and kept for the lifetime of the run;
// the set of guilds a bot serves is small.
func (d *Dispatcher) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	lanes := make(map[snowflake.ID]chan domain.Command)

	for {
		cmd, err := d.queue.Dequeue(ctx)
		if err != nil {
			if !errors.Is(err, ErrQueueClosed) && !errors.Is(err, context.Canceled) {
				slog.Error("dispatcher stopped dequeuing", "error", err)
			}
			break
		}

		lane, ok := lanes[cmd.Guild()]
		if !ok {
			lane = make(chan domain.Command, laneBuffer)
			lanes[cmd.Guild()] = lane
			g.Go(func() error {
				for c := range lane {
					d.runner.Execute(ctx, c)
				}
				return nil
			})
			slog.Debug("opened command lane", "guild_id", cmd.Guild())
		}

		select {
		case lane <- cmd:
		case <-ctx.Done():
			// The command was accepted but its lane is gone; its one reply
			// still has to go out, so the dispatcher sends it directly.
			slog.Warn("command undeliverable during shutdown", "guild_id", cmd.Guild())
			if err := d.notifier.Reply(context.WithoutCancel(ctx), cmd.Target(), ShutdownReply); err != nil {
				slog.Error("failed to send shutdown reply",
					"guild_id", cmd.Guild(),
					"error", err,
				)
			}
		}
	}

	for _, lane := range lanes {
		close(lane)
	}
	return g.Wait()
}
