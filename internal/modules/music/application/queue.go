package application

import (
	"context"
	"sync"

	"github.com/0xcathiefish/discord-qqmusic-bot/internal/modules/music/domain"
)

// DefaultQueueCapacity bounds the command hand-off channel.
const DefaultQueueCapacity = 100

// CommandQueue is the bounded FIFO hand-off between message ingestion and
// command execution. When full, Enqueue blocks the producer: stalling
// ingestion briefly beats silently dropping a user's command.
type CommandQueue struct {
	ch        chan domain.Command
	done      chan struct{}
	closeOnce sync.Once
}

// NewCommandQueue creates a queue with the given capacity. Non-positive
// capacities fall back to DefaultQueueCapacity.
func NewCommandQueue(capacity int) *CommandQueue {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	return &CommandQueue{
		ch:   make(chan domain.Command, capacity),
		done: make(chan struct{}),
	}
}

// Enqueue adds a command, blocking while the queue is full. Returns
// ErrQueueClosed after Close, or the context error on cancellation.
func (q *CommandQueue) Enqueue(ctx context.Context, cmd domain.Command) error {
	select {
	case <-q.done:
		return ErrQueueClosed
	default:
	}

	select {
	case q.ch <- cmd:
		return nil
	case <-q.done:
		return ErrQueueClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dequeue removes the oldest command, blocking until one is available.
// After Close, remaining commands are drained before ErrQueueClosed is
// returned.
func (q *CommandQueue) Dequeue(ctx context.Context) (domain.Command, error) {
	select {
	case cmd := <-q.ch:
		return cmd, nil
	default:
	}

	select {
	case cmd := <-q.ch:
		return cmd, nil
	case <-q.done:
		select {
		case cmd := <-q.ch:
			return cmd, nil
		default:
			return nil, ErrQueueClosed
		}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Len returns the number of queued commands.
func (q *CommandQueue) Len() int {
	return len(q.ch)
}

// Close stops the queue. Pending commands remain dequeueable; subsequent
// Enqueue calls fail with ErrQueueClosed. Safe to call more than once.
func (q *CommandQueue) Close() {
	q.closeOnce.Do(func() {
		close(q.done)
	})
}
