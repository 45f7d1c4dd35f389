package ports

import (
	"context"

	"github.com/0xcathiefish/discord-qqmusic-bot/internal/modules/music/domain"
)

// Notifier delivers replies back through the chat interface.
type Notifier interface {
	// Reply sends content as a reply to the target message. A failed send
	// is logged by the caller, not retried.
	Reply(ctx context.Context, target domain.ReplyTarget, content string) error
}
