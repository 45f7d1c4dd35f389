package ports

import (
	"context"

	"github.com/0xcathiefish/discord-qqmusic-bot/internal/modules/music/domain"
)

// Catalog defines the interface to the external music catalog service.
type Catalog interface {
	// Search returns tracks matching the keyword, in the catalog's
	// relevance order. An empty result is a success, not an error.
	Search(ctx context.Context, keyword string) (domain.SearchResult, error)

	// ResolvePlayURL exchanges a track ID for a signed, time-limited
	// download URL. The URL is never cached; every call resolves afresh.
	ResolvePlayURL(ctx context.Context, trackID string) (string, error)
}
