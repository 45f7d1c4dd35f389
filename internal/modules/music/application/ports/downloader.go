package ports

import "context"

// AudioDownloader fetches a resolved track URL into memory.
type AudioDownloader interface {
	// Download retrieves the full audio payload. The implementation bounds
	// the request with a timeout; expiry is a per-command failure, not a
	// retry.
	Download(ctx context.Context, url string) ([]byte, error)
}
