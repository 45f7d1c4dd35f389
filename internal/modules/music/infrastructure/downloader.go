package infrastructure

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/0xcathiefish/discord-qqmusic-bot/internal/modules/music/application/ports"
)

// HTTPDownloader fetches resolved track URLs. The whole payload is buffered
// in memory before playback begins; there is no chunk-by-chunk streaming in
// this design.
type HTTPDownloader struct {
	http *http.Client
}

// NewHTTPDownloader creates a downloader whose requests are bounded by
// timeout.
func NewHTTPDownloader(timeout time.Duration) *HTTPDownloader {
	return &HTTPDownloader{
		http: &http.Client{Timeout: timeout},
	}
}

// Download retrieves the full audio payload. Timeout expiry and non-success
// statuses are per-command failures; nothing is retried.
func (d *HTTPDownloader) Download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build download request: %w", err)
	}

	res, err := d.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download audio: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("download audio: unexpected status %d", res.StatusCode)
	}

	audio, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read audio payload: %w", err)
	}
	return audio, nil
}

// Ensure HTTPDownloader implements ports.AudioDownloader.
var _ ports.AudioDownloader = (*HTTPDownloader)(nil)
