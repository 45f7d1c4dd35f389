package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/0xcathiefish/discord-qqmusic-bot/internal/modules/music/application/ports"
	"github.com/0xcathiefish/discord-qqmusic-bot/internal/modules/music/domain"
)

const (
	defaultBaseURL = "https://u.y.qq.com/cgi-bin/musicu.fcg"
	refererURL     = "https://y.qq.com/"

	searchPageSize = 10
	searchTypeSong = 0
)

var (
	// ErrMissingSongList is returned when a search response carries no song
	// list at all. Distinct from a present-but-empty list, which is a
	// success with zero results.
	ErrMissingSongList = errors.New("qqmusic: search response missing song list")

	// ErrNoPlayURL is returned when the vkey response lacks a usable stream
	// descriptor (no edge-server prefix or an empty purl). A partial URL is
	// never returned.
	ErrNoPlayURL = errors.New("qqmusic: no usable play url for track")
)

// APIError is a non-success HTTP response from the catalog service.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("qqmusic api status %d: %s", e.Status, e.Body)
}

// QQMusicClient is a stateless client for the QQ music catalog. All
// operations multiplex through one endpoint via a module/method envelope.
// Authentication is a session cookie plus a referrer header, fixed at
// construction; a single instance is shared across all commands.
type QQMusicClient struct {
	http    *http.Client
	baseURL string
	cookie  string
}

// Option customizes a QQMusicClient.
type Option func(*QQMusicClient)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *QQMusicClient) { c.http = h }
}

// WithBaseURL replaces the catalog endpoint. Used by tests.
func WithBaseURL(u string) Option {
	return func(c *QQMusicClient) { c.baseURL = u }
}

// NewQQMusicClient creates a client authenticating with the given session
// cookie.
func NewQQMusicClient(cookie string, opts ...Option) *QQMusicClient {
	c := &QQMusicClient{
		http:    &http.Client{Timeout: 30 * time.Second},
		baseURL: defaultBaseURL,
		cookie:  cookie,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Request envelope. Every catalog call posts a req_1 object naming the
// upstream module and method.

type commParams struct {
	CT int `json:"ct"`
	CV int `json:"cv"`
}

type requestEnvelope struct {
	Comm *commParams `json:"comm,omitempty"`
	Req  moduleCall  `json:"req_1"`
}

type moduleCall struct {
	Module string `json:"module"`
	Method string `json:"method"`
	Param  any    `json:"param"`
}

type searchParams struct {
	Query       string `json:"query"`
	NumPerPage  int    `json:"num_per_page"`
	PageNum     int    `json:"page_num"`
	SearchType  int    `json:"search_type"`
	RemotePlace string `json:"remoteplace"`
}

type vkeyParams struct {
	GUID     string   `json:"guid"`
	SongMid  []string `json:"songmid"`
	UIN      string   `json:"uin"`
	Platform string   `json:"platform"`
}

// Response shapes. Song is a pointer so a missing field can be told apart
// from an empty list.

type searchResponse struct {
	Req struct {
		Data struct {
			Body struct {
				Song *struct {
					List []songDTO `json:"list"`
				} `json:"song"`
			} `json:"body"`
		} `json:"data"`
	} `json:"req_1"`
}

type songDTO struct {
	Mid    string `json:"mid"`
	Name   string `json:"name"`
	Singer []struct {
		Name string `json:"name"`
	} `json:"singer"`
}

type vkeyResponse struct {
	Req struct {
		Data struct {
			SIP        []string `json:"sip"`
			MidURLInfo []struct {
				PURL string `json:"purl"`
			} `json:"midurlinfo"`
		} `json:"data"`
	} `json:"req_1"`
}

// Search looks up tracks by keyword. A response whose song list is present
// but empty is a success with zero results.
func (c *QQMusicClient) Search(ctx context.Context, keyword string) (domain.SearchResult, error) {
	payload := requestEnvelope{
		Comm: &commParams{CT: 24, CV: 0},
		Req: moduleCall{
			Module: "music.search.SearchCgiService",
			Method: "DoSearchForQQMusicDesktop",
			Param: searchParams{
				Query:       keyword,
				NumPerPage:  searchPageSize,
				PageNum:     1,
				SearchType:  searchTypeSong,
				RemotePlace: "txt.yqq.top",
			},
		},
	}

	var resp searchResponse
	if err := c.post(ctx, payload, &resp); err != nil {
		return nil, fmt.Errorf("search %q: %w", keyword, err)
	}

	song := resp.Req.Data.Body.Song
	if song == nil {
		return nil, ErrMissingSongList
	}

	result := make(domain.SearchResult, 0, len(song.List))
	for _, item := range song.List {
		artists := make([]string, 0, len(item.Singer))
		for _, s := range item.Singer {
			artists = append(artists, s.Name)
		}
		result = append(result, domain.TrackSummary{
			ID:     item.Mid,
			Title:  item.Name,
			Artist: strings.Join(artists, " / "),
		})
	}

	slog.Debug("catalog search", "keyword", keyword, "results", len(result))

	return result, nil
}

// ResolvePlayURL exchanges a track ID for a signed, time-limited download
// URL. Every call resolves afresh; the upstream URL expires too quickly to
// be worth caching.
func (c *QQMusicClient) ResolvePlayURL(ctx context.Context, trackID string) (string, error) {
	payload := requestEnvelope{
		Req: moduleCall{
			Module: "vkey.GetVkeyServer",
			Method: "CgiGetVkey",
			Param: vkeyParams{
				GUID:     "10000",
				SongMid:  []string{trackID},
				UIN:      "0",
				Platform: "20",
			},
		},
	}

	var resp vkeyResponse
	if err := c.post(ctx, payload, &resp); err != nil {
		return "", fmt.Errorf("resolve play url for %s: %w", trackID, err)
	}

	data := resp.Req.Data
	if len(data.SIP) == 0 || len(data.MidURLInfo) == 0 || data.MidURLInfo[0].PURL == "" {
		return "", ErrNoPlayURL
	}

	return data.SIP[0] + data.MidURLInfo[0].PURL, nil
}

// post sends one envelope and decodes the JSON response into out.
func (c *QQMusicClient) post(ctx context.Context, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cookie", c.cookie)
	req.Header.Set("Referer", refererURL)

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("http: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		// Cap the body: enough for operators, bounded for logs.
		b, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return &APIError{Status: res.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Ensure QQMusicClient implements ports.Catalog.
var _ ports.Catalog = (*QQMusicClient)(nil)
