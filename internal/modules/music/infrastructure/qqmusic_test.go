package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/0xcathiefish/discord-qqmusic-bot/internal/modules/music/domain"
)

const testCookie = "uin=12345; qm_keyst=abc"

// catalogRequest captures the envelope a test server received.
type catalogRequest struct {
	header http.Header
	body   map[string]any
}

// newCatalogServer serves the given JSON body for every request and records
// what the client sent.
func newCatalogServer(t *testing.T, status int, responseBody string) (*httptest.Server, *catalogRequest) {
	t.Helper()
	captured := &catalogRequest{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.header = r.Header.Clone()
		if err := json.NewDecoder(r.Body).Decode(&captured.body); err != nil {
			t.Errorf("server received invalid JSON: %v", err)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(responseBody))
	}))
	t.Cleanup(server.Close)
	return server, captured
}

func TestQQMusicClient_Search(t *testing.T) {
	server, captured := newCatalogServer(t, http.StatusOK, `{
		"req_1": {"data": {"body": {"song": {"list": [
			{"mid": "002GwAma2DGN2x", "name": "永不失联的爱", "singer": [{"name": "周深"}]},
			{"mid": "003lghpv0iXmD6", "name": "Time", "singer": [{"name": "Hans Zimmer"}, {"name": "Satellite Empire"}]}
		]}}}}
	}`)
	client := NewQQMusicClient(testCookie, WithBaseURL(server.URL))

	result, err := client.Search(context.Background(), "time")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := domain.SearchResult{
		{ID: "002GwAma2DGN2x", Title: "永不失联的爱", Artist: "周深"},
		{ID: "003lghpv0iXmD6", Title: "Time", Artist: "Hans Zimmer / Satellite Empire"},
	}
	if len(result) != len(want) {
		t.Fatalf("expected %d results, got %d", len(want), len(result))
	}
	for i := range want {
		if result[i] != want[i] {
			t.Errorf("result %d: expected %+v, got %+v", i, want[i], result[i])
		}
	}

	if got := captured.header.Get("Cookie"); got != testCookie {
		t.Errorf("expected cookie header %q, got %q", testCookie, got)
	}
	if got := captured.header.Get("Referer"); got != refererURL {
		t.Errorf("expected referer %q, got %q", refererURL, got)
	}

	req, ok := captured.body["req_1"].(map[string]any)
	if !ok {
		t.Fatalf("expected req_1 envelope, got %v", captured.body)
	}
	if req["module"] != "music.search.SearchCgiService" || req["method"] != "DoSearchForQQMusicDesktop" {
		t.Errorf("unexpected module call: %v", req)
	}
	param, _ := req["param"].(map[string]any)
	if param["query"] != "time" {
		t.Errorf("expected query %q, got %v", "time", param["query"])
	}
}

func TestQQMusicClient_SearchEmptyList(t *testing.T) {
	server, _ := newCatalogServer(t, http.StatusOK,
		`{"req_1": {"data": {"body": {"song": {"list": []}}}}}`)
	client := NewQQMusicClient(testCookie, WithBaseURL(server.URL))

	result, err := client.Search(context.Background(), "no such song")
	if err != nil {
		t.Fatalf("expected empty list to be a success, got %v", err)
	}
	if len(result) != 0 {
		t.Errorf("expected zero results, got %v", result)
	}
}

func TestQQMusicClient_SearchMissingSongList(t *testing.T) {
	server, _ := newCatalogServer(t, http.StatusOK,
		`{"req_1": {"data": {"body": {}}}}`)
	client := NewQQMusicClient(testCookie, WithBaseURL(server.URL))

	_, err := client.Search(context.Background(), "anything")
	if !errors.Is(err, ErrMissingSongList) {
		t.Fatalf("expected ErrMissingSongList, got %v", err)
	}
}

func TestQQMusicClient_SearchHTTPError(t *testing.T) {
	server, _ := newCatalogServer(t, http.StatusForbidden, "blocked")
	client := NewQQMusicClient(testCookie, WithBaseURL(server.URL))

	_, err := client.Search(context.Background(), "anything")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", apiErr.Status)
	}
	if apiErr.Body != "blocked" {
		t.Errorf("expected body %q, got %q", "blocked", apiErr.Body)
	}
}

func TestQQMusicClient_ResolvePlayURL(t *testing.T) {
	server, captured := newCatalogServer(t, http.StatusOK, `{
		"req_1": {"data": {
			"sip": ["https://edge.example.com/"],
			"midurlinfo": [{"purl": "audio.m4a?vkey=abc"}]
		}}
	}`)
	client := NewQQMusicClient(testCookie, WithBaseURL(server.URL))

	url, err := client.ResolvePlayURL(context.Background(), "002GwAma2DGN2x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "https://edge.example.com/audio.m4a?vkey=abc"; url != want {
		t.Errorf("expected %q, got %q", want, url)
	}

	req, _ := captured.body["req_1"].(map[string]any)
	if req["module"] != "vkey.GetVkeyServer" || req["method"] != "CgiGetVkey" {
		t.Errorf("unexpected module call: %v", req)
	}
	param, _ := req["param"].(map[string]any)
	mids, _ := param["songmid"].([]any)
	if len(mids) != 1 || mids[0] != "002GwAma2DGN2x" {
		t.Errorf("expected songmid [002GwAma2DGN2x], got %v", mids)
	}
}

func TestQQMusicClient_ResolvePlayURLUnavailable(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "empty purl",
			body: `{"req_1": {"data": {"sip": ["https://edge.example.com/"], "midurlinfo": [{"purl": ""}]}}}`,
		},
		{
			name: "no sip",
			body: `{"req_1": {"data": {"sip": [], "midurlinfo": [{"purl": "audio.m4a"}]}}}`,
		},
		{
			name: "no midurlinfo",
			body: `{"req_1": {"data": {"sip": ["https://edge.example.com/"], "midurlinfo": []}}}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := newCatalogServer(t, http.StatusOK, tt.body)
			client := NewQQMusicClient(testCookie, WithBaseURL(server.URL))

			_, err := client.ResolvePlayURL(context.Background(), "002GwAma2DGN2x")
			if !errors.Is(err, ErrNoPlayURL) {
				t.Fatalf("expected ErrNoPlayURL, got %v", err)
			}
		})
	}
}
