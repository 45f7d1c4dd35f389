package application

import (
	"context"
	"sync"

	"github.com/disgoorg/snowflake/v2"

	"github.com/0xcathiefish/discord-qqmusic-bot/internal/modules/music/domain"
)

type mockRepository struct {
	sessions map[snowflake.ID]*domain.PlaybackSession
	deleted  []snowflake.ID
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		sessions: make(map[snowflake.ID]*domain.PlaybackSession),
	}
}

func (m *mockRepository) Get(guildID snowflake.ID) *domain.PlaybackSession {
	return m.sessions[guildID]
}

func (m *mockRepository) Save(session *domain.PlaybackSession) {
	m.sessions[session.GuildID()] = session
}

func (m *mockRepository) Delete(guildID snowflake.ID) {
	m.deleted = append(m.deleted, guildID)
	delete(m.sessions, guildID)
}

func (m *mockRepository) All() []*domain.PlaybackSession {
	result := make([]*domain.PlaybackSession, 0, len(m.sessions))
	for _, s := range m.sessions {
		result = append(result, s)
	}
	return result
}

type mockTrackHandle struct {
	stopped int
}

func (h *mockTrackHandle) Stop() { h.stopped++ }

type mockVoiceSession struct {
	playErr    error
	closeErr   error
	played     [][]byte
	closed     int
	lastHandle *mockTrackHandle
}

func (s *mockVoiceSession) Play(_ context.Context, audio []byte) (domain.TrackHandle, error) {
	if s.playErr != nil {
		return nil, s.playErr
	}
	s.played = append(s.played, audio)
	s.lastHandle = &mockTrackHandle{}
	return s.lastHandle, nil
}

func (s *mockVoiceSession) Close() error {
	s.closed++
	return s.closeErr
}

type mockVoiceConnector struct {
	joinErr error
	conn    *mockVoiceSession
	joins   []snowflake.ID // channel IDs joined, in order
}

func (m *mockVoiceConnector) Join(
	_ context.Context,
	_, channelID snowflake.ID,
) (domain.VoiceSession, error) {
	if m.joinErr != nil {
		return nil, m.joinErr
	}
	m.joins = append(m.joins, channelID)
	if m.conn == nil {
		m.conn = &mockVoiceSession{}
	}
	return m.conn, nil
}

type mockVoiceStateProvider struct {
	channels map[snowflake.ID]snowflake.ID // userID -> channelID
	err      error
}

func newMockVoiceStateProvider() *mockVoiceStateProvider {
	return &mockVoiceStateProvider{
		channels: make(map[snowflake.ID]snowflake.ID),
	}
}

func (m *mockVoiceStateProvider) UserVoiceChannel(
	_, userID snowflake.ID,
) (snowflake.ID, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.channels[userID], nil
}

type mockDownloader struct {
	err     error
	payload []byte
	urls    []string
}

func (m *mockDownloader) Download(_ context.Context, url string) ([]byte, error) {
	m.urls = append(m.urls, url)
	if m.err != nil {
		return nil, m.err
	}
	return m.payload, nil
}

type mockCatalog struct {
	searchErr    error
	searchResult domain.SearchResult
	resolveErr   error
	resolveURL   string
	queries      []string
	resolved     []string
}

func (m *mockCatalog) Search(_ context.Context, keyword string) (domain.SearchResult, error) {
	m.queries = append(m.queries, keyword)
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.searchResult, nil
}

func (m *mockCatalog) ResolvePlayURL(_ context.Context, trackID string) (string, error) {
	m.resolved = append(m.resolved, trackID)
	if m.resolveErr != nil {
		return "", m.resolveErr
	}
	return m.resolveURL, nil
}

type mockNotifier struct {
	mu      sync.Mutex
	err     error
	replies []sentReply
}

type sentReply struct {
	Target  domain.ReplyTarget
	Content string
}

func (m *mockNotifier) Reply(_ context.Context, target domain.ReplyTarget, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies = append(m.replies, sentReply{Target: target, Content: content})
	return m.err
}

func (m *mockNotifier) sent() []sentReply {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]sentReply, len(m.replies))
	copy(result, m.replies)
	return result
}

// newTestSessionManager builds a SessionManager with fresh mocks.
func newTestSessionManager() (
	*SessionManager,
	*mockRepository,
	*mockVoiceConnector,
	*mockVoiceStateProvider,
	*mockDownloader,
) {
	repo := newMockRepository()
	connector := &mockVoiceConnector{}
	voiceState := newMockVoiceStateProvider()
	downloader := &mockDownloader{payload: []byte("audio")}
	manager := NewSessionManager(repo, connector, voiceState, downloader)
	return manager, repo, connector, voiceState, downloader
}
