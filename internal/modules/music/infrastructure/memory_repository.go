package infrastructure

import (
	"sync"

	"github.com/disgoorg/snowflake/v2"

	"github.com/0xcathiefish/discord-qqmusic-bot/internal/modules/music/domain"
)

// MemoryRepository is an in-memory implementation of SessionRepository.
// The map itself is locked; the sessions inside are mutated only by the
// per-guild serialized executor path.
type MemoryRepository struct {
	mu       sync.RWMutex
	sessions map[snowflake.ID]*domain.PlaybackSession
}

// NewMemoryRepository creates a new MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		sessions: make(map[snowflake.ID]*domain.PlaybackSession),
	}
}

// Get returns the PlaybackSession for the given guild, or nil if none exists.
func (r *MemoryRepository) Get(guildID snowflake.ID) *domain.PlaybackSession {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sessions[guildID]
}

// Save stores the PlaybackSession.
func (r *MemoryRepository) Save(session *domain.PlaybackSession) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[session.GuildID()] = session
}

// Delete removes the PlaybackSession for the given guild.
func (r *MemoryRepository) Delete(guildID snowflake.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, guildID)
}

// All returns every stored session.
func (r *MemoryRepository) All() []*domain.PlaybackSession {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.PlaybackSession, 0, len(r.sessions))
	for _, session := range r.sessions {
		result = append(result, session)
	}
	return result
}

// Count returns the number of sessions (for testing/monitoring).
func (r *MemoryRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sessions)
}

// Ensure MemoryRepository implements SessionRepository.
var _ domain.SessionRepository = (*MemoryRepository)(nil)
