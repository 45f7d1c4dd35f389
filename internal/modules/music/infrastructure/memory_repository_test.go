package infrastructure

import (
	"sync"
	"testing"

	"github.com/disgoorg/snowflake/v2"

	"github.com/0xcathiefish/discord-qqmusic-bot/internal/modules/music/domain"
)

func TestMemoryRepository_SaveAndGet(t *testing.T) {
	repo := NewMemoryRepository()
	session := domain.NewPlaybackSession(snowflake.ID(1))

	repo.Save(session)

	if got := repo.Get(snowflake.ID(1)); got != session {
		t.Errorf("expected saved session, got %v", got)
	}
	if got := repo.Get(snowflake.ID(2)); got != nil {
		t.Errorf("expected nil for unknown guild, got %v", got)
	}
}

func TestMemoryRepository_Delete(t *testing.T) {
	repo := NewMemoryRepository()
	repo.Save(domain.NewPlaybackSession(snowflake.ID(1)))

	repo.Delete(snowflake.ID(1))

	if got := repo.Get(snowflake.ID(1)); got != nil {
		t.Errorf("expected session to be gone, got %v", got)
	}

	// Deleting an absent guild is a no-op.
	repo.Delete(snowflake.ID(2))
}

func TestMemoryRepository_All(t *testing.T) {
	repo := NewMemoryRepository()
	repo.Save(domain.NewPlaybackSession(snowflake.ID(1)))
	repo.Save(domain.NewPlaybackSession(snowflake.ID(2)))

	all := repo.All()
	if len(all) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(all))
	}

	seen := make(map[snowflake.ID]bool)
	for _, session := range all {
		seen[session.GuildID()] = true
	}
	if !seen[snowflake.ID(1)] || !seen[snowflake.ID(2)] {
		t.Errorf("expected both guilds, got %v", seen)
	}
}

func TestMemoryRepository_ConcurrentAccess(t *testing.T) {
	repo := NewMemoryRepository()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			guildID := snowflake.ID(i)
			repo.Save(domain.NewPlaybackSession(guildID))
			repo.Get(guildID)
			repo.All()
			repo.Delete(guildID)
		}()
	}
	wg.Wait()

	if count := repo.Count(); count != 0 {
		t.Errorf("expected empty repository, got %d sessions", count)
	}
}
