package repositories

import (
	"fmt"
	"strings"

	"github.com/igheddx/tipply/internal/models"
)

// SongCacheAdapter implements tasks.SongCacher using SongRepository.
//
// Provides automatic catalog caching with deduplication via remote_id constraints.
// Duplicate songs are silently ignored (UNIQUE constraint violations).
type SongCacheAdapter struct {
	repo *SongRepository
}

// NewSongCacheAdapter creates a new SongCacheAdapter with the given repository
func NewSongCacheAdapter(repo *SongRepository) *SongCacheAdapter {
	return &SongCacheAdapter{repo: repo}
}

// CacheSong caches a catalog entry fetched from the backend.
// Returns nil if the song already exists (deduplication).
// Only returns errors for actual failures (not constraint violations).
func (a *SongCacheAdapter) CacheSong(song models.Song) error {
	existing, err := a.repo.GetByRemoteID(song.ID)
	if err == nil && existing != nil {
		return nil
	}

	persistedSong := models.NewPersistedSong(0, song)

	err = a.repo.Create(persistedSong)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil
		}
		return fmt.Errorf("failed to cache song: %w", err)
	}

	return nil
}
