package main

import (
	"context"
	"fmt"

	"github.com/igheddx/tipply/internal/repositories"
	"github.com/igheddx/tipply/internal/shared"
	"github.com/urfave/cli/v3"
)

// CacheCatalog fetches the song catalog and caches it to the local database.
func (r *Runner) CacheCatalog(ctx context.Context, cmd *cli.Command) error {
	if r.svc == nil {
		return fmt.Errorf("%w: Tipply service not initialized", shared.ErrServiceUnavailable)
	}

	r.logger.Info("caching song catalog")

	songs, err := r.svc.ListSongs(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	cache := repositories.NewSongCacheAdapter(repositories.NewSongRepository(db))

	cached := 0
	for _, song := range songs {
		if err := cache.CacheSong(song); err != nil {
			r.logger.Warn("failed to cache song", "title", song.Title, "error", err)
			continue
		}
		cached++
	}

	r.writePlain("✓ Cached %d of %d songs\n", cached, len(songs))
	return nil
}

// CacheTips fetches all tip pages and caches them to the local database.
func (r *Runner) CacheTips(ctx context.Context, cmd *cli.Command) error {
	if r.svc == nil {
		return fmt.Errorf("%w: Tipply service not initialized", shared.ErrServiceUnavailable)
	}

	r.logger.Info("caching tips")

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	cache := repositories.NewTipCacheAdapter(repositories.NewTipRepository(db))

	cached := 0
	total := 0
	offset := 0
	for {
		page, err := r.svc.ListTips(ctx, 100, offset)
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
		}
		if len(page.Items) == 0 {
			break
		}

		for _, tip := range page.Items {
			total++
			if err := cache.CacheTip(tip); err != nil {
				r.logger.Warn("failed to cache tip", "id", tip.ID, "error", err)
				continue
			}
			cached++
		}

		if !page.HasMore() {
			break
		}
		offset += len(page.Items)
	}

	r.writePlain("✓ Cached %d of %d tips\n", cached, total)
	return nil
}
