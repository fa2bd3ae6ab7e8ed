package repositories

import (
	"fmt"
	"strings"

	"github.com/igheddx/tipply/internal/models"
)

// TipCacheAdapter implements tasks.TipCacher using TipRepository.
//
// Tip snapshots converge on the backend's view: an existing snapshot whose
// status or refund reference changed is updated in place rather than skipped.
type TipCacheAdapter struct {
	repo *TipRepository
}

// NewTipCacheAdapter creates a new TipCacheAdapter with the given repository
func NewTipCacheAdapter(repo *TipRepository) *TipCacheAdapter {
	return &TipCacheAdapter{repo: repo}
}

// CacheTip upserts a tip snapshot fetched from the backend.
func (a *TipCacheAdapter) CacheTip(tip models.TipRecord) error {
	existing, err := a.repo.GetByRemoteID(tip.ID)
	if err == nil && existing != nil {
		if existing.Status() == tip.Status && existing.PaymentIntentID() == tip.StripePaymentIntentID {
			return nil
		}

		updated := models.NewPersistedTip(existing.Sequence(), tip)
		updated.SetID(existing.ID())
		if err := a.repo.Update(updated); err != nil {
			return fmt.Errorf("failed to refresh tip snapshot: %w", err)
		}
		return nil
	}

	persistedTip := models.NewPersistedTip(0, tip)

	err = a.repo.Create(persistedTip)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil
		}
		return fmt.Errorf("failed to cache tip: %w", err)
	}

	return nil
}
