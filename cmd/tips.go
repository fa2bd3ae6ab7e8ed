package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/igheddx/tipply/internal/formatter"
	"github.com/igheddx/tipply/internal/models"
	"github.com/igheddx/tipply/internal/shared"
	"github.com/igheddx/tipply/internal/tasks"
	"github.com/urfave/cli/v3"
)

// TipsList lists one page of the performer's tips, newest first.
func (r *Runner) TipsList(ctx context.Context, cmd *cli.Command) error {
	limit := cmd.Int("limit")
	offset := cmd.Int("offset")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")
	save := cmd.Bool("save")

	if r.svc == nil {
		return fmt.Errorf("%w: Tipply service not initialized", shared.ErrServiceUnavailable)
	}

	r.logger.Info("listing tips", "limit", limit, "offset", offset)

	page, err := r.svc.ListTips(ctx, limit, offset)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if save {
		saveFile := "tipply_tips.csv"
		data, err := formatter.ExportTipsToCSV(page.Items)
		if err != nil {
			return fmt.Errorf("failed to export tips: %w", err)
		}
		if err := os.WriteFile(saveFile, data, 0644); err != nil {
			r.logger.Warn("failed to save tips", "error", err)
		} else {
			r.logger.Info("tips saved", "file", saveFile)
		}
	}

	if useJSON {
		return r.writeJSON(page, pretty)
	}

	r.writePlain("Showing %d of %d tips:\n\n", len(page.Items), page.Total)
	for i, tip := range page.Items {
		r.writePlain("%d. %s  %s  %s\n", page.Offset+i+1, shared.FormatAmount(tip.Amount, tip.Currency), tip.Status, tip.CreatedAt)
		if tip.SongRequest != "" {
			r.writePlain("   Request: %s\n", tip.SongRequest)
		}
		if models.IsRefundEligible(tip) {
			r.writePlain("   Refundable: yes\n")
		}
		r.writePlain("   ID: %s\n", tip.ID)
	}

	if page.HasMore() {
		r.writePlain("\nMore tips available. Use --offset %d for the next page.\n", page.Offset+len(page.Items))
	}

	return nil
}

// TipsShow displays a single tip with its refund eligibility.
func (r *Runner) TipsShow(ctx context.Context, cmd *cli.Command) error {
	tipID := cmd.StringArg("id")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if tipID == "" {
		return fmt.Errorf("%w: tip ID is required", shared.ErrMissingArgument)
	}

	if r.svc == nil {
		return fmt.Errorf("%w: Tipply service not initialized", shared.ErrServiceUnavailable)
	}

	r.logger.Infof("fetching tip %v", tipID)

	tip, err := r.svc.GetTip(ctx, tipID)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if useJSON {
		return r.writeJSON(tip, pretty)
	}

	r.writePlain("Tip: %s\n", tip.ID)
	r.writePlain("Amount: %s\n", shared.FormatAmount(tip.Amount, tip.Currency))
	r.writePlain("Status: %s\n", tip.Status)
	r.writePlain("Created: %s\n", tip.CreatedAt)
	if tip.SongRequest != "" {
		r.writePlain("Song request: %s\n", tip.SongRequest)
	}
	if tip.Note != "" {
		r.writePlain("Note: %s\n", tip.Note)
	}
	if tip.DeviceID != "" {
		r.writePlain("Device: %s\n", tip.DeviceID)
	}
	if models.IsRefundEligible(*tip) {
		r.writePlain("Refundable: yes\n")
	} else {
		r.writePlain("Refundable: no\n")
	}

	return nil
}

// TipsSummary aggregates profile, catalog, device, and tip data into a dashboard.
func (r *Runner) TipsSummary(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if r.engine == nil {
		return fmt.Errorf("%w: catalog engine not initialized", shared.ErrServiceUnavailable)
	}

	r.logger.Info("building dashboard summary")
	r.writePlain("Fetching account data...\n\n")

	progressCh := make(chan tasks.ProgressUpdate, 20)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			r.writePlain("📥 %s\n", update.Message)
		}
	}()

	result, err := r.engine.Dashboard(ctx, progressCh)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(result, pretty)
	}

	r.writePlain("\n")
	r.writePlainHeader("Account Summary")
	if result.Profile != nil {
		r.writePlain("Performer: %s\n", result.Profile.DisplayName)
	}
	r.writePlain("Catalog: %d songs\n", result.CatalogSize)
	r.writePlain("Devices: %d registered\n", result.DeviceCount)
	r.writePlain("Tips: %d total (%d processed, %d pending)\n", result.TotalTips, result.ProcessedCount, result.PendingCount)
	r.writePlain("Earnings: %s\n", shared.FormatAmount(result.TotalCents, "usd"))
	r.writePlain("Refundable: %d tips (%s)\n", result.RefundableCount, shared.FormatAmount(result.RefundableCents, "usd"))

	if len(result.SongRequests) > 0 {
		r.writePlain("\nSong requests:\n")
		for song, count := range result.SongRequests {
			r.writePlain("  %d× %s\n", count, song)
		}
	}

	return nil
}

// TipsRefund initiates a refund for an eligible tip.
func (r *Runner) TipsRefund(ctx context.Context, cmd *cli.Command) error {
	tipID := cmd.StringArg("id")

	if tipID == "" {
		return fmt.Errorf("%w: tip ID is required", shared.ErrMissingArgument)
	}

	if r.svc == nil {
		return fmt.Errorf("%w: Tipply service not initialized", shared.ErrServiceUnavailable)
	}

	r.logger.Infof("requesting refund for tip %v", tipID)

	result, err := r.svc.RefundTip(ctx, tipID)
	if err != nil {
		if errors.Is(err, shared.ErrRefundIneligible) {
			r.writePlain("✗ Tip %s is not eligible for a refund.\n", tipID)
			r.writePlain("Refunds require a processed payment within the last 7 days.\n")
			return err
		}
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	r.writePlain("✓ Refund initiated for tip %s\n", result.TipID)
	r.writePlain("  Refund ID: %s\n", result.RefundID)
	r.writePlain("  Status: %s\n", result.Status)

	return nil
}
