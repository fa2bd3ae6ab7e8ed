package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/igheddx/tipply/internal/formatter"
	"github.com/igheddx/tipply/internal/shared"
	"github.com/igheddx/tipply/internal/tasks"
	"github.com/urfave/cli/v3"
)

// CatalogList lists the performer's song catalog with optional limit.
func (r *Runner) CatalogList(ctx context.Context, cmd *cli.Command) error {
	limit := cmd.Int("limit")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")
	save := cmd.Bool("save")

	if r.svc == nil {
		return fmt.Errorf("%w: Tipply service not initialized", shared.ErrServiceUnavailable)
	}

	r.logger.Infof("listing catalog with limit %v", limit)

	songs, err := r.svc.ListSongs(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if limit > 0 && limit < len(songs) {
		songs = songs[:limit]
	}

	if save {
		saveFile := "tipply_catalog.json"
		data, err := shared.MarshalJSON(songs, true)
		if err != nil {
			return fmt.Errorf("failed to marshal catalog: %w", err)
		}
		if err := os.WriteFile(saveFile, data, 0644); err != nil {
			r.logger.Warn("failed to save catalog", "error", err)
		} else {
			r.logger.Info("catalog saved", "file", saveFile)
		}
	}

	if useJSON {
		return r.writeJSON(songs, pretty)
	}

	r.writePlain("Found %d songs:\n\n", len(songs))
	for i, s := range songs {
		r.writePlain("%d. %s - %s\n", i+1, s.Artist, s.Title)
		if s.Album != "" {
			r.writePlain("   Album: %s\n", s.Album)
		}
		if s.Duration > 0 {
			r.writePlain("   Duration: %s\n", shared.FormatDuration(s.Duration))
		}
		r.writePlain("   ID: %s\n", s.ID)
	}

	return nil
}

// CatalogSearch searches the catalog by title or artist.
func (r *Runner) CatalogSearch(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if query == "" {
		return fmt.Errorf("%w: search query is required", shared.ErrMissingArgument)
	}

	if r.svc == nil {
		return fmt.Errorf("%w: Tipply service not initialized", shared.ErrServiceUnavailable)
	}

	r.logger.Infof("searching catalog for %q", query)

	songs, err := r.svc.SearchSongs(ctx, query)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if useJSON {
		return r.writeJSON(songs, pretty)
	}

	if len(songs) == 0 {
		r.writePlain("No songs matched %q\n", query)
		return nil
	}

	r.writePlain("Found %d songs:\n\n", len(songs))
	for i, s := range songs {
		r.writePlain("%d. %s - %s\n", i+1, s.Artist, s.Title)
		r.writePlain("   ID: %s\n", s.ID)
	}

	return nil
}

// CatalogUpload bulk-uploads a song catalog from a CSV or text file.
func (r *Runner) CatalogUpload(ctx context.Context, cmd *cli.Command) error {
	filePath := cmd.StringArg("file")
	format := cmd.String("format")
	batchSize := cmd.Int("batch-size")
	workers := cmd.Int("workers")
	rateLimit := cmd.Float("rate-limit")
	manifest := cmd.String("manifest")

	if filePath == "" {
		return fmt.Errorf("%w: catalog file path is required", shared.ErrMissingArgument)
	}

	if r.engine == nil {
		return fmt.Errorf("%w: catalog engine not initialized", shared.ErrServiceUnavailable)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer file.Close()

	if format == "" {
		if strings.HasSuffix(filePath, ".txt") {
			format = "txt"
		} else {
			format = "csv"
		}
	}

	r.logger.Info("starting bulk upload", "file", filePath, "format", format)
	r.writePlain("Uploading catalog from %s...\n\n", filePath)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.ParseCatalog:
				r.writePlain("📄 %s\n", update.Message)
			case tasks.UploadSongs:
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()

	result, err := r.engine.BulkUpload(ctx, progressCh, file, tasks.BulkUploadOpts{
		Format:       format,
		BatchSize:    batchSize,
		NumWorkers:   workers,
		RateLimit:    rateLimit,
		ManifestPath: manifest,
	})
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Upload Complete")
	r.writePlain("Songs: %d\n", result.TotalSongs)
	r.writePlain("Uploaded: %d\n", result.UploadedSongs)
	if result.FailedSongs > 0 {
		r.writePlain("Failed: %d\n", result.FailedSongs)
		for _, batch := range result.Batches {
			if !batch.Success {
				r.writePlain("  - batch %d (%d songs): %s\n", batch.Batch, batch.Count, batch.Error)
			}
		}
	}
	if result.ManifestPath != "" {
		r.writePlain("Manifest: %s\n", result.ManifestPath)
	}

	return nil
}

// CatalogRemove removes catalog entries by ID.
func (r *Runner) CatalogRemove(ctx context.Context, cmd *cli.Command) error {
	ids := cmd.StringSlice("id")

	if len(ids) == 0 {
		return fmt.Errorf("%w: at least one --id is required", shared.ErrMissingArgument)
	}

	if r.engine == nil {
		return fmt.Errorf("%w: catalog engine not initialized", shared.ErrServiceUnavailable)
	}

	r.logger.Info("removing catalog entries", "count", len(ids))

	progressCh := make(chan tasks.ProgressUpdate, 10)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			r.writePlain("🗑  %s\n", update.Message)
		}
	}()

	result, err := r.engine.BulkRemove(ctx, progressCh, ids)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	r.writePlain("\n✓ Removed %d of %d entries\n", result.Removed, result.Requested)
	return nil
}

// CatalogExport writes the catalog to a local file in the requested format.
func (r *Runner) CatalogExport(ctx context.Context, cmd *cli.Command) error {
	format := cmd.String("format")
	output := cmd.String("output")

	if r.svc == nil {
		return fmt.Errorf("%w: Tipply service not initialized", shared.ErrServiceUnavailable)
	}

	r.logger.Infof("exporting catalog as %v", format)

	songs, err := r.svc.ListSongs(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	name := "Tipply Catalog"
	if profile, err := r.svc.Profile(ctx); err == nil {
		name = profile.DisplayName
	}

	switch format {
	case "csv", "":
		result, err := formatter.WriteCatalogExport(name, songs, output)
		if err != nil {
			return fmt.Errorf("failed to export catalog: %w", err)
		}
		r.writePlain("✓ Catalog exported to %s\n", result.SongsFile)
		r.writePlain("✓ Metadata written to %s\n", result.MetadataFile)
	case "markdown", "md":
		data, err := formatter.ExportCatalogToMarkdown(name, songs)
		if err != nil {
			return fmt.Errorf("failed to export catalog: %w", err)
		}
		if output == "" {
			output = "catalog.md"
		}
		if err := os.WriteFile(output, data, 0644); err != nil {
			return fmt.Errorf("failed to write file: %w", err)
		}
		r.writePlain("✓ Catalog exported to %s\n", output)
	case "txt", "text":
		data, err := formatter.ExportCatalogToText(name, songs)
		if err != nil {
			return fmt.Errorf("failed to export catalog: %w", err)
		}
		if output == "" {
			output = "catalog.txt"
		}
		if err := os.WriteFile(output, data, 0644); err != nil {
			return fmt.Errorf("failed to write file: %w", err)
		}
		r.writePlain("✓ Catalog exported to %s\n", output)
	default:
		return fmt.Errorf("%w: unsupported format '%s' (must be csv, markdown, or txt)", shared.ErrInvalidArgument, format)
	}

	r.writePlain("  Songs: %d\n", len(songs))
	return nil
}
