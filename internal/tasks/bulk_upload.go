package tasks

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/igheddx/tipply/internal/formatter"
	"github.com/igheddx/tipply/internal/models"
	"github.com/igheddx/tipply/internal/shared"
	"golang.org/x/time/rate"
)

// BulkUploadOpts contains configuration for bulk catalog uploads.
type BulkUploadOpts struct {
	Format       string  // Input format: csv, txt
	BatchSize    int     // Songs per request (default: 25)
	NumWorkers   int     // Concurrent workers (default: 3)
	RateLimit    float64 // Requests per second (default: 5)
	ManifestPath string  // Manifest output path (default: upload_manifest_{epoch}.json)
}

// BatchResult records the outcome of one upload batch.
type BatchResult struct {
	Batch   int           `json:"batch"`
	Count   int           `json:"count"`
	Added   []models.Song `json:"added,omitempty"`
	Success bool          `json:"success"`
	Error   string        `json:"error,omitempty"`
}

// BulkUploadResult contains all data from a bulk catalog upload.
type BulkUploadResult struct {
	TotalSongs    int           `json:"total_songs"`
	UploadedSongs int           `json:"uploaded_songs"`
	FailedSongs   int           `json:"failed_songs"`
	Batches       []BatchResult `json:"batches"`
	ManifestPath  string        `json:"manifest_path,omitempty"`
}

type uploadJob struct {
	index int
	songs []models.Song
}

// BulkUpload parses a catalog file and uploads its songs in concurrent batches with rate limiting.
//
// This method implements a worker pool pattern to efficiently push large set lists.
// It respects API rate limits, handles partial failures gracefully, and generates a
// manifest file summarizing the upload results.
func (e *CatalogEngine) BulkUpload(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	input io.Reader,
	opts BulkUploadOpts,
) (*BulkUploadResult, error) {
	if e.svc == nil {
		return nil, fmt.Errorf("%w: service not initialized", shared.ErrServiceUnavailable)
	}

	if opts.BatchSize <= 0 {
		opts.BatchSize = 25
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 3
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}
	if opts.ManifestPath == "" {
		opts.ManifestPath = fmt.Sprintf("upload_manifest_%d.json", time.Now().Unix())
	}

	var songs []models.Song
	var err error

	switch opts.Format {
	case "txt":
		songs, err = formatter.ParseCatalogText(input)
	case "csv", "":
		songs, err = formatter.ParseCatalogCSV(input)
	default:
		return nil, fmt.Errorf("%w: unsupported input format %q", shared.ErrInvalidArgument, opts.Format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog input: %w", err)
	}

	e.sendProgress(prog, parseCatalogUpdate(len(songs)))

	batches := make([][]models.Song, 0, (len(songs)+opts.BatchSize-1)/opts.BatchSize)
	for i := 0; i < len(songs); i += opts.BatchSize {
		end := i + opts.BatchSize
		if end > len(songs) {
			end = len(songs)
		}
		batches = append(batches, songs[i:end])
	}

	result := &BulkUploadResult{
		TotalSongs: len(songs),
		Batches:    make([]BatchResult, 0, len(batches)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan uploadJob, len(batches))
	results := make(chan BatchResult, len(batches))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.uploadWorker(ctx, &wg, limiter, jobs, results)
	}

	go func() {
		for i, batch := range batches {
			select {
			case <-ctx.Done():
				close(jobs)
				return
			default:
			}

			e.sendProgress(prog, uploadBatchUpdate(i+1, len(batches), batch))
			jobs <- uploadJob{index: i, songs: batch}
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Batches = append(result.Batches, res)

		if res.Success {
			result.UploadedSongs += len(res.Added)
			e.cacheSongs(res.Added)
			e.sendProgress(prog, uploadCompletedUpdate(completed, len(batches), len(res.Added)))
		} else {
			result.FailedSongs += res.Count
			e.sendProgress(prog, uploadFailedUpdate(completed, len(batches), fmt.Errorf("%s", res.Error)))
		}
	}

	if err := formatter.WriteJSONFile(opts.ManifestPath, result); err != nil {
		return result, fmt.Errorf("upload completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = opts.ManifestPath
	return result, nil
}

// uploadWorker is a worker goroutine that uploads song batches from the jobs channel.
func (e *CatalogEngine) uploadWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	limiter *rate.Limiter,
	jobs <-chan uploadJob,
	results chan<- BatchResult,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := limiter.Wait(ctx); err != nil {
			return
		}

		res := BatchResult{Batch: job.index + 1, Count: len(job.songs)}

		added, err := e.svc.AddSongs(ctx, job.songs)
		if err != nil {
			res.Error = err.Error()
		} else {
			res.Added = added
			res.Success = true
		}

		results <- res
	}
}
