// package tasks implements multi-step performer workflows over the Tipply backend.
//
// The core abstraction is Engine, which orchestrates dashboard aggregation, bulk catalog
// operations, and data dumps.
// Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"
	"io"

	"github.com/igheddx/tipply/internal/models"
	"github.com/igheddx/tipply/internal/services"
	"github.com/igheddx/tipply/internal/shared"
)

// DashboardResult aggregates the performer's current standing across all endpoints.
type DashboardResult struct {
	Profile         *models.Performer // Performer profile
	CatalogSize     int               // Cached catalog entry count
	DeviceCount     int               // Registered QR devices
	TotalTips       int               // All tips seen
	ProcessedCount  int               // Tips with processed status
	PendingCount    int               // Tips still pending
	TotalCents      int               // Sum of processed tip amounts
	RefundableCount int               // Processed tips still inside the refund window
	RefundableCents int               // Sum of refundable tip amounts
	SongRequests    map[string]int    // Request counts keyed by requested song text
}

// BulkRemoveResult contains the outcome of a bulk catalog removal.
type BulkRemoveResult struct {
	Requested int // IDs submitted
	Removed   int // Entries the backend confirmed removed
}

// EndpointResult represents the result of fetching data from a single API endpoint.
type EndpointResult struct {
	Endpoint string
	Data     any
	Error    error
}

// DumpResult contains all data fetched from the backend.
type DumpResult struct {
	Profile    any              // Performer profile
	Onboarding any              // Onboarding checklist state
	Catalog    any              // Song catalog
	Tips       any              // First page of tips
	Devices    any              // Registered devices
	Errors     []EndpointResult // Failed endpoint fetches
}

type endpointOperation struct {
	name    string
	path    string
	target  *any
	phase   Phase
	message string
}

// Engine defines multi-step operations against the Tipply backend.
type Engine interface {
	// Dashboard aggregates profile, catalog, device, and tip data into a single summary,
	// including refund-window eligibility counts.
	Dashboard(ctx context.Context, progress chan<- ProgressUpdate) (*DashboardResult, error)

	// BulkUpload parses a catalog file and uploads its songs in rate-limited concurrent batches.
	BulkUpload(ctx context.Context, progress chan<- ProgressUpdate, input io.Reader, opts BulkUploadOpts) (*BulkUploadResult, error)

	// BulkRemove deletes catalog entries in rate-limited chunks.
	BulkRemove(ctx context.Context, progress chan<- ProgressUpdate, ids []string) (*BulkRemoveResult, error)

	// Dump fetches raw data from every backend endpoint for backup or debugging.
	Dump(ctx context.Context, progress chan<- ProgressUpdate) (*DumpResult, error)
}

// SongCacher persists catalog entries fetched during engine operations.
//
// Caching is best-effort: errors are ignored so a broken cache never disrupts an operation.
type SongCacher interface {
	CacheSong(song models.Song) error
}

// TipCacher persists tip snapshots fetched during engine operations.
type TipCacher interface {
	CacheTip(tip models.TipRecord) error
}

// APIClient defines the interface for making raw API requests to the backend.
// This abstraction allows for easier testing and decoupling from concrete implementation.
type APIClient interface {
	Get(ctx context.Context, path string) (*services.APIResponse, error)
}

// CatalogEngine implements Engine for performer catalog and tip operations.
type CatalogEngine struct {
	svc       services.Service
	api       APIClient
	songCache SongCacher
	tipCache  TipCacher
}

// NewCatalogEngine creates a new CatalogEngine with the provided service and API client.
func NewCatalogEngine(svc services.Service, api APIClient) *CatalogEngine {
	return &CatalogEngine{svc: svc, api: api}
}

// SetSongCache enables best-effort catalog caching during engine operations.
func (e *CatalogEngine) SetSongCache(cache SongCacher) {
	e.songCache = cache
}

// SetTipCache enables best-effort tip snapshot caching during engine operations.
func (e *CatalogEngine) SetTipCache(cache TipCacher) {
	e.tipCache = cache
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *CatalogEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// cacheSongs persists catalog entries without letting cache failures surface.
func (e *CatalogEngine) cacheSongs(songs []models.Song) {
	if e.songCache == nil {
		return
	}
	for _, song := range songs {
		_ = e.songCache.CacheSong(song)
	}
}

// cacheTips persists tip snapshots without letting cache failures surface.
func (e *CatalogEngine) cacheTips(tips []models.TipRecord) {
	if e.tipCache == nil {
		return
	}
	for _, tip := range tips {
		_ = e.tipCache.CacheTip(tip)
	}
}

// tipPageSize is the page size used when walking the full tip history.
const tipPageSize = 100

// Dashboard aggregates performer data into a single summary.
func (e *CatalogEngine) Dashboard(ctx context.Context, progress chan<- ProgressUpdate) (*DashboardResult, error) {
	if e.svc == nil {
		return nil, fmt.Errorf("%w: service not initialized", shared.ErrServiceUnavailable)
	}

	result := &DashboardResult{SongRequests: make(map[string]int)}

	e.sendProgress(progress, fetchProfileUpdate(1, 4))
	profile, err := e.svc.Profile(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch profile: %v", shared.ErrAPIRequest, err)
	}
	result.Profile = profile

	e.sendProgress(progress, fetchCatalogUpdate(2, 4))
	songs, err := e.svc.ListSongs(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch catalog: %v", shared.ErrAPIRequest, err)
	}
	result.CatalogSize = len(songs)
	e.cacheSongs(songs)

	e.sendProgress(progress, fetchDevicesUpdate(3, 4))
	devices, err := e.svc.ListDevices(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch devices: %v", shared.ErrAPIRequest, err)
	}
	result.DeviceCount = len(devices)

	offset := 0
	for {
		e.sendProgress(progress, fetchTipPageUpdate(4, 4, result.TotalTips))

		page, err := e.svc.ListTips(ctx, tipPageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to fetch tips: %v", shared.ErrAPIRequest, err)
		}

		e.cacheTips(page.Items)

		for _, tip := range page.Items {
			result.TotalTips++

			switch tip.Status {
			case models.StatusProcessed:
				result.ProcessedCount++
				result.TotalCents += tip.Amount
			case models.StatusPending:
				result.PendingCount++
			}

			if models.IsRefundEligible(tip) {
				result.RefundableCount++
				result.RefundableCents += tip.Amount
			}

			if tip.SongRequest != "" {
				result.SongRequests[tip.SongRequest]++
			}
		}

		if !page.HasMore() || len(page.Items) == 0 {
			break
		}
		offset += len(page.Items)
	}

	e.sendProgress(progress, aggregateUpdate(4, 4))
	return result, nil
}

// BulkRemove deletes catalog entries in chunks to stay under request size limits.
func (e *CatalogEngine) BulkRemove(ctx context.Context, progress chan<- ProgressUpdate, ids []string) (*BulkRemoveResult, error) {
	if e.svc == nil {
		return nil, fmt.Errorf("%w: service not initialized", shared.ErrServiceUnavailable)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no song IDs provided", shared.ErrInvalidArgument)
	}

	const chunkSize = 50

	result := &BulkRemoveResult{Requested: len(ids)}
	totalChunks := (len(ids) + chunkSize - 1) / chunkSize

	for i := 0; i < len(ids); i += chunkSize {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		end := i + chunkSize
		if end > len(ids) {
			end = len(ids)
		}

		e.sendProgress(progress, removeSongsUpdate(i/chunkSize+1, totalChunks))

		removed, err := e.svc.RemoveSongs(ctx, ids[i:end])
		if err != nil {
			return result, fmt.Errorf("%w: failed to remove songs: %v", shared.ErrAPIRequest, err)
		}
		result.Removed += removed
	}

	return result, nil
}

// Dump fetches raw data from every backend endpoint.
func (e *CatalogEngine) Dump(ctx context.Context, progress chan<- ProgressUpdate) (*DumpResult, error) {
	if e.api == nil {
		return nil, fmt.Errorf("%w: API client not initialized", shared.ErrServiceUnavailable)
	}

	result := &DumpResult{
		Errors: []EndpointResult{},
	}

	endpoints := []endpointOperation{
		{name: "profile", path: "/api/profile", target: &result.Profile, phase: FetchProfile, message: "Fetching profile..."},
		{name: "onboarding", path: "/api/onboarding/status", target: &result.Onboarding, phase: FetchStatus, message: "Fetching onboarding status..."},
		{name: "catalog", path: "/api/catalog/songs", target: &result.Catalog, phase: FetchCatalog, message: "Fetching catalog..."},
		{name: "tips", path: "/api/tips", target: &result.Tips, phase: FetchTips, message: "Fetching tips..."},
		{name: "devices", path: "/api/devices", target: &result.Devices, phase: FetchDevices, message: "Fetching devices..."},
	}

	totalSteps := len(endpoints)

	for i, endpoint := range endpoints {
		e.sendProgress(progress, operationUpdate(endpoint, i+1, totalSteps))

		resp, err := e.api.Get(ctx, endpoint.path)
		if err != nil || resp.StatusCode < 200 || resp.StatusCode >= 300 {
			errMsg := ""
			if err != nil {
				errMsg = err.Error()
			} else {
				errMsg = fmt.Sprintf("status %d", resp.StatusCode)
			}
			result.Errors = append(result.Errors, EndpointResult{
				Endpoint: endpoint.path,
				Error:    fmt.Errorf("%s", errMsg),
			})
		} else {
			*endpoint.target = resp.JSONData
		}
	}

	return result, nil
}
