package tasks

import (
	"fmt"

	"github.com/igheddx/tipply/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchProfile Phase = iota
	FetchStatus
	FetchCatalog
	FetchTips
	FetchDevices
	ParseCatalog
	UploadSongs
	RemoveSongs
	Aggregate
)

func (p Phase) String() string {
	switch p {
	case FetchProfile:
		return "fetch_profile"
	case FetchStatus:
		return "fetch_status"
	case FetchCatalog:
		return "fetch_catalog"
	case FetchTips:
		return "fetch_tips"
	case FetchDevices:
		return "fetch_devices"
	case ParseCatalog:
		return "parse_catalog"
	case UploadSongs:
		return "upload_songs"
	case RemoveSongs:
		return "remove_songs"
	case Aggregate:
		return "aggregate"
	default:
		return ""
	}
}

func fetchProfileUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchProfile,
		Step:    step,
		Total:   total,
		Message: "Fetching performer profile...",
	}
}

func fetchTipPageUpdate(step, total, fetched int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTips,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Fetching tips (%d so far)...", fetched),
	}
}

func fetchDevicesUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchDevices,
		Step:    step,
		Total:   total,
		Message: "Fetching registered devices...",
	}
}

func fetchCatalogUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchCatalog,
		Step:    step,
		Total:   total,
		Message: "Fetching song catalog...",
	}
}

func aggregateUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Aggregate,
		Step:    step,
		Total:   total,
		Message: "Computing dashboard totals...",
	}
}

func parseCatalogUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ParseCatalog,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Parsed %d songs from input", count),
	}
}

func uploadBatchUpdate(step, total int, batch []models.Song) ProgressUpdate {
	return ProgressUpdate{
		Phase:   UploadSongs,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Uploading batch of %d songs...", step, total, len(batch)),
	}
}

func uploadCompletedUpdate(step, total, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   UploadSongs,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %d songs added", step, total, count),
	}
}

func uploadFailedUpdate(step, total int, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   UploadSongs,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ batch failed: %v", step, total, err),
	}
}

func removeSongsUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RemoveSongs,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Removing songs...", step, total),
	}
}

func operationUpdate(endpoint endpointOperation, step int, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   endpoint.phase,
		Step:    step,
		Total:   total,
		Message: endpoint.message,
	}
}
