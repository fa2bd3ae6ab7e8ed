package tasks

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/igheddx/tipply/internal/models"
	"github.com/igheddx/tipply/internal/services"
	"github.com/igheddx/tipply/internal/shared"
)

type mockService struct {
	name          string
	profile       *models.Performer
	onboarding    *models.OnboardingStatus
	songs         []models.Song
	tips          []models.TipRecord
	devices       []models.Device
	profileErr    error
	listSongsErr  error
	listTipsErr   error
	addSongsErr   error
	removeErr     error
	addCallCount  int
	addedBatches  [][]models.Song
	removedIDs    []string
	refundResults map[string]*models.RefundResult
}

func (m *mockService) Name() string {
	if m.name == "" {
		return "mock"
	}
	return m.name
}

func (m *mockService) Authenticate(ctx context.Context, credentials map[string]string) error {
	return nil
}

func (m *mockService) Profile(ctx context.Context) (*models.Performer, error) {
	if m.profileErr != nil {
		return nil, m.profileErr
	}
	return m.profile, nil
}

func (m *mockService) OnboardingStatus(ctx context.Context) (*models.OnboardingStatus, error) {
	return m.onboarding, nil
}

func (m *mockService) EnableTipping(ctx context.Context) (*models.Performer, error) {
	return m.profile, nil
}

func (m *mockService) AttachStripeAccount(ctx context.Context, accountID string) error {
	return nil
}

func (m *mockService) ListSongs(ctx context.Context) ([]models.Song, error) {
	if m.listSongsErr != nil {
		return nil, m.listSongsErr
	}
	return m.songs, nil
}

func (m *mockService) SearchSongs(ctx context.Context, query string) ([]models.Song, error) {
	var matched []models.Song
	for _, song := range m.songs {
		if strings.Contains(strings.ToLower(song.Title), strings.ToLower(query)) {
			matched = append(matched, song)
		}
	}
	return matched, nil
}

func (m *mockService) AddSongs(ctx context.Context, songs []models.Song) ([]models.Song, error) {
	m.addCallCount++
	if m.addSongsErr != nil {
		return nil, m.addSongsErr
	}
	added := make([]models.Song, len(songs))
	for i, song := range songs {
		song.ID = fmt.Sprintf("song_%d_%d", m.addCallCount, i)
		added[i] = song
	}
	m.addedBatches = append(m.addedBatches, added)
	return added, nil
}

func (m *mockService) RemoveSongs(ctx context.Context, ids []string) (int, error) {
	if m.removeErr != nil {
		return 0, m.removeErr
	}
	m.removedIDs = append(m.removedIDs, ids...)
	return len(ids), nil
}

func (m *mockService) ListTips(ctx context.Context, limit, offset int) (*models.TipPage, error) {
	if m.listTipsErr != nil {
		return nil, m.listTipsErr
	}
	end := offset + limit
	if end > len(m.tips) {
		end = len(m.tips)
	}
	var items []models.TipRecord
	if offset < len(m.tips) {
		items = m.tips[offset:end]
	}
	return &models.TipPage{Items: items, Total: len(m.tips), Limit: limit, Offset: offset}, nil
}

func (m *mockService) GetTip(ctx context.Context, tipID string) (*models.TipRecord, error) {
	for _, tip := range m.tips {
		if tip.ID == tipID {
			return &tip, nil
		}
	}
	return nil, fmt.Errorf("tip not found")
}

func (m *mockService) RefundTip(ctx context.Context, tipID string) (*models.RefundResult, error) {
	if result, ok := m.refundResults[tipID]; ok {
		return result, nil
	}
	return nil, fmt.Errorf("refund not available")
}

func (m *mockService) ListDevices(ctx context.Context) ([]models.Device, error) {
	return m.devices, nil
}

func (m *mockService) RegisterDevice(ctx context.Context, label string) (*models.Device, error) {
	return &models.Device{ID: "dev_new", Label: label}, nil
}

func (m *mockService) RemoveDevice(ctx context.Context, deviceID string) error {
	return nil
}

// Mock API client for testing
type mockAPIClient struct {
	responses map[string]*services.APIResponse
	errors    map[string]error
}

func (m *mockAPIClient) Get(ctx context.Context, path string) (*services.APIResponse, error) {
	if err, ok := m.errors[path]; ok {
		return nil, err
	}
	if resp, ok := m.responses[path]; ok {
		return resp, nil
	}
	return &services.APIResponse{StatusCode: 404}, nil
}

// Mock caches for testing

type mockSongCache struct {
	cached []models.Song
}

func (m *mockSongCache) CacheSong(song models.Song) error {
	m.cached = append(m.cached, song)
	return nil
}

type mockTipCache struct {
	cached []models.TipRecord
}

func (m *mockTipCache) CacheTip(tip models.TipRecord) error {
	m.cached = append(m.cached, tip)
	return nil
}

func TestDashboard(t *testing.T) {
	recent := time.Now().AddDate(0, 0, -2).Format(time.RFC3339)
	stale := time.Now().AddDate(0, 0, -30).Format(time.RFC3339)

	svc := &mockService{
		profile: &models.Performer{ID: "perf_1", DisplayName: "The Night Owls", TippingEnabled: true},
		songs: []models.Song{
			{ID: "song_1", Title: "Wonderwall", Artist: "Oasis"},
			{ID: "song_2", Title: "Yesterday", Artist: "The Beatles"},
		},
		devices: []models.Device{{ID: "dev_1", Label: "Stage left"}},
		tips: []models.TipRecord{
			{ID: "tip_1", Amount: 500, Status: models.StatusProcessed, CreatedAt: recent, StripePaymentIntentID: "pi_1", SongRequest: "Wonderwall"},
			{ID: "tip_2", Amount: 1000, Status: models.StatusProcessed, CreatedAt: stale, StripePaymentIntentID: "pi_2"},
			{ID: "tip_3", Amount: 250, Status: models.StatusPending, CreatedAt: recent, SongRequest: "Wonderwall"},
		},
	}

	engine := NewCatalogEngine(svc, nil)

	t.Run("aggregates totals and refund eligibility", func(t *testing.T) {
		result, err := engine.Dashboard(context.Background(), nil)
		if err != nil {
			t.Fatalf("dashboard failed: %v", err)
		}

		if result.CatalogSize != 2 {
			t.Errorf("expected catalog size 2, got %d", result.CatalogSize)
		}
		if result.DeviceCount != 1 {
			t.Errorf("expected 1 device, got %d", result.DeviceCount)
		}
		if result.TotalTips != 3 {
			t.Errorf("expected 3 tips, got %d", result.TotalTips)
		}
		if result.ProcessedCount != 2 || result.PendingCount != 1 {
			t.Errorf("unexpected status counts: processed=%d pending=%d", result.ProcessedCount, result.PendingCount)
		}
		if result.TotalCents != 1500 {
			t.Errorf("expected 1500 cents processed, got %d", result.TotalCents)
		}
		if result.RefundableCount != 1 {
			t.Errorf("expected 1 refundable tip, got %d", result.RefundableCount)
		}
		if result.RefundableCents != 500 {
			t.Errorf("expected 500 refundable cents, got %d", result.RefundableCents)
		}
		if result.SongRequests["Wonderwall"] != 2 {
			t.Errorf("expected 2 Wonderwall requests, got %d", result.SongRequests["Wonderwall"])
		}
	})

	t.Run("caches fetched data", func(t *testing.T) {
		songCache := &mockSongCache{}
		tipCache := &mockTipCache{}
		engine.SetSongCache(songCache)
		engine.SetTipCache(tipCache)

		if _, err := engine.Dashboard(context.Background(), nil); err != nil {
			t.Fatalf("dashboard failed: %v", err)
		}

		if len(songCache.cached) != 2 {
			t.Errorf("expected 2 cached songs, got %d", len(songCache.cached))
		}
		if len(tipCache.cached) != 3 {
			t.Errorf("expected 3 cached tips, got %d", len(tipCache.cached))
		}
	})

	t.Run("emits progress updates", func(t *testing.T) {
		progress := make(chan ProgressUpdate, 32)

		if _, err := engine.Dashboard(context.Background(), progress); err != nil {
			t.Fatalf("dashboard failed: %v", err)
		}
		close(progress)

		count := 0
		for range progress {
			count++
		}
		if count == 0 {
			t.Error("expected progress updates")
		}
	})

	t.Run("fails without service", func(t *testing.T) {
		empty := NewCatalogEngine(nil, nil)
		if _, err := empty.Dashboard(context.Background(), nil); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("propagates profile errors", func(t *testing.T) {
		failing := NewCatalogEngine(&mockService{profileErr: errors.New("boom")}, nil)
		if _, err := failing.Dashboard(context.Background(), nil); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})
}

func TestBulkUpload(t *testing.T) {
	t.Run("uploads CSV input in batches", func(t *testing.T) {
		svc := &mockService{}
		engine := NewCatalogEngine(svc, nil)

		var input strings.Builder
		input.WriteString("title,artist\n")
		for i := 0; i < 30; i++ {
			input.WriteString(fmt.Sprintf("Song %d,Artist %d\n", i, i))
		}

		manifest := filepath.Join(t.TempDir(), "manifest.json")
		result, err := engine.BulkUpload(context.Background(), nil, strings.NewReader(input.String()), BulkUploadOpts{
			Format:       "csv",
			BatchSize:    25,
			ManifestPath: manifest,
		})
		if err != nil {
			t.Fatalf("bulk upload failed: %v", err)
		}

		if result.TotalSongs != 30 {
			t.Errorf("expected 30 total songs, got %d", result.TotalSongs)
		}
		if result.UploadedSongs != 30 {
			t.Errorf("expected 30 uploaded songs, got %d", result.UploadedSongs)
		}
		if len(result.Batches) != 2 {
			t.Errorf("expected 2 batches, got %d", len(result.Batches))
		}
		if result.ManifestPath != manifest {
			t.Errorf("expected manifest at %s, got %s", manifest, result.ManifestPath)
		}
	})

	t.Run("uploads text input", func(t *testing.T) {
		svc := &mockService{}
		engine := NewCatalogEngine(svc, nil)

		input := "Oasis - Wonderwall\nThe Beatles - Yesterday\n"
		manifest := filepath.Join(t.TempDir(), "manifest.json")

		result, err := engine.BulkUpload(context.Background(), nil, strings.NewReader(input), BulkUploadOpts{
			Format:       "txt",
			ManifestPath: manifest,
		})
		if err != nil {
			t.Fatalf("bulk upload failed: %v", err)
		}

		if result.UploadedSongs != 2 {
			t.Errorf("expected 2 uploaded songs, got %d", result.UploadedSongs)
		}
	})

	t.Run("records batch failures", func(t *testing.T) {
		svc := &mockService{addSongsErr: errors.New("catalog limit reached")}
		engine := NewCatalogEngine(svc, nil)

		manifest := filepath.Join(t.TempDir(), "manifest.json")
		result, err := engine.BulkUpload(context.Background(), nil, strings.NewReader("Wonderwall,Oasis\n"), BulkUploadOpts{
			ManifestPath: manifest,
		})
		if err != nil {
			t.Fatalf("bulk upload failed: %v", err)
		}

		if result.FailedSongs != 1 {
			t.Errorf("expected 1 failed song, got %d", result.FailedSongs)
		}
		if result.UploadedSongs != 0 {
			t.Errorf("expected no uploaded songs, got %d", result.UploadedSongs)
		}
		if len(result.Batches) != 1 || result.Batches[0].Success {
			t.Errorf("expected a single failed batch: %+v", result.Batches)
		}
	})

	t.Run("rejects unsupported format", func(t *testing.T) {
		engine := NewCatalogEngine(&mockService{}, nil)
		if _, err := engine.BulkUpload(context.Background(), nil, strings.NewReader("x"), BulkUploadOpts{Format: "yaml"}); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("rejects unparseable input", func(t *testing.T) {
		engine := NewCatalogEngine(&mockService{}, nil)
		if _, err := engine.BulkUpload(context.Background(), nil, strings.NewReader(""), BulkUploadOpts{}); err == nil {
			t.Error("expected error for empty input")
		}
	})
}

func TestBulkRemove(t *testing.T) {
	t.Run("removes IDs in chunks", func(t *testing.T) {
		svc := &mockService{}
		engine := NewCatalogEngine(svc, nil)

		ids := make([]string, 120)
		for i := range ids {
			ids[i] = fmt.Sprintf("song_%d", i)
		}

		result, err := engine.BulkRemove(context.Background(), nil, ids)
		if err != nil {
			t.Fatalf("bulk remove failed: %v", err)
		}

		if result.Requested != 120 || result.Removed != 120 {
			t.Errorf("unexpected result: %+v", result)
		}
		if len(svc.removedIDs) != 120 {
			t.Errorf("expected all IDs passed to service, got %d", len(svc.removedIDs))
		}
	})

	t.Run("rejects empty ID list", func(t *testing.T) {
		engine := NewCatalogEngine(&mockService{}, nil)
		if _, err := engine.BulkRemove(context.Background(), nil, nil); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("propagates removal errors", func(t *testing.T) {
		engine := NewCatalogEngine(&mockService{removeErr: errors.New("boom")}, nil)
		if _, err := engine.BulkRemove(context.Background(), nil, []string{"song_1"}); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})
}

func TestDump(t *testing.T) {
	t.Run("collects all endpoints", func(t *testing.T) {
		api := &mockAPIClient{
			responses: map[string]*services.APIResponse{
				"/api/profile":           {StatusCode: 200, JSONData: map[string]any{"id": "perf_1"}},
				"/api/onboarding/status": {StatusCode: 200, JSONData: map[string]any{"profileComplete": true}},
				"/api/catalog/songs":     {StatusCode: 200, JSONData: []any{}},
				"/api/tips":              {StatusCode: 200, JSONData: map[string]any{"total": 0}},
				"/api/devices":           {StatusCode: 200, JSONData: []any{}},
			},
		}

		engine := NewCatalogEngine(&mockService{}, api)
		result, err := engine.Dump(context.Background(), nil)
		if err != nil {
			t.Fatalf("dump failed: %v", err)
		}

		if len(result.Errors) != 0 {
			t.Errorf("expected no errors, got %v", result.Errors)
		}
		if result.Profile == nil || result.Onboarding == nil {
			t.Error("expected profile and onboarding data")
		}
	})

	t.Run("records failing endpoints", func(t *testing.T) {
		api := &mockAPIClient{
			responses: map[string]*services.APIResponse{
				"/api/profile": {StatusCode: 200, JSONData: map[string]any{"id": "perf_1"}},
			},
			errors: map[string]error{
				"/api/tips": errors.New("connection refused"),
			},
		}

		engine := NewCatalogEngine(&mockService{}, api)
		result, err := engine.Dump(context.Background(), nil)
		if err != nil {
			t.Fatalf("dump failed: %v", err)
		}

		if len(result.Errors) == 0 {
			t.Error("expected endpoint errors to be recorded")
		}
	})

	t.Run("fails without API client", func(t *testing.T) {
		engine := NewCatalogEngine(&mockService{}, nil)
		if _, err := engine.Dump(context.Background(), nil); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})
}
