// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/igheddx/tipply/internal/models"
)

// MockService is a test double for [services.Service]
type MockService struct{}

func (m *MockService) Authenticate(ctx context.Context, credentials map[string]string) error {
	return nil
}

func (m *MockService) Profile(ctx context.Context) (*models.Performer, error) {
	return &models.Performer{}, nil
}

func (m *MockService) OnboardingStatus(ctx context.Context) (*models.OnboardingStatus, error) {
	return &models.OnboardingStatus{}, nil
}

func (m *MockService) EnableTipping(ctx context.Context) (*models.Performer, error) {
	return &models.Performer{}, nil
}

func (m *MockService) AttachStripeAccount(ctx context.Context, accountID string) error {
	return nil
}

func (m *MockService) ListSongs(ctx context.Context) ([]models.Song, error) {
	return []models.Song{}, nil
}

func (m *MockService) SearchSongs(ctx context.Context, query string) ([]models.Song, error) {
	return []models.Song{}, nil
}

func (m *MockService) AddSongs(ctx context.Context, songs []models.Song) ([]models.Song, error) {
	return songs, nil
}

func (m *MockService) RemoveSongs(ctx context.Context, ids []string) (int, error) {
	return len(ids), nil
}

func (m *MockService) ListTips(ctx context.Context, limit, offset int) (*models.TipPage, error) {
	return &models.TipPage{}, nil
}

func (m *MockService) GetTip(ctx context.Context, tipID string) (*models.TipRecord, error) {
	return nil, nil
}

func (m *MockService) RefundTip(ctx context.Context, tipID string) (*models.RefundResult, error) {
	return nil, nil
}

func (m *MockService) ListDevices(ctx context.Context) ([]models.Device, error) {
	return []models.Device{}, nil
}

func (m *MockService) RegisterDevice(ctx context.Context, label string) (*models.Device, error) {
	return &models.Device{Label: label}, nil
}

func (m *MockService) RemoveDevice(ctx context.Context, deviceID string) error {
	return nil
}

func (m *MockService) Name() string { return "mock" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
