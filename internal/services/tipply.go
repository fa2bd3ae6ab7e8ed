// Tipply backend implementation of [Service]
//
// Endpoint shapes follow the Tipply REST API consumed by the tipping page and dashboard.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/igheddx/tipply/internal/models"
	"github.com/igheddx/tipply/internal/shared"
)

const defaultTipplyBaseURL = "http://localhost:8080"

// TipplyService implements the Service interface against the Tipply REST backend.
type TipplyService struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewTipplyService creates a new backend client.
//
// An empty baseURL falls back to the local development server.
func NewTipplyService(baseURL, token string) *TipplyService {
	if baseURL == "" {
		baseURL = defaultTipplyBaseURL
	}

	return &TipplyService{
		baseURL:    baseURL,
		token:      token,
		httpClient: http.DefaultClient,
	}
}

// Name returns the service name.
func (t *TipplyService) Name() string {
	return "Tipply"
}

// Authenticate stores the API token for subsequent requests.
func (t *TipplyService) Authenticate(ctx context.Context, credentials map[string]string) error {
	token, ok := credentials["token"]
	if !ok || token == "" {
		return fmt.Errorf("%w: missing token in credentials", shared.ErrMissingCredentials)
	}

	t.token = token
	return nil
}

// doRequest performs an authenticated HTTP request against the backend.
func (t *TipplyService) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	apiURL := t.baseURL + endpoint

	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if t.token != "" {
		req.Header.Set("Authorization", "Bearer "+t.token)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: status 401", shared.ErrNotAuthenticated)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error != "" {
			return fmt.Errorf("tipply API error (status %d): %s", resp.StatusCode, errResp.Error)
		}
		return fmt.Errorf("tipply API error: status %d", resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// Profile retrieves the authenticated performer's profile.
func (t *TipplyService) Profile(ctx context.Context) (*models.Performer, error) {
	var performer models.Performer
	if err := t.doRequest(ctx, http.MethodGet, "/api/profile", nil, &performer); err != nil {
		return nil, err
	}
	return &performer, nil
}

// OnboardingStatus retrieves per-step onboarding completion flags.
func (t *TipplyService) OnboardingStatus(ctx context.Context) (*models.OnboardingStatus, error) {
	var status models.OnboardingStatus
	if err := t.doRequest(ctx, http.MethodGet, "/api/onboarding/status", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// EnableTipping turns on the performer's tipping page.
func (t *TipplyService) EnableTipping(ctx context.Context) (*models.Performer, error) {
	var performer models.Performer
	if err := t.doRequest(ctx, http.MethodPost, "/api/onboarding/tipping/enable", nil, &performer); err != nil {
		return nil, err
	}
	return &performer, nil
}

// AttachStripeAccount links a connected Stripe account to the performer.
func (t *TipplyService) AttachStripeAccount(ctx context.Context, accountID string) error {
	if accountID == "" {
		return fmt.Errorf("%w: empty stripe account ID", shared.ErrInvalidArgument)
	}

	body := map[string]string{"stripeAccountId": accountID}
	return t.doRequest(ctx, http.MethodPost, "/api/onboarding/stripe", body, nil)
}

// ListSongs retrieves the performer's full song catalog.
func (t *TipplyService) ListSongs(ctx context.Context) ([]models.Song, error) {
	var songs []models.Song
	if err := t.doRequest(ctx, http.MethodGet, "/api/catalog/songs", nil, &songs); err != nil {
		return nil, err
	}
	return songs, nil
}

// SearchSongs searches the catalog by title or artist.
func (t *TipplyService) SearchSongs(ctx context.Context, query string) ([]models.Song, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: empty search query", shared.ErrInvalidArgument)
	}

	endpoint := fmt.Sprintf("/api/catalog/search?q=%s", url.QueryEscape(query))

	var songs []models.Song
	if err := t.doRequest(ctx, http.MethodGet, endpoint, nil, &songs); err != nil {
		return nil, err
	}
	return songs, nil
}

// AddSongs uploads a batch of songs to the catalog.
func (t *TipplyService) AddSongs(ctx context.Context, songs []models.Song) ([]models.Song, error) {
	if len(songs) == 0 {
		return nil, fmt.Errorf("%w: no songs provided", shared.ErrInvalidArgument)
	}

	body := struct {
		Songs []models.Song `json:"songs"`
	}{Songs: songs}

	var response struct {
		Added []models.Song `json:"added"`
	}

	if err := t.doRequest(ctx, http.MethodPost, "/api/catalog/songs", body, &response); err != nil {
		return nil, err
	}

	return response.Added, nil
}

// RemoveSongs deletes catalog entries by ID.
func (t *TipplyService) RemoveSongs(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: no song IDs provided", shared.ErrInvalidArgument)
	}

	body := struct {
		IDs []string `json:"ids"`
	}{IDs: ids}

	var response struct {
		Removed int `json:"removed"`
	}

	if err := t.doRequest(ctx, http.MethodDelete, "/api/catalog/songs", body, &response); err != nil {
		return 0, err
	}

	return response.Removed, nil
}

// ListTips retrieves one page of the performer's tips, newest first.
func (t *TipplyService) ListTips(ctx context.Context, limit, offset int) (*models.TipPage, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	endpoint := fmt.Sprintf("/api/tips?limit=%d&offset=%d", limit, offset)

	var page models.TipPage
	if err := t.doRequest(ctx, http.MethodGet, endpoint, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetTip retrieves a single tip record by ID.
func (t *TipplyService) GetTip(ctx context.Context, tipID string) (*models.TipRecord, error) {
	if tipID == "" {
		return nil, fmt.Errorf("%w: empty tip ID", shared.ErrInvalidArgument)
	}

	var tip models.TipRecord
	endpoint := fmt.Sprintf("/api/tips/%s", url.PathEscape(tipID))
	if err := t.doRequest(ctx, http.MethodGet, endpoint, nil, &tip); err != nil {
		return nil, err
	}
	return &tip, nil
}

// RefundTip initiates a refund for an eligible tip.
//
// The eligibility policy runs client-side first so ineligible tips never
// produce a refund request at all.
func (t *TipplyService) RefundTip(ctx context.Context, tipID string) (*models.RefundResult, error) {
	tip, err := t.GetTip(ctx, tipID)
	if err != nil {
		return nil, err
	}

	if !models.IsRefundEligible(*tip) {
		return nil, fmt.Errorf("%w: %s", shared.ErrRefundIneligible, tipID)
	}

	var result models.RefundResult
	endpoint := fmt.Sprintf("/api/tips/%s/refund", url.PathEscape(tipID))
	if err := t.doRequest(ctx, http.MethodPost, endpoint, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListDevices retrieves the performer's registered QR-code devices.
func (t *TipplyService) ListDevices(ctx context.Context) ([]models.Device, error) {
	var devices []models.Device
	if err := t.doRequest(ctx, http.MethodGet, "/api/devices", nil, &devices); err != nil {
		return nil, err
	}
	return devices, nil
}

// RegisterDevice registers a new QR-code device.
func (t *TipplyService) RegisterDevice(ctx context.Context, label string) (*models.Device, error) {
	if label == "" {
		return nil, fmt.Errorf("%w: empty device label", shared.ErrInvalidArgument)
	}

	body := map[string]string{"label": label}

	var device models.Device
	if err := t.doRequest(ctx, http.MethodPost, "/api/devices", body, &device); err != nil {
		return nil, err
	}
	return &device, nil
}

// RemoveDevice unregisters a device by ID.
func (t *TipplyService) RemoveDevice(ctx context.Context, deviceID string) error {
	if deviceID == "" {
		return fmt.Errorf("%w: empty device ID", shared.ErrInvalidArgument)
	}

	endpoint := fmt.Sprintf("/api/devices/%s", url.PathEscape(deviceID))
	return t.doRequest(ctx, http.MethodDelete, endpoint, nil, nil)
}
