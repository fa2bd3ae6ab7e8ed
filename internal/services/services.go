// package services defines interface Service for interacting with the Tipply backend
package services

import (
	"context"

	"github.com/igheddx/tipply/internal/models"
	"golang.org/x/oauth2"
)

// Service defines the operations the Tipply backend exposes to a performer's client.
type Service interface {
	// Authenticate stores credentials for subsequent requests.
	// Expects credentials["token"] to contain the performer's API token.
	Authenticate(ctx context.Context, credentials map[string]string) error

	// Profile retrieves the authenticated performer's account profile.
	Profile(ctx context.Context) (*models.Performer, error)

	// OnboardingStatus retrieves per-step onboarding completion flags.
	OnboardingStatus(ctx context.Context) (*models.OnboardingStatus, error)

	// EnableTipping turns on the performer's tipping page.
	EnableTipping(ctx context.Context) (*models.Performer, error)

	// AttachStripeAccount links a connected Stripe account to the performer.
	AttachStripeAccount(ctx context.Context, accountID string) error

	// ListSongs retrieves the performer's full song catalog.
	ListSongs(ctx context.Context) ([]models.Song, error)

	// SearchSongs searches the catalog by title or artist.
	SearchSongs(ctx context.Context, query string) ([]models.Song, error)

	// AddSongs uploads a batch of songs to the catalog and returns the created entries.
	AddSongs(ctx context.Context, songs []models.Song) ([]models.Song, error)

	// RemoveSongs deletes catalog entries by ID and returns the number removed.
	RemoveSongs(ctx context.Context, ids []string) (int, error)

	// ListTips retrieves one page of the performer's tips, newest first.
	ListTips(ctx context.Context, limit, offset int) (*models.TipPage, error)

	// GetTip retrieves a single tip record by ID.
	GetTip(ctx context.Context, tipID string) (*models.TipRecord, error)

	// RefundTip initiates a refund for an eligible tip.
	// Ineligible tips fail client-side without a network call.
	RefundTip(ctx context.Context, tipID string) (*models.RefundResult, error)

	// ListDevices retrieves the performer's registered QR-code devices.
	ListDevices(ctx context.Context) ([]models.Device, error)

	// RegisterDevice registers a new QR-code device with the given label.
	RegisterDevice(ctx context.Context, label string) (*models.Device, error)

	// RemoveDevice unregisters a device by ID.
	RemoveDevice(ctx context.Context, deviceID string) error

	// Name returns the name of the service (e.g., "Tipply")
	Name() string
}

// OAuthService defines the OAuth2 authorization-code flow used for Stripe Connect.
type OAuthService interface {
	// GetAuthURL returns the authorization URL for the given CSRF state token.
	GetAuthURL(state string) string

	// GetOAuthConfig exposes the underlying OAuth2 configuration for callback handling.
	GetOAuthConfig() *oauth2.Config

	// OAuthenticate applies an exchanged token to the service.
	OAuthenticate(ctx context.Context, token *oauth2.Token) error

	// StripeAccountID extracts the connected account ID from an exchanged token.
	StripeAccountID(token *oauth2.Token) string
}
