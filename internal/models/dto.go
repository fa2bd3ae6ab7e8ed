package models

// Tip status values observed from the backend. The set is open; unknown
// statuses are treated as not settled.
const (
	StatusProcessed = "processed"
	StatusPending   = "pending"
)

// TipRecord represents one customer payment to a performer.
//
// The backend owns the tip lifecycle; the client only ever reads snapshots.
type TipRecord struct {
	ID                    string `json:"id"`
	Amount                int    `json:"amount"` // Minor currency units (cents)
	Currency              string `json:"currency"`
	Status                string `json:"status"`
	CreatedAt             string `json:"createdAt"` // ISO-8601 timestamp
	StripePaymentIntentID string `json:"stripePaymentIntentId,omitempty"`
	SongRequest           string `json:"songRequest,omitempty"`
	DeviceID              string `json:"deviceId,omitempty"`
	Note                  string `json:"note,omitempty"`
}

// TipPage represents a paginated tip listing from the backend.
type TipPage struct {
	Items  []TipRecord `json:"items"`
	Total  int         `json:"total"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
}

// HasMore reports whether another page exists after this one.
func (p *TipPage) HasMore() bool {
	return p.Offset+len(p.Items) < p.Total
}

// Song represents a catalog entry customers can request with a tip.
type Song struct {
	ID       string `json:"id,omitempty"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Album    string `json:"album,omitempty"`
	Duration int    `json:"durationSeconds,omitempty"` // Duration in seconds
}

// Device represents a registered QR-code endpoint.
type Device struct {
	ID           string `json:"id"`
	Label        string `json:"label"`
	TipURL       string `json:"tipUrl"`
	Active       bool   `json:"active"`
	RegisteredAt string `json:"registeredAt,omitempty"`
}

// Performer represents a performer account profile.
type Performer struct {
	ID              string `json:"id"`
	Email           string `json:"email"`
	DisplayName     string `json:"displayName"`
	StripeAccountID string `json:"stripeAccountId,omitempty"`
	TippingEnabled  bool   `json:"tippingEnabled"`
}

// OnboardingStatus holds per-step completion flags for the onboarding wizard.
type OnboardingStatus struct {
	ProfileComplete   bool `json:"profileComplete"`
	PaymentsConnected bool `json:"paymentsConnected"`
	TippingEnabled    bool `json:"tippingEnabled"`
	DeviceRegistered  bool `json:"deviceRegistered"`
	CatalogUploaded   bool `json:"catalogUploaded"`
}

// Complete reports whether every onboarding step is finished.
func (s *OnboardingStatus) Complete() bool {
	return s.ProfileComplete && s.PaymentsConnected && s.TippingEnabled && s.DeviceRegistered && s.CatalogUploaded
}

// RefundResult represents the backend's response to a refund initiation.
type RefundResult struct {
	TipID    string `json:"tipId"`
	RefundID string `json:"refundId"`
	Status   string `json:"status"`
}
