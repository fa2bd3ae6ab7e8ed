package models

import (
	"fmt"
	"time"
)

// entity holds the lifecycle fields shared by all persistent models.
type entity struct {
	id        string
	sequence  int
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

func newEntity(sequence int) entity {
	now := time.Now()
	return entity{sequence: sequence, createdAt: now, updatedAt: now}
}

func (e *entity) ID() string            { return e.id }
func (e *entity) Sequence() int         { return e.sequence }
func (e *entity) CreatedAt() time.Time  { return e.createdAt }
func (e *entity) UpdatedAt() time.Time  { return e.updatedAt }
func (e *entity) DeletedAt() *time.Time { return e.deletedAt }

func (e *entity) SetID(id string)           { e.id = id }
func (e *entity) SetUpdatedAt(t time.Time)  { e.updatedAt = t }
func (e *entity) SetDeletedAt(t *time.Time) { e.deletedAt = t }
func (e *entity) SetCreatedAt(t time.Time)  { e.createdAt = t }

// Profile is the locally cached performer account, including the Stripe
// account identifier once payments are connected.
type Profile struct {
	entity
	email           string
	displayName     string
	stripeAccountID string
	tippingEnabled  bool
}

// NewProfile creates a Profile cache entry for a performer account.
func NewProfile(sequence int, email, displayName string) *Profile {
	return &Profile{entity: newEntity(sequence), email: email, displayName: displayName}
}

func (p *Profile) Email() string           { return p.email }
func (p *Profile) DisplayName() string     { return p.displayName }
func (p *Profile) StripeAccountID() string { return p.stripeAccountID }
func (p *Profile) TippingEnabled() bool    { return p.tippingEnabled }

func (p *Profile) SetStripeAccountID(id string)   { p.stripeAccountID = id }
func (p *Profile) SetTippingEnabled(enabled bool) { p.tippingEnabled = enabled }

func (p *Profile) Validate() error {
	if p.email == "" {
		return fmt.Errorf("profile email is required")
	}
	if p.displayName == "" {
		return fmt.Errorf("profile display name is required")
	}
	return nil
}

// PersistedSong is a cached catalog entry keyed by the backend's song ID.
type PersistedSong struct {
	entity
	remoteID string
	song     Song
}

// NewPersistedSong creates a PersistedSong from a backend catalog entry.
func NewPersistedSong(sequence int, song Song) *PersistedSong {
	return &PersistedSong{entity: newEntity(sequence), remoteID: song.ID, song: song}
}

func (s *PersistedSong) RemoteID() string { return s.remoteID }
func (s *PersistedSong) Title() string    { return s.song.Title }
func (s *PersistedSong) Artist() string   { return s.song.Artist }
func (s *PersistedSong) Album() string    { return s.song.Album }
func (s *PersistedSong) Duration() int    { return s.song.Duration }

// Song returns the wire-shaped catalog entry.
func (s *PersistedSong) Song() Song {
	song := s.song
	song.ID = s.remoteID
	return song
}

func (s *PersistedSong) Validate() error {
	if s.remoteID == "" {
		return fmt.Errorf("song remote ID is required")
	}
	if s.song.Title == "" {
		return fmt.Errorf("song title is required")
	}
	return nil
}

// PersistedDevice is a cached registered QR-code endpoint.
type PersistedDevice struct {
	entity
	remoteID string
	label    string
	tipURL   string
}

// NewPersistedDevice creates a PersistedDevice from a backend device record.
func NewPersistedDevice(sequence int, device Device) *PersistedDevice {
	return &PersistedDevice{
		entity:   newEntity(sequence),
		remoteID: device.ID,
		label:    device.Label,
		tipURL:   device.TipURL,
	}
}

func (d *PersistedDevice) RemoteID() string { return d.remoteID }
func (d *PersistedDevice) Label() string    { return d.label }
func (d *PersistedDevice) TipURL() string   { return d.tipURL }

func (d *PersistedDevice) Validate() error {
	if d.remoteID == "" {
		return fmt.Errorf("device remote ID is required")
	}
	if d.label == "" {
		return fmt.Errorf("device label is required")
	}
	return nil
}

// PersistedTip is a cached tip record snapshot for offline dashboards.
type PersistedTip struct {
	entity
	remoteID string
	tip      TipRecord
}

// NewPersistedTip creates a PersistedTip from a backend tip record.
func NewPersistedTip(sequence int, tip TipRecord) *PersistedTip {
	return &PersistedTip{entity: newEntity(sequence), remoteID: tip.ID, tip: tip}
}

func (t *PersistedTip) RemoteID() string        { return t.remoteID }
func (t *PersistedTip) Amount() int             { return t.tip.Amount }
func (t *PersistedTip) Currency() string        { return t.tip.Currency }
func (t *PersistedTip) Status() string          { return t.tip.Status }
func (t *PersistedTip) PaymentIntentID() string { return t.tip.StripePaymentIntentID }
func (t *PersistedTip) SongRequest() string     { return t.tip.SongRequest }
func (t *PersistedTip) DeviceID() string        { return t.tip.DeviceID }
func (t *PersistedTip) TippedAt() string        { return t.tip.CreatedAt }

// Tip returns the wire-shaped tip record.
func (t *PersistedTip) Tip() TipRecord {
	tip := t.tip
	tip.ID = t.remoteID
	return tip
}

func (t *PersistedTip) Validate() error {
	if t.remoteID == "" {
		return fmt.Errorf("tip remote ID is required")
	}
	if t.tip.Status == "" {
		return fmt.Errorf("tip status is required")
	}
	if t.tip.Amount < 0 {
		return fmt.Errorf("tip amount cannot be negative")
	}
	return nil
}
