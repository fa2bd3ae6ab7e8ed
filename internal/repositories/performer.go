package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/igheddx/tipply/internal/models"
	"github.com/igheddx/tipply/internal/shared"
)

// ProfileRepository implements [models.Repository] for performer [models.Profile] persistence.
type ProfileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new [ProfileRepository] with the given database connection
func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Create inserts a new profile into the database with generated ID and sequence
func (r *ProfileRepository) Create(profile *models.Profile) error {
	sequence, err := NextSequence(r.db, "performers")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	profile.SetID(id)

	if err := profile.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO performers (id, sequence, email, display_name, stripe_account_id, tipping_enabled, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		profile.Email(),
		profile.DisplayName(),
		profile.StripeAccountID(),
		profile.TippingEnabled(),
		profile.CreatedAt(),
		profile.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert profile: %w", err)
	}

	return nil
}

// Get retrieves a profile by ID, excluding soft-deleted profiles
func (r *ProfileRepository) Get(id string) (*models.Profile, error) {
	query := `
		SELECT id, sequence, email, display_name, stripe_account_id, tipping_enabled, created_at, updated_at, deleted_at
		FROM performers
		WHERE id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByEmail retrieves a profile by email address
func (r *ProfileRepository) GetByEmail(email string) (*models.Profile, error) {
	query := `
		SELECT id, sequence, email, display_name, stripe_account_id, tipping_enabled, created_at, updated_at, deleted_at
		FROM performers
		WHERE email = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, email))
}

// Update modifies an existing profile in the database
func (r *ProfileRepository) Update(profile *models.Profile) error {
	if err := profile.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	profile.SetUpdatedAt(now)

	query := `
		UPDATE performers
		SET email = ?, display_name = ?, stripe_account_id = ?, tipping_enabled = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		profile.Email(),
		profile.DisplayName(),
		profile.StripeAccountID(),
		profile.TippingEnabled(),
		now,
		profile.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("profile not found or already deleted: %s", profile.ID())
	}

	return nil
}

// Delete soft-deletes a profile by ID
func (r *ProfileRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE performers
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("profile not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all profiles matching the given criteria, excluding soft-deleted profiles
func (r *ProfileRepository) List(criteria map[string]any) ([]*models.Profile, error) {
	query := `
		SELECT id, sequence, email, display_name, stripe_account_id, tipping_enabled, created_at, updated_at, deleted_at
		FROM performers
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if email, ok := criteria["email"].(string); ok && email != "" {
		query += " AND email = ?"
		args = append(args, email)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*models.Profile
	for rows.Next() {
		var (
			id             string
			sequence       int
			email          string
			displayName    string
			stripeAccount  sql.NullString
			tippingEnabled bool
			createdAt      time.Time
			updatedAt      time.Time
			deletedAt      sql.NullTime
		)

		err := rows.Scan(&id, &sequence, &email, &displayName, &stripeAccount, &tippingEnabled, &createdAt, &updatedAt, &deletedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}

		profile := models.NewProfile(sequence, email, displayName)
		profile.SetID(id)
		profile.SetUpdatedAt(updatedAt)
		if stripeAccount.Valid {
			profile.SetStripeAccountID(stripeAccount.String)
		}
		profile.SetTippingEnabled(tippingEnabled)
		if deletedAt.Valid {
			profile.SetDeletedAt(&deletedAt.Time)
		}

		profiles = append(profiles, profile)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return profiles, nil
}

// scanOne scans a single [sql.Row] into a [models.Profile]
func (r *ProfileRepository) scanOne(row *sql.Row) (*models.Profile, error) {
	var (
		id             string
		sequence       int
		email          string
		displayName    string
		stripeAccount  sql.NullString
		tippingEnabled bool
		createdAt      time.Time
		updatedAt      time.Time
		deletedAt      sql.NullTime
	)

	err := row.Scan(&id, &sequence, &email, &displayName, &stripeAccount, &tippingEnabled, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("profile not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan profile: %w", err)
	}

	profile := models.NewProfile(sequence, email, displayName)
	profile.SetID(id)
	profile.SetUpdatedAt(updatedAt)
	if stripeAccount.Valid {
		profile.SetStripeAccountID(stripeAccount.String)
	}
	profile.SetTippingEnabled(tippingEnabled)
	if deletedAt.Valid {
		profile.SetDeletedAt(&deletedAt.Time)
	}

	return profile, nil
}
