package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/igheddx/tipply/internal/models"
	"github.com/igheddx/tipply/internal/shared"
)

// TipRepository implements models.Repository[*models.PersistedTip] for tip snapshot caching.
//
// Snapshots power the offline dashboard and refund-window summaries. Tips are
// upserted on every page fetch so the cache converges on the backend's view.
type TipRepository struct {
	db *sql.DB
}

// NewTipRepository creates a new TipRepository with the given database connection
func NewTipRepository(db *sql.DB) *TipRepository {
	return &TipRepository{db: db}
}

// Create inserts a new [models.PersistedTip] into the database with generated ID and sequence
func (r *TipRepository) Create(tip *models.PersistedTip) error {
	sequence, err := NextSequence(r.db, "tips")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	tip.SetID(id)

	if err := tip.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO tips (id, sequence, remote_id, amount, currency, status, payment_intent_id, song_request, device_id, tipped_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		tip.RemoteID(),
		tip.Amount(),
		tip.Currency(),
		tip.Status(),
		tip.PaymentIntentID(),
		tip.SongRequest(),
		tip.DeviceID(),
		tip.TippedAt(),
		tip.CreatedAt(),
		tip.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert tip: %w", err)
	}

	return nil
}

// Get retrieves a tip by ID, excluding soft-deleted tips
func (r *TipRepository) Get(id string) (*models.PersistedTip, error) {
	query := `
		SELECT id, sequence, remote_id, amount, currency, status, payment_intent_id, song_request, device_id, tipped_at, created_at, updated_at, deleted_at
		FROM tips
		WHERE id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByRemoteID retrieves a tip by its backend tip ID
func (r *TipRepository) GetByRemoteID(remoteID string) (*models.PersistedTip, error) {
	query := `
		SELECT id, sequence, remote_id, amount, currency, status, payment_intent_id, song_request, device_id, tipped_at, created_at, updated_at, deleted_at
		FROM tips
		WHERE remote_id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, remoteID))
}

// Update modifies an existing tip in the database
func (r *TipRepository) Update(tip *models.PersistedTip) error {
	if err := tip.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	tip.SetUpdatedAt(now)

	query := `
		UPDATE tips
		SET amount = ?, currency = ?, status = ?, payment_intent_id = ?, song_request = ?, device_id = ?, tipped_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		tip.Amount(),
		tip.Currency(),
		tip.Status(),
		tip.PaymentIntentID(),
		tip.SongRequest(),
		tip.DeviceID(),
		tip.TippedAt(),
		now,
		tip.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update tip: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("tip not found or already deleted: %s", tip.ID())
	}

	return nil
}

// Delete soft-deletes a tip by ID
func (r *TipRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE tips
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete tip: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("tip not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all tips matching the given criteria, excluding soft-deleted tips
//
// Supported criteria: "status" (exact match), "device_id" (exact match).
func (r *TipRepository) List(criteria map[string]any) ([]*models.PersistedTip, error) {
	query := `
		SELECT id, sequence, remote_id, amount, currency, status, payment_intent_id, song_request, device_id, tipped_at, created_at, updated_at, deleted_at
		FROM tips
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if status, ok := criteria["status"].(string); ok && status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}

	if deviceID, ok := criteria["device_id"].(string); ok && deviceID != "" {
		query += " AND device_id = ?"
		args = append(args, deviceID)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tips: %w", err)
	}
	defer rows.Close()

	var tips []*models.PersistedTip
	for rows.Next() {
		tip, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		tips = append(tips, tip)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return tips, nil
}

// scanOne scans a single [sql.Row] into a [models.PersistedTip]
func (r *TipRepository) scanOne(row *sql.Row) (*models.PersistedTip, error) {
	var (
		id            string
		sequence      int
		remoteID      string
		amount        int
		currency      string
		status        string
		paymentIntent sql.NullString
		songRequest   sql.NullString
		deviceID      sql.NullString
		tippedAt      string
		createdAt     time.Time
		updatedAt     time.Time
		deletedAt     sql.NullTime
	)

	err := row.Scan(&id, &sequence, &remoteID, &amount, &currency, &status, &paymentIntent, &songRequest, &deviceID, &tippedAt, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("tip not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan tip: %w", err)
	}

	return buildPersistedTip(id, sequence, remoteID, amount, currency, status, paymentIntent, songRequest, deviceID, tippedAt, updatedAt, deletedAt), nil
}

// scanRow scans a row from [sql.Rows] into a [models.PersistedTip]
func (r *TipRepository) scanRow(rows *sql.Rows) (*models.PersistedTip, error) {
	var (
		id            string
		sequence      int
		remoteID      string
		amount        int
		currency      string
		status        string
		paymentIntent sql.NullString
		songRequest   sql.NullString
		deviceID      sql.NullString
		tippedAt      string
		createdAt     time.Time
		updatedAt     time.Time
		deletedAt     sql.NullTime
	)

	err := rows.Scan(&id, &sequence, &remoteID, &amount, &currency, &status, &paymentIntent, &songRequest, &deviceID, &tippedAt, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan tip: %w", err)
	}

	return buildPersistedTip(id, sequence, remoteID, amount, currency, status, paymentIntent, songRequest, deviceID, tippedAt, updatedAt, deletedAt), nil
}

func buildPersistedTip(id string, sequence int, remoteID string, amount int, currency, status string, paymentIntent, songRequest, deviceID sql.NullString, tippedAt string, updatedAt time.Time, deletedAt sql.NullTime) *models.PersistedTip {
	dto := models.TipRecord{
		ID:                    remoteID,
		Amount:                amount,
		Currency:              currency,
		Status:                status,
		CreatedAt:             tippedAt,
		StripePaymentIntentID: paymentIntent.String,
		SongRequest:           songRequest.String,
		DeviceID:              deviceID.String,
	}

	tip := models.NewPersistedTip(sequence, dto)
	tip.SetID(id)
	tip.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		tip.SetDeletedAt(&deletedAt.Time)
	}

	return tip
}
