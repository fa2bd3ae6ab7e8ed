package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/igheddx/tipply/internal/models"
	"github.com/igheddx/tipply/internal/shared"
)

// DeviceRepository implements models.Repository[*models.PersistedDevice] for registered QR devices.
type DeviceRepository struct {
	db *sql.DB
}

// NewDeviceRepository creates a new DeviceRepository with the given database connection
func NewDeviceRepository(db *sql.DB) *DeviceRepository {
	return &DeviceRepository{db: db}
}

// Create inserts a new [models.PersistedDevice] into the database with generated ID and sequence
func (r *DeviceRepository) Create(device *models.PersistedDevice) error {
	sequence, err := NextSequence(r.db, "devices")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	device.SetID(id)

	if err := device.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO devices (id, sequence, remote_id, label, tip_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		device.RemoteID(),
		device.Label(),
		device.TipURL(),
		device.CreatedAt(),
		device.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert device: %w", err)
	}

	return nil
}

// Get retrieves a device by ID, excluding soft-deleted devices
func (r *DeviceRepository) Get(id string) (*models.PersistedDevice, error) {
	query := `
		SELECT id, sequence, remote_id, label, tip_url, created_at, updated_at, deleted_at
		FROM devices
		WHERE id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByRemoteID retrieves a device by its backend device ID
func (r *DeviceRepository) GetByRemoteID(remoteID string) (*models.PersistedDevice, error) {
	query := `
		SELECT id, sequence, remote_id, label, tip_url, created_at, updated_at, deleted_at
		FROM devices
		WHERE remote_id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, remoteID))
}

// Update modifies an existing device in the database
func (r *DeviceRepository) Update(device *models.PersistedDevice) error {
	if err := device.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	device.SetUpdatedAt(now)

	query := `
		UPDATE devices
		SET label = ?, tip_url = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, device.Label(), device.TipURL(), now, device.ID())
	if err != nil {
		return fmt.Errorf("failed to update device: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("device not found or already deleted: %s", device.ID())
	}

	return nil
}

// Delete soft-deletes a device by ID
func (r *DeviceRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE devices
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete device: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("device not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all devices matching the given criteria, excluding soft-deleted devices
func (r *DeviceRepository) List(criteria map[string]any) ([]*models.PersistedDevice, error) {
	query := `
		SELECT id, sequence, remote_id, label, tip_url, created_at, updated_at, deleted_at
		FROM devices
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if label, ok := criteria["label"].(string); ok && label != "" {
		query += " AND label = ?"
		args = append(args, label)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query devices: %w", err)
	}
	defer rows.Close()

	var devices []*models.PersistedDevice
	for rows.Next() {
		var (
			id        string
			sequence  int
			remoteID  string
			label     string
			tipURL    sql.NullString
			createdAt time.Time
			updatedAt time.Time
			deletedAt sql.NullTime
		)

		err := rows.Scan(&id, &sequence, &remoteID, &label, &tipURL, &createdAt, &updatedAt, &deletedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan device: %w", err)
		}

		dto := models.Device{ID: remoteID, Label: label, TipURL: tipURL.String}

		device := models.NewPersistedDevice(sequence, dto)
		device.SetID(id)
		device.SetUpdatedAt(updatedAt)
		if deletedAt.Valid {
			device.SetDeletedAt(&deletedAt.Time)
		}

		devices = append(devices, device)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return devices, nil
}

// scanOne scans a single [sql.Row] into a [models.PersistedDevice]
func (r *DeviceRepository) scanOne(row *sql.Row) (*models.PersistedDevice, error) {
	var (
		id        string
		sequence  int
		remoteID  string
		label     string
		tipURL    sql.NullString
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	err := row.Scan(&id, &sequence, &remoteID, &label, &tipURL, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("device not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan device: %w", err)
	}

	dto := models.Device{ID: remoteID, Label: label, TipURL: tipURL.String}

	device := models.NewPersistedDevice(sequence, dto)
	device.SetID(id)
	device.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		device.SetDeletedAt(&deletedAt.Time)
	}

	return device, nil
}
