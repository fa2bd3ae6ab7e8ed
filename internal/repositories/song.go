package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/igheddx/tipply/internal/models"
	"github.com/igheddx/tipply/internal/shared"
)

// SongRepository implements models.Repository[*models.PersistedSong] for catalog caching.
//
// Handles automatic catalog caching with soft delete support and remote-ID lookups.
// Songs are cached on every catalog fetch so searches and dumps work offline.
type SongRepository struct {
	db *sql.DB
}

// NewSongRepository creates a new SongRepository with the given database connection
func NewSongRepository(db *sql.DB) *SongRepository {
	return &SongRepository{db: db}
}

// Create inserts a new [models.PersistedSong] into the database with generated ID and sequence
func (r *SongRepository) Create(song *models.PersistedSong) error {
	sequence, err := NextSequence(r.db, "songs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	song.SetID(id)

	if err := song.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO songs (id, sequence, remote_id, title, artist, album, duration, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		song.RemoteID(),
		song.Title(),
		song.Artist(),
		song.Album(),
		song.Duration(),
		song.CreatedAt(),
		song.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert song: %w", err)
	}

	return nil
}

// Get retrieves a song by ID, excluding soft-deleted songs
func (r *SongRepository) Get(id string) (*models.PersistedSong, error) {
	query := `
		SELECT id, sequence, remote_id, title, artist, album, duration, created_at, updated_at, deleted_at
		FROM songs
		WHERE id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByRemoteID retrieves a song by its backend catalog ID
func (r *SongRepository) GetByRemoteID(remoteID string) (*models.PersistedSong, error) {
	query := `
		SELECT id, sequence, remote_id, title, artist, album, duration, created_at, updated_at, deleted_at
		FROM songs
		WHERE remote_id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, remoteID))
}

// Update modifies an existing song in the database
func (r *SongRepository) Update(song *models.PersistedSong) error {
	if err := song.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	song.SetUpdatedAt(now)

	query := `
		UPDATE songs
		SET title = ?, artist = ?, album = ?, duration = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		song.Title(),
		song.Artist(),
		song.Album(),
		song.Duration(),
		now,
		song.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update song: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("song not found or already deleted: %s", song.ID())
	}

	return nil
}

// Delete soft-deletes a song by ID
func (r *SongRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE songs
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete song: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("song not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all songs matching the given criteria, excluding soft-deleted songs
//
// Supported criteria: "artist" (exact match), "search" (substring match on title and artist).
func (r *SongRepository) List(criteria map[string]any) ([]*models.PersistedSong, error) {
	query := `
		SELECT id, sequence, remote_id, title, artist, album, duration, created_at, updated_at, deleted_at
		FROM songs
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if artist, ok := criteria["artist"].(string); ok && artist != "" {
		query += " AND artist = ?"
		args = append(args, artist)
	}

	if search, ok := criteria["search"].(string); ok && search != "" {
		query += " AND (title LIKE ? OR artist LIKE ?)"
		pattern := "%" + search + "%"
		args = append(args, pattern, pattern)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	defer rows.Close()

	var songs []*models.PersistedSong
	for rows.Next() {
		song, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return songs, nil
}

// scanOne scans a single [sql.Row] into a [models.PersistedSong]
func (r *SongRepository) scanOne(row *sql.Row) (*models.PersistedSong, error) {
	var (
		id        string
		sequence  int
		remoteID  string
		title     string
		artist    string
		album     sql.NullString
		duration  int
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	err := row.Scan(&id, &sequence, &remoteID, &title, &artist, &album, &duration, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("song not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan song: %w", err)
	}

	dto := models.Song{
		ID:       remoteID,
		Title:    title,
		Artist:   artist,
		Album:    album.String,
		Duration: duration,
	}

	song := models.NewPersistedSong(sequence, dto)
	song.SetID(id)
	song.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		song.SetDeletedAt(&deletedAt.Time)
	}

	return song, nil
}

// scanRow scans a row from [sql.Rows] into a [models.PersistedSong]
func (r *SongRepository) scanRow(rows *sql.Rows) (*models.PersistedSong, error) {
	var (
		id        string
		sequence  int
		remoteID  string
		title     string
		artist    string
		album     sql.NullString
		duration  int
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	err := rows.Scan(&id, &sequence, &remoteID, &title, &artist, &album, &duration, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan song: %w", err)
	}

	dto := models.Song{
		ID:       remoteID,
		Title:    title,
		Artist:   artist,
		Album:    album.String,
		Duration: duration,
	}

	song := models.NewPersistedSong(sequence, dto)
	song.SetID(id)
	song.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		song.SetDeletedAt(&deletedAt.Time)
	}

	return song, nil
}
