package repositories

import (
	"database/sql"
	"testing"

	"github.com/igheddx/tipply/internal/models"
	"github.com/igheddx/tipply/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	t.Run("increments monotonically", func(t *testing.T) {
		first, err := NextSequence(db, "songs")
		if err != nil {
			t.Fatalf("failed to get sequence: %v", err)
		}

		second, err := NextSequence(db, "songs")
		if err != nil {
			t.Fatalf("failed to get sequence: %v", err)
		}

		if second != first+1 {
			t.Errorf("expected sequence %d, got %d", first+1, second)
		}
	})

	t.Run("tables count independently", func(t *testing.T) {
		songSeq, err := NextSequence(db, "songs")
		if err != nil {
			t.Fatalf("failed to get songs sequence: %v", err)
		}

		tipSeq, err := NextSequence(db, "tips")
		if err != nil {
			t.Fatalf("failed to get tips sequence: %v", err)
		}

		if tipSeq >= songSeq {
			t.Errorf("expected tips sequence to start fresh, got %d (songs at %d)", tipSeq, songSeq)
		}
	})
}

func TestProfileRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewProfileRepository(db)
		profile := models.NewProfile(0, "performer@example.com", "The Night Owls")

		err := repo.Create(profile)
		if err != nil {
			t.Fatalf("failed to create profile: %v", err)
		}

		if profile.ID() == "" {
			t.Error("profile ID should be set after creation")
		}
	})

	t.Run("Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewProfileRepository(db)
		profile := models.NewProfile(0, "performer@example.com", "The Night Owls")

		if err := repo.Create(profile); err != nil {
			t.Fatalf("failed to create profile: %v", err)
		}

		retrieved, err := repo.Get(profile.ID())
		if err != nil {
			t.Fatalf("failed to get profile: %v", err)
		}

		if retrieved.Email() != profile.Email() {
			t.Errorf("expected email %s, got %s", profile.Email(), retrieved.Email())
		}
	})

	t.Run("GetByEmail", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewProfileRepository(db)
		profile := models.NewProfile(0, "performer@example.com", "The Night Owls")

		if err := repo.Create(profile); err != nil {
			t.Fatalf("failed to create profile: %v", err)
		}

		retrieved, err := repo.GetByEmail("performer@example.com")
		if err != nil {
			t.Fatalf("failed to get profile by email: %v", err)
		}

		if retrieved.ID() != profile.ID() {
			t.Errorf("expected ID %s, got %s", profile.ID(), retrieved.ID())
		}
	})

	t.Run("Update", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewProfileRepository(db)
		profile := models.NewProfile(0, "performer@example.com", "The Night Owls")

		if err := repo.Create(profile); err != nil {
			t.Fatalf("failed to create profile: %v", err)
		}

		profile.SetStripeAccountID("acct_123")
		profile.SetTippingEnabled(true)

		if err := repo.Update(profile); err != nil {
			t.Fatalf("failed to update profile: %v", err)
		}

		retrieved, err := repo.Get(profile.ID())
		if err != nil {
			t.Fatalf("failed to get profile: %v", err)
		}

		if retrieved.StripeAccountID() != "acct_123" {
			t.Errorf("expected stripe account acct_123, got %s", retrieved.StripeAccountID())
		}
		if !retrieved.TippingEnabled() {
			t.Error("expected tipping to be enabled")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewProfileRepository(db)
		profile := models.NewProfile(0, "performer@example.com", "The Night Owls")

		if err := repo.Create(profile); err != nil {
			t.Fatalf("failed to create profile: %v", err)
		}

		if err := repo.Delete(profile.ID()); err != nil {
			t.Fatalf("failed to delete profile: %v", err)
		}

		if _, err := repo.Get(profile.ID()); err == nil {
			t.Error("expected soft-deleted profile to be invisible")
		}
	})
}

func TestSongRepository(t *testing.T) {
	t.Run("Create and Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSongRepository(db)
		song := models.NewPersistedSong(0, models.Song{
			ID: "song_1", Title: "Wonderwall", Artist: "Oasis", Album: "Morning Glory", Duration: 258,
		})

		if err := repo.Create(song); err != nil {
			t.Fatalf("failed to create song: %v", err)
		}

		retrieved, err := repo.Get(song.ID())
		if err != nil {
			t.Fatalf("failed to get song: %v", err)
		}

		if retrieved.Title() != "Wonderwall" {
			t.Errorf("expected title Wonderwall, got %s", retrieved.Title())
		}
		if retrieved.Song().ID != "song_1" {
			t.Errorf("expected remote ID song_1, got %s", retrieved.Song().ID)
		}
	})

	t.Run("GetByRemoteID", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSongRepository(db)
		song := models.NewPersistedSong(0, models.Song{ID: "song_1", Title: "Wonderwall", Artist: "Oasis"})

		if err := repo.Create(song); err != nil {
			t.Fatalf("failed to create song: %v", err)
		}

		retrieved, err := repo.GetByRemoteID("song_1")
		if err != nil {
			t.Fatalf("failed to get song by remote ID: %v", err)
		}

		if retrieved.ID() != song.ID() {
			t.Errorf("expected ID %s, got %s", song.ID(), retrieved.ID())
		}
	})

	t.Run("duplicate remote ID violates constraint", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSongRepository(db)
		first := models.NewPersistedSong(0, models.Song{ID: "song_1", Title: "Wonderwall", Artist: "Oasis"})
		second := models.NewPersistedSong(0, models.Song{ID: "song_1", Title: "Wonderwall", Artist: "Oasis"})

		if err := repo.Create(first); err != nil {
			t.Fatalf("failed to create song: %v", err)
		}

		if err := repo.Create(second); err == nil {
			t.Error("expected UNIQUE constraint error for duplicate remote ID")
		}
	})

	t.Run("List with search criteria", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSongRepository(db)
		songs := []models.Song{
			{ID: "song_1", Title: "Wonderwall", Artist: "Oasis"},
			{ID: "song_2", Title: "Champagne Supernova", Artist: "Oasis"},
			{ID: "song_3", Title: "Yesterday", Artist: "The Beatles"},
		}
		for _, s := range songs {
			if err := repo.Create(models.NewPersistedSong(0, s)); err != nil {
				t.Fatalf("failed to create song: %v", err)
			}
		}

		matched, err := repo.List(map[string]any{"search": "wonder"})
		if err != nil {
			t.Fatalf("failed to list songs: %v", err)
		}
		if len(matched) != 1 {
			t.Fatalf("expected 1 match, got %d", len(matched))
		}
		if matched[0].Title() != "Wonderwall" {
			t.Errorf("expected Wonderwall, got %s", matched[0].Title())
		}

		byArtist, err := repo.List(map[string]any{"artist": "Oasis"})
		if err != nil {
			t.Fatalf("failed to list songs: %v", err)
		}
		if len(byArtist) != 2 {
			t.Errorf("expected 2 Oasis songs, got %d", len(byArtist))
		}
	})
}

func TestDeviceRepository(t *testing.T) {
	t.Run("Create and Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewDeviceRepository(db)
		device := models.NewPersistedDevice(0, models.Device{
			ID: "dev_1", Label: "Stage left", TipURL: "https://tipply.app/t/dev_1",
		})

		if err := repo.Create(device); err != nil {
			t.Fatalf("failed to create device: %v", err)
		}

		retrieved, err := repo.GetByRemoteID("dev_1")
		if err != nil {
			t.Fatalf("failed to get device: %v", err)
		}

		if retrieved.Label() != "Stage left" {
			t.Errorf("expected label 'Stage left', got %s", retrieved.Label())
		}
		if retrieved.TipURL() != "https://tipply.app/t/dev_1" {
			t.Errorf("unexpected tip URL %s", retrieved.TipURL())
		}
	})

	t.Run("Delete hides device from List", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewDeviceRepository(db)
		device := models.NewPersistedDevice(0, models.Device{ID: "dev_1", Label: "Bar"})

		if err := repo.Create(device); err != nil {
			t.Fatalf("failed to create device: %v", err)
		}
		if err := repo.Delete(device.ID()); err != nil {
			t.Fatalf("failed to delete device: %v", err)
		}

		devices, err := repo.List(map[string]any{})
		if err != nil {
			t.Fatalf("failed to list devices: %v", err)
		}
		if len(devices) != 0 {
			t.Errorf("expected no devices after delete, got %d", len(devices))
		}
	})
}

func TestTipRepository(t *testing.T) {
	t.Run("Create and round-trip", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTipRepository(db)
		record := models.TipRecord{
			ID:                    "tip_1",
			Amount:                500,
			Currency:              "usd",
			Status:                models.StatusProcessed,
			CreatedAt:             "2026-08-20T12:00:00Z",
			StripePaymentIntentID: "pi_abc",
			SongRequest:           "Wonderwall",
			DeviceID:              "dev_1",
		}

		tip := models.NewPersistedTip(0, record)
		if err := repo.Create(tip); err != nil {
			t.Fatalf("failed to create tip: %v", err)
		}

		retrieved, err := repo.GetByRemoteID("tip_1")
		if err != nil {
			t.Fatalf("failed to get tip: %v", err)
		}

		got := retrieved.Tip()
		if got.Amount != 500 || got.Status != models.StatusProcessed {
			t.Errorf("unexpected tip snapshot: %+v", got)
		}
		if got.CreatedAt != record.CreatedAt {
			t.Errorf("expected tipped_at %s, got %s", record.CreatedAt, got.CreatedAt)
		}
		if got.StripePaymentIntentID != "pi_abc" {
			t.Errorf("expected payment intent pi_abc, got %s", got.StripePaymentIntentID)
		}
	})

	t.Run("List filters by status", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTipRepository(db)
		records := []models.TipRecord{
			{ID: "tip_1", Amount: 500, Currency: "usd", Status: models.StatusProcessed, CreatedAt: "2026-08-20T12:00:00Z", StripePaymentIntentID: "pi_1"},
			{ID: "tip_2", Amount: 1000, Currency: "usd", Status: models.StatusPending, CreatedAt: "2026-08-21T12:00:00Z"},
			{ID: "tip_3", Amount: 250, Currency: "usd", Status: models.StatusProcessed, CreatedAt: "2026-08-22T12:00:00Z", StripePaymentIntentID: "pi_3"},
		}
		for _, record := range records {
			if err := repo.Create(models.NewPersistedTip(0, record)); err != nil {
				t.Fatalf("failed to create tip: %v", err)
			}
		}

		processed, err := repo.List(map[string]any{"status": models.StatusProcessed})
		if err != nil {
			t.Fatalf("failed to list tips: %v", err)
		}
		if len(processed) != 2 {
			t.Errorf("expected 2 processed tips, got %d", len(processed))
		}
	})

	t.Run("Update refreshes status", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTipRepository(db)
		record := models.TipRecord{ID: "tip_1", Amount: 500, Currency: "usd", Status: models.StatusPending, CreatedAt: "2026-08-20T12:00:00Z"}

		tip := models.NewPersistedTip(0, record)
		if err := repo.Create(tip); err != nil {
			t.Fatalf("failed to create tip: %v", err)
		}

		record.Status = models.StatusProcessed
		record.StripePaymentIntentID = "pi_abc"
		updated := models.NewPersistedTip(tip.Sequence(), record)
		updated.SetID(tip.ID())

		if err := repo.Update(updated); err != nil {
			t.Fatalf("failed to update tip: %v", err)
		}

		retrieved, err := repo.Get(tip.ID())
		if err != nil {
			t.Fatalf("failed to get tip: %v", err)
		}
		if retrieved.Status() != models.StatusProcessed {
			t.Errorf("expected processed status, got %s", retrieved.Status())
		}
	})
}

func TestSongCacheAdapter(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewSongRepository(db)
	adapter := NewSongCacheAdapter(repo)

	song := models.Song{ID: "song_1", Title: "Wonderwall", Artist: "Oasis"}

	t.Run("caches new song", func(t *testing.T) {
		if err := adapter.CacheSong(song); err != nil {
			t.Fatalf("failed to cache song: %v", err)
		}

		if _, err := repo.GetByRemoteID("song_1"); err != nil {
			t.Errorf("expected cached song to be retrievable: %v", err)
		}
	})

	t.Run("deduplicates on second cache", func(t *testing.T) {
		if err := adapter.CacheSong(song); err != nil {
			t.Fatalf("expected duplicate cache to succeed silently: %v", err)
		}

		songs, err := repo.List(map[string]any{})
		if err != nil {
			t.Fatalf("failed to list songs: %v", err)
		}
		if len(songs) != 1 {
			t.Errorf("expected 1 cached song, got %d", len(songs))
		}
	})
}

func TestTipCacheAdapter(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewTipRepository(db)
	adapter := NewTipCacheAdapter(repo)

	record := models.TipRecord{ID: "tip_1", Amount: 500, Currency: "usd", Status: models.StatusPending, CreatedAt: "2026-08-20T12:00:00Z"}

	t.Run("caches new tip", func(t *testing.T) {
		if err := adapter.CacheTip(record); err != nil {
			t.Fatalf("failed to cache tip: %v", err)
		}
	})

	t.Run("refreshes snapshot on status change", func(t *testing.T) {
		record.Status = models.StatusProcessed
		record.StripePaymentIntentID = "pi_abc"

		if err := adapter.CacheTip(record); err != nil {
			t.Fatalf("failed to refresh tip: %v", err)
		}

		retrieved, err := repo.GetByRemoteID("tip_1")
		if err != nil {
			t.Fatalf("failed to get tip: %v", err)
		}
		if retrieved.Status() != models.StatusProcessed {
			t.Errorf("expected refreshed status, got %s", retrieved.Status())
		}

		tips, err := repo.List(map[string]any{})
		if err != nil {
			t.Fatalf("failed to list tips: %v", err)
		}
		if len(tips) != 1 {
			t.Errorf("expected 1 cached tip, got %d", len(tips))
		}
	})
}
