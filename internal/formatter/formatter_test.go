package formatter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/igheddx/tipply/internal/models"
)

func TestExportCatalogToCSV(t *testing.T) {
	songs := []models.Song{
		{ID: "song_1", Title: "Wonderwall", Artist: "Oasis", Album: "Morning Glory", Duration: 258},
		{ID: "song_2", Title: "Yesterday", Artist: "The Beatles"},
	}

	data, err := ExportCatalogToCSV(songs)
	if err != nil {
		t.Fatalf("failed to export CSV: %v", err)
	}

	output := string(data)
	lines := strings.Split(strings.TrimSpace(output), "\n")

	if len(lines) != 3 {
		t.Fatalf("expected 3 lines (header + 2 songs), got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "ID,Title,Artist") {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if !strings.Contains(lines[1], "Wonderwall") {
		t.Errorf("expected first row to contain Wonderwall: %s", lines[1])
	}
}

func TestExportCatalogToMarkdown(t *testing.T) {
	songs := []models.Song{
		{ID: "song_1", Title: "Wonderwall", Artist: "Oasis", Album: "Morning Glory", Duration: 258},
	}

	data, err := ExportCatalogToMarkdown("The Night Owls", songs)
	if err != nil {
		t.Fatalf("failed to export Markdown: %v", err)
	}

	output := string(data)
	if !strings.Contains(output, "# The Night Owls") {
		t.Error("expected Markdown title")
	}
	if !strings.Contains(output, "1. Oasis - Wonderwall (Morning Glory) [4:18]") {
		t.Errorf("unexpected song line in output:\n%s", output)
	}
}

func TestExportTipsToCSV(t *testing.T) {
	tips := []models.TipRecord{
		{
			ID:                    "tip_1",
			Amount:                500,
			Currency:              "usd",
			Status:                models.StatusProcessed,
			CreatedAt:             time.Now().AddDate(0, 0, -2).Format(time.RFC3339),
			StripePaymentIntentID: "pi_abc",
		},
		{
			ID:        "tip_2",
			Amount:    1000,
			Currency:  "usd",
			Status:    models.StatusPending,
			CreatedAt: time.Now().Format(time.RFC3339),
		},
	}

	data, err := ExportTipsToCSV(tips)
	if err != nil {
		t.Fatalf("failed to export CSV: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if !strings.HasSuffix(lines[1], "true") {
		t.Errorf("expected processed recent tip to be refundable: %s", lines[1])
	}
	if !strings.HasSuffix(lines[2], "false") {
		t.Errorf("expected pending tip not to be refundable: %s", lines[2])
	}
}

func TestParseCatalogCSV(t *testing.T) {
	t.Run("parses songs with header", func(t *testing.T) {
		input := "title,artist,album,durationSeconds\nWonderwall,Oasis,Morning Glory,258\nYesterday,The Beatles,,\n"

		songs, err := ParseCatalogCSV(strings.NewReader(input))
		if err != nil {
			t.Fatalf("failed to parse CSV: %v", err)
		}

		if len(songs) != 2 {
			t.Fatalf("expected 2 songs, got %d", len(songs))
		}
		if songs[0].Duration != 258 {
			t.Errorf("expected duration 258, got %d", songs[0].Duration)
		}
		if songs[1].Album != "" || songs[1].Duration != 0 {
			t.Errorf("expected optional columns to stay empty: %+v", songs[1])
		}
	})

	t.Run("parses songs without header", func(t *testing.T) {
		songs, err := ParseCatalogCSV(strings.NewReader("Wonderwall,Oasis\n"))
		if err != nil {
			t.Fatalf("failed to parse CSV: %v", err)
		}
		if len(songs) != 1 {
			t.Fatalf("expected 1 song, got %d", len(songs))
		}
	})

	t.Run("rejects invalid duration", func(t *testing.T) {
		if _, err := ParseCatalogCSV(strings.NewReader("Wonderwall,Oasis,,abc\n")); err == nil {
			t.Error("expected error for non-numeric duration")
		}
	})

	t.Run("rejects missing columns", func(t *testing.T) {
		if _, err := ParseCatalogCSV(strings.NewReader("Wonderwall\n")); err == nil {
			t.Error("expected error for single-column row")
		}
	})

	t.Run("rejects empty input", func(t *testing.T) {
		if _, err := ParseCatalogCSV(strings.NewReader("")); err == nil {
			t.Error("expected error for empty input")
		}
	})
}

func TestParseCatalogText(t *testing.T) {
	t.Run("parses artist-title lines", func(t *testing.T) {
		input := "# setlist\n\nOasis - Wonderwall\nThe Beatles - Yesterday\n"

		songs, err := ParseCatalogText(strings.NewReader(input))
		if err != nil {
			t.Fatalf("failed to parse text: %v", err)
		}

		if len(songs) != 2 {
			t.Fatalf("expected 2 songs, got %d", len(songs))
		}
		if songs[0].Artist != "Oasis" || songs[0].Title != "Wonderwall" {
			t.Errorf("unexpected first song: %+v", songs[0])
		}
	})

	t.Run("rejects malformed lines", func(t *testing.T) {
		if _, err := ParseCatalogText(strings.NewReader("just a title\n")); err == nil {
			t.Error("expected error for line without separator")
		}
	})
}

func TestWriteCatalogExport(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "export")

	songs := []models.Song{{ID: "song_1", Title: "Wonderwall", Artist: "Oasis"}}

	result, err := WriteCatalogExport("The Night Owls", songs, base)
	if err != nil {
		t.Fatalf("failed to write export: %v", err)
	}

	if _, err := os.Stat(result.SongsFile); err != nil {
		t.Errorf("expected songs file to exist: %v", err)
	}

	metadata, err := os.ReadFile(result.MetadataFile)
	if err != nil {
		t.Fatalf("failed to read metadata: %v", err)
	}
	if !strings.Contains(string(metadata), "The Night Owls") {
		t.Errorf("expected metadata to contain catalog name: %s", metadata)
	}
}
