// package formatter provides catalog import parsing and export functions for catalog and tip data (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/igheddx/tipply/internal/models"
	"github.com/igheddx/tipply/internal/shared"
)

// ExportCatalogToCSV converts a song catalog to CSV format with columns: ID, Title, Artist, Album, Duration
func ExportCatalogToCSV(songs []models.Song) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artist", "Album", "Duration"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, song := range songs {
		record := []string{
			song.ID,
			song.Title,
			song.Artist,
			song.Album,
			strconv.Itoa(song.Duration),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportCatalogToMarkdown converts a song catalog to Markdown format
func ExportCatalogToMarkdown(name string, songs []models.Song) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", name))
	buf.WriteString(fmt.Sprintf("**Songs**: %d\n\n", len(songs)))

	buf.WriteString("## Catalog\n\n")
	for i, song := range songs {
		albumPart := ""
		if song.Album != "" {
			albumPart = fmt.Sprintf(" (%s)", song.Album)
		}
		durationPart := ""
		if song.Duration > 0 {
			durationPart = fmt.Sprintf(" [%s]", shared.FormatDuration(song.Duration))
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s%s\n", i+1, song.Artist, song.Title, albumPart, durationPart))
	}

	return buf.Bytes(), nil
}

// ExportCatalogToText converts a song catalog to plain text format
func ExportCatalogToText(name string, songs []models.Song) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Catalog: %s\n", name))
	buf.WriteString(fmt.Sprintf("Songs: %d\n\n", len(songs)))

	for i, song := range songs {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, song.Artist, song.Title))
	}

	return buf.Bytes(), nil
}

// ExportTipsToCSV converts tip records to CSV format with a refund eligibility column
func ExportTipsToCSV(tips []models.TipRecord) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Amount", "Currency", "Status", "CreatedAt", "SongRequest", "DeviceID", "Refundable"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, tip := range tips {
		record := []string{
			tip.ID,
			strconv.Itoa(tip.Amount),
			tip.Currency,
			tip.Status,
			tip.CreatedAt,
			tip.SongRequest,
			tip.DeviceID,
			strconv.FormatBool(models.IsRefundEligible(tip)),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportTipsToMarkdown converts tip records to a Markdown table
func ExportTipsToMarkdown(tips []models.TipRecord) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Tips\n\n")
	buf.WriteString(fmt.Sprintf("**Count**: %d\n\n", len(tips)))
	buf.WriteString("| ID | Amount | Status | Received | Song Request | Refundable |\n")
	buf.WriteString("|----|--------|--------|----------|--------------|------------|\n")

	for _, tip := range tips {
		refundable := "no"
		if models.IsRefundEligible(tip) {
			refundable = "yes"
		}
		buf.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s |\n",
			tip.ID,
			shared.FormatAmount(tip.Amount, tip.Currency),
			tip.Status,
			tip.CreatedAt,
			tip.SongRequest,
			refundable,
		))
	}

	return buf.Bytes(), nil
}

// ParseCatalogCSV reads songs from CSV input with columns: title, artist, album, durationSeconds.
//
// Album and duration columns are optional. A leading header row is skipped when detected.
func ParseCatalogCSV(r io.Reader) ([]models.Song, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	var songs []models.Song
	for i, record := range records {
		if len(record) < 2 {
			return nil, fmt.Errorf("%w: line %d has %d columns, need at least title and artist", shared.ErrInvalidInput, i+1, len(record))
		}

		title := strings.TrimSpace(record[0])
		artist := strings.TrimSpace(record[1])

		if i == 0 && strings.EqualFold(title, "title") {
			continue
		}

		if title == "" || artist == "" {
			return nil, fmt.Errorf("%w: line %d missing title or artist", shared.ErrInvalidInput, i+1)
		}

		song := models.Song{Title: title, Artist: artist}

		if len(record) > 2 {
			song.Album = strings.TrimSpace(record[2])
		}
		if len(record) > 3 && strings.TrimSpace(record[3]) != "" {
			duration, err := strconv.Atoi(strings.TrimSpace(record[3]))
			if err != nil {
				return nil, fmt.Errorf("%w: line %d has invalid duration %q", shared.ErrInvalidInput, i+1, record[3])
			}
			song.Duration = duration
		}

		songs = append(songs, song)
	}

	if len(songs) == 0 {
		return nil, fmt.Errorf("%w: no songs found in input", shared.ErrInvalidInput)
	}

	return songs, nil
}

// ParseCatalogText reads songs from plain text input, one "Artist - Title" line per song.
//
// Blank lines and lines starting with # are skipped.
func ParseCatalogText(r io.Reader) ([]models.Song, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	var songs []models.Song
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		artist, title, found := strings.Cut(line, " - ")
		if !found {
			return nil, fmt.Errorf("%w: line %d is not in 'Artist - Title' form: %q", shared.ErrInvalidInput, i+1, line)
		}

		artist = strings.TrimSpace(artist)
		title = strings.TrimSpace(title)
		if artist == "" || title == "" {
			return nil, fmt.Errorf("%w: line %d missing artist or title", shared.ErrInvalidInput, i+1)
		}

		songs = append(songs, models.Song{Title: title, Artist: artist})
	}

	if len(songs) == 0 {
		return nil, fmt.Errorf("%w: no songs found in input", shared.ErrInvalidInput)
	}

	return songs, nil
}

// CatalogExportResult contains the paths of files created by WriteCatalogExport
type CatalogExportResult struct {
	SongsFile    string
	MetadataFile string
}

// WriteCatalogExport exports a catalog to CSV format with an accompanying metadata JSON file.
//
// Creates {base}_songs.csv and {base}_metadata.json
func WriteCatalogExport(name string, songs []models.Song, baseFilepath string) (*CatalogExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = "catalog"
	}

	csvData, err := ExportCatalogToCSV(songs)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	songsFile := baseFilepath + "_songs.csv"
	if err := os.WriteFile(songsFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadata := struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}{Name: name, Count: len(songs)}

	metadataJSON, err := shared.MarshalJSON(metadata, true)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CatalogExportResult{
		SongsFile:    songsFile,
		MetadataFile: metadataFile,
	}, nil
}

// WriteJSONFile marshals v as indented JSON and writes it to path.
//
// Used by bulk upload to persist run manifests.
func WriteJSONFile(path string, v any) error {
	data, err := shared.MarshalJSON(v, true)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}
