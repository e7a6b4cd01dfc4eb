// scraper/normalize.go
package scraper

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"chartpulse/models"
)

// ParseCount coerces chart number text to an integer. Handles thousands
// separators, a leading "+", stray whitespace, and K/M/B magnitude
// suffixes (YouTube view columns use those).
func ParseCount(text string) (int64, error) {
	cleaned := strings.ToUpper(strings.TrimSpace(text))
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.ReplaceAll(cleaned, "+", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	if cleaned == "" {
		return 0, fmt.Errorf("empty number text")
	}

	multiplier := int64(1)
	switch {
	case strings.HasSuffix(cleaned, "B"):
		multiplier = 1_000_000_000
		cleaned = strings.TrimSuffix(cleaned, "B")
	case strings.HasSuffix(cleaned, "M"):
		multiplier = 1_000_000
		cleaned = strings.TrimSuffix(cleaned, "M")
	case strings.HasSuffix(cleaned, "K"):
		multiplier = 1_000
		cleaned = strings.TrimSuffix(cleaned, "K")
	}

	if multiplier > 1 {
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0, fmt.Errorf("not a number: %q", text)
		}
		return int64(f * float64(multiplier)), nil
	}

	n, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", text)
	}
	return n, nil
}

// SplitArtistTitle splits the aggregator's combined "Artist - Title"
// cell on the first " - ". When no separator exists the whole cell is
// treated as the title, with the artist unknown.
func SplitArtistTitle(cell string) (artist, title string) {
	if idx := strings.Index(cell, " - "); idx >= 0 {
		artist = strings.TrimSpace(cell[:idx])
		title = strings.TrimSpace(cell[idx+3:])
		return artist, title
	}
	return "Unknown", strings.TrimSpace(cell)
}

// NormalizeRow maps one raw table row into a ChartRecord using the
// source's column mapping. fallbackRank is the row's 1-based position
// in the table, used when the rank cell is missing or unparseable.
//
// A required metric that fails to coerce returns a
// *models.NormalizationError; the caller drops the row and continues.
func NormalizeRow(cfg models.SourceConfig, row []string, day time.Time, fallbackRank int) (models.ChartRecord, error) {
	if len(row) < cfg.MinColumns {
		return models.ChartRecord{}, &models.NormalizationError{
			Field: "row",
			Value: strings.Join(row, "|"),
			Err:   fmt.Errorf("expected at least %d columns, got %d", cfg.MinColumns, len(row)),
		}
	}

	artist, title := SplitArtistTitle(row[cfg.Columns.Title])

	metrics := make(map[string]int64, len(cfg.Columns.Metrics))
	for name, idx := range cfg.Columns.Metrics {
		if idx >= len(row) {
			return models.ChartRecord{}, &models.NormalizationError{
				Field: name,
				Value: "",
				Err:   fmt.Errorf("column %d out of range", idx),
			}
		}
		value, err := ParseCount(row[idx])
		if err != nil {
			return models.ChartRecord{}, &models.NormalizationError{Field: name, Value: row[idx], Err: err}
		}
		metrics[name] = value
	}

	record := models.ChartRecord{
		SongName:     title,
		ArtistName:   artist,
		Metrics:      metrics,
		ObservedDate: day,
	}

	if cfg.Columns.Rank >= 0 {
		rank := fallbackRank
		if n, err := strconv.Atoi(strings.TrimSpace(row[cfg.Columns.Rank])); err == nil && n > 0 {
			rank = n
		}
		record.Rank = &rank
	}

	return record, nil
}

// NormalizeRows normalizes a whole parsed table, dropping rows that
// fail coercion. One bad row never aborts the batch; the dropped count
// is reported back so the run summary can log it.
func NormalizeRows(cfg models.SourceConfig, rows [][]string, day time.Time) (records []models.ChartRecord, dropped int) {
	for i, row := range rows {
		record, err := NormalizeRow(cfg, row, day, i+1)
		if err != nil {
			log.Printf("WARN Scraper: %s row %d dropped: %v", cfg.Name, i+1, err)
			dropped++
			continue
		}
		records = append(records, record)
	}
	return records, dropped
}
