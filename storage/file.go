// storage/file.go
package storage

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"chartpulse/models"
)

const dateLayout = "2006-01-02"

// FileSink writes one CSV per (source, date) under
// {root}/{source}/{source}_{YYYYMMDD}.csv with a header row and the
// source's fixed column set. Files are created with O_TRUNC so a rerun
// for an already-collected date produces byte-identical output given
// identical input.
type FileSink struct {
	Root string
}

func NewFileSink(root string) *FileSink {
	return &FileSink{Root: root}
}

// Path returns the deterministic output path for a (source, date) pair.
func (s *FileSink) Path(source string, day time.Time) string {
	return filepath.Join(s.Root, source, fmt.Sprintf("%s_%s.csv", source, day.Format("20060102")))
}

func (s *FileSink) Write(cfg models.SourceConfig, day time.Time, records []models.ChartRecord) error {
	path := s.Path(cfg.Name, day)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(cfg.OutputFields); err != nil {
		return fmt.Errorf("failed to write header to %s: %w", path, err)
	}

	for _, record := range records {
		row := make([]string, len(cfg.OutputFields))
		for i, field := range cfg.OutputFields {
			row[i] = fieldValue(field, record)
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row to %s: %w", path, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}

	log.Printf("Sink: wrote %d %s record(s) to %s", len(records), cfg.Name, path)
	return nil
}

// fieldValue resolves one output column for a record. Unrecognized
// field names are metric lookups; a metric the record does not carry
// renders as an empty cell rather than failing the whole file.
func fieldValue(field string, record models.ChartRecord) string {
	switch field {
	case "song_name":
		return record.SongName
	case "artist_name":
		return record.ArtistName
	case "chart_position":
		if record.Rank == nil {
			return ""
		}
		return strconv.Itoa(*record.Rank)
	case "collection_date":
		return record.ObservedDate.Format(dateLayout)
	default:
		if value, ok := record.Metrics[field]; ok {
			return strconv.FormatInt(value, 10)
		}
		return ""
	}
}
