// reference/loader.go
package reference

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/jszwec/csvutil"

	"chartpulse/models"
)

// Row is one chart-history observation from the externally supplied
// CSV dump. CSV tags are the canonical column names; the raw file's
// headers are mapped onto them before decoding.
type Row struct {
	SongName      string `csv:"song_name"`
	ArtistName    string `csv:"artist_name"`
	ChartPosition int    `csv:"chart_position"`
	WeeksOnChart  int    `csv:"weeks_on_chart,omitempty"`
	ChartDate     string `csv:"chart_date,omitempty"`
}

// LabeledRow is a Row plus the derived boolean threshold labels.
type LabeledRow struct {
	Row
	ReachedRank1 bool `csv:"reached_rank_1"`
	ReachedTop10 bool `csv:"reached_top10"`
	ReachedTop40 bool `csv:"reached_top40"`
}

// columnSynonyms maps known header variants (lowercased, spaces
// replaced by underscores) onto canonical column names.
var columnSynonyms = map[string]string{
	"song":           "song_name",
	"title":          "song_name",
	"track":          "song_name",
	"song_name":      "song_name",
	"artist":         "artist_name",
	"performer":      "artist_name",
	"artist_name":    "artist_name",
	"position":       "chart_position",
	"rank":           "chart_position",
	"chart_position": "chart_position",
	"date":           "chart_date",
	"week":           "chart_date",
	"chart_date":     "chart_date",
	"weeks":          "weeks_on_chart",
	"weeks_on_chart": "weeks_on_chart",
}

var requiredColumns = []string{"song_name", "artist_name", "chart_position"}

// canonicalHeader rewrites a raw CSV header onto canonical column
// names. Unrecognized columns keep their original name (the decoder
// ignores them). A required field with no recognized variant is a
// *models.SchemaError.
func canonicalHeader(raw []string) ([]string, error) {
	canon := make([]string, len(raw))
	seen := make(map[string]bool, len(raw))
	for i, col := range raw {
		key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(col)), " ", "_")
		if mapped, ok := columnSynonyms[key]; ok && !seen[mapped] {
			canon[i] = mapped
			seen[mapped] = true
			if canon[i] != col {
				log.Printf("Reference: mapped column %q -> %q", col, canon[i])
			}
			continue
		}
		canon[i] = col
	}
	for _, required := range requiredColumns {
		if !seen[required] {
			return nil, &models.SchemaError{Field: required, Header: raw}
		}
	}
	return canon, nil
}

// Load reads a chart-history CSV with loosely-specified column names
// and returns canonical rows. Rows whose fields fail to coerce are
// dropped and counted, never fatal for the batch.
func Load(path string) (rows []Row, dropped int, err error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open reference CSV %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	rawHeader, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read header of %s: %w", path, err)
	}

	header, err := canonicalHeader(rawHeader)
	if err != nil {
		return nil, 0, err
	}

	decoder, err := csvutil.NewDecoder(reader, header...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create CSV decoder: %w", err)
	}

	for {
		var row Row
		decodeErr := decoder.Decode(&row)
		if errors.Is(decodeErr, io.EOF) {
			break
		}
		if decodeErr != nil {
			log.Printf("WARN Reference: dropped row: %v", decodeErr)
			dropped++
			continue
		}
		rows = append(rows, row)
	}

	log.Printf("Reference: loaded %d row(s) from %s (%d dropped)", len(rows), path, dropped)
	return rows, dropped, nil
}

// Label derives the boolean threshold labels from chart position:
// reached_rank_1 iff position == 1, reached_top10 iff position <= 10,
// reached_top40 iff position <= 40.
func Label(rows []Row) []LabeledRow {
	labeled := make([]LabeledRow, len(rows))
	for i, row := range rows {
		labeled[i] = LabeledRow{
			Row:          row,
			ReachedRank1: row.ChartPosition == 1,
			ReachedTop10: row.ChartPosition >= 1 && row.ChartPosition <= 10,
			ReachedTop40: row.ChartPosition >= 1 && row.ChartPosition <= 40,
		}
	}
	return labeled
}

// WriteLabeled persists the labeled rows as CSV at path.
func WriteLabeled(path string, rows []LabeledRow) error {
	data, err := csvutil.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to marshal labeled rows: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	log.Printf("Reference: wrote %d labeled row(s) to %s", len(rows), path)
	return nil
}

// Records maps loaded rows onto the canonical ChartRecord shape so the
// reference data can flow through the same downstream tooling as
// scraped charts.
func Records(rows []Row) []models.ChartRecord {
	records := make([]models.ChartRecord, 0, len(rows))
	for _, row := range rows {
		rank := row.ChartPosition
		record := models.ChartRecord{
			SongName:   row.SongName,
			ArtistName: row.ArtistName,
			Rank:       &rank,
			Metrics:    map[string]int64{},
		}
		if row.WeeksOnChart > 0 {
			record.Metrics["weeks_on_chart"] = int64(row.WeeksOnChart)
		}
		if row.ChartDate != "" {
			for _, layout := range []string{"2006-01-02", "1/2/2006"} {
				if parsed, perr := time.Parse(layout, row.ChartDate); perr == nil {
					record.ObservedDate = parsed
					break
				}
			}
		}
		records = append(records, record)
	}
	return records
}
