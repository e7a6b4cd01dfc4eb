// models/source.go
package models

import (
	"fmt"
	"time"
)

// Cadence is how often a source publishes a new chart.
type Cadence string

const (
	CadenceDaily  Cadence = "daily"
	CadenceWeekly Cadence = "weekly" // weekly charts are published on Saturdays
)

// ColumnMapping holds the zero-based column indexes used to pull fields
// out of a source's chart table. The aggregator renders every chart as a
// plain table, so the mapping plus the output field names is the only
// source-specific logic in the whole pipeline.
type ColumnMapping struct {
	Rank  int // rank column; -1 when the source has no ranking
	Title int // combined "Artist - Title" cell
	// Metrics maps metric name (e.g. "streams") to its column index.
	Metrics map[string]int
}

// SourceConfig is the static per-source descriptor. Defined once at
// process start and never mutated.
type SourceConfig struct {
	Name          string
	ChartURL      string // current chart page
	ArchiveURL    string // archive template containing one %s for the date; empty = no archive
	ArchiveDate   string // time layout for the archive URL date segment, e.g. "20060102"
	ArchiveFloor  time.Time
	Cadence       Cadence
	TableSelector string
	Columns       ColumnMapping
	MinColumns    int // rows shorter than this are dropped
	// OutputFields is the CSV header, in order. Recognized names are
	// "song_name", "artist_name", "chart_position", "collection_date";
	// anything else must be a key of Columns.Metrics.
	OutputFields []string
}

// HasArchive reports whether historical backfill is possible for this source.
func (c SourceConfig) HasArchive() bool {
	return c.ArchiveURL != ""
}

// URLFor builds the URL for one chart date. live selects the current
// chart page instead of the dated archive page.
func (c SourceConfig) URLFor(day time.Time, live bool) string {
	if live || !c.HasArchive() {
		return c.ChartURL
	}
	layout := c.ArchiveDate
	if layout == "" {
		layout = "20060102"
	}
	return fmt.Sprintf(c.ArchiveURL, day.Format(layout))
}
