// models/chart.go
package models

import "time"

// ChartRecord is one observation of one song on one chart on one date.
// Records are built by the normalizer right after parsing and are never
// mutated afterwards; they end up as rows in a dated CSV (or a DB table).
type ChartRecord struct {
	SongName     string
	ArtistName   string
	Metrics      map[string]int64 // metric name -> value (streams, views, sales, spins)
	Rank         *int             // chart position; nil for sources without ranking
	ObservedDate time.Time
}

// CollectionRun is the result of one fetch+parse+normalize cycle for a
// single (source, date) pair. It is never persisted; the record list is
// handed to a sink and the run is discarded.
type CollectionRun struct {
	Source      string
	Date        time.Time
	Records     []ChartRecord
	DroppedRows int // rows that failed normalization and were skipped
	Err         error
}

// RunOutcome aggregates one source's result across a collection run,
// for the end-of-run summary.
type RunOutcome struct {
	Source        string
	Records       int   // total records written
	CollectedDays int   // dates collected successfully
	FailedDays    int   // dates skipped because of fetch/parse failures
	SkippedDays   int   // dates before the source's archive floor
	Err           error // terminal error for this source (sink/IO), nil otherwise
}

// Succeeded reports whether the source's run finished without a terminal
// error and collected at least one date.
func (o RunOutcome) Succeeded() bool {
	return o.Err == nil && o.CollectedDays > 0
}
