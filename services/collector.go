// services/collector.go
package services

import (
	"log"
	"time"

	"chartpulse/models"
	"chartpulse/scraper"
	"chartpulse/storage"
)

// Collector sequences fetch -> parse -> normalize -> sink across all
// configured sources. Each source's run is independent: no shared
// mutable state, and one source failing never stops the others.
// Execution is strictly sequential with a politeness delay between
// requests.
type Collector struct {
	Fetcher *scraper.Fetcher
	Sink    storage.Sink
	Sources []models.SourceConfig
	Delay   time.Duration
}

// CollectToday runs one cycle per source against the current chart
// pages and returns a per-source outcome.
func (c *Collector) CollectToday(now time.Time) []models.RunOutcome {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	log.Printf("Collector: starting daily collection for %s (%d sources)", day.Format("2006-01-02"), len(c.Sources))

	outcomes := make([]models.RunOutcome, 0, len(c.Sources))
	for i, cfg := range c.Sources {
		if i > 0 && c.Delay > 0 {
			time.Sleep(c.Delay)
		}

		outcome := models.RunOutcome{Source: cfg.Name}
		run := scraper.CollectDate(c.Fetcher, cfg, day, true)
		if run.Err != nil {
			log.Printf("ERROR Collector: %s collection failed: %v", cfg.Name, run.Err)
			outcome.FailedDays = 1
			outcomes = append(outcomes, outcome)
			continue
		}
		if run.DroppedRows > 0 {
			log.Printf("WARN Collector: %s dropped %d unparseable row(s)", cfg.Name, run.DroppedRows)
		}

		if err := c.Sink.Write(cfg, day, run.Records); err != nil {
			// Sink failures are not retryable with the same input, so
			// they terminate this source's run.
			log.Printf("ERROR Collector: %s sink write failed: %v", cfg.Name, err)
			outcome.Err = err
			outcomes = append(outcomes, outcome)
			continue
		}

		outcome.Records = len(run.Records)
		outcome.CollectedDays = 1
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

// CollectRange backfills every archivable source across [start, end].
// Sources without an archive are reported as failed with ErrNoArchive
// rather than attempted.
func (c *Collector) CollectRange(start, end time.Time) []models.RunOutcome {
	log.Printf("Collector: starting historical collection %s .. %s",
		start.Format("2006-01-02"), end.Format("2006-01-02"))

	backfill := &scraper.Backfill{Fetcher: c.Fetcher, Delay: c.Delay}

	outcomes := make([]models.RunOutcome, 0, len(c.Sources))
	for _, cfg := range c.Sources {
		outcome := models.RunOutcome{Source: cfg.Name}

		skipped, err := backfill.Collect(cfg, start, end, func(run models.CollectionRun) bool {
			if run.Err != nil {
				log.Printf("WARN Collector: %s %s skipped: %v", cfg.Name, run.Date.Format("2006-01-02"), run.Err)
				outcome.FailedDays++
				return true
			}
			if run.DroppedRows > 0 {
				log.Printf("WARN Collector: %s %s dropped %d row(s)", cfg.Name, run.Date.Format("2006-01-02"), run.DroppedRows)
			}
			if werr := c.Sink.Write(cfg, run.Date, run.Records); werr != nil {
				// Not retryable with the same input: stop this source's
				// range instead of fetching dates we cannot persist.
				log.Printf("ERROR Collector: %s sink write failed: %v", cfg.Name, werr)
				outcome.Err = werr
				return false
			}
			outcome.Records += len(run.Records)
			outcome.CollectedDays++
			return true
		})
		outcome.SkippedDays = skipped
		if err != nil {
			outcome.Err = err
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

// LogSummary prints the per-source succeeded/failed breakdown at the
// end of a run and reports whether every source succeeded.
func LogSummary(outcomes []models.RunOutcome) bool {
	succeeded := 0
	for _, o := range outcomes {
		switch {
		case o.Err != nil:
			log.Printf("Summary: %s FAILED: %v", o.Source, o.Err)
		case o.CollectedDays == 0:
			log.Printf("Summary: %s FAILED: no dates collected (%d failed, %d before archive floor)",
				o.Source, o.FailedDays, o.SkippedDays)
		default:
			log.Printf("Summary: %s ok: %d record(s) over %d date(s) (%d failed, %d before archive floor)",
				o.Source, o.Records, o.CollectedDays, o.FailedDays, o.SkippedDays)
			succeeded++
		}
	}
	log.Printf("Summary: %d/%d sources collected successfully", succeeded, len(outcomes))
	return succeeded == len(outcomes)
}
