// scraper/backfill.go
package scraper

import (
	"errors"
	"log"
	"time"

	"chartpulse/models"
)

// ErrNoArchive means a source publishes no historical archive, so a
// date-range collection cannot be attempted for it.
var ErrNoArchive = errors.New("source has no historical archive")

// CollectDate runs one fetch+parse+normalize cycle for a single
// (source, date) pair. live selects the current chart page instead of
// the dated archive page. The returned run carries either records or
// the fetch/parse error for that date.
func CollectDate(f *Fetcher, cfg models.SourceConfig, day time.Time, live bool) models.CollectionRun {
	run := models.CollectionRun{Source: cfg.Name, Date: day}

	markup, err := f.Fetch(cfg.URLFor(day, live))
	if err != nil {
		run.Err = err
		return run
	}

	rows, err := ExtractRows(markup, cfg.TableSelector)
	if err != nil {
		run.Err = err
		return run
	}

	run.Records, run.DroppedRows = NormalizeRows(cfg, rows, day)
	return run
}

// Dates expands a (start, end) range into the source's applicable chart
// dates, in ascending order: every day for daily sources, Saturdays for
// weekly ones. Dates before the archive floor are not emitted; their
// count comes back as skipped so the caller can report it instead of
// fetching guaranteed 404s.
func Dates(cfg models.SourceConfig, start, end time.Time) (dates []time.Time, skipped int) {
	day := truncateToDay(start)
	end = truncateToDay(end)

	if cfg.Cadence == models.CadenceWeekly {
		for day.Weekday() != time.Saturday {
			day = day.AddDate(0, 0, 1)
		}
	}

	step := 1
	if cfg.Cadence == models.CadenceWeekly {
		step = 7
	}

	floor := truncateToDay(cfg.ArchiveFloor)
	for !day.After(end) {
		if day.Before(floor) {
			skipped++
		} else {
			dates = append(dates, day)
		}
		day = day.AddDate(0, 0, step)
	}
	return dates, skipped
}

// Backfill drives historical collection for one source: one sequential
// cycle per applicable date with a fixed politeness delay in between.
// Concurrent fetching is disallowed by design, not just unimplemented;
// overlapping requests would break the politeness contract.
type Backfill struct {
	Fetcher *Fetcher
	Delay   time.Duration
}

// Collect runs the range and hands each finished CollectionRun to emit.
// emit returns false to stop the range early — a sink failure is
// run-terminating for the source, so there is no point fetching the
// remaining dates. Collect returns the number of dates skipped for
// being before the archive floor, or ErrNoArchive when the source
// cannot be backfilled at all.
func (b *Backfill) Collect(cfg models.SourceConfig, start, end time.Time, emit func(models.CollectionRun) bool) (skipped int, err error) {
	if !cfg.HasArchive() {
		return 0, ErrNoArchive
	}

	dates, skipped := Dates(cfg, start, end)
	if skipped > 0 {
		log.Printf("Scraper: %s: %d date(s) before archive floor %s skipped",
			cfg.Name, skipped, cfg.ArchiveFloor.Format("2006-01-02"))
	}

	for i, day := range dates {
		if i > 0 && b.Delay > 0 {
			time.Sleep(b.Delay)
		}
		if !emit(CollectDate(b.Fetcher, cfg, day, false)) {
			break
		}
	}
	return skipped, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
