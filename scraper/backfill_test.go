package scraper

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"chartpulse/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDatesDaily(t *testing.T) {
	cfg := models.SourceConfig{Cadence: models.CadenceDaily}

	dates, skipped := Dates(cfg, day(2025, 3, 1), day(2025, 3, 10))
	require.Zero(t, skipped)
	require.Len(t, dates, 10)
	require.Equal(t, day(2025, 3, 1), dates[0])
	require.Equal(t, day(2025, 3, 10), dates[9])
}

func TestDatesSingleDay(t *testing.T) {
	cfg := models.SourceConfig{Cadence: models.CadenceDaily}

	dates, skipped := Dates(cfg, day(2025, 3, 1), day(2025, 3, 1))
	require.Zero(t, skipped)
	require.Equal(t, []time.Time{day(2025, 3, 1)}, dates)
}

func TestDatesWeeklySaturdays(t *testing.T) {
	cfg := models.SourceConfig{Cadence: models.CadenceWeekly}

	// 2025-03-01 is a Saturday.
	dates, skipped := Dates(cfg, day(2025, 2, 27), day(2025, 3, 20))
	require.Zero(t, skipped)
	require.Equal(t, []time.Time{day(2025, 3, 1), day(2025, 3, 8), day(2025, 3, 15)}, dates)
	for _, d := range dates {
		require.Equal(t, time.Saturday, d.Weekday())
	}
}

func TestDatesArchiveFloorSkip(t *testing.T) {
	floor := day(2025, 3, 6)
	cfg := models.SourceConfig{Cadence: models.CadenceDaily, ArchiveFloor: floor}

	// 5 dates before the floor, 5 on or after.
	dates, skipped := Dates(cfg, floor.AddDate(0, 0, -5), floor.AddDate(0, 0, 4))
	require.Equal(t, 5, skipped)
	require.Len(t, dates, 5)
	require.Equal(t, floor, dates[0])
}

// Range straddling the archive floor: exactly 5 skipped dates and 5
// successful runs.
func TestBackfillAroundArchiveFloor(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		fmt.Fprint(w, sampleChartPage)
	}))
	defer server.Close()

	floor := day(2025, 3, 6)
	cfg := testSource()
	cfg.ArchiveURL = server.URL + "/archive/%s.html"
	cfg.ArchiveFloor = floor
	cfg.Cadence = models.CadenceDaily

	backfill := &Backfill{Fetcher: NewFetcher(5*time.Second, ""), Delay: 0}

	var runs []models.CollectionRun
	skipped, err := backfill.Collect(cfg, floor.AddDate(0, 0, -5), floor.AddDate(0, 0, 4), func(run models.CollectionRun) bool {
		runs = append(runs, run)
		return true
	})
	require.NoError(t, err)
	require.Equal(t, 5, skipped)
	require.Len(t, runs, 5)
	require.Equal(t, 5, requests)

	for i, run := range runs {
		require.NoError(t, run.Err)
		require.Len(t, run.Records, 3)
		require.Equal(t, floor.AddDate(0, 0, i), run.Date)
	}
}

func TestBackfillNoArchive(t *testing.T) {
	cfg := testSource()
	cfg.ArchiveURL = ""

	backfill := &Backfill{Fetcher: NewFetcher(5*time.Second, ""), Delay: 0}
	_, err := backfill.Collect(cfg, day(2025, 3, 1), day(2025, 3, 2), func(models.CollectionRun) bool {
		t.Fatal("emit should not be called for a source without an archive")
		return false
	})
	require.ErrorIs(t, err, ErrNoArchive)
}

// A failed date is carried in its run; the rest of the range proceeds.
func TestBackfillSkipsFailedDates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/archive/20250302.html" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, sampleChartPage)
	}))
	defer server.Close()

	cfg := testSource()
	cfg.ArchiveURL = server.URL + "/archive/%s.html"
	cfg.ArchiveDate = "20060102"
	cfg.ArchiveFloor = day(2025, 1, 1)
	cfg.Cadence = models.CadenceDaily

	backfill := &Backfill{Fetcher: NewFetcher(5*time.Second, ""), Delay: 0}

	var failed, ok int
	_, err := backfill.Collect(cfg, day(2025, 3, 1), day(2025, 3, 3), func(run models.CollectionRun) bool {
		if run.Err != nil {
			failed++
			return true
		}
		ok++
		return true
	})
	require.NoError(t, err)
	require.Equal(t, 1, failed)
	require.Equal(t, 2, ok)
}

// emit returning false must end the range without issuing further
// requests.
func TestBackfillStopsWhenEmitReturnsFalse(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		fmt.Fprint(w, sampleChartPage)
	}))
	defer server.Close()

	cfg := testSource()
	cfg.ArchiveURL = server.URL + "/archive/%s.html"
	cfg.ArchiveFloor = day(2025, 1, 1)
	cfg.Cadence = models.CadenceDaily

	backfill := &Backfill{Fetcher: NewFetcher(5*time.Second, ""), Delay: 0}

	emitted := 0
	_, err := backfill.Collect(cfg, day(2025, 3, 1), day(2025, 3, 10), func(models.CollectionRun) bool {
		emitted++
		return false
	})
	require.NoError(t, err)
	require.Equal(t, 1, emitted)
	require.Equal(t, 1, requests)
}

func TestCollectDateFetchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down for maintenance", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	cfg := testSource()
	cfg.ChartURL = server.URL

	run := CollectDate(NewFetcher(5*time.Second, ""), cfg, day(2025, 3, 1), true)
	require.Error(t, run.Err)

	var fetchErr *models.FetchError
	require.ErrorAs(t, run.Err, &fetchErr)
	require.Equal(t, http.StatusServiceUnavailable, fetchErr.StatusCode)
}
