package features

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"chartpulse/models"
	"chartpulse/reference"
)

func TestMovingAverage(t *testing.T) {
	values := []float64{10, 20, 30, 40}

	got := MovingAverage(values, 2)
	require.Equal(t, []float64{10, 15, 25, 35}, got)

	got = MovingAverage(values, 7)
	require.Equal(t, []float64{10, 15, 20, 25}, got)
}

func TestDelta(t *testing.T) {
	require.Equal(t, []int64{0, 10, -5, 20}, Delta([]int64{100, 110, 105, 125}))
	require.Empty(t, Delta(nil))
}

func TestGrowthRate(t *testing.T) {
	got := GrowthRate([]float64{100, 150, 75})
	require.InDelta(t, 0, got[0], 1e-9)
	require.InDelta(t, 0.5, got[1], 1e-9)
	require.InDelta(t, -0.5, got[2], 1e-9)

	// A zero previous value yields zero growth instead of a division blowup.
	got = GrowthRate([]float64{0, 50})
	require.InDelta(t, 0, got[1], 1e-9)
}

func observation(song, artist string, day time.Time, streams int64) models.ChartRecord {
	return models.ChartRecord{
		SongName:     song,
		ArtistName:   artist,
		Metrics:      map[string]int64{"streams": streams},
		ObservedDate: day,
	}
}

func TestBuildGroupsAndOrders(t *testing.T) {
	d1 := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	d2 := d1.AddDate(0, 0, 1)
	d3 := d1.AddDate(0, 0, 2)

	// Deliberately out of date order and interleaved across songs.
	records := []models.ChartRecord{
		observation("Song B", "Artist Z", d1, 500),
		observation("Song A", "Artist X", d2, 200),
		observation("Song A", "Artist X", d1, 100),
		observation("Song A", "Artist X", d3, 300),
		// No "streams" metric: excluded from the series.
		{SongName: "Song C", ArtistName: "Artist Y", Metrics: map[string]int64{"spins": 9}, ObservedDate: d1},
	}

	rows := Build(records, "streams")
	require.Len(t, rows, 4)

	// Song A's series in ascending date order.
	require.Equal(t, "Song A", rows[0].SongName)
	require.Equal(t, []string{"2025-03-01", "2025-03-02", "2025-03-03"},
		[]string{rows[0].Date, rows[1].Date, rows[2].Date})
	require.Equal(t, int64(0), rows[0].Delta)
	require.Equal(t, int64(100), rows[1].Delta)
	require.InDelta(t, 1.0, rows[1].Growth, 1e-9)
	require.InDelta(t, 150, rows[1].MA7, 1e-9)

	require.Equal(t, "Song B", rows[3].SongName)
	require.Equal(t, int64(500), rows[3].Value)
}

// The full auxiliary workflow: load a chart-history CSV, map it onto
// canonical records, derive rolling features and write them out.
func TestBuildFromReferenceCSV(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "history.csv")
	require.NoError(t, os.WriteFile(input, []byte(strings.Join([]string{
		"Week,Title,Performer,Rank,Weeks",
		"2024-11-02,Song A,Artist A,5,1",
		"2024-11-09,Song A,Artist A,3,2",
		"2024-11-16,Song A,Artist A,1,3",
	}, "\n")), 0644))

	rows, dropped, err := reference.Load(input)
	require.NoError(t, err)
	require.Zero(t, dropped)

	derived := Build(reference.Records(rows), "weeks_on_chart")
	require.Len(t, derived, 3)
	require.Equal(t, "Song A", derived[0].SongName)
	require.Equal(t, []string{"2024-11-02", "2024-11-09", "2024-11-16"},
		[]string{derived[0].Date, derived[1].Date, derived[2].Date})
	require.Equal(t, int64(1), derived[1].Delta)
	require.InDelta(t, 1.0, derived[1].Growth, 1e-9)

	output := filepath.Join(dir, "features.csv")
	require.NoError(t, WriteCSV(output, derived))
	data, err := os.ReadFile(output)
	require.NoError(t, err)
	require.Contains(t, string(data), "Song A,Artist A,2024-11-16,3")
}

func TestWriteCSV(t *testing.T) {
	out := filepath.Join(t.TempDir(), "features.csv")
	rows := []FeatureRow{
		{SongName: "Song A", ArtistName: "Artist X", Date: "2025-03-01", Value: 100, MA7: 100, Delta: 0, Growth: 0},
	}
	require.NoError(t, WriteCSV(out, rows))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Contains(t, string(data), "song_name,artist_name,date,value,ma_7day,delta,growth_rate")
	require.Contains(t, string(data), "Song A,Artist X,2025-03-01,100,100,0,0")
}
