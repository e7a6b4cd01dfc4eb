package reference

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"chartpulse/models"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadCanonicalColumns(t *testing.T) {
	path := writeCSV(t, strings.Join([]string{
		"song_name,artist_name,chart_position,chart_date",
		"Song A,Artist A,1,2024-11-02",
		"Song B,Artist B,15,2024-11-02",
	}, "\n"))

	rows, dropped, err := Load(path)
	require.NoError(t, err)
	require.Zero(t, dropped)
	require.Len(t, rows, 2)
	require.Equal(t, "Song A", rows[0].SongName)
	require.Equal(t, 15, rows[1].ChartPosition)
}

func TestLoadSynonymColumns(t *testing.T) {
	path := writeCSV(t, strings.Join([]string{
		"Week,Title,Performer,Rank,Weeks",
		"2024-11-02,Song A,Artist A,1,12",
		"2024-11-02,Song B,Artist B,40,3",
	}, "\n"))

	rows, dropped, err := Load(path)
	require.NoError(t, err)
	require.Zero(t, dropped)
	require.Len(t, rows, 2)
	require.Equal(t, "Artist A", rows[0].ArtistName)
	require.Equal(t, "2024-11-02", rows[0].ChartDate)
	require.Equal(t, 12, rows[0].WeeksOnChart)
	require.Equal(t, 40, rows[1].ChartPosition)
}

func TestLoadMissingRequiredColumn(t *testing.T) {
	path := writeCSV(t, strings.Join([]string{
		"Title,Rank", // no artist variant at all
		"Song A,1",
	}, "\n"))

	_, _, err := Load(path)
	require.Error(t, err)

	var schemaErr *models.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	require.Equal(t, "artist_name", schemaErr.Field)
}

func TestLoadDropsBadRows(t *testing.T) {
	path := writeCSV(t, strings.Join([]string{
		"song_name,artist_name,chart_position",
		"Song A,Artist A,1",
		"Song B,Artist B,not-a-rank",
		"Song C,Artist C,3",
	}, "\n"))

	rows, dropped, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 1, dropped)
	require.Len(t, rows, 2)
	require.Equal(t, "Song C", rows[1].SongName)
}

// reached_rank_1 iff rank == 1; reached_top10 iff rank <= 10.
func TestLabelThresholds(t *testing.T) {
	testCases := []struct {
		position int
		rank1    bool
		top10    bool
		top40    bool
	}{
		{position: 1, rank1: true, top10: true, top40: true},
		{position: 2, rank1: false, top10: true, top40: true},
		{position: 10, rank1: false, top10: true, top40: true},
		{position: 11, rank1: false, top10: false, top40: true},
		{position: 40, rank1: false, top10: false, top40: true},
		{position: 41, rank1: false, top10: false, top40: false},
		{position: 100, rank1: false, top10: false, top40: false},
	}
	for _, tc := range testCases {
		labeled := Label([]Row{{SongName: "S", ArtistName: "A", ChartPosition: tc.position}})
		require.Len(t, labeled, 1)
		require.Equal(t, tc.rank1, labeled[0].ReachedRank1, "position %d", tc.position)
		require.Equal(t, tc.top10, labeled[0].ReachedTop10, "position %d", tc.position)
		require.Equal(t, tc.top40, labeled[0].ReachedTop40, "position %d", tc.position)
	}
}

func TestWriteLabeledRoundTrip(t *testing.T) {
	out := filepath.Join(t.TempDir(), "labeled.csv")
	labeled := Label([]Row{
		{SongName: "Song A", ArtistName: "Artist A", ChartPosition: 1, ChartDate: "2024-11-02"},
		{SongName: "Song B", ArtistName: "Artist B", ChartPosition: 55, ChartDate: "2024-11-02"},
	})

	require.NoError(t, WriteLabeled(out, labeled))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	text := string(data)
	require.Contains(t, text, "reached_rank_1")
	require.Contains(t, text, "Song A,Artist A,1")
}

func TestRecords(t *testing.T) {
	records := Records([]Row{
		{SongName: "Song A", ArtistName: "Artist A", ChartPosition: 7, WeeksOnChart: 4, ChartDate: "2024-11-02"},
	})
	require.Len(t, records, 1)
	require.NotNil(t, records[0].Rank)
	require.Equal(t, 7, *records[0].Rank)
	require.Equal(t, int64(4), records[0].Metrics["weeks_on_chart"])
	require.Equal(t, 2024, records[0].ObservedDate.Year())
}
