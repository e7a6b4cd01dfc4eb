// features/features.go
package features

import (
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"github.com/jszwec/csvutil"

	"chartpulse/models"
)

// Point is one (date, metric value) observation for a single song.
type Point struct {
	Date  time.Time
	Value int64
}

// MovingAverage returns the rolling mean over the trailing window at
// each index. Indexes with fewer than window observations average the
// available prefix.
func MovingAverage(values []float64, window int) []float64 {
	if window < 1 {
		window = 1
	}
	out := make([]float64, len(values))
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		n := i + 1
		if n > window {
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

// Delta returns the change from the previous observation; the first
// entry is zero.
func Delta(values []int64) []int64 {
	out := make([]int64, len(values))
	for i := 1; i < len(values); i++ {
		out[i] = values[i] - values[i-1]
	}
	return out
}

// GrowthRate returns the fractional change from the previous
// observation. The first entry, and any entry following a zero value,
// is zero.
func GrowthRate(values []float64) []float64 {
	out := make([]float64, len(values))
	for i := 1; i < len(values); i++ {
		if values[i-1] == 0 {
			continue
		}
		out[i] = (values[i] - values[i-1]) / values[i-1]
	}
	return out
}

// FeatureRow is one derived observation, written to the features CSV.
type FeatureRow struct {
	SongName   string  `csv:"song_name"`
	ArtistName string  `csv:"artist_name"`
	Date       string  `csv:"date"`
	Value      int64   `csv:"value"`
	MA7        float64 `csv:"ma_7day"`
	Delta      int64   `csv:"delta"`
	Growth     float64 `csv:"growth_rate"`
}

// Build groups records by (song, artist), orders each song's series by
// date and derives the rolling features per observation. metric names
// the entry of the record's metric map that feeds the series.
func Build(records []models.ChartRecord, metric string) []FeatureRow {
	type key struct{ song, artist string }

	series := make(map[key][]Point)
	for _, record := range records {
		value, ok := record.Metrics[metric]
		if !ok {
			continue
		}
		k := key{record.SongName, record.ArtistName}
		series[k] = append(series[k], Point{Date: record.ObservedDate, Value: value})
	}

	keys := make([]key, 0, len(series))
	for k := range series {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].song != keys[j].song {
			return keys[i].song < keys[j].song
		}
		return keys[i].artist < keys[j].artist
	})

	var rows []FeatureRow
	for _, k := range keys {
		points := series[k]
		sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })

		values := make([]int64, len(points))
		floats := make([]float64, len(points))
		for i, p := range points {
			values[i] = p.Value
			floats[i] = float64(p.Value)
		}

		mas := MovingAverage(floats, 7)
		deltas := Delta(values)
		growth := GrowthRate(floats)

		for i, p := range points {
			rows = append(rows, FeatureRow{
				SongName:   k.song,
				ArtistName: k.artist,
				Date:       p.Date.Format("2006-01-02"),
				Value:      p.Value,
				MA7:        mas[i],
				Delta:      deltas[i],
				Growth:     growth[i],
			})
		}
	}
	return rows
}

// WriteCSV persists derived feature rows at path.
func WriteCSV(path string, rows []FeatureRow) error {
	data, err := csvutil.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to marshal feature rows: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	log.Printf("Features: wrote %d row(s) to %s", len(rows), path)
	return nil
}
