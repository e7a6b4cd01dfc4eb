// scraper/sources.go
package scraper

import (
	"time"

	"chartpulse/models"
)

// The chart layout at the aggregator is stable across sources:
// column 0 is the rank, column 1 a movement indicator ("=", "+2"),
// column 2 the combined "Artist - Title" cell, column 3 the metric.
var kworbColumns = models.ColumnMapping{Rank: 0, Title: 2, Metrics: nil}

func kworbMapping(metric string) models.ColumnMapping {
	m := kworbColumns
	m.Metrics = map[string]int{metric: 3}
	return m
}

// DefaultSources is the static registry of configured chart sources.
// URL templates, archive floors and column mappings are fixed facts
// about the aggregator; everything else in the pipeline is generic.
func DefaultSources() []models.SourceConfig {
	return []models.SourceConfig{
		{
			Name:          "spotify",
			ChartURL:      "https://kworb.net/spotify/country/global_daily.html",
			Cadence:       models.CadenceDaily,
			TableSelector: "table",
			Columns:       kworbMapping("streams"),
			MinColumns:    4,
			OutputFields:  []string{"song_name", "artist_name", "streams", "chart_position", "collection_date"},
		},
		{
			Name:          "youtube",
			ChartURL:      "https://kworb.net/youtube/",
			Cadence:       models.CadenceDaily,
			TableSelector: "table",
			Columns:       kworbMapping("views"),
			MinColumns:    4,
			OutputFields:  []string{"song_name", "artist_name", "views", "chart_position", "collection_date"},
		},
		{
			Name:          "itunes",
			ChartURL:      "https://kworb.net/ww/index.html",
			ArchiveURL:    "https://kworb.net/ww/archive/%s.html",
			ArchiveDate:   "20060102",
			ArchiveFloor:  time.Date(2017, time.June, 28, 0, 0, 0, 0, time.UTC),
			Cadence:       models.CadenceDaily,
			TableSelector: "table",
			Columns:       kworbMapping("digital_sales"),
			MinColumns:    4,
			OutputFields:  []string{"song_name", "artist_name", "digital_sales", "chart_position", "collection_date"},
		},
		{
			Name:          "apple_music",
			ChartURL:      "https://kworb.net/apple_songs/index.html",
			ArchiveURL:    "https://kworb.net/apple_songs/archive/%s.html",
			ArchiveDate:   "20060102",
			ArchiveFloor:  time.Date(2024, time.October, 1, 0, 0, 0, 0, time.UTC),
			Cadence:       models.CadenceDaily,
			TableSelector: "table",
			Columns:       kworbMapping("streams"),
			MinColumns:    4,
			OutputFields:  []string{"song_name", "artist_name", "streams", "chart_position", "collection_date"},
		},
		{
			Name:          "radio",
			ChartURL:      "https://kworb.net/radio/",
			ArchiveURL:    "https://kworb.net/radio/archives/%s.html",
			ArchiveDate:   "20060102",
			ArchiveFloor:  time.Date(2024, time.September, 1, 0, 0, 0, 0, time.UTC),
			Cadence:       models.CadenceDaily,
			TableSelector: "table",
			Columns:       kworbMapping("spins"),
			MinColumns:    4,
			OutputFields:  []string{"song_name", "artist_name", "spins", "chart_position", "collection_date"},
		},
		{
			// Billboard publishes once a week; archive pages are keyed by
			// the chart's Saturday date.
			Name:          "billboard",
			ChartURL:      "https://www.billboard.com/charts/hot-100/",
			ArchiveURL:    "https://www.billboard.com/charts/hot-100/%s/",
			ArchiveDate:   "2006-01-02",
			ArchiveFloor:  time.Date(1958, time.August, 4, 0, 0, 0, 0, time.UTC),
			Cadence:       models.CadenceWeekly,
			TableSelector: "table.chart",
			Columns: models.ColumnMapping{
				Rank:    0,
				Title:   1,
				Metrics: map[string]int{"weeks_on_chart": 2},
			},
			MinColumns:   3,
			OutputFields: []string{"song_name", "artist_name", "chart_position", "weeks_on_chart", "collection_date"},
		},
	}
}

// SourceByName looks a source up in the default registry.
func SourceByName(name string) (models.SourceConfig, bool) {
	for _, cfg := range DefaultSources() {
		if cfg.Name == name {
			return cfg, true
		}
	}
	return models.SourceConfig{}, false
}
