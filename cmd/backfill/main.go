// cmd/backfill/main.go
package main

import (
	"flag"
	"log"
	"os"
	"time"

	"chartpulse/config"
	"chartpulse/models"
	"chartpulse/scraper"
	"chartpulse/services"
	"chartpulse/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	startStr := flag.String("start", "", "start date (YYYY-MM-DD)")
	endStr := flag.String("end", "", "end date (YYYY-MM-DD, default yesterday)")
	sourceName := flag.String("source", "", "collect a single source instead of all archivable ones")
	flag.Parse()

	if *startStr == "" {
		log.Fatal("-start is required")
	}
	start, err := time.Parse("2006-01-02", *startStr)
	if err != nil {
		log.Fatalf("Invalid -start date: %v", err)
	}

	end := time.Now().UTC().AddDate(0, 0, -1)
	if *endStr != "" {
		end, err = time.Parse("2006-01-02", *endStr)
		if err != nil {
			log.Fatalf("Invalid -end date: %v", err)
		}
	}
	if end.Before(start) {
		log.Fatalf("End date %s precedes start date %s", end.Format("2006-01-02"), start.Format("2006-01-02"))
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	sources := scraper.DefaultSources()
	if *sourceName != "" {
		src, ok := scraper.SourceByName(*sourceName)
		if !ok {
			log.Fatalf("Unknown source %q", *sourceName)
		}
		sources = []models.SourceConfig{src}
	}

	sink, cleanup, err := storage.FromConfig(cfg)
	if err != nil {
		log.Fatalf("Error initializing storage: %v", err)
	}
	defer cleanup()

	collector := &services.Collector{
		Fetcher: scraper.NewFetcher(cfg.Scraper.Timeout, cfg.Scraper.UserAgent),
		Sink:    sink,
		Sources: sources,
		Delay:   cfg.Scraper.RequestDelay,
	}

	if !services.LogSummary(collector.CollectRange(start, end)) {
		os.Exit(1)
	}
}
