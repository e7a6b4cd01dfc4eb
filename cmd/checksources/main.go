// cmd/checksources/main.go
//
// Fetches and parses every configured source once without writing
// anything, to verify the aggregator's page structure still matches
// the column mappings.
package main

import (
	"flag"
	"log"
	"os"
	"time"

	"chartpulse/config"
	"chartpulse/scraper"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	fetcher := scraper.NewFetcher(cfg.Scraper.Timeout, cfg.Scraper.UserAgent)
	today := time.Now().UTC()

	failures := 0
	for i, src := range scraper.DefaultSources() {
		if i > 0 && cfg.Scraper.RequestDelay > 0 {
			time.Sleep(cfg.Scraper.RequestDelay)
		}
		run := scraper.CollectDate(fetcher, src, today, true)
		if run.Err != nil {
			log.Printf("FAIL %s: %v", src.Name, run.Err)
			failures++
			continue
		}
		log.Printf("ok   %s: %d record(s), %d dropped", src.Name, len(run.Records), run.DroppedRows)
	}

	if failures > 0 {
		log.Printf("%d source(s) failed the check", failures)
		os.Exit(1)
	}
}
