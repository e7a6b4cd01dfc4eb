// cmd/features/main.go
//
// Derives rolling features (moving average, delta, growth rate) from
// the chart-history reference CSV, one row per (song, date).
package main

import (
	"flag"
	"log"

	"chartpulse/config"
	"chartpulse/features"
	"chartpulse/reference"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	inPath := flag.String("in", "", "chart-history CSV (overrides reference.input_path)")
	outPath := flag.String("out", "data/reference_features.csv", "derived features CSV")
	metric := flag.String("metric", "weeks_on_chart", "metric to derive features over")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	input := cfg.Reference.InputPath
	if *inPath != "" {
		input = *inPath
	}
	if input == "" {
		log.Fatal("No reference input path: set -in or reference.input_path")
	}

	rows, dropped, err := reference.Load(input)
	if err != nil {
		log.Fatalf("Error loading reference data: %v", err)
	}
	if dropped > 0 {
		log.Printf("WARN: %d row(s) dropped during load", dropped)
	}

	derived := features.Build(reference.Records(rows), *metric)
	if len(derived) == 0 {
		log.Printf("WARN: no rows carry metric %q; output will be empty", *metric)
	}

	if err := features.WriteCSV(*outPath, derived); err != nil {
		log.Fatalf("Error writing features: %v", err)
	}
}
