// cmd/loadreference/main.go
package main

import (
	"flag"
	"log"

	"chartpulse/config"
	"chartpulse/reference"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	inPath := flag.String("in", "", "chart-history CSV (overrides reference.input_path)")
	outPath := flag.String("out", "", "labeled output CSV (overrides reference.output_path)")
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

	output := cfg.Reference.OutputPath
	if *outPath != "" {
		output = *outPath
	}
	if output == "" {
		output = "data/reference_labeled.csv"
	}

	rows, dropped, err := reference.Load(input)
	if err != nil {
		log.Fatalf("Error loading reference data: %v", err)
	}
	if dropped > 0 {
		log.Printf("WARN: %d row(s) dropped during load", dropped)
	}

	if err := reference.WriteLabeled(output, reference.Label(rows)); err != nil {
		log.Fatalf("Error writing labeled output: %v", err)
	}
}
