package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"classpulse/cmd/samplegen/engine"
)

func main() {
	scenario := flag.String("scenario", "steady", "Scenario to generate: steady, drift, messy")
	out := flag.String("out", "./sample/weekly.xlsx", "Output workbook path")
	weeks := flag.Int("weeks", 8, "Number of weeks to generate")
	classes := flag.Int("classes", 4, "Classes per grade")
	grades := flag.String("grades", "初一,初二,初三", "Comma-separated grade prefixes")
	seed := flag.Int64("seed", 1, "Random seed")
	flag.Parse()

	cfg := engine.GeneratorConfig{
		Scenario:        *scenario,
		Weeks:           *weeks,
		Grades:          strings.Split(*grades, ","),
		ClassesPerGrade: *classes,
		Seed:            *seed,
	}

	fmt.Printf("Generating scenario '%s' (%d weeks, %d classes per grade) to %s...\n", cfg.Scenario, cfg.Weeks, cfg.ClassesPerGrade, *out)

	if err := os.MkdirAll(filepath.Dir(*out), 0755); err != nil {
		fmt.Printf("Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	rows := engine.Generate(cfg)
	if err := engine.Save(*out, rows); err != nil {
		fmt.Printf("Failed to save sample workbook: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Done.")
}
