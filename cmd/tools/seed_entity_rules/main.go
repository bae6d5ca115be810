// Command seed_entity_rules loads an entity rules JSON file into the entity_rules tables.
//
// Existing rules for the same entities are replaced; other entities are left alone.
//
// Usage:
//
//	go run cmd/tools/seed_entity_rules/main.go -file rules.json [-dry-run]
//
// Requires DATABASE_URL environment variable to be set and migrations applied.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/jonathan/ad-quality/internal/db"
	"github.com/jonathan/ad-quality/internal/rules"
)

func main() {
	_ = godotenv.Load()

	file := flag.String("file", "", "Path to entity rules JSON file")
	dryRun := flag.Bool("dry-run", false, "Validate and print what would be seeded without writing")
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "ERROR: -file is required")
		os.Exit(1)
	}

	source, err := rules.LoadFile(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
	entities := source.File().Entities

	fmt.Println("=== Entity Rules Seed ===")
	fmt.Printf("File: %s (%d entities)\n\n", *file, len(entities))

	if *dryRun {
		for _, name := range source.Entities() {
			r := entities[name]
			fmt.Printf("  %-24s prohibited=%d competitors=%d disclaimers=%d\n",
				name, len(r.ProhibitedWords), len(r.CompetitorNames), len(r.RequiredDisclaimers))
		}
		fmt.Println("\nDry run, nothing written.")
		return
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		fmt.Fprintln(os.Stderr, "ERROR: DATABASE_URL environment variable not set")
		os.Exit(1)
	}

	ctx := context.Background()
	database, err := db.Connect(ctx, dsn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	var seeded, failed int
	for _, name := range source.Entities() {
		record, err := database.UpsertEntityRules(ctx, name, entities[name])
		if err != nil {
			fmt.Fprintf(os.Stderr, "  ✗ %s: %v\n", name, err)
			failed++
			continue
		}
		fmt.Printf("  ✓ %s (%s)\n", name, record.ID)
		seeded++
	}

	fmt.Printf("\nSeeded %d entities, %d failed.\n", seeded, failed)
	if failed > 0 {
		database.Close()
		os.Exit(1)
	}
}
