package main

import (
	"bufio"
	"flag"
	"log"
	"os"

	"github.com/pageza/nutriplan/backend/config"
	"github.com/pageza/nutriplan/backend/internal/database"
	"github.com/pageza/nutriplan/backend/internal/importer"
)

func main() {
	file := flag.String("file", "FoodData_Central_branded_food_json_2025-04-24.json", "Path to the USDA branded foods JSON export")
	batchSize := flag.Int("batch-size", importer.DefaultBatchSize, "Number of foods inserted per batch")
	limit := flag.Int("limit", 0, "Stop after this many foods (0 imports everything)")
	flag.Parse()

	f, err := os.Open(*file)
	if err != nil {
		log.Fatalf("File not found: %v", err)
	}
	defer f.Close()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.OpenGorm(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Printf("Starting import from %s (batch size %d)", *file, *batchSize)
	res, err := importer.New(db).Import(bufio.NewReaderSize(f, 1<<20), importer.Options{
		BatchSize: *batchSize,
		Limit:     *limit,
	})
	if err != nil {
		log.Fatalf("Import failed after %d foods: %v", res.Inserted, err)
	}

	log.Printf("Import complete: %d imported, %d skipped", res.Inserted, res.Skipped)
}
