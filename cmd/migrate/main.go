// Command migrate initializes the punchclock database and can import a
// JSON export of punch events (the same {id, kind, timestamp} array the
// store persists) into it.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"sort"

	"punchclock/internal/config"
	"punchclock/internal/db"
	"punchclock/internal/db/models"

	"github.com/joho/godotenv"
)

func main() {
	importPath := flag.String("import", "", "JSON file of punch events to merge into the store")
	reset := flag.Bool("reset", false, "delete all stored punches first")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Opening the store creates the schema
	database, err := db.New(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	if *reset {
		if err := database.Clear(); err != nil {
			log.Fatalf("Error clearing store: %v", err)
		}
		log.Println("Cleared stored punches")
	}

	if *importPath != "" {
		added, total, err := importPunches(database, *importPath)
		if err != nil {
			log.Fatalf("Error importing punches: %v", err)
		}
		log.Printf("Imported %d new punches (%d total)", added, total)
	}

	log.Println("Migration completed successfully")
}

// importPunches merges the events from path into the store, skipping
// ids that already exist, and keeps the most-recent-first order.
func importPunches(database *db.DB, path string) (added, total int, err error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, err
	}

	var incoming []models.Punch
	if err := json.Unmarshal(raw, &incoming); err != nil {
		return 0, 0, err
	}

	existing, err := database.Load()
	if err != nil {
		return 0, 0, err
	}

	seen := make(map[string]bool, len(existing))
	for _, p := range existing {
		seen[p.ID.String()] = true
	}

	merged := existing
	for _, p := range incoming {
		if seen[p.ID.String()] {
			continue
		}
		seen[p.ID.String()] = true
		merged = append(merged, p)
		added++
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Timestamp > merged[j].Timestamp
	})

	if err := database.Persist(merged); err != nil {
		return 0, 0, err
	}
	return added, len(merged), nil
}
