package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"punchclock/internal/db/models"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// punchesKey is the single key the whole punch list lives under.
const punchesKey = "punches"

type DB struct {
	*sql.DB
}

// New opens (or creates) the SQLite database at path and ensures the
// key-value schema exists.
func New(path string) (*DB, error) {
	handle, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := handle.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	database := &DB{handle}
	if err := database.initSchema(); err != nil {
		return nil, fmt.Errorf("error initializing schema: %w", err)
	}
	return database, nil
}

func (db *DB) initSchema() error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS store (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`)
	return err
}

// Load returns the full punch list in its canonical most-recent-first
// order. An absent key yields an empty list. Malformed stored JSON is
// logged and treated as an empty store rather than surfaced.
func (db *DB) Load() ([]models.Punch, error) {
	query := `
		SELECT value
		FROM store
		WHERE key = ?`

	var raw string
	err := db.QueryRow(query, punchesKey).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading punches: %w", err)
	}

	var punches []models.Punch
	if err := json.Unmarshal([]byte(raw), &punches); err != nil {
		log.Printf("Malformed punch data in store, treating as empty: %v", err)
		return nil, nil
	}
	return punches, nil
}

// Persist writes the full punch list back to storage, replacing
// whatever was there before.
func (db *DB) Persist(punches []models.Punch) error {
	if punches == nil {
		punches = []models.Punch{}
	}

	raw, err := json.Marshal(punches)
	if err != nil {
		return fmt.Errorf("error serializing punches: %w", err)
	}

	query := `
		INSERT INTO store (key, value)
		VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value`

	_, err = db.Exec(query, punchesKey, string(raw))
	if err != nil {
		return fmt.Errorf("error writing punches: %w", err)
	}
	return nil
}

// Append creates a punch of the given kind with a fresh id and the
// current timestamp, prepends it to the list and persists the result.
// No alternation constraint is enforced: OUT after OUT is accepted.
func (db *DB) Append(kind models.Kind) (*models.Punch, error) {
	punches, err := db.Load()
	if err != nil {
		return nil, err
	}

	punch := models.Punch{
		ID:        uuid.New(),
		Kind:      kind,
		Timestamp: time.Now().UnixMilli(),
	}

	punches = append([]models.Punch{punch}, punches...)
	if err := db.Persist(punches); err != nil {
		return nil, err
	}
	return &punch, nil
}

// Clear removes the stored punch list entirely.
func (db *DB) Clear() error {
	_, err := db.Exec(`DELETE FROM store WHERE key = ?`, punchesKey)
	if err != nil {
		return fmt.Errorf("error clearing punches: %w", err)
	}
	return nil
}
