package storage

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// New opens a SQLite database connection at the given path.
// It enables foreign keys and sets connection pool settings.
func New(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	// Enable foreign keys (disabled by default in SQLite)
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, err
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate runs database migrations to create the required tables.
// It is idempotent and can be run multiple times safely.
//
// notes_raw is the system of record and holds the original PHI-bearing text;
// notes_phi is one-to-one with notes_raw and holds only de-identified content.
// The embedding for a redacted note lives in the vector index keyed by note id;
// notes_phi.embedded records whether a vector exists for the note.
func Migrate(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS patients (
			id TEXT PRIMARY KEY,
			display_name TEXT NOT NULL,
			birth_date TEXT,
			sex TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS encounters (
			id TEXT PRIMARY KEY,
			patient_id TEXT NOT NULL,
			encounter_type TEXT,
			reason TEXT,
			started_at DATETIME,
			ended_at DATETIME,
			FOREIGN KEY (patient_id) REFERENCES patients(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS observations (
			id TEXT PRIMARY KEY,
			patient_id TEXT NOT NULL,
			encounter_id TEXT,
			code TEXT NOT NULL,
			display TEXT NOT NULL,
			value_num REAL,
			value_text TEXT,
			unit TEXT,
			observed_at DATETIME NOT NULL,
			FOREIGN KEY (patient_id) REFERENCES patients(id) ON DELETE CASCADE,
			FOREIGN KEY (encounter_id) REFERENCES encounters(id)
		);`,
		`CREATE TABLE IF NOT EXISTS medications (
			id TEXT PRIMARY KEY,
			patient_id TEXT NOT NULL,
			encounter_id TEXT,
			name TEXT NOT NULL,
			dose TEXT,
			frequency TEXT,
			route TEXT,
			status TEXT NOT NULL CHECK (status IN ('active', 'completed', 'stopped', 'on-hold')),
			start_date DATETIME,
			end_date DATETIME,
			prescriber TEXT,
			reason TEXT,
			FOREIGN KEY (patient_id) REFERENCES patients(id) ON DELETE CASCADE,
			FOREIGN KEY (encounter_id) REFERENCES encounters(id)
		);`,
		`CREATE TABLE IF NOT EXISTS notes_raw (
			id TEXT PRIMARY KEY,
			patient_id TEXT NOT NULL,
			encounter_id TEXT,
			raw_text TEXT NOT NULL,
			note_type TEXT,
			author TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (patient_id) REFERENCES patients(id) ON DELETE CASCADE,
			FOREIGN KEY (encounter_id) REFERENCES encounters(id)
		);`,
		`CREATE TABLE IF NOT EXISTS notes_phi (
			note_id TEXT PRIMARY KEY,
			patient_id TEXT NOT NULL,
			encounter_id TEXT,
			redacted_text TEXT NOT NULL,
			phi_entities TEXT NOT NULL DEFAULT '[]',
			embedded INTEGER NOT NULL DEFAULT 0,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (note_id) REFERENCES notes_raw(id) ON DELETE CASCADE,
			FOREIGN KEY (patient_id) REFERENCES patients(id) ON DELETE CASCADE
		);`,
		`CREATE INDEX IF NOT EXISTS idx_observations_patient ON observations(patient_id, observed_at);`,
		`CREATE INDEX IF NOT EXISTS idx_medications_patient ON medications(patient_id, start_date);`,
		`CREATE INDEX IF NOT EXISTS idx_notes_raw_patient ON notes_raw(patient_id, created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_notes_phi_patient ON notes_phi(patient_id);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
