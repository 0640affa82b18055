package storage

import (
	"database/sql"
	"path/filepath"
	"testing"
)

func TestNew(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{
			name:    "valid path",
			path:    dbPath,
			wantErr: false,
		},
		{
			name:    "invalid path",
			path:    "/invalid/path/to/db.db",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, err := New(tt.path)

			if tt.wantErr {
				if err == nil {
					t.Errorf("New() expected error, got nil")
				}
				if db != nil {
					_ = db.Close()
				}
				return
			}

			if err != nil {
				t.Errorf("New() unexpected error: %v", err)
				return
			}

			if db == nil {
				t.Fatal("New() returned nil database")
			}

			// Verify connection pool settings
			if db.Stats().MaxOpenConnections != 25 {
				t.Errorf("New() MaxOpenConnections = %v, want 25", db.Stats().MaxOpenConnections)
			}

			_ = db.Close()
		})
	}
}

func TestMigrateIdempotent(t *testing.T) {
	db := newTestDB(t)

	// A second run must not fail.
	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate() second run failed: %v", err)
	}

	for _, table := range []string{"patients", "encounters", "observations", "medications", "notes_raw", "notes_phi"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing after migration: %v", table, err)
		}
	}
}

func TestMedicationStatusConstraint(t *testing.T) {
	db := newTestDB(t)
	seedPatient(t, db, "p1", "Jane Doe")

	_, err := db.Exec(
		`INSERT INTO medications (id, patient_id, name, status) VALUES (?, ?, ?, ?)`,
		"m1", "p1", "Lisinopril", "paused",
	)
	if err == nil {
		t.Error("insert with unknown medication status should fail the CHECK constraint")
	}
}

// newTestDB opens a migrated SQLite database in a temp dir.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	if err := Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// seedPatient inserts a patient row directly.
func seedPatient(t *testing.T, db *sql.DB, id, name string) {
	t.Helper()
	if _, err := db.Exec(`INSERT INTO patients (id, display_name) VALUES (?, ?)`, id, name); err != nil {
		t.Fatalf("failed to seed patient: %v", err)
	}
}
