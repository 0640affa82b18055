package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_note_store.go -package=mocks patient360/internal/storage NoteStore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// NoteStore defines the interface for raw and redacted note storage operations.
type NoteStore interface {
	// InsertRaw persists the immutable original note. This write is the system of
	// record and is never allowed to degrade: failure aborts the whole ingestion.
	InsertRaw(ctx context.Context, note *RawNote) error
	// ListRawByPatient returns all raw notes for a patient, newest first.
	ListRawByPatient(ctx context.Context, patientID string) ([]RawNote, error)
	// UpsertRedacted inserts or replaces the redacted counterpart of a raw note.
	// The upsert is keyed by note id and applied last-writer-wins, so repeated
	// ingestion of the same note never duplicates rows.
	UpsertRedacted(ctx context.Context, note *RedactedNote) error
	// GetRedacted gets a redacted note by note id. Returns ErrNotFound if not found.
	GetRedacted(ctx context.Context, noteID string) (*RedactedNote, error)
	// ListRedactedByPatient returns all redacted notes for a patient, newest raw note first.
	ListRedactedByPatient(ctx context.Context, patientID string) ([]RedactedNote, error)
}

// NoteRepo provides methods for note operations.
// It implements the NoteStore interface.
type NoteRepo struct {
	db *sql.DB
}

// NewNoteRepo creates a new NoteRepo.
func NewNoteRepo(db *sql.DB) *NoteRepo {
	return &NoteRepo{db: db}
}

// InsertRaw persists the immutable original note.
func (r *NoteRepo) InsertRaw(ctx context.Context, note *RawNote) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO notes_raw (id, patient_id, encounter_id, raw_text, note_type, author, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`,
		note.ID, note.PatientID, nullable(note.EncounterID), note.RawText, note.NoteType, note.Author,
	)
	if err != nil {
		return fmt.Errorf("failed to insert raw note: %w", err)
	}
	return nil
}

// ListRawByPatient returns all raw notes for a patient, newest first.
func (r *NoteRepo) ListRawByPatient(ctx context.Context, patientID string) ([]RawNote, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, patient_id, encounter_id, raw_text, note_type, author, created_at
		 FROM notes_raw WHERE patient_id = ? ORDER BY created_at DESC`,
		patientID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query raw notes: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var notes []RawNote
	for rows.Next() {
		var n RawNote
		var encounterID, noteType, author sql.NullString
		if err := rows.Scan(&n.ID, &n.PatientID, &encounterID, &n.RawText, &noteType, &author, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan raw note: %w", err)
		}
		n.EncounterID = encounterID.String
		n.NoteType = noteType.String
		n.Author = author.String
		notes = append(notes, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return notes, nil
}

// UpsertRedacted inserts or replaces the redacted counterpart of a raw note.
func (r *NoteRepo) UpsertRedacted(ctx context.Context, note *RedactedNote) error {
	entities := note.Entities
	if entities == nil {
		entities = []PHIEntity{}
	}
	entitiesJSON, err := json.Marshal(entities)
	if err != nil {
		return fmt.Errorf("failed to marshal phi entities: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO notes_phi (note_id, patient_id, encounter_id, redacted_text, phi_entities, embedded, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (note_id) DO UPDATE SET
		 redacted_text = excluded.redacted_text,
		 phi_entities = excluded.phi_entities,
		 embedded = excluded.embedded,
		 updated_at = CURRENT_TIMESTAMP`,
		note.NoteID, note.PatientID, nullable(note.EncounterID), note.RedactedText, string(entitiesJSON), note.Embedded,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert redacted note: %w", err)
	}
	return nil
}

// GetRedacted gets a redacted note by note id. Returns ErrNotFound if not found.
func (r *NoteRepo) GetRedacted(ctx context.Context, noteID string) (*RedactedNote, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT p.note_id, p.patient_id, p.encounter_id, p.redacted_text, p.phi_entities, p.embedded, r.created_at, p.updated_at
		 FROM notes_phi p
		 JOIN notes_raw r ON r.id = p.note_id
		 WHERE p.note_id = ?`,
		noteID,
	)
	note, err := scanRedacted(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query redacted note: %w", err)
	}
	return note, nil
}

// ListRedactedByPatient returns all redacted notes for a patient.
func (r *NoteRepo) ListRedactedByPatient(ctx context.Context, patientID string) ([]RedactedNote, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT p.note_id, p.patient_id, p.encounter_id, p.redacted_text, p.phi_entities, p.embedded, r.created_at, p.updated_at
		 FROM notes_phi p
		 JOIN notes_raw r ON r.id = p.note_id
		 WHERE p.patient_id = ? ORDER BY r.created_at DESC`,
		patientID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query redacted notes: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var notes []RedactedNote
	for rows.Next() {
		note, err := scanRedacted(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan redacted note: %w", err)
		}
		notes = append(notes, *note)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return notes, nil
}

// scanRedacted scans a notes_phi row using the given scan function.
func scanRedacted(scan func(dest ...any) error) (*RedactedNote, error) {
	var n RedactedNote
	var encounterID sql.NullString
	var entitiesJSON string

	if err := scan(&n.NoteID, &n.PatientID, &encounterID, &n.RedactedText, &entitiesJSON, &n.Embedded, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return nil, err
	}

	n.EncounterID = encounterID.String
	if err := json.Unmarshal([]byte(entitiesJSON), &n.Entities); err != nil {
		return nil, fmt.Errorf("failed to unmarshal phi entities: %w", err)
	}
	return &n, nil
}

// nullable converts an empty string to a SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
