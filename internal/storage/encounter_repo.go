package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_encounter_store.go -package=mocks patient360/internal/storage EncounterStore

import (
	"context"
	"database/sql"
	"fmt"
)

// EncounterStore defines the interface for encounter storage operations.
type EncounterStore interface {
	// GetForPatient gets an encounter by id, scoped to a patient.
	// Returns ErrNotFound when the encounter does not exist or belongs to another patient.
	GetForPatient(ctx context.Context, encounterID, patientID string) (*Encounter, error)
}

// EncounterRepo provides methods for encounter operations.
// It implements the EncounterStore interface.
type EncounterRepo struct {
	db *sql.DB
}

// NewEncounterRepo creates a new EncounterRepo.
func NewEncounterRepo(db *sql.DB) *EncounterRepo {
	return &EncounterRepo{db: db}
}

// GetForPatient gets an encounter by id, scoped to a patient.
func (r *EncounterRepo) GetForPatient(ctx context.Context, encounterID, patientID string) (*Encounter, error) {
	var e Encounter
	var encType, reason sql.NullString
	var startedAt, endedAt sql.NullTime

	err := r.db.QueryRowContext(ctx,
		"SELECT id, patient_id, encounter_type, reason, started_at, ended_at FROM encounters WHERE id = ? AND patient_id = ?",
		encounterID, patientID,
	).Scan(&e.ID, &e.PatientID, &encType, &reason, &startedAt, &endedAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query encounter: %w", err)
	}

	e.EncounterType = encType.String
	e.Reason = reason.String
	e.StartedAt = startedAt.Time
	e.EndedAt = endedAt.Time
	return &e, nil
}
