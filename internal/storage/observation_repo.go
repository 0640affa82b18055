package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_observation_store.go -package=mocks patient360/internal/storage ObservationStore

import (
	"context"
	"database/sql"
	"fmt"
)

// ObservationStore defines the interface for observation storage operations.
type ObservationStore interface {
	// ListByPatient returns all observations for a patient, newest first.
	ListByPatient(ctx context.Context, patientID string) ([]Observation, error)
}

// ObservationRepo provides methods for observation operations.
// It implements the ObservationStore interface.
type ObservationRepo struct {
	db *sql.DB
}

// NewObservationRepo creates a new ObservationRepo.
func NewObservationRepo(db *sql.DB) *ObservationRepo {
	return &ObservationRepo{db: db}
}

// ListByPatient returns all observations for a patient, newest first.
func (r *ObservationRepo) ListByPatient(ctx context.Context, patientID string) ([]Observation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, patient_id, encounter_id, code, display, value_num, value_text, unit, observed_at
		 FROM observations WHERE patient_id = ? ORDER BY observed_at DESC`,
		patientID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query observations: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var observations []Observation
	for rows.Next() {
		var o Observation
		var encounterID, valueText, unit sql.NullString
		var valueNum sql.NullFloat64
		if err := rows.Scan(&o.ID, &o.PatientID, &encounterID, &o.Code, &o.Display, &valueNum, &valueText, &unit, &o.ObservedAt); err != nil {
			return nil, fmt.Errorf("failed to scan observation: %w", err)
		}
		o.EncounterID = encounterID.String
		o.ValueText = valueText.String
		o.Unit = unit.String
		if valueNum.Valid {
			v := valueNum.Float64
			o.ValueNum = &v
		}
		observations = append(observations, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return observations, nil
}
