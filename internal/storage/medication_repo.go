package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_medication_store.go -package=mocks patient360/internal/storage MedicationStore

import (
	"context"
	"database/sql"
	"fmt"
)

// MedicationStore defines the interface for medication storage operations.
type MedicationStore interface {
	// ListByPatient returns all medications for a patient, newest start date first.
	ListByPatient(ctx context.Context, patientID string) ([]Medication, error)
}

// MedicationRepo provides methods for medication operations.
// It implements the MedicationStore interface.
type MedicationRepo struct {
	db *sql.DB
}

// NewMedicationRepo creates a new MedicationRepo.
func NewMedicationRepo(db *sql.DB) *MedicationRepo {
	return &MedicationRepo{db: db}
}

// ListByPatient returns all medications for a patient, newest start date first.
func (r *MedicationRepo) ListByPatient(ctx context.Context, patientID string) ([]Medication, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, patient_id, encounter_id, name, dose, frequency, route, status,
		        start_date, end_date, prescriber, reason
		 FROM medications WHERE patient_id = ? ORDER BY start_date DESC`,
		patientID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query medications: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var medications []Medication
	for rows.Next() {
		var m Medication
		var encounterID, dose, frequency, route, prescriber, reason sql.NullString
		var startDate, endDate sql.NullTime
		if err := rows.Scan(&m.ID, &m.PatientID, &encounterID, &m.Name, &dose, &frequency, &route, &m.Status,
			&startDate, &endDate, &prescriber, &reason); err != nil {
			return nil, fmt.Errorf("failed to scan medication: %w", err)
		}
		m.EncounterID = encounterID.String
		m.Dose = dose.String
		m.Frequency = frequency.String
		m.Route = route.String
		m.Prescriber = prescriber.String
		m.Reason = reason.String
		m.StartDate = startDate.Time
		if endDate.Valid {
			t := endDate.Time
			m.EndDate = &t
		}
		medications = append(medications, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return medications, nil
}
