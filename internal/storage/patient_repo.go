package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_patient_store.go -package=mocks patient360/internal/storage PatientStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

// PatientStore defines the interface for patient storage operations.
type PatientStore interface {
	// GetByID gets a patient by id. Returns ErrNotFound if not found.
	GetByID(ctx context.Context, id string) (*Patient, error)
	// ListAll returns all patients ordered by display name.
	ListAll(ctx context.Context) ([]Patient, error)
}

// PatientRepo provides methods for patient operations.
// It implements the PatientStore interface.
type PatientRepo struct {
	db *sql.DB
}

// NewPatientRepo creates a new PatientRepo.
func NewPatientRepo(db *sql.DB) *PatientRepo {
	return &PatientRepo{db: db}
}

// GetByID gets a patient by id. Returns ErrNotFound if not found.
func (r *PatientRepo) GetByID(ctx context.Context, id string) (*Patient, error) {
	var p Patient
	var birthDate, sex sql.NullString

	err := r.db.QueryRowContext(ctx,
		"SELECT id, display_name, birth_date, sex, created_at FROM patients WHERE id = ?",
		id,
	).Scan(&p.ID, &p.DisplayName, &birthDate, &sex, &p.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query patient: %w", err)
	}

	p.BirthDate = birthDate.String
	p.Sex = sex.String
	return &p, nil
}

// ListAll returns all patients ordered by display name.
func (r *PatientRepo) ListAll(ctx context.Context) ([]Patient, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, display_name, birth_date, sex, created_at FROM patients ORDER BY display_name",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query patients: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var patients []Patient
	for rows.Next() {
		var p Patient
		var birthDate, sex sql.NullString
		if err := rows.Scan(&p.ID, &p.DisplayName, &birthDate, &sex, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan patient: %w", err)
		}
		p.BirthDate = birthDate.String
		p.Sex = sex.String
		patients = append(patients, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return patients, nil
}
