package storage

import (
	"context"
	"testing"
)

func TestPatientRepo_GetByID(t *testing.T) {
	db := newTestDB(t)
	seedPatient(t, db, "p1", "Jane Doe")

	repo := NewPatientRepo(db)

	patient, err := repo.GetByID(context.Background(), "p1")
	if err != nil {
		t.Fatalf("GetByID() unexpected error: %v", err)
	}
	if patient.DisplayName != "Jane Doe" {
		t.Errorf("DisplayName = %q, want Jane Doe", patient.DisplayName)
	}
}

func TestPatientRepo_GetByIDNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewPatientRepo(db)

	_, err := repo.GetByID(context.Background(), "missing")
	if err != ErrNotFound {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestPatientRepo_ListAll(t *testing.T) {
	db := newTestDB(t)
	seedPatient(t, db, "p1", "Zoe Adams")
	seedPatient(t, db, "p2", "Amy Brown")

	repo := NewPatientRepo(db)

	patients, err := repo.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll() unexpected error: %v", err)
	}
	if len(patients) != 2 {
		t.Fatalf("got %d patients, want 2", len(patients))
	}
	// Ordered by display name.
	if patients[0].DisplayName != "Amy Brown" || patients[1].DisplayName != "Zoe Adams" {
		t.Errorf("patients not ordered by display name: %s, %s", patients[0].DisplayName, patients[1].DisplayName)
	}
}

func TestEncounterRepo_GetForPatient(t *testing.T) {
	db := newTestDB(t)
	seedPatient(t, db, "p1", "Jane Doe")
	seedPatient(t, db, "p2", "John Roe")

	if _, err := db.Exec(
		`INSERT INTO encounters (id, patient_id, encounter_type, reason) VALUES (?, ?, ?, ?)`,
		"e1", "p1", "outpatient", "follow-up",
	); err != nil {
		t.Fatalf("failed to seed encounter: %v", err)
	}

	repo := NewEncounterRepo(db)
	ctx := context.Background()

	enc, err := repo.GetForPatient(ctx, "e1", "p1")
	if err != nil {
		t.Fatalf("GetForPatient() unexpected error: %v", err)
	}
	if enc.EncounterType != "outpatient" || enc.Reason != "follow-up" {
		t.Errorf("encounter not round-tripped: %+v", enc)
	}

	// The same encounter id scoped to another patient must not resolve.
	if _, err := repo.GetForPatient(ctx, "e1", "p2"); err != ErrNotFound {
		t.Errorf("GetForPatient() with wrong patient = %v, want ErrNotFound", err)
	}
}

func TestObservationRepo_ListByPatient(t *testing.T) {
	db := newTestDB(t)
	seedPatient(t, db, "p1", "Jane Doe")

	if _, err := db.Exec(
		`INSERT INTO observations (id, patient_id, code, display, value_num, unit, observed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		"o1", "p1", "2823-3", "Potassium", 3.1, "mmol/L", "2025-03-11 08:00:00",
	); err != nil {
		t.Fatalf("failed to seed observation: %v", err)
	}

	repo := NewObservationRepo(db)

	observations, err := repo.ListByPatient(context.Background(), "p1")
	if err != nil {
		t.Fatalf("ListByPatient() unexpected error: %v", err)
	}
	if len(observations) != 1 {
		t.Fatalf("got %d observations, want 1", len(observations))
	}
	obs := observations[0]
	if obs.Display != "Potassium" || obs.Unit != "mmol/L" {
		t.Errorf("observation not round-tripped: %+v", obs)
	}
	if obs.ValueNum == nil || *obs.ValueNum != 3.1 {
		t.Errorf("numeric value not round-tripped: %v", obs.ValueNum)
	}
}

func TestMedicationRepo_ListByPatient(t *testing.T) {
	db := newTestDB(t)
	seedPatient(t, db, "p1", "Jane Doe")

	if _, err := db.Exec(
		`INSERT INTO medications (id, patient_id, name, dose, frequency, status, start_date, reason)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		"m1", "p1", "Lisinopril", "10mg", "daily", "active", "2025-03-01 00:00:00", "hypertension",
	); err != nil {
		t.Fatalf("failed to seed medication: %v", err)
	}

	repo := NewMedicationRepo(db)

	medications, err := repo.ListByPatient(context.Background(), "p1")
	if err != nil {
		t.Fatalf("ListByPatient() unexpected error: %v", err)
	}
	if len(medications) != 1 {
		t.Fatalf("got %d medications, want 1", len(medications))
	}
	med := medications[0]
	if med.Name != "Lisinopril" || med.Dose != "10mg" || med.Status != "active" {
		t.Errorf("medication not round-tripped: %+v", med)
	}
	if med.EndDate != nil {
		t.Errorf("EndDate = %v, want nil for an open-ended medication", med.EndDate)
	}
}
