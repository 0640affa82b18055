package storage

import "time"

// Patient represents a patient record in the database.
type Patient struct {
	ID          string
	DisplayName string
	BirthDate   string
	Sex         string
	CreatedAt   time.Time
}

// Encounter represents a time-bounded clinical visit for a patient.
type Encounter struct {
	ID            string
	PatientID     string
	EncounterType string
	Reason        string
	StartedAt     time.Time
	EndedAt       time.Time
}

// Observation represents a coded measurement (lab result or vital sign).
// Observations are append-only; rows are never updated after creation.
type Observation struct {
	ID          string
	PatientID   string
	EncounterID string // Empty when not tied to an encounter
	Code        string
	Display     string
	ValueNum    *float64 // Numeric value, nil when textual
	ValueText   string   // Textual value, empty when numeric
	Unit        string
	ObservedAt  time.Time
}

// Medication represents a medication record for a patient.
type Medication struct {
	ID          string
	PatientID   string
	EncounterID string
	Name        string
	Dose        string
	Frequency   string
	Route       string
	Status      string // One of: active, completed, stopped, on-hold
	StartDate   time.Time
	EndDate     *time.Time
	Prescriber  string
	Reason      string
}

// RawNote represents the immutable original note text containing PHI.
// Raw text is never exposed to the embedding or reranking capabilities.
type RawNote struct {
	ID          string // UUID
	PatientID   string
	EncounterID string
	RawText     string
	NoteType    string
	Author      string
	CreatedAt   time.Time
}

// PHIEntity is a sensitive text span detected by the de-identification capability.
type PHIEntity struct {
	Text        string  `json:"text"`
	Category    string  `json:"category"`
	Subcategory string  `json:"subcategory,omitempty"`
	Confidence  float64 `json:"confidence"`
}

// RedactedNote is the de-identified counterpart of a RawNote (same id).
// Created and updated only by the ingestion pipeline.
type RedactedNote struct {
	NoteID       string
	PatientID    string
	EncounterID  string
	RedactedText string
	Entities     []PHIEntity
	Embedded     bool // True when a vector exists in the vector index for this note
	CreatedAt    time.Time // Creation time of the underlying raw note
	UpdatedAt    time.Time
}
