package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"patient360/internal/service"
	"patient360/internal/storage"
)

// PatientsHandler handles HTTP requests for patient lookups.
type PatientsHandler struct {
	patientRepo storage.PatientStore
}

// NewPatientsHandler creates a new PatientsHandler.
func NewPatientsHandler(patientRepo storage.PatientStore) *PatientsHandler {
	return &PatientsHandler{patientRepo: patientRepo}
}

// PatientResponse represents a patient in HTTP responses.
type PatientResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	BirthDate   string `json:"birth_date,omitempty"`
	Sex         string `json:"sex,omitempty"`
}

// List returns all patients.
func (h *PatientsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	patients, err := h.patientRepo.ListAll(ctx)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to list patients")
		return
	}

	resp := make([]PatientResponse, 0, len(patients))
	for _, p := range patients {
		resp = append(resp, PatientResponse{
			ID:          p.ID,
			DisplayName: p.DisplayName,
			BirthDate:   p.BirthDate,
			Sex:         p.Sex,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get returns a single patient by id.
func (h *PatientsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	patientID := chi.URLParam(r, "patientID")

	patient, err := h.patientRepo.GetByID(ctx, patientID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			handleServiceError(w, ctx, service.WrapError(service.ErrNotFound, "patient "+patientID), "Failed to load patient")
			return
		}
		handleServiceError(w, ctx, err, "Failed to load patient")
		return
	}

	writeJSON(w, http.StatusOK, PatientResponse{
		ID:          patient.ID,
		DisplayName: patient.DisplayName,
		BirthDate:   patient.BirthDate,
		Sex:         patient.Sex,
	})
}
