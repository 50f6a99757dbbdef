package dto

import (
	"time"

	"clinic-portal/pkg/patch"
)

// Request DTOs

type CreatePatientRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8"`
}

// UpdatePatientRequest only touches the fields present in the body.
type UpdatePatientRequest struct {
	Name  patch.Field[string] `json:"name"`
	Email patch.Field[string] `json:"email"`
}

// Response DTOs

type PatientSummaryResponse struct {
	ID                   int64     `json:"id"`
	Name                 string    `json:"name"`
	Email                string    `json:"email"`
	UpcomingAppointments int64     `json:"upcoming_appointments"`
	Prescriptions        int64     `json:"prescriptions"`
	CreatedAt            time.Time `json:"created_at"`
}

type PatientListResponse struct {
	Patients []PatientSummaryResponse `json:"patients"`
	Total    int                      `json:"total"`
}

type PatientDetailResponse struct {
	UserResponse
	Appointments  []AppointmentResponse  `json:"appointments"`
	Prescriptions []PrescriptionResponse `json:"prescriptions"`
}
