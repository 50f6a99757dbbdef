package dto

import (
	"time"

	"clinic-portal/pkg/patch"
)

// Request DTOs

type CreatePrescriptionRequest struct {
	Medication     string `json:"medication" validate:"required,max=255"`
	Dosage         string `json:"dosage" validate:"required,max=50"`
	Quantity       int    `json:"quantity" validate:"gt=0"`
	RefillOn       string `json:"refill_on" validate:"required"` // Format: YYYY-MM-DD or RFC3339
	RefillSchedule string `json:"refill_schedule" validate:"required,refill_schedule"`
}

type UpdatePrescriptionRequest struct {
	Medication     patch.Field[string] `json:"medication"`
	Dosage         patch.Field[string] `json:"dosage"`
	Quantity       patch.Field[int]    `json:"quantity"`
	RefillOn       patch.Field[string] `json:"refill_on"`
	RefillSchedule patch.Field[string] `json:"refill_schedule"`
}

// Response DTOs

type PrescriptionResponse struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	Medication     string    `json:"medication"`
	Dosage         string    `json:"dosage"`
	Quantity       int       `json:"quantity"`
	RefillOn       time.Time `json:"refill_on"`
	RefillSchedule string    `json:"refill_schedule"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type PrescriptionListResponse struct {
	Prescriptions []PrescriptionResponse `json:"prescriptions"`
	Total         int                    `json:"total"`
	Window        *WindowResponse        `json:"window,omitempty"`
}
