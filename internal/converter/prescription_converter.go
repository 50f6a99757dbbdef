package converter

import (
	"time"

	"clinic-portal/internal/delivery/dto"
	"clinic-portal/internal/domain/entity"
)

func PrescriptionToResponse(prescription *entity.Prescription) *dto.PrescriptionResponse {
	if prescription == nil {
		return nil
	}

	return &dto.PrescriptionResponse{
		ID:             prescription.ID,
		UserID:         prescription.UserID,
		Medication:     prescription.Medication,
		Dosage:         prescription.Dosage,
		Quantity:       prescription.Quantity,
		RefillOn:       prescription.RefillOn.UTC(),
		RefillSchedule: string(prescription.RefillSchedule),
		CreatedAt:      prescription.CreatedAt,
		UpdatedAt:      prescription.UpdatedAt,
	}
}

func PrescriptionsToResponses(prescriptions []entity.Prescription) []dto.PrescriptionResponse {
	responses := make([]dto.PrescriptionResponse, len(prescriptions))
	for i := range prescriptions {
		responses[i] = *PrescriptionToResponse(&prescriptions[i])
	}
	return responses
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
