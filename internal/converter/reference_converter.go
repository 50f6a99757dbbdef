package converter

import (
	"clinic-portal/internal/delivery/dto"
	"clinic-portal/internal/domain/entity"
)

func MedicationsToResponses(medications []entity.Medication) []dto.MedicationResponse {
	responses := make([]dto.MedicationResponse, len(medications))
	for i, m := range medications {
		responses[i] = dto.MedicationResponse{ID: m.ID, Name: m.Name}
	}
	return responses
}

func DosagesToResponses(dosages []entity.Dosage) []dto.DosageResponse {
	responses := make([]dto.DosageResponse, len(dosages))
	for i, d := range dosages {
		responses[i] = dto.DosageResponse{ID: d.ID, Value: d.Value}
	}
	return responses
}
