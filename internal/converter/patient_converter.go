package converter

import (
	"clinic-portal/internal/delivery/dto"
	"clinic-portal/internal/domain/entity"
)

// PatientToDetailResponse includes whatever appointments and prescriptions
// were preloaded on the user.
func PatientToDetailResponse(user *entity.User) *dto.PatientDetailResponse {
	if user == nil {
		return nil
	}

	return &dto.PatientDetailResponse{
		UserResponse:  *UserToResponse(user),
		Appointments:  AppointmentsToResponses(user.Appointments),
		Prescriptions: PrescriptionsToResponses(user.Prescriptions),
	}
}

// PatientsToSummaries joins each patient with its counts. Missing keys count as zero.
func PatientsToSummaries(users []entity.User, upcoming, prescriptions map[int64]int64) []dto.PatientSummaryResponse {
	responses := make([]dto.PatientSummaryResponse, len(users))
	for i, user := range users {
		responses[i] = dto.PatientSummaryResponse{
			ID:                   user.ID,
			Name:                 user.Name,
			Email:                user.Email,
			UpcomingAppointments: upcoming[user.ID],
			Prescriptions:        prescriptions[user.ID],
			CreatedAt:            user.CreatedAt,
		}
	}
	return responses
}
