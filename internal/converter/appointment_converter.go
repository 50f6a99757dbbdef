package converter

import (
	"clinic-portal/internal/delivery/dto"
	"clinic-portal/internal/domain/entity"
)

func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	return &dto.AppointmentResponse{
		ID:             appointment.ID,
		UserID:         appointment.UserID,
		Provider:       appointment.Provider,
		Datetime:       appointment.Datetime.UTC(),
		RepeatSchedule: string(appointment.RepeatSchedule),
		EndDate:        utcPtr(appointment.EndDate),
		CreatedAt:      appointment.CreatedAt,
		UpdatedAt:      appointment.UpdatedAt,
	}
}

func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}

// WindowToResponse returns nil for a zero window so plain lists omit it.
func WindowToResponse(window entity.UpcomingWindow) *dto.WindowResponse {
	if window.From.IsZero() && window.To.IsZero() {
		return nil
	}
	return &dto.WindowResponse{From: window.From, To: window.To}
}
