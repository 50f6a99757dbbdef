package dto

import (
	"time"

	"clinic-portal/pkg/patch"
)

// Request DTOs

// CreateAppointmentRequest accepts datetime as RFC3339 and end_date as
// RFC3339 or YYYY-MM-DD.
type CreateAppointmentRequest struct {
	Provider       string  `json:"provider" validate:"required,max=255"`
	Datetime       string  `json:"datetime" validate:"required"`
	RepeatSchedule string  `json:"repeat_schedule" validate:"omitempty,repeat_schedule"`
	EndDate        *string `json:"end_date"`
}

// UpdateAppointmentRequest only touches the fields present in the body.
// A null end_date clears it.
type UpdateAppointmentRequest struct {
	Provider       patch.Field[string] `json:"provider"`
	Datetime       patch.Field[string] `json:"datetime"`
	RepeatSchedule patch.Field[string] `json:"repeat_schedule"`
	EndDate        patch.Field[string] `json:"end_date"`
}

// Response DTOs

type AppointmentResponse struct {
	ID             int64      `json:"id"`
	UserID         int64      `json:"user_id"`
	Provider       string     `json:"provider"`
	Datetime       time.Time  `json:"datetime"`
	RepeatSchedule string     `json:"repeat_schedule"`
	EndDate        *time.Time `json:"end_date,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
	Window       *WindowResponse       `json:"window,omitempty"`
}

// WindowResponse echoes the closed range an upcoming list was selected from.
type WindowResponse struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}
