package entity

import "time"

// Appointment is a visit with a named provider at an absolute instant.
// EndDate is descriptive only and is not checked against Datetime.
type Appointment struct {
	ID             int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         int64          `gorm:"not null;index" json:"user_id"`
	Provider       string         `gorm:"type:varchar(255);not null" json:"provider"`
	Datetime       time.Time      `gorm:"type:timestamptz;not null;index" json:"datetime"`
	RepeatSchedule RepeatSchedule `gorm:"type:varchar(20);not null;default:'none'" json:"repeat_schedule"`
	EndDate        *time.Time     `gorm:"type:timestamptz" json:"end_date,omitempty"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Appointment) TableName() string {
	return "appointments"
}
