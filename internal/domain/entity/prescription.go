package entity

import "time"

// Prescription keeps Medication and Dosage as copies of the reference
// values at write time, not as foreign keys.
type Prescription struct {
	ID             int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         int64          `gorm:"not null;index" json:"user_id"`
	Medication     string         `gorm:"type:varchar(255);not null" json:"medication"`
	Dosage         string         `gorm:"type:varchar(50);not null" json:"dosage"`
	Quantity       int            `gorm:"not null" json:"quantity"`
	RefillOn       time.Time      `gorm:"type:timestamptz;not null;index" json:"refill_on"`
	RefillSchedule RefillSchedule `gorm:"type:varchar(20);not null" json:"refill_schedule"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Prescription) TableName() string {
	return "prescriptions"
}
