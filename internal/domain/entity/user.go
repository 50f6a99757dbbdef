package entity

import (
	"time"
)

// User is both a login identity and, for the patient role, the owner of
// appointments and prescriptions.
type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string    `gorm:"type:varchar(255);not null;index" json:"name"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;type:text;not null" json:"-"`
	Role         string    `gorm:"type:varchar(20);not null;default:'patient';index" json:"role"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Appointments  []Appointment  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"appointments,omitempty"`
	Prescriptions []Prescription `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"prescriptions,omitempty"`
}

func (User) TableName() string {
	return "users"
}
