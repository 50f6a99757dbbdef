package repository

import (
	"context"
	"time"

	"clinic-portal/internal/domain/entity"

	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.Appointment, error)
	FindByUserID(ctx context.Context, db *gorm.DB, userID int64) ([]entity.Appointment, error)
	FindByUserIDBetween(ctx context.Context, db *gorm.DB, userID int64, from, to time.Time) ([]entity.Appointment, error)
	CountBetweenGroupedByUser(ctx context.Context, db *gorm.DB, from, to time.Time) (map[int64]int64, error)
	Update(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error
	Delete(ctx context.Context, db *gorm.DB, id int64) (int64, error)
	DeleteByUserID(ctx context.Context, db *gorm.DB, userID int64) error
}
