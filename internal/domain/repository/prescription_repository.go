package repository

import (
	"context"
	"time"

	"clinic-portal/internal/domain/entity"

	"gorm.io/gorm"
)

type PrescriptionRepository interface {
	Create(ctx context.Context, db *gorm.DB, prescription *entity.Prescription) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.Prescription, error)
	FindByUserID(ctx context.Context, db *gorm.DB, userID int64) ([]entity.Prescription, error)
	FindByUserIDBetween(ctx context.Context, db *gorm.DB, userID int64, from, to time.Time) ([]entity.Prescription, error)
	CountGroupedByUser(ctx context.Context, db *gorm.DB) (map[int64]int64, error)
	Update(ctx context.Context, db *gorm.DB, prescription *entity.Prescription) error
	Delete(ctx context.Context, db *gorm.DB, id int64) (int64, error)
	DeleteByUserID(ctx context.Context, db *gorm.DB, userID int64) error
}
