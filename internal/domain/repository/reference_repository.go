package repository

import (
	"context"

	"clinic-portal/internal/domain/entity"

	"gorm.io/gorm"
)

type ReferenceRepository interface {
	FindAllMedications(ctx context.Context, db *gorm.DB) ([]entity.Medication, error)
	FindAllDosages(ctx context.Context, db *gorm.DB) ([]entity.Dosage, error)
	SaveMedications(ctx context.Context, db *gorm.DB, medications []entity.Medication) error
	SaveDosages(ctx context.Context, db *gorm.DB, dosages []entity.Dosage) error
}
