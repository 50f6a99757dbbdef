package repository

import (
	"context"

	"clinic-portal/internal/domain/entity"
	domainRepo "clinic-portal/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type referenceRepository struct{}

func NewReferenceRepository() domainRepo.ReferenceRepository {
	return &referenceRepository{}
}

func (r *referenceRepository) FindAllMedications(ctx context.Context, db *gorm.DB) ([]entity.Medication, error) {
	var medications []entity.Medication
	err := db.WithContext(ctx).Order("name ASC").Find(&medications).Error
	if err != nil {
		return nil, err
	}
	return medications, nil
}

func (r *referenceRepository) FindAllDosages(ctx context.Context, db *gorm.DB) ([]entity.Dosage, error) {
	var dosages []entity.Dosage
	err := db.WithContext(ctx).Order("value ASC").Find(&dosages).Error
	if err != nil {
		return nil, err
	}
	return dosages, nil
}

// SaveMedications inserts the given names, skipping ones that already exist.
func (r *referenceRepository) SaveMedications(ctx context.Context, db *gorm.DB, medications []entity.Medication) error {
	if len(medications) == 0 {
		return nil
	}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&medications).Error
}

func (r *referenceRepository) SaveDosages(ctx context.Context, db *gorm.DB, dosages []entity.Dosage) error {
	if len(dosages) == 0 {
		return nil
	}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "value"}}, DoNothing: true}).
		Create(&dosages).Error
}
