package repository

import (
	"context"
	"errors"
	"time"

	"clinic-portal/internal/domain/entity"
	domainRepo "clinic-portal/internal/domain/repository"

	"gorm.io/gorm"
)

type prescriptionRepository struct{}

func NewPrescriptionRepository() domainRepo.PrescriptionRepository {
	return &prescriptionRepository{}
}

func (r *prescriptionRepository) Create(ctx context.Context, db *gorm.DB, prescription *entity.Prescription) error {
	return db.WithContext(ctx).Create(prescription).Error
}

func (r *prescriptionRepository) FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.Prescription, error) {
	var prescription entity.Prescription
	err := db.WithContext(ctx).Where("id = ?", id).First(&prescription).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &prescription, nil
}

func (r *prescriptionRepository) FindByUserID(ctx context.Context, db *gorm.DB, userID int64) ([]entity.Prescription, error) {
	var prescriptions []entity.Prescription
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("refill_on ASC, id ASC").
		Find(&prescriptions).Error
	if err != nil {
		return nil, err
	}
	return prescriptions, nil
}

// FindByUserIDBetween returns the user's prescriptions whose refill date is
// in the closed range [from, to].
func (r *prescriptionRepository) FindByUserIDBetween(ctx context.Context, db *gorm.DB, userID int64, from, to time.Time) ([]entity.Prescription, error) {
	var prescriptions []entity.Prescription
	err := db.WithContext(ctx).
		Where("user_id = ? AND refill_on >= ? AND refill_on <= ?", userID, from, to).
		Order("refill_on ASC, id ASC").
		Find(&prescriptions).Error
	if err != nil {
		return nil, err
	}
	return prescriptions, nil
}

func (r *prescriptionRepository) CountGroupedByUser(ctx context.Context, db *gorm.DB) (map[int64]int64, error) {
	var rows []userCount
	err := db.WithContext(ctx).
		Model(&entity.Prescription{}).
		Select("user_id, COUNT(*) AS total").
		Group("user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[int64]int64, len(rows))
	for _, row := range rows {
		counts[row.UserID] = row.Total
	}
	return counts, nil
}

func (r *prescriptionRepository) Update(ctx context.Context, db *gorm.DB, prescription *entity.Prescription) error {
	return db.WithContext(ctx).Save(prescription).Error
}

func (r *prescriptionRepository) Delete(ctx context.Context, db *gorm.DB, id int64) (int64, error) {
	result := db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Prescription{})
	return result.RowsAffected, result.Error
}

func (r *prescriptionRepository) DeleteByUserID(ctx context.Context, db *gorm.DB, userID int64) error {
	return db.WithContext(ctx).Where("user_id = ?", userID).Delete(&entity.Prescription{}).Error
}
