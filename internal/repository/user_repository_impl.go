package repository

import (
	"context"
	"errors"

	"clinic-portal/internal/domain/entity"
	domainRepo "clinic-portal/internal/domain/repository"

	"gorm.io/gorm"
)

type userRepository struct{}

func NewUserRepository() domainRepo.UserRepository {
	return &userRepository{}
}

func (r *userRepository) Create(ctx context.Context, db *gorm.DB, user *entity.User) error {
	return db.WithContext(ctx).Omit("Appointments", "Prescriptions").Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.User, error) {
	var user entity.User
	err := db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// FindByIDWithRecords loads the user with every appointment and prescription,
// each list ascending by its date field.
func (r *userRepository) FindByIDWithRecords(ctx context.Context, db *gorm.DB, id int64) (*entity.User, error) {
	var user entity.User
	err := db.WithContext(ctx).
		Preload("Appointments", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("datetime ASC, id ASC")
		}).
		Preload("Prescriptions", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("refill_on ASC, id ASC")
		}).
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*entity.User, error) {
	var user entity.User
	err := db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindAllByRole(ctx context.Context, db *gorm.DB, role string) ([]entity.User, error) {
	var users []entity.User
	err := db.WithContext(ctx).Where("role = ?", role).Order("name ASC, id ASC").Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) Update(ctx context.Context, db *gorm.DB, user *entity.User) error {
	return db.WithContext(ctx).Omit("Appointments", "Prescriptions").Save(user).Error
}

func (r *userRepository) Delete(ctx context.Context, db *gorm.DB, id int64) (int64, error) {
	result := db.WithContext(ctx).Where("id = ?", id).Delete(&entity.User{})
	return result.RowsAffected, result.Error
}
