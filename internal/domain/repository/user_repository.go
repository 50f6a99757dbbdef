package repository

import (
	"context"

	"clinic-portal/internal/domain/entity"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, db *gorm.DB, user *entity.User) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.User, error)
	FindByIDWithRecords(ctx context.Context, db *gorm.DB, id int64) (*entity.User, error)
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*entity.User, error)
	FindAllByRole(ctx context.Context, db *gorm.DB, role string) ([]entity.User, error)
	Update(ctx context.Context, db *gorm.DB, user *entity.User) error
	Delete(ctx context.Context, db *gorm.DB, id int64) (int64, error)
}
