package usecase

import (
	"context"

	"clinic-portal/internal/converter"
	"clinic-portal/internal/delivery/dto"
	"clinic-portal/internal/domain/entity"
	"clinic-portal/internal/domain/repository"
	"clinic-portal/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type ReferenceUsecase interface {
	ListMedications(ctx context.Context) (*dto.MedicationListResponse, error)
	ListDosages(ctx context.Context) (*dto.DosageListResponse, error)
	// WarmCache loads both lists from the store into the cache.
	WarmCache(ctx context.Context) error
}

type referenceUsecase struct {
	db            *gorm.DB
	log           *logrus.Logger
	referenceRepo repository.ReferenceRepository
	cache         *service.ReferenceCache
}

// NewReferenceUsecase reads straight from the store when cache is nil.
func NewReferenceUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	referenceRepo repository.ReferenceRepository,
	cache *service.ReferenceCache,
) ReferenceUsecase {
	return &referenceUsecase{
		db:            db,
		log:           log,
		referenceRepo: referenceRepo,
		cache:         cache,
	}
}

func (u *referenceUsecase) ListMedications(ctx context.Context) (*dto.MedicationListResponse, error) {
	var medications []entity.Medication
	if !u.fromCache(ctx, entity.ReferenceMedications, &medications) {
		var err error
		medications, err = u.referenceRepo.FindAllMedications(ctx, u.db)
		if err != nil {
			u.log.Warnf("Failed to find medications: %+v", err)
			return nil, err
		}
		u.toCache(ctx, entity.ReferenceMedications, medications)
	}

	return &dto.MedicationListResponse{
		Medications: converter.MedicationsToResponses(medications),
		Total:       len(medications),
	}, nil
}

func (u *referenceUsecase) ListDosages(ctx context.Context) (*dto.DosageListResponse, error) {
	var dosages []entity.Dosage
	if !u.fromCache(ctx, entity.ReferenceDosages, &dosages) {
		var err error
		dosages, err = u.referenceRepo.FindAllDosages(ctx, u.db)
		if err != nil {
			u.log.Warnf("Failed to find dosages: %+v", err)
			return nil, err
		}
		u.toCache(ctx, entity.ReferenceDosages, dosages)
	}

	return &dto.DosageListResponse{
		Dosages: converter.DosagesToResponses(dosages),
		Total:   len(dosages),
	}, nil
}

func (u *referenceUsecase) WarmCache(ctx context.Context) error {
	if u.cache == nil {
		return nil
	}

	medications, err := u.referenceRepo.FindAllMedications(ctx, u.db)
	if err != nil {
		return err
	}
	dosages, err := u.referenceRepo.FindAllDosages(ctx, u.db)
	if err != nil {
		return err
	}

	if err := u.cache.Prime(ctx, medications, dosages); err != nil {
		return err
	}
	u.log.Infof("Reference cache warmed: %d medications, %d dosages", len(medications), len(dosages))
	return nil
}

// fromCache treats a cache error as a miss.
func (u *referenceUsecase) fromCache(ctx context.Context, kind entity.ReferenceKind, dest interface{}) bool {
	if u.cache == nil {
		return false
	}
	hit, err := u.cache.Get(ctx, kind, dest)
	if err != nil {
		u.log.Warnf("Failed to read %s from cache: %+v", kind, err)
		return false
	}
	return hit
}

func (u *referenceUsecase) toCache(ctx context.Context, kind entity.ReferenceKind, value interface{}) {
	if u.cache == nil {
		return
	}
	if err := u.cache.Set(ctx, kind, value); err != nil {
		u.log.Warnf("Failed to cache %s: %+v", kind, err)
	}
}
