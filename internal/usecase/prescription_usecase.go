package usecase

import (
	"context"
	"errors"
	"time"

	"clinic-portal/internal/converter"
	"clinic-portal/internal/delivery/dto"
	"clinic-portal/internal/delivery/http/middleware"
	"clinic-portal/internal/domain/entity"
	"clinic-portal/internal/domain/repository"
	"clinic-portal/internal/service"
	"clinic-portal/pkg/validator"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type PrescriptionUsecase interface {
	ListRefills(ctx context.Context, userID int64) (*dto.PrescriptionListResponse, error)
	ListByUser(ctx context.Context, userID int64) (*dto.PrescriptionListResponse, error)
	ListByPatient(ctx context.Context, patientID int64) (*dto.PrescriptionListResponse, error)
	GetPrescription(ctx context.Context, id int64) (*dto.PrescriptionResponse, error)
	CreatePrescription(ctx context.Context, patientID int64, req *dto.CreatePrescriptionRequest) (*dto.PrescriptionResponse, error)
	UpdatePrescription(ctx context.Context, id int64, req *dto.UpdatePrescriptionRequest) (*dto.PrescriptionResponse, error)
	DeletePrescription(ctx context.Context, id int64) error
}

type prescriptionUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	validator        *validator.CustomValidator
	clock            Clock
	horizon          time.Duration
	userRepo         repository.UserRepository
	prescriptionRepo repository.PrescriptionRepository
	auditService     service.AuditService
}

func NewPrescriptionUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	validator *validator.CustomValidator,
	clock Clock,
	horizon time.Duration,
	userRepo repository.UserRepository,
	prescriptionRepo repository.PrescriptionRepository,
	auditService service.AuditService,
) PrescriptionUsecase {
	if clock == nil {
		clock = SystemClock
	}
	return &prescriptionUsecase{
		db:               db,
		log:              log,
		validator:        validator,
		clock:            clock,
		horizon:          horizon,
		userRepo:         userRepo,
		prescriptionRepo: prescriptionRepo,
		auditService:     auditService,
	}
}

// ListRefills returns prescriptions whose refill date falls inside
// [now, now+horizon], earliest first.
func (u *prescriptionUsecase) ListRefills(ctx context.Context, userID int64) (*dto.PrescriptionListResponse, error) {
	window := entity.NewUpcomingWindow(u.clock(), u.horizon)

	prescriptions, err := u.prescriptionRepo.FindByUserIDBetween(ctx, u.db, userID, window.From, window.To)
	if err != nil {
		u.log.Warnf("Failed to find upcoming refills: %+v", err)
		return nil, err
	}

	return &dto.PrescriptionListResponse{
		Prescriptions: converter.PrescriptionsToResponses(prescriptions),
		Total:         len(prescriptions),
		Window:        converter.WindowToResponse(window),
	}, nil
}

func (u *prescriptionUsecase) ListByUser(ctx context.Context, userID int64) (*dto.PrescriptionListResponse, error) {
	prescriptions, err := u.prescriptionRepo.FindByUserID(ctx, u.db, userID)
	if err != nil {
		u.log.Warnf("Failed to find prescriptions: %+v", err)
		return nil, err
	}

	return &dto.PrescriptionListResponse{
		Prescriptions: converter.PrescriptionsToResponses(prescriptions),
		Total:         len(prescriptions),
	}, nil
}

func (u *prescriptionUsecase) ListByPatient(ctx context.Context, patientID int64) (*dto.PrescriptionListResponse, error) {
	if _, err := findPatient(ctx, u.db, u.userRepo, patientID); err != nil {
		if !errors.Is(err, ErrPatientNotFound) {
			u.log.Warnf("Failed to find patient: %+v", err)
		}
		return nil, err
	}

	return u.ListByUser(ctx, patientID)
}

func (u *prescriptionUsecase) GetPrescription(ctx context.Context, id int64) (*dto.PrescriptionResponse, error) {
	prescription, err := u.prescriptionRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find prescription: %+v", err)
		return nil, err
	}
	if prescription == nil {
		return nil, ErrPrescriptionNotFound
	}

	return converter.PrescriptionToResponse(prescription), nil
}

func (u *prescriptionUsecase) CreatePrescription(ctx context.Context, patientID int64, req *dto.CreatePrescriptionRequest) (*dto.PrescriptionResponse, error) {
	errs := fieldErrors{}
	if err := u.validator.Validate(req); err != nil {
		errs.merge(u.validator.FormatValidationErrors(err))
	}

	var refillOn time.Time
	if req.RefillOn != "" {
		parsed, err := parseDate(req.RefillOn)
		if err != nil {
			errs.add("refill_on", "refill_on must be an ISO-8601 date")
		}
		refillOn = parsed
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if _, err := findPatient(ctx, tx, u.userRepo, patientID); err != nil {
		if !errors.Is(err, ErrPatientNotFound) {
			u.log.Warnf("Failed to find patient: %+v", err)
		}
		return nil, err
	}

	prescription := &entity.Prescription{
		UserID:         patientID,
		Medication:     req.Medication,
		Dosage:         req.Dosage,
		Quantity:       req.Quantity,
		RefillOn:       refillOn,
		RefillSchedule: entity.RefillSchedule(req.RefillSchedule),
	}

	if err := u.prescriptionRepo.Create(ctx, tx, prescription); err != nil {
		u.log.Warnf("Failed to create prescription: %+v", err)
		return nil, err
	}

	newValue := converter.PrescriptionToResponse(prescription)
	if err := u.auditService.Record(ctx, tx, service.AuditEntry{
		ActorID:  middleware.ActorID(ctx),
		Action:   entity.AuditActionPrescriptionCreate,
		Entity:   "prescription",
		EntityID: prescription.ID,
		After:    newValue,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return newValue, nil
}

func (u *prescriptionUsecase) UpdatePrescription(ctx context.Context, id int64, req *dto.UpdatePrescriptionRequest) (*dto.PrescriptionResponse, error) {
	changes, err := u.validatePatch(req)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	prescription, err := u.prescriptionRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find prescription: %+v", err)
		return nil, err
	}
	if prescription == nil {
		return nil, ErrPrescriptionNotFound
	}

	if changes.empty() {
		return converter.PrescriptionToResponse(prescription), nil
	}

	oldValue := converter.PrescriptionToResponse(prescription)
	changes.apply(prescription)

	if err := u.prescriptionRepo.Update(ctx, tx, prescription); err != nil {
		u.log.Warnf("Failed to update prescription: %+v", err)
		return nil, err
	}

	newValue := converter.PrescriptionToResponse(prescription)
	if err := u.auditService.Record(ctx, tx, service.AuditEntry{
		ActorID:  middleware.ActorID(ctx),
		Action:   entity.AuditActionPrescriptionUpdate,
		Entity:   "prescription",
		EntityID: prescription.ID,
		Before:   oldValue,
		After:    newValue,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return newValue, nil
}

type prescriptionChanges struct {
	medication     *string
	dosage         *string
	quantity       *int
	refillOn       *time.Time
	refillSchedule *entity.RefillSchedule
}

func (c prescriptionChanges) empty() bool {
	return c.medication == nil && c.dosage == nil && c.quantity == nil && c.refillOn == nil && c.refillSchedule == nil
}

func (c prescriptionChanges) apply(p *entity.Prescription) {
	if c.medication != nil {
		p.Medication = *c.medication
	}
	if c.dosage != nil {
		p.Dosage = *c.dosage
	}
	if c.quantity != nil {
		p.Quantity = *c.quantity
	}
	if c.refillOn != nil {
		p.RefillOn = *c.refillOn
	}
	if c.refillSchedule != nil {
		p.RefillSchedule = *c.refillSchedule
	}
}

func (u *prescriptionUsecase) validatePatch(req *dto.UpdatePrescriptionRequest) (prescriptionChanges, error) {
	var changes prescriptionChanges
	errs := fieldErrors{}

	if req.Medication.Set {
		medication, _ := req.Medication.Get()
		if msg := u.validator.ValidateField("medication", medication, "required,max=255"); msg != nil {
			errs.merge(msg)
		} else {
			changes.medication = &medication
		}
	}

	if req.Dosage.Set {
		dosage, _ := req.Dosage.Get()
		if msg := u.validator.ValidateField("dosage", dosage, "required,max=50"); msg != nil {
			errs.merge(msg)
		} else {
			changes.dosage = &dosage
		}
	}

	if req.Quantity.Set {
		quantity, ok := req.Quantity.Get()
		if !ok {
			errs.add("quantity", "quantity is required")
		} else if msg := u.validator.ValidateField("quantity", quantity, "gt=0"); msg != nil {
			errs.merge(msg)
		} else {
			changes.quantity = &quantity
		}
	}

	if req.RefillOn.Set {
		raw, ok := req.RefillOn.Get()
		if !ok || raw == "" {
			errs.add("refill_on", "refill_on is required")
		} else if refillOn, err := parseDate(raw); err != nil {
			errs.add("refill_on", "refill_on must be an ISO-8601 date")
		} else {
			changes.refillOn = &refillOn
		}
	}

	if req.RefillSchedule.Set {
		raw, _ := req.RefillSchedule.Get()
		if msg := u.validator.ValidateField("refill_schedule", raw, "required,refill_schedule"); msg != nil {
			errs.merge(msg)
		} else {
			schedule := entity.RefillSchedule(raw)
			changes.refillSchedule = &schedule
		}
	}

	return changes, errs.err()
}

func (u *prescriptionUsecase) DeletePrescription(ctx context.Context, id int64) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	prescription, err := u.prescriptionRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find prescription: %+v", err)
		return err
	}
	if prescription == nil {
		return ErrPrescriptionNotFound
	}
	oldValue := converter.PrescriptionToResponse(prescription)

	affectedRows, err := u.prescriptionRepo.Delete(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed delete prescription: %+v", err)
		return err
	}
	if affectedRows == 0 {
		return ErrPrescriptionNotFound
	}

	if err := u.auditService.Record(ctx, tx, service.AuditEntry{
		ActorID:  middleware.ActorID(ctx),
		Action:   entity.AuditActionPrescriptionDelete,
		Entity:   "prescription",
		EntityID: id,
		Before:   oldValue,
	}); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}
