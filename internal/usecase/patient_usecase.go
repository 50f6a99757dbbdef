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
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type PatientUsecase interface {
	CreatePatient(ctx context.Context, req *dto.CreatePatientRequest) (*dto.UserResponse, error)
	GetAllPatients(ctx context.Context) (*dto.PatientListResponse, error)
	GetPatient(ctx context.Context, id int64) (*dto.PatientDetailResponse, error)
	UpdatePatient(ctx context.Context, id int64, req *dto.UpdatePatientRequest) (*dto.UserResponse, error)
	DeletePatient(ctx context.Context, id int64) error
}

type patientUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	validator        *validator.CustomValidator
	clock            Clock
	horizon          time.Duration
	userRepo         repository.UserRepository
	appointmentRepo  repository.AppointmentRepository
	prescriptionRepo repository.PrescriptionRepository
	auditService     service.AuditService
	tokenStore       service.TokenStore
}

func NewPatientUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	validator *validator.CustomValidator,
	clock Clock,
	horizon time.Duration,
	userRepo repository.UserRepository,
	appointmentRepo repository.AppointmentRepository,
	prescriptionRepo repository.PrescriptionRepository,
	auditService service.AuditService,
	tokenStore service.TokenStore,
) PatientUsecase {
	if clock == nil {
		clock = SystemClock
	}
	return &patientUsecase{
		db:               db,
		log:              log,
		validator:        validator,
		clock:            clock,
		horizon:          horizon,
		userRepo:         userRepo,
		appointmentRepo:  appointmentRepo,
		prescriptionRepo: prescriptionRepo,
		auditService:     auditService,
		tokenStore:       tokenStore,
	}
}

// findPatient loads a user with the patient role. Admin accounts own no
// records and are reported as missing.
func findPatient(ctx context.Context, db *gorm.DB, userRepo repository.UserRepository, id int64) (*entity.User, error) {
	user, err := userRepo.FindByID(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Role != entity.RolePatient {
		return nil, ErrPatientNotFound
	}
	return user, nil
}

func (u *patientUsecase) CreatePatient(ctx context.Context, req *dto.CreatePatientRequest) (*dto.UserResponse, error) {
	if err := u.validator.Validate(req); err != nil {
		return nil, &ValidationError{Fields: u.validator.FormatValidationErrors(err)}
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	existing, err := u.userRepo.FindByEmail(ctx, tx, req.Email)
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	user := &entity.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		Role:         entity.RolePatient,
	}

	if err := u.userRepo.Create(ctx, tx, user); err != nil {
		// lost a race with a concurrent create
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	newValue := converter.UserToResponse(user)
	if err := u.auditService.Record(ctx, tx, service.AuditEntry{
		ActorID:  middleware.ActorID(ctx),
		Action:   entity.AuditActionPatientCreate,
		Entity:   "patient",
		EntityID: user.ID,
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

// GetAllPatients lists patients by name with their current upcoming
// appointment count and total prescription count.
func (u *patientUsecase) GetAllPatients(ctx context.Context) (*dto.PatientListResponse, error) {
	users, err := u.userRepo.FindAllByRole(ctx, u.db, entity.RolePatient)
	if err != nil {
		u.log.Warnf("Failed to find patients: %+v", err)
		return nil, err
	}

	window := entity.NewUpcomingWindow(u.clock(), u.horizon)
	upcoming, err := u.appointmentRepo.CountBetweenGroupedByUser(ctx, u.db, window.From, window.To)
	if err != nil {
		u.log.Warnf("Failed to count upcoming appointments: %+v", err)
		return nil, err
	}

	prescriptions, err := u.prescriptionRepo.CountGroupedByUser(ctx, u.db)
	if err != nil {
		u.log.Warnf("Failed to count prescriptions: %+v", err)
		return nil, err
	}

	return &dto.PatientListResponse{
		Patients: converter.PatientsToSummaries(users, upcoming, prescriptions),
		Total:    len(users),
	}, nil
}

func (u *patientUsecase) GetPatient(ctx context.Context, id int64) (*dto.PatientDetailResponse, error) {
	user, err := u.userRepo.FindByIDWithRecords(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return nil, err
	}
	if user == nil || user.Role != entity.RolePatient {
		return nil, ErrPatientNotFound
	}

	return converter.PatientToDetailResponse(user), nil
}

func (u *patientUsecase) UpdatePatient(ctx context.Context, id int64, req *dto.UpdatePatientRequest) (*dto.UserResponse, error) {
	errs := fieldErrors{}
	if req.Name.Set {
		name, _ := req.Name.Get()
		errs.merge(u.validator.ValidateField("name", name, "required,max=255"))
	}
	if req.Email.Set {
		email, _ := req.Email.Get()
		errs.merge(u.validator.ValidateField("email", email, "required,email,max=255"))
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user, err := findPatient(ctx, tx, u.userRepo, id)
	if err != nil {
		if !errors.Is(err, ErrPatientNotFound) {
			u.log.Warnf("Failed to find patient: %+v", err)
		}
		return nil, err
	}

	if !req.Name.Set && !req.Email.Set {
		return converter.UserToResponse(user), nil
	}

	oldValue := converter.UserToResponse(user)

	if name, ok := req.Name.Get(); ok {
		user.Name = name
	}
	if email, ok := req.Email.Get(); ok && email != user.Email {
		existing, err := u.userRepo.FindByEmail(ctx, tx, email)
		if err != nil {
			u.log.Warnf("Failed to find user by email: %+v", err)
			return nil, err
		}
		if existing != nil {
			return nil, ErrEmailAlreadyExists
		}
		user.Email = email
	}

	if err := u.userRepo.Update(ctx, tx, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to update patient: %+v", err)
		return nil, err
	}

	newValue := converter.UserToResponse(user)
	if err := u.auditService.Record(ctx, tx, service.AuditEntry{
		ActorID:  middleware.ActorID(ctx),
		Action:   entity.AuditActionPatientUpdate,
		Entity:   "patient",
		EntityID: user.ID,
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

// DeletePatient removes the patient with all appointments and prescriptions
// in one transaction, then revokes the patient's tokens.
func (u *patientUsecase) DeletePatient(ctx context.Context, id int64) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user, err := findPatient(ctx, tx, u.userRepo, id)
	if err != nil {
		if !errors.Is(err, ErrPatientNotFound) {
			u.log.Warnf("Failed to find patient: %+v", err)
		}
		return err
	}
	oldValue := converter.UserToResponse(user)

	if err := u.appointmentRepo.DeleteByUserID(ctx, tx, id); err != nil {
		u.log.Warnf("Failed delete patient appointments: %+v", err)
		return err
	}
	if err := u.prescriptionRepo.DeleteByUserID(ctx, tx, id); err != nil {
		u.log.Warnf("Failed delete patient prescriptions: %+v", err)
		return err
	}

	affectedRows, err := u.userRepo.Delete(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed delete patient: %+v", err)
		return err
	}
	if affectedRows == 0 {
		return ErrPatientNotFound
	}

	if err := u.auditService.Record(ctx, tx, service.AuditEntry{
		ActorID:  middleware.ActorID(ctx),
		Action:   entity.AuditActionPatientDelete,
		Entity:   "patient",
		EntityID: id,
		Before:   oldValue,
	}); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	if err := u.tokenStore.RevokeAll(ctx, id); err != nil {
		u.log.Warnf("Failed to revoke tokens of deleted patient %d: %+v", id, err)
	}

	return nil
}
