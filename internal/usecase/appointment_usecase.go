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

type AppointmentUsecase interface {
	ListUpcoming(ctx context.Context, userID int64) (*dto.AppointmentListResponse, error)
	ListByUser(ctx context.Context, userID int64) (*dto.AppointmentListResponse, error)
	ListByPatient(ctx context.Context, patientID int64) (*dto.AppointmentListResponse, error)
	GetAppointment(ctx context.Context, id int64) (*dto.AppointmentResponse, error)
	CreateAppointment(ctx context.Context, patientID int64, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	UpdateAppointment(ctx context.Context, id int64, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error)
	DeleteAppointment(ctx context.Context, id int64) error
}

type appointmentUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	validator       *validator.CustomValidator
	clock           Clock
	horizon         time.Duration
	userRepo        repository.UserRepository
	appointmentRepo repository.AppointmentRepository
	auditService    service.AuditService
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	validator *validator.CustomValidator,
	clock Clock,
	horizon time.Duration,
	userRepo repository.UserRepository,
	appointmentRepo repository.AppointmentRepository,
	auditService service.AuditService,
) AppointmentUsecase {
	if clock == nil {
		clock = SystemClock
	}
	return &appointmentUsecase{
		db:              db,
		log:             log,
		validator:       validator,
		clock:           clock,
		horizon:         horizon,
		userRepo:        userRepo,
		appointmentRepo: appointmentRepo,
		auditService:    auditService,
	}
}

// ListUpcoming returns the user's appointments inside [now, now+horizon],
// earliest first.
func (u *appointmentUsecase) ListUpcoming(ctx context.Context, userID int64) (*dto.AppointmentListResponse, error) {
	window := entity.NewUpcomingWindow(u.clock(), u.horizon)

	appointments, err := u.appointmentRepo.FindByUserIDBetween(ctx, u.db, userID, window.From, window.To)
	if err != nil {
		u.log.Warnf("Failed to find upcoming appointments: %+v", err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
		Window:       converter.WindowToResponse(window),
	}, nil
}

func (u *appointmentUsecase) ListByUser(ctx context.Context, userID int64) (*dto.AppointmentListResponse, error) {
	appointments, err := u.appointmentRepo.FindByUserID(ctx, u.db, userID)
	if err != nil {
		u.log.Warnf("Failed to find appointments: %+v", err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

func (u *appointmentUsecase) ListByPatient(ctx context.Context, patientID int64) (*dto.AppointmentListResponse, error) {
	if _, err := findPatient(ctx, u.db, u.userRepo, patientID); err != nil {
		if !errors.Is(err, ErrPatientNotFound) {
			u.log.Warnf("Failed to find patient: %+v", err)
		}
		return nil, err
	}

	return u.ListByUser(ctx, patientID)
}

func (u *appointmentUsecase) GetAppointment(ctx context.Context, id int64) (*dto.AppointmentResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment: %+v", err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) CreateAppointment(ctx context.Context, patientID int64, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	appointment, err := u.appointmentFromRequest(patientID, req)
	if err != nil {
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

	if err := u.appointmentRepo.Create(ctx, tx, appointment); err != nil {
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, err
	}

	newValue := converter.AppointmentToResponse(appointment)
	if err := u.auditService.Record(ctx, tx, service.AuditEntry{
		ActorID:  middleware.ActorID(ctx),
		Action:   entity.AuditActionAppointmentCreate,
		Entity:   "appointment",
		EntityID: appointment.ID,
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

func (u *appointmentUsecase) appointmentFromRequest(patientID int64, req *dto.CreateAppointmentRequest) (*entity.Appointment, error) {
	errs := fieldErrors{}
	if err := u.validator.Validate(req); err != nil {
		errs.merge(u.validator.FormatValidationErrors(err))
	}

	appointment := &entity.Appointment{
		UserID:         patientID,
		Provider:       req.Provider,
		RepeatSchedule: entity.RepeatNone,
	}
	if req.RepeatSchedule != "" {
		appointment.RepeatSchedule = entity.RepeatSchedule(req.RepeatSchedule)
	}

	if req.Datetime != "" {
		datetime, err := parseTime(req.Datetime)
		if err != nil {
			errs.add("datetime", "datetime must be an ISO-8601 timestamp")
		}
		appointment.Datetime = datetime
	}

	if req.EndDate != nil && *req.EndDate != "" {
		endDate, err := parseTime(*req.EndDate)
		if err != nil {
			errs.add("end_date", "end_date must be an ISO-8601 date")
		}
		appointment.EndDate = &endDate
	}

	if err := errs.err(); err != nil {
		return nil, err
	}
	return appointment, nil
}

func (u *appointmentUsecase) UpdateAppointment(ctx context.Context, id int64, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	changes, err := u.validatePatch(req)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.appointmentRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment: %+v", err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	if changes.empty() {
		return converter.AppointmentToResponse(appointment), nil
	}

	oldValue := converter.AppointmentToResponse(appointment)
	changes.apply(appointment)

	if err := u.appointmentRepo.Update(ctx, tx, appointment); err != nil {
		u.log.Warnf("Failed to update appointment: %+v", err)
		return nil, err
	}

	newValue := converter.AppointmentToResponse(appointment)
	if err := u.auditService.Record(ctx, tx, service.AuditEntry{
		ActorID:  middleware.ActorID(ctx),
		Action:   entity.AuditActionAppointmentUpdate,
		Entity:   "appointment",
		EntityID: appointment.ID,
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

// appointmentChanges holds the validated fields of a patch.
type appointmentChanges struct {
	provider       *string
	datetime       *time.Time
	repeatSchedule *entity.RepeatSchedule
	endDateSet     bool
	endDate        *time.Time
}

func (c appointmentChanges) empty() bool {
	return c.provider == nil && c.datetime == nil && c.repeatSchedule == nil && !c.endDateSet
}

func (c appointmentChanges) apply(a *entity.Appointment) {
	if c.provider != nil {
		a.Provider = *c.provider
	}
	if c.datetime != nil {
		a.Datetime = *c.datetime
	}
	if c.repeatSchedule != nil {
		a.RepeatSchedule = *c.repeatSchedule
	}
	if c.endDateSet {
		a.EndDate = c.endDate
	}
}

func (u *appointmentUsecase) validatePatch(req *dto.UpdateAppointmentRequest) (appointmentChanges, error) {
	var changes appointmentChanges
	errs := fieldErrors{}

	if req.Provider.Set {
		provider, _ := req.Provider.Get()
		if msg := u.validator.ValidateField("provider", provider, "required,max=255"); msg != nil {
			errs.merge(msg)
		} else {
			changes.provider = &provider
		}
	}

	if req.Datetime.Set {
		raw, ok := req.Datetime.Get()
		if !ok || raw == "" {
			errs.add("datetime", "datetime is required")
		} else if datetime, err := parseTime(raw); err != nil {
			errs.add("datetime", "datetime must be an ISO-8601 timestamp")
		} else {
			changes.datetime = &datetime
		}
	}

	if req.RepeatSchedule.Set {
		raw, _ := req.RepeatSchedule.Get()
		if msg := u.validator.ValidateField("repeat_schedule", raw, "required,repeat_schedule"); msg != nil {
			errs.merge(msg)
		} else {
			schedule := entity.RepeatSchedule(raw)
			changes.repeatSchedule = &schedule
		}
	}

	if req.EndDate.Set {
		changes.endDateSet = true
		if raw, ok := req.EndDate.Get(); ok && raw != "" {
			endDate, err := parseTime(raw)
			if err != nil {
				errs.add("end_date", "end_date must be an ISO-8601 date")
			} else {
				changes.endDate = &endDate
			}
		}
	}

	return changes, errs.err()
}

func (u *appointmentUsecase) DeleteAppointment(ctx context.Context, id int64) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.appointmentRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment: %+v", err)
		return err
	}
	if appointment == nil {
		return ErrAppointmentNotFound
	}
	oldValue := converter.AppointmentToResponse(appointment)

	affectedRows, err := u.appointmentRepo.Delete(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed delete appointment: %+v", err)
		return err
	}
	if affectedRows == 0 {
		return ErrAppointmentNotFound
	}

	if err := u.auditService.Record(ctx, tx, service.AuditEntry{
		ActorID:  middleware.ActorID(ctx),
		Action:   entity.AuditActionAppointmentDelete,
		Entity:   "appointment",
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
