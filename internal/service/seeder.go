package service

import (
	"context"
	"fmt"
	"time"

	"clinic-portal/internal/domain/entity"
	"clinic-portal/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const DemoPassword = "Password123!"

var (
	SeedMedications = []string{"Diovan", "Lexapro", "Metformin", "Ozempic", "Prozac", "Seroquel", "Tegretol"}
	SeedDosages     = []string{"1mg", "2mg", "3mg", "5mg", "10mg", "25mg", "50mg", "100mg", "250mg", "500mg", "1000mg"}
)

// SeedOptions controls what the seeder writes. Reset wipes clinic data
// first; without it existing rows are left alone and duplicates skipped.
type SeedOptions struct {
	Reset         bool
	AdminEmail    string
	AdminPassword string
}

type demoPatient struct {
	user          entity.User
	appointments  []entity.Appointment
	prescriptions []entity.Prescription
}

type Seeder struct {
	db               *gorm.DB
	log              *logrus.Logger
	userRepo         repository.UserRepository
	appointmentRepo  repository.AppointmentRepository
	prescriptionRepo repository.PrescriptionRepository
	referenceRepo    repository.ReferenceRepository
}

func NewSeeder(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	appointmentRepo repository.AppointmentRepository,
	prescriptionRepo repository.PrescriptionRepository,
	referenceRepo repository.ReferenceRepository,
) *Seeder {
	return &Seeder{
		db:               db,
		log:              log,
		userRepo:         userRepo,
		appointmentRepo:  appointmentRepo,
		prescriptionRepo: prescriptionRepo,
		referenceRepo:    referenceRepo,
	}
}

func (s *Seeder) Run(ctx context.Context, opts SeedOptions) error {
	tx := s.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if opts.Reset {
		for _, table := range []string{"audit_logs", "prescriptions", "appointments", "users", "medications", "dosages"} {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		s.log.Info("Cleared existing clinic data")
	}

	medications := make([]entity.Medication, len(SeedMedications))
	for i, name := range SeedMedications {
		medications[i] = entity.Medication{Name: name}
	}
	if err := s.referenceRepo.SaveMedications(ctx, tx, medications); err != nil {
		return fmt.Errorf("seed medications: %w", err)
	}

	dosages := make([]entity.Dosage, len(SeedDosages))
	for i, value := range SeedDosages {
		dosages[i] = entity.Dosage{Value: value}
	}
	if err := s.referenceRepo.SaveDosages(ctx, tx, dosages); err != nil {
		return fmt.Errorf("seed dosages: %w", err)
	}
	s.log.Infof("Seeded %d medications and %d dosages", len(medications), len(dosages))

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}

	if opts.AdminEmail != "" {
		adminHash := hash
		if opts.AdminPassword != "" {
			adminHash, err = bcrypt.GenerateFromPassword([]byte(opts.AdminPassword), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("hash admin password: %w", err)
			}
		}
		admin := entity.User{Name: "Clinic Admin", Email: opts.AdminEmail, PasswordHash: string(adminHash), Role: entity.RoleAdmin}
		if _, err := s.createUserIfMissing(ctx, tx, &admin); err != nil {
			return err
		}
	}

	for _, patient := range demoPatients(string(hash)) {
		created, err := s.createUserIfMissing(ctx, tx, &patient.user)
		if err != nil {
			return err
		}
		if !created {
			continue
		}

		for i := range patient.appointments {
			patient.appointments[i].UserID = patient.user.ID
			if err := s.appointmentRepo.Create(ctx, tx, &patient.appointments[i]); err != nil {
				return fmt.Errorf("seed appointment for %s: %w", patient.user.Email, err)
			}
		}
		for i := range patient.prescriptions {
			patient.prescriptions[i].UserID = patient.user.ID
			if err := s.prescriptionRepo.Create(ctx, tx, &patient.prescriptions[i]); err != nil {
				return fmt.Errorf("seed prescription for %s: %w", patient.user.Email, err)
			}
		}
		s.log.Infof("Seeded %s", patient.user.Name)
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	return nil
}

func (s *Seeder) createUserIfMissing(ctx context.Context, tx *gorm.DB, user *entity.User) (bool, error) {
	existing, err := s.userRepo.FindByEmail(ctx, tx, user.Email)
	if err != nil {
		return false, fmt.Errorf("find %s: %w", user.Email, err)
	}
	if existing != nil {
		s.log.Infof("User %s already exists, skipping", user.Email)
		*user = *existing
		return false, nil
	}
	if err := s.userRepo.Create(ctx, tx, user); err != nil {
		return false, fmt.Errorf("create %s: %w", user.Email, err)
	}
	return true, nil
}

func demoPatients(passwordHash string) []demoPatient {
	mst := time.FixedZone("MST", -7*60*60)

	return []demoPatient{
		{
			user: entity.User{Name: "Mark Johnson", Email: "mark@some-email-provider.net", PasswordHash: passwordHash, Role: entity.RolePatient},
			appointments: []entity.Appointment{
				{Provider: "Dr Kim West", Datetime: time.Date(2026, 2, 5, 16, 30, 0, 0, mst).UTC(), RepeatSchedule: entity.RepeatWeekly},
				{Provider: "Dr Lin James", Datetime: time.Date(2026, 2, 10, 18, 30, 0, 0, mst).UTC(), RepeatSchedule: entity.RepeatMonthly},
			},
			prescriptions: []entity.Prescription{
				{Medication: "Lexapro", Dosage: "5mg", Quantity: 2, RefillOn: date(2026, 2, 5), RefillSchedule: entity.RefillMonthly},
				{Medication: "Ozempic", Dosage: "1mg", Quantity: 1, RefillOn: date(2026, 2, 8), RefillSchedule: entity.RefillMonthly},
			},
		},
		{
			user: entity.User{Name: "Lisa Smith", Email: "lisa@some-email-provider.net", PasswordHash: passwordHash, Role: entity.RolePatient},
			appointments: []entity.Appointment{
				{Provider: "Dr Sally Field", Datetime: time.Date(2026, 2, 3, 18, 15, 0, 0, mst).UTC(), RepeatSchedule: entity.RepeatMonthly},
				{Provider: "Dr Lin James", Datetime: time.Date(2026, 2, 12, 20, 0, 0, 0, mst).UTC(), RepeatSchedule: entity.RepeatWeekly},
			},
			prescriptions: []entity.Prescription{
				{Medication: "Metformin", Dosage: "500mg", Quantity: 2, RefillOn: date(2026, 2, 4), RefillSchedule: entity.RefillMonthly},
				{Medication: "Diovan", Dosage: "100mg", Quantity: 1, RefillOn: date(2026, 2, 7), RefillSchedule: entity.RefillMonthly},
			},
		},
	}
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
