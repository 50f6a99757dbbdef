package usecase

import (
	"context"
	"errors"
	"io"
	"sort"
	"testing"
	"time"

	"clinic-portal/internal/delivery/http/middleware"
	"clinic-portal/internal/domain/entity"
	"clinic-portal/internal/service"
	"clinic-portal/pkg/validator"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var errStoreDown = errors.New("store unavailable")

// memStore backs the fake repositories. fail makes the named method return
// errStoreDown.
type memStore struct {
	nextID        int64
	users         map[int64]entity.User
	appointments  map[int64]entity.Appointment
	prescriptions map[int64]entity.Prescription
	auditLogs     []entity.AuditLog
	medications   []entity.Medication
	dosages       []entity.Dosage
	fail          map[string]bool
	calls         map[string]int
}

func newMemStore() *memStore {
	return &memStore{
		users:         map[int64]entity.User{},
		appointments:  map[int64]entity.Appointment{},
		prescriptions: map[int64]entity.Prescription{},
		fail:          map[string]bool{},
		calls:         map[string]int{},
	}
}

func (s *memStore) hit(method string) error {
	s.calls[method]++
	if s.fail[method] {
		return errStoreDown
	}
	return nil
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) addUser(name, email, role string) entity.User {
	u := entity.User{ID: s.id(), Name: name, Email: email, Role: role}
	s.users[u.ID] = u
	return u
}

func (s *memStore) addAppointment(userID int64, provider string, at time.Time) entity.Appointment {
	a := entity.Appointment{ID: s.id(), UserID: userID, Provider: provider, Datetime: at, RepeatSchedule: entity.RepeatNone}
	s.appointments[a.ID] = a
	return a
}

func (s *memStore) addPrescription(userID int64, medication string, refillOn time.Time) entity.Prescription {
	p := entity.Prescription{ID: s.id(), UserID: userID, Medication: medication, Dosage: "5mg", Quantity: 1, RefillOn: refillOn, RefillSchedule: entity.RefillMonthly}
	s.prescriptions[p.ID] = p
	return p
}

type fakeUserRepo struct{ s *memStore }

func (r fakeUserRepo) Create(ctx context.Context, db *gorm.DB, user *entity.User) error {
	if err := r.s.hit("users.Create"); err != nil {
		return err
	}
	user.ID = r.s.id()
	r.s.users[user.ID] = *user
	return nil
}

func (r fakeUserRepo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.User, error) {
	if err := r.s.hit("users.FindByID"); err != nil {
		return nil, err
	}
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r fakeUserRepo) FindByIDWithRecords(ctx context.Context, db *gorm.DB, id int64) (*entity.User, error) {
	u, err := r.FindByID(ctx, db, id)
	if u == nil || err != nil {
		return u, err
	}
	u.Appointments, _ = fakeAppointmentRepo{r.s}.FindByUserID(ctx, db, id)
	u.Prescriptions, _ = fakePrescriptionRepo{r.s}.FindByUserID(ctx, db, id)
	return u, nil
}

func (r fakeUserRepo) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*entity.User, error) {
	if err := r.s.hit("users.FindByEmail"); err != nil {
		return nil, err
	}
	for _, u := range r.s.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}

func (r fakeUserRepo) FindAllByRole(ctx context.Context, db *gorm.DB, role string) ([]entity.User, error) {
	if err := r.s.hit("users.FindAllByRole"); err != nil {
		return nil, err
	}
	var out []entity.User
	for _, u := range r.s.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r fakeUserRepo) Update(ctx context.Context, db *gorm.DB, user *entity.User) error {
	if err := r.s.hit("users.Update"); err != nil {
		return err
	}
	r.s.users[user.ID] = *user
	return nil
}

func (r fakeUserRepo) Delete(ctx context.Context, db *gorm.DB, id int64) (int64, error) {
	if err := r.s.hit("users.Delete"); err != nil {
		return 0, err
	}
	if _, ok := r.s.users[id]; !ok {
		return 0, nil
	}
	delete(r.s.users, id)
	return 1, nil
}

type fakeAppointmentRepo struct{ s *memStore }

func sortAppointments(out []entity.Appointment) {
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Datetime.Equal(out[j].Datetime) {
			return out[i].Datetime.Before(out[j].Datetime)
		}
		return out[i].ID < out[j].ID
	})
}

func (r fakeAppointmentRepo) Create(ctx context.Context, db *gorm.DB, a *entity.Appointment) error {
	if err := r.s.hit("appointments.Create"); err != nil {
		return err
	}
	a.ID = r.s.id()
	r.s.appointments[a.ID] = *a
	return nil
}

func (r fakeAppointmentRepo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.Appointment, error) {
	if err := r.s.hit("appointments.FindByID"); err != nil {
		return nil, err
	}
	a, ok := r.s.appointments[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r fakeAppointmentRepo) FindByUserID(ctx context.Context, db *gorm.DB, userID int64) ([]entity.Appointment, error) {
	if err := r.s.hit("appointments.FindByUserID"); err != nil {
		return nil, err
	}
	var out []entity.Appointment
	for _, a := range r.s.appointments {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sortAppointments(out)
	return out, nil
}

func (r fakeAppointmentRepo) FindByUserIDBetween(ctx context.Context, db *gorm.DB, userID int64, from, to time.Time) ([]entity.Appointment, error) {
	if err := r.s.hit("appointments.FindByUserIDBetween"); err != nil {
		return nil, err
	}
	window := entity.UpcomingWindow{From: from, To: to}
	var out []entity.Appointment
	for _, a := range r.s.appointments {
		if a.UserID == userID && window.Contains(a.Datetime) {
			out = append(out, a)
		}
	}
	sortAppointments(out)
	return out, nil
}

func (r fakeAppointmentRepo) CountBetweenGroupedByUser(ctx context.Context, db *gorm.DB, from, to time.Time) (map[int64]int64, error) {
	if err := r.s.hit("appointments.CountBetweenGroupedByUser"); err != nil {
		return nil, err
	}
	window := entity.UpcomingWindow{From: from, To: to}
	counts := map[int64]int64{}
	for _, a := range r.s.appointments {
		if window.Contains(a.Datetime) {
			counts[a.UserID]++
		}
	}
	return counts, nil
}

func (r fakeAppointmentRepo) Update(ctx context.Context, db *gorm.DB, a *entity.Appointment) error {
	if err := r.s.hit("appointments.Update"); err != nil {
		return err
	}
	r.s.appointments[a.ID] = *a
	return nil
}

func (r fakeAppointmentRepo) Delete(ctx context.Context, db *gorm.DB, id int64) (int64, error) {
	if err := r.s.hit("appointments.Delete"); err != nil {
		return 0, err
	}
	if _, ok := r.s.appointments[id]; !ok {
		return 0, nil
	}
	delete(r.s.appointments, id)
	return 1, nil
}

func (r fakeAppointmentRepo) DeleteByUserID(ctx context.Context, db *gorm.DB, userID int64) error {
	if err := r.s.hit("appointments.DeleteByUserID"); err != nil {
		return err
	}
	for id, a := range r.s.appointments {
		if a.UserID == userID {
			delete(r.s.appointments, id)
		}
	}
	return nil
}

type fakePrescriptionRepo struct{ s *memStore }

func sortPrescriptions(out []entity.Prescription) {
	sort.Slice(out, func(i, j int) bool {
		if !out[i].RefillOn.Equal(out[j].RefillOn) {
			return out[i].RefillOn.Before(out[j].RefillOn)
		}
		return out[i].ID < out[j].ID
	})
}

func (r fakePrescriptionRepo) Create(ctx context.Context, db *gorm.DB, p *entity.Prescription) error {
	if err := r.s.hit("prescriptions.Create"); err != nil {
		return err
	}
	p.ID = r.s.id()
	r.s.prescriptions[p.ID] = *p
	return nil
}

func (r fakePrescriptionRepo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.Prescription, error) {
	if err := r.s.hit("prescriptions.FindByID"); err != nil {
		return nil, err
	}
	p, ok := r.s.prescriptions[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r fakePrescriptionRepo) FindByUserID(ctx context.Context, db *gorm.DB, userID int64) ([]entity.Prescription, error) {
	if err := r.s.hit("prescriptions.FindByUserID"); err != nil {
		return nil, err
	}
	var out []entity.Prescription
	for _, p := range r.s.prescriptions {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sortPrescriptions(out)
	return out, nil
}

func (r fakePrescriptionRepo) FindByUserIDBetween(ctx context.Context, db *gorm.DB, userID int64, from, to time.Time) ([]entity.Prescription, error) {
	if err := r.s.hit("prescriptions.FindByUserIDBetween"); err != nil {
		return nil, err
	}
	window := entity.UpcomingWindow{From: from, To: to}
	var out []entity.Prescription
	for _, p := range r.s.prescriptions {
		if p.UserID == userID && window.Contains(p.RefillOn) {
			out = append(out, p)
		}
	}
	sortPrescriptions(out)
	return out, nil
}

func (r fakePrescriptionRepo) CountGroupedByUser(ctx context.Context, db *gorm.DB) (map[int64]int64, error) {
	if err := r.s.hit("prescriptions.CountGroupedByUser"); err != nil {
		return nil, err
	}
	counts := map[int64]int64{}
	for _, p := range r.s.prescriptions {
		counts[p.UserID]++
	}
	return counts, nil
}

func (r fakePrescriptionRepo) Update(ctx context.Context, db *gorm.DB, p *entity.Prescription) error {
	if err := r.s.hit("prescriptions.Update"); err != nil {
		return err
	}
	r.s.prescriptions[p.ID] = *p
	return nil
}

func (r fakePrescriptionRepo) Delete(ctx context.Context, db *gorm.DB, id int64) (int64, error) {
	if err := r.s.hit("prescriptions.Delete"); err != nil {
		return 0, err
	}
	if _, ok := r.s.prescriptions[id]; !ok {
		return 0, nil
	}
	delete(r.s.prescriptions, id)
	return 1, nil
}

func (r fakePrescriptionRepo) DeleteByUserID(ctx context.Context, db *gorm.DB, userID int64) error {
	if err := r.s.hit("prescriptions.DeleteByUserID"); err != nil {
		return err
	}
	for id, p := range r.s.prescriptions {
		if p.UserID == userID {
			delete(r.s.prescriptions, id)
		}
	}
	return nil
}

type fakeAuditRepo struct{ s *memStore }

func (r fakeAuditRepo) Create(ctx context.Context, db *gorm.DB, log *entity.AuditLog) error {
	if err := r.s.hit("audit.Create"); err != nil {
		return err
	}
	log.ID = r.s.id()
	r.s.auditLogs = append(r.s.auditLogs, *log)
	return nil
}

func (r fakeAuditRepo) FindAll(ctx context.Context, db *gorm.DB) ([]entity.AuditLog, error) {
	if err := r.s.hit("audit.FindAll"); err != nil {
		return nil, err
	}
	out := make([]entity.AuditLog, len(r.s.auditLogs))
	for i := range r.s.auditLogs {
		out[len(out)-1-i] = r.s.auditLogs[i]
	}
	return out, nil
}

func (r fakeAuditRepo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.AuditLog, error) {
	if err := r.s.hit("audit.FindByID"); err != nil {
		return nil, err
	}
	for _, l := range r.s.auditLogs {
		if l.ID == id {
			found := l
			return &found, nil
		}
	}
	return nil, nil
}

type fakeReferenceRepo struct{ s *memStore }

func (r fakeReferenceRepo) FindAllMedications(ctx context.Context, db *gorm.DB) ([]entity.Medication, error) {
	if err := r.s.hit("reference.FindAllMedications"); err != nil {
		return nil, err
	}
	return r.s.medications, nil
}

func (r fakeReferenceRepo) FindAllDosages(ctx context.Context, db *gorm.DB) ([]entity.Dosage, error) {
	if err := r.s.hit("reference.FindAllDosages"); err != nil {
		return nil, err
	}
	return r.s.dosages, nil
}

func (r fakeReferenceRepo) SaveMedications(ctx context.Context, db *gorm.DB, medications []entity.Medication) error {
	r.s.medications = append(r.s.medications, medications...)
	return nil
}

func (r fakeReferenceRepo) SaveDosages(ctx context.Context, db *gorm.DB, dosages []entity.Dosage) error {
	r.s.dosages = append(r.s.dosages, dosages...)
	return nil
}

// testEnv wires every usecase against one memStore and a sqlmock-backed
// gorm handle that only ever sees BEGIN, COMMIT and ROLLBACK.
type testEnv struct {
	store *memStore
	db    *gorm.DB
	mock  sqlmock.Sqlmock
	log   *logrus.Logger
	valid *validator.CustomValidator
	audit service.AuditService
	now   time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	log := logrus.New()
	log.SetOutput(io.Discard)

	store := newMemStore()
	return &testEnv{
		store: store,
		db:    db,
		mock:  mock,
		log:   log,
		valid: validator.NewValidator(),
		audit: service.NewAuditService(log, fakeAuditRepo{store}),
		now:   time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}
}

func (e *testEnv) clock() time.Time {
	return e.now
}

func (e *testEnv) expectCommit() {
	e.mock.ExpectBegin()
	e.mock.ExpectCommit()
}

func (e *testEnv) expectRollback() {
	e.mock.ExpectBegin()
	e.mock.ExpectRollback()
}

func adminContext() context.Context {
	return middleware.WithIdentity(context.Background(), middleware.Identity{UserID: 1000, Role: entity.RoleAdmin, TokenID: "t"})
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}
