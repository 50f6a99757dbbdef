package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"clinic-portal/internal/delivery/dto"
	"clinic-portal/internal/domain/entity"
	"clinic-portal/pkg/patch"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAppointmentUsecase(e *testEnv) AppointmentUsecase {
	return NewAppointmentUsecase(e.db, e.log, e.valid, e.clock, entity.DefaultUpcomingHorizon,
		fakeUserRepo{e.store}, fakeAppointmentRepo{e.store}, e.audit)
}

func providers(list []dto.AppointmentResponse) []string {
	out := make([]string, len(list))
	for i, a := range list {
		out[i] = a.Provider
	}
	return out
}

func TestAppointmentUsecase_ListUpcoming_Boundaries(t *testing.T) {
	e := newTestEnv(t)
	uc := newAppointmentUsecase(e)

	patient := e.store.addUser("Mark", "mark@example.com", entity.RolePatient)
	other := e.store.addUser("Lisa", "lisa@example.com", entity.RolePatient)
	week := 7 * 24 * time.Hour

	e.store.addAppointment(patient.ID, "at horizon", e.now.Add(week))
	e.store.addAppointment(patient.ID, "past horizon", e.now.Add(week+time.Second))
	e.store.addAppointment(patient.ID, "just before", e.now.Add(-time.Second))
	e.store.addAppointment(patient.ID, "midweek", e.now.Add(3*24*time.Hour))
	e.store.addAppointment(patient.ID, "now", e.now)
	e.store.addAppointment(other.ID, "someone else", e.now.Add(time.Hour))

	res, err := uc.ListUpcoming(context.Background(), patient.ID)
	require.NoError(t, err)

	assert.Equal(t, []string{"now", "midweek", "at horizon"}, providers(res.Appointments))
	assert.Equal(t, 3, res.Total)
	require.NotNil(t, res.Window)
	assert.Equal(t, e.now, res.Window.From)
	assert.Equal(t, e.now.Add(week), res.Window.To)
}

func TestAppointmentUsecase_ListUpcoming_OnlyNearAppointment(t *testing.T) {
	e := newTestEnv(t)
	uc := newAppointmentUsecase(e)

	patient := e.store.addUser("Mark", "mark@example.com", entity.RolePatient)
	e.store.addAppointment(patient.ID, "Dr B", e.now.Add(10*24*time.Hour))
	e.store.addAppointment(patient.ID, "Dr A", e.now.Add(24*time.Hour))

	res, err := uc.ListUpcoming(context.Background(), patient.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Dr A"}, providers(res.Appointments))
}

func TestAppointmentUsecase_ListUpcoming_NormalizesClock(t *testing.T) {
	e := newTestEnv(t)
	jakarta := time.FixedZone("WIB", 7*60*60)
	e.now = time.Date(2026, 3, 2, 16, 0, 0, 123456789, jakarta)
	uc := newAppointmentUsecase(e)

	res, err := uc.ListUpcoming(context.Background(), 1)
	require.NoError(t, err)

	require.NotNil(t, res.Window)
	assert.Equal(t, time.UTC, res.Window.From.Location())
	assert.Equal(t, time.Date(2026, 3, 2, 9, 0, 0, 123456000, time.UTC), res.Window.From)
}

func TestAppointmentUsecase_ListUpcoming_Empty(t *testing.T) {
	e := newTestEnv(t)
	uc := newAppointmentUsecase(e)

	res, err := uc.ListUpcoming(context.Background(), 42)
	require.NoError(t, err)
	assert.Empty(t, res.Appointments)
	assert.Equal(t, 0, res.Total)
}

func TestAppointmentUsecase_ListUpcoming_StoreFailure(t *testing.T) {
	e := newTestEnv(t)
	e.store.fail["appointments.FindByUserIDBetween"] = true
	uc := newAppointmentUsecase(e)

	_, err := uc.ListUpcoming(context.Background(), 1)
	assert.ErrorIs(t, err, errStoreDown)
}

func TestAppointmentUsecase_ListByPatient(t *testing.T) {
	e := newTestEnv(t)
	uc := newAppointmentUsecase(e)

	patient := e.store.addUser("Mark", "mark@example.com", entity.RolePatient)
	admin := e.store.addUser("Admin", "admin@example.com", entity.RoleAdmin)
	e.store.addAppointment(patient.ID, "later", e.now.Add(30*24*time.Hour))
	e.store.addAppointment(patient.ID, "earlier", e.now.Add(-30*24*time.Hour))

	t.Run("full history ascending", func(t *testing.T) {
		res, err := uc.ListByPatient(context.Background(), patient.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"earlier", "later"}, providers(res.Appointments))
		assert.Nil(t, res.Window)
	})

	t.Run("unknown patient", func(t *testing.T) {
		_, err := uc.ListByPatient(context.Background(), 999)
		assert.ErrorIs(t, err, ErrPatientNotFound)
	})

	t.Run("admin is not a patient", func(t *testing.T) {
		_, err := uc.ListByPatient(context.Background(), admin.ID)
		assert.ErrorIs(t, err, ErrPatientNotFound)
	})
}

func TestAppointmentUsecase_CreateAppointment(t *testing.T) {
	e := newTestEnv(t)
	uc := newAppointmentUsecase(e)
	patient := e.store.addUser("Mark", "mark@example.com", entity.RolePatient)

	e.expectCommit()
	endDate := "2026-06-01"
	res, err := uc.CreateAppointment(adminContext(), patient.ID, &dto.CreateAppointmentRequest{
		Provider:       "Dr Kim West",
		Datetime:       "2026-03-05T10:00:00Z",
		RepeatSchedule: "weekly",
		EndDate:        &endDate,
	})
	require.NoError(t, err)
	require.NoError(t, e.mock.ExpectationsWereMet())

	assert.Equal(t, "Dr Kim West", res.Provider)
	assert.Equal(t, "weekly", res.RepeatSchedule)
	assert.Equal(t, time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC), res.Datetime)
	require.NotNil(t, res.EndDate)
	assert.Equal(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), *res.EndDate)

	stored := e.store.appointments[res.ID]
	assert.Equal(t, patient.ID, stored.UserID)

	require.Len(t, e.store.auditLogs, 1)
	assert.Equal(t, entity.AuditActionAppointmentCreate, e.store.auditLogs[0].Action)
	require.NotNil(t, e.store.auditLogs[0].UserID)
	assert.Equal(t, int64(1000), *e.store.auditLogs[0].UserID)
}

func TestAppointmentUsecase_CreateAppointment_DefaultsToNoRepeat(t *testing.T) {
	e := newTestEnv(t)
	uc := newAppointmentUsecase(e)
	patient := e.store.addUser("Mark", "mark@example.com", entity.RolePatient)

	e.expectCommit()
	res, err := uc.CreateAppointment(adminContext(), patient.ID, &dto.CreateAppointmentRequest{
		Provider: "Dr Cindy Lou",
		Datetime: "2026-03-05T10:00",
	})
	require.NoError(t, err)
	assert.Equal(t, string(entity.RepeatNone), res.RepeatSchedule)
	assert.Nil(t, res.EndDate)
}

func TestAppointmentUsecase_CreateAppointment_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		req   dto.CreateAppointmentRequest
		field string
	}{
		{
			name:  "unknown repeat schedule",
			req:   dto.CreateAppointmentRequest{Provider: "Dr A", Datetime: "2026-03-05T10:00:00Z", RepeatSchedule: "yearly"},
			field: "repeat_schedule",
		},
		{
			name:  "missing provider",
			req:   dto.CreateAppointmentRequest{Datetime: "2026-03-05T10:00:00Z"},
			field: "provider",
		},
		{
			name:  "unparseable datetime",
			req:   dto.CreateAppointmentRequest{Provider: "Dr A", Datetime: "next tuesday"},
			field: "datetime",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEnv(t)
			uc := newAppointmentUsecase(e)
			patient := e.store.addUser("Mark", "mark@example.com", entity.RolePatient)

			_, err := uc.CreateAppointment(adminContext(), patient.ID, &tt.req)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.ErrorIs(t, err, ErrValidation)
			assert.Contains(t, verr.Fields, tt.field)
			assert.Empty(t, e.store.appointments)
			assert.Empty(t, e.store.auditLogs)
			assert.NoError(t, e.mock.ExpectationsWereMet())
		})
	}
}

func TestAppointmentUsecase_CreateAppointment_UnknownPatient(t *testing.T) {
	e := newTestEnv(t)
	uc := newAppointmentUsecase(e)

	e.expectRollback()
	_, err := uc.CreateAppointment(adminContext(), 404, &dto.CreateAppointmentRequest{
		Provider: "Dr A",
		Datetime: "2026-03-05T10:00:00Z",
	})
	assert.ErrorIs(t, err, ErrPatientNotFound)
	assert.Empty(t, e.store.appointments)
	assert.NoError(t, e.mock.ExpectationsWereMet())
}

func TestAppointmentUsecase_CreateAppointment_AuditFailureRollsBack(t *testing.T) {
	e := newTestEnv(t)
	e.store.fail["audit.Create"] = true
	uc := newAppointmentUsecase(e)
	patient := e.store.addUser("Mark", "mark@example.com", entity.RolePatient)

	e.expectRollback()
	_, err := uc.CreateAppointment(adminContext(), patient.ID, &dto.CreateAppointmentRequest{
		Provider: "Dr A",
		Datetime: "2026-03-05T10:00:00Z",
	})
	assert.Error(t, err)
	assert.NoError(t, e.mock.ExpectationsWereMet())
}

func TestAppointmentUsecase_UpdateAppointment_EmptyPatch(t *testing.T) {
	e := newTestEnv(t)
	uc := newAppointmentUsecase(e)
	patient := e.store.addUser("Mark", "mark@example.com", entity.RolePatient)
	original := e.store.addAppointment(patient.ID, "Dr A", e.now.Add(time.Hour))

	e.expectRollback()
	res, err := uc.UpdateAppointment(adminContext(), original.ID, &dto.UpdateAppointmentRequest{})
	require.NoError(t, err)

	assert.Equal(t, "Dr A", res.Provider)
	assert.Equal(t, original, e.store.appointments[original.ID])
	assert.Zero(t, e.store.calls["appointments.Update"])
	assert.Empty(t, e.store.auditLogs)
}

func TestAppointmentUsecase_UpdateAppointment(t *testing.T) {
	e := newTestEnv(t)
	uc := newAppointmentUsecase(e)
	patient := e.store.addUser("Mark", "mark@example.com", entity.RolePatient)
	original := e.store.addAppointment(patient.ID, "Dr A", e.now.Add(time.Hour))

	e.expectCommit()
	res, err := uc.UpdateAppointment(adminContext(), original.ID, &dto.UpdateAppointmentRequest{
		RepeatSchedule: patch.Some("monthly"),
	})
	require.NoError(t, err)

	assert.Equal(t, "monthly", res.RepeatSchedule)
	assert.Equal(t, "Dr A", res.Provider, "absent fields keep their value")
	assert.Equal(t, entity.RepeatMonthly, e.store.appointments[original.ID].RepeatSchedule)

	require.Len(t, e.store.auditLogs, 1)
	assert.Equal(t, entity.AuditActionAppointmentUpdate, e.store.auditLogs[0].Action)
	assert.Contains(t, e.store.auditLogs[0].Metadata, "old_value")
	assert.Contains(t, e.store.auditLogs[0].Metadata, "new_value")
}

func TestAppointmentUsecase_UpdateAppointment_ClearsEndDate(t *testing.T) {
	e := newTestEnv(t)
	uc := newAppointmentUsecase(e)
	patient := e.store.addUser("Mark", "mark@example.com", entity.RolePatient)
	original := e.store.addAppointment(patient.ID, "Dr A", e.now.Add(time.Hour))
	end := e.now.Add(90 * 24 * time.Hour)
	original.EndDate = &end
	e.store.appointments[original.ID] = original

	e.expectCommit()
	res, err := uc.UpdateAppointment(adminContext(), original.ID, &dto.UpdateAppointmentRequest{
		EndDate: patch.Null[string](),
	})
	require.NoError(t, err)
	assert.Nil(t, res.EndDate)
	assert.Nil(t, e.store.appointments[original.ID].EndDate)
}

func TestAppointmentUsecase_UpdateAppointment_Invalid(t *testing.T) {
	e := newTestEnv(t)
	uc := newAppointmentUsecase(e)
	patient := e.store.addUser("Mark", "mark@example.com", entity.RolePatient)
	original := e.store.addAppointment(patient.ID, "Dr A", e.now.Add(time.Hour))

	_, err := uc.UpdateAppointment(adminContext(), original.ID, &dto.UpdateAppointmentRequest{
		Provider:       patch.Some(""),
		RepeatSchedule: patch.Some("yearly"),
	})

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "provider")
	assert.Contains(t, verr.Fields, "repeat_schedule")
	assert.Equal(t, original, e.store.appointments[original.ID])
	assert.NoError(t, e.mock.ExpectationsWereMet())
}

func TestAppointmentUsecase_DeleteThenUpdate(t *testing.T) {
	e := newTestEnv(t)
	uc := newAppointmentUsecase(e)
	patient := e.store.addUser("Mark", "mark@example.com", entity.RolePatient)
	original := e.store.addAppointment(patient.ID, "Dr A", e.now.Add(time.Hour))

	e.expectCommit()
	require.NoError(t, uc.DeleteAppointment(adminContext(), original.ID))
	assert.Empty(t, e.store.appointments)

	e.expectRollback()
	_, err := uc.UpdateAppointment(adminContext(), original.ID, &dto.UpdateAppointmentRequest{
		Provider: patch.Some("Dr B"),
	})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)

	e.expectRollback()
	assert.ErrorIs(t, uc.DeleteAppointment(adminContext(), original.ID), ErrAppointmentNotFound)

	_, err = uc.GetAppointment(context.Background(), original.ID)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
	assert.NoError(t, e.mock.ExpectationsWereMet())
}
