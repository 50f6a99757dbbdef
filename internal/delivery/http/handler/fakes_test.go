package handler

import (
	"context"

	"clinic-portal/internal/delivery/dto"
	"clinic-portal/internal/delivery/http/middleware"
)

type fakeAuthUsecase struct {
	login   func(req *dto.LoginRequest) (*dto.TokenResponse, error)
	logout  func(identity middleware.Identity, refreshToken string) error
	refresh func(req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	me      func(userID int64) (*dto.UserResponse, error)
}

func (f *fakeAuthUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	return f.login(req)
}

func (f *fakeAuthUsecase) Logout(ctx context.Context, identity middleware.Identity, refreshToken string) error {
	return f.logout(identity, refreshToken)
}

func (f *fakeAuthUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	return f.refresh(req)
}

func (f *fakeAuthUsecase) GetCurrentUser(ctx context.Context, userID int64) (*dto.UserResponse, error) {
	return f.me(userID)
}

type fakeAppointmentUsecase struct {
	lastUserID int64
	list       *dto.AppointmentListResponse
	err        error
	created    *dto.AppointmentResponse
}

func (f *fakeAppointmentUsecase) ListUpcoming(ctx context.Context, userID int64) (*dto.AppointmentListResponse, error) {
	f.lastUserID = userID
	return f.list, f.err
}

func (f *fakeAppointmentUsecase) ListByUser(ctx context.Context, userID int64) (*dto.AppointmentListResponse, error) {
	f.lastUserID = userID
	return f.list, f.err
}

func (f *fakeAppointmentUsecase) ListByPatient(ctx context.Context, patientID int64) (*dto.AppointmentListResponse, error) {
	f.lastUserID = patientID
	return f.list, f.err
}

func (f *fakeAppointmentUsecase) GetAppointment(ctx context.Context, id int64) (*dto.AppointmentResponse, error) {
	return f.created, f.err
}

func (f *fakeAppointmentUsecase) CreateAppointment(ctx context.Context, patientID int64, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	f.lastUserID = patientID
	return f.created, f.err
}

func (f *fakeAppointmentUsecase) UpdateAppointment(ctx context.Context, id int64, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	return f.created, f.err
}

func (f *fakeAppointmentUsecase) DeleteAppointment(ctx context.Context, id int64) error {
	return f.err
}

type fakePrescriptionUsecase struct {
	lastUserID int64
	lastPatch  *dto.UpdatePrescriptionRequest
	list       *dto.PrescriptionListResponse
	item       *dto.PrescriptionResponse
	err        error
}

func (f *fakePrescriptionUsecase) ListRefills(ctx context.Context, userID int64) (*dto.PrescriptionListResponse, error) {
	f.lastUserID = userID
	return f.list, f.err
}

func (f *fakePrescriptionUsecase) ListByUser(ctx context.Context, userID int64) (*dto.PrescriptionListResponse, error) {
	f.lastUserID = userID
	return f.list, f.err
}

func (f *fakePrescriptionUsecase) ListByPatient(ctx context.Context, patientID int64) (*dto.PrescriptionListResponse, error) {
	f.lastUserID = patientID
	return f.list, f.err
}

func (f *fakePrescriptionUsecase) GetPrescription(ctx context.Context, id int64) (*dto.PrescriptionResponse, error) {
	return f.item, f.err
}

func (f *fakePrescriptionUsecase) CreatePrescription(ctx context.Context, patientID int64, req *dto.CreatePrescriptionRequest) (*dto.PrescriptionResponse, error) {
	return f.item, f.err
}

func (f *fakePrescriptionUsecase) UpdatePrescription(ctx context.Context, id int64, req *dto.UpdatePrescriptionRequest) (*dto.PrescriptionResponse, error) {
	f.lastPatch = req
	return f.item, f.err
}

func (f *fakePrescriptionUsecase) DeletePrescription(ctx context.Context, id int64) error {
	return f.err
}

type fakePatientUsecase struct {
	user *dto.UserResponse
	err  error
}

func (f *fakePatientUsecase) CreatePatient(ctx context.Context, req *dto.CreatePatientRequest) (*dto.UserResponse, error) {
	return f.user, f.err
}

func (f *fakePatientUsecase) GetAllPatients(ctx context.Context) (*dto.PatientListResponse, error) {
	return &dto.PatientListResponse{}, f.err
}

func (f *fakePatientUsecase) GetPatient(ctx context.Context, id int64) (*dto.PatientDetailResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dto.PatientDetailResponse{UserResponse: *f.user}, nil
}

func (f *fakePatientUsecase) UpdatePatient(ctx context.Context, id int64, req *dto.UpdatePatientRequest) (*dto.UserResponse, error) {
	return f.user, f.err
}

func (f *fakePatientUsecase) DeletePatient(ctx context.Context, id int64) error {
	return f.err
}

type fakeReferenceUsecase struct {
	err error
}

func (f *fakeReferenceUsecase) ListMedications(ctx context.Context) (*dto.MedicationListResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dto.MedicationListResponse{
		Medications: []dto.MedicationResponse{{ID: 1, Name: "Diovan"}},
		Total:       1,
	}, nil
}

func (f *fakeReferenceUsecase) ListDosages(ctx context.Context) (*dto.DosageListResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dto.DosageListResponse{Dosages: []dto.DosageResponse{{ID: 1, Value: "1mg"}}, Total: 1}, nil
}

func (f *fakeReferenceUsecase) WarmCache(ctx context.Context) error {
	return f.err
}
