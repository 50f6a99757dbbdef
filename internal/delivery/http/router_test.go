package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"clinic-portal/config"
	"clinic-portal/internal/delivery/dto"
	"clinic-portal/internal/delivery/http/handler"
	"clinic-portal/internal/delivery/http/middleware"
	"clinic-portal/internal/infrastructure/metrics"
	"clinic-portal/internal/service"
	"clinic-portal/internal/usecase"
	"clinic-portal/pkg/jwt"
	"clinic-portal/pkg/validator"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuth struct{ usecase.AuthUsecase }

func (stubAuth) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	return nil, usecase.ErrInvalidCredentials
}

type stubPatients struct{ usecase.PatientUsecase }

func (stubPatients) GetAllPatients(ctx context.Context) (*dto.PatientListResponse, error) {
	return &dto.PatientListResponse{Patients: []dto.PatientSummaryResponse{}}, nil
}

type stubAppointments struct {
	usecase.AppointmentUsecase
	userID int64
}

func (s *stubAppointments) ListUpcoming(ctx context.Context, userID int64) (*dto.AppointmentListResponse, error) {
	s.userID = userID
	return &dto.AppointmentListResponse{Appointments: []dto.AppointmentResponse{}}, nil
}

type routerFixture struct {
	handler      http.Handler
	jwtService   *jwt.JWTService
	tokens       service.TokenStore
	appointments *stubAppointments
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)

	jwtService := jwt.NewJWTService(config.JWTConfig{Secret: "secret", AccessExpiry: time.Minute, RefreshExpiry: time.Hour})
	tokens := service.NewTokenStore(client)

	limiter := middleware.NewRateLimiter(0.001, 2, false)
	t.Cleanup(limiter.Stop)

	reg := prometheus.NewRegistry()
	appointments := &stubAppointments{}

	router := NewRouter(
		Handlers{
			Auth:         handler.NewAuthHandler(stubAuth{}, validator.NewValidator()),
			Patient:      handler.NewPatientHandler(stubPatients{}),
			Appointment:  handler.NewAppointmentHandler(appointments),
			Prescription: handler.NewPrescriptionHandler(nil),
			Reference:    handler.NewReferenceHandler(nil),
			AuditLog:     handler.NewAuditLogHandler(nil),
			Health:       handler.NewHealthHandler(nil),
		},
		log,
		middleware.NewAuthMiddleware(jwtService, tokens, log),
		middleware.NewCORSMiddleware(""),
		limiter,
		metrics.NewHTTPMetrics(reg),
		reg,
	)

	return &routerFixture{
		handler:      router.Setup(),
		jwtService:   jwtService,
		tokens:       tokens,
		appointments: appointments,
	}
}

func (f *routerFixture) token(t *testing.T, userID int64, role string) string {
	t.Helper()
	token, tokenID, err := f.jwtService.GenerateAccessToken(jwt.Subject{UserID: userID, Role: role})
	require.NoError(t, err)
	require.NoError(t, f.tokens.Store(context.Background(), jwt.AccessToken, userID, tokenID, time.Minute))
	return token
}

func (f *routerFixture) do(method, target, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Health(t *testing.T) {
	f := newRouterFixture(t)
	rec := f.do(http.MethodGet, "/api/v1/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
}

func TestRouter_AdminAccess(t *testing.T) {
	f := newRouterFixture(t)

	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/api/v1/admin/patients", "", "").Code)
	assert.Equal(t, http.StatusForbidden, f.do(http.MethodGet, "/api/v1/admin/patients", f.token(t, 2, "patient"), "").Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/v1/admin/patients", f.token(t, 1, "admin"), "").Code)
}

func TestRouter_SelfRoutesUseCaller(t *testing.T) {
	f := newRouterFixture(t)

	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/api/v1/appointments/upcoming", "", "").Code)

	rec := f.do(http.MethodGet, "/api/v1/appointments/upcoming", f.token(t, 5, "patient"), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(5), f.appointments.userID)
}

func TestRouter_Preflight(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(http.MethodOptions, "/api/v1/admin/patients", "", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_LoginRateLimited(t *testing.T) {
	f := newRouterFixture(t)
	body := `{"email":"mark@example.com","password":"wrong"}`

	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodPost, "/api/v1/auth/login", "", body).Code)
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodPost, "/api/v1/auth/login", "", body).Code)
	assert.Equal(t, http.StatusTooManyRequests, f.do(http.MethodPost, "/api/v1/auth/login", "", body).Code)
}

func TestRouter_Metrics(t *testing.T) {
	f := newRouterFixture(t)
	f.do(http.MethodGet, "/api/v1/health", "", "")

	rec := f.do(http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `clinic_http_requests_total{method="GET",route="/api/v1/health",status="2xx"} 1`)
}
