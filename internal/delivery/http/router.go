package http

import (
	"net/http"

	"clinic-portal/internal/delivery/http/handler"
	"clinic-portal/internal/delivery/http/middleware"
	"clinic-portal/internal/infrastructure/metrics"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Handlers groups the HTTP handlers mounted by the router.
type Handlers struct {
	Auth         *handler.AuthHandler
	Patient      *handler.PatientHandler
	Appointment  *handler.AppointmentHandler
	Prescription *handler.PrescriptionHandler
	Reference    *handler.ReferenceHandler
	AuditLog     *handler.AuditLogHandler
	Health       *handler.HealthHandler
}

type Router struct {
	router         *mux.Router
	handlers       Handlers
	log            *logrus.Logger
	authMiddleware *middleware.AuthMiddleware
	corsMiddleware *middleware.CORSMiddleware
	loginLimiter   *middleware.RateLimiter
	metrics        *metrics.HTTPMetrics
	gatherer       prometheus.Gatherer
}

func NewRouter(
	handlers Handlers,
	log *logrus.Logger,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	loginLimiter *middleware.RateLimiter,
	httpMetrics *metrics.HTTPMetrics,
	gatherer prometheus.Gatherer,
) *Router {
	return &Router{
		router:         mux.NewRouter(),
		handlers:       handlers,
		log:            log,
		authMiddleware: authMiddleware,
		corsMiddleware: corsMiddleware,
		loginLimiter:   loginLimiter,
		metrics:        httpMetrics,
		gatherer:       gatherer,
	}
}

// Setup registers every route. Logging and CORS wrap the whole router so
// that unmatched paths and preflight requests pass through them too.
func (r *Router) Setup() http.Handler {
	h := r.handlers

	r.router.Handle("/metrics", promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", h.Health.Health).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.Handle("/login", r.loginLimiter.Limit(http.HandlerFunc(h.Auth.Login))).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", h.Auth.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", h.Auth.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/verify", h.Auth.Verify).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", h.Auth.GetCurrentUser).Methods(http.MethodGet)

	// Reference lists (public)
	api.HandleFunc("/reference/medications", h.Reference.GetMedications).Methods(http.MethodGet)
	api.HandleFunc("/reference/dosages", h.Reference.GetDosages).Methods(http.MethodGet)

	// Own records (any authenticated user)
	self := api.NewRoute().Subrouter()
	self.Use(r.authMiddleware.Authenticate)
	self.HandleFunc("/appointments/upcoming", h.Appointment.GetUpcoming).Methods(http.MethodGet)
	self.HandleFunc("/appointments", h.Appointment.GetMyAppointments).Methods(http.MethodGet)
	self.HandleFunc("/prescriptions/refills", h.Prescription.GetRefills).Methods(http.MethodGet)
	self.HandleFunc("/prescriptions", h.Prescription.GetMyPrescriptions).Methods(http.MethodGet)

	// Admin routes (protected - admin only)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)

	// Patient management (admin)
	admin.HandleFunc("/patients", h.Patient.CreatePatient).Methods(http.MethodPost)
	admin.HandleFunc("/patients", h.Patient.GetAllPatients).Methods(http.MethodGet)
	admin.HandleFunc("/patients/{id}", h.Patient.GetPatient).Methods(http.MethodGet)
	admin.HandleFunc("/patients/{id}", h.Patient.UpdatePatient).Methods(http.MethodPut)
	admin.HandleFunc("/patients/{id}", h.Patient.DeletePatient).Methods(http.MethodDelete)

	// Appointment management (admin)
	admin.HandleFunc("/patients/{id}/appointments", h.Appointment.CreateAppointment).Methods(http.MethodPost)
	admin.HandleFunc("/patients/{id}/appointments", h.Appointment.GetPatientAppointments).Methods(http.MethodGet)
	admin.HandleFunc("/appointments/{id}", h.Appointment.GetAppointment).Methods(http.MethodGet)
	admin.HandleFunc("/appointments/{id}", h.Appointment.UpdateAppointment).Methods(http.MethodPut)
	admin.HandleFunc("/appointments/{id}", h.Appointment.DeleteAppointment).Methods(http.MethodDelete)

	// Prescription management (admin)
	admin.HandleFunc("/patients/{id}/prescriptions", h.Prescription.CreatePrescription).Methods(http.MethodPost)
	admin.HandleFunc("/patients/{id}/prescriptions", h.Prescription.GetPatientPrescriptions).Methods(http.MethodGet)
	admin.HandleFunc("/prescriptions/{id}", h.Prescription.GetPrescription).Methods(http.MethodGet)
	admin.HandleFunc("/prescriptions/{id}", h.Prescription.UpdatePrescription).Methods(http.MethodPut)
	admin.HandleFunc("/prescriptions/{id}", h.Prescription.DeletePrescription).Methods(http.MethodDelete)

	// Audit trail (admin)
	admin.HandleFunc("/audit-logs", h.AuditLog.GetAllAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id}", h.AuditLog.GetAuditLog).Methods(http.MethodGet)

	r.router.Use(middleware.Metrics(r.metrics))

	return middleware.Logging(r.log)(r.corsMiddleware.Handle(r.router))
}
