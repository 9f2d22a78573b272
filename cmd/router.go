package main

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/cancel_appointment"
	createAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_appointment"
	createBusinessHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_business"
	createReviewHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_review"
	createServiceHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_service"
	deactivateServiceHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/deactivate_service"
	exportUserCalendarHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/export_user_calendar"
	getAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_available_slots"
	getBusinessHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_business"
	getBusinessAppointmentsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_business_appointments"
	getFundingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_funding"
	getPolicyHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_policy"
	getUserAppointmentsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_user_appointments"
	listBusinessesHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/list_businesses"
	listReviewsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/list_reviews"
	listServicesHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/list_services"
	paymentWebhookHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/payment_webhook"
	rescheduleAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/reschedule_appointment"
	updateAppointmentStatusHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_appointment_status"
	updateBusinessHoursHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_business_hours"
	updatePolicyHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_policy"
	updateServiceHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_service"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/config"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/payments"
	appointmentsService "github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
	businessesService "github.com/m04kA/SMC-AppointmentService/internal/service/businesses"
	catalogService "github.com/m04kA/SMC-AppointmentService/internal/service/catalog"
	fundingService "github.com/m04kA/SMC-AppointmentService/internal/service/funding"
	policyService "github.com/m04kA/SMC-AppointmentService/internal/service/policy"
	reviewsService "github.com/m04kA/SMC-AppointmentService/internal/service/reviews"
	createAppointmentUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
	getAvailableSlotsUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
	rescheduleAppointmentUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/reschedule_appointment"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
)

type routerDeps struct {
	cfg      *config.Config
	log      *logger.Logger
	db       *sql.DB
	metrics  *metrics.Metrics
	limiter  middleware.Limiter // nil, если лимит выключен
	location *time.Location

	business *businessesService.Service
	catalog  *catalogService.Service
	policy   *policyService.Service
	appts    *appointmentsService.Service
	reviews  *reviewsService.Service
	funding  *fundingService.Service
	verifier *payments.Verifier

	slots      *getAvailableSlotsUC.UseCase
	create     *createAppointmentUC.UseCase
	reschedule *rescheduleAppointmentUC.UseCase
}

// newRouter собирает HTTP API. Сквозные middleware оборачивают весь роутер,
// чтобы CORS preflight и 404 тоже проходили через них.
func newRouter(d routerDeps) http.Handler {
	log := d.log

	// Инициализируем handlers
	listBusinesses := listBusinessesHandler.NewHandler(d.business, log)
	getBusiness := getBusinessHandler.NewHandler(d.business, log)
	createBusiness := createBusinessHandler.NewHandler(d.business, log)
	updateBusinessHours := updateBusinessHoursHandler.NewHandler(d.business, log)
	listServices := listServicesHandler.NewHandler(d.catalog, log)
	createService := createServiceHandler.NewHandler(d.catalog, log)
	updateService := updateServiceHandler.NewHandler(d.catalog, log)
	deactivateService := deactivateServiceHandler.NewHandler(d.catalog, log)
	getPolicy := getPolicyHandler.NewHandler(d.policy, log)
	updatePolicy := updatePolicyHandler.NewHandler(d.policy, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(d.slots, d.location, log)
	createAppointment := createAppointmentHandler.NewHandler(d.create, log)
	rescheduleAppointment := rescheduleAppointmentHandler.NewHandler(d.reschedule, log)
	getAppointment := getAppointmentHandler.NewHandler(d.appts, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(d.appts, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(d.appts, log)
	getUserAppointments := getUserAppointmentsHandler.NewHandler(d.appts, log)
	exportUserCalendar := exportUserCalendarHandler.NewHandler(d.appts, log)
	getBusinessAppointments := getBusinessAppointmentsHandler.NewHandler(d.appts, log)
	listReviews := listReviewsHandler.NewHandler(d.reviews, log)
	createReview := createReviewHandler.NewHandler(d.reviews, log)
	getFunding := getFundingHandler.NewHandler(d.funding, log)
	paymentWebhook := paymentWebhookHandler.NewHandler(d.verifier, d.funding, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if d.cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(d.metrics))
		r.Handle(d.cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", d.cfg.Metrics.Path)
	}

	r.HandleFunc("/healthz", healthz(d.db)).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()
	if d.limiter != nil {
		api.Use(middleware.RateLimit(d.limiter, d.metrics, d.cfg.RateLimit.FailOpen, log))
	}

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// --- Каталог ---
	api.HandleFunc("/businesses", listBusinesses.Handle).Methods(http.MethodGet)
	api.HandleFunc("/businesses/{businessId}", getBusiness.Handle).Methods(http.MethodGet)
	api.HandleFunc("/businesses/{businessId}/services", listServices.Handle).Methods(http.MethodGet)
	api.HandleFunc("/businesses/{businessId}/policy", getPolicy.Handle).Methods(http.MethodGet)
	api.HandleFunc("/businesses/{businessId}/reviews", listReviews.Handle).Methods(http.MethodGet)

	// Получение доступных слотов для записи
	api.HandleFunc("/businesses/{businessId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// --- Сборы ---
	api.HandleFunc("/funding/{name}", getFunding.Handle).Methods(http.MethodGet)

	// Уведомления платёжного провайдера, аутентификация по подписи
	api.HandleFunc("/webhooks/payments", paymentWebhook.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Управление бизнесом (для владельцев) ---
	protected.HandleFunc("/businesses", createBusiness.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/businesses/{businessId}/hours", updateBusinessHours.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/businesses/{businessId}/services", createService.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/businesses/{businessId}/services/{serviceId}", updateService.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/businesses/{businessId}/services/{serviceId}", deactivateService.Handle).Methods(http.MethodDelete)
	protected.HandleFunc("/businesses/{businessId}/policy", updatePolicy.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/businesses/{businessId}/appointments", getBusinessAppointments.Handle).Methods(http.MethodGet)

	// --- Записи ---
	protected.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{appointmentId}/reschedule", rescheduleAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{appointmentId}/status", updateAppointmentStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{appointmentId}/review", createReview.Handle).Methods(http.MethodPost)

	// --- Пользователь ---
	protected.HandleFunc("/users/me/appointments.ics", exportUserCalendar.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/users/me/appointments", getUserAppointments.Handle).Methods(http.MethodGet)

	var handler http.Handler = r
	handler = middleware.CORS(d.cfg.Server.AllowedOrigins)(handler)
	handler = middleware.AccessLog(log)(handler)
	handler = middleware.RequestID(handler)
	return handler
}
