package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/config"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/events"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	businessRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/business"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
	fundingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/funding"
	outboxRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/outbox"
	policyRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/policy"
	reviewRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/review"
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
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/tracing"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Close()

	log.Info("Starting %s...", serviceName)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	location, err := cfg.Schedule.Location()
	if err != nil {
		return fmt.Errorf("invalid schedule timezone: %w", err)
	}

	// Трейсинг (при выключенном только пропагаторы)
	shutdownTracing, err := tracing.Setup(ctx, tracing.Config{
		Enabled:      cfg.Tracing.Enabled,
		ServiceName:  cfg.Metrics.ServiceName,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		SampleRatio:  cfg.Tracing.SampleRatio,
	})
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Warn("Failed to flush traces: %v", err)
		}
	}()
	if cfg.Tracing.Enabled {
		log.Info("Tracing enabled, exporting to %s", cfg.Tracing.OTLPEndpoint)
	}

	// Инициализируем метрики (если включены). Методы Metrics допускают nil.
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	db, err := openDB(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	if apply, _ := cmd.Flags().GetBool("migrate"); apply {
		if err := migrate(ctx, db, log); err != nil {
			return err
		}
	}

	stopMetricsCh := make(chan struct{})
	defer close(stopMetricsCh)

	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil, cfg.Metrics.ServiceName)
	}
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Инициализируем репозитории
	businessRepository := businessRepo.NewRepository(wrappedDB)
	catalogRepository := catalogRepo.NewRepository(wrappedDB)
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)
	policyRepository := policyRepo.NewRepository(wrappedDB)
	reviewRepository := reviewRepo.NewRepository(wrappedDB)
	fundingRepository := fundingRepo.NewRepository(wrappedDB)
	outboxRepository := outboxRepo.NewRepository(wrappedDB)

	// Инициализируем сервисы
	businessSvc := businessesService.NewService(businessRepository, txMgr, log)
	catalogSvc := catalogService.NewService(catalogRepository, businessRepository, log)
	policySvc := policyService.NewService(policyRepository, businessRepository, catalogRepository, txMgr, log)
	appointmentSvc := appointmentsService.NewService(appointmentRepository, businessRepository, outboxRepository, txMgr, location, log)
	reviewSvc := reviewsService.NewService(reviewRepository, appointmentRepository, businessRepository, log)
	fundingSvc := fundingService.NewService(fundingRepository, txMgr, log)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		businessRepository,
		catalogRepository,
		appointmentRepository,
		policyRepository,
		metricsCollector,
		location,
		log,
	)
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		businessRepository,
		catalogRepository,
		appointmentRepository,
		policyRepository,
		outboxRepository,
		txMgr,
		metricsCollector,
		location,
		log,
	)
	rescheduleAppointmentUseCase := rescheduleAppointmentUC.NewUseCase(
		appointmentRepository,
		businessRepository,
		policyRepository,
		outboxRepository,
		txMgr,
		location,
		log,
	)

	verifier := payments.NewVerifier(cfg.Payments.WebhookSecret, cfg.Payments.WebhookTolerance(), cfg.Payments.DefaultCounter)
	if cfg.Payments.WebhookSecret == "" {
		log.Warn("Payments webhook secret is not set, webhook endpoint will answer 503")
	}

	limiter, closeLimiter := newLimiter(ctx, cfg, log)
	defer closeLimiter()

	router := newRouter(routerDeps{
		cfg:        cfg,
		log:        log,
		db:         db,
		metrics:    metricsCollector,
		limiter:    limiter,
		location:   location,
		business:   businessSvc,
		catalog:    catalogSvc,
		policy:     policySvc,
		appts:      appointmentSvc,
		reviews:    reviewSvc,
		funding:    fundingSvc,
		verifier:   verifier,
		slots:      getAvailableSlotsUseCase,
		create:     createAppointmentUseCase,
		reschedule: rescheduleAppointmentUseCase,
	})

	// Публикация событий из outbox
	publisherDone := make(chan struct{})
	if cfg.Kafka.Enabled {
		publisher := events.NewPublisher(
			txMgr,
			outboxRepository,
			events.NewKafkaWriter(cfg.Kafka.Brokers),
			metricsCollector,
			log,
			events.Config{
				PollInterval: cfg.Kafka.PollInterval(),
				BatchSize:    cfg.Kafka.BatchSize,
			},
		)
		go func() {
			defer close(publisherDone)
			publisher.Run(ctx)
		}()
		log.Info("Outbox publisher enabled (brokers=%v)", cfg.Kafka.Brokers)
	} else {
		close(publisherDone)
		log.Info("Kafka disabled, outbox events are kept in the database")
	}

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      otelhttp.NewHandler(router, serviceName),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Ожидаем сигнал завершения или падение сервера
	select {
	case <-ctx.Done():
		log.Info("Shutting down server...")
	case err := <-serverErr:
		if err != nil {
			stop()
			<-publisherDone
			return fmt.Errorf("server failed: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	stop()
	<-publisherDone

	log.Info("Server stopped gracefully")
	return nil
}

// newLimiter выбирает хранилище лимитера: Redis, если он включён и доступен, иначе память процесса
func newLimiter(ctx context.Context, cfg *config.Config, log *logger.Logger) (middleware.Limiter, func()) {
	noop := func() {}
	if !cfg.RateLimit.Enabled {
		return nil, noop
	}

	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		err := rdb.Ping(pingCtx).Err()
		if err == nil {
			log.Info("Rate limit backed by Redis at %s (limit=%d per %s)",
				cfg.Redis.Addr, cfg.RateLimit.Limit, cfg.RateLimit.Window())
			return middleware.NewRedisLimiter(rdb, cfg.RateLimit.Limit, cfg.RateLimit.Window(), cfg.RateLimit.Prefix),
				func() { _ = rdb.Close() }
		}
		log.Warn("Redis is unavailable, falling back to in-memory rate limit: %v", err)
		_ = rdb.Close()
	}

	log.Info("Rate limit in memory (limit=%d per %s)", cfg.RateLimit.Limit, cfg.RateLimit.Window())
	return middleware.NewMemoryLimiter(cfg.RateLimit.Limit, cfg.RateLimit.Window()), noop
}

// healthz проверяет доступность базы данных
func healthz(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
