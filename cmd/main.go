package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	createBookingHandler "github.com/dkomnin/SBS-BookingService/internal/api/handlers/create_booking"
	deleteAppointmentHandler "github.com/dkomnin/SBS-BookingService/internal/api/handlers/delete_appointment"
	getAppointmentHandler "github.com/dkomnin/SBS-BookingService/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/dkomnin/SBS-BookingService/internal/api/handlers/get_available_slots"
	getBusinessAppointmentsHandler "github.com/dkomnin/SBS-BookingService/internal/api/handlers/get_business_appointments"
	resolveDepositHandler "github.com/dkomnin/SBS-BookingService/internal/api/handlers/resolve_deposit"
	runReconciliationHandler "github.com/dkomnin/SBS-BookingService/internal/api/handlers/run_reconciliation"
	submitDepositHandler "github.com/dkomnin/SBS-BookingService/internal/api/handlers/submit_deposit"
	updateStatusHandler "github.com/dkomnin/SBS-BookingService/internal/api/handlers/update_appointment_status"
	"github.com/dkomnin/SBS-BookingService/internal/api/middleware"
	"github.com/dkomnin/SBS-BookingService/internal/config"
	appointmentRepo "github.com/dkomnin/SBS-BookingService/internal/infra/storage/appointment"
	businessRepo "github.com/dkomnin/SBS-BookingService/internal/infra/storage/business"
	clientRepo "github.com/dkomnin/SBS-BookingService/internal/infra/storage/client"
	notificationRepo "github.com/dkomnin/SBS-BookingService/internal/infra/storage/notification"
	serviceRepo "github.com/dkomnin/SBS-BookingService/internal/infra/storage/service"
	stylistRepo "github.com/dkomnin/SBS-BookingService/internal/infra/storage/stylist"
	appointmentsService "github.com/dkomnin/SBS-BookingService/internal/service/appointments"
	depositsService "github.com/dkomnin/SBS-BookingService/internal/service/deposits"
	createBookingUC "github.com/dkomnin/SBS-BookingService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/dkomnin/SBS-BookingService/internal/usecase/get_available_slots"
	reconcileUC "github.com/dkomnin/SBS-BookingService/internal/usecase/reconcile_deadlines"
	"github.com/dkomnin/SBS-BookingService/internal/worker/reconciler"
	"github.com/dkomnin/SBS-BookingService/pkg/dbmetrics"
	"github.com/dkomnin/SBS-BookingService/pkg/logger"
	"github.com/dkomnin/SBS-BookingService/pkg/metrics"
	"github.com/dkomnin/SBS-BookingService/pkg/simpletxmanager"
	"github.com/dkomnin/SBS-BookingService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SBS-BookingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем репозитории (с метриками или без)
	var (
		appointmentRepository  *appointmentRepo.Repository
		businessRepository     *businessRepo.Repository
		stylistRepository      *stylistRepo.Repository
		serviceRepository      *serviceRepo.Repository
		clientRepository       *clientRepo.Repository
		notificationRepository *notificationRepo.Repository
	)

	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopCh)
		log.Info("Database metrics collection started")

		appointmentRepository = appointmentRepo.NewRepository(wrappedDB)
		businessRepository = businessRepo.NewRepository(wrappedDB)
		stylistRepository = stylistRepo.NewRepository(wrappedDB)
		serviceRepository = serviceRepo.NewRepository(wrappedDB)
		clientRepository = clientRepo.NewRepository(wrappedDB)
		notificationRepository = notificationRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		appointmentRepository = appointmentRepo.NewRepository(db)
		businessRepository = businessRepo.NewRepository(db)
		stylistRepository = stylistRepo.NewRepository(db)
		serviceRepository = serviceRepo.NewRepository(db)
		clientRepository = clientRepo.NewRepository(db)
		notificationRepository = notificationRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	appointmentsSvc := appointmentsService.NewService(
		appointmentRepository,
		clientRepository,
		txMgr,
		log,
	)
	depositsSvc := depositsService.NewService(
		appointmentRepository,
		notificationRepository,
		txMgr,
		log,
	)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		appointmentRepository,
		businessRepository,
		stylistRepository,
		log,
	)

	createBookingUseCase := createBookingUC.NewUseCase(
		appointmentRepository,
		businessRepository,
		stylistRepository,
		serviceRepository,
		clientRepository,
		notificationRepository,
		txMgr,
		log,
	)

	reconcileUseCase := reconcileUC.NewUseCase(
		appointmentRepository,
		notificationRepository,
		txMgr,
		time.Duration(cfg.Reconciler.WarningWindowMinutes)*time.Minute,
		time.Duration(cfg.Reconciler.DedupWindowMinutes)*time.Minute,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	submitDeposit := submitDepositHandler.NewHandler(depositsSvc, log)
	resolveDeposit := resolveDepositHandler.NewHandler(depositsSvc, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	getBusinessAppointments := getBusinessAppointmentsHandler.NewHandler(appointmentsSvc, log)
	updateStatus := updateStatusHandler.NewHandler(appointmentsSvc, log)
	deleteAppointment := deleteAppointmentHandler.NewHandler(appointmentsSvc, log)
	runReconciliation := runReconciliationHandler.NewHandler(reconcileUseCase, cfg.Reconciler.Token, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		log.Info("HTTP metrics middleware enabled")

		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (клиентская страница бронирования, rate limit по IP)
	// ============================================================

	rateLimiter := middleware.NewRateLimiter(cfg.Public.RateLimitRPS, cfg.Public.RateLimitBurst, stopCh)
	public := api.PathPrefix("/public").Subrouter()
	public.Use(rateLimiter.Limit)

	// Слоты мастера на дату
	public.HandleFunc("/{slug}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Создание записи
	public.HandleFunc("/{slug}/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Отметка об оплате депозита (авторизация по booking reference)
	public.HandleFunc("/appointments/{appointmentId}/deposit", submitDeposit.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (панель салона, требуют X-Business-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// Список записей бизнеса с фильтрацией
	protected.HandleFunc("/appointments", getBusinessAppointments.Handle).Methods(http.MethodGet)

	// Запись по ID
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)

	// Смена статуса записи
	protected.HandleFunc("/appointments/{appointmentId}/status", updateStatus.Handle).Methods(http.MethodPatch)

	// Решение по депозиту (confirm / reject / waive)
	protected.HandleFunc("/appointments/{appointmentId}/deposit/resolve", resolveDeposit.Handle).Methods(http.MethodPost)

	// Удаление неоплаченной записи
	protected.HandleFunc("/appointments/{appointmentId}", deleteAppointment.Handle).Methods(http.MethodDelete)

	// ============================================================
	// INTERNAL ROUTES (служебные, shared secret)
	// ============================================================

	r.HandleFunc("/internal/reconcile", runReconciliation.Handle).Methods(http.MethodPost)

	// Запускаем фоновый реконсайлер
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()

	if cfg.Reconciler.Enabled {
		w := reconciler.NewWorker(
			reconcileUseCase,
			time.Duration(cfg.Reconciler.IntervalMinutes)*time.Minute,
			log,
		)
		go w.Run(workerCtx)
	} else {
		log.Warn("Reconciler worker disabled, payment deadlines will not be swept automatically")
	}

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем воркер и фоновые горутины
	stopWorker()
	close(stopCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
