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

	cancelAppointmentHandler "github.com/m04kA/SBS-AvailabilityService/internal/api/handlers/cancel_appointment"
	createAppointmentHandler "github.com/m04kA/SBS-AvailabilityService/internal/api/handlers/create_appointment"
	getAppointmentHandler "github.com/m04kA/SBS-AvailabilityService/internal/api/handlers/get_appointment"
	getAvailableNowHandler "github.com/m04kA/SBS-AvailabilityService/internal/api/handlers/get_available_now"
	getBookingSettingsHandler "github.com/m04kA/SBS-AvailabilityService/internal/api/handlers/get_booking_settings"
	getBusinessAppointmentsHandler "github.com/m04kA/SBS-AvailabilityService/internal/api/handlers/get_business_appointments"
	getClientAppointmentsHandler "github.com/m04kA/SBS-AvailabilityService/internal/api/handlers/get_client_appointments"
	getDaySlotsHandler "github.com/m04kA/SBS-AvailabilityService/internal/api/handlers/get_day_slots"
	updateAppointmentStatusHandler "github.com/m04kA/SBS-AvailabilityService/internal/api/handlers/update_appointment_status"
	updateBookingSettingsHandler "github.com/m04kA/SBS-AvailabilityService/internal/api/handlers/update_booking_settings"
	updatePaymentStatusHandler "github.com/m04kA/SBS-AvailabilityService/internal/api/handlers/update_payment_status"
	"github.com/m04kA/SBS-AvailabilityService/internal/api/middleware"
	"github.com/m04kA/SBS-AvailabilityService/internal/config"
	appointmentRepo "github.com/m04kA/SBS-AvailabilityService/internal/infra/storage/appointment"
	settingsRepo "github.com/m04kA/SBS-AvailabilityService/internal/infra/storage/settings"
	timeBlockRepo "github.com/m04kA/SBS-AvailabilityService/internal/infra/storage/timeblock"
	businessServiceClient "github.com/m04kA/SBS-AvailabilityService/internal/integrations/businessservice"
	appointmentsService "github.com/m04kA/SBS-AvailabilityService/internal/service/appointments"
	settingsService "github.com/m04kA/SBS-AvailabilityService/internal/service/settings"
	createAppointmentUC "github.com/m04kA/SBS-AvailabilityService/internal/usecase/create_appointment"
	getAvailableNowUC "github.com/m04kA/SBS-AvailabilityService/internal/usecase/get_available_now"
	getDaySlotsUC "github.com/m04kA/SBS-AvailabilityService/internal/usecase/get_day_slots"
	"github.com/m04kA/SBS-AvailabilityService/pkg/dbmetrics"
	"github.com/m04kA/SBS-AvailabilityService/pkg/logger"
	"github.com/m04kA/SBS-AvailabilityService/pkg/metrics"
	"github.com/m04kA/SBS-AvailabilityService/pkg/simpletxmanager"
	"github.com/m04kA/SBS-AvailabilityService/pkg/txmanager"
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

	log.Info("Starting SBS-AvailabilityService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

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

	// Инициализируем интеграционного клиента
	businessClient := businessServiceClient.NewClient(
		cfg.BusinessService.URL,
		time.Duration(cfg.BusinessService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration client initialized (BusinessService=%s timeout=%ds)",
		cfg.BusinessService.URL, cfg.BusinessService.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		appointmentRepository *appointmentRepo.Repository
		timeBlockRepository   *timeBlockRepo.Repository
		settingsRepository    *settingsRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		appointmentRepository = appointmentRepo.NewRepository(wrappedDB)
		timeBlockRepository = timeBlockRepo.NewRepository(wrappedDB)
		settingsRepository = settingsRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		appointmentRepository = appointmentRepo.NewRepository(db)
		timeBlockRepository = timeBlockRepo.NewRepository(db)
		settingsRepository = settingsRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	appointmentSvc := appointmentsService.NewService(
		appointmentRepository,
		businessClient,
		log,
	)
	settingsSvc := settingsService.NewService(
		settingsRepository,
		businessClient,
		log,
	)

	// Инициализируем use cases
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		timeBlockRepository,
		settingsRepository,
		businessClient,
		txMgr,
		log,
	)

	getAvailableNowUseCase := getAvailableNowUC.NewUseCase(
		appointmentRepository,
		timeBlockRepository,
		businessClient,
		log,
	)

	getDaySlotsUseCase := getDaySlotsUC.NewUseCase(
		appointmentRepository,
		timeBlockRepository,
		settingsRepository,
		businessClient,
		log,
	)

	// Инициализируем handlers
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	getAvailableNow := getAvailableNowHandler.NewHandler(getAvailableNowUseCase, log)
	getDaySlots := getDaySlotsHandler.NewHandler(getDaySlotsUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentSvc, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(appointmentSvc, log)
	updatePaymentStatus := updatePaymentStatusHandler.NewHandler(appointmentSvc, log)
	getClientAppointments := getClientAppointmentsHandler.NewHandler(appointmentSvc, log)
	getBusinessAppointments := getBusinessAppointmentsHandler.NewHandler(appointmentSvc, log)
	getBookingSettings := getBookingSettingsHandler.NewHandler(settingsSvc, log)
	updateBookingSettings := updateBookingSettingsHandler.NewHandler(settingsSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Мастера, свободные прямо сейчас
	api.HandleFunc("/businesses/{businessId}/available-now",
		getAvailableNow.Handle).Methods(http.MethodGet)

	// Сетка слотов на день
	api.HandleFunc("/businesses/{businessId}/slots",
		getDaySlots.Handle).Methods(http.MethodGet)

	// Настройки бронирования бизнеса
	api.HandleFunc("/businesses/{businessId}/booking-settings",
		getBookingSettings.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи ---
	// Создание записи
	protected.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)

	// Получение записи по ID
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)

	// Отмена записи
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)

	// Обновление статуса записи (для менеджеров)
	protected.HandleFunc("/appointments/{appointmentId}/status", updateAppointmentStatus.Handle).Methods(http.MethodPatch)

	// Обновление статуса оплаты (для менеджеров)
	protected.HandleFunc("/appointments/{appointmentId}/payment-status", updatePaymentStatus.Handle).Methods(http.MethodPatch)

	// История записей клиента
	protected.HandleFunc("/clients/{clientId}/appointments", getClientAppointments.Handle).Methods(http.MethodGet)

	// --- Управление бизнесом (для менеджеров) ---
	// Список записей бизнеса
	protected.HandleFunc("/businesses/{businessId}/appointments", getBusinessAppointments.Handle).Methods(http.MethodGet)

	// Обновление настроек бронирования
	protected.HandleFunc("/businesses/{businessId}/booking-settings", updateBookingSettings.Handle).Methods(http.MethodPut)

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

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

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
