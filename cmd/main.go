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

	cancelBookingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/cancel_booking"
	cancelBookingByTokenHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/cancel_booking_by_token"
	confirmBookingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/confirm_booking"
	createBookingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_booking"
	getAvailableSlotsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_booking"
	getBookingByTokenHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_booking_by_token"
	getBranchBookingsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_branch_bookings"
	getUserBookingsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_user_bookings"
	updateBookingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_booking"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/config"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
	scheduleRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schedule"
	tenantServiceClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/tenantservice"
	bookingsService "github.com/m04kA/SMC-AppointmentService/internal/service/bookings"
	checkAvailabilityUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/check_availability"
	createBookingUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_booking"
	updateBookingUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/update_booking"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
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

	log.Info("Starting SMC-AppointmentService...")
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

	// Инициализируем клиента TenantService
	tenantClient := tenantServiceClient.NewClient(
		cfg.TenantService.URL,
		time.Duration(cfg.TenantService.Timeout)*time.Second,
		log,
	)
	log.Info("TenantService client initialized (url=%s, timeout=%ds)",
		cfg.TenantService.URL, cfg.TenantService.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository  *bookingRepo.Repository
		scheduleRepository *scheduleRepo.Repository
	)

	// Интерфейс transaction manager, общий для обеих реализаций
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		scheduleRepository = scheduleRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		scheduleRepository = scheduleRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервис бронирований (чтения + машина состояний)
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		tenantClient,
		log,
	)

	// Инициализируем use cases
	checkAvailabilityUseCase := checkAvailabilityUC.NewUseCase(
		scheduleRepository,
		bookingRepository,
		tenantClient,
		log,
	)

	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		scheduleRepository,
		tenantClient,
		txMgr,
		log,
	)

	updateBookingUseCase := updateBookingUC.NewUseCase(
		bookingRepository,
		scheduleRepository,
		tenantClient,
		txMgr,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(checkAvailabilityUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	updateBooking := updateBookingHandler.NewHandler(updateBookingUseCase, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getBranchBookings := getBranchBookingsHandler.NewHandler(bookingSvc, log)
	getBookingByToken := getBookingByTokenHandler.NewHandler(bookingSvc, log)
	confirmBooking := confirmBookingHandler.NewHandler(bookingSvc, log)
	cancelBookingByToken := cancelBookingByTokenHandler.NewHandler(bookingSvc, log)

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

	// Получение доступных слотов для бронирования
	api.HandleFunc("/branches/{branchId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Анонимные операции по confirmation token (тенант определяется slug'ом)
	api.HandleFunc("/public/{customerSlug}/bookings/{token}",
		getBookingByToken.Handle).Methods(http.MethodGet)
	api.HandleFunc("/public/{customerSlug}/bookings/{token}/confirm",
		confirmBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/public/{customerSlug}/bookings/{token}/cancel",
		cancelBookingByToken.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют заголовки шлюза)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Создание бронирования
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Частичное обновление (статус / перенос времени / смена профессионала)
	protected.HandleFunc("/bookings/{bookingId}", updateBooking.Handle).Methods(http.MethodPatch)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// История бронирований пользователя
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Управление филиалом (для администраторов) ---
	// Список бронирований филиала
	protected.HandleFunc("/branches/{branchId}/bookings", getBranchBookings.Handle).Methods(http.MethodGet)

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
