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
	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	cancelAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/cancel_appointment"
	createAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_appointment"
	getAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_appointment"
	getAvailabilityHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_availability"
	getSlotConfigHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_slot_config"
	getClientAppointmentsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_client_appointments"
	getStaffAppointmentsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_staff_appointments"
	updateSlotConfigHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_slot_config"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/config"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/cache"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	slotConfigRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/slotconfig"
	tenantRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/tenant"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/clientdirectory"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifier"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
	appointmentsService "github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
	"github.com/m04kA/SMC-AppointmentService/internal/service/dayplan"
	slotConfigService "github.com/m04kA/SMC-AppointmentService/internal/service/slotconfig"
	createAppointmentUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
	getAvailabilityUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_availability"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

// dispatcher отправка уведомлений с закрытием при остановке
type dispatcher interface {
	Dispatch(ctx context.Context, event notifier.Event) error
	Close() error
}

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

	// Метрики (nil, если выключены: все методы nil-safe)
	var metricsCollector *metrics.Metrics
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

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Репозитории
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)
	slotConfigRepository := slotConfigRepo.NewRepository(wrappedDB)
	tenantRepository := tenantRepo.NewRepository(wrappedDB)

	// Хранилище кэша: Redis, если задан адрес, иначе память процесса
	var store cache.Store
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Warn("Redis is unavailable at %s, cache reads will fall back to database: %v", cfg.Redis.Addr, err)
		}
		store = cache.NewRedisStore(redisClient)
		log.Info("Config cache backed by Redis (addr=%s)", cfg.Redis.Addr)
	} else {
		store = cache.NewMemoryStore()
		log.Info("Config cache backed by process memory")
	}

	// Уведомления: Kafka, если заданы брокеры, иначе лог
	var events dispatcher
	if len(cfg.Kafka.Brokers) > 0 {
		events = notifier.NewKafkaDispatcher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		log.Info("Notifications dispatched to Kafka (brokers=%v, topic=%s)", cfg.Kafka.Brokers, cfg.Kafka.Topic)
	} else {
		events = notifier.NewLogDispatcher(log)
		log.Info("Notifications written to log")
	}
	defer events.Close()

	// Интеграции
	clients := clientdirectory.NewClient(
		cfg.ClientDirectory.URL,
		time.Duration(cfg.ClientDirectory.Timeout)*time.Second,
		log,
	)
	log.Info("Client directory initialized (url=%s, timeout=%ds)", cfg.ClientDirectory.URL, cfg.ClientDirectory.Timeout)

	// Сервисы
	caches := dayplan.NewCaches(store, time.Duration(cfg.Cache.TTL)*time.Second, log, metricsCollector)
	dayPlans := dayplan.NewService(tenantRepository, slotConfigRepository, appointmentRepository, caches, log)
	engine := scheduling.NewEngine(log)

	appointmentSvc := appointmentsService.NewService(appointmentRepository, dayPlans, events, log)
	slotConfigSvc := slotConfigService.NewService(slotConfigRepository, dayPlans, log)

	// Use cases
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(dayPlans, engine, metricsCollector, log)
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		dayPlans,
		engine,
		appointmentRepository,
		clients,
		events,
		txMgr,
		metricsCollector,
		log,
	)

	// Handlers
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentSvc, log)
	getStaffAppointments := getStaffAppointmentsHandler.NewHandler(appointmentSvc, log)
	getClientAppointments := getClientAppointmentsHandler.NewHandler(appointmentSvc, log)
	getSlotConfig := getSlotConfigHandler.NewHandler(slotConfigSvc, log)
	updateSlotConfig := updateSlotConfigHandler.NewHandler(slotConfigSvc, log)

	// Роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := wrappedDB.PingContext(ctx); err != nil {
			log.Warn("GET /healthz - Database ping failed: %v", err)
			handlers.RespondError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Доступные слоты сотрудника на дату
	api.HandleFunc("/businesses/{businessId}/availability", getAvailability.Handle).Methods(http.MethodGet)

	// Действующая сетка слотов бизнеса
	api.HandleFunc("/businesses/{businessId}/slot-config", getSlotConfig.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Создание записей (с ограничением частоты) ---
	var (
		createHandler     http.Handler = http.HandlerFunc(createAppointment.Handle)
		createGridHandler http.Handler = http.HandlerFunc(createAppointment.HandleGrid)
	)
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
		createHandler = limiter.Limit(createHandler)
		createGridHandler = limiter.Limit(createGridHandler)
		log.Info("Commit rate limit enabled (rps=%.1f, burst=%d)", cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}
	protected.Handle("/appointments", createHandler).Methods(http.MethodPost)
	protected.Handle("/appointments/grid", createGridHandler).Methods(http.MethodPost)

	// --- Записи ---
	protected.HandleFunc("/appointments/{appointmentId:[0-9]+}", getAppointment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId:[0-9]+}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/clients/{clientId}/appointments", getClientAppointments.Handle).Methods(http.MethodGet)

	// --- Управление бизнесом (для сотрудников) ---
	protected.HandleFunc("/businesses/{businessId}/staff/{staffId}/appointments",
		getStaffAppointments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/businesses/{businessId}/slot-config", updateSlotConfig.Handle).Methods(http.MethodPut)

	// HTTP сервер
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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	close(stopMetricsCh)

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
