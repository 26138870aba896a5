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
	"golang.org/x/time/rate"

	cancelBookingHandler "github.com/bellefontaine/circuit-booking/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/bellefontaine/circuit-booking/internal/api/handlers/create_booking"
	createMessageHandler "github.com/bellefontaine/circuit-booking/internal/api/handlers/create_message"
	createSlotHandler "github.com/bellefontaine/circuit-booking/internal/api/handlers/create_slot"
	deleteMessageHandler "github.com/bellefontaine/circuit-booking/internal/api/handlers/delete_message"
	deleteSlotHandler "github.com/bellefontaine/circuit-booking/internal/api/handlers/delete_slot"
	editSlotDateHandler "github.com/bellefontaine/circuit-booking/internal/api/handlers/edit_slot_date"
	getAvailableSlotsHandler "github.com/bellefontaine/circuit-booking/internal/api/handlers/get_available_slots"
	getCancellationNoticeHandler "github.com/bellefontaine/circuit-booking/internal/api/handlers/get_cancellation_notice"
	getCircuitBookingsHandler "github.com/bellefontaine/circuit-booking/internal/api/handlers/get_circuit_bookings"
	getProfileHandler "github.com/bellefontaine/circuit-booking/internal/api/handlers/get_profile"
	getSlotHandler "github.com/bellefontaine/circuit-booking/internal/api/handlers/get_slot"
	getUserBookingsHandler "github.com/bellefontaine/circuit-booking/internal/api/handlers/get_user_bookings"
	healthHandler "github.com/bellefontaine/circuit-booking/internal/api/handlers/health"
	listMessagesHandler "github.com/bellefontaine/circuit-booking/internal/api/handlers/list_messages"
	listSlotsHandler "github.com/bellefontaine/circuit-booking/internal/api/handlers/list_slots"
	markMessageReadHandler "github.com/bellefontaine/circuit-booking/internal/api/handlers/mark_message_read"
	replyMessageHandler "github.com/bellefontaine/circuit-booking/internal/api/handlers/reply_message"
	updateCapacityHandler "github.com/bellefontaine/circuit-booking/internal/api/handlers/update_capacity"
	updatePaymentStatusHandler "github.com/bellefontaine/circuit-booking/internal/api/handlers/update_payment_status"
	"github.com/bellefontaine/circuit-booking/internal/api/middleware"
	"github.com/bellefontaine/circuit-booking/internal/config"
	"github.com/bellefontaine/circuit-booking/internal/domain"
	"github.com/bellefontaine/circuit-booking/internal/infra/cache"
	"github.com/bellefontaine/circuit-booking/internal/infra/changefeed"
	bookingRepo "github.com/bellefontaine/circuit-booking/internal/infra/storage/booking"
	messageRepo "github.com/bellefontaine/circuit-booking/internal/infra/storage/message"
	"github.com/bellefontaine/circuit-booking/internal/infra/storage/migrations"
	profileRepo "github.com/bellefontaine/circuit-booking/internal/infra/storage/profile"
	slotRepo "github.com/bellefontaine/circuit-booking/internal/infra/storage/slot"
	"github.com/bellefontaine/circuit-booking/internal/integrations/mailrelay"
	bookingsService "github.com/bellefontaine/circuit-booking/internal/service/bookings"
	messagesService "github.com/bellefontaine/circuit-booking/internal/service/messages"
	profilesService "github.com/bellefontaine/circuit-booking/internal/service/profiles"
	slotsService "github.com/bellefontaine/circuit-booking/internal/service/slots"
	cancelBookingUC "github.com/bellefontaine/circuit-booking/internal/usecase/cancel_booking"
	createBookingUC "github.com/bellefontaine/circuit-booking/internal/usecase/create_booking"
	deleteSlotUC "github.com/bellefontaine/circuit-booking/internal/usecase/delete_slot"
	getAvailableSlotsUC "github.com/bellefontaine/circuit-booking/internal/usecase/get_available_slots"
	updateCapacityUC "github.com/bellefontaine/circuit-booking/internal/usecase/update_capacity"
	"github.com/bellefontaine/circuit-booking/pkg/dbmetrics"
	"github.com/bellefontaine/circuit-booking/pkg/logger"
	"github.com/bellefontaine/circuit-booking/pkg/metrics"
	"github.com/bellefontaine/circuit-booking/pkg/txmanager"
)

// slotsCache кэш предстоящих слотов: redis или заглушка
type slotsCache interface {
	Generation(ctx context.Context) (int64, error)
	GetUpcoming(ctx context.Context, gen int64, from time.Time) ([]*domain.Slot, bool, error)
	SetUpcoming(ctx context.Context, gen int64, from time.Time, slots []*domain.Slot) error
	Invalidate(ctx context.Context) error
}

func main() {
	configPath := "config.toml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	rules, err := cfg.Booking.Rules()
	if err != nil {
		fmt.Printf("Invalid booking config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting circuit-booking...")
	log.Info("Configuration loaded from %s (timezone=%s)", configPath, cfg.Booking.Timezone)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Инициализируем метрики (если включены)
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

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.PingContext(ctx); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	if cfg.Database.MigrateOnStart {
		if err := migrations.Up(db, log); err != nil {
			log.Fatal("Failed to apply migrations: %v", err)
		}
	}

	// Репозитории работают через обертку с метриками (metrics может быть nil)
	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)

	slotRepository := slotRepo.NewRepository(wrappedDB)
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	messageRepository := messageRepo.NewRepository(wrappedDB)
	profileRepository := profileRepo.NewRepository(wrappedDB)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Кэш предстоящих слотов
	var upcomingCache slotsCache = cache.Noop{}
	if cfg.Cache.Enabled {
		redisCache, err := cache.Connect(ctx, cache.Options{
			Addr:     cfg.Cache.Addr,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
			TTL:      time.Duration(cfg.Cache.TTLSeconds) * time.Second,
		}, metricsCollector)
		if err != nil {
			log.Fatal("Failed to connect to redis: %v", err)
		}
		defer redisCache.Close()
		upcomingCache = redisCache
		log.Info("Slots cache enabled (addr=%s, ttl=%ds)", cfg.Cache.Addr, cfg.Cache.TTLSeconds)
	}

	// Изменения, сделанные в обход сервиса, сбрасывают кэш через LISTEN/NOTIFY
	if cfg.ChangeFeed.Enabled {
		feed := changefeed.New(cfg.Database.DSN(), changefeed.Options{
			MinReconnectInterval: time.Duration(cfg.ChangeFeed.MinReconnectInterval) * time.Second,
			MaxReconnectInterval: time.Duration(cfg.ChangeFeed.MaxReconnectInterval) * time.Second,
			PingInterval:         time.Duration(cfg.ChangeFeed.PingInterval) * time.Second,
		}, upcomingCache, log)

		go func() {
			if err := feed.Run(ctx); err != nil {
				log.Error("Change feed stopped: %v", err)
			}
		}()
		log.Info("Change feed started")
	}

	// Клиент сервиса отправки писем
	relayClient := mailrelay.NewClient(
		cfg.MailRelay.URL,
		time.Duration(cfg.MailRelay.Timeout)*time.Second,
		metricsCollector,
		log,
	)
	relayLimiter := rate.NewLimiter(rate.Limit(cfg.MailRelay.RatePerSecond), cfg.MailRelay.Burst)
	log.Info("Mail relay client initialized (url=%s, timeout=%ds, rate=%.1f/s)",
		cfg.MailRelay.URL, cfg.MailRelay.Timeout, cfg.MailRelay.RatePerSecond)

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(bookingRepository, log)
	slotSvc := slotsService.NewService(slotRepository, upcomingCache, rules, cfg.Booking.DefaultCapacity, log)
	messageSvc := messagesService.NewService(messageRepository, relayClient, cfg.MailRelay.ReplyTemplate, log)
	profileSvc := profilesService.NewService(profileRepository, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		slotRepository,
		bookingRepository,
		txMgr,
		upcomingCache,
		metricsCollector,
		rules,
		log,
	)
	cancelBookingUseCase := cancelBookingUC.NewUseCase(
		slotRepository,
		bookingRepository,
		txMgr,
		upcomingCache,
		metricsCollector,
		rules,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		slotRepository,
		upcomingCache,
		rules,
		log,
	)
	updateCapacityUseCase := updateCapacityUC.NewUseCase(
		slotRepository,
		bookingRepository,
		txMgr,
		upcomingCache,
		rules,
		log,
	)
	deleteSlotUseCase := deleteSlotUC.NewUseCase(
		slotRepository,
		bookingRepository,
		relayClient,
		relayLimiter,
		upcomingCache,
		cfg.MailRelay.SlotCancelledTemplate,
		log,
	)

	// Инициализируем handlers
	health := healthHandler.NewHandler(db, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getSlot := getSlotHandler.NewHandler(slotSvc, log)
	createMessage := createMessageHandler.NewHandler(messageSvc, log)
	getProfile := getProfileHandler.NewHandler(profileSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getCancellationNotice := getCancellationNoticeHandler.NewHandler(cancelBookingUseCase, log)
	cancelBooking := cancelBookingHandler.NewHandler(cancelBookingUseCase, log)
	createSlot := createSlotHandler.NewHandler(slotSvc, log)
	listSlots := listSlotsHandler.NewHandler(slotSvc, log)
	updateCapacity := updateCapacityHandler.NewHandler(updateCapacityUseCase, log)
	editSlotDate := editSlotDateHandler.NewHandler(slotSvc, log)
	deleteSlot := deleteSlotHandler.NewHandler(deleteSlotUseCase, log)
	getCircuitBookings := getCircuitBookingsHandler.NewHandler(bookingSvc, log)
	updatePaymentStatus := updatePaymentStatusHandler.NewHandler(bookingSvc, log)
	listMessages := listMessagesHandler.NewHandler(messageSvc, log)
	markMessageRead := markMessageReadHandler.NewHandler(messageSvc, log)
	replyMessage := replyMessageHandler.NewHandler(messageSvc, log)
	deleteMessage := deleteMessageHandler.NewHandler(messageSvc, log)

	auth := middleware.NewAuthenticator(middleware.AuthConfig{
		Secret:   cfg.Auth.JWTSecret,
		Issuer:   cfg.Auth.Issuer,
		Audience: cfg.Auth.Audience,
	}, profileSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", health.Handle).Methods(http.MethodGet)

	// API prefix. Токен необязателен: без него запрос идет как анонимный,
	// права проверяют use cases и сервисы.
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(auth.Middleware)

	// ============================================================
	// PUBLIC ROUTES
	// ============================================================

	api.HandleFunc("/slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/slots/{slotId}", getSlot.Handle).Methods(http.MethodGet)
	api.HandleFunc("/contact-messages", createMessage.Handle).Methods(http.MethodPost)

	// ============================================================
	// PILOT ROUTES
	// ============================================================

	api.HandleFunc("/users/me", getProfile.Handle).Methods(http.MethodGet)
	api.HandleFunc("/users/me/bookings", getUserBookings.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{bookingId}/cancellation-notice", getCancellationNotice.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId}", cancelBooking.Handle).Methods(http.MethodDelete)

	// ============================================================
	// ADMIN ROUTES
	// ============================================================

	admin := api.PathPrefix("/admin").Subrouter()

	// --- Слоты ---
	admin.HandleFunc("/slots", createSlot.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/slots", listSlots.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/slots/{slotId}/capacity", updateCapacity.Handle).Methods(http.MethodPut)
	admin.HandleFunc("/slots/{slotId}/date", editSlotDate.Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/slots/{slotId}", deleteSlot.Handle).Methods(http.MethodDelete)

	// --- Бронирования ---
	admin.HandleFunc("/circuits/{circuit}/bookings", getCircuitBookings.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/bookings/{bookingId}/payment", updatePaymentStatus.Handle).Methods(http.MethodPatch)

	// --- Обращения ---
	admin.HandleFunc("/messages", listMessages.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/messages/{messageId}/read", markMessageRead.Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/messages/{messageId}/reply", replyMessage.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/messages/{messageId}", deleteMessage.Handle).Methods(http.MethodDelete)

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
	<-ctx.Done()

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
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
