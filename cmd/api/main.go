package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"slotbook/internal/api"
	"slotbook/internal/bot"
	"slotbook/internal/config"
	"slotbook/internal/database"
	"slotbook/internal/database/postgres"
	"slotbook/internal/domain"
	"slotbook/internal/events"
	"slotbook/internal/google"
	"slotbook/internal/logging"
	"slotbook/internal/metrics"
	"slotbook/internal/notify"
	"slotbook/internal/repository"
	"slotbook/internal/service"
	"slotbook/internal/worker"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const healthProbeInterval = 10 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

// backend is the authoritative store plus the pieces that depend on its driver.
type backend struct {
	store  domain.Store
	queue  domain.SyncQueueStore
	pinger api.Pinger
	sqlite *database.DB
	close  func()
}

func run() error {
	cfg, err := config.Load(config.Path())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}
	logger := logging.Component(baseLogger, "api-main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	be, err := openBackend(ctx, cfg, baseLogger)
	if err != nil {
		logger.Error().Err(err).Str("driver", cfg.Database.Driver).Msg("init store")
		return err
	}
	defer be.close()

	redisClient := initRedis(ctx, cfg, logger)
	if redisClient != nil {
		defer func() { _ = repository.Close(redisClient) }()
	}

	bus := events.NewEventBus()
	var wg sync.WaitGroup
	goRun := func(fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn()
		}()
	}

	if cfg.Kafka.Enabled() {
		forwarder := events.NewKafkaForwarder(cfg.Kafka.Brokers, cfg.Kafka.Topic, baseLogger)
		forwarder.Attach(bus)
		defer func() { _ = forwarder.Close() }()
	}

	telegram := initTelegram(cfg, logger)

	notifier := initNotifier(cfg, telegram, be.store, baseLogger)
	notifier.Attach(bus)
	goRun(func() { notifier.Run(ctx) })

	var syncWorker domain.SyncWorker
	if sheetsWorker := initSheetsWorker(ctx, cfg, be, redisClient, baseLogger, logger); sheetsWorker != nil {
		syncWorker = sheetsWorker
		goRun(func() { sheetsWorker.Start(ctx) })
	}

	if be.sqlite != nil {
		backup := database.NewBackupService(be.sqlite, cfg.Backup, baseLogger)
		goRun(func() { backup.Start(ctx) })
	}

	cache := initSnapshotCache(cfg, redisClient, baseLogger)
	listView := service.NewBookingListView(be.store, cache, baseLogger)
	listView.Attach(bus)

	eventService := service.NewEventService(be.store, bus, baseLogger)
	bookingService := service.NewBookingService(be.store, bus, syncWorker, baseLogger)
	bookingService.UseListView(listView)

	var admissionOpts []service.Option
	if syncWorker != nil {
		admissionOpts = append(admissionOpts, service.WithSyncWorker(syncWorker))
	}
	admission := service.NewAdmission(be.store, bus, baseLogger, admissionOpts...)

	if telegram != nil && cfg.Notify.Telegram.BotEnabled() {
		bookingBot := bot.NewBot(bot.NewBotWrapper(telegram), cfg.Notify.Telegram, be.store, admission, baseLogger)
		goRun(func() { bookingBot.Start(ctx) })
	}

	httpServer := api.NewHTTPServer(cfg.API, eventService, bookingService, admission, baseLogger)

	var grpcServer *api.GRPCServer
	if cfg.API.GRPC.Enabled {
		grpcServer, err = api.NewGRPCServer(cfg.API, be.pinger, be.store, baseLogger)
		if err != nil {
			logger.Error().Err(err).Msg("create grpc server")
			return err
		}
	}

	startMetrics(ctx, cfg, logger)

	err = serve(ctx, cfg, httpServer, grpcServer, logger)
	stop()
	wg.Wait()
	logger.Info().Msg("API server stopped")
	return err
}

func openBackend(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*backend, error) {
	if cfg.Database.Driver == config.DriverPostgres {
		store, err := postgres.New(ctx, cfg.Database.Postgres.DSN(), logger)
		if err != nil {
			return nil, err
		}
		return &backend{store: store, queue: store, pinger: store, close: store.Close}, nil
	}

	db, err := database.NewDB(cfg.Database.Path, logger)
	if err != nil {
		return nil, err
	}
	return &backend{store: db, queue: db, pinger: db, sqlite: db, close: func() { _ = db.Close() }}, nil
}

func initRedis(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if cfg.Redis.Address == "" {
		return nil
	}

	client := repository.NewRedisClient(cfg.Redis)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := repository.Ping(pingCtx, client); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing without redis")
		_ = client.Close()
		return nil
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return client
}

func initSnapshotCache(cfg *config.Config, redisClient *redis.Client, logger *zerolog.Logger) domain.SnapshotCache {
	ttl := time.Duration(cfg.Redis.SnapshotTTL) * time.Second
	memory := repository.NewMemorySnapshotCache(ttl)
	if redisClient == nil {
		return memory
	}
	return repository.NewFailoverSnapshotCache(repository.NewRedisSnapshotCache(redisClient, ttl), memory, logger)
}

func initTelegram(cfg *config.Config, logger *zerolog.Logger) *tgbotapi.BotAPI {
	tg := cfg.Notify.Telegram
	if !tg.Enabled() && !tg.BotEnabled() {
		return nil
	}

	client, err := notify.NewTelegramBot(tg)
	if err != nil {
		logger.Warn().Err(err).Msg("telegram init failed, notifications and booking bot disabled")
		return nil
	}
	logger.Info().Str("bot", client.Self.UserName).Msg("telegram connected")
	return client
}

func initNotifier(cfg *config.Config, telegram *tgbotapi.BotAPI, eventStore domain.EventStore, baseLogger *zerolog.Logger) *notify.Notifier {
	var sender domain.TelegramSender
	if telegram != nil && cfg.Notify.Telegram.Enabled() {
		sender = telegram
	}

	mailer := notify.NewMailer(cfg.Notify.Email, baseLogger)
	return notify.NewNotifier(sender, cfg.Notify.Telegram.ChatIDs, mailer, eventStore, baseLogger)
}

func initSheetsWorker(
	ctx context.Context,
	cfg *config.Config,
	be *backend,
	redisClient *redis.Client,
	baseLogger, logger *zerolog.Logger,
) *worker.SheetsWorker {
	if cfg.Google.CredentialsFile == "" || cfg.Google.BookingSpreadSheetID == "" {
		return nil
	}

	sheets, err := google.NewSheetsService(ctx, cfg.Google)
	if err != nil {
		logger.Warn().Err(err).Msg("google sheets init failed, continuing without sheets")
		return nil
	}

	warmCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := sheets.EnsureHeader(warmCtx); err != nil {
		logger.Warn().Err(err).Msg("google sheets header write failed")
	}
	if err := sheets.WarmUpCache(warmCtx); err != nil {
		logger.Warn().Err(err).Msg("google sheets cache warm-up failed")
	}

	logger.Info().Msg("google sheets connected")
	return worker.NewSheetsWorker(be.queue, be.store, sheets, redisClient, worker.RetryPolicy{}, baseLogger)
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}
	metrics.Register()
	go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, logger)
}

func serve(ctx context.Context, cfg *config.Config, httpServer *api.HTTPServer, grpcServer *api.GRPCServer, logger *zerolog.Logger) error {
	errCh := make(chan error, 2)

	if grpcServer != nil {
		go func() {
			if err := grpcServer.Serve(ctx, healthProbeInterval); err != nil {
				errCh <- fmt.Errorf("grpc server: %w", err)
			}
		}()
	}
	if cfg.API.HTTP.Enabled {
		go func() {
			if err := httpServer.Start(); err != nil {
				errCh <- fmt.Errorf("http server: %w", err)
			}
		}()
	}

	logger.Info().
		Bool("http", cfg.API.HTTP.Enabled).Int("http_port", cfg.API.HTTP.Port).
		Bool("grpc", grpcServer != nil).Int("grpc_port", cfg.API.GRPC.Port).
		Msg("API server started")

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	case runErr = <-errCh:
		logger.Error().Err(runErr).Msg("server failed, shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if grpcServer != nil {
		grpcServer.Shutdown(shutdownCtx)
	}
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("http shutdown")
	}
	return runErr
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
