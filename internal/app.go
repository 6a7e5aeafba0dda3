package internal

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	logger_adapter "six-cities/internal/adapters/logger"
	"six-cities/internal/adapters/notifier"
	"six-cities/internal/adapters/offersapi"
	rabbitmq_adapter "six-cities/internal/adapters/rabbitmq"
	"six-cities/internal/adapters/rest"
	"six-cities/internal/adapters/tokenstorage"
	"six-cities/internal/configs"
	"six-cities/internal/constants"
	"six-cities/internal/core/port"
	"six-cities/internal/core/session"
	"six-cities/internal/core/store"
	fluentlogger "six-cities/pkg/fluent_logger"
	"six-cities/pkg/postgres"
	"six-cities/pkg/rabbitmq/rabbitmq_common"
	"six-cities/pkg/rabbitmq/rabbitmq_producer"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	sessionEvictInterval = time.Minute
	shutdownTimeout      = 10 * time.Second
)

type App struct {
	config    *configs.AppConfig
	apiServer *rest.Server
	sessions  *session.Manager
	notifier  *notifier.SessionNotifier

	dbPool        *pgxpool.Pool
	connManager   *rabbitmq_common.ConnectionManager
	eventProducer *rabbitmq_producer.Publisher
	journal       *rabbitmq_adapter.ActionJournalPublisher

	logger       port.LoggerPort
	fluentClient *fluent.Fluent
}

func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// --- 1. ЛОГГЕРЫ ---
	var activeLoggers []port.LoggerPort

	stdoutLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Level:    parseLogLevel(appConfig.StdoutLogger.Level),
		UseColor: true,
	})
	activeLoggers = append(activeLoggers, stdoutLogger)

	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName,
			Timeout:   3 * time.Second,
			Async:     true,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, parseLogLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	baseLogger := multiLogger.WithFields(port.Fields{"service_name": appConfig.AppName})
	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	application := &App{
		config:       appConfig,
		logger:       appLogger,
		fluentClient: fluentClient,
	}

	// --- 2. ХРАНИЛИЩЕ ТОКЕНОВ ---
	memoryTokens := tokenstorage.NewMemoryTokenRepository()
	var tokenRepo port.TokenRepositoryPort = memoryTokens
	if appConfig.Database.URL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		pool, err := postgres.NewClient(ctx, postgres.Config{
			DatabaseURL:     appConfig.Database.URL,
			MaxConns:        10,
			MaxConnLifetime: time.Hour,
		})
		if err != nil {
			appLogger.Error("Failed to connect to PostgreSQL", err, nil)
			application.closeResources()
			return nil, err
		}
		application.dbPool = pool

		pgRepo, err := tokenstorage.NewPostgresTokenRepository(pool)
		if err != nil {
			application.closeResources()
			return nil, err
		}
		if err := pgRepo.EnsureSchema(ctx); err != nil {
			appLogger.Error("Failed to prepare token storage schema", err, nil)
			application.closeResources()
			return nil, err
		}
		tokenRepo = pgRepo
		appLogger.Info("Token storage: PostgreSQL", nil)
	} else {
		appLogger.Info("Token storage: in-memory (DATABASE_URL is not set)", nil)
	}

	// --- 3. ЖУРНАЛ ДЕЙСТВИЙ В RABBITMQ ---
	var journal port.ActionJournalPort
	if appConfig.RabbitMQ.URL != "" {
		connManagerBridge := rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq_conn_manager"}))
		connManager, err := rabbitmq_common.NewConnectionManager(rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL}, connManagerBridge)
		if err != nil {
			appLogger.Error("Failed to create connection manager", err, nil)
			application.closeResources()
			return nil, fmt.Errorf("failed to create connection manager: %w", err)
		}
		application.connManager = connManager

		exchange := appConfig.RabbitMQ.JournalExchange
		if exchange == "" {
			exchange = constants.ActionJournalExchange
		}
		eventProducer, err := rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
			ExchangeName:             exchange,
			ExchangeType:             constants.ActionJournalExchangeType,
			DurableExchange:          true,
			DeclareExchangeIfMissing: true,
			Logger:                   rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq_producer"})),
		}, connManager)
		if err != nil {
			application.closeResources()
			return nil, fmt.Errorf("failed to create event producer: %w", err)
		}
		application.eventProducer = eventProducer

		journalPublisher, err := rabbitmq_adapter.NewActionJournalPublisher(eventProducer, baseLogger, 0)
		if err != nil {
			application.closeResources()
			return nil, err
		}
		application.journal = journalPublisher
		journal = journalPublisher
		appLogger.Info("Action journal enabled", port.Fields{"exchange": exchange})
	}

	// --- 4. СЕССИИ, ХРАНИЛИЩА И HTTP ---
	apiClient := offersapi.NewClient(appConfig.OffersAPI.URL, appConfig.OffersAPI.Timeout)
	storeLogger := baseLogger.WithFields(port.Fields{"component": "store"})

	newStore := func(sessionID string) *store.Store {
		tokens := tokenstorage.NewScoped(tokenRepo, sessionID)
		middleware := []store.Middleware{store.LoggerMiddleware(storeLogger.WithFields(port.Fields{"session_id": sessionID}))}
		if journal != nil {
			middleware = append(middleware, store.JournalMiddleware(journal, sessionID))
		}
		return store.NewStore(
			store.WithExtra(store.Extra{API: apiClient.ForSession(tokens), Tokens: tokens}),
			store.WithMiddleware(middleware...),
		)
	}

	application.notifier = notifier.NewSessionNotifier(baseLogger)
	application.sessions = session.NewManager(newStore, application.notifier, baseLogger, appConfig.Session.IdleTTL)
	if appConfig.Database.URL == "" {
		// токены в памяти живут не дольше сессии; в postgres они переживают вытеснение
		application.sessions.OnEvict(func(sessionID string) {
			_ = memoryTokens.Delete(context.Background(), sessionID)
		})
	}
	application.apiServer = rest.NewServer(rest.ServerConfig{
		Port:              appConfig.Rest.Port,
		AllowedOrigins:    appConfig.Rest.CORSAllowedOrigins,
		SessionCookieName: appConfig.Session.CookieName,
		SessionCookieTTL:  appConfig.Session.IdleTTL,
	}, application.sessions, application.notifier, baseLogger)

	appLogger.Info("Application initialized", port.Fields{"offers_api": appConfig.OffersAPI.URL})
	return application, nil
}

// Run запускает сервер и ждёт сигнала завершения.
func (a *App) Run() error {
	appCtx, cancelApp := context.WithCancel(context.Background())
	defer cancelApp()

	defer func() {
		a.logger.Info("Shutdown sequence initiated...", nil)
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := a.apiServer.Stop(ctx); err != nil {
			a.logger.Error("Error during API server shutdown", err, nil)
		}
		a.notifier.Close()
		if a.journal != nil {
			if err := a.journal.Close(ctx); err != nil {
				a.logger.Error("Error draining action journal", err, nil)
			}
		}
		a.logger.Info("Application shut down gracefully.", nil)
		a.closeResources()
	}()

	go a.sessions.Run(appCtx, sessionEvictInterval)

	serverErrors := make(chan error, 1)
	go func() {
		if err := a.apiServer.Start(); err != nil {
			serverErrors <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	a.logger.Info("Application running. Waiting for signals or server error...", nil)
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case err := <-serverErrors:
		a.logger.Error("HTTP server failed, shutting down", err, nil)
		return err
	}
	return nil
}

// closeResources закрывает внешние соединения. Fluent закрывается последним.
func (a *App) closeResources() {
	if a.eventProducer != nil {
		if err := a.eventProducer.Close(); err != nil {
			a.logger.Error("Error closing event producer", err, nil)
		}
	}
	if a.connManager != nil {
		if err := a.connManager.Close(); err != nil {
			a.logger.Error("Error closing RabbitMQ connection", err, nil)
		}
	}
	if a.dbPool != nil {
		a.dbPool.Close()
	}
	if a.fluentClient != nil {
		if err := a.fluentClient.Close(); err != nil {
			// fluent уже может быть недоступен, пишем в stdout
			fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
		}
	}
}

func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
		return slog.LevelInfo
	}
}
