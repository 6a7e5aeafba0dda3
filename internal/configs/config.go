package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type OffersAPIConfig struct {
	URL     string
	Timeout time.Duration
}

type DBConfig struct {
	// URL пустой - токены хранятся в памяти
	URL string
}

type RabbitMQConfig struct {
	// URL пустой - журнал действий выключен
	URL             string
	JournalExchange string
}

type RESTConfig struct {
	Port               string
	CORSAllowedOrigins []string
}

type SessionConfig struct {
	CookieName string
	IdleTTL    time.Duration
}

type StdoutLogConfig struct {
	Level string
}

type FluentBitConfig struct {
	Host    string
	Port    int
	Enabled bool
	Level   string
}

// AppConfig хранит всю конфигурацию приложения
type AppConfig struct {
	AppName      string
	OffersAPI    OffersAPIConfig
	Database     DBConfig
	RabbitMQ     RabbitMQConfig
	Rest         RESTConfig
	Session      SessionConfig
	FluentBit    FluentBitConfig
	StdoutLogger StdoutLogConfig
}

// LoadConfig читает .env (если он есть) и переменные окружения.
// Файл, переданный явно, обязан существовать.
func LoadConfig(envPath ...string) (*AppConfig, error) {
	if len(envPath) > 0 {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("could not load .env file (path: %v): %w", envPath[0], err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("could not load .env file: %w", err)
	}

	cfg := &AppConfig{}

	cfg.AppName = getEnvAsString("APP_NAME", "six-cities")

	cfg.OffersAPI.URL = getEnvAsString("OFFERS_API_URL", "https://14.design.htmlacademy.pro/six-cities")
	cfg.OffersAPI.Timeout = time.Duration(getEnvAsInt("OFFERS_API_TIMEOUT_MS", 5000)) * time.Millisecond
	if cfg.OffersAPI.Timeout <= 0 {
		return nil, fmt.Errorf("OFFERS_API_TIMEOUT_MS must be positive")
	}

	cfg.Database.URL = os.Getenv("DATABASE_URL")

	cfg.RabbitMQ.URL = os.Getenv("RABBITMQ_URL")
	cfg.RabbitMQ.JournalExchange = getEnvAsString("RABBITMQ_JOURNAL_EXCHANGE", "six_cities.actions")

	cfg.Rest.Port = getEnvAsString("PORT", "8080")
	cfg.Rest.CORSAllowedOrigins = splitList(getEnvAsString("CORS_ALLOWED_ORIGINS", "http://localhost:5173"))

	cfg.Session.CookieName = getEnvAsString("SESSION_COOKIE_NAME", "six_cities_session")
	cfg.Session.IdleTTL = time.Duration(getEnvAsInt("SESSION_IDLE_TTL_MINUTES", 60)) * time.Minute

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = os.Getenv("FLUENTBIT_HOST")
		if cfg.FluentBit.Host == "" {
			log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}
		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
		cfg.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", "info")
	}

	cfg.StdoutLogger.Level = getEnvAsString("STDOUT_LOG_LEVEL", "debug")

	return cfg, nil
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as int: %v. Using default value: %d\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as bool: %v. Using default value: %t\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valBool
}
