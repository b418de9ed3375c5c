package app

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/backoffice/internal/messaging/kafka"
)

// ErrJWTSecretRequired возвращается, когда секрет подписи токенов не задан.
var ErrJWTSecretRequired = errors.New("BACKOFFICE_JWT_SECRET is required")

// Config описывает настройки запуска приложения. Все значения читаются из
// переменных окружения с префиксом BACKOFFICE_; .env в рабочем каталоге
// подхватывается автоматически.
type Config struct {
	HTTPAddr    string
	MetricsAddr string

	// PostgresDSN пустой — приложение работает на in-memory хранилище.
	PostgresDSN string

	// RedisAddr пустой — кэш заказов выключен.
	RedisAddr string
	CacheTTL  time.Duration

	// KafkaBrokers пустой — outbox-воркер не запускается.
	KafkaBrokers  []string
	OrderTopic    string
	OrderDLQTopic string

	JWTSecret string
	TokenTTL  time.Duration

	LockTimeout     time.Duration
	DefaultPageSize int
}

// DefaultConfig возвращает базовые настройки для локального запуска.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:        ":8080",
		MetricsAddr:     ":9090",
		CacheTTL:        5 * time.Minute,
		OrderTopic:      kafka.TopicOrderEvents,
		OrderDLQTopic:   kafka.TopicDeadLetterQueue,
		TokenTTL:        24 * time.Hour,
		LockTimeout:     3 * time.Second,
		DefaultPageSize: 10,
	}
}

// LoadConfig читает конфигурацию из окружения поверх значений по умолчанию.
func LoadConfig() (Config, error) {
	// .env опционален: его отсутствие не является ошибкой.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("failed to load .env file")
	}

	cfg := DefaultConfig()
	cfg.HTTPAddr = envString("BACKOFFICE_HTTP_ADDR", cfg.HTTPAddr)
	cfg.MetricsAddr = envString("BACKOFFICE_METRICS_ADDR", cfg.MetricsAddr)
	cfg.PostgresDSN = envString("BACKOFFICE_POSTGRES_DSN", cfg.PostgresDSN)
	cfg.RedisAddr = envString("BACKOFFICE_REDIS_ADDR", cfg.RedisAddr)
	cfg.CacheTTL = envDuration("BACKOFFICE_CACHE_TTL", cfg.CacheTTL)
	cfg.OrderTopic = envString("BACKOFFICE_ORDER_TOPIC", cfg.OrderTopic)
	cfg.OrderDLQTopic = envString("BACKOFFICE_ORDER_DLQ_TOPIC", cfg.OrderDLQTopic)
	cfg.JWTSecret = envString("BACKOFFICE_JWT_SECRET", cfg.JWTSecret)
	cfg.TokenTTL = envDuration("BACKOFFICE_TOKEN_TTL", cfg.TokenTTL)
	cfg.LockTimeout = envDuration("BACKOFFICE_LOCK_TIMEOUT", cfg.LockTimeout)
	cfg.DefaultPageSize = envInt("BACKOFFICE_DEFAULT_PAGE_SIZE", cfg.DefaultPageSize)

	if brokers := envString("BACKOFFICE_KAFKA_BROKERS", ""); brokers != "" {
		for _, broker := range strings.Split(brokers, ",") {
			if broker = strings.TrimSpace(broker); broker != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, broker)
			}
		}
	}

	if cfg.JWTSecret == "" {
		return Config{}, ErrJWTSecretRequired
	}
	return cfg, nil
}

func envString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.WithField("key", key).WithField("value", v).Warn("invalid duration, using default")
		return fallback
	}
	return d
}

func envInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.WithField("key", key).WithField("value", v).Warn("invalid integer, using default")
		return fallback
	}
	return n
}
