package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Store        StoreConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Cache        CacheConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Notification NotificationConfig
	Workflow     WorkflowConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string `validate:"required"`
	Env                   string
	Host                  string
	Port                  string `validate:"required,numeric"`
	Version               string
	RequestTimeoutSeconds int `validate:"gte=0"`
}

// StoreConfig selects the document store backend.
type StoreConfig struct {
	Driver string `validate:"oneof=postgres memory"`
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	MigrationsDir  string
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int `validate:"gte=0"`
}

// CacheConfig tunes the public page cache.
type CacheConfig struct {
	TTLSeconds          int    `validate:"gte=0"`
	InvalidationChannel string `validate:"required"`
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string `validate:"oneof=debug info warn error"`
}

// AuthConfig selects and configures the identity provider.
type AuthConfig struct {
	Provider  string `validate:"oneof=local keycloak"`
	JWTSecret string `validate:"required_if=Provider local"`
	Issuer    string
	Keycloak  KeycloakConfig
}

// KeycloakConfig holds realm and client credentials for the Keycloak provider.
type KeycloakConfig struct {
	BaseURL      string
	Realm        string
	ClientID     string
	ClientSecret string
	Audience     string
}

// NotificationConfig configures the push broadcast sender.
type NotificationConfig struct {
	PushEndpoint   string `validate:"omitempty,url"`
	PushAPIKey     string
	PushTopic      string `validate:"required"`
	TimeoutSeconds int    `validate:"gt=0"`
	SiteURL        string
	// Workers and QueueSize size the background pool that sends broadcasts.
	Workers   int `validate:"gte=1,lte=32"`
	QueueSize int `validate:"gte=1"`
}

// WorkflowConfig holds workflow switches.
type WorkflowConfig struct {
	ApplicationsPageSize int `validate:"gte=1,lte=100"`
	TaskOwnershipCheck   bool
}

var validate = validator.New()

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "devfest-hub"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Store: StoreConfig{
			Driver: getEnv("STORE_DRIVER", "postgres"),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			MigrationsDir:  getEnv("POSTGRES_MIGRATIONS_DIR", "migrations"),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Cache: CacheConfig{
			TTLSeconds:          getEnvAsInt("CACHE_TTL_SECONDS", 300),
			InvalidationChannel: getEnv("CACHE_INVALIDATION_CHANNEL", "devfest:revalidate"),
		},
		Logger: LoggerConfig{
			Level: strings.ToLower(getEnv("LOG_LEVEL", "info")),
		},
		Auth: AuthConfig{
			Provider:  getEnv("AUTH_PROVIDER", "local"),
			JWTSecret: os.Getenv("AUTH_JWT_SECRET"),
			Issuer:    getEnv("AUTH_ISSUER", "devfest-hub"),
			Keycloak: KeycloakConfig{
				BaseURL:      os.Getenv("KEYCLOAK_BASE_URL"),
				Realm:        os.Getenv("KEYCLOAK_REALM"),
				ClientID:     os.Getenv("KEYCLOAK_CLIENT_ID"),
				ClientSecret: os.Getenv("KEYCLOAK_CLIENT_SECRET"),
				Audience:     os.Getenv("KEYCLOAK_AUDIENCE"),
			},
		},
		Notification: NotificationConfig{
			PushEndpoint:   os.Getenv("PUSH_ENDPOINT"),
			PushAPIKey:     os.Getenv("PUSH_API_KEY"),
			PushTopic:      getEnv("PUSH_TOPIC", "announcements"),
			TimeoutSeconds: getEnvAsInt("PUSH_TIMEOUT_SECONDS", 5),
			SiteURL:        getEnv("SITE_URL", "https://devfest.gdgvizag.com"),
			Workers:        getEnvAsInt("PUSH_WORKERS", 2),
			QueueSize:      getEnvAsInt("PUSH_QUEUE_SIZE", 64),
		},
		Workflow: WorkflowConfig{
			ApplicationsPageSize: getEnvAsInt("APPLICATIONS_PAGE_SIZE", 10),
			TaskOwnershipCheck:   getEnvAsBool("TASK_OWNERSHIP_CHECK", false),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks struct tags and cross-field requirements.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if c.Auth.Provider == "keycloak" {
		kc := c.Auth.Keycloak
		if kc.BaseURL == "" || kc.Realm == "" || kc.ClientID == "" {
			return fmt.Errorf("config validation failed: KEYCLOAK_BASE_URL, KEYCLOAK_REALM and KEYCLOAK_CLIENT_ID are required for the keycloak provider")
		}
	}
	if c.Store.Driver == "postgres" && c.Postgres.DSN == "" {
		return fmt.Errorf("config validation failed: POSTGRES_DSN is required when STORE_DRIVER=postgres")
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// TTL returns the cache entry lifetime.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// Timeout returns the push request timeout.
func (n NotificationConfig) Timeout() time.Duration {
	return time.Duration(n.TimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
