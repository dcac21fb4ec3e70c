package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the gateway.
type Config struct {
	App          AppConfig
	GLPI         GLPIConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Notification NotificationConfig
	Enums        EnumConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                   string
	Env                    string
	Host                   string
	Port                   string
	Version                string
	RequestTimeoutSeconds  int
	RecentTicketTTLMinutes int
}

// GLPIConfig holds connection values for the upstream GLPI REST API.
type GLPIConfig struct {
	BaseURL        string
	APIToken       string
	AppToken       string
	TimeoutSeconds int
}

// PostgresConfig holds connection values for the optional submission journal.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines caller authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	GatewayAPIKey         string
}

// NotificationConfig holds the webhook target for ticket events.
type NotificationConfig struct {
	WebhookURL     string
	TimeoutSeconds int
}

// EnumConfig points at an optional label-to-id mapping override file.
type EnumConfig struct {
	MappingFile string
}

// Load reads configuration from environment variables, applying defaults where
// possible. The GLPI connection values have no sane defaults; missing any of
// them fails startup instead of surfacing later as an authentication error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	glpi := GLPIConfig{
		BaseURL:        strings.TrimRight(os.Getenv("GLPI_API_URL"), "/"),
		APIToken:       os.Getenv("GLPI_API_TOKEN"),
		AppToken:       os.Getenv("GLPI_APP_TOKEN"),
		TimeoutSeconds: getEnvAsInt("GLPI_TIMEOUT_SECONDS", 15),
	}
	if missing := glpi.missingVars(); len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                   getEnv("APP_NAME", "glpi-gateway"),
			Env:                    getEnv("APP_ENV", "development"),
			Host:                   getEnv("APP_HOST", "0.0.0.0"),
			Port:                   getEnv("APP_PORT", "8080"),
			Version:                getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds:  getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			RecentTicketTTLMinutes: getEnvAsInt("RECENT_TICKET_TTL_MINUTES", 1440),
		},
		GLPI: glpi,
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			GatewayAPIKey:         os.Getenv("AUTH_GATEWAY_API_KEY"),
		},
		Notification: NotificationConfig{
			WebhookURL:     getEnv("NOTIFY_WEBHOOK_URL", ""),
			TimeoutSeconds: getEnvAsInt("NOTIFY_TIMEOUT_SECONDS", 10),
		},
		Enums: EnumConfig{
			MappingFile: os.Getenv("ENUM_MAPPING_FILE"),
		},
	}

	return cfg, nil
}

func (g GLPIConfig) missingVars() []string {
	var missing []string
	if g.BaseURL == "" {
		missing = append(missing, "GLPI_API_URL")
	}
	if g.APIToken == "" {
		missing = append(missing, "GLPI_API_TOKEN")
	}
	if g.AppToken == "" {
		missing = append(missing, "GLPI_APP_TOKEN")
	}
	return missing
}

// Timeout returns the upstream request timeout duration.
func (g GLPIConfig) Timeout() time.Duration {
	if g.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(g.TimeoutSeconds) * time.Second
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

// RecentTicketTTL returns how long a caller's last-created ticket name is kept.
func (a AppConfig) RecentTicketTTL() time.Duration {
	if a.RecentTicketTTLMinutes <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(a.RecentTicketTTLMinutes) * time.Minute
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
