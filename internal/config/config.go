package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Identity     IdentityConfig
	Helpdesk     HelpdeskConfig
	Telegram     TelegramConfig
	Reactivation ReactivationConfig
	NATS         NATSConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values. An empty DSN disables the
// reactivation audit journal.
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
	Addr               string
	Password           string
	DB                 int
	PoolSize           int
	DialTimeoutSeconds int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level  string
	Format string
}

// AuthConfig defines how internal callers authenticate.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	ClientID              string
	ClientSecretHash      string
}

// IdentityConfig points at the identity platform admin API.
type IdentityConfig struct {
	BaseURL         string
	AdminEmail      string
	AdminPassword   string
	AdminUserURL    string
	TokenTTLMinutes int
	TimeoutSeconds  int
}

// HelpdeskConfig points at the helpdesk API.
type HelpdeskConfig struct {
	BaseURL         string
	APIToken        string
	ProfileCategory string
	AttachmentsDir  string
	TimeoutSeconds  int
}

// TelegramConfig configures the chat bot.
type TelegramConfig struct {
	BotToken       string
	APIBaseURL     string
	TeamChatID     int64
	WebhookURL     string
	WebhookPath    string
	WebhookSecret  string
	UpdateTTLHours int
}

// ReactivationConfig holds the decision inputs for reactivation.
type ReactivationConfig struct {
	OverrideUserIDs []int64
	Timezone        string
	RosterFile      string
	WeekendAgentID  int64
	EveningAgentID  int64
	DayAgentID      int64
}

// NATSConfig enables the optional event bridge when URL is set.
type NATSConfig struct {
	URL           string
	SubjectPrefix string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	teamChatID, err := getEnvAsInt64("TELEGRAM_TEAM_CHAT_ID", 0)
	if err != nil {
		return nil, err
	}

	overrides, err := parseIDList(getEnv("REACTIVATION_OVERRIDE_USER_IDS", "1127536"))
	if err != nil {
		return nil, fmt.Errorf("invalid REACTIVATION_OVERRIDE_USER_IDS: %w", err)
	}

	agentIDs := make(map[string]int64, 3)
	for _, key := range []string{"USEDESK_WEEKEND_AGENT_ID", "USEDESK_EVENING_AGENT_ID", "USEDESK_DAY_AGENT_ID"} {
		id, err := getEnvAsInt64(key, 0)
		if err != nil {
			return nil, err
		}
		agentIDs[key] = id
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "reactivation-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 60),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 5)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 1)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			MigrationsDir:  getEnv("POSTGRES_MIGRATIONS_DIR", "migrations"),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:               getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:           os.Getenv("REDIS_PASSWORD"),
			DB:                 redisDB,
			PoolSize:           getEnvAsInt("REDIS_POOL_SIZE", 10),
			DialTimeoutSeconds: getEnvAsInt("REDIS_DIAL_TIMEOUT_SECONDS", 5),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			ClientID:              getEnv("AUTH_CLIENT_ID", "helpdesk"),
			ClientSecretHash:      os.Getenv("AUTH_CLIENT_SECRET_HASH"),
		},
		Identity: IdentityConfig{
			BaseURL:         getEnv("LEADER_ID_API_URL", "https://admin.leader-id.ru/api/v4"),
			AdminEmail:      os.Getenv("LEADER_ID_ADMIN_EMAIL"),
			AdminPassword:   os.Getenv("LEADER_ID_ADMIN_PASSWORD"),
			AdminUserURL:    getEnv("LEADER_ID_ADMIN_USER_URL", "https://admin.leader-id.ru/users/"),
			TokenTTLMinutes: getEnvAsInt("LEADER_ID_TOKEN_TTL_MINUTES", 12*60),
			TimeoutSeconds:  getEnvAsInt("LEADER_ID_TIMEOUT_SECONDS", 30),
		},
		Helpdesk: HelpdeskConfig{
			BaseURL:         getEnv("USEDESK_API_URL", "https://api.usedesk.ru"),
			APIToken:        os.Getenv("USEDESK_API_TOKEN"),
			ProfileCategory: getEnv("USEDESK_PROFILE_CATEGORY", "Редактирование профиля"),
			AttachmentsDir:  getEnv("USEDESK_ATTACHMENTS_DIR", "statics/files"),
			TimeoutSeconds:  getEnvAsInt("USEDESK_TIMEOUT_SECONDS", 30),
		},
		Telegram: TelegramConfig{
			BotToken:       os.Getenv("BOT_TOKEN"),
			APIBaseURL:     getEnv("TELEGRAM_API_URL", "https://api.telegram.org"),
			TeamChatID:     teamChatID,
			WebhookURL:     os.Getenv("BOT_WEBHOOK_URL"),
			WebhookPath:    getEnv("BOT_WEBHOOK_PATH", "/bot/webhook"),
			WebhookSecret:  os.Getenv("BOT_WEBHOOK_SECRET"),
			UpdateTTLHours: getEnvAsInt("BOT_UPDATE_TTL_HOURS", 24),
		},
		Reactivation: ReactivationConfig{
			OverrideUserIDs: overrides,
			Timezone:        getEnv("REACTIVATION_TIMEZONE", "Europe/Moscow"),
			RosterFile:      os.Getenv("AGENT_ROSTER_FILE"),
			WeekendAgentID:  agentIDs["USEDESK_WEEKEND_AGENT_ID"],
			EveningAgentID:  agentIDs["USEDESK_EVENING_AGENT_ID"],
			DayAgentID:      agentIDs["USEDESK_DAY_AGENT_ID"],
		},
		NATS: NATSConfig{
			URL:           os.Getenv("NATS_URL"),
			SubjectPrefix: getEnv("NATS_SUBJECT_PREFIX", "support.reactivation"),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	return seconds(a.RequestTimeoutSeconds)
}

// DialTimeout returns the Redis connect timeout.
func (r RedisConfig) DialTimeout() time.Duration {
	return seconds(r.DialTimeoutSeconds)
}

// Location loads the reference timezone used for schedules and age checks.
func (r ReactivationConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", r.Timezone, err)
	}
	return loc, nil
}

// Timeout returns the HTTP client timeout for the identity API.
func (c IdentityConfig) Timeout() time.Duration {
	return seconds(c.TimeoutSeconds)
}

// TokenTTL returns how long an identity access token is cached.
func (c IdentityConfig) TokenTTL() time.Duration {
	if c.TokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(c.TokenTTLMinutes) * time.Minute
}

// Timeout returns the HTTP client timeout for the helpdesk API.
func (c HelpdeskConfig) Timeout() time.Duration {
	return seconds(c.TimeoutSeconds)
}

// UpdateTTL returns how long processed bot update ids are remembered.
func (c TelegramConfig) UpdateTTL() time.Duration {
	if c.UpdateTTLHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.UpdateTTLHours) * time.Hour
}

func seconds(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second
}

func parseIDList(value string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
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

func getEnvAsInt64(key string, fallback int64) (int64, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
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
