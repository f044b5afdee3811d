package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	CORS      CORSConfig
	Log       LogConfig
	Analytics AnalyticsConfig
	Dashboard DashboardConfig
	Reports   ReportsConfig
	Sync      SyncConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// AuthConfig configures the client-credential token endpoint. ClientSecretHash
// is a bcrypt hash so the plain secret never lives in the environment.
type AuthConfig struct {
	JWTSecret        string
	TokenExpiration  time.Duration
	ClientID         string
	ClientSecretHash string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// AnalyticsConfig governs cache behaviour for the KPI endpoints.
type AnalyticsConfig struct {
	CacheTTL time.Duration
}

// DashboardConfig governs dashboard exposure, cache tuning and snapshot
// persistence for the rendered overview page.
type DashboardConfig struct {
	Enabled     bool
	CacheTTL    time.Duration
	SnapshotDir string
}

// ReportsConfig configures report generation and signed download links.
type ReportsConfig struct {
	Enabled         bool
	StorageDir      string
	SignedURLSecret string
	SignedURLTTL    time.Duration
	CleanupInterval time.Duration
}

// SyncConfig holds the upstream Data Access Platform credentials used when
// replicating Canvas tables into the local warehouse.
type SyncConfig struct {
	Enabled           bool
	BaseURL           string
	ClientID          string
	ClientSecret      string
	Tables            []string
	RequestTimeout    time.Duration
	PollInterval      time.Duration
	WorkerConcurrency int
	WorkerRetries     int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Auth = AuthConfig{
		JWTSecret:        v.GetString("JWT_SECRET"),
		TokenExpiration:  parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		ClientID:         v.GetString("AUTH_CLIENT_ID"),
		ClientSecretHash: v.GetString("AUTH_CLIENT_SECRET_HASH"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Analytics = AnalyticsConfig{
		CacheTTL: parseDuration(v.GetString("ANALYTICS_CACHE_TTL"), 10*time.Minute),
	}

	cfg.Dashboard = DashboardConfig{
		Enabled:     v.GetBool("ENABLE_DASHBOARD"),
		CacheTTL:    parseDuration(v.GetString("DASHBOARD_CACHE_TTL"), 5*time.Minute),
		SnapshotDir: v.GetString("DASHBOARD_SNAPSHOT_DIR"),
	}

	cfg.Reports = ReportsConfig{
		Enabled:         v.GetBool("ENABLE_REPORTS"),
		StorageDir:      v.GetString("REPORTS_STORAGE_DIR"),
		SignedURLSecret: v.GetString("REPORTS_SIGNED_URL_SECRET"),
		SignedURLTTL:    parseDuration(v.GetString("REPORTS_SIGNED_URL_TTL"), 24*time.Hour),
		CleanupInterval: parseDuration(v.GetString("REPORTS_CLEANUP_INTERVAL"), time.Hour),
	}

	cfg.Sync = SyncConfig{
		Enabled:           v.GetBool("ENABLE_SYNC"),
		BaseURL:           v.GetString("DAP_BASE_URL"),
		ClientID:          v.GetString("DAP_CLIENT_ID"),
		ClientSecret:      v.GetString("DAP_CLIENT_SECRET"),
		Tables:            splitAndTrim(v.GetString("SYNC_TABLES")),
		RequestTimeout:    parseDuration(v.GetString("DAP_REQUEST_TIMEOUT"), 30*time.Second),
		PollInterval:      parseDuration(v.GetString("DAP_POLL_INTERVAL"), 5*time.Second),
		WorkerConcurrency: v.GetInt("SYNC_WORKER_CONCURRENCY"),
		WorkerRetries:     v.GetInt("SYNC_WORKER_RETRIES"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "canvas_replica")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("AUTH_CLIENT_ID", "")
	v.SetDefault("AUTH_CLIENT_SECRET_HASH", "")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ANALYTICS_CACHE_TTL", "10m")
	v.SetDefault("ENABLE_DASHBOARD", true)
	v.SetDefault("DASHBOARD_CACHE_TTL", "5m")
	v.SetDefault("DASHBOARD_SNAPSHOT_DIR", "./dashboards")

	v.SetDefault("ENABLE_REPORTS", true)
	v.SetDefault("REPORTS_STORAGE_DIR", "./exports")
	v.SetDefault("REPORTS_SIGNED_URL_SECRET", "dev_reports_secret")
	v.SetDefault("REPORTS_SIGNED_URL_TTL", "24h")
	v.SetDefault("REPORTS_CLEANUP_INTERVAL", "1h")

	v.SetDefault("ENABLE_SYNC", false)
	v.SetDefault("DAP_BASE_URL", "https://api-gateway.instructure.com")
	v.SetDefault("DAP_CLIENT_ID", "")
	v.SetDefault("DAP_CLIENT_SECRET", "")
	v.SetDefault("SYNC_TABLES", "courses,enrollments,assignments,submissions,submission_comments,scores,learning_outcome_results,context_modules,context_module_progressions")
	v.SetDefault("DAP_REQUEST_TIMEOUT", "30s")
	v.SetDefault("DAP_POLL_INTERVAL", "5s")
	v.SetDefault("SYNC_WORKER_CONCURRENCY", 1)
	v.SetDefault("SYNC_WORKER_RETRIES", 3)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
