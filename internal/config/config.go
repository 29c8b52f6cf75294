package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultHTTPAddr            = ":8080"
	defaultDatabaseURL         = "estatedesk.db"
	defaultJWTSecret           = "change-me-jwt-secret"
	defaultJWTTTL              = "24h"
	defaultLogLevel            = "info"
	defaultLogFormat           = "json"
	defaultSweepInterval       = "0s"
	defaultNotificationTimeout = "15s"
	defaultDemandDraftDueDays  = "30"
	defaultDBMaxOpenConns      = "25"
	defaultDBMaxIdleConns      = "5"
	defaultDBConnMaxLifetime   = "30m"
	defaultSystemActorID       = "1"
	defaultNotificationKeep    = "2160h"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	DatabaseURL string
	DBTracing   bool

	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration

	JWTSecret string
	JWTTTL    time.Duration

	LogLevel  string
	LogFormat string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// MilestoneSweepInterval of zero disables the in-process sweep ticker.
	MilestoneSweepInterval time.Duration
	NotificationTimeout    time.Duration
	NotificationRetention  time.Duration
	DemandDraftDueDays     int
	SystemActorID          int64

	AdminEmail         string
	CORSAllowedOrigins []string

	Bank BankConfig
}

// BankConfig is the collection account printed on every demand draft.
type BankConfig struct {
	BankName      string
	AccountName   string
	AccountNumber string
	IFSC          string
	Branch        string
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.HTTPAddr = strings.TrimSpace(getEnv("HTTP_ADDR", defaultHTTPAddr))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.DBTracing = parseBoolEnv("DB_TRACING", "false")
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.LogLevel = strings.TrimSpace(getEnv("LOG_LEVEL", defaultLogLevel))
	cfg.LogFormat = strings.TrimSpace(getEnv("LOG_FORMAT", defaultLogFormat))
	cfg.RedisAddr = strings.TrimSpace(os.Getenv("REDIS_ADDRESS"))
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.AdminEmail = strings.TrimSpace(getEnv("ADMIN_EMAIL", "admin@estatedesk.local"))
	cfg.CORSAllowedOrigins = splitList(os.Getenv("CORS_ALLOWED_ORIGINS"))

	cfg.Bank = BankConfig{
		BankName:      strings.TrimSpace(os.Getenv("BANK_NAME")),
		AccountName:   strings.TrimSpace(os.Getenv("BANK_ACCOUNT_NAME")),
		AccountNumber: strings.TrimSpace(os.Getenv("BANK_ACCOUNT_NUMBER")),
		IFSC:          strings.TrimSpace(os.Getenv("BANK_IFSC")),
		Branch:        strings.TrimSpace(os.Getenv("BANK_BRANCH")),
	}

	var err error
	if cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL); err != nil {
		return nil, err
	}
	if cfg.MilestoneSweepInterval, err = parseDurationEnv("MILESTONE_SWEEP_INTERVAL", defaultSweepInterval); err != nil {
		return nil, err
	}
	if cfg.NotificationTimeout, err = parseDurationEnv("NOTIFICATION_TIMEOUT", defaultNotificationTimeout); err != nil {
		return nil, err
	}
	if cfg.NotificationRetention, err = parseDurationEnv("NOTIFICATION_RETENTION", defaultNotificationKeep); err != nil {
		return nil, err
	}
	if cfg.DBConnMaxLifetime, err = parseDurationEnv("DB_CONN_MAX_LIFETIME", defaultDBConnMaxLifetime); err != nil {
		return nil, err
	}
	if cfg.DemandDraftDueDays, err = parseIntEnv("DEMAND_DRAFT_DUE_DAYS", defaultDemandDraftDueDays); err != nil {
		return nil, err
	}
	if cfg.DBMaxOpenConns, err = parseIntEnv("DB_MAX_OPEN_CONNS", defaultDBMaxOpenConns); err != nil {
		return nil, err
	}
	if cfg.DBMaxIdleConns, err = parseIntEnv("DB_MAX_IDLE_CONNS", defaultDBMaxIdleConns); err != nil {
		return nil, err
	}
	if cfg.RedisDB, err = parseIntEnv("REDIS_DB", "0"); err != nil {
		return nil, err
	}
	actor, err := parseIntEnv("SYSTEM_ACTOR_ID", defaultSystemActorID)
	if err != nil {
		return nil, err
	}
	cfg.SystemActorID = int64(actor)

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) IsProdLike() bool {
	return isProdLike(c.AppEnv)
}

func validateConfig(cfg *Config) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.MilestoneSweepInterval < 0 {
		return fmt.Errorf("MILESTONE_SWEEP_INTERVAL must be >= 0")
	}
	if cfg.NotificationTimeout <= 0 {
		return fmt.Errorf("NOTIFICATION_TIMEOUT must be > 0")
	}
	if cfg.NotificationRetention < 0 {
		return fmt.Errorf("NOTIFICATION_RETENTION must be >= 0")
	}
	if cfg.DemandDraftDueDays <= 0 {
		return fmt.Errorf("DEMAND_DRAFT_DUE_DAYS must be > 0")
	}
	if cfg.DBMaxOpenConns < 0 || cfg.DBMaxIdleConns < 0 {
		return fmt.Errorf("DB pool sizes must be >= 0")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if cfg.Bank.AccountNumber == "" || cfg.Bank.IFSC == "" {
			return fmt.Errorf("in prod/release BANK_ACCOUNT_NUMBER and BANK_IFSC must be set")
		}
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
