package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Database     DatabaseConfig
	JWT          JWTConfig
	App          AppConfig
	Redis        RedisConfig
	Cron         CronConfig
	Contribution payroll.ContributionTable
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Name           string
	Version        string
	Port           int
	Env            string
	LogLevel       string
	Timezone       string
	Location       *time.Location
	AllowedOrigins []string
}

// RedisConfig is optional: an empty Addr disables the settings cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	CacheTTL time.Duration
}

type CronConfig struct {
	Enabled       bool
	SweepInterval time.Duration
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}
	var err error

	// Database configuration
	dbPort, err := getEnvInt("DB_PORT", 5432)
	if err != nil {
		return nil, err
	}
	maxConns, err := getEnvInt("DB_MAX_CONNS", 25)
	if err != nil {
		return nil, err
	}
	minConns, err := getEnvInt("DB_MIN_CONNS", 5)
	if err != nil {
		return nil, err
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "hris_payroll"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(maxConns),
		MinConns: int32(minConns),
	}

	// Application configuration
	appPort, err := getEnvInt("APP_PORT", 8080)
	if err != nil {
		return nil, err
	}

	config.App = AppConfig{
		Name:           getEnv("APP_NAME", "hris-payroll"),
		Version:        getEnv("APP_VERSION", "v1.0.0"),
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Timezone:       getEnv("APP_TIMEZONE", "Asia/Manila"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}
	if config.App.Location, err = time.LoadLocation(config.App.Timezone); err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Redis configuration
	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	cacheTTL, err := getEnvDuration("REDIS_CACHE_TTL", 10*time.Minute)
	if err != nil {
		return nil, err
	}

	config.Redis = RedisConfig{
		Addr:     getEnv("REDIS_ADDR", ""),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       redisDB,
		CacheTTL: cacheTTL,
	}

	// Cron configuration
	sweepInterval, err := getEnvDuration("CRON_SWEEP_INTERVAL", time.Hour)
	if err != nil {
		return nil, err
	}

	config.Cron = CronConfig{
		Enabled:       getEnv("CRON_ENABLED", "true") == "true",
		SweepInterval: sweepInterval,
	}

	if config.Contribution, err = loadContributionTable(); err != nil {
		return nil, err
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	slog.Debug("Configuration loaded", "env", config.App.Env, "timezone", config.App.Timezone,
		"redis", config.Redis.Enabled(), "cron", config.Cron.Enabled)
	return config, nil
}

// loadContributionTable applies CONTRIB_* overrides to the default statutory rates.
func loadContributionTable() (payroll.ContributionTable, error) {
	table := payroll.DefaultContributionTable()

	overrides := []struct {
		key    string
		target *decimal.Decimal
	}{
		{"CONTRIB_SSS_FLOOR", &table.SSSFloor},
		{"CONTRIB_SSS_CEILING", &table.SSSCeiling},
		{"CONTRIB_SSS_MINIMUM", &table.SSSMinimum},
		{"CONTRIB_SSS_MAXIMUM", &table.SSSMaximum},
		{"CONTRIB_SSS_RATE", &table.SSSRate},
		{"CONTRIB_PHILHEALTH_RATE", &table.PhilHealthRate},
		{"CONTRIB_PHILHEALTH_CAP", &table.PhilHealthCap},
		{"CONTRIB_PAGIBIG_SALARY_CAP", &table.PagIBIGSalaryCap},
		{"CONTRIB_PAGIBIG_LOW_RATE", &table.PagIBIGLowRate},
		{"CONTRIB_PAGIBIG_HIGH_RATE", &table.PagIBIGHighRate},
		{"CONTRIB_MINIMUM_DAILY_WAGE", &table.MinimumDailyWage},
	}
	for _, o := range overrides {
		value := os.Getenv(o.key)
		if value == "" {
			continue
		}
		parsed, err := decimal.NewFromString(value)
		if err != nil {
			return payroll.ContributionTable{}, fmt.Errorf("invalid %s: %w", o.key, err)
		}
		*o.target = parsed
	}
	return table, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	return errors.Join(
		c.Database.Validate(),
		c.JWT.Validate(),
		c.App.Validate(),
		c.Redis.Validate(),
		c.Cron.Validate(),
		validateContribution(c.Contribution),
	)
}

func (c DatabaseConfig) Validate() error {
	if c.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.MinConns > c.MaxConns {
		return fmt.Errorf("DB_MIN_CONNS must not exceed DB_MAX_CONNS")
	}
	return nil
}

func (c JWTConfig) Validate() error {
	if c.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	return nil
}

func (c AppConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("APP_PORT must be between 1 and 65535")
	}
	if c.Location == nil {
		return fmt.Errorf("APP_TIMEZONE is required")
	}
	return nil
}

func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

func (c RedisConfig) Validate() error {
	if c.Enabled() && c.CacheTTL <= 0 {
		return fmt.Errorf("REDIS_CACHE_TTL must be positive")
	}
	return nil
}

func (c CronConfig) Validate() error {
	if c.Enabled && c.SweepInterval < time.Minute {
		return fmt.Errorf("CRON_SWEEP_INTERVAL must be at least 1m")
	}
	return nil
}

func validateContribution(t payroll.ContributionTable) error {
	if t.SSSFloor.GreaterThan(t.SSSCeiling) {
		return fmt.Errorf("CONTRIB_SSS_FLOOR must not exceed CONTRIB_SSS_CEILING")
	}
	rates := []decimal.Decimal{t.SSSRate, t.PhilHealthRate, t.PagIBIGLowRate, t.PagIBIGHighRate}
	for _, rate := range rates {
		if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("contribution rates must be between 0 and 1")
		}
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnvSlice(key string, fallback []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
