package config

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application. Every field is read
// from a flat environment-style key (SERVER_PORT, MONTHLY_FEE, ...).
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Sweep    SweepConfig
	Logging  LoggingConfig
	Business BusinessConfig
	Health   HealthConfig
}

type ServerConfig struct {
	Port string
	Host string
	Env  string
}

type DatabaseConfig struct {
	Path string
}

type RedisConfig struct {
	// Addr is host:port; empty disables the settlement summary cache.
	Addr     string
	Password string
	DB       int
	TTL      string
}

type SweepConfig struct {
	Schedule string
	Timezone string
}

type LoggingConfig struct {
	Level string
}

type BusinessConfig struct {
	// MonthlyFee is the flat per-member fee used to estimate expected
	// revenue, in whole currency units.
	MonthlyFee      int64
	DefaultCopyType string
}

type HealthConfig struct {
	Timeout string
}

// Load reads configuration from environment variables and files
func Load() (*Config, error) {
	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("DATABASE_PATH", "data/club-ledger.db")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_TTL", "10m")
	viper.SetDefault("SWEEP_SCHEDULE", "0 0 0 * * *")
	viper.SetDefault("SWEEP_TIMEZONE", "Asia/Seoul")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MONTHLY_FEE", 50000)
	viper.SetDefault("DEFAULT_COPY_TYPE", "소복사")
	viper.SetDefault("HEALTH_CHECK_TIMEOUT", "5s")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read from .env file (optional)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	// Don't fail if .env file doesn't exist
	_ = viper.ReadInConfig()

	// Fields are read individually by flat key; viper.Unmarshal does not
	// see values that exist only in the environment.
	config := Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
			Host: viper.GetString("SERVER_HOST"),
			Env:  viper.GetString("ENV"),
		},
		Database: DatabaseConfig{
			Path: viper.GetString("DATABASE_PATH"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
			TTL:      viper.GetString("REDIS_TTL"),
		},
		Sweep: SweepConfig{
			Schedule: viper.GetString("SWEEP_SCHEDULE"),
			Timezone: viper.GetString("SWEEP_TIMEZONE"),
		},
		Logging: LoggingConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		Business: BusinessConfig{
			MonthlyFee:      viper.GetInt64("MONTHLY_FEE"),
			DefaultCopyType: viper.GetString("DEFAULT_COPY_TYPE"),
		},
		Health: HealthConfig{
			Timeout: viper.GetString("HEALTH_CHECK_TIMEOUT"),
		},
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Database.Path == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}

	if c.Business.MonthlyFee <= 0 {
		return fmt.Errorf("MONTHLY_FEE must be greater than 0")
	}

	parser := cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(c.Sweep.Schedule); err != nil {
		return fmt.Errorf("SWEEP_SCHEDULE must be a valid cron expression: %w", err)
	}

	if _, err := time.LoadLocation(c.Sweep.Timezone); err != nil {
		return fmt.Errorf("SWEEP_TIMEZONE must be a valid timezone: %w", err)
	}

	if _, err := time.ParseDuration(c.Redis.TTL); err != nil {
		return fmt.Errorf("REDIS_TTL must be a valid duration: %w", err)
	}

	if _, err := time.ParseDuration(c.Health.Timeout); err != nil {
		return fmt.Errorf("HEALTH_CHECK_TIMEOUT must be a valid duration: %w", err)
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

// CacheEnabled reports whether the Redis summary cache is configured.
func (c *Config) CacheEnabled() bool {
	return c.Redis.Addr != ""
}

// GetCacheTTL returns the summary cache TTL as duration
func (c *Config) GetCacheTTL() time.Duration {
	ttl, _ := time.ParseDuration(c.Redis.TTL)
	return ttl
}

// GetHealthTimeout returns the health check timeout as duration
func (c *Config) GetHealthTimeout() time.Duration {
	timeout, _ := time.ParseDuration(c.Health.Timeout)
	return timeout
}

// GetSweepLocation returns the timezone the sweeper derives "today" in
func (c *Config) GetSweepLocation() *time.Location {
	loc, _ := time.LoadLocation(c.Sweep.Timezone)
	return loc
}
