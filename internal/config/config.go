// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Config holds application configuration
type Config struct {
	DataDir  string // Directory holding the analyses database (always absolute)
	Port     int
	LogLevel string
	DevMode  bool

	TaxYear     string // Default tax year for calculations (e.g. "2024-25")
	TaxRulesDir string // Optional directory of YAML rule files overriding the embedded ones

	RedisAddr string // Empty selects the in-memory cache
	CacheTTL  time.Duration

	Simulation SimulationConfig

	GoalSeekTimeout time.Duration

	AnalysisRetentionDays int
	BackupSchedule        string // cron spec; empty disables scheduled backups

	S3 S3Config
}

// SimulationConfig bounds Monte Carlo runs.
type SimulationConfig struct {
	MaxIterations int
	ChunkSize     int
	Workers       int // 0 uses the logical CPU count
}

// S3Config configures backups to S3 or an S3-compatible store such as R2.
type S3Config struct {
	Bucket          string
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// Enabled reports whether a bucket is configured.
func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

// Load reads configuration from environment variables, after loading .env if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dataDir, err := filepath.Abs(getEnv("DEALFLOW_DATA_DIR", "./data"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:     dataDir,
		Port:        getEnvAsInt("DEALFLOW_PORT", 8080),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		DevMode:     getEnvAsBool("DEV_MODE", false),
		TaxYear:     getEnv("TAX_YEAR", "2024-25"),
		TaxRulesDir: getEnv("TAX_RULES_DIR", ""),
		RedisAddr:   getEnv("REDIS_ADDR", ""),
		CacheTTL:    time.Duration(getEnvAsInt("CACHE_TTL_SECONDS", 3600)) * time.Second,
		Simulation: SimulationConfig{
			MaxIterations: getEnvAsInt("SIM_MAX_ITERATIONS", 10000),
			ChunkSize:     getEnvAsInt("SIM_CHUNK_SIZE", 250),
			Workers:       getEnvAsInt("SIM_WORKERS", 0),
		},
		GoalSeekTimeout:       time.Duration(getEnvAsInt("GOALSEEK_TIMEOUT_MS", 2000)) * time.Millisecond,
		AnalysisRetentionDays: getEnvAsInt("ANALYSIS_RETENTION_DAYS", 365),
		BackupSchedule:        getEnv("BACKUP_SCHEDULE", "0 3 * * *"),
		S3: S3Config{
			Bucket:          getEnv("S3_BUCKET", ""),
			Endpoint:        getEnv("S3_ENDPOINT", ""),
			Region:          getEnv("S3_REGION", "auto"),
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the services cannot start with.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.TaxYear == "" {
		return fmt.Errorf("tax year is required")
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache TTL must not be negative")
	}
	if c.Simulation.MaxIterations < 1 || c.Simulation.MaxIterations > 100000 {
		return fmt.Errorf("simulation max iterations must be between 1 and 100000, got %d", c.Simulation.MaxIterations)
	}
	if c.Simulation.ChunkSize < 1 {
		return fmt.Errorf("simulation chunk size must be positive, got %d", c.Simulation.ChunkSize)
	}
	if c.Simulation.Workers < 0 {
		return fmt.Errorf("simulation workers must not be negative, got %d", c.Simulation.Workers)
	}
	if c.GoalSeekTimeout < 0 {
		return fmt.Errorf("goal seek timeout must not be negative")
	}
	if c.AnalysisRetentionDays < 0 {
		return fmt.Errorf("analysis retention days must not be negative")
	}
	if c.BackupSchedule != "" {
		if _, err := cron.ParseStandard(c.BackupSchedule); err != nil {
			return fmt.Errorf("invalid backup schedule %q: %w", c.BackupSchedule, err)
		}
	}
	if c.S3.Enabled() && (c.S3.AccessKeyID == "") != (c.S3.SecretAccessKey == "") {
		return fmt.Errorf("S3 access key id and secret must be set together")
	}
	return nil
}

// DatabasePath returns the path of the analyses database.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "analyses.db")
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
