package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DEALFLOW_DATA_DIR", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "2024-25", cfg.TaxYear)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Equal(t, SimulationConfig{MaxIterations: 10000, ChunkSize: 250, Workers: 0}, cfg.Simulation)
	assert.Equal(t, 2*time.Second, cfg.GoalSeekTimeout)
	assert.False(t, cfg.S3.Enabled())
	assert.Contains(t, cfg.DatabasePath(), "analyses.db")
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("DEALFLOW_DATA_DIR", t.TempDir())
	t.Setenv("DEALFLOW_PORT", "9090")
	t.Setenv("TAX_YEAR", "2025-26")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("SIM_WORKERS", "4")
	t.Setenv("GOALSEEK_TIMEOUT_MS", "500")
	t.Setenv("DEV_MODE", "true")
	t.Setenv("S3_BUCKET", "backups")
	t.Setenv("S3_ACCESS_KEY_ID", "id")
	t.Setenv("S3_SECRET_ACCESS_KEY", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "2025-26", cfg.TaxYear)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 4, cfg.Simulation.Workers)
	assert.Equal(t, 500*time.Millisecond, cfg.GoalSeekTimeout)
	assert.True(t, cfg.DevMode)
	assert.True(t, cfg.S3.Enabled())
}

func TestLoad_IgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("DEALFLOW_DATA_DIR", t.TempDir())
	t.Setenv("DEALFLOW_PORT", "eighty")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Port:           8080,
			TaxYear:        "2024-25",
			Simulation:     SimulationConfig{MaxIterations: 10000, ChunkSize: 250},
			BackupSchedule: "0 3 * * *",
		}
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"port", func(c *Config) { c.Port = 0 }},
		{"tax year", func(c *Config) { c.TaxYear = "" }},
		{"iterations", func(c *Config) { c.Simulation.MaxIterations = 0 }},
		{"chunk size", func(c *Config) { c.Simulation.ChunkSize = 0 }},
		{"workers", func(c *Config) { c.Simulation.Workers = -1 }},
		{"schedule", func(c *Config) { c.BackupSchedule = "every day" }},
		{"half credentials", func(c *Config) { c.S3 = S3Config{Bucket: "b", AccessKeyID: "id"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}
