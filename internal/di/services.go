package di

import (
	"context"
	"fmt"
	"time"

	"github.com/damo1005/dealflow-properties-sub003/internal/cache"
	"github.com/damo1005/dealflow-properties-sub003/internal/config"
	"github.com/damo1005/dealflow-properties-sub003/internal/modules/analyses"
	"github.com/damo1005/dealflow-properties-sub003/internal/modules/deal"
	"github.com/damo1005/dealflow-properties-sub003/internal/modules/goalseek"
	"github.com/damo1005/dealflow-properties-sub003/internal/modules/simulation"
	"github.com/damo1005/dealflow-properties-sub003/internal/modules/tax"
	"github.com/damo1005/dealflow-properties-sub003/internal/reliability"
	"github.com/rs/zerolog"
)

const memoryCacheEntries = 5000

// InitializeServices creates the calculators, engines, repository, cache and backup service.
func InitializeServices(container *Container, cfg *config.Config, log zerolog.Logger) error {
	if container == nil {
		return fmt.Errorf("container cannot be nil")
	}

	book, err := tax.LoadRulesWithOverrides(cfg.TaxRulesDir)
	if err != nil {
		return fmt.Errorf("failed to load tax rules: %w", err)
	}
	container.TaxCalculator, err = tax.NewCalculator(book, cfg.TaxYear)
	if err != nil {
		return err
	}
	log.Info().
		Str("tax_year", container.TaxCalculator.TaxYear()).
		Strs("available_years", book.Years()).
		Msg("Tax rules loaded")

	container.DealCalculator = deal.NewCalculator(container.TaxCalculator, log)

	simCfg := simulation.DefaultConfig()
	simCfg.MaxIterations = cfg.Simulation.MaxIterations
	simCfg.ChunkSize = cfg.Simulation.ChunkSize
	simCfg.Workers = cfg.Simulation.Workers
	container.SimulationEngine = simulation.NewEngine(container.DealCalculator, simCfg, log)

	container.GoalSeekEngine = goalseek.NewEngine(container.DealCalculator, cfg.GoalSeekTimeout, log)

	container.AnalysisRepo = analyses.NewRepository(container.AnalysesDB.Conn(), log)

	container.Cache = newCache(cfg, container, log)

	if cfg.S3.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		store, err := reliability.NewS3Store(ctx, reliability.S3Config{
			Bucket:          cfg.S3.Bucket,
			Endpoint:        cfg.S3.Endpoint,
			Region:          cfg.S3.Region,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
		}, log)
		if err != nil {
			return fmt.Errorf("failed to create backup store: %w", err)
		}
		container.BackupService = reliability.NewBackupService(container.Databases(), store, cfg.DataDir, log)
	} else {
		log.Info().Msg("S3 bucket not configured, backups disabled")
	}

	return nil
}

// newCache prefers Redis when configured and reachable, falling back to the in-memory cache.
func newCache(cfg *config.Config, container *Container, log zerolog.Logger) cache.Cache {
	if cfg.RedisAddr == "" {
		return cache.NewMemoryCache(memoryCacheEntries, cfg.CacheTTL)
	}

	rc := cache.NewRedisCache(cfg.RedisAddr, "dealflow:")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rc.Ping(ctx); err != nil {
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("Redis unavailable, using in-memory cache")
		_ = rc.Close()
		return cache.NewMemoryCache(memoryCacheEntries, cfg.CacheTTL)
	}

	container.closers = append(container.closers, rc.Close)
	log.Info().Str("addr", cfg.RedisAddr).Msg("Using Redis cache")
	return rc
}
