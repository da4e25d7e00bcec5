package di

import (
	"fmt"

	"github.com/damo1005/dealflow-properties-sub003/internal/config"
	"github.com/damo1005/dealflow-properties-sub003/internal/database"
	"github.com/rs/zerolog"
)

// InitializeDatabases opens the analyses database and applies its schema.
func InitializeDatabases(cfg *config.Config, log zerolog.Logger) (*Container, error) {
	container := &Container{}

	analysesDB, err := database.New(database.Config{
		Path: cfg.DatabasePath(),
		Name: "analyses",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize analyses database: %w", err)
	}
	if err := analysesDB.Migrate(); err != nil {
		analysesDB.Close()
		return nil, fmt.Errorf("failed to migrate analyses database: %w", err)
	}
	container.AnalysesDB = analysesDB
	container.closers = append(container.closers, analysesDB.Close)

	log.Info().Str("path", analysesDB.Path()).Msg("Analyses database initialized")

	return container, nil
}
