package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/device-grader/internal/config"
	"github.com/donaldgifford/device-grader/internal/store"
	"github.com/donaldgifford/device-grader/pkg/logger"
)

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE:  runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
	defer cancel()

	pg, err := store.NewPostgresStore(ctx, cfg.Database.DSN(), store.WithMaxConns(1))
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer pg.Close()

	log.Info("running migrations", "host", cfg.Database.Host, "database", cfg.Database.Name)

	if err := pg.Migrate(ctx); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	log.Info("migrations complete")
	return nil
}
