package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"NexStock/internal/config"
	"NexStock/internal/inventory"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the Postgres table used by STORE_DRIVER=postgres",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadEnv()
		if cfg.Store.PostgresURL == "" {
			return errors.New("DATABASE_URL is required")
		}
		log := newLogger(cfg)
		defer func() { _ = log.Sync() }()

		s, err := inventory.NewPostgresStore(cmd.Context(), cfg.Store.PostgresURL, log)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.Migrate(cmd.Context()); err != nil {
			return err
		}
		log.Info("inventory_documents table ready")
		return nil
	},
}
