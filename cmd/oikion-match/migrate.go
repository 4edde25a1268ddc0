package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/Oikion/mvp-sub017/pkg/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Open(cmd.Context(), cfg.DatabaseConfig(), logger)
		if err != nil {
			return eris.Wrap(err, "open database")
		}
		defer db.Close()

		if err := database.NewMigrationService(logger, cfg.MigrationConfig()).MigrateDB(db); err != nil {
			return eris.Wrap(err, "migrate")
		}

		logger.Info("Migrations applied")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
