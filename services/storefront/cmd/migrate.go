package main

import (
	"github.com/spf13/cobra"

	"StorefrontPlatform/pkg/database"
	"StorefrontPlatform/pkg/logger"
	"StorefrontPlatform/services/storefront/internal/repository/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Применить миграции схемы базы данных",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadRuntime()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		if err := applyMigrations(database.FromAppConfig(cfg.Database)); err != nil {
			log.Error("Migrations failed", logger.Error(err))
			return err
		}
		log.Info("Migrations applied")
		return nil
	},
}

func applyMigrations(dbConfig *database.Config) error {
	return database.Migrate(dbConfig.DSN(), postgres.Migrations, postgres.MigrationsDir)
}
