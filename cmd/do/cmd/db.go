package cmd

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/ifuapp/ifu/internal/clock"
	"github.com/ifuapp/ifu/internal/config"
	"github.com/ifuapp/ifu/internal/db"
	"github.com/ifuapp/ifu/internal/logger"
	"github.com/ifuapp/ifu/internal/repository"
	"github.com/ifuapp/ifu/internal/service"
)

// openDB loads config and connects to the configured database.
func openDB() (*config.Config, *sqlx.DB, error) {
	cfg := config.Load()
	logger.Init(cfg.AppEnv, cfg.IsDevelopment(), "")

	conn, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, nil, err
	}
	return cfg, conn, nil
}

func MigrateCmd() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
	}

	migrateCmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDB(func(cfg *config.Config, conn *sqlx.DB) error {
					return db.RunMigrations(conn.DB, cfg.DBDriver)
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDB(func(cfg *config.Config, conn *sqlx.DB) error {
					return db.MigrateDown(conn.DB, cfg.DBDriver)
				})
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show applied and pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDB(func(cfg *config.Config, conn *sqlx.DB) error {
					return db.MigrationStatus(conn.DB, cfg.DBDriver)
				})
			},
		},
	)

	return migrateCmd
}

func CleanupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup-codes",
		Short: "Delete expired verification codes once",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(cfg *config.Config, conn *sqlx.DB) error {
				maintenance := service.NewMaintenanceService(repository.NewVerificationCodeRepository(conn), clock.System())
				n, err := maintenance.CleanupExpiredCodes()
				if err != nil {
					return err
				}
				fmt.Printf("removed %d expired codes\n", n)
				return nil
			})
		},
	}
}

func withDB(fn func(cfg *config.Config, conn *sqlx.DB) error) error {
	cfg, conn, err := openDB()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close(conn) }()

	return fn(cfg, conn)
}
