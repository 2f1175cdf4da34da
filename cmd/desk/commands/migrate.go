package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taskmaster/desk/internal/infrastructure/database"
)

// newMigrateCommand creates the migrate command with subcommands
func newMigrateCommand(opts *rootOptions) *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration commands",
		Long:  "Manage the schema of the sqlite or postgres storage drivers (up, down, version)",
	}

	run := func(direction string) func(cmd *cobra.Command, args []string) error {
		return func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(app *App) error {
				if !app.Config.Storage.IsSQL() {
					return fmt.Errorf("storage driver %q has no schema to migrate", app.Config.Storage.Driver)
				}
				if err := database.Migrate(app.Config.Storage, direction); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Migrations %s applied\n", direction)
				return nil
			})
		}
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Run all up migrations",
		Args:  cobra.NoArgs,
		RunE:  run("up"),
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Run all down migrations",
		Args:  cobra.NoArgs,
		RunE:  run("down"),
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print current migration version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(app *App) error {
				if !app.Config.Storage.IsSQL() {
					return fmt.Errorf("storage driver %q has no schema to migrate", app.Config.Storage.Driver)
				}
				version, dirty, err := database.Version(app.Config.Storage)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Current migration version: %d (dirty: %t)\n", version, dirty)
				return nil
			})
		},
	})

	return migrateCmd
}
