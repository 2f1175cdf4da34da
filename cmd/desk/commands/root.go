// Package commands implements the desk command line.
package commands

import (
	"github.com/spf13/cobra"
)

// Build information, set with -ldflags at release time.
var (
	Version   = "dev"
	GitCommit = "development"
	BuildDate = "unknown"
)

type rootOptions struct {
	configFile   string
	dataDir      string
	resetCorrupt bool
}

// NewRootCommand creates the desk command tree
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "desk",
		Short: "Contacts, to-do list, GST calculator and rock-paper-scissors",
		Long: `desk keeps a contact book and a to-do list in local JSON files, evaluates
arithmetic and GST calculations, plays rock-paper-scissors on the console and
can serve all of it over a local HTTP API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "config file (yaml)")
	flags.StringVar(&opts.dataDir, "data-dir", "", "directory holding contacts.json and gui_todo_data.json")
	flags.BoolVar(&opts.resetCorrupt, "reset-corrupt", false, "move an unreadable data file aside and start with an empty list")

	rootCmd.AddCommand(
		newContactsCommand(opts),
		newTodoCommand(opts),
		newCalcCommand(opts),
		newPlayCommand(opts),
		newServeCommand(opts),
		newMigrateCommand(opts),
		newTokenCommand(opts),
		newVersionCommand(),
	)

	return rootCmd
}

// withApp builds the App for a command, runs fn and releases the stores.
func withApp(opts *rootOptions, fn func(app *App) error) error {
	app, err := newApp(opts)
	if err != nil {
		return err
	}
	defer app.Close()

	return fn(app)
}
