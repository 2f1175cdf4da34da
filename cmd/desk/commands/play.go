package commands

import (
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/taskmaster/desk/internal/application/services"
)

func newPlayCommand(opts *rootOptions) *cobra.Command {
	var seed int64

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play rock-paper-scissors against the computer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("seed") {
				seed = time.Now().UnixNano()
			}

			return withApp(opts, func(app *App) error {
				game := services.NewGameService(rand.New(rand.NewSource(seed)), app.Logger)
				_, err := game.Play(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
				return err
			})
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 0, "seed for the computer's moves")
	return cmd
}
