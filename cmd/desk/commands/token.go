package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTokenCommand(opts *rootOptions) *cobra.Command {
	var subject string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the HTTP API",
		Long:  "Issue a bearer token signed with jwt.secret. Needed when auth.enabled is true.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(app *App) error {
				token, err := app.AuthService().IssueToken(subject)
				if err != nil {
					return err
				}

				fmt.Fprintln(cmd.OutOrStdout(), token.AccessToken)
				app.Logger.Debugw("Token issued", "subject", subject, "expires_in", token.ExpiresIn)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "desk", "token subject")
	return cmd
}
