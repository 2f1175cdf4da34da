package commands

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taskmaster/desk/internal/application/services"
	"github.com/taskmaster/desk/internal/ports"
)

func newContactsCommand(opts *rootOptions) *cobra.Command {
	contactsCmd := &cobra.Command{
		Use:     "contacts",
		Aliases: []string{"contact", "c"},
		Short:   "Manage the contact book",
		Long:    "Add, search, edit, delete, import and export contacts stored in contacts.json",
	}

	contactsCmd.AddCommand(
		newContactAddCommand(opts),
		newContactListCommand(opts),
		newContactSearchCommand(opts),
		newContactShowCommand(opts),
		newContactEditCommand(opts),
		newContactDeleteCommand(opts),
		newContactExportCommand(opts),
		newContactImportCommand(opts),
	)

	return contactsCmd
}

// contactFlags registers the optional contact fields on cmd
func contactFlags(cmd *cobra.Command, req *ports.UpdateContactRequest) {
	cmd.Flags().StringVar(&req.Name, "name", "", "contact name")
	cmd.Flags().StringVar(&req.Phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&req.Email, "email", "", "email address")
	cmd.Flags().StringVar(&req.Address, "address", "", "postal address")
	cmd.Flags().StringVar(&req.Notes, "notes", "", "free text notes")
}

func newContactAddCommand(opts *rootOptions) *cobra.Command {
	var req ports.UpdateContactRequest

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Add a contact",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 && !cmd.Flags().Changed("name") {
				req.Name = args[0]
			}

			return withApp(opts, func(app *App) error {
				svc, err := app.ContactService()
				if err != nil {
					return err
				}

				contact, err := svc.CreateContact(cmd.Context(), ports.CreateContactRequest(req))
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Added contact %s (%s)\n", contact.Name, contact.ID)
				return nil
			})
		},
	}

	contactFlags(cmd, &req)
	return cmd
}

func newContactListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all contacts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(app *App) error {
				svc, err := app.ContactService()
				if err != nil {
					return err
				}

				contacts, err := svc.ListContacts(cmd.Context(), ports.ContactFilter{})
				if err != nil {
					return err
				}

				renderContacts(cmd.OutOrStdout(), contacts, nil)
				return nil
			})
		},
	}
}

func newContactSearchCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Find contacts whose name or phone contains query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(app *App) error {
				svc, err := app.ContactService()
				if err != nil {
					return err
				}

				all, err := svc.ListContacts(cmd.Context(), ports.ContactFilter{})
				if err != nil {
					return err
				}

				renderContacts(cmd.OutOrStdout(), services.FilterContacts(all, args[0]), contactPositions(all))
				return nil
			})
		},
	}
}

func newContactShowCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <selector>",
		Short: "Show every field of a contact",
		Long:  "Show a contact by id, id prefix (4+ characters) or list position (#3 or 3)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(app *App) error {
				svc, err := app.ContactService()
				if err != nil {
					return err
				}

				contact, err := svc.GetContact(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				renderContact(cmd.OutOrStdout(), contact)
				return nil
			})
		},
	}
}

func newContactEditCommand(opts *rootOptions) *cobra.Command {
	var req ports.UpdateContactRequest

	cmd := &cobra.Command{
		Use:   "edit <selector>",
		Short: "Edit a contact",
		Long:  "Edit a contact. Fields not given on the command line keep their current value.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(app *App) error {
				svc, err := app.ContactService()
				if err != nil {
					return err
				}

				current, err := svc.GetContact(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				update := ports.UpdateContactRequest{
					Name:    current.Name,
					Phone:   current.Phone,
					Email:   current.Email,
					Address: current.Address,
					Notes:   current.Notes,
				}
				flags := cmd.Flags()
				if flags.Changed("name") {
					update.Name = req.Name
				}
				if flags.Changed("phone") {
					update.Phone = req.Phone
				}
				if flags.Changed("email") {
					update.Email = req.Email
				}
				if flags.Changed("address") {
					update.Address = req.Address
				}
				if flags.Changed("notes") {
					update.Notes = req.Notes
				}

				contact, err := svc.UpdateContact(cmd.Context(), current.ID, update)
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Updated contact %s\n", contact.Name)
				return nil
			})
		},
	}

	contactFlags(cmd, &req)
	return cmd
}

func newContactDeleteCommand(opts *rootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete <selector>",
		Aliases: []string{"rm"},
		Short:   "Delete a contact",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(app *App) error {
				svc, err := app.ContactService()
				if err != nil {
					return err
				}

				contact, err := svc.GetContact(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				if !yes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("Delete contact %s?", contact.Name)) {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}

				if _, err := svc.DeleteContact(cmd.Context(), contact.ID); err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Deleted contact %s\n", contact.Name)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newContactExportCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export <path>",
		Short: "Write all contacts to a .json or .yaml file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(app *App) error {
				svc, err := app.ContactService()
				if err != nil {
					return err
				}

				n, err := svc.ExportContacts(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d contacts to %s\n", n, args[0])
				return nil
			})
		},
	}
}

func newContactImportCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <path>",
		Short: "Append contacts from a .json or .yaml array",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(app *App) error {
				svc, err := app.ContactService()
				if err != nil {
					return err
				}

				n, err := svc.ImportContacts(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d contacts from %s\n", n, args[0])
				return nil
			})
		},
	}
}

// confirm asks a yes/no question and reports whether the answer was yes
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)

	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
