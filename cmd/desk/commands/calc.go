package commands

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taskmaster/desk/internal/application/services"
	"github.com/taskmaster/desk/internal/domain/entities"
	"github.com/taskmaster/desk/internal/ports"
	"github.com/taskmaster/desk/internal/tui"
)

func newCalcCommand(opts *rootOptions) *cobra.Command {
	calcCmd := &cobra.Command{
		Use:   "calc",
		Short: "Calculator with GST add-on",
		Long:  "Evaluate arithmetic expressions and add, remove or calculate GST at the standard slabs",
	}

	calcCmd.AddCommand(
		newCalcEvalCommand(opts),
		newCalcGSTCommand(opts),
		newCalcKeypadCommand(opts),
		newCalcReplCommand(opts),
	)

	return calcCmd
}

func newCalcEvalCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "eval <expression>",
		Short: "Evaluate an arithmetic expression",
		Long: `Evaluate an arithmetic expression. Supported: numbers, + - * / // % **,
parentheses and the functions sqrt, square, factorial and int.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(app *App) error {
				res, err := app.CalculatorService().Evaluate(strings.Join(args, " "))
				if err != nil {
					return err
				}

				fmt.Fprintln(cmd.OutOrStdout(), res.Display)
				return nil
			})
		},
	}
}

func newCalcGSTCommand(opts *rootOptions) *cobra.Command {
	var mode string
	var rate float64

	cmd := &cobra.Command{
		Use:   "gst <amount>",
		Short: "Add, remove or calculate GST on an amount",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseFloat(strings.TrimSpace(args[0]), 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q", args[0])
			}

			req := ports.GSTRequest{Mode: entities.GSTMode(mode), Amount: amount}
			if cmd.Flags().Changed("rate") {
				req.Rate = &rate
			}

			return withApp(opts, func(app *App) error {
				res, err := app.CalculatorService().GST(req)
				if err != nil {
					return err
				}

				renderGST(cmd.OutOrStdout(), res)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", string(entities.GSTModeAdd), "add, remove or calculate")
	cmd.Flags().Float64VarP(&rate, "rate", "r", entities.DefaultGSTRate, "GST slab in percent (0, 5, 12, 18, 28)")
	return cmd
}

func newCalcKeypadCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "keypad",
		Short: "Open the interactive calculator keypad",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(app *App) error {
				return tui.RunKeypad(app.CalculatorService())
			})
		},
	}
}

func newCalcReplCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Evaluate expressions line by line",
		Long:  "Evaluate one expression per line. 'history' prints past results, 'quit' or EOF exits.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(app *App) error {
				return runRepl(app.CalculatorService(), cmd.InOrStdin(), cmd.OutOrStdout())
			})
		},
	}
}

func runRepl(calc *services.CalculatorService, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "quit", "exit":
			return nil
		case "history":
			for _, entry := range calc.History() {
				fmt.Fprintln(out, entry)
			}
			continue
		}

		res, err := calc.Evaluate(line)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			continue
		}
		fmt.Fprintf(out, "= %s\n", res.Display)
	}
}
