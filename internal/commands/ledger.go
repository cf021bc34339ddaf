package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"pengeluaran/internal/core"
	"pengeluaran/internal/services"
)

func newAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "add <income|expense> <amount> <category> [description...]",
		Short:   "Record a transaction",
		Example: "  pengeluaran add expense 45000 food nasi goreng\n  pengeluaran add income 8500000 salary",
		Args:    cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := core.ParseKind(args[0])
			if err != nil {
				return fmt.Errorf("invalid kind %q: %w", args[0], err)
			}
			amount, err := parseAmount(args[1], app.Ledger.Currency().Code())
			if err != nil {
				return err
			}

			tx, err := app.Ledger.Add(cmd.Context(), services.NewTransaction{
				Kind:        kind,
				Amount:      amount,
				Category:    core.ParseCategory(args[2]),
				Description: strings.Join(args[3:], " "),
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s %s (%s)\n",
				tx.Kind, app.Ledger.Currency().Format(tx.Amount), tx.Category, tx.ID)
			return nil
		},
	}
}

func newEditCmd(app *App) *cobra.Command {
	var (
		amount      string
		category    string
		description string
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change the amount, category or description of a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch services.TransactionPatch
			flags := cmd.Flags()
			if flags.Changed("amount") {
				v, err := parseAmount(amount, app.Ledger.Currency().Code())
				if err != nil {
					return err
				}
				patch.Amount = &v
			}
			if flags.Changed("category") {
				c := core.ParseCategory(category)
				patch.Category = &c
			}
			if flags.Changed("description") {
				patch.Description = &description
			}

			tx, err := app.Ledger.Edit(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s: %s %s %s\n",
				tx.ID, tx.Kind, app.Ledger.Currency().Format(tx.Amount), tx.Category)
			return nil
		},
	}

	cmd.Flags().StringVarP(&amount, "amount", "a", "", "New amount")
	cmd.Flags().StringVarP(&category, "category", "c", "", "New category")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")
	return cmd
}

func newRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>...",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete transactions",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, id := range args {
				if err := app.Ledger.Remove(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", id)
			}
			return nil
		},
	}
}

func newListCmd(app *App) *cobra.Command {
	var (
		period   string
		category string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List transactions, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			var txs []core.Transaction
			if category != "" {
				var err error
				txs, err = app.Ledger.ListCategory(ctx, core.ParseCategory(category))
				if err != nil {
					return err
				}
			} else {
				p := core.ParsePeriod(period)
				var (
					w   core.Window
					err error
				)
				txs, w, err = app.Ledger.List(ctx, p)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Period %s: %s\n", p, windowLabel(app.Ledger.Dates(), w))
			}

			if len(txs) == 0 {
				fmt.Fprintln(out, "No transactions.")
				return nil
			}
			return writeRows(out, app.Ledger.Render(txs))
		},
	}

	addPeriodFlag(cmd, &period, core.Last30Days)
	cmd.Flags().StringVarP(&category, "category", "c", "", "Only this category, across all time")
	return cmd
}

func writeRows(out io.Writer, rows []services.Row) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tKIND\tCATEGORY\tAMOUNT\tDESCRIPTION")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.Date, r.Kind, r.Category, r.Amount, r.Description)
	}
	return tw.Flush()
}
