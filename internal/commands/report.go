package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"pengeluaran/internal/core"
)

func newSummaryCmd(app *App) *cobra.Command {
	var period string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show income, expense, balance and the expense breakdown",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.Ledger.Summarize(cmd.Context(), core.ParsePeriod(period))
			if err != nil {
				return err
			}

			money := func(v float64) string { return core.FormatCurrency(v, s.Currency) }
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Period %s: %s\n", s.Period, windowLabel(app.Ledger.Dates(), s.Window))

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "Income\t%s\n", money(s.Income))
			fmt.Fprintf(tw, "Expense\t%s\n", money(s.Expense))
			fmt.Fprintf(tw, "Balance\t%s\n", money(s.Balance))
			fmt.Fprintf(tw, "Transactions\t%d\n", s.Count)
			if err := tw.Flush(); err != nil {
				return err
			}

			if len(s.ByCategory) == 0 {
				return nil
			}
			fmt.Fprintln(out)
			tw = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "CATEGORY\tAMOUNT\tSHARE\tCOUNT")
			for _, c := range s.ByCategory {
				fmt.Fprintf(tw, "%s\t%s\t%.1f%%\t%d\n", c.Category, money(c.Amount), c.Share*100, c.Count)
			}
			return tw.Flush()
		},
	}

	addPeriodFlag(cmd, &period, core.Last30Days)
	return cmd
}

func newTrendCmd(app *App) *cobra.Command {
	var (
		period    string
		skipEmpty bool
	)

	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Show income and expense per day or month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := app.Ledger.Trend(cmd.Context(), core.ParsePeriod(period))
			if err != nil {
				return err
			}

			code := app.Ledger.Currency().Code()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Period %s by %s: %s\n", tr.Period, tr.Granularity, windowLabel(app.Ledger.Dates(), tr.Window))

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(tw, "\tINCOME\tEXPENSE\t")
			for _, b := range tr.Buckets {
				if skipEmpty && b.Income == 0 && b.Expense == 0 {
					continue
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t\n", b.Label,
					core.FormatCurrency(b.Income, code), core.FormatCurrency(b.Expense, code))
			}
			return tw.Flush()
		},
	}

	addPeriodFlag(cmd, &period, core.Last30Days)
	cmd.Flags().BoolVar(&skipEmpty, "skip-empty", false, "Hide buckets without transactions")
	return cmd
}
