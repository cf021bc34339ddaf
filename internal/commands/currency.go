package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"pengeluaran/internal/core"
)

func newCurrencyCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "currency [code]",
		Short: "Show or set the display currency",
		Long:  `Without arguments prints the display currency. With an ISO 4217 code (IDR, USD, EUR, ...) stores it as the new preference.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pref := app.Ledger.Currency()
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				fmt.Fprintf(out, "%s (%s)\n", pref.Code(), pref.Format(1234567.89))
				return nil
			}

			if err := pref.Set(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(out, "Currency set to %s (%s, locale %s)\n",
				pref.Code(), pref.Format(1234567.89), core.CurrencyLocale(pref.Code()))
			return nil
		},
	}
}
