// Package commands implements the pengeluaran command line.
package commands

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"pengeluaran/internal/core"
	applog "pengeluaran/internal/log"
	"pengeluaran/internal/services"
)

// App is what the commands operate on.
type App struct {
	Ledger    *services.LedgerService
	ExportDir string
	Logger    *applog.Logger
}

// NewRootCmd builds the command tree bound to app.
func NewRootCmd(app *App) *cobra.Command {
	if app.Logger == nil {
		app.Logger = applog.Discard()
	}
	if app.ExportDir == "" {
		app.ExportDir = "."
	}

	root := &cobra.Command{
		Use:           "pengeluaran",
		Short:         "Track personal income and expenses",
		Long:          `A personal ledger: record income and expenses, then summarize, chart and export them by period (7d, 30d, 6m, 12m, all).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newAddCmd(app),
		newEditCmd(app),
		newRemoveCmd(app),
		newListCmd(app),
		newSummaryCmd(app),
		newTrendCmd(app),
		newCurrencyCmd(app),
		newExportCmd(app),
	)
	return root
}

// Execute runs the command tree with args under ctx.
func Execute(ctx context.Context, app *App, args []string) error {
	root := NewRootCmd(app)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func addPeriodFlag(cmd *cobra.Command, target *string, def core.Period) {
	cmd.Flags().StringVarP(target, "period", "p", def.String(), "Period: 7d, 30d, 6m, 12m or all")
}

// parseAmount accepts a plain decimal number ("50000", "12.5") or an amount
// written the way the current currency is displayed ("Rp 50.000"). Digits
// in groups of three joined by the currency's group separator are read as
// thousands, so "50.000" is fifty thousand under IDR.
func parseAmount(s, code string) (float64, error) {
	s = strings.TrimSpace(s)
	if !groupedNumber(s, code) {
		if d, err := decimal.NewFromString(s); err == nil {
			v, _ := d.Float64()
			return v, core.ValidateAmount(v)
		}
	}
	v, err := core.ParseCurrency(s, code)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return v, core.ValidateAmount(v)
}

func groupedNumber(s, code string) bool {
	group, point := core.CurrencySeparators(code)
	re := regexp.MustCompile(`^\d{1,3}(` + regexp.QuoteMeta(group) + `\d{3})+(` + regexp.QuoteMeta(point) + `\d+)?$`)
	return re.MatchString(s)
}

func windowLabel(dates core.DateFormatter, w core.Window) string {
	return fmt.Sprintf("%s - %s", dates.FormatMillis(w.Start), dates.FormatMillis(w.End))
}
