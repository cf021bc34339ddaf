package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"pengeluaran/internal/core"
	"pengeluaran/internal/export"
	applog "pengeluaran/internal/log"
)

func newExportCmd(app *App) *cobra.Command {
	var (
		period  string
		formats string
		outDir  string
		name    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write transactions to CSV and/or XLSX files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, err := export.ParseFormats(formats)
			if err != nil {
				return err
			}

			p := core.ParsePeriod(period)
			txs, w, err := app.Ledger.List(cmd.Context(), p)
			if err != nil {
				return err
			}

			if outDir == "" {
				outDir = app.ExportDir
			}
			if name == "" {
				end := core.FromMillis(w.End).In(app.Ledger.Dates().Location())
				name = fmt.Sprintf("pengeluaran-%s-%s", p, end.Format("20060102"))
			}

			writer := export.New(outDir, app.Ledger.Currency().Code(), app.Ledger.Dates())
			paths, err := writer.WriteAll(cmd.Context(), name, fs, txs)
			if err != nil {
				return fmt.Errorf("failed to export transactions: %w", err)
			}

			app.Logger.InfoContext(cmd.Context(), "Exported transactions",
				applog.NewFields().
					WithComponent(applog.ComponentExport).
					WithWindow(p.String(), w.Start, w.End).
					WithCount(len(txs)).
					WithOperation(applog.OpExport).
					ToSlice()...)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Exported %d transactions\n", len(txs))
			for _, path := range paths {
				fmt.Fprintln(out, path)
			}
			return nil
		},
	}

	addPeriodFlag(cmd, &period, core.AllTime)
	cmd.Flags().StringVarP(&formats, "format", "f", "csv", "Comma separated formats: csv, xlsx")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory (defaults to EXPORT_DIR)")
	cmd.Flags().StringVarP(&name, "name", "n", "", "Base file name without extension")
	return cmd
}
